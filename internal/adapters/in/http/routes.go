package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/rs/cors"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig holds the edge settings of the HTTP server.
type RouterConfig struct {
	CORSOrigins   []string
	RatePerSecond float64
	Burst         int
}

// NewEcho builds the echo instance with middleware and every route registered.
func NewEcho(s *Server, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.INFO)
	e.HTTPErrorHandler = ErrorHandler(s.logger)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Pre(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}).Handler))
	e.Use(requestLogger(s.logger))
	e.Use(middleware.Recover())
	if cfg.RatePerSecond > 0 {
		e.Use(NewRateLimiter(cfg.RatePerSecond, cfg.Burst).Middleware())
	}

	e.GET("/health", s.Health)
	e.GET("/openapi.json", s.OpenAPIDocument)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws", s.Subscribe)

	api := e.Group("/api", s.auth.Middleware(), s.openapi.Validator(skipMultipart))

	managers := RequireRoles(commands.RoleVendor, commands.RoleAdmin)
	assignment := api.Group("/delivery-assignment", managers)
	assignment.POST("/auto-assign/:orderId", s.AutoAssignRider)
	assignment.POST("/manual-assign/:orderId", s.ManualAssignRider)
	assignment.GET("/available-riders/:vendorId", s.GetAvailableRiders)
	assignment.POST("/reassign/:deliveryId", s.ReassignRider)

	rider := api.Group("/picker", RequireRoles(commands.RoleRider))
	rider.GET("/deliveries/active", s.GetActiveDeliveries)
	rider.GET("/earnings", s.GetRiderEarnings)
	rider.POST("/deliveries/:deliveryId/accept", s.AcceptDelivery)
	rider.POST("/deliveries/:deliveryId/reject", s.RejectDelivery)
	rider.POST("/deliveries/:deliveryId/pickup", s.PickupDelivery)
	rider.POST("/deliveries/:deliveryId/in-transit", s.MarkInTransit)
	rider.POST("/deliveries/:deliveryId/complete", s.CompleteDelivery)
	rider.POST("/deliveries/:deliveryId/report-issue", s.ReportIssue)
	rider.POST("/deliveries/:deliveryId/photos", s.UploadDeliveryPhoto)

	pickers := RequireRoles(commands.RolePicker)
	api.POST("/orders", s.CreateOrder, RequireRoles(commands.RoleCustomer, commands.RoleAdmin))
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/confirm", s.ConfirmOrder, managers)
	api.POST("/orders/:orderId/cancel", s.CancelOrder,
		RequireRoles(commands.RoleCustomer, commands.RoleVendor, commands.RoleAdmin))
	api.POST("/orders/:orderId/complete", s.CompleteOrder, RequireRoles(commands.RoleCustomer))
	api.POST("/orders/:orderId/picker", s.AssignPicker, managers)
	api.POST("/orders/:orderId/picking/items/:productId", s.UpdatePickedItem, pickers)
	api.POST("/orders/:orderId/picking/:step", s.PickingStep, pickers)

	api.POST("/pickers/stores/:vendorId/request", s.RequestStore, pickers)
	api.POST("/pickers/stores/:vendorId/check-in", s.CheckIn, pickers)
	api.POST("/pickers/stores/:vendorId/check-out", s.CheckOut, pickers)
	api.POST("/vendors/pickers/:pickerId/review", s.ReviewPicker, managers)

	return e
}

// skipMultipart leaves photo uploads to the handler; the document only
// describes their form field.
func skipMultipart(c echo.Context) bool {
	return strings.HasSuffix(c.Path(), "/photos")
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "Request", attrs...)
			return nil
		},
	})
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return respond(c, http.StatusOK, "", map[string]any{
		"status":     "ok",
		"operations": s.openapi.Operations(),
	})
}

// OpenAPIDocument handles GET /openapi.json.
func (s *Server) OpenAPIDocument(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, s.openapi.JSON())
}

// Subscribe handles GET /ws?token=. Browsers cannot set headers on a
// websocket handshake, so the bearer token travels in the query string.
func (s *Server) Subscribe(c echo.Context) error {
	requester, err := s.auth.Verify(c.QueryParam("token"))
	if err != nil {
		return err
	}

	rooms := []string{commands.UserTopic(requester.ID())}
	if requester.Role() == commands.RoleVendor && requester.VendorID() != nil {
		rooms = append(rooms, commands.VendorTopic(*requester.VendorID()))
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the failure response.
		s.logger.WarnContext(c.Request().Context(), "Websocket upgrade failed", "error", err)
		return nil
	}
	if err = s.hub.Serve(conn, rooms); err != nil {
		s.logger.WarnContext(c.Request().Context(), "Websocket rejected", "user", requester.ID().String(), "error", err)
		_ = conn.Close()
	}
	return nil
}
