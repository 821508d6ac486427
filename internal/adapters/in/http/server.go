package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/adapters/out/realtime"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/picker"

	"github.com/gorilla/websocket"
)

// Handler is the inbound port of a single use case.
type Handler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers lists the use cases reachable over HTTP.
type Handlers struct {
	AutoAssign      Handler[commands.AutoAssignRiderCommand, commands.AssignmentResult]
	ManualAssign    Handler[commands.ManualAssignRiderCommand, commands.AssignmentResult]
	Reassign        Handler[commands.ReassignRiderCommand, *delivery.Delivery]
	AvailableRiders Handler[queries.GetAvailableRidersQuery, []queries.AvailableRider]

	Accept      Handler[commands.AcceptDeliveryCommand, *delivery.Delivery]
	Reject      Handler[commands.RejectDeliveryCommand, *delivery.Delivery]
	Pickup      Handler[commands.PickupDeliveryCommand, *delivery.Delivery]
	InTransit   Handler[commands.InTransitDeliveryCommand, *delivery.Delivery]
	Complete    Handler[commands.CompleteDeliveryCommand, *delivery.Delivery]
	ReportIssue Handler[commands.ReportIssueCommand, *delivery.Delivery]
	UploadPhoto Handler[commands.UploadDeliveryPhotoCommand, string]

	ActiveDeliveries Handler[queries.GetActiveDeliveriesQuery, []queries.ActiveDelivery]
	Earnings         Handler[queries.GetRiderEarningsQuery, queries.RiderEarnings]

	CreateOrder Handler[commands.CreateOrderCommand, *order.Order]
	GetOrder    Handler[queries.GetOrderQuery, *order.Order]
	OrderAction Handler[commands.OrderActionCommand, *order.Order]

	AssignPicker     Handler[commands.AssignPickerCommand, *order.Order]
	PickingStep      Handler[commands.PickingStepCommand, *order.Order]
	UpdatePickedItem Handler[commands.UpdatePickedItemCommand, *order.Order]

	RequestStore Handler[commands.RequestStoreCommand, *picker.Picker]
	ReviewPicker Handler[commands.ReviewPickerCommand, *picker.Picker]
	ChangeShift  Handler[commands.ChangePickerShiftCommand, *picker.Picker]
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	hub      *realtime.Hub
	auth     *Authenticator
	openapi  *OpenAPI
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewServer(
	handlers Handlers,
	hub *realtime.Hub,
	auth *Authenticator,
	openapi *OpenAPI,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		hub:      hub,
		auth:     auth,
		openapi:  openapi,
		logger:   logger.With("component", "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers are already filtered by CORS and the token check.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}
