package http

import (
	"fmt"
	"io"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// riderStep collects what every rider delivery action needs.
func riderStep(c echo.Context, body any) (commands.Requester, kernel.UUID, error) {
	requester, err := requesterFrom(c)
	if err != nil {
		return commands.Requester{}, kernel.UUID{}, err
	}
	deliveryID, err := pathUUID(c, "deliveryId")
	if err != nil {
		return commands.Requester{}, kernel.UUID{}, err
	}
	if body != nil {
		if err = bindBody(c, body); err != nil {
			return commands.Requester{}, kernel.UUID{}, err
		}
	}
	return requester, deliveryID, nil
}

// AcceptDelivery handles POST /api/picker/deliveries/:deliveryId/accept.
func (s *Server) AcceptDelivery(c echo.Context) error {
	var body locationBody
	requester, deliveryID, err := riderStep(c, &body)
	if err != nil {
		return err
	}
	location, err := body.point()
	if err != nil {
		return err
	}

	cmd, err := commands.NewAcceptDeliveryCommand(deliveryID, location, requester)
	if err != nil {
		return err
	}
	d, err := s.handlers.Accept.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Delivery accepted", toDelivery(d))
}

// RejectDelivery handles POST /api/picker/deliveries/:deliveryId/reject.
func (s *Server) RejectDelivery(c echo.Context) error {
	var body rejectBody
	requester, deliveryID, err := riderStep(c, &body)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRejectDeliveryCommand(deliveryID, body.Reason, requester)
	if err != nil {
		return err
	}
	d, err := s.handlers.Reject.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Delivery rejected", toDelivery(d))
}

// PickupDelivery handles POST /api/picker/deliveries/:deliveryId/pickup.
func (s *Server) PickupDelivery(c echo.Context) error {
	var body pickupBody
	requester, deliveryID, err := riderStep(c, &body)
	if err != nil {
		return err
	}
	location, err := body.point()
	if err != nil {
		return err
	}

	cmd, err := commands.NewPickupDeliveryCommand(deliveryID, body.Photos, location, requester)
	if err != nil {
		return err
	}
	d, err := s.handlers.Pickup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order picked up", toDelivery(d))
}

// MarkInTransit handles POST /api/picker/deliveries/:deliveryId/in-transit.
func (s *Server) MarkInTransit(c echo.Context) error {
	var body locationBody
	requester, deliveryID, err := riderStep(c, &body)
	if err != nil {
		return err
	}
	location, err := body.point()
	if err != nil {
		return err
	}

	cmd, err := commands.NewInTransitDeliveryCommand(deliveryID, location, requester)
	if err != nil {
		return err
	}
	d, err := s.handlers.InTransit.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Delivery in transit", toDelivery(d))
}

// CompleteDelivery handles POST /api/picker/deliveries/:deliveryId/complete.
func (s *Server) CompleteDelivery(c echo.Context) error {
	var body completeBody
	requester, deliveryID, err := riderStep(c, &body)
	if err != nil {
		return err
	}
	location, err := body.point()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteDeliveryCommand(
		deliveryID, body.Photos, body.Signature, body.RecipientName, body.Notes, location, requester,
	)
	if err != nil {
		return err
	}
	d, err := s.handlers.Complete.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Delivery completed successfully", toDelivery(d))
}

// ReportIssue handles POST /api/picker/deliveries/:deliveryId/report-issue.
func (s *Server) ReportIssue(c echo.Context) error {
	var body reportIssueBody
	requester, deliveryID, err := riderStep(c, &body)
	if err != nil {
		return err
	}
	location, err := body.point()
	if err != nil {
		return err
	}

	cmd, err := commands.NewReportIssueCommand(deliveryID, body.Type, body.Description, location, requester)
	if err != nil {
		return err
	}
	d, err := s.handlers.ReportIssue.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Issue reported", toDelivery(d))
}

// UploadDeliveryPhoto handles POST /api/picker/deliveries/:deliveryId/photos.
// The returned URL is passed back in the pickup or complete request.
func (s *Server) UploadDeliveryPhoto(c echo.Context) error {
	requester, deliveryID, err := riderStep(c, nil)
	if err != nil {
		return err
	}

	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, commands.MaxPhotoBytes+1<<20)
	file, err := c.FormFile("photo")
	if err != nil {
		return fmt.Errorf("%w: photo: %w", ErrBadRequest, err)
	}
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: photo: %w", ErrBadRequest, err)
	}
	defer src.Close()

	cmd, err := commands.NewUploadDeliveryPhotoCommand(
		deliveryID,
		file.Filename,
		file.Header.Get(echo.HeaderContentType),
		file.Size,
		io.LimitReader(src, commands.MaxPhotoBytes+1),
		requester,
	)
	if err != nil {
		return err
	}
	url, err := s.handlers.UploadPhoto.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Photo uploaded", map[string]string{"url": url})
}

// GetActiveDeliveries handles GET /api/picker/deliveries/active.
func (s *Server) GetActiveDeliveries(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetActiveDeliveriesQuery(requester.ID())
	if err != nil {
		return err
	}
	list, err := s.handlers.ActiveDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", toActiveDeliveries(list))
}

// GetRiderEarnings handles GET /api/picker/earnings.
func (s *Server) GetRiderEarnings(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	period, err := optionalQuery[string](c, "period")
	if err != nil {
		return err
	}
	var p string
	if period != nil {
		p = *period
	}

	query, err := queries.NewGetRiderEarningsQuery(requester.ID(), p)
	if err != nil {
		return err
	}
	earnings, err := s.handlers.Earnings.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", toEarnings(earnings))
}
