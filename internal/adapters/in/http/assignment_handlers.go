package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// AutoAssignRider handles POST /api/delivery-assignment/auto-assign/:orderId.
func (s *Server) AutoAssignRider(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body autoAssignBody
	if err = bindBody(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewAutoAssignRiderCommand(orderID, body.VehicleType, requester)
	if err != nil {
		return err
	}
	result, err := s.handlers.AutoAssign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Rider assigned successfully", toAssignment(result))
}

// ManualAssignRider handles POST /api/delivery-assignment/manual-assign/:orderId.
func (s *Server) ManualAssignRider(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body manualAssignBody
	if err = bindBody(c, &body); err != nil {
		return err
	}
	riderID, err := requiredUUID("riderId", body.RiderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewManualAssignRiderCommand(orderID, riderID, requester)
	if err != nil {
		return err
	}
	result, err := s.handlers.ManualAssign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Rider assigned successfully", toAssignment(result))
}

// GetAvailableRiders handles GET /api/delivery-assignment/available-riders/:vendorId.
func (s *Server) GetAvailableRiders(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	vendorID, err := pathUUID(c, "vendorId")
	if err != nil {
		return err
	}
	vehicle, err := optionalQuery[string](c, "vehicleType")
	if err != nil {
		return err
	}
	radius, err := optionalQuery[float64](c, "radius")
	if err != nil {
		return err
	}
	var vehicleType string
	if vehicle != nil {
		vehicleType = *vehicle
	}

	query, err := queries.NewGetAvailableRidersQuery(vendorID, vehicleType, radius, requester)
	if err != nil {
		return err
	}
	riders, err := s.handlers.AvailableRiders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", toAvailableRiders(riders))
}

// ReassignRider handles POST /api/delivery-assignment/reassign/:deliveryId.
func (s *Server) ReassignRider(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	deliveryID, err := pathUUID(c, "deliveryId")
	if err != nil {
		return err
	}
	var body reassignBody
	if err = bindBody(c, &body); err != nil {
		return err
	}
	newRiderID, err := requiredUUID("newRiderId", body.NewRiderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReassignRiderCommand(deliveryID, newRiderID, body.Reason, requester)
	if err != nil {
		return err
	}
	d, err := s.handlers.Reassign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Delivery reassigned successfully", toDelivery(d))
}
