package http

import (
	"fmt"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

var pickingSteps = map[string]struct {
	step    commands.PickingStep
	message string
}{
	"start":  {commands.StartPicking, "Picking started"},
	"finish": {commands.FinishPicking, "Picking completed"},
	"pack":   {commands.PackOrder, "Order packed and ready for pickup"},
}

// AssignPicker handles POST /api/orders/:orderId/picker.
func (s *Server) AssignPicker(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body assignPickerBody
	if err = bindBody(c, &body); err != nil {
		return err
	}
	pickerID, err := requiredUUID("pickerId", body.PickerID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignPickerCommand(orderID, pickerID, requester)
	if err != nil {
		return err
	}
	o, err := s.handlers.AssignPicker.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Picker assigned", toOrder(o))
}

// PickingStep handles POST /api/orders/:orderId/picking/:step.
func (s *Server) PickingStep(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	name, err := pathString(c, "step")
	if err != nil {
		return err
	}
	step, ok := pickingSteps[name]
	if !ok {
		return fmt.Errorf("%w: unknown picking step %q", ErrBadRequest, name)
	}

	cmd, err := commands.NewPickingStepCommand(step.step, orderID, requester)
	if err != nil {
		return err
	}
	o, err := s.handlers.PickingStep.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, step.message, toOrder(o))
}

// UpdatePickedItem handles POST /api/orders/:orderId/picking/items/:productId.
func (s *Server) UpdatePickedItem(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	productID, err := pathString(c, "productId")
	if err != nil {
		return err
	}
	var body pickedItemBody
	if err = bindBody(c, &body); err != nil {
		return err
	}
	var substitutePrice *kernel.Money
	if body.SubstitutePrice != nil {
		price, err := kernel.ParseMajor("substitutePrice", *body.SubstitutePrice)
		if err != nil {
			return err
		}
		substitutePrice = &price
	}

	cmd, err := commands.NewUpdatePickedItemCommand(
		orderID, productID, body.Status, body.SubstituteName, substitutePrice, body.Issue, requester,
	)
	if err != nil {
		return err
	}
	o, err := s.handlers.UpdatePickedItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Item updated", toOrder(o))
}

// RequestStore handles POST /api/pickers/stores/:vendorId/request.
func (s *Server) RequestStore(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	vendorID, err := pathUUID(c, "vendorId")
	if err != nil {
		return err
	}
	var body requestStoreBody
	if err = bindBody(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewRequestStoreCommand(vendorID, body.Role, body.Sections, requester)
	if err != nil {
		return err
	}
	p, err := s.handlers.RequestStore.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Store connection requested", toPicker(p))
}

// ReviewPicker handles POST /api/vendors/pickers/:pickerId/review.
func (s *Server) ReviewPicker(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	pickerID, err := pathUUID(c, "pickerId")
	if err != nil {
		return err
	}
	var body reviewPickerBody
	if err = bindBody(c, &body); err != nil {
		return err
	}
	vendorID, err := optionalUUID("vendorId", body.VendorID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReviewPickerCommand(pickerID, vendorID, body.Decision, body.Notes, requester)
	if err != nil {
		return err
	}
	p, err := s.handlers.ReviewPicker.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Picker reviewed", toPicker(p))
}

func (s *Server) CheckIn(c echo.Context) error {
	return s.changeShift(c, true, "Checked in")
}

func (s *Server) CheckOut(c echo.Context) error {
	return s.changeShift(c, false, "Checked out")
}

func (s *Server) changeShift(c echo.Context, checkIn bool, message string) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	vendorID, err := pathUUID(c, "vendorId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangePickerShiftCommand(vendorID, checkIn, requester)
	if err != nil {
		return err
	}
	p, err := s.handlers.ChangeShift.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, message, toPicker(p))
}
