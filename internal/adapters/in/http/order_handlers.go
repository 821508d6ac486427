package http

import (
	"errors"
	"fmt"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/orders. Customers always order for
// themselves; admins name the customer.
func (s *Server) CreateOrder(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	var body createOrderBody
	if err = bindBody(c, &body); err != nil {
		return err
	}

	customerID := requester.ID()
	if requester.Role() != commands.RoleCustomer {
		id, err := optionalUUID("customerId", body.CustomerID)
		if err != nil {
			return err
		}
		if id == nil {
			return errs.NewValueIsRequiredError("customerId")
		}
		customerID = *id
	}
	vendorID, err := requiredUUID("vendorId", body.VendorID)
	if err != nil {
		return err
	}
	address, err := body.DeliveryAddress.address()
	if err != nil {
		return err
	}

	var amountErrs []error
	amount := func(field string, major float64) kernel.Money {
		m, err := kernel.ParseMajor(field, major)
		amountErrs = append(amountErrs, err)
		return m
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for i, it := range body.Items {
		lines = append(lines, commands.OrderLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: amount(fmt.Sprintf("items[%d].price", i), it.Price),
			Quantity:  it.Quantity,
		})
	}
	deliveryFee := amount("deliveryFee", body.DeliveryFee)
	tax := amount("tax", body.Tax)
	discount := amount("discount", body.Discount)
	if err = errors.Join(amountErrs...); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(customerID, vendorID, address, lines, deliveryFee, tax, discount)
	if err != nil {
		return err
	}
	o, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Order created", toOrder(o))
}

// GetOrder handles GET /api/orders/:orderId.
func (s *Server) GetOrder(c echo.Context) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID, requester)
	if err != nil {
		return err
	}
	o, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", toOrder(o))
}

func (s *Server) ConfirmOrder(c echo.Context) error {
	return s.orderAction(c, commands.ConfirmOrder, "Order confirmed")
}

func (s *Server) CancelOrder(c echo.Context) error {
	return s.orderAction(c, commands.CancelOrder, "Order cancelled")
}

func (s *Server) CompleteOrder(c echo.Context) error {
	return s.orderAction(c, commands.CompleteOrder, "Order completed")
}

func (s *Server) orderAction(c echo.Context, action commands.OrderAction, message string) error {
	requester, err := requesterFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var body cancelBody
	if action == commands.CancelOrder {
		if err = bindBody(c, &body); err != nil {
			return err
		}
	}

	cmd, err := commands.NewOrderActionCommand(action, orderID, body.Reason, requester)
	if err != nil {
		return err
	}
	o, err := s.handlers.OrderAction.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, message, toOrder(o))
}
