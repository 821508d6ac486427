package queries

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderReader loads an order aggregate. ports.OrderRepository satisfies it.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// GetOrderQueryHandler returns the whole aggregate to the parties of the order:
// its customer, its vendor, the assigned rider and picker, and admins.
type GetOrderQueryHandler struct {
	orders OrderReader
}

func NewGetOrderQueryHandler(orders OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	if !canView(query.Requester(), o) {
		return nil, ErrOrderNotVisible
	}
	return o, nil
}

func canView(r commands.Requester, o *order.Order) bool {
	switch r.Role() {
	case commands.RoleAdmin, commands.RoleSystem:
		return true
	case commands.RoleCustomer:
		return r.ID().IsEqual(o.CustomerID())
	case commands.RoleVendor:
		return r.CanManageVendor(o.VendorID()) == nil
	case commands.RoleRider:
		return kernel.UUIDPtrEqual(o.Rider(), ptr(r.ID()))
	case commands.RolePicker:
		return kernel.UUIDPtrEqual(o.Picking().PickerID, ptr(r.ID()))
	default:
		return false
	}
}

func ptr(id kernel.UUID) *kernel.UUID {
	return &id
}
