package queries

import (
	"errors"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrOrderNotVisible = errs.NewActionIsForbiddenError("order is not visible to the caller")
)

type GetOrderQuery struct {
	orderID   kernel.UUID
	requester commands.Requester

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, requester commands.Requester) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), requester.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, requester: requester, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Requester() commands.Requester {
	return q.requester
}
