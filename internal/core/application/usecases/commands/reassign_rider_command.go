package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReassignRiderCommandIsNotConstructed = errors.New(
	"ReassignRiderCommand must be created via NewReassignRiderCommand constructor",
)

// ReassignRiderCommand moves a delivery that is still assigned to another rider.
type ReassignRiderCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	newRiderID kernel.UUID
	reason     string
	requester  Requester

	guard guard.ConstructorGuard
}

func NewReassignRiderCommand(
	deliveryID, newRiderID kernel.UUID,
	reason string,
	requester Requester,
) (ReassignRiderCommand, error) {
	cmd := ReassignRiderCommand{
		deliveryID: deliveryID,
		newRiderID: newRiderID,
		reason:     strings.TrimSpace(reason),
		requester:  requester,
		guard:      guard.NewConstructorGuard(),
	}

	var reasonErr error
	if cmd.reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}
	if err := errors.Join(deliveryID.Validate(), newRiderID.Validate(), reasonErr, requester.Validate()); err != nil {
		return ReassignRiderCommand{}, err
	}

	return cmd, nil
}

func (c ReassignRiderCommand) Validate() error {
	return c.guard.Validate(ErrReassignRiderCommandIsNotConstructed)
}

func (c ReassignRiderCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c ReassignRiderCommand) NewRiderID() kernel.UUID {
	return c.newRiderID
}

func (c ReassignRiderCommand) Reason() string {
	return c.reason
}

func (c ReassignRiderCommand) Requester() Requester {
	return c.requester
}
