package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/picker"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestStoreCommandIsNotConstructed = errors.New(
	"RequestStoreCommand must be created via NewRequestStoreCommand constructor",
)

// RequestStoreCommand is a picker asking to work at a vendor's store.
type RequestStoreCommand struct { //nolint:recvcheck //using for validation
	vendorID  kernel.UUID
	role      picker.Role
	sections  []string
	requester Requester

	guard guard.ConstructorGuard
}

func NewRequestStoreCommand(vendorID kernel.UUID, role string, sections []string, requester Requester) (RequestStoreCommand, error) {
	parsedRole, roleErr := picker.ParseRole(role)
	if err := errors.Join(vendorID.Validate(), roleErr, requester.Validate()); err != nil {
		return RequestStoreCommand{}, err
	}

	cleaned := make([]string, 0, len(sections))
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}

	return RequestStoreCommand{
		vendorID:  vendorID,
		role:      parsedRole,
		sections:  cleaned,
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RequestStoreCommand) Validate() error {
	return c.guard.Validate(ErrRequestStoreCommandIsNotConstructed)
}

func (c RequestStoreCommand) VendorID() kernel.UUID {
	return c.vendorID
}

func (c RequestStoreCommand) Role() picker.Role {
	return c.role
}

func (c RequestStoreCommand) Sections() []string {
	return append([]string(nil), c.sections...)
}

func (c RequestStoreCommand) Requester() Requester {
	return c.requester
}
