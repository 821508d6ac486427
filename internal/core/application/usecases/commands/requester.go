package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Role is the caller's role as asserted by the verified bearer token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RolePicker   Role = "picker"
	RoleRider    Role = "rider"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

var (
	ErrRequesterIsNotConstructed = errors.New("Requester must be created via NewRequester constructor")
	ErrNotStoreManager           = errs.NewActionIsForbiddenError("order belongs to another vendor")
)

// Requester is the authenticated caller of a command.
type Requester struct {
	id       kernel.UUID
	role     Role
	vendorID *kernel.UUID
	guard    guard.ConstructorGuard
}

// NewRequester builds a caller. For vendors without an explicit vendorID the
// user id is the vendor id.
func NewRequester(id kernel.UUID, role Role, vendorID *kernel.UUID) (Requester, error) {
	if err := id.Validate(); err != nil {
		return Requester{}, errs.NewValueIsRequiredErrorWithCause("sub", err)
	}
	switch role {
	case RoleCustomer, RoleVendor, RolePicker, RoleRider, RoleAdmin, RoleSystem:
	default:
		return Requester{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", role))
	}
	if role == RoleVendor && vendorID == nil {
		own := id
		vendorID = &own
	}
	return Requester{id: id, role: role, vendorID: vendorID, guard: guard.NewConstructorGuard()}, nil
}

// SystemRequester is used by background jobs.
func SystemRequester() Requester {
	return Requester{id: systemActorID, role: RoleSystem, guard: guard.NewConstructorGuard()}
}

var systemActorID = kernel.MustUUIDFromString("00000000-0000-4000-8000-000000000001")

func (r Requester) Validate() error {
	return r.guard.Validate(ErrRequesterIsNotConstructed)
}

func (r Requester) ID() kernel.UUID {
	return r.id
}

func (r Requester) Role() Role {
	return r.role
}

func (r Requester) VendorID() *kernel.UUID {
	return r.vendorID
}

// CanManageVendor allows admins, the system and the vendor owning the store.
func (r Requester) CanManageVendor(vendorID kernel.UUID) error {
	switch r.role {
	case RoleAdmin, RoleSystem:
		return nil
	case RoleVendor:
		if r.vendorID != nil && r.vendorID.IsEqual(vendorID) {
			return nil
		}
	}
	return ErrNotStoreManager
}

// Actor maps the caller to a delivery timeline actor.
func (r Requester) Actor() delivery.Actor {
	role := delivery.ActorRole(r.role)
	if r.role == RoleSystem {
		role = delivery.ActorSystem
	}
	return delivery.Actor{ID: r.id, Role: role}
}
