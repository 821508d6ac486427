package picker

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// LinkStatus is the vendor's decision on a picker's store request.
type LinkStatus string

const (
	LinkPending   LinkStatus = "pending"
	LinkApproved  LinkStatus = "approved"
	LinkRejected  LinkStatus = "rejected"
	LinkSuspended LinkStatus = "suspended"
)

func ParseLinkStatus(s string) (LinkStatus, error) {
	switch LinkStatus(s) {
	case LinkPending, LinkApproved, LinkRejected, LinkSuspended:
		return LinkStatus(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a store link status", s))
	}
}

// Role is what the picker does in the store.
type Role string

const (
	RolePicker     Role = "picker"
	RolePacker     Role = "packer"
	RoleSupervisor Role = "supervisor"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePicker, RolePacker, RoleSupervisor:
		return Role(s), nil
	case "":
		return RolePicker, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a picker role", s))
	}
}

// Decision is the vendor's review verb.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionSuspend Decision = "suspend"
)

func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionApprove, DecisionReject, DecisionSuspend:
		return Decision(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q must be approve, reject or suspend", s))
	}
}

func (d Decision) outcome() LinkStatus {
	switch d {
	case DecisionApprove:
		return LinkApproved
	case DecisionSuspend:
		return LinkSuspended
	default:
		return LinkRejected
	}
}

// StoreLink ties a picker to one vendor's store.
type StoreLink struct {
	VendorID    kernel.UUID
	Status      LinkStatus
	Role        Role
	Sections    []string
	RequestedAt time.Time
	ReviewedAt  *time.Time
	Notes       string
}
