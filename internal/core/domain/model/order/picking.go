package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// PickingStatus tracks the in-store picking sub-document.
type PickingStatus int

const (
	PickingUnknown PickingStatus = iota
	PickingPending
	PickingAssigned
	PickingInProgress
	PickingCompleted
	PickingPacked
)

var pickingStatusStrings = map[PickingStatus]string{
	PickingPending:    "pending",
	PickingAssigned:   "assigned",
	PickingInProgress: "in_progress",
	PickingCompleted:  "completed",
	PickingPacked:     "packed",
}

var pickingTransitions = map[PickingStatus][]PickingStatus{
	PickingPending:    {PickingAssigned},
	PickingAssigned:   {PickingAssigned, PickingInProgress},
	PickingInProgress: {PickingCompleted},
	PickingCompleted:  {PickingPacked},
}

func ParsePickingStatus(s string) (PickingStatus, error) {
	for status, str := range pickingStatusStrings {
		if str == s {
			return status, nil
		}
	}
	return PickingUnknown, errs.NewValueIsInvalidErrorWithCause("picking.status", fmt.Errorf("%q is not a valid picking status", s))
}

func (s PickingStatus) String() string {
	if str, ok := pickingStatusStrings[s]; ok {
		return str
	}
	return "unknown"
}

func (s PickingStatus) TransitionTo(next PickingStatus) (PickingStatus, error) {
	for _, allowed := range pickingTransitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, errs.NewValueIsInvalidErrorWithCause(
		"picking.status",
		fmt.Errorf("cannot move picking from %s to %s", s, next),
	)
}

// ItemPickStatus is the outcome of picking one order line.
type ItemPickStatus int

const (
	ItemPending ItemPickStatus = iota + 1
	ItemPicked
	ItemSubstituted
	ItemUnavailable
)

var itemPickStatusStrings = map[ItemPickStatus]string{
	ItemPending:     "pending",
	ItemPicked:      "picked",
	ItemSubstituted: "substituted",
	ItemUnavailable: "unavailable",
}

func ParseItemPickStatus(s string) (ItemPickStatus, error) {
	for status, str := range itemPickStatusStrings {
		if str == s {
			return status, nil
		}
	}
	return 0, errs.NewValueIsInvalidErrorWithCause("item.status", fmt.Errorf("%q is not a valid item status", s))
}

func (s ItemPickStatus) String() string {
	if str, ok := itemPickStatusStrings[s]; ok {
		return str
	}
	return "unknown"
}

// PickedItem is the picker's record for one order line.
type PickedItem struct {
	ProductID       string
	Quantity        int
	Status          ItemPickStatus
	SubstituteName  string
	SubstitutePrice *kernel.Money
	Issue           string
	PickedAt        *time.Time
}

// ItemUpdate is the picker's input for one line.
type ItemUpdate struct {
	Status          ItemPickStatus
	SubstituteName  string
	SubstitutePrice *kernel.Money
	Issue           string
}

func (u ItemUpdate) validate() error {
	switch u.Status {
	case ItemPicked, ItemUnavailable:
		return nil
	case ItemSubstituted:
		if u.SubstituteName == "" {
			return errs.NewValueIsRequiredError("substituteName")
		}
		if u.SubstitutePrice != nil {
			return u.SubstitutePrice.Validate()
		}
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s is not a picking outcome", u.Status))
	}
}

// PickingInfo is the in-store picking sub-document of an order.
type PickingInfo struct {
	Status      PickingStatus
	PickerID    *kernel.UUID
	AssignedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	PackedAt    *time.Time
	Items       []PickedItem
}

func newPicking() PickingInfo {
	return PickingInfo{Status: PickingPending}
}

// IsResolved reports whether every line has a final outcome.
func (p PickingInfo) IsResolved() bool {
	for _, it := range p.Items {
		if it.Status == ItemPending {
			return false
		}
	}
	return true
}

// CountPicked returns lines picked or substituted.
func (p PickingInfo) CountPicked() int {
	n := 0
	for _, it := range p.Items {
		if it.Status == ItemPicked || it.Status == ItemSubstituted {
			n++
		}
	}
	return n
}
