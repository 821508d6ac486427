package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the overall order status shared by the picking track and the rider track.
type Status int

const (
	Unknown Status = iota
	Pending
	Confirmed
	AssignedPicker
	Picking
	Picked
	Packing
	ReadyForPickup
	Preparing
	PickedUp
	InTransit
	Delivered
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		AssignedPicker: "assigned_picker",
		Picking:        "picking",
		Picked:         "picked",
		Packing:        "packing",
		ReadyForPickup: "ready_for_pickup",
		Preparing:      "preparing",
		PickedUp:       "picked_up",
		InTransit:      "in_transit",
		Delivered:      "delivered",
		Completed:      "completed",
		Cancelled:      "cancelled",
	}
}

// transitions is the order state machine: from -> allowed next statuses.
// Preparing -> Preparing is the rider accepting an assigned delivery.
// Preparing -> Confirmed is the rider rejecting it.
var transitions = map[Status][]Status{
	Pending:        {Confirmed, Cancelled},
	Confirmed:      {AssignedPicker, Preparing, Cancelled},
	AssignedPicker: {Picking, Cancelled},
	Picking:        {Picked, Cancelled},
	Picked:         {Packing, Cancelled},
	Packing:        {ReadyForPickup, Cancelled},
	ReadyForPickup: {Preparing, Cancelled},
	Preparing:      {Preparing, Confirmed, PickedUp, Cancelled},
	PickedUp:       {InTransit, Delivered},
	InTransit:      {Delivered},
	Delivered:      {Completed},
}

// ParseStatus converts the persisted or wire form back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next if allowed, otherwise a ValueIsInvalid error.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot move order from %s to %s", s, next),
		)
	}
	return next, nil
}

// IsTerminal reports statuses with no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsPickerBand reports statuses driven by the in-store picking flow.
func (s Status) IsPickerBand() bool {
	switch s {
	case AssignedPicker, Picking, Picked, Packing:
		return true
	default:
		return false
	}
}

// IsCancellable reports statuses before the rider has collected the goods.
func (s Status) IsCancellable() bool {
	return s.CanTransitionTo(Cancelled)
}
