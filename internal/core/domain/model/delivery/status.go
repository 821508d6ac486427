package delivery

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the state of the rider transport leg.
type Status int

const (
	Unknown Status = iota
	Assigned
	Accepted
	PickedUp
	InTransit
	Delivered
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Assigned:  "assigned",
		Accepted:  "accepted",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Rejected:  "rejected",
	}
}

// transitions is the delivery state machine: from -> allowed next statuses.
// Accepted -> Rejected is only reachable through order cancellation.
var transitions = map[Status][]Status{
	Assigned:  {Accepted, Rejected},
	Accepted:  {PickedUp, Rejected},
	PickedUp:  {InTransit, Delivered},
	InTransit: {Delivered},
}

// ActiveStatuses are the statuses that occupy a rider.
var ActiveStatuses = []Status{Assigned, Accepted, PickedUp, InTransit}

func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid delivery status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
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

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot move delivery from %s to %s", s, next),
		)
	}
	return next, nil
}

// IsActive reports whether the delivery still occupies its rider.
func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if a == s {
			return true
		}
	}
	return false
}
