// Package guard provides ConstructorGuard, a marker embedded in value objects and
// commands to tell a constructor-built value from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard. A zero-value guard fails Validate.
//
// Example:
//
//	type AcceptDeliveryCommand struct {
//	    deliveryID kernel.UUID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c AcceptDeliveryCommand) Validate() error {
//	    return c.guard.Validate(ErrAcceptDeliveryCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the owner was not built through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
