package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/picker"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReviewPickerCommandIsNotConstructed = errors.New(
	"ReviewPickerCommand must be created via NewReviewPickerCommand constructor",
)

// ReviewPickerCommand is a vendor approving, rejecting or suspending a picker.
// When vendorID is nil the caller's own vendor is reviewed.
type ReviewPickerCommand struct { //nolint:recvcheck //using for validation
	pickerID  kernel.UUID
	vendorID  kernel.UUID
	decision  picker.Decision
	notes     string
	requester Requester

	guard guard.ConstructorGuard
}

func NewReviewPickerCommand(
	pickerID kernel.UUID,
	vendorID *kernel.UUID,
	decision, notes string,
	requester Requester,
) (ReviewPickerCommand, error) {
	parsed, decisionErr := picker.ParseDecision(decision)
	if err := errors.Join(pickerID.Validate(), decisionErr, requester.Validate()); err != nil {
		return ReviewPickerCommand{}, err
	}

	if vendorID == nil {
		vendorID = requester.VendorID()
	}
	if vendorID == nil {
		return ReviewPickerCommand{}, errs.NewValueIsRequiredError("vendorId")
	}

	return ReviewPickerCommand{
		pickerID:  pickerID,
		vendorID:  *vendorID,
		decision:  parsed,
		notes:     strings.TrimSpace(notes),
		requester: requester,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReviewPickerCommand) Validate() error {
	return c.guard.Validate(ErrReviewPickerCommandIsNotConstructed)
}

func (c ReviewPickerCommand) PickerID() kernel.UUID {
	return c.pickerID
}

func (c ReviewPickerCommand) VendorID() kernel.UUID {
	return c.vendorID
}

func (c ReviewPickerCommand) Decision() picker.Decision {
	return c.decision
}

func (c ReviewPickerCommand) Notes() string {
	return c.notes
}

func (c ReviewPickerCommand) Requester() Requester {
	return c.requester
}
