package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

// PendingAssignmentReport summarises one sweep.
type PendingAssignmentReport struct {
	Checked   int
	Assigned  int
	Unmatched int
	Failed    map[kernel.UUID]error
}

// AssignPendingOrdersCommandHandler re-runs auto-assignment, as the system,
// for confirmed orders that have no rider. Each order gets its own transaction
// so one failure does not hold back the rest of the batch.
type AssignPendingOrdersCommandHandler struct {
	uowFactory UoWFactory
	autoAssign AutoAssignRiderCommandHandler
}

func NewAssignPendingOrdersCommandHandler(uowFactory UoWFactory, notifier EventNotifier) AssignPendingOrdersCommandHandler {
	return AssignPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		autoAssign: NewAutoAssignRiderCommandHandler(uowFactory, notifier),
	}
}

func (h *AssignPendingOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd AssignPendingOrdersCommand,
) (PendingAssignmentReport, error) {
	if err := cmd.Validate(); err != nil {
		return PendingAssignmentReport{}, err
	}

	pending, err := h.uowFactory.Create().OrderRepository().FindConfirmedWithoutRider(ctx, cmd.BatchSize())
	if err != nil {
		return PendingAssignmentReport{}, err
	}

	report := PendingAssignmentReport{Failed: make(map[kernel.UUID]error)}
	for _, o := range pending {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++

		assignCmd, err := NewAutoAssignRiderCommand(o.ID(), "", SystemRequester())
		if err != nil {
			report.Failed[o.ID()] = err
			continue
		}

		_, err = h.autoAssign.Handle(ctx, assignCmd)
		switch {
		case err == nil:
			report.Assigned++
		case errors.Is(err, services.ErrNoEligibleRiders):
			report.Unmatched++
		default:
			report.Failed[o.ID()] = err
		}
	}
	return report, nil
}
