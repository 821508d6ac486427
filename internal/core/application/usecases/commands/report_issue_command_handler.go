package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

// ReportIssueCommandHandler records an issue in any delivery state. The order
// is not written.
type ReportIssueCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
}

func NewReportIssueCommandHandler(uowFactory UoWFactory, notifier EventNotifier) ReportIssueCommandHandler {
	return ReportIssueCommandHandler{uowFactory: uowFactory, notifier: notifier}
}

func (h *ReportIssueCommandHandler) Handle(ctx context.Context, cmd ReportIssueCommand) (*delivery.Delivery, error) {
	return runRiderDeliveryStep(ctx, h.uowFactory, h.notifier, cmd.riderDeliveryCommand, false,
		func(s *riderDeliveryScope) error {
			s.orderUnchanged = true
			return s.delivery.ReportIssue(cmd.Requester().ID(), cmd.IssueType(), cmd.Description(), cmd.Location(), s.now)
		})
}
