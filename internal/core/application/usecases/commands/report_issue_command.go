package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ReportIssueCommand adds an issue marker to the delivery timeline.
type ReportIssueCommand struct {
	riderDeliveryCommand
	issueType   string
	description string
}

func NewReportIssueCommand(
	deliveryID kernel.UUID,
	issueType, description string,
	location *kernel.GeoPoint,
	requester Requester,
) (ReportIssueCommand, error) {
	issueType = strings.TrimSpace(issueType)
	description = strings.TrimSpace(description)

	var typeErr, descriptionErr error
	if issueType == "" {
		typeErr = errs.NewValueIsRequiredError("type")
	}
	if description == "" {
		descriptionErr = errs.NewValueIsRequiredError("description")
	}
	if err := errors.Join(typeErr, descriptionErr); err != nil {
		return ReportIssueCommand{}, err
	}

	base, err := newRiderDeliveryCommand(deliveryID, location, requester)
	if err != nil {
		return ReportIssueCommand{}, err
	}
	return ReportIssueCommand{riderDeliveryCommand: base, issueType: issueType, description: description}, nil
}

func (c ReportIssueCommand) IssueType() string {
	return c.issueType
}

func (c ReportIssueCommand) Description() string {
	return c.description
}
