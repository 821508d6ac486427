package queries

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetRiderEarningsQueryIsNotConstructed = errors.New(
	"GetRiderEarningsQuery must be created via NewGetRiderEarningsQuery constructor",
)

// EarningsPeriod is the reporting window of a rider's earnings.
type EarningsPeriod string

const (
	PeriodToday EarningsPeriod = "today"
	PeriodWeek  EarningsPeriod = "week"
	PeriodMonth EarningsPeriod = "month"
)

func ParseEarningsPeriod(s string) (EarningsPeriod, error) {
	switch EarningsPeriod(s) {
	case "":
		return PeriodToday, nil
	case PeriodToday, PeriodWeek, PeriodMonth:
		return EarningsPeriod(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("period", fmt.Errorf("%q is not one of today, week, month", s))
	}
}

// Since is the start of the window ending at now. Today starts at midnight in
// now's location; week and month are the trailing 7 and 30 days.
func (p EarningsPeriod) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	default:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
}

type GetRiderEarningsQuery struct {
	riderID kernel.UUID
	period  EarningsPeriod

	guard guard.ConstructorGuard
}

// NewGetRiderEarningsQuery defaults an empty period to today.
func NewGetRiderEarningsQuery(riderID kernel.UUID, period string) (GetRiderEarningsQuery, error) {
	p, periodErr := ParseEarningsPeriod(period)
	if err := errors.Join(riderID.Validate(), periodErr); err != nil {
		return GetRiderEarningsQuery{}, err
	}
	return GetRiderEarningsQuery{riderID: riderID, period: p, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRiderEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetRiderEarningsQueryIsNotConstructed)
}

func (q GetRiderEarningsQuery) RiderID() kernel.UUID {
	return q.riderID
}

func (q GetRiderEarningsQuery) Period() EarningsPeriod {
	return q.period
}

// RiderEarnings sums the rider's share of delivered legs in a window.
type RiderEarnings struct {
	Period        EarningsPeriod
	Since         time.Time
	Total         kernel.Money
	Deliveries    int
	AveragePerRun kernel.Money
}
