package queries

import (
	"context"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

type GetRiderEarningsQueryHandler struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewGetRiderEarningsQueryHandler measures windows against the local wall clock.
func NewGetRiderEarningsQueryHandler(db *gorm.DB) GetRiderEarningsQueryHandler {
	return GetRiderEarningsQueryHandler{db: db, clock: time.Now}
}

// WithClock replaces the wall clock. Used by tests.
func (h GetRiderEarningsQueryHandler) WithClock(clock func() time.Time) GetRiderEarningsQueryHandler {
	h.clock = clock
	return h
}

func (h GetRiderEarningsQueryHandler) Handle(ctx context.Context, query GetRiderEarningsQuery) (RiderEarnings, error) {
	if err := query.Validate(); err != nil {
		return RiderEarnings{}, err
	}

	since := query.Period().Since(h.clock())

	var row struct {
		Total int64
		Count int
	}
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(pricing_rider_earnings), 0) AS total,
			COUNT(*) AS count
		FROM deliveries
		WHERE rider_id = ? AND status = ? AND delivered_at >= ?
	`, query.RiderID().Bytes(), delivery.Delivered.String(), since).Scan(&row).Error
	if err != nil {
		return RiderEarnings{}, err
	}

	earnings := RiderEarnings{
		Period:     query.Period(),
		Since:      since,
		Total:      kernel.Money(row.Total),
		Deliveries: row.Count,
	}
	if row.Count > 0 {
		earnings.AveragePerRun = kernel.Money(math.Round(float64(row.Total) / float64(row.Count)))
	}
	return earnings, nil
}
