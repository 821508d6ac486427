package orderrepo

import (
	"context"

	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// OrderNumberSequenceDTO holds the last order number handed out per year.
type OrderNumberSequenceDTO struct {
	Year  int   `gorm:"primaryKey;autoIncrement:false"`
	Value int64 `gorm:"not null"`
}

func (OrderNumberSequenceDTO) TableName() string {
	return "order_number_sequences"
}

// GormOrderNumberSequence implements ports.OrderNumberSequence with an upsert,
// so concurrent callers never receive the same value.
type GormOrderNumberSequence struct {
	db *gorm.DB
}

func NewGormOrderNumberSequence(db *gorm.DB) *GormOrderNumberSequence {
	return &GormOrderNumberSequence{db: db}
}

const nextSequenceSQL = `
INSERT INTO order_number_sequences (year, value) VALUES (?, 1)
ON CONFLICT (year) DO UPDATE SET value = order_number_sequences.value + 1
RETURNING value`

func (s *GormOrderNumberSequence) Next(ctx context.Context, year int) (int64, error) {
	if year < 2000 || year > 9999 {
		return 0, errs.NewValueIsOutOfRangeError("year", year, 2000, 9999)
	}

	var value int64
	if err := s.db.WithContext(ctx).Raw(nextSequenceSQL, year).Scan(&value).Error; err != nil {
		return 0, err
	}
	return value, nil
}
