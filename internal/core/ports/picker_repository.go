package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/picker"
)

type PickerRepository interface {
	Add(ctx context.Context, aggregate *picker.Picker) error

	Update(ctx context.Context, aggregate *picker.Picker) error

	Get(ctx context.Context, id kernel.UUID) (*picker.Picker, error)
}
