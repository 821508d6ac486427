package postgres

import (
	"fmt"

	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pickerrepo"
	"fulfillment/internal/adapters/out/postgres/riderrepo"
	"fulfillment/internal/adapters/out/postgres/storerepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the fulfillment service.
func Models() []any {
	return []any{
		&storerepo.StoreDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderNumberSequenceDTO{},
		&deliveryrepo.DeliveryDTO{},
		&riderrepo.RiderDTO{},
		&pickerrepo.PickerDTO{},
		&pickerrepo.StoreLinkDTO{},
	}
}

// Tables lists the table names of Models, children first, for truncation.
func Tables() []string {
	return []string{
		"order_items",
		"orders",
		"order_number_sequences",
		"deliveries",
		"riders",
		"picker_stores",
		"pickers",
		"vendor_stores",
	}
}

// Migrate creates or alters the schema to match Models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
