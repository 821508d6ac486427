package orderrepo

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/adapters/out/postgres/columns"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO is the orders row. Items live in order_items; picked item outcomes
// are a jsonb column because they are always read and written with the order.
type OrderDTO struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey"`
	OrderNumber        string             `gorm:"size:32;uniqueIndex;not null"`
	CustomerID         uuid.UUID          `gorm:"type:uuid;index;not null"`
	VendorID           uuid.UUID          `gorm:"type:uuid;index;not null"`
	DeliveryAddress    columns.AddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	Items              []OrderItemDTO     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Pricing            PricingDTO         `gorm:"embedded;embeddedPrefix:pricing_"`
	Status             string             `gorm:"size:32;index;not null"`
	Picking            PickingDTO         `gorm:"embedded;embeddedPrefix:picking_"`
	RiderID            *uuid.UUID         `gorm:"type:uuid;index"`
	DeliveryID         *uuid.UUID         `gorm:"type:uuid"`
	AssignedAt         *time.Time
	EstimatedPickupAt  *time.Time
	EstimatedDeliverAt *time.Time
	PickedUpAt         *time.Time
	CompletedAt        *time.Time
	CancellationReason string
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
	Version            int64 `gorm:"not null;default:0"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one immutable order line.
type OrderItemDTO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Position  int       `gorm:"not null"`
	ProductID string    `gorm:"size:64;not null"`
	Name      string    `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
	Subtotal  int64     `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

type PricingDTO struct {
	Subtotal    int64
	DeliveryFee int64
	Tax         int64
	Discount    int64
	Total       int64
}

type PickingDTO struct {
	Status      string     `gorm:"size:16"`
	PickerID    *uuid.UUID `gorm:"type:uuid;index"`
	AssignedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	PackedAt    *time.Time
	Items       datatypes.JSONSlice[PickedItemDTO] `gorm:"type:jsonb"`
}

type PickedItemDTO struct {
	ProductID       string     `json:"productId"`
	Quantity        int        `json:"quantity"`
	Status          string     `json:"status"`
	SubstituteName  string     `json:"substituteName,omitempty"`
	SubstitutePrice *int64     `json:"substitutePrice,omitempty"`
	Issue           string     `json:"issue,omitempty"`
	PickedAt        *time.Time `json:"pickedAt,omitempty"`
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	itemDTOs := make([]OrderItemDTO, 0, len(items))
	for i, it := range items {
		itemDTOs = append(itemDTOs, OrderItemDTO{
			OrderID:   o.ID().Bytes(),
			Position:  i,
			ProductID: it.ProductID(),
			Name:      it.Name(),
			UnitPrice: int64(it.UnitPrice()),
			Quantity:  it.Quantity(),
			Subtotal:  int64(it.Subtotal()),
		})
	}

	pricing := o.Pricing()
	picking := o.Picking()
	dlv := o.Delivery()

	return OrderDTO{
		ID:              o.ID().Bytes(),
		OrderNumber:     o.OrderNumber(),
		CustomerID:      o.CustomerID().Bytes(),
		VendorID:        o.VendorID().Bytes(),
		DeliveryAddress: columns.FromAddress(o.DeliveryAddress()),
		Items:           itemDTOs,
		Pricing: PricingDTO{
			Subtotal:    int64(pricing.Subtotal()),
			DeliveryFee: int64(pricing.DeliveryFee()),
			Tax:         int64(pricing.Tax()),
			Discount:    int64(pricing.Discount()),
			Total:       int64(pricing.Total()),
		},
		Status:             o.Status().String(),
		Picking:            pickingFromDomain(picking),
		RiderID:            columns.UUIDPtr(dlv.RiderID),
		DeliveryID:         columns.UUIDPtr(dlv.DeliveryID),
		AssignedAt:         dlv.AssignedAt,
		EstimatedPickupAt:  dlv.EstimatedPickupTime,
		EstimatedDeliverAt: dlv.EstimatedDeliveryTime,
		PickedUpAt:         dlv.PickedUpAt,
		CompletedAt:        dlv.CompletedAt,
		CancellationReason: o.CancellationReason(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		Version:            o.Version(),
	}
}

func pickingFromDomain(p order.PickingInfo) PickingDTO {
	items := make([]PickedItemDTO, 0, len(p.Items))
	for _, it := range p.Items {
		var price *int64
		if it.SubstitutePrice != nil {
			v := int64(*it.SubstitutePrice)
			price = &v
		}
		items = append(items, PickedItemDTO{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			Status:          it.Status.String(),
			SubstituteName:  it.SubstituteName,
			SubstitutePrice: price,
			Issue:           it.Issue,
			PickedAt:        it.PickedAt,
		})
	}

	return PickingDTO{
		Status:      p.Status.String(),
		PickerID:    columns.UUIDPtr(p.PickerID),
		AssignedAt:  p.AssignedAt,
		StartedAt:   p.StartedAt,
		CompletedAt: p.CompletedAt,
		PackedAt:    p.PackedAt,
		Items:       items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := columns.KernelUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, customerErr := columns.KernelUUID(dto.CustomerID)
	vendorID, vendorErr := columns.KernelUUID(dto.VendorID)
	riderID, riderErr := columns.KernelUUIDPtr(dto.RiderID)
	deliveryID, deliveryErr := columns.KernelUUIDPtr(dto.DeliveryID)
	address, addressErr := dto.DeliveryAddress.ToAddress()
	status, statusErr := order.ParseStatus(dto.Status)
	if err = errors.Join(customerErr, vendorErr, riderErr, deliveryErr, addressErr, statusErr); err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	pricing, err := order.NewPricing(
		kernel.Money(dto.Pricing.DeliveryFee),
		kernel.Money(dto.Pricing.Tax),
		kernel.Money(dto.Pricing.Discount),
	)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	picking, err := pickingToDomain(dto.Picking)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:              id,
		OrderNumber:     dto.OrderNumber,
		CustomerID:      customerID,
		VendorID:        vendorID,
		DeliveryAddress: address,
		Items:           items,
		Pricing:         pricing,
		Status:          status,
		Picking:         picking,
		Delivery: order.DeliveryInfo{
			RiderID:               riderID,
			DeliveryID:            deliveryID,
			AssignedAt:            dto.AssignedAt,
			EstimatedPickupTime:   dto.EstimatedPickupAt,
			EstimatedDeliveryTime: dto.EstimatedDeliverAt,
			PickedUpAt:            dto.PickedUpAt,
			CompletedAt:           dto.CompletedAt,
		},
		CancellationReason: dto.CancellationReason,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
	})
}

func itemsToDomain(dtos []OrderItemDTO) ([]order.Item, error) {
	items := make([]order.Item, len(dtos))
	for _, dto := range dtos {
		if dto.Position < 0 || dto.Position >= len(dtos) {
			return nil, fmt.Errorf("order item %s has position %d out of %d", dto.ProductID, dto.Position, len(dtos))
		}
		item, err := order.NewItem(dto.ProductID, dto.Name, kernel.Money(dto.UnitPrice), dto.Quantity)
		if err != nil {
			return nil, err
		}
		items[dto.Position] = item
	}
	return items, nil
}

func pickingToDomain(dto PickingDTO) (order.PickingInfo, error) {
	status, err := order.ParsePickingStatus(dto.Status)
	if err != nil {
		return order.PickingInfo{}, err
	}
	pickerID, err := columns.KernelUUIDPtr(dto.PickerID)
	if err != nil {
		return order.PickingInfo{}, err
	}

	items := make([]order.PickedItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		itemStatus, parseErr := order.ParseItemPickStatus(it.Status)
		if parseErr != nil {
			return order.PickingInfo{}, parseErr
		}
		var price *kernel.Money
		if it.SubstitutePrice != nil {
			v := kernel.Money(*it.SubstitutePrice)
			price = &v
		}
		items = append(items, order.PickedItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			Status:          itemStatus,
			SubstituteName:  it.SubstituteName,
			SubstitutePrice: price,
			Issue:           it.Issue,
			PickedAt:        it.PickedAt,
		})
	}

	return order.PickingInfo{
		Status:      status,
		PickerID:    pickerID,
		AssignedAt:  dto.AssignedAt,
		StartedAt:   dto.StartedAt,
		CompletedAt: dto.CompletedAt,
		PackedAt:    dto.PackedAt,
		Items:       items,
	}, nil
}
