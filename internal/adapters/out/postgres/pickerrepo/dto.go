package pickerrepo

import (
	"fmt"
	"time"

	"fulfillment/internal/adapters/out/postgres/columns"
	"fulfillment/internal/core/domain/model/picker"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PickerDTO is the pickers row; store links live in picker_stores.
type PickerDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"type:varchar(255);not null"`
	IsActive     bool           `gorm:"not null"`
	IsAvailable  bool           `gorm:"not null"`
	CurrentStore *uuid.UUID     `gorm:"type:uuid;index"`
	Stores       []StoreLinkDTO `gorm:"foreignKey:PickerID;constraint:OnDelete:CASCADE"`
	Stats        StatsDTO       `gorm:"embedded;embeddedPrefix:stats_"`
	Version      int64          `gorm:"not null;default:0"`
}

func (PickerDTO) TableName() string {
	return "pickers"
}

type StatsDTO struct {
	OrdersPicked int
	ItemsPicked  int
}

// StoreLinkDTO is one picker to vendor store link.
type StoreLinkDTO struct {
	PickerID    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	VendorID    uuid.UUID      `gorm:"type:uuid;primaryKey;index"`
	Status      string         `gorm:"size:16;not null;index"`
	Role        string         `gorm:"size:16;not null"`
	Sections    pq.StringArray `gorm:"type:text[]"`
	RequestedAt time.Time
	ReviewedAt  *time.Time
	Notes       string
}

func (StoreLinkDTO) TableName() string {
	return "picker_stores"
}

func fromDomain(p *picker.Picker) PickerDTO {
	links := make([]StoreLinkDTO, 0, len(p.Stores()))
	for _, link := range p.Stores() {
		links = append(links, StoreLinkDTO{
			PickerID:    p.ID().Bytes(),
			VendorID:    link.VendorID.Bytes(),
			Status:      string(link.Status),
			Role:        string(link.Role),
			Sections:    link.Sections,
			RequestedAt: link.RequestedAt,
			ReviewedAt:  link.ReviewedAt,
			Notes:       link.Notes,
		})
	}

	return PickerDTO{
		ID:           p.ID().Bytes(),
		Name:         p.Name(),
		IsActive:     p.IsActive(),
		IsAvailable:  p.IsAvailable(),
		CurrentStore: columns.UUIDPtr(p.CurrentStore()),
		Stores:       links,
		Stats: StatsDTO{
			OrdersPicked: p.Stats().OrdersPicked,
			ItemsPicked:  p.Stats().ItemsPicked,
		},
		Version: p.Version(),
	}
}

func toDomain(dto PickerDTO) (*picker.Picker, error) {
	id, err := columns.KernelUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	currentStore, err := columns.KernelUUIDPtr(dto.CurrentStore)
	if err != nil {
		return nil, fmt.Errorf("picker %s: %w", id, err)
	}

	links := make([]picker.StoreLink, 0, len(dto.Stores))
	for _, l := range dto.Stores {
		vendorID, vendorErr := columns.KernelUUID(l.VendorID)
		if vendorErr != nil {
			return nil, fmt.Errorf("picker %s: %w", id, vendorErr)
		}
		status, statusErr := picker.ParseLinkStatus(l.Status)
		if statusErr != nil {
			return nil, fmt.Errorf("picker %s: %w", id, statusErr)
		}
		role, roleErr := picker.ParseRole(l.Role)
		if roleErr != nil {
			return nil, fmt.Errorf("picker %s: %w", id, roleErr)
		}
		links = append(links, picker.StoreLink{
			VendorID:    vendorID,
			Status:      status,
			Role:        role,
			Sections:    []string(l.Sections),
			RequestedAt: l.RequestedAt,
			ReviewedAt:  l.ReviewedAt,
			Notes:       l.Notes,
		})
	}

	return picker.RestorePicker(picker.RestoreParams{
		ID:           id,
		Name:         dto.Name,
		IsActive:     dto.IsActive,
		Stores:       links,
		IsAvailable:  dto.IsAvailable,
		CurrentStore: currentStore,
		Stats: picker.Stats{
			OrdersPicked: dto.Stats.OrdersPicked,
			ItemsPicked:  dto.Stats.ItemsPicked,
		},
		Version: dto.Version,
	})
}
