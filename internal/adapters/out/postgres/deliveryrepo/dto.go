package deliveryrepo

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/adapters/out/postgres/columns"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// DeliveryDTO is the deliveries row. The timeline and issues are append-only
// documents stored as jsonb; photo URLs are text arrays.
type DeliveryDTO struct {
	ID              uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID                             `gorm:"type:uuid;index;not null"`
	CustomerID      uuid.UUID                             `gorm:"type:uuid;index;not null"`
	VendorID        uuid.UUID                             `gorm:"type:uuid;index;not null"`
	RiderID         *uuid.UUID                            `gorm:"type:uuid;index"`
	Pickup          columns.AddressDTO                    `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff         columns.AddressDTO                    `gorm:"embedded;embeddedPrefix:dropoff_"`
	Pricing         PricingDTO                            `gorm:"embedded;embeddedPrefix:pricing_"`
	Status          string                                `gorm:"size:16;index;not null"`
	Timeline        datatypes.JSONSlice[TimelineEntryDTO] `gorm:"type:jsonb"`
	Issues          datatypes.JSONSlice[IssueDTO]         `gorm:"type:jsonb"`
	Proof           ProofDTO                              `gorm:"embedded;embeddedPrefix:proof_"`
	PickupProof     PickupProofDTO                        `gorm:"embedded;embeddedPrefix:pickup_proof_"`
	AssignedAt      time.Time
	AcceptedAt      *time.Time
	PickedUpAt      *time.Time
	InTransitAt     *time.Time
	DeliveredAt     *time.Time `gorm:"index"`
	RejectedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64 `gorm:"not null;default:0"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

type PricingDTO struct {
	BaseFee       int64
	RiderEarnings int64
	PlatformFee   int64
	DistanceKm    float64
}

type ProofDTO struct {
	Photos        pq.StringArray `gorm:"type:text[]"`
	Signature     string
	RecipientName string
	Notes         string
	Geo           columns.GeoDTO `gorm:"embedded"`
}

type PickupProofDTO struct {
	Photos pq.StringArray `gorm:"type:text[]"`
	Geo    columns.GeoDTO `gorm:"embedded"`
}

type PointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type TimelineEntryDTO struct {
	Status    string    `json:"status"`
	ActorID   *string   `json:"actorId,omitempty"`
	ActorRole string    `json:"actorRole,omitempty"`
	Location  *PointDTO `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"at"`
}

type IssueDTO struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    *PointDTO `json:"location,omitempty"`
	ReportedAt  time.Time `json:"reportedAt"`
}

func fromPoint(p *kernel.GeoPoint) *PointDTO {
	if p == nil {
		return nil
	}
	return &PointDTO{Lat: p.Lat(), Lng: p.Lng()}
}

func (p *PointDTO) toPoint() (*kernel.GeoPoint, error) {
	if p == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(p.Lat, p.Lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	timeline := make([]TimelineEntryDTO, 0, len(d.Timeline()))
	for _, e := range d.Timeline() {
		var actorID *string
		if e.ActorID != nil {
			s := e.ActorID.String()
			actorID = &s
		}
		timeline = append(timeline, TimelineEntryDTO{
			Status:    e.Status,
			ActorID:   actorID,
			ActorRole: string(e.ActorRole),
			Location:  fromPoint(e.Location),
			Note:      e.Note,
			At:        e.At,
		})
	}

	issues := make([]IssueDTO, 0, len(d.Issues()))
	for _, is := range d.Issues() {
		issues = append(issues, IssueDTO{
			Type:        is.Type,
			Description: is.Description,
			Location:    fromPoint(is.Location),
			ReportedAt:  is.ReportedAt,
		})
	}

	var proof ProofDTO
	if p := d.Proof(); p != nil {
		proof = ProofDTO{
			Photos:        p.Photos(),
			Signature:     p.Signature(),
			RecipientName: p.RecipientName(),
			Notes:         p.Notes(),
			Geo:           columns.FromGeo(p.Location()),
		}
	}

	pricing := d.Pricing()
	pickupProof := d.PickupProof()

	return DeliveryDTO{
		ID:         d.ID().Bytes(),
		OrderID:    d.OrderID().Bytes(),
		CustomerID: d.CustomerID().Bytes(),
		VendorID:   d.VendorID().Bytes(),
		RiderID:    columns.UUIDPtr(d.RiderID()),
		Pickup:     columns.FromAddress(d.Pickup()),
		Dropoff:    columns.FromAddress(d.Dropoff()),
		Pricing: PricingDTO{
			BaseFee:       int64(pricing.BaseFee()),
			RiderEarnings: int64(pricing.RiderEarnings()),
			PlatformFee:   int64(pricing.PlatformFee()),
			DistanceKm:    pricing.DistanceKm(),
		},
		Status:   d.Status().String(),
		Timeline: timeline,
		Issues:   issues,
		Proof:    proof,
		PickupProof: PickupProofDTO{
			Photos: pickupProof.Photos,
			Geo:    columns.FromGeo(pickupProof.Location),
		},
		AssignedAt:      d.AssignedAt(),
		AcceptedAt:      d.AcceptedAt(),
		PickedUpAt:      d.PickedUpAt(),
		InTransitAt:     d.InTransitAt(),
		DeliveredAt:     d.DeliveredAt(),
		RejectedAt:      d.RejectedAt(),
		RejectionReason: d.RejectionReason(),
		CreatedAt:       d.CreatedAt(),
		UpdatedAt:       d.UpdatedAt(),
		Version:         d.Version(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := columns.KernelUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, orderErr := columns.KernelUUID(dto.OrderID)
	customerID, customerErr := columns.KernelUUID(dto.CustomerID)
	vendorID, vendorErr := columns.KernelUUID(dto.VendorID)
	riderID, riderErr := columns.KernelUUIDPtr(dto.RiderID)
	pickup, pickupErr := dto.Pickup.ToAddress()
	dropoff, dropoffErr := dto.Dropoff.ToAddress()
	status, statusErr := delivery.ParseStatus(dto.Status)
	pricing, pricingErr := delivery.NewPricing(
		kernel.Money(dto.Pricing.BaseFee),
		kernel.Money(dto.Pricing.RiderEarnings),
		kernel.Money(dto.Pricing.PlatformFee),
		dto.Pricing.DistanceKm,
	)
	if err = errors.Join(orderErr, customerErr, vendorErr, riderErr, pickupErr, dropoffErr, statusErr, pricingErr); err != nil {
		return nil, fmt.Errorf("delivery %s: %w", id, err)
	}

	timeline, err := timelineToDomain(dto.Timeline)
	if err != nil {
		return nil, fmt.Errorf("delivery %s: %w", id, err)
	}
	issues, err := issuesToDomain(dto.Issues)
	if err != nil {
		return nil, fmt.Errorf("delivery %s: %w", id, err)
	}
	proof, err := proofToDomain(dto.Proof)
	if err != nil {
		return nil, fmt.Errorf("delivery %s: %w", id, err)
	}
	pickupLocation, err := dto.PickupProof.Geo.ToGeo()
	if err != nil {
		return nil, fmt.Errorf("delivery %s: %w", id, err)
	}

	return delivery.RestoreDelivery(delivery.RestoreParams{
		ID:         id,
		OrderID:    orderID,
		CustomerID: customerID,
		VendorID:   vendorID,
		RiderID:    riderID,
		Pickup:     pickup,
		Dropoff:    dropoff,
		Pricing:    pricing,
		Status:     status,
		Timeline:   timeline,
		Proof:      proof,
		PickupProof: delivery.PickupProof{
			Photos:   []string(dto.PickupProof.Photos),
			Location: pickupLocation,
		},
		Issues:          issues,
		AssignedAt:      dto.AssignedAt,
		AcceptedAt:      dto.AcceptedAt,
		PickedUpAt:      dto.PickedUpAt,
		InTransitAt:     dto.InTransitAt,
		DeliveredAt:     dto.DeliveredAt,
		RejectedAt:      dto.RejectedAt,
		RejectionReason: dto.RejectionReason,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
		Version:         dto.Version,
	})
}

func timelineToDomain(dtos []TimelineEntryDTO) ([]delivery.TimelineEntry, error) {
	entries := make([]delivery.TimelineEntry, 0, len(dtos))
	for _, e := range dtos {
		var actorID *kernel.UUID
		if e.ActorID != nil {
			parsed, err := kernel.UUIDFromString(*e.ActorID)
			if err != nil {
				return nil, err
			}
			actorID = &parsed
		}
		location, err := e.Location.toPoint()
		if err != nil {
			return nil, err
		}
		entries = append(entries, delivery.TimelineEntry{
			Status:    e.Status,
			ActorID:   actorID,
			ActorRole: delivery.ActorRole(e.ActorRole),
			Location:  location,
			Note:      e.Note,
			At:        e.At,
		})
	}
	return entries, nil
}

func issuesToDomain(dtos []IssueDTO) ([]delivery.Issue, error) {
	issues := make([]delivery.Issue, 0, len(dtos))
	for _, is := range dtos {
		location, err := is.Location.toPoint()
		if err != nil {
			return nil, err
		}
		issues = append(issues, delivery.Issue{
			Type:        is.Type,
			Description: is.Description,
			Location:    location,
			ReportedAt:  is.ReportedAt,
		})
	}
	return issues, nil
}

// proofToDomain returns nil when no proof photos were stored.
func proofToDomain(dto ProofDTO) (*delivery.Proof, error) {
	if len(dto.Photos) == 0 {
		return nil, nil
	}
	location, err := dto.Geo.ToGeo()
	if err != nil {
		return nil, err
	}
	proof, err := delivery.NewProof(dto.Photos, dto.Signature, dto.RecipientName, dto.Notes, location)
	if err != nil {
		return nil, err
	}
	return &proof, nil
}
