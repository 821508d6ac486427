package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/picker"
)

// Request bodies.

type locationBody struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (b locationBody) point() (*kernel.GeoPoint, error) {
	return kernel.NewOptionalGeoPoint(b.Lat, b.Lng)
}

type autoAssignBody struct {
	VehicleType string `json:"vehicleType"`
}

type manualAssignBody struct {
	RiderID string `json:"riderId"`
}

type reassignBody struct {
	NewRiderID string `json:"newRiderId"`
	Reason     string `json:"reason"`
}

type rejectBody struct {
	Reason string `json:"reason"`
}

type pickupBody struct {
	locationBody
	Photos []string `json:"photos"`
}

type completeBody struct {
	locationBody
	Photos        []string `json:"photos"`
	Signature     string   `json:"signature"`
	RecipientName string   `json:"recipientName"`
	Notes         string   `json:"notes"`
}

type reportIssueBody struct {
	locationBody
	Type        string `json:"type"`
	Description string `json:"description"`
}

type addressBody struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postalCode"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

func (b addressBody) address() (kernel.Address, error) {
	coordinates, err := kernel.NewOptionalGeoPoint(b.Lat, b.Lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.Address{
		Street:      b.Street,
		City:        b.City,
		State:       b.State,
		PostalCode:  b.PostalCode,
		Coordinates: coordinates,
	}, nil
}

type orderLineBody struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type createOrderBody struct {
	CustomerID      *string         `json:"customerId"`
	VendorID        string          `json:"vendorId"`
	DeliveryAddress addressBody     `json:"deliveryAddress"`
	Items           []orderLineBody `json:"items"`
	DeliveryFee     float64         `json:"deliveryFee"`
	Tax             float64         `json:"tax"`
	Discount        float64         `json:"discount"`
}

type cancelBody struct {
	Reason string `json:"reason"`
}

type assignPickerBody struct {
	PickerID string `json:"pickerId"`
}

type pickedItemBody struct {
	Status          string   `json:"status"`
	SubstituteName  string   `json:"substituteName"`
	SubstitutePrice *float64 `json:"substitutePrice"`
	Issue           string   `json:"issue"`
}

type requestStoreBody struct {
	Role     string   `json:"role"`
	Sections []string `json:"sections"`
}

type reviewPickerBody struct {
	VendorID *string `json:"vendorId"`
	Decision string  `json:"decision"`
	Notes    string  `json:"notes"`
}

// Responses.

type pointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toPoint(p *kernel.GeoPoint) *pointDTO {
	if p == nil {
		return nil
	}
	return &pointDTO{Lat: p.Lat(), Lng: p.Lng()}
}

type addressDTO struct {
	Street      string    `json:"street"`
	City        string    `json:"city"`
	State       string    `json:"state,omitempty"`
	PostalCode  string    `json:"postalCode,omitempty"`
	Coordinates *pointDTO `json:"coordinates,omitempty"`
}

func toAddress(a kernel.Address) addressDTO {
	return addressDTO{
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Coordinates: toPoint(a.Coordinates),
	}
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type orderItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type orderPricingDTO struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

type pickedItemDTO struct {
	ProductID       string     `json:"productId"`
	Quantity        int        `json:"quantity"`
	Status          string     `json:"status"`
	SubstituteName  string     `json:"substituteName,omitempty"`
	SubstitutePrice *float64   `json:"substitutePrice,omitempty"`
	Issue           string     `json:"issue,omitempty"`
	PickedAt        *time.Time `json:"pickedAt,omitempty"`
}

type pickingDTO struct {
	Status      string          `json:"status"`
	PickerID    *string         `json:"pickerId,omitempty"`
	AssignedAt  *time.Time      `json:"assignedAt,omitempty"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	PackedAt    *time.Time      `json:"packedAt,omitempty"`
	ItemsPicked []pickedItemDTO `json:"itemsPicked"`
}

type orderDeliveryDTO struct {
	RiderID               *string    `json:"rider,omitempty"`
	DeliveryID            *string    `json:"deliveryId,omitempty"`
	AssignedAt            *time.Time `json:"assignedAt,omitempty"`
	EstimatedPickupTime   *time.Time `json:"estimatedPickupTime,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime,omitempty"`
	PickedUpAt            *time.Time `json:"pickedUpAt,omitempty"`
	CompletedAt           *time.Time `json:"completedAt,omitempty"`
}

type orderDTO struct {
	ID                 string           `json:"id"`
	OrderNumber        string           `json:"orderNumber"`
	CustomerID         string           `json:"customerId"`
	VendorID           string           `json:"vendorId"`
	Status             string           `json:"status"`
	DeliveryAddress    addressDTO       `json:"deliveryAddress"`
	Items              []orderItemDTO   `json:"items"`
	Pricing            orderPricingDTO  `json:"pricing"`
	Picking            pickingDTO       `json:"picking"`
	Delivery           orderDeliveryDTO `json:"delivery"`
	CancellationReason string           `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func toOrder(o *order.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, orderItemDTO{
			ProductID: it.ProductID(),
			Name:      it.Name(),
			Price:     it.UnitPrice().Major(),
			Quantity:  it.Quantity(),
			Subtotal:  it.Subtotal().Major(),
		})
	}

	picking := o.Picking()
	picked := make([]pickedItemDTO, 0, len(picking.Items))
	for _, it := range picking.Items {
		dto := pickedItemDTO{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			Status:         it.Status.String(),
			SubstituteName: it.SubstituteName,
			Issue:          it.Issue,
			PickedAt:       utc(it.PickedAt),
		}
		if it.SubstitutePrice != nil {
			price := it.SubstitutePrice.Major()
			dto.SubstitutePrice = &price
		}
		picked = append(picked, dto)
	}

	pricing := o.Pricing()
	leg := o.Delivery()
	return orderDTO{
		ID:              o.ID().String(),
		OrderNumber:     o.OrderNumber(),
		CustomerID:      o.CustomerID().String(),
		VendorID:        o.VendorID().String(),
		Status:          o.Status().String(),
		DeliveryAddress: toAddress(o.DeliveryAddress()),
		Items:           items,
		Pricing: orderPricingDTO{
			Subtotal:    pricing.Subtotal().Major(),
			DeliveryFee: pricing.DeliveryFee().Major(),
			Tax:         pricing.Tax().Major(),
			Discount:    pricing.Discount().Major(),
			Total:       pricing.Total().Major(),
		},
		Picking: pickingDTO{
			Status:      picking.Status.String(),
			PickerID:    idString(picking.PickerID),
			AssignedAt:  utc(picking.AssignedAt),
			StartedAt:   utc(picking.StartedAt),
			CompletedAt: utc(picking.CompletedAt),
			PackedAt:    utc(picking.PackedAt),
			ItemsPicked: picked,
		},
		Delivery: orderDeliveryDTO{
			RiderID:               idString(leg.RiderID),
			DeliveryID:            idString(leg.DeliveryID),
			AssignedAt:            utc(leg.AssignedAt),
			EstimatedPickupTime:   utc(leg.EstimatedPickupTime),
			EstimatedDeliveryTime: utc(leg.EstimatedDeliveryTime),
			PickedUpAt:            utc(leg.PickedUpAt),
			CompletedAt:           utc(leg.CompletedAt),
		},
		CancellationReason: o.CancellationReason(),
		CreatedAt:          o.CreatedAt().UTC(),
		UpdatedAt:          o.UpdatedAt().UTC(),
	}
}

type deliveryPricingDTO struct {
	BaseFee       float64 `json:"baseFee"`
	RiderEarnings float64 `json:"riderEarnings"`
	PlatformFee   float64 `json:"platformFee"`
	DistanceKm    float64 `json:"distance"`
}

type timelineDTO struct {
	Status    string    `json:"status"`
	ActorID   *string   `json:"actorId,omitempty"`
	ActorRole string    `json:"actorRole,omitempty"`
	Location  *pointDTO `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"timestamp"`
}

type issueDTO struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    *pointDTO `json:"location,omitempty"`
	ReportedAt  time.Time `json:"reportedAt"`
}

type proofDTO struct {
	Photos        []string  `json:"photos"`
	Signature     string    `json:"signature,omitempty"`
	RecipientName string    `json:"recipientName,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Location      *pointDTO `json:"location,omitempty"`
}

type deliveryDTO struct {
	ID              string             `json:"id"`
	OrderID         string             `json:"orderId"`
	CustomerID      string             `json:"customerId"`
	VendorID        string             `json:"vendorId"`
	RiderID         *string            `json:"riderId,omitempty"`
	Status          string             `json:"status"`
	Pickup          addressDTO         `json:"pickup"`
	Dropoff         addressDTO         `json:"dropoff"`
	Pricing         deliveryPricingDTO `json:"pricing"`
	Timeline        []timelineDTO      `json:"timeline"`
	Issues          []issueDTO         `json:"issues,omitempty"`
	PickupPhotos    []string           `json:"pickupPhotos,omitempty"`
	Proof           *proofDTO          `json:"proof,omitempty"`
	AssignedAt      time.Time          `json:"assignedAt"`
	AcceptedAt      *time.Time         `json:"acceptedAt,omitempty"`
	PickedUpAt      *time.Time         `json:"pickedUpAt,omitempty"`
	InTransitAt     *time.Time         `json:"inTransitAt,omitempty"`
	DeliveredAt     *time.Time         `json:"deliveredAt,omitempty"`
	RejectedAt      *time.Time         `json:"rejectedAt,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
}

func toDelivery(d *delivery.Delivery) deliveryDTO {
	timeline := make([]timelineDTO, 0, len(d.Timeline()))
	for _, e := range d.Timeline() {
		timeline = append(timeline, timelineDTO{
			Status:    e.Status,
			ActorID:   idString(e.ActorID),
			ActorRole: string(e.ActorRole),
			Location:  toPoint(e.Location),
			Note:      e.Note,
			At:        e.At.UTC(),
		})
	}

	var issues []issueDTO
	for _, is := range d.Issues() {
		issues = append(issues, issueDTO{
			Type:        is.Type,
			Description: is.Description,
			Location:    toPoint(is.Location),
			ReportedAt:  is.ReportedAt.UTC(),
		})
	}

	var proof *proofDTO
	if p := d.Proof(); p != nil {
		proof = &proofDTO{
			Photos:        p.Photos(),
			Signature:     p.Signature(),
			RecipientName: p.RecipientName(),
			Notes:         p.Notes(),
			Location:      toPoint(p.Location()),
		}
	}

	pricing := d.Pricing()
	return deliveryDTO{
		ID:         d.ID().String(),
		OrderID:    d.OrderID().String(),
		CustomerID: d.CustomerID().String(),
		VendorID:   d.VendorID().String(),
		RiderID:    idString(d.RiderID()),
		Status:     d.Status().String(),
		Pickup:     toAddress(d.Pickup()),
		Dropoff:    toAddress(d.Dropoff()),
		Pricing: deliveryPricingDTO{
			BaseFee:       pricing.BaseFee().Major(),
			RiderEarnings: pricing.RiderEarnings().Major(),
			PlatformFee:   pricing.PlatformFee().Major(),
			DistanceKm:    pricing.DistanceKm(),
		},
		Timeline:        timeline,
		Issues:          issues,
		PickupPhotos:    d.PickupProof().Photos,
		Proof:           proof,
		AssignedAt:      d.AssignedAt().UTC(),
		AcceptedAt:      utc(d.AcceptedAt()),
		PickedUpAt:      utc(d.PickedUpAt()),
		InTransitAt:     utc(d.InTransitAt()),
		DeliveredAt:     utc(d.DeliveredAt()),
		RejectedAt:      utc(d.RejectedAt()),
		RejectionReason: d.RejectionReason(),
	}
}

type candidateDTO struct {
	RiderID    string  `json:"riderId"`
	Name       string  `json:"name"`
	Vehicle    string  `json:"vehicleType"`
	DistanceKm float64 `json:"distance"`
	Score      float64 `json:"score"`
}

func toCandidate(c commands.RiderCandidate) candidateDTO {
	return candidateDTO{
		RiderID:    c.RiderID.String(),
		Name:       c.Name,
		Vehicle:    c.Vehicle,
		DistanceKm: c.DistanceKm,
		Score:      c.Score,
	}
}

type assignmentDTO struct {
	Delivery   deliveryDTO    `json:"delivery"`
	Order      orderDTO       `json:"order"`
	Rider      candidateDTO   `json:"rider"`
	Candidates []candidateDTO `json:"candidates"`
}

func toAssignment(r commands.AssignmentResult) assignmentDTO {
	candidates := make([]candidateDTO, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		candidates = append(candidates, toCandidate(c))
	}
	return assignmentDTO{
		Delivery:   toDelivery(r.Delivery),
		Order:      toOrder(r.Order),
		Rider:      toCandidate(r.Rider),
		Candidates: candidates,
	}
}

type availableRiderDTO struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Vehicle             string    `json:"vehicleType"`
	Rating              float64   `json:"rating"`
	ActiveDeliveries    int       `json:"activeDeliveries"`
	CompletedDeliveries int       `json:"completedDeliveries"`
	Location            *pointDTO `json:"currentLocation,omitempty"`
	ConnectedToStore    bool      `json:"connectedToStore"`
	DistanceKm          float64   `json:"distance"`
	Score               float64   `json:"score"`
}

func toAvailableRiders(riders []queries.AvailableRider) []availableRiderDTO {
	out := make([]availableRiderDTO, 0, len(riders))
	for _, r := range riders {
		out = append(out, availableRiderDTO{
			ID:                  r.ID.String(),
			Name:                r.Name,
			Vehicle:             r.Vehicle,
			Rating:              r.Rating,
			ActiveDeliveries:    r.ActiveDeliveries,
			CompletedDeliveries: r.CompletedDeliveries,
			Location:            toPoint(r.Location),
			ConnectedToStore:    r.ConnectedToStore,
			DistanceKm:          r.DistanceKm,
			Score:               r.Score,
		})
	}
	return out
}

type activeDeliveryDTO struct {
	ID                    string     `json:"id"`
	OrderID               string     `json:"orderId"`
	OrderNumber           string     `json:"orderNumber"`
	Status                string     `json:"status"`
	Pickup                addressDTO `json:"pickup"`
	Dropoff               addressDTO `json:"dropoff"`
	RiderEarnings         float64    `json:"riderEarnings"`
	DistanceKm            float64    `json:"distance"`
	AssignedAt            time.Time  `json:"assignedAt"`
	EstimatedPickupTime   *time.Time `json:"estimatedPickupTime,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime,omitempty"`
}

func toActiveDeliveries(list []queries.ActiveDelivery) []activeDeliveryDTO {
	out := make([]activeDeliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, activeDeliveryDTO{
			ID:                    d.ID.String(),
			OrderID:               d.OrderID.String(),
			OrderNumber:           d.OrderNumber,
			Status:                d.Status,
			Pickup:                toAddress(d.Pickup),
			Dropoff:               toAddress(d.Dropoff),
			RiderEarnings:         d.RiderEarnings.Major(),
			DistanceKm:            d.DistanceKm,
			AssignedAt:            d.AssignedAt.UTC(),
			EstimatedPickupTime:   utc(d.EstimatedPickupTime),
			EstimatedDeliveryTime: utc(d.EstimatedDeliveryTime),
		})
	}
	return out
}

type earningsDTO struct {
	Period        string    `json:"period"`
	Since         time.Time `json:"since"`
	Total         float64   `json:"totalEarnings"`
	Deliveries    int       `json:"deliveryCount"`
	AveragePerRun float64   `json:"averagePerDelivery"`
}

func toEarnings(e queries.RiderEarnings) earningsDTO {
	return earningsDTO{
		Period:        string(e.Period),
		Since:         e.Since.UTC(),
		Total:         e.Total.Major(),
		Deliveries:    e.Deliveries,
		AveragePerRun: e.AveragePerRun.Major(),
	}
}

type storeLinkDTO struct {
	VendorID    string     `json:"vendorId"`
	Status      string     `json:"status"`
	Role        string     `json:"role"`
	Sections    []string   `json:"sections"`
	RequestedAt time.Time  `json:"requestedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type pickerDTO struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	IsAvailable  bool           `json:"isAvailable"`
	CurrentStore *string        `json:"currentStore,omitempty"`
	Stores       []storeLinkDTO `json:"connectedStores"`
	OrdersPicked int            `json:"ordersPicked"`
	ItemsPicked  int            `json:"itemsPicked"`
}

func toPicker(p *picker.Picker) pickerDTO {
	stores := make([]storeLinkDTO, 0, len(p.Stores()))
	for _, link := range p.Stores() {
		sections := link.Sections
		if sections == nil {
			sections = []string{}
		}
		stores = append(stores, storeLinkDTO{
			VendorID:    link.VendorID.String(),
			Status:      string(link.Status),
			Role:        string(link.Role),
			Sections:    sections,
			RequestedAt: link.RequestedAt.UTC(),
			ReviewedAt:  utc(link.ReviewedAt),
			Notes:       link.Notes,
		})
	}
	return pickerDTO{
		ID:           p.ID().String(),
		Name:         p.Name(),
		IsAvailable:  p.IsAvailable(),
		CurrentStore: idString(p.CurrentStore()),
		Stores:       stores,
		OrdersPicked: p.Stats().OrdersPicked,
		ItemsPicked:  p.Stats().ItemsPicked,
	}
}
