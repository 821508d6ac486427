package delivery

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Proof is the evidence captured when the goods are handed over.
type Proof struct {
	photos        []string
	signature     string
	recipientName string
	notes         string
	location      *kernel.GeoPoint
}

// NewProof requires at least one photo URL.
func NewProof(photos []string, signature, recipientName, notes string, location *kernel.GeoPoint) (Proof, error) {
	cleaned := make([]string, 0, len(photos))
	for _, p := range photos {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return Proof{}, errs.NewValueIsRequiredError("photos")
	}
	return Proof{
		photos:        cleaned,
		signature:     signature,
		recipientName: recipientName,
		notes:         notes,
		location:      location,
	}, nil
}

func (p Proof) Photos() []string {
	out := make([]string, len(p.photos))
	copy(out, p.photos)
	return out
}

func (p Proof) Signature() string          { return p.signature }
func (p Proof) RecipientName() string      { return p.recipientName }
func (p Proof) Notes() string              { return p.notes }
func (p Proof) Location() *kernel.GeoPoint { return p.location }

// PickupProof is what the rider records when collecting from the store.
type PickupProof struct {
	Photos   []string
	Location *kernel.GeoPoint
}
