package services

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"
	"fulfillment/internal/pkg/errs"
)

const (
	// NoLocationDistanceKm is the distance assumed for riders with no known position.
	NoLocationDistanceKm = 999.0
	// DefaultSearchRadiusKm bounds the available-riders listing.
	DefaultSearchRadiusKm = 10.0
	// CandidateLimit is how many ranked riders auto-assignment keeps.
	CandidateLimit = 3

	baseScore           = 100.0
	distancePenalty     = 2.0
	ratingWeight        = 10.0
	activePenalty       = 5.0
	completedWeight     = 0.1
	connectedStoreBonus = 20.0
)

var ErrNoEligibleRiders = errs.NewObjectNotFoundErrorWithCause(
	"rider", "eligible",
	errors.New("no available riders found, try again shortly"),
)

// ScoredRider is a rider with its distance to the store and its ranking score.
type ScoredRider struct {
	Rider      *rider.Rider
	DistanceKm float64
	Score      float64
}

// RiderScorer ranks riders for a store:
//
//	score = 100 - 2*distanceKm + 10*rating - 5*activeDeliveries
//	        + 0.1*completedDeliveries + 20 (if connected to the store)
type RiderScorer struct{}

func NewRiderScorer() RiderScorer {
	return RiderScorer{}
}

// Score computes the ranking of a single rider regardless of eligibility.
func (s RiderScorer) Score(r *rider.Rider, vendorID kernel.UUID, store kernel.GeoPoint) (ScoredRider, error) {
	if err := r.Validate(); err != nil {
		return ScoredRider{}, err
	}

	distance := NoLocationDistanceKm
	if loc := r.CurrentLocation(); loc != nil {
		d, err := loc.DistanceKm(store)
		if err != nil {
			return ScoredRider{}, err
		}
		distance = d
	}

	stats := r.Stats()
	score := baseScore -
		distancePenalty*distance +
		ratingWeight*stats.Rating -
		activePenalty*float64(stats.ActiveDeliveries) +
		completedWeight*float64(stats.CompletedDeliveries)
	if r.IsConnectedTo(vendorID) {
		score += connectedStoreBonus
	}

	return ScoredRider{Rider: r, DistanceKm: distance, Score: score}, nil
}

// Rank filters eligible riders (active, verified, available, optional vehicle)
// and sorts them by descending score. Ties keep the input order.
func (s RiderScorer) Rank(
	riders []*rider.Rider,
	vendorID kernel.UUID,
	store kernel.GeoPoint,
	vehicle rider.VehicleType,
) ([]ScoredRider, error) {
	ranked := make([]ScoredRider, 0, len(riders))
	for _, r := range riders {
		if r == nil || !r.IsEligible(vehicle) {
			continue
		}
		scored, err := s.Score(r, vendorID, store)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, scored)
	}

	slices.SortStableFunc(ranked, func(a, b ScoredRider) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return ranked, nil
}

// Candidates returns at most CandidateLimit ranked riders, or ErrNoEligibleRiders.
func (s RiderScorer) Candidates(
	riders []*rider.Rider,
	vendorID kernel.UUID,
	store kernel.GeoPoint,
	vehicle rider.VehicleType,
) ([]ScoredRider, error) {
	ranked, err := s.Rank(riders, vendorID, store, vehicle)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrNoEligibleRiders
	}
	if len(ranked) > CandidateLimit {
		ranked = ranked[:CandidateLimit]
	}
	return ranked, nil
}

// WithinRadius keeps ranked riders no farther than radiusKm from the store.
func WithinRadius(ranked []ScoredRider, radiusKm float64) []ScoredRider {
	out := make([]ScoredRider, 0, len(ranked))
	for _, r := range ranked {
		if r.DistanceKm <= radiusKm {
			out = append(out, r)
		}
	}
	return out
}
