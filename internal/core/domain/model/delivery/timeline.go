package delivery

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Timeline markers that do not change the delivery status.
const (
	MarkerIssueReported = "issue_reported"
	MarkerReassigned    = "reassigned"
	MarkerCancelled     = "cancelled"
)

// ActorRole identifies who caused a timeline entry.
type ActorRole string

const (
	ActorRider  ActorRole = "rider"
	ActorVendor ActorRole = "vendor"
	ActorAdmin  ActorRole = "admin"
	ActorSystem ActorRole = "system"
)

// Actor is the user behind a change.
type Actor struct {
	ID   kernel.UUID
	Role ActorRole
}

// TimelineEntry is one append-only record in the delivery history.
type TimelineEntry struct {
	Status    string
	ActorID   *kernel.UUID
	ActorRole ActorRole
	Location  *kernel.GeoPoint
	Note      string
	At        time.Time
}

// Issue is a problem reported by the rider on the way.
type Issue struct {
	Type        string
	Description string
	Location    *kernel.GeoPoint
	ReportedAt  time.Time
}
