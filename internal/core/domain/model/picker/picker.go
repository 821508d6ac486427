package picker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrPickerIsNotConstructed = errors.New("Picker must be created via NewPicker constructor")
	ErrStoreNotApproved       = errs.NewActionIsForbiddenError("picker is not approved for this store")
	ErrNotCheckedIn           = errs.NewValueIsInvalidErrorWithCause("picker", errors.New("picker is not checked in at this store"))
	ErrPickerIsNotAvailable   = errs.NewValueIsInvalidErrorWithCause("picker", errors.New("picker is not available"))
	ErrPickerIsInactive       = errs.NewValueIsInvalidErrorWithCause("picker", errors.New("picker account is inactive"))
)

// Stats are the picker's counters.
type Stats struct {
	OrdersPicked int
	ItemsPicked  int
}

// Picker is an in-store worker who picks and packs orders for one or more vendors.
type Picker struct {
	id           kernel.UUID
	name         string
	isActive     bool
	stores       []StoreLink
	isAvailable  bool
	currentStore *kernel.UUID
	stats        Stats
	version      int64
	guard        guard.ConstructorGuard
}

func NewPicker(id kernel.UUID, name string) (*Picker, error) {
	p := &Picker{isActive: true, guard: guard.NewConstructorGuard()}
	if err := errors.Join(p.setID(id), p.setName(name)); err != nil {
		return nil, err
	}
	return p, nil
}

type RestoreParams struct {
	ID           kernel.UUID
	Name         string
	IsActive     bool
	Stores       []StoreLink
	IsAvailable  bool
	CurrentStore *kernel.UUID
	Stats        Stats
	Version      int64
}

func RestorePicker(params RestoreParams) (*Picker, error) {
	p := &Picker{
		isActive:     params.IsActive,
		stores:       params.Stores,
		isAvailable:  params.IsAvailable,
		currentStore: params.CurrentStore,
		stats:        params.Stats,
		version:      params.Version,
		guard:        guard.NewConstructorGuard(),
	}
	if err := errors.Join(p.setID(params.ID), p.setName(params.Name)); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Picker) Validate() error {
	if p == nil {
		return ErrPickerIsNotConstructed
	}
	return p.guard.Validate(ErrPickerIsNotConstructed)
}

func (p *Picker) ID() kernel.UUID            { return p.id }
func (p *Picker) Name() string               { return p.name }
func (p *Picker) IsActive() bool             { return p.isActive }
func (p *Picker) IsAvailable() bool          { return p.isAvailable }
func (p *Picker) CurrentStore() *kernel.UUID { return p.currentStore }
func (p *Picker) Stats() Stats               { return p.stats }
func (p *Picker) Version() int64             { return p.version }

func (p *Picker) IncrementVersion() {
	p.version++
}

func (p *Picker) Stores() []StoreLink {
	out := make([]StoreLink, len(p.stores))
	copy(out, p.stores)
	return out
}

// Store returns the link to vendorID, if any.
func (p *Picker) Store(vendorID kernel.UUID) (StoreLink, bool) {
	if i := p.storeIndex(vendorID); i >= 0 {
		return p.stores[i], true
	}
	return StoreLink{}, false
}

// RequestStore asks to work at a vendor. A rejected request may be renewed.
func (p *Picker) RequestStore(vendorID kernel.UUID, role Role, sections []string, now time.Time) error {
	if err := errors.Join(p.Validate(), vendorID.Validate()); err != nil {
		return err
	}
	link := StoreLink{VendorID: vendorID, Status: LinkPending, Role: role, Sections: sections, RequestedAt: now}

	i := p.storeIndex(vendorID)
	if i < 0 {
		p.stores = append(p.stores, link)
		return nil
	}
	if p.stores[i].Status != LinkRejected {
		return errs.NewObjectAlreadyExistErrorWithCause(
			"store link", vendorID.String(),
			fmt.Errorf("request is already %s", p.stores[i].Status),
		)
	}
	p.stores[i] = link
	return nil
}

// Review applies the vendor's decision. Suspending or rejecting the store the
// picker is checked in at also checks them out.
func (p *Picker) Review(vendorID kernel.UUID, decision Decision, notes string, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	i := p.storeIndex(vendorID)
	if i < 0 {
		return errs.NewObjectNotFoundError("store link", vendorID.String())
	}

	reviewedAt := now
	p.stores[i].Status = decision.outcome()
	p.stores[i].ReviewedAt = &reviewedAt
	p.stores[i].Notes = notes

	if decision != DecisionApprove && p.isCheckedInAt(vendorID) {
		p.CheckOut()
	}
	return nil
}

// CheckIn starts a shift at an approved store.
func (p *Picker) CheckIn(vendorID kernel.UUID) error {
	if err := p.ensureApproved(vendorID); err != nil {
		return err
	}
	store := vendorID
	p.currentStore = &store
	p.isAvailable = true
	return nil
}

func (p *Picker) CheckOut() {
	p.currentStore = nil
	p.isAvailable = false
}

// ValidateCanPickFor checks the picker is approved, checked in at the vendor and available.
func (p *Picker) ValidateCanPickFor(vendorID kernel.UUID) error {
	if err := p.ensureApproved(vendorID); err != nil {
		return err
	}
	if !p.isCheckedInAt(vendorID) {
		return ErrNotCheckedIn
	}
	if !p.isAvailable {
		return ErrPickerIsNotAvailable
	}
	return nil
}

// RecordPickedOrder books a finished picking run.
func (p *Picker) RecordPickedOrder(items int) {
	p.stats.OrdersPicked++
	p.stats.ItemsPicked += items
}

func (p *Picker) ensureApproved(vendorID kernel.UUID) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.isActive {
		return ErrPickerIsInactive
	}
	link, ok := p.Store(vendorID)
	if !ok || link.Status != LinkApproved {
		return ErrStoreNotApproved
	}
	return nil
}

func (p *Picker) isCheckedInAt(vendorID kernel.UUID) bool {
	return p.currentStore != nil && p.currentStore.IsEqual(vendorID)
}

func (p *Picker) storeIndex(vendorID kernel.UUID) int {
	for i, s := range p.stores {
		if s.VendorID.IsEqual(vendorID) {
			return i
		}
	}
	return -1
}

func (p *Picker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Picker) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}
