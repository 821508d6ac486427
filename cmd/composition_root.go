package cmd

import (
	"context"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   commands.EventNotifier
	storage    ports.ProofStorage
	logger     *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	storage ports.ProofStorage,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   commands.NewEventNotifier(publisher, logger),
		storage:    storage,
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) pickerUoW() commands.PickerUoWFactory {
	return FuncPickerUoWFactory(func() commands.PickerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAutoAssignRiderCommandHandler() commands.AutoAssignRiderCommandHandler {
	return commands.NewAutoAssignRiderCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateManualAssignRiderCommandHandler() commands.ManualAssignRiderCommandHandler {
	return commands.NewManualAssignRiderCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateReassignRiderCommandHandler() commands.ReassignRiderCommandHandler {
	return commands.NewReassignRiderCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateAssignPendingOrdersCommandHandler() commands.AssignPendingOrdersCommandHandler {
	return commands.NewAssignPendingOrdersCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	return commands.NewAcceptDeliveryCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateRejectDeliveryCommandHandler() commands.RejectDeliveryCommandHandler {
	return commands.NewRejectDeliveryCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreatePickupDeliveryCommandHandler() commands.PickupDeliveryCommandHandler {
	return commands.NewPickupDeliveryCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateInTransitDeliveryCommandHandler() commands.InTransitDeliveryCommandHandler {
	return commands.NewInTransitDeliveryCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateReportIssueCommandHandler() commands.ReportIssueCommandHandler {
	return commands.NewReportIssueCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateUploadDeliveryPhotoCommandHandler() commands.UploadDeliveryPhotoCommandHandler {
	return commands.NewUploadDeliveryPhotoCommandHandler(c.uow(), c.storage)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateOrderActionCommandHandler() commands.OrderActionCommandHandler {
	return commands.NewOrderActionCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateAssignPickerCommandHandler() commands.AssignPickerCommandHandler {
	return commands.NewAssignPickerCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreatePickingStepCommandHandler() commands.PickingStepCommandHandler {
	return commands.NewPickingStepCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateUpdatePickedItemCommandHandler() commands.UpdatePickedItemCommandHandler {
	return commands.NewUpdatePickedItemCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateRequestStoreCommandHandler() commands.RequestStoreCommandHandler {
	return commands.NewRequestStoreCommandHandler(c.pickerUoW(), c.notifier)
}

func (c *CompositionRoot) CreateReviewPickerCommandHandler() commands.ReviewPickerCommandHandler {
	return commands.NewReviewPickerCommandHandler(c.pickerUoW(), c.notifier)
}

func (c *CompositionRoot) CreateChangePickerShiftCommandHandler() commands.ChangePickerShiftCommandHandler {
	return commands.NewChangePickerShiftCommandHandler(c.pickerUoW())
}

func (c *CompositionRoot) CreateGetAvailableRidersQueryHandler() queries.GetAvailableRidersQueryHandler {
	return queries.NewGetAvailableRidersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRiderEarningsQueryHandler() queries.GetRiderEarningsQueryHandler {
	return queries.NewGetRiderEarningsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(uowOrderReader{factory: c.uowFactory})
}

// HTTPHandlers wires every use case the HTTP adapter exposes.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		AutoAssign:      ptr(c.CreateAutoAssignRiderCommandHandler()),
		ManualAssign:    ptr(c.CreateManualAssignRiderCommandHandler()),
		Reassign:        ptr(c.CreateReassignRiderCommandHandler()),
		AvailableRiders: c.CreateGetAvailableRidersQueryHandler(),

		Accept:      ptr(c.CreateAcceptDeliveryCommandHandler()),
		Reject:      ptr(c.CreateRejectDeliveryCommandHandler()),
		Pickup:      ptr(c.CreatePickupDeliveryCommandHandler()),
		InTransit:   ptr(c.CreateInTransitDeliveryCommandHandler()),
		Complete:    ptr(c.CreateCompleteDeliveryCommandHandler()),
		ReportIssue: ptr(c.CreateReportIssueCommandHandler()),
		UploadPhoto: ptr(c.CreateUploadDeliveryPhotoCommandHandler()),

		ActiveDeliveries: c.CreateGetActiveDeliveriesQueryHandler(),
		Earnings:         c.CreateGetRiderEarningsQueryHandler(),

		CreateOrder: ptr(c.CreateCreateOrderCommandHandler()),
		GetOrder:    c.CreateGetOrderQueryHandler(),
		OrderAction: ptr(c.CreateOrderActionCommandHandler()),

		AssignPicker:     ptr(c.CreateAssignPickerCommandHandler()),
		PickingStep:      ptr(c.CreatePickingStepCommandHandler()),
		UpdatePickedItem: ptr(c.CreateUpdatePickedItemCommandHandler()),

		RequestStore: ptr(c.CreateRequestStoreCommandHandler()),
		ReviewPicker: ptr(c.CreateReviewPickerCommandHandler()),
		ChangeShift:  ptr(c.CreateChangePickerShiftCommandHandler()),
	}
}

func (c *CompositionRoot) CreateRiderAssignmentJob() *jobs.RiderAssignmentJob {
	return jobs.NewRiderAssignmentJob(
		ptr(c.CreateAssignPendingOrdersCommandHandler()),
		c.cfg.AssignmentInterval,
		c.cfg.AssignmentBatch,
		c.logger,
	)
}

func ptr[T any](v T) *T {
	return &v
}

// uowOrderReader loads orders outside any transaction.
type uowOrderReader struct {
	factory ports.UnitOfWorkFactory
}

func (r uowOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.factory.Create().OrderRepository().Get(ctx, id)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncPickerUoWFactory func() commands.PickerUoW

func (f FuncPickerUoWFactory) Create() commands.PickerUoW {
	return f()
}
