package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/ports"

	"github.com/lucsky/cuid"
)

// UploadDeliveryPhotoCommandHandler checks ownership in a read-only unit of
// work, then streams the photo to proof storage and returns its URL. The URL
// is attached to the delivery by the pickup or complete step.
type UploadDeliveryPhotoCommandHandler struct {
	uowFactory UoWFactory
	storage    ports.ProofStorage
}

func NewUploadDeliveryPhotoCommandHandler(uowFactory UoWFactory, storage ports.ProofStorage) UploadDeliveryPhotoCommandHandler {
	return UploadDeliveryPhotoCommandHandler{uowFactory: uowFactory, storage: storage}
}

func (h *UploadDeliveryPhotoCommandHandler) Handle(ctx context.Context, cmd UploadDeliveryPhotoCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	if err := h.ensureRider(ctx, cmd); err != nil {
		return "", err
	}

	key := "deliveries/" + cmd.DeliveryID().String() + "/" + cuid.New() + cmd.Extension()
	return h.storage.Upload(ctx, key, cmd.ContentType(), cmd.Body(), cmd.Size())
}

func (h *UploadDeliveryPhotoCommandHandler) ensureRider(ctx context.Context, cmd UploadDeliveryPhotoCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dlv, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}
	if !dlv.IsRider(cmd.Requester().ID()) {
		return delivery.ErrNotDeliveryRider
	}
	return nil
}
