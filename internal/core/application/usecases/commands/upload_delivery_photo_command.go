package commands

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// MaxPhotoBytes caps a single proof photo.
const MaxPhotoBytes = 10 << 20

var ErrUploadDeliveryPhotoCommandIsNotConstructed = errors.New(
	"UploadDeliveryPhotoCommand must be created via NewUploadDeliveryPhotoCommand constructor",
)

// UploadDeliveryPhotoCommand stores a proof photo for a delivery the caller rides.
type UploadDeliveryPhotoCommand struct { //nolint:recvcheck //using for validation
	deliveryID  kernel.UUID
	fileName    string
	contentType string
	size        int64
	body        io.Reader
	requester   Requester

	guard guard.ConstructorGuard
}

func NewUploadDeliveryPhotoCommand(
	deliveryID kernel.UUID,
	fileName, contentType string,
	size int64,
	body io.Reader,
	requester Requester,
) (UploadDeliveryPhotoCommand, error) {
	cmd := UploadDeliveryPhotoCommand{
		deliveryID:  deliveryID,
		fileName:    fileName,
		contentType: contentType,
		size:        size,
		body:        body,
		requester:   requester,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		deliveryID.Validate(),
		cmd.validateFile(),
		requester.Validate(),
	); err != nil {
		return UploadDeliveryPhotoCommand{}, err
	}
	return cmd, nil
}

func (c UploadDeliveryPhotoCommand) Validate() error {
	return c.guard.Validate(ErrUploadDeliveryPhotoCommandIsNotConstructed)
}

func (c UploadDeliveryPhotoCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c UploadDeliveryPhotoCommand) ContentType() string {
	return c.contentType
}

func (c UploadDeliveryPhotoCommand) Size() int64 {
	return c.size
}

func (c UploadDeliveryPhotoCommand) Body() io.Reader {
	return c.body
}

func (c UploadDeliveryPhotoCommand) Requester() Requester {
	return c.requester
}

// Extension returns the lowercased file extension including the dot.
func (c UploadDeliveryPhotoCommand) Extension() string {
	return strings.ToLower(path.Ext(c.fileName))
}

func (c UploadDeliveryPhotoCommand) validateFile() error {
	if c.body == nil {
		return errs.NewValueIsRequiredError("photo")
	}
	if !strings.HasPrefix(c.contentType, "image/") {
		return errs.NewValueIsInvalidErrorWithCause("photo", fmt.Errorf("%q is not an image", c.contentType))
	}
	if c.size <= 0 || c.size > MaxPhotoBytes {
		return errs.NewValueIsOutOfRangeError("photo size", c.size, 1, MaxPhotoBytes)
	}
	return nil
}
