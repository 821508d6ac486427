package ports

import (
	"context"
	"io"
)

// ProofStorage keeps delivery proof photos and returns their public URL.
type ProofStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
