package productController

import (
	"context"
	"io"
)

// PhotoStore is the external asset store for product photos. A nil store
// means photo handling is disabled.
type PhotoStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}
