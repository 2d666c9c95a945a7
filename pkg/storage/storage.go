package storage

import (
	"context"
	"io"
)

// ImageStore persists uploaded product images and resolves stored references
// into URLs that clients can fetch.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Resolve(ref string) string
	Remove(ctx context.Context, ref string) error
}
