// Package upload resolves candidate resume files to stable URLs before a
// session is created.
package upload

import (
	"context"
	"io"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}
