// Package storage holds the flat namespaces uploaded files are written into.
// A name maps to exactly one stored object; writing a name again replaces
// whatever was stored under it.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUnsafeName is returned by a confined store when a name would resolve
// outside of its root.
var ErrUnsafeName = errors.New("storage: name escapes store root")

// Store writes uploaded payloads under caller-supplied names.
type Store interface {
	// Put copies r into the store under name, replacing any previous object
	// of that name, and returns the number of bytes written.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)

	// Check reports whether the backing location is reachable.
	Check(ctx context.Context) error

	// Kind is a short label for logs and the health endpoint.
	Kind() string
}
