package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DirStore writes files into a single local directory.
//
// Names are joined onto the directory as given. Unless the store is
// confined, a name such as "../x.csv" lands outside the directory.
type DirStore struct {
	dir     string
	confine bool
}

// DirOption configures a DirStore.
type DirOption func(*DirStore)

// WithConfinement rejects names that are not local to the directory.
func WithConfinement(on bool) DirOption {
	return func(s *DirStore) { s.confine = on }
}

// NewDirStore creates dir (and parents) if absent and returns a store
// rooted there.
func NewDirStore(dir string, opts ...DirOption) (*DirStore, error) {
	if dir == "" {
		return nil, errors.New("storage: empty upload directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	s := &DirStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *DirStore) Kind() string { return "dir" }

// Dir returns the root directory.
func (s *DirStore) Dir() string { return s.dir }

// Path returns where name would be written. An absolute name replaces the
// root entirely.
func (s *DirStore) Path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(s.dir, name)
}

// Put stages the payload in a sibling temp file and renames it over the
// target, so readers only ever see a complete upload. Concurrent writers to
// the same name race; the last rename wins.
func (s *DirStore) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if name == "" {
		return 0, errors.New("storage: empty name")
	}
	if s.confine && !filepath.IsLocal(name) {
		return 0, fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}

	target := s.Path(name)
	// Fixed-length staging name, so any name the filesystem accepts can be staged.
	tmp := filepath.Join(filepath.Dir(target), ".csvdrop-"+uuid.NewString()+".part")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create staging file: %w", err)
	}

	n, err := io.Copy(f, ctxReader{ctx: ctx, r: r})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return n, fmt.Errorf("write %s: %w", name, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return n, fmt.Errorf("rename into place: %w", err)
	}
	return n, nil
}

// Check verifies the root still exists and is a directory.
func (s *DirStore) Check(ctx context.Context) error {
	fi, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("storage: %s is not a directory", s.dir)
	}
	return nil
}

// ctxReader stops a copy once the request context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
