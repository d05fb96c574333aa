package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
)

// Package errors for asset sources.
var (
	// ErrRevoked is returned when opening a blob source after Revoke.
	ErrRevoked = errors.New("asset: blob source revoked")
)

// Source is an addressable asset source.
type Source interface {
	// Name returns a diagnostic name for the source (URL, path or label).
	Name() string

	// Open returns a reader for the asset bytes. The context bounds the
	// open and, for network sources, the subsequent reads.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// URLSource fetches an asset over HTTP.
type URLSource struct {
	// URL is the asset address.
	URL string

	// Client is the HTTP client to use. Nil means http.DefaultClient.
	Client *http.Client
}

// Name returns the URL.
func (s *URLSource) Name() string { return s.URL }

// Open issues a GET request for the asset. A non-200 status is an error;
// the response body is the asset bytes otherwise.
func (s *URLSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %d", s.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

// FileSource reads an asset from the local filesystem.
type FileSource string

// Name returns the file path.
func (s FileSource) Name() string { return string(s) }

// Open opens the file for reading.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(string(s))
}

// BlobSource wraps in-memory asset bytes, typically a user-uploaded
// file. It mirrors the temporary-blob-URL pattern: the caller revokes
// the blob once the load that consumed it has completed, after which
// Open fails with ErrRevoked.
type BlobSource struct {
	name    string
	data    []byte
	revoked atomic.Bool
}

// NewBlob creates a blob source over data with a diagnostic name.
// The data slice is retained, not copied.
func NewBlob(name string, data []byte) *BlobSource {
	return &BlobSource{name: name, data: data}
}

// Name returns the blob's diagnostic name.
func (s *BlobSource) Name() string { return s.name }

// Open returns a reader over the blob bytes, or ErrRevoked after Revoke.
func (s *BlobSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.revoked.Load() {
		return nil, fmt.Errorf("%s: %w", s.name, ErrRevoked)
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// Revoke releases the blob. Subsequent Open calls fail; readers already
// open keep working. Revoke is idempotent.
func (s *BlobSource) Revoke() { s.revoked.Store(true) }

// Revoked reports whether the blob has been revoked.
func (s *BlobSource) Revoked() bool { return s.revoked.Load() }
