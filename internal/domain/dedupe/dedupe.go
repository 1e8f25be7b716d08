// Package dedupe tracks digests of already-imported uploads so a
// byte-identical re-upload is skipped before parsing. Overlapping but
// non-identical uploads pass through here; the storage uniqueness
// constraints are the backstop that rejects their duplicate rows.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
)

// Deduper records upload digests for at-most-once import of identical blobs.
type Deduper interface {
	// SeenAndRecord atomically checks whether the digest was seen and
	// records it if not. Returns true if it was already seen.
	SeenAndRecord(ctx context.Context, digest string) bool

	// Unrecord forgets a digest, allowing the upload to be retried after a
	// failed import.
	Unrecord(ctx context.Context, digest string)

	// Size returns the number of tracked digests.
	Size() int
}

// UploadDigest fingerprints a blob scoped to its target tournament: the same
// file uploaded to two tournaments is two distinct imports.
func UploadDigest(tournamentID uuid.UUID, blob []byte) string {
	h := sha256.New()
	h.Write(tournamentID[:])
	h.Write(blob)
	return hex.EncodeToString(h.Sum(nil))
}

// Option applies a configuration option to the digest log.
type Option func(*digestLog)

// WithMaxSize bounds the number of remembered digests. When the bound is
// reached the oldest digest is evicted. A non-positive size means unbounded.
func WithMaxSize(n int) Option {
	return func(d *digestLog) {
		d.maxSize = n
	}
}

// digestLog implements Deduper with a map plus a FIFO ring for eviction.
type digestLog struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // FIFO of digests, oldest first; unused when unbounded
	maxSize int
}

// New creates a digest log. The default keeps the most recent 10000 digests.
func New(opts ...Option) Deduper {
	d := &digestLog{maxSize: 10000}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *digestLog) SeenAndRecord(_ context.Context, digest string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[digest]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
	d.seen[digest] = struct{}{}
	if d.maxSize > 0 {
		d.order = append(d.order, digest)
	}
	return false
}

func (d *digestLog) Unrecord(_ context.Context, digest string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[digest]; !ok {
		return
	}
	delete(d.seen, digest)
	for i, v := range d.order {
		if v == digest {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *digestLog) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
