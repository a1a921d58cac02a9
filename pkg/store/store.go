// Package store archives finished renders so they can be fetched again by
// ID.
//
// Three backends implement [Store]:
//   - [MemoryStore]: bounded in-process archive for development and tests
//   - [FileStore]: JSON documents on disk for single-host deployments
//   - [MongoStore]: shared archive for multi-instance servers
//
// # Usage
//
//	rec := store.NewRecord("NEO", "png", pngBytes)
//	rec.Seed = result.Seed
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
//
//	rec, err := st.Get(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown or evicted
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("render not found")

// Record is one archived render.
type Record struct {
	ID          string    `json:"id"`
	Identity    string    `json:"identity"`
	Seed        uint64    `json:"seed"`
	FrameID     string    `json:"frame_id"`
	SourceKind  string    `json:"source_kind"`
	Format      string    `json:"format"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the interface for render archives.
type Store interface {
	// Save stores rec. Records without an ID are assigned one.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a random record ID.
func NewID() string {
	return uuid.NewString()
}

// NewRecord creates a record with a fresh ID and creation time.
func NewRecord(identity, format string, data []byte) *Record {
	return &Record{
		ID:        NewID(),
		Identity:  identity,
		Format:    format,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

// ValidID reports whether id has the shape produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func prepare(rec *Record) error {
	if rec == nil {
		return errors.New("store: nil record")
	}
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return nil
}
