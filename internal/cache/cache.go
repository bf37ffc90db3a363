// Package cache maintains the serveable package index snapshots. Each
// community has an append-only sequence of immutable entries; only the most
// recent one is ever served. Regeneration writes a new entry and atomically
// supersedes the previous one, so readers never observe a half-written
// payload.
package cache

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound means no index has been generated for the community yet.
// Callers translate it to a 503 response.
var ErrNotFound = errors.New("cache entry not found")

// Entry is one immutable index snapshot plus its HTTP caching metadata.
type Entry struct {
	ID              uuid.UUID `json:"id"`
	Community       string    `json:"community"`
	Content         []byte    `json:"content"`
	ContentType     string    `json:"content_type"`
	ContentEncoding string    `json:"content_encoding"`
	LastModified    time.Time `json:"last_modified"`
}

// NotModifiedSince reports whether a request carrying the given
// If-Modified-Since header value can be answered with 304. Comparison is
// truncated to whole seconds since HTTP dates carry no finer resolution.
func (e *Entry) NotModifiedSince(header string) bool {
	if header == "" {
		return false
	}
	since, err := http.ParseTime(header)
	if err != nil {
		return false
	}
	return !since.Truncate(time.Second).Before(e.LastModified.Truncate(time.Second))
}

// HTTPLastModified formats the entry timestamp per HTTP-date rules.
func (e *Entry) HTTPLastModified() string {
	return e.LastModified.UTC().Format(http.TimeFormat)
}

// Store persists index snapshots per community.
type Store interface {
	// GetLatest returns the current entry for a community, or ErrNotFound
	// if no regeneration has ever happened.
	GetLatest(ctx context.Context, community string) (*Entry, error)

	// Put stores a new entry and makes it the current one for its
	// community. Concurrent puts for the same community are safe; the
	// last writer wins.
	Put(ctx context.Context, entry *Entry) error
}
