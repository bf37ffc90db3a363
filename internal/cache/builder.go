package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// PackageSource provides the inputs for index regeneration.
type PackageSource interface {
	// Communities lists the identifiers of all communities that have
	// package listings.
	Communities(ctx context.Context) ([]string, error)

	// IndexPackages returns the serveable packages of a community:
	// active, non-hidden and passing the community's review rules.
	IndexPackages(ctx context.Context, community string) ([]PackageSummary, error)
}

// Builder regenerates index snapshots. Safe for concurrent use across
// communities; concurrent runs for the same community are redundant but
// harmless since the store resolves them last-writer-wins.
type Builder struct {
	Source PackageSource
	Store  Store

	// Now is a test seam; defaults to time.Now.
	Now func() time.Time
}

// Regenerate builds and stores a fresh index snapshot for a community.
// An empty package set produces a valid empty payload, not an error.
func (b *Builder) Regenerate(ctx context.Context, community string) (*Entry, error) {
	packages, err := b.Source.IndexPackages(ctx, community)
	if err != nil {
		return nil, fmt.Errorf("load index packages: %w", err)
	}
	if packages == nil {
		packages = []PackageSummary{}
	}

	body, err := json.Marshal(packages)
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(body); err != nil {
		return nil, fmt.Errorf("compress index: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compress index: %w", err)
	}

	entry := &Entry{
		ID:              uuid.New(),
		Community:       community,
		Content:         buf.Bytes(),
		ContentType:     "application/json",
		ContentEncoding: "gzip",
		LastModified:    b.stamp(ctx, community),
	}

	if err := b.Store.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("store index: %w", err)
	}
	return entry, nil
}

// RegenerateAll rebuilds the index for every listed community. Failures are
// collected so one broken community doesn't starve the rest.
func (b *Builder) RegenerateAll(ctx context.Context) error {
	communities, err := b.Source.Communities(ctx)
	if err != nil {
		return fmt.Errorf("list communities: %w", err)
	}

	var errs []error
	for _, community := range communities {
		if _, err := b.Regenerate(ctx, community); err != nil {
			errs = append(errs, fmt.Errorf("regenerate %s: %w", community, err))
		}
	}
	return errors.Join(errs...)
}

// stamp produces the new entry's LastModified: the current wall clock
// truncated to seconds, but never before the previous entry's stamp so
// timestamps stay monotonically non-decreasing per community.
func (b *Builder) stamp(ctx context.Context, community string) time.Time {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	stamp := now().UTC().Truncate(time.Second)

	previous, err := b.Store.GetLatest(ctx, community)
	if err == nil && stamp.Before(previous.LastModified) {
		return previous.LastModified
	}
	return stamp
}
