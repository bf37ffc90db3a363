package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modvault/modvault/internal/cache"
)

// IndexCacheStore implements cache.Store on Postgres. Entries are append
// only; superseding flips the is_active marker and inserts the new row in a
// single transaction, so readers either see the old entry or the new one.
type IndexCacheStore struct {
	pool *pgxpool.Pool
}

func NewIndexCacheStore(pool *pgxpool.Pool) *IndexCacheStore {
	return &IndexCacheStore{pool: pool}
}

const getLatestIndexCache = `
SELECT ic.id, ic.content, ic.content_type, ic.content_encoding, ic.last_modified
FROM package_index_cache ic
JOIN communities c ON c.id = ic.community_id
WHERE c.identifier = $1 AND ic.is_active
ORDER BY ic.last_modified DESC
LIMIT 1
`

// GetLatest implements cache.Store.
func (s *IndexCacheStore) GetLatest(ctx context.Context, community string) (*cache.Entry, error) {
	row := s.pool.QueryRow(ctx, getLatestIndexCache, community)

	entry := &cache.Entry{Community: community}
	err := row.Scan(&entry.ID, &entry.Content, &entry.ContentType, &entry.ContentEncoding, &entry.LastModified)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

const deactivateIndexCache = `
UPDATE package_index_cache
SET is_active = FALSE
WHERE community_id = (SELECT id FROM communities WHERE identifier = $1) AND is_active
`

const insertIndexCache = `
INSERT INTO package_index_cache
    (id, community_id, content, content_type, content_encoding, last_modified, is_active)
SELECT $2, id, $3, $4, $5, $6, TRUE
FROM communities
WHERE identifier = $1
`

// Put implements cache.Store.
func (s *IndexCacheStore) Put(ctx context.Context, entry *cache.Entry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, deactivateIndexCache, entry.Community); err != nil {
		return fmt.Errorf("deactivate previous entry: %w", err)
	}

	tag, err := tx.Exec(ctx, insertIndexCache,
		entry.Community, entry.ID, entry.Content,
		entry.ContentType, entry.ContentEncoding, entry.LastModified,
	)
	if err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unknown community %q", entry.Community)
	}

	return tx.Commit(ctx)
}
