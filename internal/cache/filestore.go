package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store on the filesystem, one file per community
// holding the current entry. Writes go through a temporary file and a
// rename so that readers always see a complete entry.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// GetLatest implements Store.
func (fs *FileStore) GetLatest(ctx context.Context, community string) (*Entry, error) {
	data, err := os.ReadFile(fs.path(community))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Put implements Store.
func (fs *FileStore) Put(ctx context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := fs.path(entry.Community)
	tmpPath := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (fs *FileStore) path(community string) string {
	return filepath.Join(fs.dir, sanitizeKey(community)+".json")
}

// sanitizeKey ensures the community identifier is safe for use as a filename
func sanitizeKey(key string) string {
	unsafe := []string{"/", ":", "?", "&", "=", "#", "<", ">", "|", "*", "\""}
	result := key
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}
