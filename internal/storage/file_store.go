package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileStore keeps all records in one JSON document on disk.
// Every save re-reads the document under an exclusive file lock, replaces one key
// and writes the document back through a temp file.
type FileStore struct {
	records
	path string
	flk  *flock.Flock
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{
		path: path,
		flk:  flock.New(path + ".lock"),
	}
	s.records = records{kv: fileKV{s: s}}
	return s, nil
}

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	values, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	return s.update(func(doc map[string]json.RawMessage) {
		for key, raw := range values {
			doc[key] = raw
		}
	})
}

func (s *FileStore) readLocked() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) update(fn func(doc map[string]json.RawMessage)) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	doc, err := s.readLocked()
	if err != nil {
		return err
	}
	fn(doc)

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

type fileKV struct {
	s *FileStore
}

func (k fileKV) get(_ context.Context, key string) ([]byte, bool, error) {
	if err := k.s.flk.RLock(); err != nil {
		return nil, false, fmt.Errorf("lock %s: %w", k.s.path, err)
	}
	defer func() { _ = k.s.flk.Unlock() }()

	doc, err := k.s.readLocked()
	if err != nil {
		return nil, false, err
	}
	raw, ok := doc[key]
	return raw, ok, nil
}

func (k fileKV) put(_ context.Context, key string, value []byte) error {
	return k.s.update(func(doc map[string]json.RawMessage) {
		doc[key] = json.RawMessage(value)
	})
}
