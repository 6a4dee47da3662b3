package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps the journal as a JSON array of records in a single file.
// The whole file is rewritten after every change.
type FileStore struct {
	path string

	mu  sync.Mutex
	mem *MemoryStore
}

// OpenFile loads path, creating an empty journal when the file is missing.
func OpenFile(path string) (*FileStore, error) {
	recs, err := readFile(path)
	if err != nil {
		return nil, err
	}
	mem, err := NewMemoryFrom(recs)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &FileStore{path: path, mem: mem}, nil
}

func readFile(path string) ([]TradeRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JSON array of trade records. Empty input is an empty journal.
func Decode(r io.Reader) ([]TradeRecord, error) {
	var recs []TradeRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode journal: %w", err)
	}
	return recs, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Add(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out TradeRecord
	err := s.commit(ctx, func() (err error) {
		out, err = s.mem.Add(ctx, t)
		return err
	})
	if err != nil {
		return TradeRecord{}, err
	}
	return out, nil
}

func (s *FileStore) Get(ctx context.Context, tradeID string) (TradeRecord, error) {
	return s.mem.Get(ctx, tradeID)
}

func (s *FileStore) Update(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out TradeRecord
	err := s.commit(ctx, func() (err error) {
		out, err = s.mem.Update(ctx, t)
		return err
	})
	if err != nil {
		return TradeRecord{}, err
	}
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, tradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, func() error {
		return s.mem.Delete(ctx, tradeID)
	})
}

func (s *FileStore) List(ctx context.Context) ([]TradeRecord, error) {
	return s.mem.List(ctx)
}

func (s *FileStore) ListBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	return s.mem.ListBetween(ctx, start, end)
}

func (s *FileStore) AddExit(ctx context.Context, tradeID string, in ExitInput) (TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out TradeRecord
	err := s.commit(ctx, func() (err error) {
		out, err = s.mem.AddExit(ctx, tradeID, in)
		return err
	})
	if err != nil {
		return TradeRecord{}, err
	}
	return out, nil
}

func (s *FileStore) Close() error {
	return nil
}

// commit applies change to memory and writes the file. If the write fails
// the in-memory journal is restored so it keeps matching the file.
func (s *FileStore) commit(ctx context.Context, change func() error) error {
	before := s.mem.snapshot()
	if err := change(); err != nil {
		return err
	}
	if err := s.flush(ctx); err != nil {
		s.mem.restore(before)
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// flush writes to a temp file in the same directory and renames it over
// the journal so a crash never leaves a half-written file.
func (s *FileStore) flush(ctx context.Context) error {
	recs, err := s.mem.List(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".journal-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
