package journal

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps records for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	trades map[string]TradeRecord
}

func NewMemory() *MemoryStore {
	return &MemoryStore{trades: make(map[string]TradeRecord)}
}

// NewMemoryFrom seeds a store with recs, validating each.
func NewMemoryFrom(recs []TradeRecord) (*MemoryStore, error) {
	m := NewMemory()
	for _, r := range recs {
		if _, err := m.Add(context.Background(), r); err != nil {
			return nil, fmt.Errorf("seed %s: %w", r.ID, err)
		}
	}
	return m, nil
}

func (m *MemoryStore) Add(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	t, err := prepare(t)
	if err != nil {
		return TradeRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.trades[t.ID]; dup {
		return TradeRecord{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidTrade, t.ID)
	}
	m.trades[t.ID] = t
	return t.Clone(), nil
}

func (m *MemoryStore) Get(ctx context.Context, tradeID string) (TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trades[tradeID]
	if !ok {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	return t.Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	t = t.Clone()
	t.SetTags(t.Tags)
	if err := t.Normalize(); err != nil {
		return TradeRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trades[t.ID]; !ok {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", t.ID, ErrNotFound)
	}
	m.trades[t.ID] = t
	return t.Clone(), nil
}

func (m *MemoryStore) Delete(ctx context.Context, tradeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trades[tradeID]; !ok {
		return fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	delete(m.trades, tradeID)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TradeRecord, 0, len(m.trades))
	for _, t := range m.trades {
		out = append(out, t.Clone())
	}
	SortChronological(out)
	return out, nil
}

// ListBetween returns trades entered within [start, end).
func (m *MemoryStore) ListBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if !t.EntryTime.Before(start) && t.EntryTime.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddExit(ctx context.Context, tradeID string, in ExitInput) (TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trades[tradeID]
	if !ok {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	t = t.Clone()
	if _, err := t.AddExit(in.Price, in.Quantity, in.Time); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, err)
	}
	m.trades[tradeID] = t
	return t.Clone(), nil
}

// snapshot copies the record map. Stored records are replaced, never
// modified in place, so the copy stays valid.
func (m *MemoryStore) snapshot() map[string]TradeRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.trades)
}

func (m *MemoryStore) restore(trades map[string]TradeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = trades
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trades)
}

func (m *MemoryStore) Close() error {
	return nil
}
