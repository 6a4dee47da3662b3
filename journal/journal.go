// Package journal records trades, their partial exits, and persists them.
package journal

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("trade not found")

// ExitInput is a user-entered exit. A zero Time means now.
type ExitInput struct {
	Price    float64
	Quantity float64
	Time     time.Time
}

// Store holds trade records. List methods return records in chronological
// order of entry; returned records are copies the caller may modify.
type Store interface {
	Add(ctx context.Context, t TradeRecord) (TradeRecord, error)
	Get(ctx context.Context, tradeID string) (TradeRecord, error)
	Update(ctx context.Context, t TradeRecord) (TradeRecord, error)
	Delete(ctx context.Context, tradeID string) error
	List(ctx context.Context) ([]TradeRecord, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error)
	AddExit(ctx context.Context, tradeID string, in ExitInput) (TradeRecord, error)
	Close() error
}

// prepare validates t for insertion, assigning an ID if it has none.
func prepare(t TradeRecord) (TradeRecord, error) {
	t = t.Clone()
	if t.ID == "" {
		nt, err := NewTrade(t.Entry, t.Category, t.Notes, t.Tags)
		if err != nil {
			return TradeRecord{}, err
		}
		nt.Exits = t.Exits
		t = nt
	}
	t.SetTags(t.Tags)
	if err := t.Normalize(); err != nil {
		return TradeRecord{}, err
	}
	return t, nil
}
