package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WatchItem is one symbol on the market watch list.
type WatchItem struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Watched bool   `json:"isWatched"`
}

type Watchlist []WatchItem

// DefaultWatchlist is the list a new install starts with.
func DefaultWatchlist() Watchlist {
	return Watchlist{
		{Symbol: "BINANCE:BTCUSDT", Name: "Bitcoin", Watched: true},
		{Symbol: "BINANCE:ETHUSDT", Name: "Ethereum", Watched: true},
		{Symbol: "BINANCE:SOLUSDT", Name: "Solana", Watched: true},
		{Symbol: "BINANCE:ADAUSDT", Name: "Cardano"},
		{Symbol: "BINANCE:DOGEUSDT", Name: "Dogecoin"},
		{Symbol: "NASDAQ:AAPL", Name: "Apple Inc", Watched: true},
		{Symbol: "NASDAQ:TSLA", Name: "Tesla Inc"},
		{Symbol: "NASDAQ:MSFT", Name: "Microsoft", Watched: true},
		{Symbol: "FOREX:EURUSD", Name: "EUR/USD", Watched: true},
		{Symbol: "FOREX:GBPUSD", Name: "GBP/USD"},
	}
}

// Search matches query against symbol and name, ignoring case. An empty
// query returns everything.
func (w Watchlist) Search(query string) Watchlist {
	q := strings.ToLower(strings.TrimSpace(query))
	out := Watchlist{}
	for _, it := range w {
		if q == "" ||
			strings.Contains(strings.ToLower(it.Symbol), q) ||
			strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out
}

// Toggle flips the watched flag of symbol and returns the new list.
func (w Watchlist) Toggle(symbol string) (Watchlist, error) {
	out := make(Watchlist, len(w))
	copy(out, w)
	for i := range out {
		if strings.EqualFold(out[i].Symbol, symbol) {
			out[i].Watched = !out[i].Watched
			return out, nil
		}
	}
	return w, fmt.Errorf("symbol %q not on watch list", symbol)
}

func (w Watchlist) Watched() Watchlist {
	out := Watchlist{}
	for _, it := range w {
		if it.Watched {
			out = append(out, it)
		}
	}
	return out
}

// LoadWatchlist reads a JSON watch list. A missing file yields the default.
func LoadWatchlist(path string) (Watchlist, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultWatchlist(), nil
	}
	if err != nil {
		return nil, err
	}
	var w Watchlist
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return w, nil
}

func SaveWatchlist(path string, w Watchlist) error {
	if w == nil {
		w = Watchlist{}
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
