package analytics

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradelab/journal"
)

// Predicate selects a record.
type Predicate func(journal.TradeRecord) bool

// Filter returns the records matching every predicate in a new slice.
// The records are copies, so callers may modify them freely.
func Filter(recs []journal.TradeRecord, preds ...Predicate) []journal.TradeRecord {
	out := make([]journal.TradeRecord, 0, len(recs))
next:
	for _, r := range recs {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r.Clone())
	}
	return out
}

func ByCategory(c journal.Category) Predicate {
	return func(r journal.TradeRecord) bool { return r.Category == c }
}

func ByStatus(s journal.Status) Predicate {
	return func(r journal.TradeRecord) bool { return r.Status == s }
}

func BySymbol(symbol string) Predicate {
	return func(r journal.TradeRecord) bool { return strings.EqualFold(r.Symbol, symbol) }
}

func ByTag(tag string) Predicate {
	return func(r journal.TradeRecord) bool { return r.HasTag(tag) }
}

func Profits(r journal.TradeRecord) bool { return r.TotalPnL > 0 }

func Losses(r journal.TradeRecord) bool { return r.TotalPnL < 0 }

// Open matches trades with no exits yet.
func Open(r journal.TradeRecord) bool { return r.Status == journal.StatusOpen }

// FilterByName maps a journal filter name to a predicate: "all",
// "profits", "losses", "open", or a category name.
func FilterByName(name string) (Predicate, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "all":
		return func(journal.TradeRecord) bool { return true }, nil
	case "profits":
		return Profits, nil
	case "losses":
		return Losses, nil
	case "open":
		return Open, nil
	default:
		c, err := journal.ParseCategory(n)
		if err != nil {
			return nil, fmt.Errorf("unknown filter %q (supported: all, profits, losses, open, scalp, swing, position)", name)
		}
		return ByCategory(c), nil
	}
}
