package journal

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/tradelab/pkg/id"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/rustyeddy/tradelab/pnl"
)

type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

type Category string

const (
	Scalp    Category = "scalp"
	Swing    Category = "swing"
	Position Category = "position"
)

type Status string

const (
	StatusOpen    Status = "open"
	StatusPartial Status = "partial"
	StatusClosed  Status = "closed"
)

var (
	ErrInvalidTrade    = errors.New("invalid trade")
	ErrInvalidExit     = errors.New("invalid exit")
	ErrOverExit        = errors.New("exit quantity exceeds open quantity")
	ErrExitBeforeEntry = errors.New("exit time before entry time")
)

// qtyEpsilon absorbs float noise when partial exits add up to the entry
// quantity (0.1 = 0.05 + 0.05).
const qtyEpsilon = 1e-9

var validate = validator.New()

// Entry is the opening leg of a trade.
type Entry struct {
	Symbol     string    `json:"symbol" validate:"required"`
	Direction  Direction `json:"direction" validate:"oneof=LONG SHORT"`
	EntryPrice float64   `json:"entryPrice" validate:"gt=0"`
	EntryTime  time.Time `json:"entryTime"`
	StopPrice  float64   `json:"stopPrice,omitempty" validate:"gte=0"`
	Quantity   float64   `json:"quantity" validate:"gt=0"`
	Leverage   float64   `json:"leverage,omitempty" validate:"gte=1"`
}

// Exit is a full or partial close. PnL is derived from the trade's entry.
type Exit struct {
	ID       string    `json:"id"`
	Price    float64   `json:"price"`
	Quantity float64   `json:"quantity"`
	Time     time.Time `json:"time"`
	PnL      float64   `json:"pnl"`
}

// TradeRecord is one journal row: an entry and the exits taken against it.
// Exits are kept in insertion order, which is treated as chronological.
type TradeRecord struct {
	ID string `json:"id"`
	Entry
	Exits    []Exit   `json:"exits"`
	TotalPnL float64  `json:"totalPnL"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
	Category Category `json:"category"`
	Status   Status   `json:"status"`
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY":
		return Long, nil
	case "SHORT", "SELL":
		return Short, nil
	}
	return "", fmt.Errorf("unknown direction %q (supported: LONG, SHORT)", s)
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case Scalp, Swing, Position:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (supported: scalp, swing, position)", s)
}

// NewTrade validates entry and returns an open trade with a fresh ID.
// Leverage defaults to 1 and category to swing.
func NewTrade(e Entry, cat Category, notes string, tags []string) (TradeRecord, error) {
	if cat == "" {
		cat = Swing
	}
	t := TradeRecord{
		ID:       id.New(),
		Entry:    e,
		Notes:    notes,
		Category: cat,
	}
	t.SetTags(tags)
	if err := t.Normalize(); err != nil {
		return TradeRecord{}, err
	}
	return t, nil
}

// Normalize fills defaults, validates the record and recomputes every
// derived field. Exits whose PnL was stored are recomputed from the
// current entry, so editing the entry price keeps the totals consistent.
func (t *TradeRecord) Normalize() error {
	if t.Leverage == 0 {
		t.Leverage = 1
	}
	if t.EntryTime.IsZero() {
		t.EntryTime = time.Now().UTC()
	}
	if t.Category == "" {
		t.Category = Swing
	}
	if t.Exits == nil {
		t.Exits = []Exit{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if err := t.Validate(); err != nil {
		return err
	}
	for i := range t.Exits {
		if t.Exits[i].ID == "" {
			t.Exits[i].ID = id.New()
		}
	}
	t.recompute()
	return nil
}

// Validate checks the entry leg and every exit without changing the record.
func (t *TradeRecord) Validate() error {
	if err := validate.Struct(t.Entry); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTrade, describe(err))
	}
	if !num.AllPositive(t.EntryPrice, t.Quantity) || !num.Finite(t.StopPrice) || !num.Finite(t.Leverage) {
		return fmt.Errorf("%w: prices and quantity must be finite", ErrInvalidTrade)
	}
	if t.StopPrice != 0 && t.StopPrice == t.EntryPrice {
		return fmt.Errorf("%w: stop price must differ from entry price", ErrInvalidTrade)
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTrade, err)
	}

	var exited float64
	for i, x := range t.Exits {
		if err := t.checkExit(x.Price, x.Quantity, x.Time, exited); err != nil {
			return fmt.Errorf("exit %d: %w", i+1, err)
		}
		exited += x.Quantity
	}
	return nil
}

func (t *TradeRecord) checkExit(price, qty float64, at time.Time, exited float64) error {
	if !num.AllPositive(price, qty) {
		return fmt.Errorf("%w: price and quantity must be positive", ErrInvalidExit)
	}
	if exited+qty > t.Quantity+qtyEpsilon {
		return fmt.Errorf("%w: %s > %s open", ErrOverExit,
			num.Fixed(qty, 8), num.Fixed(t.Quantity-exited, 8))
	}
	if !at.IsZero() && !t.EntryTime.IsZero() && at.Before(t.EntryTime) {
		return ErrExitBeforeEntry
	}
	return nil
}

// AddExit closes qty units at price. A zero time means now.
func (t *TradeRecord) AddExit(price, qty float64, at time.Time) (Exit, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := t.checkExit(price, qty, at, t.ExitedQuantity()); err != nil {
		return Exit{}, err
	}

	x := Exit{
		ID:       id.New(),
		Price:    price,
		Quantity: qty,
		Time:     at,
	}
	t.Exits = append(t.Exits, x)
	t.recompute()
	return t.Exits[len(t.Exits)-1], nil
}

// RemoveExit deletes the exit with exitID and recomputes the totals.
func (t *TradeRecord) RemoveExit(exitID string) bool {
	for i, x := range t.Exits {
		if x.ID == exitID {
			t.Exits = append(t.Exits[:i:i], t.Exits[i+1:]...)
			t.recompute()
			return true
		}
	}
	return false
}

func (t *TradeRecord) ExitedQuantity() float64 {
	var q float64
	for _, x := range t.Exits {
		q += x.Quantity
	}
	return q
}

// Remaining is the quantity still open, never negative.
func (t *TradeRecord) Remaining() float64 {
	return math.Max(0, t.Quantity-t.ExitedQuantity())
}

// AverageExitPrice is the quantity-weighted exit price, 0 with no exits.
func (t *TradeRecord) AverageExitPrice() float64 {
	q := t.ExitedQuantity()
	if q == 0 {
		return 0
	}
	var notional float64
	for _, x := range t.Exits {
		notional += x.Price * x.Quantity
	}
	return notional / q
}

// ClosedAt is the time of the last exit, zero while the trade is open.
func (t *TradeRecord) ClosedAt() time.Time {
	if len(t.Exits) == 0 {
		return time.Time{}
	}
	return t.Exits[len(t.Exits)-1].Time
}

// SetTags stores tags trimmed, deduplicated and without empties, keeping
// first-seen order.
func (t *TradeRecord) SetTags(tags []string) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	t.Tags = out
}

func (t *TradeRecord) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (t TradeRecord) Clone() TradeRecord {
	c := t
	c.Exits = append([]Exit(nil), t.Exits...)
	c.Tags = append([]string(nil), t.Tags...)
	if c.Exits == nil {
		c.Exits = []Exit{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}

func (t *TradeRecord) recompute() {
	var total, exited float64
	for i := range t.Exits {
		x := &t.Exits[i]
		x.PnL = pnl.ExitPnL(t.Direction == Long, t.EntryPrice, x.Price, x.Quantity)
		total += x.PnL
		exited += x.Quantity
	}
	t.TotalPnL = total

	switch {
	case len(t.Exits) == 0:
		t.Status = StatusOpen
	case exited >= t.Quantity-qtyEpsilon:
		t.Status = StatusClosed
	default:
		t.Status = StatusPartial
	}
}

// SortChronological orders records by entry time, then ID.
func SortChronological(recs []TradeRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].EntryTime.Equal(recs[j].EntryTime) {
			return recs[i].EntryTime.Before(recs[j].EntryTime)
		}
		return recs[i].ID < recs[j].ID
	})
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
