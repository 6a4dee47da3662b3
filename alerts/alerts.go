// Package alerts holds price alerts and evaluates them against a price
// source.
package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/tradelab/market"
	"github.com/rustyeddy/tradelab/pkg/id"
	"github.com/rustyeddy/tradelab/pkg/num"
)

type Type string

const (
	Above Type = "above"
	Below Type = "below"
	// Cross fires when price moves through the level in either direction
	// since the last observation.
	Cross Type = "cross"
)

var ErrNotFound = errors.New("alert not found")

var validate = validator.New()

type Alert struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol" validate:"required"`
	Type         Type      `json:"type" validate:"oneof=above below cross"`
	Price        float64   `json:"price" validate:"gt=0"`
	CurrentPrice float64   `json:"currentPrice"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Triggered    bool      `json:"triggered"`
	TriggeredAt  time.Time `json:"triggeredAt,omitempty"`
}

// New validates the fields and returns an untriggered alert.
func New(symbol string, typ Type, price float64, message string) (Alert, error) {
	a := Alert{
		ID:        id.New(),
		Symbol:    strings.ToUpper(strings.TrimSpace(symbol)),
		Type:      Type(strings.ToLower(string(typ))),
		Price:     price,
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return Alert{}, err
	}
	return a, nil
}

// Parse builds an alert from form text.
func Parse(symbol, typ, price, message string) (Alert, error) {
	if strings.TrimSpace(symbol) == "" || strings.TrimSpace(price) == "" {
		return Alert{}, errors.New("please select a symbol and enter a price")
	}
	p, ok := num.Positive(price)
	if !ok {
		return Alert{}, fmt.Errorf("price must be a positive number, got %q", price)
	}
	return New(symbol, Type(typ), p, message)
}

func (a Alert) Validate() error {
	if err := validate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid alert: %s failed %s", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	if !num.Finite(a.Price) {
		return errors.New("invalid alert: price must be finite")
	}
	return nil
}

// Ticker strips an exchange prefix: "BINANCE:BTCUSDT" is "BTCUSDT".
func (a Alert) Ticker() string {
	if i := strings.LastIndexByte(a.Symbol, ':'); i >= 0 {
		return a.Symbol[i+1:]
	}
	return a.Symbol
}

// Hit reports whether current satisfies the alert. Above fires at or over
// the level, Below at or under it. Cross needs a previous observation in
// CurrentPrice and fires when the level lies between the two prices.
func (a Alert) Hit(current float64) bool {
	switch a.Type {
	case Above:
		return current >= a.Price
	case Below:
		return current <= a.Price
	case Cross:
		prev := a.CurrentPrice
		if prev <= 0 {
			return false
		}
		lo, hi := min(prev, current), max(prev, current)
		return lo <= a.Price && a.Price <= hi && prev != a.Price
	}
	return false
}

func (a Alert) String() string {
	s := fmt.Sprintf("%s %s %s", a.Ticker(), a.Type, num.Money(a.Price))
	if a.Message != "" {
		s += ": " + a.Message
	}
	return s
}

// Check evaluates every untriggered alert against src at now. It returns
// all alerts with CurrentPrice and trigger state updated, and the ones that
// fired on this call. Alerts whose price is unavailable are left as they
// were and reported in the joined error.
func Check(ctx context.Context, list []Alert, src market.PriceSource, now time.Time) (updated, fired []Alert, err error) {
	updated = make([]Alert, len(list))
	copy(updated, list)

	var errs []error
	for i := range updated {
		a := &updated[i]
		if a.Triggered {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cur, perr := src.Price(ctx, a.Symbol)
		if perr != nil {
			errs = append(errs, fmt.Errorf("alert %s: %w", a.ID, perr))
			continue
		}
		hit := a.Hit(cur)
		a.CurrentPrice = cur
		if hit {
			a.Triggered = true
			a.TriggeredAt = now
			fired = append(fired, *a)
		}
	}
	return updated, fired, errors.Join(errs...)
}

// Remove drops the alert with alertID.
func Remove(list []Alert, alertID string) ([]Alert, error) {
	for i, a := range list {
		if a.ID == alertID {
			out := make([]Alert, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), nil
		}
	}
	return list, fmt.Errorf("alert %q: %w", alertID, ErrNotFound)
}

// Load reads a JSON array of alerts. A missing file is an empty list.
func Load(path string) ([]Alert, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Alert{}, nil
	}
	if err != nil {
		return nil, err
	}
	var list []Alert
	if len(data) > 0 {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	for _, a := range list {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%s: alert %s: %w", path, a.ID, err)
		}
	}
	if list == nil {
		list = []Alert{}
	}
	return list, nil
}

func Save(path string, list []Alert) error {
	if list == nil {
		list = []Alert{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
