// Package fees holds the exchange fee table used by the PnL calculator.
//
// Fees are percentages: a taker fee of 0.1 means 0.1% of notional per fill.
// Built-in exchanges may carry negative maker fees (rebates); entries added by
// the user must be non-negative.
package fees

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/tradelab/pkg/id"
	"github.com/rustyeddy/tradelab/pkg/num"
)

// DefaultSelection is used when the selected exchange is removed and the
// table has no built-in entry left.
const DefaultSelection = "binance"

var ErrNotFound = errors.New("exchange not found")

var validate = validator.New()

type ExchangeFee struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name" validate:"required"`
	MakerFee float64 `json:"makerFee" yaml:"maker_fee"`
	TakerFee float64 `json:"takerFee" yaml:"taker_fee"`
	IsCustom bool    `json:"isCustom,omitempty" yaml:"is_custom,omitempty"`
}

// Form is the text the user typed into the add/edit exchange dialog.
type Form struct {
	Name     string `validate:"required"`
	MakerFee string `validate:"required"`
	TakerFee string `validate:"required"`
}

// ValidationError describes a rejected submission. The table it was
// submitted to is left unchanged.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Table is an ordered set of exchanges keyed by ID. Mutations return a new
// Table; the receiver is never modified.
type Table struct {
	entries []ExchangeFee
}

// NewTable builds a table from entries, rejecting duplicate IDs and
// non-finite fees.
func NewTable(entries []ExchangeFee) (*Table, error) {
	t := &Table{}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, &ValidationError{Field: "id", Msg: "is required"}
		}
		if seen[e.ID] {
			return nil, &ValidationError{Field: "id", Msg: fmt.Sprintf("duplicate exchange %q", e.ID)}
		}
		if err := check(e); err != nil {
			return nil, err
		}
		seen[e.ID] = true
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// Default returns a table holding DefaultExchanges.
func Default() *Table {
	t, err := NewTable(DefaultExchanges())
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Len() int {
	return len(t.entries)
}

// List returns a copy of the entries in table order.
func (t *Table) List() []ExchangeFee {
	out := make([]ExchangeFee, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Get(exchangeID string) (ExchangeFee, bool) {
	for _, e := range t.entries {
		if e.ID == exchangeID {
			return e, true
		}
	}
	return ExchangeFee{}, false
}

// Upsert replaces the entry with the same ID or appends a new one. A custom
// entry without an ID is assigned "custom-<ulid>".
func (t *Table) Upsert(e ExchangeFee) (*Table, error) {
	if err := check(e); err != nil {
		return t, err
	}
	if e.ID == "" {
		if !e.IsCustom {
			return t, &ValidationError{Field: "id", Msg: "is required for built-in exchanges"}
		}
		e.ID = id.WithPrefix("custom")
	}

	out := &Table{entries: make([]ExchangeFee, 0, len(t.entries)+1)}
	replaced := false
	for _, cur := range t.entries {
		if cur.ID == e.ID {
			out.entries = append(out.entries, e)
			replaced = true
			continue
		}
		out.entries = append(out.entries, cur)
	}
	if !replaced {
		out.entries = append(out.entries, e)
	}
	return out, nil
}

// Submit validates the add/edit dialog and upserts a custom entry. editID
// is the ID of a custom exchange being edited, or "" to add a new one.
// Built-in exchanges cannot be edited.
func (t *Table) Submit(f Form, editID string) (*Table, ExchangeFee, error) {
	if err := validate.Struct(f); err != nil {
		return t, ExchangeFee{}, &ValidationError{Msg: "please fill in all fields"}
	}
	if editID != "" {
		cur, ok := t.Get(editID)
		if !ok {
			return t, ExchangeFee{}, fmt.Errorf("edit %q: %w", editID, ErrNotFound)
		}
		if !cur.IsCustom {
			return t, ExchangeFee{}, &ValidationError{Field: "id", Msg: fmt.Sprintf("built-in exchange %q cannot be edited", editID)}
		}
	}

	maker, errM := num.Parse(f.MakerFee)
	taker, errT := num.Parse(f.TakerFee)
	if errM != nil || errT != nil {
		return t, ExchangeFee{}, &ValidationError{Msg: "fees must be valid positive numbers"}
	}

	e := ExchangeFee{
		ID:       editID,
		Name:     f.Name,
		MakerFee: maker,
		TakerFee: taker,
		IsCustom: true,
	}
	out, err := t.Upsert(e)
	if err != nil {
		return t, ExchangeFee{}, err
	}
	if e.ID == "" {
		e = out.entries[len(out.entries)-1]
	}
	return out, e, nil
}

// Remove deletes exchangeID. If it was the selected exchange, the returned
// selection falls back to the first remaining built-in entry, or
// DefaultSelection when none is left.
func (t *Table) Remove(exchangeID, selected string) (*Table, string, error) {
	if _, ok := t.Get(exchangeID); !ok {
		return t, selected, fmt.Errorf("remove %q: %w", exchangeID, ErrNotFound)
	}

	out := &Table{entries: make([]ExchangeFee, 0, len(t.entries))}
	for _, e := range t.entries {
		if e.ID != exchangeID {
			out.entries = append(out.entries, e)
		}
	}

	if selected != exchangeID {
		return out, selected, nil
	}
	for _, e := range out.entries {
		if !e.IsCustom {
			return out, e.ID, nil
		}
	}
	return out, DefaultSelection, nil
}

func check(e ExchangeFee) error {
	if err := validate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{Field: "name", Msg: "is required"}
		}
		return err
	}
	if !num.Finite(e.MakerFee) || !num.Finite(e.TakerFee) {
		return &ValidationError{Msg: "fees must be finite numbers"}
	}
	if e.IsCustom {
		if err := validate.Var(e.MakerFee, "gte=0"); err != nil {
			return &ValidationError{Field: "makerFee", Msg: "must not be negative"}
		}
		if err := validate.Var(e.TakerFee, "gte=0"); err != nil {
			return &ValidationError{Field: "takerFee", Msg: "must not be negative"}
		}
	}
	return nil
}
