package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps trades in the trades table and their exits in
// trade_exits, ordered by seq.
type SQLiteStore struct {
	db *sql.DB

	// held by every write so AddExit's read-modify-write is not interleaved
	mu sync.Mutex
}

// NewSQLite opens or creates the database at path and applies Schema.
// Use ":memory:" for a throwaway journal.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

const tradeColumns = `trade_id, symbol, direction, entry_price, entry_time, stop_price,
	quantity, leverage, total_pnl, notes, tags, category, status`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (j *SQLiteStore) Add(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	t, err := prepare(t)
	if err != nil {
		return TradeRecord{}, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	err = j.inTx(ctx, func(tx *sql.Tx) error {
		tags, err := json.Marshal(t.Tags)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trades (`+tradeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Symbol, string(t.Direction), t.EntryPrice, t.EntryTime.UTC(),
			t.StopPrice, t.Quantity, t.Leverage, t.TotalPnL, t.Notes, string(tags),
			string(t.Category), string(t.Status),
		)
		if isDuplicate(err) {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidTrade, t.ID)
		}
		if err != nil {
			return err
		}
		return insertExits(ctx, tx, t)
	})
	if err != nil {
		return TradeRecord{}, err
	}
	return t.Clone(), nil
}

func (j *SQLiteStore) Get(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	if err != nil {
		return TradeRecord{}, err
	}

	exits, err := j.exits(ctx, `WHERE trade_id = ?`, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	rec.Exits = exits[rec.ID]
	if rec.Exits == nil {
		rec.Exits = []Exit{}
	}
	return rec, nil
}

func (j *SQLiteStore) Update(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	t = t.Clone()
	t.SetTags(t.Tags)
	if err := t.Normalize(); err != nil {
		return TradeRecord{}, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.inTx(ctx, func(tx *sql.Tx) error {
		return updateTrade(ctx, tx, t)
	})
	if err != nil {
		return TradeRecord{}, err
	}
	return t.Clone(), nil
}

func updateTrade(ctx context.Context, tx *sql.Tx, t TradeRecord) error {
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, direction = ?, entry_price = ?, entry_time = ?, stop_price = ?,
			quantity = ?, leverage = ?, total_pnl = ?, notes = ?, tags = ?,
			category = ?, status = ?
		WHERE trade_id = ?`,
		t.Symbol, string(t.Direction), t.EntryPrice, t.EntryTime.UTC(), t.StopPrice,
		t.Quantity, t.Leverage, t.TotalPnL, t.Notes, string(tags),
		string(t.Category), string(t.Status), t.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("trade %q: %w", t.ID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trade_exits WHERE trade_id = ?`, t.ID); err != nil {
		return err
	}
	return insertExits(ctx, tx, t)
}

func (j *SQLiteStore) Delete(ctx context.Context, tradeID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trade_exits WHERE trade_id = ?`, tradeID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return nil
	})
}

func (j *SQLiteStore) List(ctx context.Context) ([]TradeRecord, error) {
	return j.listWhere(ctx, "", "")
}

// ListBetween returns trades whose entry_time is within [start, end).
func (j *SQLiteStore) ListBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	return j.listWhere(ctx,
		`WHERE entry_time >= ? AND entry_time < ?`,
		`WHERE trade_id IN (SELECT trade_id FROM trades WHERE entry_time >= ? AND entry_time < ?)`,
		start.UTC(), end.UTC(),
	)
}

func (j *SQLiteStore) listWhere(ctx context.Context, tradeWhere, exitWhere string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades `+tradeWhere+`
		ORDER BY entry_time ASC, trade_id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TradeRecord{}
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	exits, err := j.exits(ctx, exitWhere, args...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if xs := exits[out[i].ID]; xs != nil {
			out[i].Exits = xs
		}
	}
	// entry_time is ordered as text; trailing fractional seconds can
	// misorder rows within the same second.
	SortChronological(out)
	return out, nil
}

func (j *SQLiteStore) AddExit(ctx context.Context, tradeID string, in ExitInput) (TradeRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	t, err := j.Get(ctx, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	if _, err := t.AddExit(in.Price, in.Quantity, in.Time); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, err)
	}
	err = j.inTx(ctx, func(tx *sql.Tx) error {
		return updateTrade(ctx, tx, t)
	})
	if err != nil {
		return TradeRecord{}, err
	}
	return t, nil
}

func (j *SQLiteStore) Close() error {
	return j.db.Close()
}

func (j *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (j *SQLiteStore) exits(ctx context.Context, where string, args ...any) (map[string][]Exit, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, exit_id, price, quantity, time, pnl
		FROM trade_exits `+where+`
		ORDER BY trade_id ASC, seq ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]Exit)
	for rows.Next() {
		var (
			tradeID string
			x       Exit
		)
		if err := rows.Scan(&tradeID, &x.ID, &x.Price, &x.Quantity, &x.Time, &x.PnL); err != nil {
			return nil, err
		}
		out[tradeID] = append(out[tradeID], x)
	}
	return out, rows.Err()
}

func insertExits(ctx context.Context, db execer, t TradeRecord) error {
	for i, x := range t.Exits {
		_, err := db.ExecContext(ctx, `
			INSERT INTO trade_exits (exit_id, trade_id, seq, price, quantity, time, pnl)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			x.ID, t.ID, i, x.Price, x.Quantity, x.Time.UTC(), x.PnL,
		)
		if err != nil {
			return fmt.Errorf("insert exit %s: %w", x.ID, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var (
		rec                        TradeRecord
		direction, category, state string
		tags                       string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Symbol,
		&direction,
		&rec.EntryPrice,
		&rec.EntryTime,
		&rec.StopPrice,
		&rec.Quantity,
		&rec.Leverage,
		&rec.TotalPnL,
		&rec.Notes,
		&tags,
		&category,
		&state,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	rec.Direction = Direction(direction)
	rec.Category = Category(category)
	rec.Status = Status(state)
	rec.Exits = []Exit{}
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s tags: %w", rec.ID, err)
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, nil
}

func isDuplicate(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		se.ExtendedCode == sqlite3.ErrConstraintUnique
}
