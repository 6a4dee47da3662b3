// Package backup reads and writes the versioned export envelope that holds
// settings, trades, the watch list and alerts in one JSON document.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradelab/alerts"
	"github.com/rustyeddy/tradelab/config"
	"github.com/rustyeddy/tradelab/journal"
	"github.com/rustyeddy/tradelab/market"
)

const Version = "1.0"

var ErrInvalidBackup = errors.New("invalid backup file format")

// Bundle is the content of a backup. Nil sections are left out of the
// export and are not restored on import.
type Bundle struct {
	Settings      *config.TradingSettings
	Notifications *config.NotificationSettings
	Trades        []journal.TradeRecord
	Watchlist     market.Watchlist
	Alerts        []alerts.Alert

	ExportDate time.Time
	Version    string
}

type envelope struct {
	Settings      json.RawMessage `json:"settings,omitempty"`
	Notifications json.RawMessage `json:"notifications,omitempty"`
	Trades        json.RawMessage `json:"trades,omitempty"`
	Watchlist     json.RawMessage `json:"watchlist,omitempty"`
	Alerts        json.RawMessage `json:"alerts,omitempty"`
	ExportDate    string          `json:"exportDate"`
	Version       string          `json:"version"`
}

// Filename is the conventional name of a backup taken at t.
func Filename(t time.Time) string {
	return "tradepro-backup-" + t.UTC().Format(time.DateOnly) + ".json"
}

// Export encodes b. A zero ExportDate is set to now and Version is always
// the current one.
func Export(b Bundle) ([]byte, error) {
	if b.ExportDate.IsZero() {
		b.ExportDate = time.Now()
	}
	env := envelope{
		ExportDate: b.ExportDate.UTC().Format(time.RFC3339Nano),
		Version:    Version,
	}

	var err error
	if b.Settings != nil {
		if env.Settings, err = json.Marshal(b.Settings); err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
	}
	if b.Notifications != nil {
		if env.Notifications, err = json.Marshal(b.Notifications); err != nil {
			return nil, fmt.Errorf("notifications: %w", err)
		}
	}
	if b.Trades != nil {
		if env.Trades, err = json.Marshal(b.Trades); err != nil {
			return nil, fmt.Errorf("trades: %w", err)
		}
	}
	if b.Watchlist != nil {
		if env.Watchlist, err = json.Marshal(b.Watchlist); err != nil {
			return nil, fmt.Errorf("watchlist: %w", err)
		}
	}
	if b.Alerts != nil {
		if env.Alerts, err = json.Marshal(b.Alerts); err != nil {
			return nil, fmt.Errorf("alerts: %w", err)
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// Import decodes a backup. The envelope must carry a version and an export
// date. Sections may be inline JSON or a JSON string holding the encoded
// section, which is how browser exports store them. Trades and alerts are
// validated before anything is returned.
func Import(data []byte) (Bundle, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if env.Version == "" || env.ExportDate == "" {
		return Bundle{}, ErrInvalidBackup
	}
	at, err := time.Parse(time.RFC3339Nano, env.ExportDate)
	if err != nil {
		return Bundle{}, fmt.Errorf("%w: exportDate: %v", ErrInvalidBackup, err)
	}

	b := Bundle{ExportDate: at, Version: env.Version}
	if err := section(env.Settings, &b.Settings); err != nil {
		return Bundle{}, fmt.Errorf("%w: settings: %v", ErrInvalidBackup, err)
	}
	if err := section(env.Notifications, &b.Notifications); err != nil {
		return Bundle{}, fmt.Errorf("%w: notifications: %v", ErrInvalidBackup, err)
	}
	if err := section(env.Trades, &b.Trades); err != nil {
		return Bundle{}, fmt.Errorf("%w: trades: %v", ErrInvalidBackup, err)
	}
	if err := section(env.Watchlist, &b.Watchlist); err != nil {
		return Bundle{}, fmt.Errorf("%w: watchlist: %v", ErrInvalidBackup, err)
	}
	if err := section(env.Alerts, &b.Alerts); err != nil {
		return Bundle{}, fmt.Errorf("%w: alerts: %v", ErrInvalidBackup, err)
	}

	for i := range b.Trades {
		if err := b.Trades[i].Normalize(); err != nil {
			return Bundle{}, fmt.Errorf("trade %s: %w", b.Trades[i].ID, err)
		}
	}
	for _, a := range b.Alerts {
		if err := a.Validate(); err != nil {
			return Bundle{}, fmt.Errorf("alert %s: %w", a.ID, err)
		}
	}
	return b, nil
}

// section decodes raw into v. Absent and null sections leave v untouched.
func section(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		raw = []byte(s)
	}
	return json.Unmarshal(raw, v)
}
