// Package config holds the user's settings: trading defaults, notification
// preferences, appearance, logging and storage. Settings are loaded once and
// passed explicitly to whatever needs them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustyeddy/tradelab/fees"
	"github.com/rustyeddy/tradelab/internal/logger"
	"github.com/rustyeddy/tradelab/market"
	"github.com/rustyeddy/tradelab/risk"
	"gopkg.in/yaml.v3"
)

// Settings is the complete configuration.
type Settings struct {
	Trading       TradingSettings      `json:"trading" yaml:"trading"`
	Notifications NotificationSettings `json:"notifications" yaml:"notifications"`
	Theme         ThemeSettings        `json:"theme" yaml:"theme"`
	Log           LogConfig            `json:"log" yaml:"log"`
	Storage       StorageConfig        `json:"storage" yaml:"storage"`
}

// TradingSettings are the defaults applied to new trades and the limits
// used for risk warnings.
type TradingSettings struct {
	DefaultRiskPercent    float64 `json:"default_risk_percent" yaml:"default_risk_percent"`
	DefaultTimeframe      string  `json:"default_timeframe" yaml:"default_timeframe"`
	DefaultExchange       string  `json:"default_exchange" yaml:"default_exchange"`
	AutoCalculatePosition bool    `json:"auto_calculate_position" yaml:"auto_calculate_position"`
	ShowPnLInPercent      bool    `json:"show_pnl_in_percent" yaml:"show_pnl_in_percent"`
	EnableSoundAlerts     bool    `json:"enable_sound_alerts" yaml:"enable_sound_alerts"`
	ConfirmTrades         bool    `json:"confirm_trades" yaml:"confirm_trades"`
	DarkPool              bool    `json:"dark_pool" yaml:"dark_pool"`
	RiskWarningLevel      float64 `json:"risk_warning_level" yaml:"risk_warning_level"`
	MaxDailyTrades        int     `json:"max_daily_trades" yaml:"max_daily_trades"`
	MinRiskReward         float64 `json:"min_risk_reward" yaml:"min_risk_reward"`
	DefaultStopLoss       float64 `json:"default_stop_loss" yaml:"default_stop_loss"`
	DefaultTakeProfit     float64 `json:"default_take_profit" yaml:"default_take_profit"`
	SessionStart          string  `json:"trading_session_start" yaml:"trading_session_start"`
	SessionEnd            string  `json:"trading_session_end" yaml:"trading_session_end"`
	AccountSize           float64 `json:"account_size" yaml:"account_size"`
}

type NotificationSettings struct {
	PriceAlerts         bool   `json:"price_alerts" yaml:"price_alerts"`
	PriceAlertSound     bool   `json:"price_alert_sound" yaml:"price_alert_sound"`
	PriceAlertEmail     bool   `json:"price_alert_email" yaml:"price_alert_email"`
	PriceAlertPush      bool   `json:"price_alert_push" yaml:"price_alert_push"`
	TradeExecuted       bool   `json:"trade_executed" yaml:"trade_executed"`
	TradeExecutedSound  bool   `json:"trade_executed_sound" yaml:"trade_executed_sound"`
	TradeExecutedEmail  bool   `json:"trade_executed_email" yaml:"trade_executed_email"`
	TradeExecutedPush   bool   `json:"trade_executed_push" yaml:"trade_executed_push"`
	MarketNews          bool   `json:"market_news" yaml:"market_news"`
	MarketNewsSound     bool   `json:"market_news_sound" yaml:"market_news_sound"`
	MarketNewsEmail     bool   `json:"market_news_email" yaml:"market_news_email"`
	MarketNewsFrequency string `json:"market_news_frequency" yaml:"market_news_frequency"`
	SystemUpdates       bool   `json:"system_updates" yaml:"system_updates"`
	SystemUpdatesEmail  bool   `json:"system_updates_email" yaml:"system_updates_email"`
	MaintenanceAlerts   bool   `json:"maintenance_alerts" yaml:"maintenance_alerts"`
	SoundVolume         string `json:"sound_volume" yaml:"sound_volume"`
	QuietHoursEnabled   bool   `json:"quiet_hours_enabled" yaml:"quiet_hours_enabled"`
	QuietHoursStart     string `json:"quiet_hours_start" yaml:"quiet_hours_start"`
	QuietHoursEnd       string `json:"quiet_hours_end" yaml:"quiet_hours_end"`
	RiskWarnings        bool   `json:"risk_warnings" yaml:"risk_warnings"`
	RiskWarningsSound   bool   `json:"risk_warnings_sound" yaml:"risk_warnings_sound"`
	DrawdownAlerts      bool   `json:"drawdown_alerts" yaml:"drawdown_alerts"`
	ProfitTargetAlerts  bool   `json:"profit_target_alerts" yaml:"profit_target_alerts"`
}

type ThemeSettings struct {
	Mode          string `json:"mode" yaml:"mode"` // light, dark or system
	AccentColor   string `json:"accent_color" yaml:"accent_color"`
	FontSize      int    `json:"font_size" yaml:"font_size"`
	ReducedMotion bool   `json:"reduced_motion" yaml:"reduced_motion"`
	GlassEffect   bool   `json:"glass_effect" yaml:"glass_effect"`
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"` // stderr, stdout or a file path
	MaxSize    int    `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAge     int    `json:"max_age,omitempty" yaml:"max_age,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// StorageConfig says where the journal, alerts and exchange table live.
type StorageConfig struct {
	Type          string `json:"type" yaml:"type"` // "memory", "file" or "sqlite"
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	AlertsPath    string `json:"alerts_path,omitempty" yaml:"alerts_path,omitempty"`
	FeesPath      string `json:"fees_path,omitempty" yaml:"fees_path,omitempty"`
	WatchlistPath string `json:"watchlist_path,omitempty" yaml:"watchlist_path,omitempty"`
	CandlesDir    string `json:"candles_dir,omitempty" yaml:"candles_dir,omitempty"`
}

var (
	soundVolumes    = []string{"low", "medium", "high"}
	newsFrequencies = []string{"all", "important", "none"}
	themeModes      = []string{"light", "dark", "system"}
	accentColors    = []string{"violet", "blue", "green", "orange", "red", "pink"}
	storageTypes    = []string{"memory", "file", "sqlite"}
)

// LoadFromFile loads settings from YAML, falling back to JSON. Fields
// missing from the file keep their Default values.
func LoadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		s = Default()
		if jerr := json.Unmarshal(data, s); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
func (s *Settings) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks every section and returns the first problem found.
func (s *Settings) Validate() error {
	t := s.Trading
	if t.DefaultRiskPercent <= 0 || t.DefaultRiskPercent > 100 {
		return fmt.Errorf("trading.default_risk_percent must be between 0 and 100")
	}
	if _, _, err := market.ParseTimeframe(t.DefaultTimeframe); err != nil {
		return fmt.Errorf("trading.default_timeframe: %w", err)
	}
	if strings.TrimSpace(t.DefaultExchange) == "" {
		return fmt.Errorf("trading.default_exchange is required")
	}
	if t.RiskWarningLevel < 0 || t.RiskWarningLevel > 100 {
		return fmt.Errorf("trading.risk_warning_level must be between 0 and 100")
	}
	if t.MaxDailyTrades < 0 {
		return fmt.Errorf("trading.max_daily_trades must not be negative")
	}
	if t.MinRiskReward < 0 {
		return fmt.Errorf("trading.min_risk_reward must not be negative")
	}
	if t.DefaultStopLoss < 0 || t.DefaultStopLoss >= 100 {
		return fmt.Errorf("trading.default_stop_loss must be between 0 and 100")
	}
	if t.DefaultTakeProfit < 0 {
		return fmt.Errorf("trading.default_take_profit must not be negative")
	}
	if t.AccountSize < 0 {
		return fmt.Errorf("trading.account_size must not be negative")
	}
	if _, err := risk.InSession(time.Time{}, t.SessionStart, t.SessionEnd); err != nil {
		return fmt.Errorf("trading session: %w", err)
	}

	n := s.Notifications
	if !oneOf(n.SoundVolume, soundVolumes) {
		return fmt.Errorf("notifications.sound_volume must be one of %s", strings.Join(soundVolumes, ", "))
	}
	if !oneOf(n.MarketNewsFrequency, newsFrequencies) {
		return fmt.Errorf("notifications.market_news_frequency must be one of %s", strings.Join(newsFrequencies, ", "))
	}
	if n.QuietHoursEnabled {
		if _, err := risk.InSession(time.Time{}, n.QuietHoursStart, n.QuietHoursEnd); err != nil {
			return fmt.Errorf("quiet hours: %w", err)
		}
	}

	if !oneOf(s.Theme.Mode, themeModes) {
		return fmt.Errorf("theme.mode must be one of %s", strings.Join(themeModes, ", "))
	}
	if !oneOf(s.Theme.AccentColor, accentColors) {
		return fmt.Errorf("theme.accent_color must be one of %s", strings.Join(accentColors, ", "))
	}
	if s.Theme.FontSize < 12 || s.Theme.FontSize > 24 {
		return fmt.Errorf("theme.font_size must be between 12 and 24")
	}

	switch s.Storage.Type {
	case "memory":
	case "file", "sqlite":
		if s.Storage.Path == "" {
			return fmt.Errorf("storage.path required for %s storage", s.Storage.Type)
		}
	default:
		return fmt.Errorf("storage.type must be one of %s", strings.Join(storageTypes, ", "))
	}
	return nil
}

// Policy converts the trading limits into a risk policy.
func (t TradingSettings) Policy() risk.Policy {
	return risk.Policy{
		RiskWarningLevel: t.RiskWarningLevel,
		MaxDailyTrades:   t.MaxDailyTrades,
		MinRR:            t.MinRiskReward,
		SessionStart:     t.SessionStart,
		SessionEnd:       t.SessionEnd,
	}
}

// ExchangeID maps DefaultExchange ("BINANCE") to a fee table id, falling
// back to the table default when it is unknown.
func (t TradingSettings) ExchangeID(table *fees.Table) string {
	id := strings.ToLower(strings.TrimSpace(t.DefaultExchange))
	if _, ok := table.Get(id); ok {
		return id
	}
	return fees.DefaultSelection
}

// Quiet reports whether now falls inside enabled quiet hours.
func (n NotificationSettings) Quiet(now time.Time) bool {
	if !n.QuietHoursEnabled {
		return false
	}
	in, err := risk.InSession(now, n.QuietHoursStart, n.QuietHoursEnd)
	return err == nil && in
}

func (l LogConfig) Logger() logger.Config {
	return logger.Config{
		Level:      l.Level,
		Format:     l.Format,
		Output:     l.Output,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}

// Default mirrors the settings screens' initial values.
func Default() *Settings {
	return &Settings{
		Trading: TradingSettings{
			DefaultRiskPercent:    2,
			DefaultTimeframe:      "1H",
			DefaultExchange:       "BINANCE",
			AutoCalculatePosition: true,
			ShowPnLInPercent:      true,
			EnableSoundAlerts:     true,
			ConfirmTrades:         true,
			RiskWarningLevel:      5,
			MaxDailyTrades:        10,
			DefaultStopLoss:       2,
			DefaultTakeProfit:     4,
			SessionStart:          "09:00",
			SessionEnd:            "16:00",
			AccountSize:           10000,
		},
		Notifications: NotificationSettings{
			PriceAlerts:         true,
			PriceAlertSound:     true,
			PriceAlertPush:      true,
			TradeExecuted:       true,
			TradeExecutedSound:  true,
			TradeExecutedEmail:  true,
			TradeExecutedPush:   true,
			MarketNews:          true,
			MarketNewsEmail:     true,
			MarketNewsFrequency: "important",
			SystemUpdates:       true,
			SystemUpdatesEmail:  true,
			MaintenanceAlerts:   true,
			SoundVolume:         "medium",
			QuietHoursEnabled:   true,
			QuietHoursStart:     "22:00",
			QuietHoursEnd:       "08:00",
			RiskWarnings:        true,
			RiskWarningsSound:   true,
			DrawdownAlerts:      true,
			ProfitTargetAlerts:  true,
		},
		Theme: ThemeSettings{
			Mode:        "dark",
			AccentColor: "violet",
			FontSize:    16,
			GlassEffect: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Storage: StorageConfig{
			Type:          "file",
			Path:          "./tradelab/journal.json",
			AlertsPath:    "./tradelab/alerts.json",
			FeesPath:      "./tradelab/exchanges.json",
			WatchlistPath: "./tradelab/watchlist.json",
			CandlesDir:    "./tradelab/candles",
		},
	}
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
