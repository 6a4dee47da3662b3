package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradelab/config"
	"github.com/rustyeddy/tradelab/market"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The commands share package-level flag state, so these tests run
// sequentially and run resets every flag before executing.

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	s := config.Default()
	s.Log.Output = filepath.Join(dir, "tradelab.log")
	s.Storage = config.StorageConfig{
		Type:          "file",
		Path:          filepath.Join(dir, "journal.json"),
		AlertsPath:    filepath.Join(dir, "alerts.json"),
		FeesPath:      filepath.Join(dir, "exchanges.json"),
		WatchlistPath: filepath.Join(dir, "watchlist.json"),
		CandlesDir:    filepath.Join(dir, "candles"),
	}
	path := filepath.Join(dir, "tradelab.yaml")
	require.NoError(t, s.SaveToFile(path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestCalculators(t *testing.T) {
	cfg := testConfig(t)

	got, err := run(t, "--config", cfg, "pnl", "--entry", "50000", "--exit", "52000", "--qty", "1000", "--leverage", "10", "--exchange", "bybit")
	require.NoError(t, err)
	assert.Contains(t, got, "PnL:           +400.00")
	assert.Contains(t, got, "Fees:          20.00")
	assert.Contains(t, got, "Net PnL:       +380.00")
	assert.Contains(t, got, "38.00%")
	assert.Contains(t, got, "R:R:           1:2.00")

	got, err = run(t, "--config", cfg, "risk", "--account", "10000", "--risk", "2", "--entry", "100", "--stop", "95", "--target", "115")
	require.NoError(t, err)
	assert.Contains(t, got, "Risk Amount:   200.00")
	assert.Contains(t, got, "Position Size: 40.0000")
	assert.Contains(t, got, "R:R:           1:0.03", "reward is priced in shares")

	got, err = run(t, "--config", cfg, "rr", "--entry", "100", "--stop", "95", "--target", "110")
	require.NoError(t, err)
	assert.Contains(t, got, "1:2.00")

	_, err = run(t, "--config", cfg, "rr", "--entry", "100", "--stop", "100", "--target", "110")
	assert.ErrorContains(t, err, "invalid input")

	got, err = run(t, "--config", cfg, "fib", "--high", "200", "--low", "100")
	require.NoError(t, err)
	assert.Contains(t, got, "Fib 61.8%  138.2000")

	got, err = run(t, "--config", cfg, "breakeven", "--entry", "50", "--qty", "100", "--loss", "500")
	require.NoError(t, err)
	assert.Contains(t, got, "Breakeven:     55.0000")

	got, err = run(t, "--config", cfg, "setup", "--entry", "100", "--preset", "swing")
	require.NoError(t, err)
	assert.Contains(t, got, "Stop:          97.00")
	assert.Contains(t, got, "Take Profit:   109.00")
}

func TestCalculatorFlagsStayPerCommand(t *testing.T) {
	cfg := testConfig(t)

	got, err := run(t, "--config", cfg, "rr", "--entry", "100", "--stop", "95", "--target", "110")
	require.NoError(t, err)
	assert.Contains(t, got, "1:2.00")

	got, err = run(t, "--config", cfg, "risk", "--account", "10000", "--risk", "2", "--entry", "100", "--stop", "95")
	require.NoError(t, err)
	assert.Contains(t, got, "Position Size: 40.0000")
	assert.NotContains(t, got, "Reward:", "rr target must not reach risk")

	_, err = run(t, "--config", cfg, "breakeven", "--loss", "500")
	assert.ErrorContains(t, err, "invalid input", "entry and qty are unset for breakeven")
}

func TestPortfolioCommand(t *testing.T) {
	cfg := testConfig(t)

	got, err := run(t, "--config", cfg, "portfolio",
		"--holding", "BTC=0.5@40000", "--holding", "ETH=4@2500", "--holding", "SOL=10@100",
		"--price", "BTC=42000", "--price", "ETH=2250", "--price", "SOL=150")
	require.NoError(t, err)
	assert.Contains(t, got, "Total Value:   31500.00")
	assert.Contains(t, got, "Total Cost:    31000.00")
	assert.Contains(t, got, "Total P/L:     +500.00 (1.61%)")
	assert.Contains(t, got, "Profitable:    2/3")
	assert.Contains(t, got, "Best:          SOL 50.00%")

	_, err = run(t, "--config", cfg, "portfolio", "--holding", "BTC=1@40000")
	assert.ErrorIs(t, err, market.ErrNoData, "no price and no candles")

	_, err = run(t, "--config", cfg, "portfolio")
	assert.ErrorContains(t, err, "invalid input")
}

func TestJournalCommands(t *testing.T) {
	cfg := testConfig(t)

	got, err := run(t, "--config", cfg, "journal", "add", "--symbol", "btcusdt", "--direction", "short",
		"--entry", "100", "--qty", "2", "--category", "scalp", "--tags", "news,btc", "--time", "2024-01-15 10:00")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "✓ Trade "), got)
	tradeID := strings.TrimSuffix(strings.Fields(got)[2], ":")

	got, err = run(t, "--config", cfg, "journal", "exit", tradeID, "--price", "90", "--qty", "1", "--time", "2024-01-15 11:00")
	require.NoError(t, err)
	assert.Contains(t, got, "PnL +10.00")
	assert.Contains(t, got, "partial")

	got, err = run(t, "--config", cfg, "journal", "exit", tradeID, "--price", "95", "--qty", "0", "--time", "2024-01-15 12:00")
	require.NoError(t, err)
	assert.Contains(t, got, "closed")
	assert.Contains(t, got, "total +15.00")

	_, err = run(t, "--config", cfg, "journal", "exit", tradeID, "--price", "95", "--qty", "1", "--time", "2024-01-15 13:00")
	assert.Error(t, err, "nothing left to close")

	got, err = run(t, "--config", cfg, "journal", "list", "--filter", "profits", "--symbol", "")
	require.NoError(t, err)
	assert.Contains(t, got, tradeID)
	assert.Contains(t, got, "1 trade(s)")

	got, err = run(t, "--config", cfg, "journal", "list", "--filter", "losses", "--symbol", "")
	require.NoError(t, err)
	assert.Contains(t, got, "0 trade(s)")

	got, err = run(t, "--config", cfg, "journal", "stats", "--filter", "all", "--symbol", "")
	require.NoError(t, err)
	assert.Contains(t, got, "Profit Factor: N/A")
	assert.Contains(t, got, "Win Rate:      100.00%")

	got, err = run(t, "--config", cfg, "journal", "stats", "--filter", "all", "--symbol", "ETHUSDT")
	require.NoError(t, err)
	assert.Contains(t, got, "Trades:        0")

	got, err = run(t, "--config", cfg, "journal", "stats", "--filter", "all", "--symbol", "BTCUSDT")
	require.NoError(t, err)
	assert.Contains(t, got, "Trades:        1")

	got, err = run(t, "--config", cfg, "journal", "show", tradeID)
	require.NoError(t, err)
	assert.Contains(t, got, "** Trade: BTCUSDT SHORT")

	csvPath := filepath.Join(filepath.Dir(cfg), "trades.csv")
	_, err = run(t, "--config", cfg, "journal", "export", "--format", "csv", "--output", csvPath)
	require.NoError(t, err)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), tradeID)

	_, err = run(t, "--config", cfg, "journal", "delete", tradeID)
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "journal", "show", tradeID)
	assert.Error(t, err)
}

func TestExchangeCommands(t *testing.T) {
	cfg := testConfig(t)

	got, err := run(t, "--config", cfg, "exchange", "add", "--id", "", "--name", "Local DEX", "--maker", "0.2", "--taker", "0.3")
	require.NoError(t, err)
	assert.Contains(t, got, "Local DEX (custom-")

	got, err = run(t, "--config", cfg, "exchange", "list")
	require.NoError(t, err)
	assert.Contains(t, got, "Local DEX (custom)")

	_, err = run(t, "--config", cfg, "exchange", "add", "--id", "", "--name", "Bad", "--maker", "-1", "--taker", "0.3")
	assert.Error(t, err)

	got, err = run(t, "--config", cfg, "exchange", "remove", "binance")
	require.NoError(t, err)
	assert.Contains(t, got, "Default exchange is now")
}

func TestAlertAndBackupCommands(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, "--config", cfg, "alert", "add", "--symbol", "BINANCE:ETHUSDT", "--type", "below", "--price", "2500", "--message", "support")
	require.NoError(t, err)

	got, err := run(t, "--config", cfg, "alert", "check", "--price", "BINANCE:ETHUSDT=2400")
	require.NoError(t, err)
	assert.Contains(t, got, "ETHUSDT below 2500.00: support")
	assert.Contains(t, got, "1 alert(s) checked, 1 triggered")

	got, err = run(t, "--config", cfg, "alert", "list")
	require.NoError(t, err)
	assert.Contains(t, got, "2400.00")

	backupPath := filepath.Join(filepath.Dir(cfg), "backup.json")
	got, err = run(t, "--config", cfg, "backup", "export", "--output", backupPath)
	require.NoError(t, err)
	assert.Contains(t, got, "1 alert(s)")

	got, err = run(t, "--config", cfg, "backup", "import", backupPath)
	require.NoError(t, err)
	assert.Contains(t, got, "1 alert(s) restored")

	bad := filepath.Join(filepath.Dir(cfg), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"trades":[]}`), 0o644))
	_, err = run(t, "--config", cfg, "backup", "import", bad)
	assert.ErrorContains(t, err, "invalid backup file format")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	got, err := run(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, got, "Created default configuration")

	got, err = run(t, "config", "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, got, "Configuration valid")

	require.NoError(t, os.WriteFile(path, []byte(`{"storage":{"type":"postgres"}}`), 0o644))
	_, err = run(t, "config", "validate", "--file", path)
	assert.ErrorContains(t, err, "storage.type")
}

func TestCandleCommands(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Join(filepath.Dir(cfg), "candles")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	src := market.CSVCandles{Dir: dir}
	path, err := src.Path("BTC/USDT", "1H")
	require.NoError(t, err)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cs := make([]market.Candle, 30)
	for i := range cs {
		c := 100 + float64(i)
		cs[i] = market.Candle{Time: start.Add(time.Duration(i) * time.Hour), Open: c - 1, High: c + 1, Low: c - 1, Close: c, Volume: 1}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, market.WriteCandlesCSV(f, cs))
	require.NoError(t, f.Close())

	got, err := run(t, "--config", cfg, "candles", "analyze", "BTC/USDT", "--timeframe", "1H", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, got, "30 candles, last close 129.0000")
	assert.Contains(t, got, "MA(20)")
	assert.Contains(t, got, "EMA(50)  warming up")
	assert.Contains(t, got, "EMA 9/21  bullish")

	got, err = run(t, "--config", cfg, "setup", "--symbol", "BTC/USDT", "--timeframe", "1H", "--entry", "0", "--preset", "", "--atr", "0", "--mult", "1", "--rr", "2")
	require.NoError(t, err)
	assert.Contains(t, got, "Entry:         129.0000")
	assert.Contains(t, got, "Stop:          127.00")
	assert.Contains(t, got, "Take Profit:   133.00")

	_, err = run(t, "--config", cfg, "candles", "show", "ETH/USDT", "--timeframe", "1H", "--limit", "5")
	assert.ErrorIs(t, err, market.ErrNoData)
}
