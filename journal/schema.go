package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	stop_price REAL NOT NULL DEFAULT 0,
	quantity REAL NOT NULL,
	leverage REAL NOT NULL DEFAULT 1,
	total_pnl REAL NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	category TEXT NOT NULL,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_exits (
	exit_id TEXT PRIMARY KEY,
	trade_id TEXT NOT NULL REFERENCES trades(trade_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	price REAL NOT NULL,
	quantity REAL NOT NULL,
	time DATETIME NOT NULL,
	pnl REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades(entry_time);
CREATE INDEX IF NOT EXISTS idx_trade_exits_trade ON trade_exits(trade_id, seq);
`
