// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	pair TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry REAL NOT NULL,
	exit REAL NOT NULL,
	realized_pl REAL NOT NULL,
	status TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	reasoning TEXT NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit1 REAL NOT NULL,
	take_profit2 REAL NOT NULL,
	risk_amount REAL NOT NULL,
	lots REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id, date);

CREATE TABLE IF NOT EXISTS accounts (
	user_id TEXT PRIMARY KEY,
	balance REAL NOT NULL
);
`
