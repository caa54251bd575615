package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tradevision/signals/signal"
)

// SQLite persists one ledger per user. Writes are wholesale: the user's
// rows are replaced inside a transaction on every save, mirroring how the
// ledger itself treats every mutation as a full state transition.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// SaveLedger rewrites the user's trades and balance atomically.
func (s *SQLite) SaveLedger(userID string, led *Ledger) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trades WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	for _, r := range led.Records() {
		_, err := tx.Exec(`
			INSERT INTO trades
			(trade_id, user_id, date, pair, direction, entry, exit, realized_pl, status,
			 timeframe, reasoning, stop_loss, take_profit1, take_profit2, risk_amount, lots)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, userID, r.Date, r.Pair, string(r.Direction), r.Entry, r.Exit,
			r.RealizedPL, string(r.Status), r.Timeframe, r.Reasoning,
			r.StopLoss, r.TakeProfit1, r.TakeProfit2, r.RiskAmount, r.Lots,
		)
		if err != nil {
			return fmt.Errorf("save ledger: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO accounts (user_id, balance) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET balance = excluded.balance`,
		userID, led.Balance())
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	return tx.Commit()
}

// LoadLedger reads a user's ledger back, newest trade first. A user with no
// stored state gets a ledger seeded with seedBalance.
func (s *SQLite) LoadLedger(userID string, seedBalance float64) (*Ledger, error) {
	var balance float64
	err := s.db.QueryRow(`SELECT balance FROM accounts WHERE user_id = ?`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return NewLedger(seedBalance, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT trade_id, date, pair, direction, entry, exit, realized_pl, status,
		       timeframe, reasoning, stop_loss, take_profit1, take_profit2, risk_amount, lots
		FROM trades
		WHERE user_id = ?
		ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	var records []TradeRecord
	for rows.Next() {
		var r TradeRecord
		var direction, status string
		if err := rows.Scan(
			&r.ID, &r.Date, &r.Pair, &direction, &r.Entry, &r.Exit,
			&r.RealizedPL, &status, &r.Timeframe, &r.Reasoning,
			&r.StopLoss, &r.TakeProfit1, &r.TakeProfit2, &r.RiskAmount, &r.Lots,
		); err != nil {
			return nil, fmt.Errorf("load ledger: %w", err)
		}
		r.Direction = signal.Direction(direction)
		r.Status = Status(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	return NewLedger(balance, records), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
