// journal/journal.go
package journal

import (
	"errors"
	"sync"
	"time"

	"github.com/tradevision/signals/signal"
)

// ErrNotFound means an edit or delete referenced a trade id that is not in
// the ledger. Caller error; never retried.
var ErrNotFound = errors.New("trade not found")

// Status of a logged trade. Pending is the only non-terminal state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusWin       Status = "WIN"
	StatusLoss      Status = "LOSS"
	StatusBreakEven Status = "BREAK_EVEN"
)

func (s Status) Terminal() bool {
	return s != StatusPending
}

// TradeRecord is one logged trade. Exit and RealizedPL stay zero until the
// trade resolves; RiskAmount and Lots are carried from the originating
// signal so reconciliation can price the outcome later.
type TradeRecord struct {
	ID          string
	Date        time.Time
	Pair        string
	Direction   signal.Direction
	Entry       float64
	Exit        float64
	RealizedPL  float64
	Status      Status
	Timeframe   string
	Reasoning   string
	StopLoss    float64
	TakeProfit1 float64
	TakeProfit2 float64
	RiskAmount  float64
	Lots        float64
}

// FromSignal cuts a PENDING ledger record from a derived signal. The record
// shares the signal's id.
func FromSignal(sig signal.Signal) TradeRecord {
	return TradeRecord{
		ID:          sig.ID,
		Date:        sig.Timestamp,
		Pair:        sig.Pair,
		Direction:   sig.Direction,
		Entry:       sig.Entry,
		Status:      StatusPending,
		Timeframe:   sig.Timeframe,
		Reasoning:   sig.Reasoning,
		StopLoss:    sig.StopLoss,
		TakeProfit1: sig.TakeProfit1,
		TakeProfit2: sig.TakeProfit2,
		RiskAmount:  sig.RiskAmount,
		Lots:        sig.Lots,
	}
}

// Ledger is the ordered trade log for one account, newest first. It owns the
// account balance: every terminal record's RealizedPL is reflected in the
// balance exactly once, so balance always equals the seed plus the sum of
// P/L over currently-terminal records.
//
// The mutex makes each operation a single read-modify-write; callers running
// real concurrency get the balance invariant without extra locking.
type Ledger struct {
	mu      sync.Mutex
	records []TradeRecord
	balance float64
}

// NewLedger seeds a ledger. Records are assumed newest-first and their
// terminal P/L already reflected in balance (the load path from storage).
func NewLedger(balance float64, records []TradeRecord) *Ledger {
	l := &Ledger{balance: balance}
	l.records = append(l.records, records...)
	return l
}

func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// SetBalance applies a user-initiated absolute balance override. Normal
// balance movement always goes through the paired P/L deltas in
// Append/Edit/Delete/Resolve; this exists only for explicit settings edits.
func (l *Ledger) SetBalance(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = v
}

// Records returns a copy of the log, newest first.
func (l *Ledger) Records() []TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]TradeRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Pending returns the records still awaiting resolution.
func (l *Ledger) Pending() []TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []TradeRecord
	for _, r := range l.records {
		if r.Status == StatusPending {
			out = append(out, r)
		}
	}
	return out
}

// Append inserts a record at the head of the log. A record logged directly
// in a terminal state has its P/L applied immediately. Returns the updated
// balance.
func (l *Ledger) Append(rec TradeRecord) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]TradeRecord{rec}, l.records...)
	if rec.Status.Terminal() {
		l.balance += rec.RealizedPL
	}
	return l.balance
}

// Edit replaces the record with the given id in place, preserving its
// position. The old record's P/L is reversed before the new record's is
// applied, so the balance invariant survives arbitrary rewrites.
func (l *Ledger) Edit(tradeID string, rec TradeRecord) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(tradeID)
	if i < 0 {
		return l.balance, ErrNotFound
	}

	old := l.records[i]
	if old.Status.Terminal() {
		l.balance -= old.RealizedPL
	}
	rec.ID = tradeID
	if rec.Status.Terminal() {
		l.balance += rec.RealizedPL
	}
	l.records[i] = rec
	return l.balance, nil
}

// Delete removes the record with the given id, reversing its P/L if it had
// already resolved. Deleting a pending record never moves the balance.
func (l *Ledger) Delete(tradeID string) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(tradeID)
	if i < 0 {
		return l.balance, ErrNotFound
	}

	if l.records[i].Status.Terminal() {
		l.balance -= l.records[i].RealizedPL
	}
	l.records = append(l.records[:i], l.records[i+1:]...)
	return l.balance, nil
}

// Resolve transitions a PENDING record to a terminal status and applies the
// realized P/L to the balance. Resolving a record that is not pending is an
// error, which makes reconciliation idempotent: an already-resolved trade
// can never be paid out twice.
func (l *Ledger) Resolve(tradeID string, exit, realizedPL float64, status Status) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(tradeID)
	if i < 0 {
		return l.balance, ErrNotFound
	}
	if l.records[i].Status != StatusPending {
		return l.balance, errors.New("trade already resolved")
	}
	if !status.Terminal() {
		return l.balance, errors.New("resolve requires a terminal status")
	}

	l.records[i].Exit = exit
	l.records[i].RealizedPL = realizedPL
	l.records[i].Status = status
	l.balance += realizedPL
	return l.balance, nil
}

func (l *Ledger) indexLocked(tradeID string) int {
	for i, r := range l.records {
		if r.ID == tradeID {
			return i
		}
	}
	return -1
}
