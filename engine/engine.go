// Package engine wires inference, signal derivation, the trade ledger, and
// tick reconciliation into one serialized application core.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tradevision/signals/account"
	"github.com/tradevision/signals/feed"
	"github.com/tradevision/signals/journal"
	"github.com/tradevision/signals/reconcile"
	"github.com/tradevision/signals/signal"
)

// ErrDiscarded means a Reset landed while the analysis was in flight; the
// late result was thrown away and no state changed.
var ErrDiscarded = errors.New("analysis discarded by reset")

// Analyzer is the external vision collaborator.
type Analyzer interface {
	AnalyzeChart(ctx context.Context, image []byte) (signal.Inference, error)
}

// LedgerStore persists the trade ledger wholesale after each mutation.
type LedgerStore interface {
	SaveLedger(userID string, led *journal.Ledger) error
}

// ProfileStore persists the user profile wholesale after each mutation.
type ProfileStore interface {
	Save(u *account.UserProfile) error
}

// Engine owns the user, the ledger, and the analysis state machine. A single
// mutex serializes every mutation: ledger edits, tick reconciliation, and
// analysis completion all read-modify-write the same balance, so they take
// turns. Only the model call itself runs outside the lock.
type Engine struct {
	mu    sync.Mutex
	state State
	gen   int // bumped by Reset; stale analyses compare against it
	abort context.CancelFunc

	user     *account.UserProfile
	ledger   *journal.Ledger
	analyzer Analyzer

	profiles ProfileStore
	journal  LedgerStore

	lastSignal *signal.Signal
}

func New(user *account.UserProfile, led *journal.Ledger, analyzer Analyzer, profiles ProfileStore, ledgers LedgerStore) *Engine {
	return &Engine{
		state:    StateIdle,
		user:     user,
		ledger:   led,
		analyzer: analyzer,
		profiles: profiles,
		journal:  ledgers,
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Balance() float64 {
	return e.ledger.Balance()
}

func (e *Engine) Ledger() *journal.Ledger {
	return e.ledger
}

// LastSignal returns the most recently derived signal, if any.
func (e *Engine) LastSignal() (signal.Signal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastSignal == nil {
		return signal.Signal{}, false
	}
	return *e.lastSignal, true
}

// Analyze runs the full pipeline for one chart image: plan-quota veto,
// model inference, signal derivation, PENDING ledger entry, persistence.
// On any failure the ledger and balance are left untouched.
func (e *Engine) Analyze(ctx context.Context, image []byte) (signal.Signal, error) {
	e.mu.Lock()
	if err := e.user.CheckQuota(); err != nil {
		e.mu.Unlock()
		return signal.Signal{}, err
	}

	e.state = StateUploading
	ctx, cancel := context.WithCancel(ctx)
	e.abort = cancel
	e.gen++
	myGen := e.gen
	e.state = StateAnalyzing
	e.mu.Unlock()

	// The one slow call, outside the lock so ledger operations and ticks
	// keep flowing while the model thinks.
	inf, infErr := e.analyzer.AnalyzeChart(ctx, image)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gen != myGen {
		// Reset won the race; this result is abandoned and no state moves.
		return signal.Signal{}, ErrDiscarded
	}
	e.abort = nil

	if infErr != nil {
		e.state = StateFailed
		return signal.Signal{}, infErr
	}

	sig, err := signal.Derive(inf, e.user.RiskProfile())
	if err != nil {
		e.state = StateFailed
		return signal.Signal{}, err
	}

	e.ledger.Append(journal.FromSignal(sig))
	e.user.RecordSignalUse()
	e.lastSignal = &sig
	e.state = StateResolved

	if err := e.persistLocked(); err != nil {
		return sig, err
	}
	return sig, nil
}

// Reset abandons any in-flight analysis and returns to idle. The underlying
// request context is cancelled rather than left running.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.abort != nil {
		e.abort()
		e.abort = nil
	}
	e.gen++
	e.lastSignal = nil
	e.state = StateIdle
}

// Tick reconciles pending trades against one price observation and folds
// any realized P/L into the account.
func (e *Engine) Tick(t feed.Tick) reconcile.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := reconcile.Reconcile(t.Price, e.ledger)
	if len(out.Resolved) > 0 {
		e.user.Settings.AccountSize = e.ledger.Balance()
		for _, r := range out.Resolved {
			log.Printf("engine: %s %s resolved %s at %.5f (%+.2f)",
				r.Pair, r.Direction, r.Status, r.Exit, r.RealizedPL)
		}
		if err := e.persistLocked(); err != nil {
			log.Printf("engine: persist after tick: %v", err)
		}
	}
	return out
}

// Run drives reconciliation from a tick source at a fixed interval until
// the context ends. Ticks are strictly sequential: each one is reconciled
// and persisted before the next is generated.
func (e *Engine) Run(ctx context.Context, w *feed.Walker, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.Tick(w.Next(now))
		}
	}
}

// Replay feeds recorded ticks through the reconciler in order.
func (e *Engine) Replay(ticks []feed.Tick) reconcile.Outcome {
	var total reconcile.Outcome
	for _, t := range ticks {
		out := e.Tick(t)
		total.Resolved = append(total.Resolved, out.Resolved...)
		total.BalanceDelta += out.BalanceDelta
		total.Skipped += out.Skipped
	}
	return total
}

// LogTrade appends a manually logged trade.
func (e *Engine) LogTrade(rec journal.TradeRecord) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	balance := e.ledger.Append(rec)
	e.user.Settings.AccountSize = balance
	if err := e.persistLocked(); err != nil {
		log.Printf("engine: persist after log: %v", err)
	}
	return balance
}

// EditTrade rewrites a trade; the ledger reverses the old P/L before
// applying the new one.
func (e *Engine) EditTrade(tradeID string, rec journal.TradeRecord) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	balance, err := e.ledger.Edit(tradeID, rec)
	if err != nil {
		return balance, err
	}
	e.user.Settings.AccountSize = balance
	if err := e.persistLocked(); err != nil {
		return balance, err
	}
	return balance, nil
}

// DeleteTrade removes a trade, reversing its P/L if it had resolved.
func (e *Engine) DeleteTrade(tradeID string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	balance, err := e.ledger.Delete(tradeID)
	if err != nil {
		return balance, err
	}
	e.user.Settings.AccountSize = balance
	if err := e.persistLocked(); err != nil {
		return balance, err
	}
	return balance, nil
}

// UpdateSettings applies a user-initiated settings change, including an
// absolute balance override.
func (e *Engine) UpdateSettings(s account.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.user.Settings = s
	e.ledger.SetBalance(s.AccountSize)
	if err := e.persistLocked(); err != nil {
		return err
	}
	return nil
}

func (e *Engine) persistLocked() error {
	if e.profiles != nil {
		if err := e.profiles.Save(e.user); err != nil {
			return fmt.Errorf("persist profile: %w", err)
		}
	}
	if e.journal != nil {
		if err := e.journal.SaveLedger(e.user.ID, e.ledger); err != nil {
			return fmt.Errorf("persist ledger: %w", err)
		}
	}
	return nil
}
