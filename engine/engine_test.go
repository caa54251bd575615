package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradevision/signals/account"
	"github.com/tradevision/signals/feed"
	"github.com/tradevision/signals/inference"
	"github.com/tradevision/signals/journal"
	"github.com/tradevision/signals/signal"
)

type fakeAnalyzer struct {
	inf   signal.Inference
	err   error
	block chan struct{} // if set, AnalyzeChart waits on it or ctx
}

func (f *fakeAnalyzer) AnalyzeChart(ctx context.Context, _ []byte) (signal.Inference, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return inference.Invalid(), inference.ErrFailed
		}
	}
	return f.inf, f.err
}

type memStores struct {
	mu           sync.Mutex
	profileSaves int
	ledgerSaves  int
}

func (m *memStores) Save(_ *account.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileSaves++
	return nil
}

func (m *memStores) SaveLedger(_ string, _ *journal.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgerSaves++
	return nil
}

func freeUser() *account.UserProfile {
	return &account.UserProfile{
		ID:   "u1",
		Plan: account.PlanFree,
		Settings: account.Settings{
			AccountSize:    1000,
			RiskPercentage: 1,
		},
	}
}

func goldInference() signal.Inference {
	return signal.Inference{
		Pair:         "XAUUSD",
		Timeframe:    "M15",
		Direction:    "BUY",
		Entry:        2000,
		StopLoss:     1990,
		IsSetupValid: true,
	}
}

func newTestEngine(user *account.UserProfile, a Analyzer) (*Engine, *memStores) {
	stores := &memStores{}
	led := journal.NewLedger(user.Settings.AccountSize, nil)
	return New(user, led, a, stores, stores), stores
}

func TestAnalyze_HappyPath(t *testing.T) {
	t.Parallel()

	user := freeUser()
	e, stores := newTestEngine(user, &fakeAnalyzer{inf: goldInference()})

	sig, err := e.Analyze(context.Background(), []byte("png"))
	require.NoError(t, err)

	assert.Equal(t, StateResolved, e.State())
	assert.InDelta(t, 2010.0, sig.TakeProfit1, 1e-9)
	assert.Equal(t, 1, user.SignalsUsedLifetime)

	pending := e.Ledger().Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, sig.ID, pending[0].ID)
	assert.InDelta(t, 1000.0, e.Balance(), 1e-9) // pending, balance unmoved

	stores.mu.Lock()
	defer stores.mu.Unlock()
	assert.Positive(t, stores.profileSaves)
	assert.Positive(t, stores.ledgerSaves)
}

func TestAnalyze_InvalidSetupLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	inf := goldInference()
	inf.IsSetupValid = false
	user := freeUser()
	e, _ := newTestEngine(user, &fakeAnalyzer{inf: inf})

	_, err := e.Analyze(context.Background(), []byte("png"))
	assert.ErrorIs(t, err, signal.ErrInvalidSetup)
	assert.Equal(t, StateFailed, e.State())
	assert.Empty(t, e.Ledger().Records())
	assert.Zero(t, user.SignalsUsedLifetime)
}

func TestAnalyze_CollaboratorFailure(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(freeUser(), &fakeAnalyzer{inf: inference.Invalid(), err: inference.ErrFailed})

	_, err := e.Analyze(context.Background(), []byte("png"))
	assert.ErrorIs(t, err, inference.ErrFailed)
	assert.Equal(t, StateFailed, e.State())
	assert.Empty(t, e.Ledger().Records())
}

func TestAnalyze_QuotaVeto(t *testing.T) {
	t.Parallel()

	user := freeUser()
	user.SignalsUsedLifetime = 5
	e, _ := newTestEngine(user, &fakeAnalyzer{inf: goldInference()})

	_, err := e.Analyze(context.Background(), []byte("png"))
	assert.ErrorIs(t, err, account.ErrLimitReached)
	assert.Equal(t, StateIdle, e.State())
}

// A reset while the model call is outstanding discards the late result.
func TestReset_DiscardsInFlight(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	fake := &fakeAnalyzer{inf: goldInference(), block: block}
	e, _ := newTestEngine(freeUser(), fake)

	done := make(chan error, 1)
	go func() {
		_, err := e.Analyze(context.Background(), []byte("png"))
		done <- err
	}()

	require.Eventually(t, func() bool {
		return e.State() == StateAnalyzing
	}, time.Second, time.Millisecond)

	e.Reset()
	close(block)

	err := <-done
	assert.ErrorIs(t, err, ErrDiscarded)
	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Ledger().Records())
}

func TestTick_ResolvesAndSyncsBalance(t *testing.T) {
	t.Parallel()

	user := freeUser()
	e, _ := newTestEngine(user, &fakeAnalyzer{inf: goldInference()})

	sig, err := e.Analyze(context.Background(), []byte("png"))
	require.NoError(t, err)

	// Price through TP1.
	out := e.Tick(feed.Tick{Instrument: "XAUUSD", Time: time.Now(), Price: sig.TakeProfit1 + 1})
	require.Len(t, out.Resolved, 1)
	assert.Equal(t, journal.StatusWin, out.Resolved[0].Status)
	assert.InDelta(t, 1000+sig.RiskAmount, e.Balance(), 1e-9)
	assert.InDelta(t, e.Balance(), user.Settings.AccountSize, 1e-9)

	// Same tick again: nothing new.
	out = e.Tick(feed.Tick{Instrument: "XAUUSD", Time: time.Now(), Price: sig.TakeProfit1 + 1})
	assert.Empty(t, out.Resolved)
}

func TestReplay_SequentialTicks(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(freeUser(), &fakeAnalyzer{inf: goldInference()})
	sig, err := e.Analyze(context.Background(), []byte("png"))
	require.NoError(t, err)

	now := time.Now()
	out := e.Replay([]feed.Tick{
		{Instrument: "XAUUSD", Time: now, Price: sig.Entry + 2},
		{Instrument: "XAUUSD", Time: now.Add(time.Second), Price: sig.Entry + 5},
		{Instrument: "XAUUSD", Time: now.Add(2 * time.Second), Price: sig.TakeProfit1},
	})
	require.Len(t, out.Resolved, 1)
	assert.InDelta(t, sig.RiskAmount, out.BalanceDelta, 1e-9)
}

func TestEditAndDeleteTrade(t *testing.T) {
	t.Parallel()

	user := freeUser()
	e, _ := newTestEngine(user, &fakeAnalyzer{inf: goldInference()})

	win := journal.TradeRecord{
		ID: "m1", Pair: "EURUSD", Direction: signal.Buy,
		Status: journal.StatusWin, RealizedPL: 50,
	}
	balance := e.LogTrade(win)
	assert.InDelta(t, 1050.0, balance, 1e-9)

	edited := win
	edited.RealizedPL = 30
	balance, err := e.EditTrade("m1", edited)
	require.NoError(t, err)
	assert.InDelta(t, 1030.0, balance, 1e-9)

	balance, err = e.DeleteTrade("m1")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, balance, 1e-9)
	assert.InDelta(t, 1000.0, user.Settings.AccountSize, 1e-9)

	_, err = e.DeleteTrade("m1")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestUpdateSettings_AbsoluteOverride(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(freeUser(), &fakeAnalyzer{inf: goldInference()})
	err := e.UpdateSettings(account.Settings{AccountSize: 2500, RiskPercentage: 2})
	require.NoError(t, err)
	assert.InDelta(t, 2500.0, e.Balance(), 1e-9)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(freeUser(), &fakeAnalyzer{inf: goldInference()})
	w := feed.NewSeededWalker("XAUUSD", 2000, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		e.Run(ctx, w, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestAnalyze_TimeoutSurfaced(t *testing.T) {
	t.Parallel()

	fake := &fakeAnalyzer{inf: inference.Invalid(), err: inference.ErrTimeout}
	e, _ := newTestEngine(freeUser(), fake)

	_, err := e.Analyze(context.Background(), []byte("png"))
	assert.ErrorIs(t, err, inference.ErrTimeout)
	assert.Equal(t, StateFailed, e.State())
}
