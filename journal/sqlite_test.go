package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradevision/signals/signal"
)

func TestSQLite_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.sqlite")
	store, err := NewSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	led := NewLedger(1000, nil)
	led.Append(TradeRecord{
		ID:          "t1",
		Date:        time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Pair:        "XAUUSD",
		Direction:   signal.Buy,
		Entry:       2000,
		Status:      StatusPending,
		StopLoss:    1990,
		TakeProfit1: 2010,
		TakeProfit2: 2020,
		RiskAmount:  10,
		Lots:        0.01,
	})
	led.Append(TradeRecord{
		ID:         "t2",
		Date:       time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
		Pair:       "EURUSD",
		Direction:  signal.Sell,
		Entry:      1.1,
		Exit:       1.095,
		RealizedPL: 25,
		Status:     StatusWin,
		RiskAmount: 25,
	})

	require.NoError(t, store.SaveLedger("user-1", led))

	loaded, err := store.LoadLedger("user-1", 0)
	require.NoError(t, err)

	assert.InDelta(t, led.Balance(), loaded.Balance(), 1e-9)
	recs := loaded.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "t2", recs[0].ID) // newest first
	assert.Equal(t, StatusWin, recs[0].Status)
	assert.Equal(t, signal.Sell, recs[0].Direction)
	assert.Equal(t, "t1", recs[1].ID)
	assert.InDelta(t, 2010.0, recs[1].TakeProfit1, 1e-9)
}

func TestSQLite_SaveIsWholesale(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.sqlite")
	store, err := NewSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	led := NewLedger(500, nil)
	led.Append(TradeRecord{ID: "a", Date: time.Now(), Pair: "EURUSD", Status: StatusPending})
	require.NoError(t, store.SaveLedger("u", led))

	// Delete and save again: the stored copy must not keep the old row.
	_, err = led.Delete("a")
	require.NoError(t, err)
	require.NoError(t, store.SaveLedger("u", led))

	loaded, err := store.LoadLedger("u", 0)
	require.NoError(t, err)
	assert.Empty(t, loaded.Records())
	assert.InDelta(t, 500.0, loaded.Balance(), 1e-9)
}

func TestSQLite_UnknownUserGetsSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.sqlite")
	store, err := NewSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	led, err := store.LoadLedger("nobody", 1234)
	require.NoError(t, err)
	assert.InDelta(t, 1234.0, led.Balance(), 1e-9)
	assert.Empty(t, led.Records())
}
