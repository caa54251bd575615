// Package feed provides the simulated price feed that drives trade
// reconciliation: a random-walk generator for live mode and a replay loader
// for recorded tick files.
package feed

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Tick is one simulated price observation.
type Tick struct {
	Instrument string
	Time       time.Time
	Price      float64
}

// Store keeps the latest tick per instrument.
type Store struct {
	mu    sync.RWMutex
	ticks map[string]Tick
}

func NewStore() *Store {
	return &Store{ticks: make(map[string]Tick)}
}

func (s *Store) Set(t Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks[t.Instrument] = t
}

func (s *Store) Get(instrument string) (Tick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.ticks[instrument]
	if !ok {
		return Tick{}, errors.New("price not found")
	}
	return t, nil
}

// Walker generates a bounded random walk around a reference price, the same
// shape the dashboard uses to animate its market feed. Per-tick moves are a
// small fraction of the current price so the series stays in a realistic
// band around the signal's entry context.
type Walker struct {
	instrument string
	price      float64
	volatility float64 // per-tick move ceiling as a fraction of price
	rng        *rand.Rand
}

func NewWalker(instrument string, start float64) *Walker {
	return &Walker{
		instrument: instrument,
		price:      start,
		volatility: 0.001,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededWalker fixes the random source, for reproducible runs.
func NewSeededWalker(instrument string, start float64, seed int64) *Walker {
	w := NewWalker(instrument, start)
	w.rng = rand.New(rand.NewSource(seed))
	return w
}

func (w *Walker) Next(now time.Time) Tick {
	change := (w.rng.Float64() - 0.5) * 2 * w.volatility * w.price
	w.price += change
	return Tick{Instrument: w.instrument, Time: now, Price: w.price}
}

func (w *Walker) Price() float64 {
	return w.price
}
