package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tradevision/signals/account"
	"github.com/tradevision/signals/config"
	"github.com/tradevision/signals/engine"
	"github.com/tradevision/signals/inference"
	"github.com/tradevision/signals/journal"
)

// app is everything a command needs after bootstrap.
type app struct {
	cfg    *config.Config
	user   *account.UserProfile
	engine *engine.Engine
	store  *journal.SQLite
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// loadApp builds the engine from the config file: profile (seeded on first
// run), persisted ledger, and the vision client.
func loadApp() (*app, error) {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, err
	}

	profiles, err := account.NewStore(cfg.Storage.ProfileDir)
	if err != nil {
		return nil, err
	}

	user, err := profiles.Load(cfg.Account.UserID)
	if errors.Is(err, os.ErrNotExist) {
		user = &account.UserProfile{
			ID:       cfg.Account.UserID,
			Username: cfg.Account.Username,
			Plan:     account.PlanTier(cfg.Account.Plan),
			JoinDate: time.Now(),
			Settings: account.Settings{
				AccountSize:    cfg.Account.SeedBalance,
				RiskPercentage: cfg.Account.RiskPercent,
				AccountType:    account.AccountStandard,
			},
		}
		if err := profiles.Save(user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	store, err := journal.NewSQLite(cfg.Storage.JournalDB)
	if err != nil {
		return nil, err
	}

	led, err := store.LoadLedger(user.ID, user.Settings.AccountSize)
	if err != nil {
		store.Close()
		return nil, err
	}

	apiKey, err := config.APIKey()
	if err != nil {
		store.Close()
		return nil, err
	}
	timeout, _ := cfg.Inference.ParseTimeout()
	analyzer := inference.NewClient(apiKey, cfg.Inference.BaseURL, cfg.Inference.Model, timeout)

	return &app{
		cfg:    cfg,
		user:   user,
		engine: engine.New(user, led, analyzer, profiles, store),
		store:  store,
	}, nil
}

func fmtMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}
