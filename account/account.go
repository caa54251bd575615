// Package account holds the user profile, plan gating, and its file store.
package account

import (
	"errors"
	"time"

	"github.com/tradevision/signals/risk"
)

// ErrLimitReached means the user's plan quota vetoes another analysis.
var ErrLimitReached = errors.New("signal limit reached for plan")

// PlanTier is the user's subscription level.
type PlanTier string

const (
	PlanFree     PlanTier = "FREE"
	PlanBasic    PlanTier = "BASIC"
	PlanAdvanced PlanTier = "ADVANCED"
	PlanPro      PlanTier = "PRO"
)

// freeLifetimeLimit is the number of signals a FREE account gets, ever.
const freeLifetimeLimit = 5

// AccountType is the broker account flavor, carried for display only.
type AccountType string

const (
	AccountStandard AccountType = "Standard"
	AccountRaw      AccountType = "Raw"
	AccountPro      AccountType = "Pro"
)

// Settings is the user-editable trading configuration. AccountSize is the
// live balance and moves with realized P/L.
type Settings struct {
	AccountSize    float64     `json:"accountSize"`
	RiskPercentage float64     `json:"riskPercentage"`
	AccountType    AccountType `json:"accountType"`
}

// UserProfile is the single persisted record per user.
type UserProfile struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	Plan                PlanTier  `json:"plan"`
	SignalsUsedLifetime int       `json:"signalsUsedLifetime"`
	SignalsUsedToday    int       `json:"signalsUsedToday"`
	JoinDate            time.Time `json:"joinDate"`
	Settings            Settings  `json:"settings"`
}

// CheckQuota is the pre-analysis veto: FREE accounts are capped at a
// lifetime number of signals, paid tiers are not.
func (u *UserProfile) CheckQuota() error {
	if u.Plan == PlanFree && u.SignalsUsedLifetime >= freeLifetimeLimit {
		return ErrLimitReached
	}
	return nil
}

// RecordSignalUse bumps usage counters after an accepted analysis. Only the
// FREE tier burns lifetime quota.
func (u *UserProfile) RecordSignalUse() {
	if u.Plan == PlanFree {
		u.SignalsUsedLifetime++
	}
	u.SignalsUsedToday++
}

// RiskProfile exposes the settings in the shape the sizing code wants.
func (u *UserProfile) RiskProfile() risk.Profile {
	return risk.Profile{
		AccountSize:    u.Settings.AccountSize,
		RiskPercentage: u.Settings.RiskPercentage,
	}
}
