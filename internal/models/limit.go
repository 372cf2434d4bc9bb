package models

import (
	"strings"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/uuid"
)

// LimitPeriod represents the window a spending limit applies to
type LimitPeriod string

const (
	LimitPeriodDaily   LimitPeriod = "daily"
	LimitPeriodWeekly  LimitPeriod = "weekly"
	LimitPeriodMonthly LimitPeriod = "monthly"
)

// Valid reports whether p is a known period.
func (p LimitPeriod) Valid() bool {
	switch p {
	case LimitPeriodDaily, LimitPeriodWeekly, LimitPeriodMonthly:
		return true
	}
	return false
}

// SpendingLimit caps expense spending for a category over a period
type SpendingLimit struct {
	ID       string      `json:"id"`
	Category string      `json:"category"`
	Amount   int64       `json:"amount"`
	Period   LimitPeriod `json:"period"`
}

// NewSpendingLimit validates the fields and returns a limit with a fresh id.
func NewSpendingLimit(category string, amount int64, period LimitPeriod) (*SpendingLimit, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !IsExpenseCategory(category) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category: "+category)
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "limit amount must be greater than zero")
	}
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be 'daily', 'weekly' or 'monthly'")
	}
	return &SpendingLimit{
		ID:       uuid.New(),
		Category: category,
		Amount:   amount,
		Period:   period,
	}, nil
}

// LimitSettings holds the global daily and monthly limits. A zero value
// disables the corresponding check.
type LimitSettings struct {
	DailyLimit   int64 `json:"daily_limit"`
	MonthlyLimit int64 `json:"monthly_limit"`
}

// DuplicateLimitPolicy decides which limit applies when several exist for
// the same category and period.
type DuplicateLimitPolicy string

const (
	// DuplicateReject refuses to store a second limit for a (category, period)
	// pair. Pre-existing duplicates resolve to the first match.
	DuplicateReject          DuplicateLimitPolicy = "reject"
	DuplicateFirst           DuplicateLimitPolicy = "first"
	DuplicateMostRecent      DuplicateLimitPolicy = "most_recent"
	DuplicateMostRestrictive DuplicateLimitPolicy = "most_restrictive"
)

// Valid reports whether p is a known policy.
func (p DuplicateLimitPolicy) Valid() bool {
	switch p {
	case DuplicateReject, DuplicateFirst, DuplicateMostRecent, DuplicateMostRestrictive:
		return true
	}
	return false
}

// ResolveLimit picks the limit for (category, period) out of limits, which
// must be in insertion order. It returns nil when none matches.
func ResolveLimit(limits []SpendingLimit, category string, period LimitPeriod, policy DuplicateLimitPolicy) *SpendingLimit {
	var picked *SpendingLimit
	for i := range limits {
		l := &limits[i]
		if l.Category != category || l.Period != period {
			continue
		}
		switch {
		case policy != DuplicateMostRecent && policy != DuplicateMostRestrictive:
			return l
		case picked == nil, policy == DuplicateMostRecent:
			picked = l
		case l.Amount < picked.Amount:
			picked = l
		}
	}
	return picked
}
