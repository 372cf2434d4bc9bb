package services

import (
	"context"
	"time"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
)

// categoryPeriods is the order in which category limits are checked.
var categoryPeriods = []models.LimitPeriod{
	models.LimitPeriodMonthly,
	models.LimitPeriodWeekly,
	models.LimitPeriodDaily,
}

// LimitConfig holds the limit policy settings that come from configuration.
type LimitConfig struct {
	// Defaults apply until the user saves their own global limits.
	Defaults        models.LimitSettings
	DuplicatePolicy models.DuplicateLimitPolicy
}

// limitService evaluates payments against the global and category limits.
type limitService struct {
	repo    *kvstore.Repository
	ledger  LedgerServicer
	clock   Clock
	cfg     LimitConfig
	metrics *metrics.Metrics
}

// NewLimitService creates a new LimitServicer.
func NewLimitService(repo *kvstore.Repository, ledger LedgerServicer, clock Clock, cfg LimitConfig, m *metrics.Metrics) LimitServicer {
	if !cfg.DuplicatePolicy.Valid() {
		cfg.DuplicatePolicy = models.DuplicateReject
	}
	return &limitService{repo: repo, ledger: ledger, clock: clock, cfg: cfg, metrics: m}
}

// Evaluate decides whether spending amount (in category, if given) stays
// within every configured limit. Reaching a limit exactly is allowed; only
// exceeding it denies.
func (s *limitService) Evaluate(ctx context.Context, amount int64, category string) (*models.Decision, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must be greater than zero")
	}

	start := time.Now()
	defer func() { s.metrics.ObserveEvaluation(time.Since(start)) }()

	txs, err := s.ledger.All(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	var limits []models.SpendingLimit
	if category != "" {
		if limits, err = s.ListLimits(ctx); err != nil {
			return nil, err
		}
	}

	today := s.clock.Today()

	if settings.DailyLimit > 0 {
		spent := sumExpenses(txs, models.PeriodWindow(models.LimitPeriodDaily, today), "")
		if money.Sum(spent, amount) > settings.DailyLimit {
			return &models.Decision{
				Scope:  models.LimitScopeDaily,
				Period: models.LimitPeriodDaily,
				Limit:  settings.DailyLimit,
				Spent:  spent,
				Amount: amount,
			}, nil
		}
	}

	if settings.MonthlyLimit > 0 {
		spent := sumExpenses(txs, models.PeriodWindow(models.LimitPeriodMonthly, today), "")
		if money.Sum(spent, amount) > settings.MonthlyLimit {
			return &models.Decision{
				Scope:  models.LimitScopeMonthly,
				Period: models.LimitPeriodMonthly,
				Limit:  settings.MonthlyLimit,
				Spent:  spent,
				Amount: amount,
			}, nil
		}
	}

	for _, period := range categoryPeriods {
		limit := models.ResolveLimit(limits, category, period, s.cfg.DuplicatePolicy)
		if limit == nil {
			continue
		}
		spent := sumExpenses(txs, models.PeriodWindow(period, today), category)
		if money.Sum(spent, amount) > limit.Amount {
			return &models.Decision{
				Scope:    models.LimitScopeCategory,
				Category: category,
				Period:   period,
				Limit:    limit.Amount,
				Spent:    spent,
				Amount:   amount,
			}, nil
		}
	}

	return models.Allow(amount), nil
}

// AddLimit creates a category limit. Under the reject policy a second limit
// for the same category and period is refused.
func (s *limitService) AddLimit(ctx context.Context, category string, amount int64, period models.LimitPeriod) (*models.SpendingLimit, error) {
	limit, err := models.NewSpendingLimit(category, amount, period)
	if err != nil {
		return nil, err
	}

	err = kvstore.UpdateList(ctx, s.repo, kvstore.KeySpendingLimits, func(list []models.SpendingLimit) ([]models.SpendingLimit, error) {
		if s.cfg.DuplicatePolicy == models.DuplicateReject {
			for _, l := range list {
				if l.Category == limit.Category && l.Period == limit.Period {
					return nil, apperrors.ErrDuplicateLimit
				}
			}
		}
		return append(list, *limit), nil
	})
	if err != nil {
		return nil, storageFailure(s.metrics, "limits", "failed to add spending limit", err, "category", limit.Category)
	}
	return limit, nil
}

// UpdateLimit changes the amount of a category limit.
func (s *limitService) UpdateLimit(ctx context.Context, id string, amount int64) (*models.SpendingLimit, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "limit amount must be greater than zero")
	}

	var updated models.SpendingLimit
	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeySpendingLimits, func(list []models.SpendingLimit) ([]models.SpendingLimit, error) {
		for i := range list {
			if list[i].ID == id {
				list[i].Amount = amount
				updated = list[i]
				return list, nil
			}
		}
		return nil, apperrors.ErrLimitNotFound
	})
	if err != nil {
		return nil, storageFailure(s.metrics, "limits", "failed to update spending limit", err, "limit_id", id)
	}
	return &updated, nil
}

// DeleteLimit removes a category limit.
func (s *limitService) DeleteLimit(ctx context.Context, id string) error {
	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeySpendingLimits, func(list []models.SpendingLimit) ([]models.SpendingLimit, error) {
		for i := range list {
			if list[i].ID == id {
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, apperrors.ErrLimitNotFound
	})
	if err != nil {
		return storageFailure(s.metrics, "limits", "failed to delete spending limit", err, "limit_id", id)
	}
	return nil
}

// ListLimits returns the category limits in creation order.
func (s *limitService) ListLimits(ctx context.Context) ([]models.SpendingLimit, error) {
	list, err := kvstore.LoadList[models.SpendingLimit](ctx, s.repo, kvstore.KeySpendingLimits)
	if err != nil {
		return nil, storageFailure(s.metrics, "limits", "failed to load spending limits", err)
	}
	return list, nil
}

// GetSettings returns the saved global limits, or the configured defaults
// when none were saved.
func (s *limitService) GetSettings(ctx context.Context) (*models.LimitSettings, error) {
	settings, found, err := kvstore.LoadValue[models.LimitSettings](ctx, s.repo, kvstore.KeyLimitSettings)
	if err != nil {
		return nil, storageFailure(s.metrics, "limits", "failed to load limit settings", err)
	}
	if !found {
		settings = s.cfg.Defaults
	}
	return &settings, nil
}

// UpdateSettings saves the global limits. Zero disables a limit.
func (s *limitService) UpdateSettings(ctx context.Context, settings models.LimitSettings) (*models.LimitSettings, error) {
	if settings.DailyLimit < 0 || settings.MonthlyLimit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "limits cannot be negative")
	}
	if err := kvstore.SaveValue(ctx, s.repo, kvstore.KeyLimitSettings, settings); err != nil {
		return nil, storageFailure(s.metrics, "limits", "failed to save limit settings", err)
	}
	return &settings, nil
}

// Progress reports spending against every active limit for its current
// window: the global daily and monthly limits first, then category limits.
func (s *limitService) Progress(ctx context.Context) ([]LimitProgress, error) {
	txs, err := s.ledger.All(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	limits, err := s.ListLimits(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	out := make([]LimitProgress, 0, len(limits)+2)

	global := []struct {
		scope  models.LimitScope
		period models.LimitPeriod
		amount int64
	}{
		{models.LimitScopeDaily, models.LimitPeriodDaily, settings.DailyLimit},
		{models.LimitScopeMonthly, models.LimitPeriodMonthly, settings.MonthlyLimit},
	}
	for _, g := range global {
		if g.amount <= 0 {
			continue
		}
		w := models.PeriodWindow(g.period, today)
		out = append(out, newLimitProgress("", g.scope, "", g.period, w, g.amount, sumExpenses(txs, w, "")))
	}

	for _, l := range limits {
		w := models.PeriodWindow(l.Period, today)
		out = append(out, newLimitProgress(l.ID, models.LimitScopeCategory, l.Category, l.Period, w, l.Amount, sumExpenses(txs, w, l.Category)))
	}
	return out, nil
}

func newLimitProgress(id string, scope models.LimitScope, category string, period models.LimitPeriod, w models.Window, limit, spent int64) LimitProgress {
	remaining := limit - spent
	if remaining < 0 {
		remaining = 0
	}
	return LimitProgress{
		LimitID:    id,
		Scope:      scope,
		Category:   category,
		Period:     period,
		From:       w.From,
		To:         w.To,
		Limit:      limit,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: money.Percentage(spent, limit),
	}
}
