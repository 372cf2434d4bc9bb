package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hissterical/MindfulPay/internal/models"
)

const (
	overviewDays           = 7
	overviewRecentExpenses = 5
	overviewTopGoals       = 3
)

// overviewService builds the home screen summary.
type overviewService struct {
	ledger  LedgerServicer
	goals   GoalServicer
	counter DailyCounterServicer
	clock   Clock
}

// NewOverviewService creates a new OverviewServicer.
func NewOverviewService(ledger LedgerServicer, goals GoalServicer, counter DailyCounterServicer, clock Clock) OverviewServicer {
	return &overviewService{ledger: ledger, goals: goals, counter: counter, clock: clock}
}

// Overview loads the ledger, the goals and the daily counter concurrently and
// derives the home screen aggregates from them.
func (s *overviewService) Overview(ctx context.Context) (*Overview, error) {
	var (
		txs        []models.Transaction
		goals      []models.Goal
		dispatched int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.ledger.All(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goals.ListGoals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dispatched, err = s.counter.Today(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(goals) > overviewTopGoals {
		goals = goals[:overviewTopGoals]
	}
	top := make([]GoalSummary, 0, len(goals))
	for _, goal := range goals {
		top = append(top, GoalSummary{
			Goal:      goal,
			Progress:  goal.Progress(),
			Remaining: goal.Remaining(),
		})
	}

	return &Overview{
		Totals:          computeTotals(txs),
		LastSevenDays:   dailyExpenses(txs, s.clock.Today(), overviewDays),
		RecentExpenses:  recentExpenses(txs, overviewRecentExpenses),
		TopGoals:        top,
		DispatchedToday: dispatched,
	}, nil
}
