package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Now is the fixed instant used by service tests: Thursday 14 March 2024,
// 10:30 UTC.
var Now = time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC)

// Today is the calendar date of Now in UTC.
var Today = models.DateOf(Now)

// Clock is a settable clock for services that take a func() time.Time.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock starting at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// CreateTestExpense stores an expense of amount paise in category on date.
func CreateTestExpense(t *testing.T, repo *kvstore.Repository, category string, amount int64, date models.Date) *models.Transaction {
	t.Helper()
	return CreateTestTransaction(t, repo, models.TransactionInput{
		Amount:      amount,
		Type:        models.TransactionTypeExpense,
		Category:    category,
		Description: fmt.Sprintf("Test expense %d", nextID()),
		Date:        date,
	})
}

// CreateTestIncome stores an income of amount paise on date.
func CreateTestIncome(t *testing.T, repo *kvstore.Repository, amount int64, date models.Date) *models.Transaction {
	t.Helper()
	return CreateTestTransaction(t, repo, models.TransactionInput{
		Amount:      amount,
		Type:        models.TransactionTypeIncome,
		Category:    "Salary",
		Description: fmt.Sprintf("Test income %d", nextID()),
		Date:        date,
	})
}

// CreateTestTransaction validates in and appends it to the stored ledger.
func CreateTestTransaction(t *testing.T, repo *kvstore.Repository, in models.TransactionInput) *models.Transaction {
	t.Helper()

	tx, err := models.NewTransaction(in)
	if err != nil {
		t.Fatalf("invalid test transaction: %v", err)
	}
	err = kvstore.UpdateList(context.Background(), repo, kvstore.KeyTransactions, func(list []models.Transaction) ([]models.Transaction, error) {
		return append(list, *tx), nil
	})
	if err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestLimit stores a category spending limit.
func CreateTestLimit(t *testing.T, repo *kvstore.Repository, category string, amount int64, period models.LimitPeriod) *models.SpendingLimit {
	t.Helper()

	limit, err := models.NewSpendingLimit(category, amount, period)
	if err != nil {
		t.Fatalf("invalid test limit: %v", err)
	}
	err = kvstore.UpdateList(context.Background(), repo, kvstore.KeySpendingLimits, func(list []models.SpendingLimit) ([]models.SpendingLimit, error) {
		return append(list, *limit), nil
	})
	if err != nil {
		t.Fatalf("failed to create test limit: %v", err)
	}
	return limit
}

// CreateTestGoal stores a goal with the given target.
func CreateTestGoal(t *testing.T, repo *kvstore.Repository, target, current int64) *models.Goal {
	t.Helper()

	goal, err := models.NewGoal(models.GoalInput{
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		Category:      "Savings",
	})
	if err != nil {
		t.Fatalf("invalid test goal: %v", err)
	}
	err = kvstore.UpdateList(context.Background(), repo, kvstore.KeyGoals, func(list []models.Goal) ([]models.Goal, error) {
		return append(list, *goal), nil
	})
	if err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// BlockTestPayee adds id, normalized, to the stored blocklist.
func BlockTestPayee(t *testing.T, repo *kvstore.Repository, id string) {
	t.Helper()

	err := kvstore.UpdateList(context.Background(), repo, kvstore.KeyBlockedMerchants, func(list []string) ([]string, error) {
		return append(list, models.NormalizePayee(id)), nil
	})
	if err != nil {
		t.Fatalf("failed to block test payee: %v", err)
	}
}
