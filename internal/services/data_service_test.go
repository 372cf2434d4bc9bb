package services

import (
	"context"
	"testing"

	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/testutil"
)

func TestSeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateTestExpense(t, env.repo, "Shopping", rupees(1), testutil.Today)

	testutil.AssertNoError(t, env.data.Seed(ctx))

	txs, err := env.ledger.All(ctx)
	testutil.AssertNoError(t, err)
	if len(txs) != len(seedTransactions) {
		t.Errorf("expected %d seeded transactions, got %d", len(seedTransactions), len(txs))
	}
	for _, tx := range txs {
		if tx.Date.After(testutil.Today) {
			t.Errorf("expected no future-dated transactions, got %s", tx.Date)
		}
		if !tx.Date.SameMonth(testutil.Today) {
			t.Errorf("expected transactions in the current month, got %s", tx.Date)
		}
	}

	goals, err := env.goals.ListGoals(ctx)
	testutil.AssertNoError(t, err)
	if len(goals) != len(seedGoals) {
		t.Errorf("expected %d goals, got %d", len(seedGoals), len(goals))
	}
	for _, g := range goals {
		if g.Deadline == nil || !g.Deadline.After(testutil.Today) {
			t.Errorf("expected a future deadline for %s", g.Name)
		}
	}

	limits, err := env.limits.ListLimits(ctx)
	testutil.AssertNoError(t, err)
	if len(limits) != len(seedLimits) {
		t.Errorf("expected %d limits, got %d", len(seedLimits), len(limits))
	}

	blocked, err := env.blocklist.IsBlocked(ctx, "casino@upi")
	testutil.AssertNoError(t, err)
	if !blocked {
		t.Error("expected casino@upi to be blocked after seeding")
	}
}

func TestClearAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.AssertNoError(t, env.data.Seed(ctx))
	testutil.AssertNoError(t, env.counter.Add(ctx, rupees(10)))

	testutil.AssertNoError(t, env.data.ClearAll(ctx))

	for _, key := range kvstore.AllKeys {
		if _, found, _ := env.repo.Read(ctx, key); found {
			t.Errorf("expected %s to be removed", key)
		}
	}
	txs, err := env.ledger.All(ctx)
	testutil.AssertNoError(t, err)
	if len(txs) != 0 {
		t.Errorf("expected empty ledger, got %d", len(txs))
	}
}
