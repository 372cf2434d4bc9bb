package services

import (
	"context"
	"testing"

	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/testutil"
)

func TestAddGoal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		env := newTestEnv(t)
		deadline := testutil.Today.AddDays(90)

		goal, err := env.goals.AddGoal(context.Background(), models.GoalInput{
			Name:         "Emergency Fund",
			TargetAmount: rupees(100000),
			Category:     "Emergency Fund",
			Deadline:     &deadline,
		})
		testutil.AssertNoError(t, err)

		if goal.ID == "" {
			t.Fatal("expected non-empty goal ID")
		}
		got, err := env.goals.GetGoal(context.Background(), goal.ID)
		testutil.AssertNoError(t, err)
		if got.Name != "Emergency Fund" || *got.Deadline != deadline {
			t.Errorf("unexpected stored goal %+v", got)
		}
	})

	t.Run("invalid_category", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.goals.AddGoal(context.Background(), models.GoalInput{
			Name:         "Lunch",
			TargetAmount: rupees(100),
			Category:     "Food & Dining",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestContribute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	goal := testutil.CreateTestGoal(t, env.repo, rupees(1000), rupees(250))

	updated, err := env.goals.Contribute(ctx, goal.ID, rupees(250))
	testutil.AssertNoError(t, err)
	if updated.CurrentAmount != rupees(500) {
		t.Errorf("expected current amount %d, got %d", rupees(500), updated.CurrentAmount)
	}
	if updated.Progress() != 50 {
		t.Errorf("expected 50%% progress, got %v", updated.Progress())
	}

	_, err = env.goals.Contribute(ctx, goal.ID, 0)
	testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	_, err = env.goals.Contribute(ctx, "missing", rupees(1))
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

	stored, err := env.goals.GetGoal(ctx, goal.ID)
	testutil.AssertNoError(t, err)
	if stored.CurrentAmount != rupees(500) {
		t.Errorf("expected failed contributions to change nothing, got %d", stored.CurrentAmount)
	}
}

func TestDeleteGoal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	goal := testutil.CreateTestGoal(t, env.repo, rupees(1000), 0)

	testutil.AssertNoError(t, env.goals.DeleteGoal(ctx, goal.ID))
	testutil.AssertAppError(t, env.goals.DeleteGoal(ctx, goal.ID), "GOAL_NOT_FOUND")

	goals, err := env.goals.ListGoals(ctx)
	testutil.AssertNoError(t, err)
	if len(goals) != 0 {
		t.Errorf("expected no goals, got %v", goals)
	}
}
