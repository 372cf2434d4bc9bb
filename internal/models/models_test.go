package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
)

func TestPaymentState_Transitions(t *testing.T) {
	tests := []struct {
		from, to PaymentState
		want     bool
	}{
		{PaymentStateChecking, PaymentStateAllowed, true},
		{PaymentStateChecking, PaymentStateBlockedByVendor, true},
		{PaymentStateChecking, PaymentStateEmergencyPrompt, false},
		{PaymentStateBlockedByLimit, PaymentStateEmergencyPrompt, true},
		{PaymentStateBlockedByVendor, PaymentStateOverrideApproved, false},
		{PaymentStateEmergencyPrompt, PaymentStateOverrideApproved, true},
		{PaymentStateEmergencyPrompt, PaymentStateCancelled, true},
		{PaymentStateAllowed, PaymentStateEmergencyPrompt, false},
		{PaymentStateCancelled, PaymentStateEmergencyPrompt, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	for _, s := range []PaymentState{PaymentStateAllowed, PaymentStateCancelled, PaymentStateOverrideApproved, PaymentStateFailed} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	if PaymentStateEmergencyPrompt.Terminal() {
		t.Error("emergency_prompt must not be terminal")
	}
}

func TestPaymentAttempt_Transition(t *testing.T) {
	at := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)
	p := &PaymentAttempt{State: PaymentStateBlockedByLimit}

	if p.Transition(PaymentStateAllowed, at) {
		t.Fatal("blocked payment must not become allowed")
	}
	if p.State != PaymentStateBlockedByLimit {
		t.Errorf("state changed on a rejected transition: %s", p.State)
	}
	if !p.Transition(PaymentStateEmergencyPrompt, at) {
		t.Fatal("expected transition to emergency_prompt")
	}
	if !p.UpdatedAt.Equal(at) {
		t.Errorf("expected UpdatedAt %v, got %v", at, p.UpdatedAt)
	}
}

func TestPeriodWindow(t *testing.T) {
	thursday := NewDate(2024, time.March, 14)

	tests := []struct {
		period   LimitPeriod
		from, to Date
	}{
		{LimitPeriodDaily, thursday, thursday},
		{LimitPeriodWeekly, NewDate(2024, time.March, 11), NewDate(2024, time.March, 17)},
		{LimitPeriodMonthly, NewDate(2024, time.March, 1), NewDate(2024, time.March, 31)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			w := PeriodWindow(tt.period, thursday)
			if w.From != tt.from || w.To != tt.to {
				t.Errorf("expected %s..%s, got %s..%s", tt.from, tt.to, w.From, w.To)
			}
		})
	}

	t.Run("week_starting_on_sunday_belongs_to_the_previous_monday", func(t *testing.T) {
		w := PeriodWindow(LimitPeriodWeekly, NewDate(2024, time.March, 17))
		if w.From != NewDate(2024, time.March, 11) {
			t.Errorf("expected 2024-03-11, got %s", w.From)
		}
	})

	t.Run("leap_february", func(t *testing.T) {
		w := PeriodWindow(LimitPeriodMonthly, NewDate(2024, time.February, 10))
		if w.To != NewDate(2024, time.February, 29) {
			t.Errorf("expected 2024-02-29, got %s", w.To)
		}
	})
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.January, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-01-05"` {
		t.Errorf("unexpected encoding %s", b)
	}

	var got Date
	if err := json.Unmarshal([]byte(`"2024-01-05"`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != d {
		t.Errorf("expected %s, got %s", d, got)
	}

	if err := json.Unmarshal([]byte(`"05/01/2024"`), &got); err == nil {
		t.Error("expected an error for a non ISO date")
	}
}

func TestDecision_Message(t *testing.T) {
	tests := []struct {
		name     string
		decision Decision
		want     string
	}{
		{"allowed", Decision{Allowed: true}, ""},
		{"daily", Decision{Scope: LimitScopeDaily, Limit: 500000}, "You have exceeded your daily spending limit of ₹5000.00"},
		{"monthly", Decision{Scope: LimitScopeMonthly, Limit: 10000000}, "You have reached your monthly spending limit of ₹100000.00. Emergency override available."},
		{"category", Decision{Scope: LimitScopeCategory, Period: LimitPeriodWeekly, Category: "Shopping", Limit: 150000}, "You have reached your weekly limit of ₹1500.00 for Shopping. Emergency override available."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decision.Message(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolveLimit(t *testing.T) {
	limits := []SpendingLimit{
		{ID: "a", Category: "Shopping", Period: LimitPeriodMonthly, Amount: 300000},
		{ID: "b", Category: "Shopping", Period: LimitPeriodWeekly, Amount: 50000},
		{ID: "c", Category: "Shopping", Period: LimitPeriodMonthly, Amount: 100000},
		{ID: "d", Category: "Shopping", Period: LimitPeriodMonthly, Amount: 200000},
	}

	tests := []struct {
		policy DuplicateLimitPolicy
		want   string
	}{
		{DuplicateReject, "a"},
		{DuplicateFirst, "a"},
		{DuplicateMostRecent, "d"},
		{DuplicateMostRestrictive, "c"},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			got := ResolveLimit(limits, "Shopping", LimitPeriodMonthly, tt.policy)
			if got == nil || got.ID != tt.want {
				t.Errorf("expected limit %s, got %+v", tt.want, got)
			}
		})
	}

	if got := ResolveLimit(limits, "Travel", LimitPeriodMonthly, DuplicateReject); got != nil {
		t.Errorf("expected no limit for Travel, got %+v", got)
	}
}

func TestNewTransaction(t *testing.T) {
	date := NewDate(2024, time.March, 14)

	t.Run("valid_expense", func(t *testing.T) {
		tx, err := NewTransaction(TransactionInput{Amount: 100, Type: TransactionTypeExpense, Category: " Shopping ", Date: date, Tags: []string{TagEmergency}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.ID == "" || tx.Category != "Shopping" || !tx.HasTag(TagEmergency) || !tx.IsExpense() {
			t.Errorf("unexpected transaction %+v", tx)
		}
	})

	tests := []struct {
		name string
		in   TransactionInput
		want *apperrors.AppError
	}{
		{"zero_amount", TransactionInput{Amount: 0, Type: TransactionTypeExpense, Category: "Shopping", Date: date}, apperrors.ErrInvalidAmount},
		{"missing_date", TransactionInput{Amount: 1, Type: TransactionTypeExpense, Category: "Shopping"}, apperrors.ErrInvalidInput},
		{"income_category_on_expense", TransactionInput{Amount: 1, Type: TransactionTypeExpense, Category: "Salary", Date: date}, apperrors.ErrInvalidInput},
		{"unknown_type", TransactionInput{Amount: 1, Type: "transfer", Category: "Shopping", Date: date}, apperrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %s, got %v", tt.want.Code, err)
			}
		})
	}
}

func TestGoal(t *testing.T) {
	g, err := NewGoal(GoalInput{Name: "Laptop", TargetAmount: 8000000, CurrentAmount: 2000000, Category: "Electronics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Progress() != 25 || g.Remaining() != 6000000 {
		t.Errorf("unexpected progress %v remaining %d", g.Progress(), g.Remaining())
	}

	if err := g.Contribute(0); !errors.Is(err, apperrors.ErrInvalidAmount) {
		t.Errorf("expected INVALID_AMOUNT, got %v", err)
	}
	if err := g.Contribute(7000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Remaining() != 0 || g.Progress() != 112.5 {
		t.Errorf("unexpected overfunded goal: progress %v remaining %d", g.Progress(), g.Remaining())
	}

	if _, err := NewGoal(GoalInput{Name: "x", TargetAmount: 100, Category: "Shopping"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected INVALID_INPUT for a non-goal category, got %v", err)
	}
}
