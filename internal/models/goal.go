package models

import (
	"strings"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/money"
	"github.com/hissterical/MindfulPay/internal/uuid"
)

// Goal is a savings target that grows through contributions.
type Goal struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TargetAmount  int64  `json:"target_amount"`
	CurrentAmount int64  `json:"current_amount"`
	Category      string `json:"category"`
	Deadline      *Date  `json:"deadline,omitempty"`
}

// GoalInput carries the caller-supplied fields of a new goal.
type GoalInput struct {
	Name          string
	TargetAmount  int64
	CurrentAmount int64
	Category      string
	Deadline      *Date
}

// NewGoal validates in and returns a goal with a fresh id.
func NewGoal(in GoalInput) (*Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if in.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "target amount must be greater than zero")
	}
	if in.CurrentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "current amount cannot be negative")
	}
	if !IsGoalCategory(in.Category) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown goal category: "+in.Category)
	}
	if in.Deadline != nil && in.Deadline.IsZero() {
		in.Deadline = nil
	}

	return &Goal{
		ID:            uuid.New(),
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Category:      in.Category,
		Deadline:      in.Deadline,
	}, nil
}

// Contribute adds a positive amount to the goal.
func (g *Goal) Contribute(amount int64) error {
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "contribution must be greater than zero")
	}
	g.CurrentAmount = money.Sum(g.CurrentAmount, amount)
	return nil
}

// Progress returns the completed percentage, which may exceed 100.
func (g Goal) Progress() float64 {
	return money.Percentage(g.CurrentAmount, g.TargetAmount)
}

// Remaining returns how much is left to reach the target, never negative.
func (g Goal) Remaining() int64 {
	if g.CurrentAmount >= g.TargetAmount {
		return 0
	}
	return g.TargetAmount - g.CurrentAmount
}
