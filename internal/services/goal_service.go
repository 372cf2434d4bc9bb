package services

import (
	"context"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
)

// goalService handles savings goals.
type goalService struct {
	repo    *kvstore.Repository
	metrics *metrics.Metrics
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(repo *kvstore.Repository, m *metrics.Metrics) GoalServicer {
	return &goalService{repo: repo, metrics: m}
}

// AddGoal validates in and stores a new goal.
func (s *goalService) AddGoal(ctx context.Context, in models.GoalInput) (*models.Goal, error) {
	goal, err := models.NewGoal(in)
	if err != nil {
		return nil, err
	}

	err = kvstore.UpdateList(ctx, s.repo, kvstore.KeyGoals, func(list []models.Goal) ([]models.Goal, error) {
		return append(list, *goal), nil
	})
	if err != nil {
		return nil, storageFailure(s.metrics, "goals", "failed to add goal", err, "name", goal.Name)
	}
	return goal, nil
}

// GetGoal returns a goal by id.
func (s *goalService) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	list, err := s.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, apperrors.ErrGoalNotFound
}

// Contribute adds amount to a goal's current amount.
func (s *goalService) Contribute(ctx context.Context, id string, amount int64) (*models.Goal, error) {
	var updated models.Goal
	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeyGoals, func(list []models.Goal) ([]models.Goal, error) {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if err := list[i].Contribute(amount); err != nil {
				return nil, err
			}
			updated = list[i]
			return list, nil
		}
		return nil, apperrors.ErrGoalNotFound
	})
	if err != nil {
		return nil, storageFailure(s.metrics, "goals", "failed to contribute to goal", err, "goal_id", id)
	}
	return &updated, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(ctx context.Context, id string) error {
	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeyGoals, func(list []models.Goal) ([]models.Goal, error) {
		for i := range list {
			if list[i].ID == id {
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, apperrors.ErrGoalNotFound
	})
	if err != nil {
		return storageFailure(s.metrics, "goals", "failed to delete goal", err, "goal_id", id)
	}
	return nil
}

// ListGoals returns all goals in creation order.
func (s *goalService) ListGoals(ctx context.Context) ([]models.Goal, error) {
	list, err := kvstore.LoadList[models.Goal](ctx, s.repo, kvstore.KeyGoals)
	if err != nil {
		return nil, storageFailure(s.metrics, "goals", "failed to load goals", err)
	}
	return list, nil
}
