package services

import (
	"context"

	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
)

// dailyCounter tracks how much was handed to the UPI app today.
type dailyCounter struct {
	repo    *kvstore.Repository
	clock   Clock
	metrics *metrics.Metrics
}

// NewDailyCounter creates a new DailyCounterServicer.
func NewDailyCounter(repo *kvstore.Repository, clock Clock, m *metrics.Metrics) DailyCounterServicer {
	return &dailyCounter{repo: repo, clock: clock, metrics: m}
}

// Today returns today's dispatched amount. A counter stored for another day
// reads as zero.
func (s *dailyCounter) Today(ctx context.Context) (int64, error) {
	counter, _, err := kvstore.LoadValue[models.DailySpending](ctx, s.repo, kvstore.KeyDailySpending)
	if err != nil {
		return 0, storageFailure(s.metrics, "daily_counter", "failed to read daily spending", err)
	}
	return counter.On(s.clock.Today()), nil
}

// Add increases today's counter, starting over when the stored date is not
// today.
func (s *dailyCounter) Add(ctx context.Context, amount int64) error {
	today := s.clock.Today()
	err := kvstore.UpdateValue(ctx, s.repo, kvstore.KeyDailySpending, func(counter models.DailySpending) (models.DailySpending, error) {
		return models.DailySpending{Date: today, Amount: counter.On(today) + amount}, nil
	})
	if err != nil {
		return storageFailure(s.metrics, "daily_counter", "failed to update daily spending", err, "amount", amount)
	}
	return nil
}
