package services

import (
	"context"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
)

// blocklistService keeps the set of blocked payees.
type blocklistService struct {
	repo    *kvstore.Repository
	metrics *metrics.Metrics
}

// NewBlocklistService creates a new BlocklistServicer.
func NewBlocklistService(repo *kvstore.Repository, m *metrics.Metrics) BlocklistServicer {
	return &blocklistService{repo: repo, metrics: m}
}

// load returns the stored list, writing an empty one on first access.
func (s *blocklistService) load(ctx context.Context) ([]string, error) {
	_, found, err := s.repo.Read(ctx, kvstore.KeyBlockedMerchants)
	if err != nil {
		return nil, err
	}
	if !found {
		err := kvstore.UpdateList(ctx, s.repo, kvstore.KeyBlockedMerchants, func(list []string) ([]string, error) {
			return list, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return kvstore.LoadList[string](ctx, s.repo, kvstore.KeyBlockedMerchants)
}

// IsBlocked reports whether payeeID is on the blocklist.
func (s *blocklistService) IsBlocked(ctx context.Context, payeeID string) (bool, error) {
	id := models.NormalizePayee(payeeID)
	if id == "" {
		return false, nil
	}

	list, err := s.load(ctx)
	if err != nil {
		return false, storageFailure(s.metrics, "blocklist", "failed to read blocklist", err, "payee_id", id)
	}
	for _, v := range list {
		if v == id {
			return true, nil
		}
	}
	return false, nil
}

// Add blocks payeeID. Adding an already blocked payee changes nothing.
func (s *blocklistService) Add(ctx context.Context, payeeID string) error {
	id := models.NormalizePayee(payeeID)
	if id == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidPayee, "payee id is required")
	}

	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeyBlockedMerchants, func(list []string) ([]string, error) {
		for _, v := range list {
			if v == id {
				return list, nil
			}
		}
		return append(list, id), nil
	})
	if err != nil {
		return storageFailure(s.metrics, "blocklist", "failed to add blocked payee", err, "payee_id", id)
	}
	return nil
}

// Remove unblocks payeeID.
func (s *blocklistService) Remove(ctx context.Context, payeeID string) error {
	id := models.NormalizePayee(payeeID)
	if id == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidPayee, "payee id is required")
	}

	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeyBlockedMerchants, func(list []string) ([]string, error) {
		out := list[:0]
		for _, v := range list {
			if v != id {
				out = append(out, v)
			}
		}
		return out, nil
	})
	if err != nil {
		return storageFailure(s.metrics, "blocklist", "failed to remove blocked payee", err, "payee_id", id)
	}
	return nil
}

// List returns the blocked payees in the order they were added.
func (s *blocklistService) List(ctx context.Context) ([]string, error) {
	list, err := s.load(ctx)
	if err != nil {
		return nil, storageFailure(s.metrics, "blocklist", "failed to read blocklist", err)
	}
	return list, nil
}
