package services

import (
	"context"
	"time"

	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/logger"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/uuid"
)

// maxAuditEntries bounds the stored audit log; the oldest entries go first.
const maxAuditEntries = 1000

// auditService handles audit log recording.
type auditService struct {
	repo  *kvstore.Repository
	clock Clock
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(repo *kvstore.Repository, clock Clock) AuditServicer {
	return &auditService{repo: repo, clock: clock}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := models.AuditLog{
		ID:           uuid.New(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changes,
		CreatedAt:    s.clock.Now().UTC().Truncate(time.Millisecond),
	}

	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeyAuditLog, func(list []models.AuditLog) ([]models.AuditLog, error) {
		list = append(list, entry)
		if len(list) > maxAuditEntries {
			list = list[len(list)-maxAuditEntries:]
		}
		return list, nil
	})
	if err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// List returns up to limit entries, newest first.
func (s *auditService) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	list, err := kvstore.LoadList[models.AuditLog](ctx, s.repo, kvstore.KeyAuditLog)
	if err != nil {
		return nil, storageFailure(nil, "audit", "failed to load audit log", err)
	}
	out := make([]models.AuditLog, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
