package services

import (
	"errors"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/logger"
	"github.com/hissterical/MindfulPay/internal/metrics"
)

// storageFailure logs a persistence failure and converts it into
// ErrStorage. AppErrors raised inside an update callback pass through.
func storageFailure(m *metrics.Metrics, component, msg string, err error, keysAndValues ...any) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	m.IncrStorageError(component)
	logger.Get().Errorw(msg, append([]any{"component", component, "error", err}, keysAndValues...)...)
	return apperrors.Wrap(apperrors.ErrStorage, err)
}
