package testutil

import (
	"errors"
	"testing"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/models"
)

// AssertAppError fails unless err unwraps to an *AppError carrying code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()
	appErr := requireAppError(t, err, code)
	if appErr.Code != code {
		t.Errorf("error code = %q, want %q (message: %s)", appErr.Code, code, appErr.Message)
	}
}

// AssertStorageFailure fails unless err is a STORAGE_ERROR that still carries
// the underlying store error.
func AssertStorageFailure(t *testing.T, err error) {
	t.Helper()
	appErr := requireAppError(t, err, apperrors.ErrStorage.Code)
	if appErr.Code != apperrors.ErrStorage.Code {
		t.Fatalf("error code = %q, want %q", appErr.Code, apperrors.ErrStorage.Code)
	}
	if appErr.Internal == nil {
		t.Errorf("storage error lost its cause: %v", err)
	}
}

// AssertPaymentState fails unless the attempt exists and is in want.
func AssertPaymentState(t *testing.T, attempt *models.PaymentAttempt, want models.PaymentState) {
	t.Helper()
	if attempt == nil {
		t.Fatalf("payment attempt is nil, want state %q", want)
	}
	if attempt.State != want {
		t.Fatalf("payment %s state = %q, want %q", attempt.ID, attempt.State, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requireAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}
