package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/pagination"
	"github.com/hissterical/MindfulPay/internal/services"
	"github.com/hissterical/MindfulPay/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock audit service ---

type auditEntry struct {
	action       string
	resourceType string
	resourceID   string
	changes      map[string]any
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
	listFn  func(ctx context.Context, limit int) ([]models.AuditLog, error)
}

func (m *mockAuditService) Log(_ context.Context, action, resourceType, resourceID, _ string, changes map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{action: action, resourceType: resourceType, resourceID: resourceID, changes: changes})
}

func (m *mockAuditService) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.action)
	}
	return out
}

// --- mock payment gate ---

type mockPaymentGate struct {
	submitFn          func(ctx context.Context, req services.PaymentRequest) (*models.PaymentAttempt, error)
	submitQRFn        func(ctx context.Context, req services.QRPaymentRequest) (*models.PaymentAttempt, error)
	requestOverrideFn func(ctx context.Context, id string) (*models.PaymentAttempt, error)
	confirmOverrideFn func(ctx context.Context, id string) (*models.PaymentAttempt, error)
	cancelFn          func(ctx context.Context, id string) (*models.PaymentAttempt, error)
	getFn             func(ctx context.Context, id string) (*models.PaymentAttempt, error)
}

func (m *mockPaymentGate) Submit(ctx context.Context, req services.PaymentRequest) (*models.PaymentAttempt, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, req)
	}
	return nil, nil
}

func (m *mockPaymentGate) SubmitQR(ctx context.Context, req services.QRPaymentRequest) (*models.PaymentAttempt, error) {
	if m.submitQRFn != nil {
		return m.submitQRFn(ctx, req)
	}
	return nil, nil
}

func (m *mockPaymentGate) RequestOverride(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	if m.requestOverrideFn != nil {
		return m.requestOverrideFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentGate) ConfirmOverride(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	if m.confirmOverrideFn != nil {
		return m.confirmOverrideFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentGate) Cancel(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentGate) Get(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

// --- mock ledger service ---

type mockLedgerService struct {
	appendFn func(ctx context.Context, in models.TransactionInput) (*models.Transaction, error)
	removeFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*models.Transaction, error)
	listFn   func(ctx context.Context, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	totalsFn func(ctx context.Context) (*services.Totals, error)
}

func (m *mockLedgerService) Append(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, in)
	}
	return nil, nil
}

func (m *mockLedgerService) Remove(ctx context.Context, id string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return nil
}

func (m *mockLedgerService) All(context.Context) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockLedgerService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockLedgerService) List(ctx context.Context, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, page)
	}
	return nil, nil
}

func (m *mockLedgerService) Totals(ctx context.Context) (*services.Totals, error) {
	if m.totalsFn != nil {
		return m.totalsFn(ctx)
	}
	return nil, nil
}

func (m *mockLedgerService) RecentExpenses(context.Context, int) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockLedgerService) DailyExpenses(context.Context, int) ([]services.DailyTotal, error) {
	return nil, nil
}

// --- mock limit service ---

type mockLimitService struct {
	evaluateFn       func(ctx context.Context, amount int64, category string) (*models.Decision, error)
	addLimitFn       func(ctx context.Context, category string, amount int64, period models.LimitPeriod) (*models.SpendingLimit, error)
	updateLimitFn    func(ctx context.Context, id string, amount int64) (*models.SpendingLimit, error)
	deleteLimitFn    func(ctx context.Context, id string) error
	listLimitsFn     func(ctx context.Context) ([]models.SpendingLimit, error)
	getSettingsFn    func(ctx context.Context) (*models.LimitSettings, error)
	updateSettingsFn func(ctx context.Context, settings models.LimitSettings) (*models.LimitSettings, error)
	progressFn       func(ctx context.Context) ([]services.LimitProgress, error)
}

func (m *mockLimitService) Evaluate(ctx context.Context, amount int64, category string) (*models.Decision, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, amount, category)
	}
	return models.Allow(amount), nil
}

func (m *mockLimitService) AddLimit(ctx context.Context, category string, amount int64, period models.LimitPeriod) (*models.SpendingLimit, error) {
	if m.addLimitFn != nil {
		return m.addLimitFn(ctx, category, amount, period)
	}
	return nil, nil
}

func (m *mockLimitService) UpdateLimit(ctx context.Context, id string, amount int64) (*models.SpendingLimit, error) {
	if m.updateLimitFn != nil {
		return m.updateLimitFn(ctx, id, amount)
	}
	return nil, nil
}

func (m *mockLimitService) DeleteLimit(ctx context.Context, id string) error {
	if m.deleteLimitFn != nil {
		return m.deleteLimitFn(ctx, id)
	}
	return nil
}

func (m *mockLimitService) ListLimits(ctx context.Context) ([]models.SpendingLimit, error) {
	if m.listLimitsFn != nil {
		return m.listLimitsFn(ctx)
	}
	return nil, nil
}

func (m *mockLimitService) GetSettings(ctx context.Context) (*models.LimitSettings, error) {
	if m.getSettingsFn != nil {
		return m.getSettingsFn(ctx)
	}
	return &models.LimitSettings{}, nil
}

func (m *mockLimitService) UpdateSettings(ctx context.Context, settings models.LimitSettings) (*models.LimitSettings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, settings)
	}
	return &settings, nil
}

func (m *mockLimitService) Progress(ctx context.Context) ([]services.LimitProgress, error) {
	if m.progressFn != nil {
		return m.progressFn(ctx)
	}
	return nil, nil
}

// --- mock goal service ---

type mockGoalService struct {
	addGoalFn    func(ctx context.Context, in models.GoalInput) (*models.Goal, error)
	getGoalFn    func(ctx context.Context, id string) (*models.Goal, error)
	contributeFn func(ctx context.Context, id string, amount int64) (*models.Goal, error)
	deleteGoalFn func(ctx context.Context, id string) error
	listGoalsFn  func(ctx context.Context) ([]models.Goal, error)
}

func (m *mockGoalService) AddGoal(ctx context.Context, in models.GoalInput) (*models.Goal, error) {
	if m.addGoalFn != nil {
		return m.addGoalFn(ctx, in)
	}
	return nil, nil
}

func (m *mockGoalService) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	if m.getGoalFn != nil {
		return m.getGoalFn(ctx, id)
	}
	return nil, nil
}

func (m *mockGoalService) Contribute(ctx context.Context, id string, amount int64) (*models.Goal, error) {
	if m.contributeFn != nil {
		return m.contributeFn(ctx, id, amount)
	}
	return nil, nil
}

func (m *mockGoalService) DeleteGoal(ctx context.Context, id string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(ctx, id)
	}
	return nil
}

func (m *mockGoalService) ListGoals(ctx context.Context) ([]models.Goal, error) {
	if m.listGoalsFn != nil {
		return m.listGoalsFn(ctx)
	}
	return nil, nil
}

// --- mock blocklist service ---

type mockBlocklistService struct {
	isBlockedFn func(ctx context.Context, payeeID string) (bool, error)
	addFn       func(ctx context.Context, payeeID string) error
	removeFn    func(ctx context.Context, payeeID string) error
	listFn      func(ctx context.Context) ([]string, error)
}

func (m *mockBlocklistService) IsBlocked(ctx context.Context, payeeID string) (bool, error) {
	if m.isBlockedFn != nil {
		return m.isBlockedFn(ctx, payeeID)
	}
	return false, nil
}

func (m *mockBlocklistService) Add(ctx context.Context, payeeID string) error {
	if m.addFn != nil {
		return m.addFn(ctx, payeeID)
	}
	return nil
}

func (m *mockBlocklistService) Remove(ctx context.Context, payeeID string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, payeeID)
	}
	return nil
}

func (m *mockBlocklistService) List(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []string{}, nil
}

// --- mock overview and data services ---

type mockOverviewService struct {
	overviewFn func(ctx context.Context) (*services.Overview, error)
}

func (m *mockOverviewService) Overview(ctx context.Context) (*services.Overview, error) {
	if m.overviewFn != nil {
		return m.overviewFn(ctx)
	}
	return &services.Overview{}, nil
}

type mockDataService struct {
	seedFn     func(ctx context.Context) error
	clearAllFn func(ctx context.Context) error
}

func (m *mockDataService) Seed(ctx context.Context) error {
	if m.seedFn != nil {
		return m.seedFn(ctx)
	}
	return nil
}

func (m *mockDataService) ClearAll(ctx context.Context) error {
	if m.clearAllFn != nil {
		return m.clearAllFn(ctx)
	}
	return nil
}
