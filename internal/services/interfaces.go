package services

import (
	"context"

	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/pagination"
)

// BlocklistServicer defines the contract for the vendor blocklist.
type BlocklistServicer interface {
	// IsBlocked reports whether payeeID is blocked. On a storage failure it
	// returns false together with the error; the caller decides how to fail.
	IsBlocked(ctx context.Context, payeeID string) (bool, error)
	Add(ctx context.Context, payeeID string) error
	Remove(ctx context.Context, payeeID string) error
	List(ctx context.Context) ([]string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type     *models.TransactionType
	Category string
	FromDate *models.Date
	ToDate   *models.Date
}

// Totals are ledger aggregates derived from all transactions.
type Totals struct {
	Income     int64            `json:"income"`
	Expense    int64            `json:"expense"`
	Net        int64            `json:"net"`
	ByCategory map[string]int64 `json:"by_category"`
}

// DailyTotal is the expense total of one calendar day.
type DailyTotal struct {
	Date   models.Date `json:"date"`
	Amount int64       `json:"amount"`
}

// LedgerServicer defines the contract for the spending ledger.
type LedgerServicer interface {
	Append(ctx context.Context, in models.TransactionInput) (*models.Transaction, error)
	Remove(ctx context.Context, id string) error
	All(ctx context.Context) ([]models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	Totals(ctx context.Context) (*Totals, error)
	RecentExpenses(ctx context.Context, n int) ([]models.Transaction, error)
	DailyExpenses(ctx context.Context, days int) ([]DailyTotal, error)
}

// LimitProgress contains spending vs limit data for a limit's current window.
type LimitProgress struct {
	LimitID    string             `json:"limit_id,omitempty"`
	Scope      models.LimitScope  `json:"scope"`
	Category   string             `json:"category,omitempty"`
	Period     models.LimitPeriod `json:"period"`
	From       models.Date        `json:"from"`
	To         models.Date        `json:"to"`
	Limit      int64              `json:"limit"`
	Spent      int64              `json:"spent"`
	Remaining  int64              `json:"remaining"`
	Percentage float64            `json:"percentage"`
}

// LimitServicer defines the contract for the limit policy.
type LimitServicer interface {
	Evaluate(ctx context.Context, amount int64, category string) (*models.Decision, error)
	AddLimit(ctx context.Context, category string, amount int64, period models.LimitPeriod) (*models.SpendingLimit, error)
	UpdateLimit(ctx context.Context, id string, amount int64) (*models.SpendingLimit, error)
	DeleteLimit(ctx context.Context, id string) error
	ListLimits(ctx context.Context) ([]models.SpendingLimit, error)
	GetSettings(ctx context.Context) (*models.LimitSettings, error)
	UpdateSettings(ctx context.Context, settings models.LimitSettings) (*models.LimitSettings, error)
	Progress(ctx context.Context) ([]LimitProgress, error)
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	AddGoal(ctx context.Context, in models.GoalInput) (*models.Goal, error)
	GetGoal(ctx context.Context, id string) (*models.Goal, error)
	Contribute(ctx context.Context, id string, amount int64) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
	ListGoals(ctx context.Context) ([]models.Goal, error)
}

// DailyCounterServicer defines the contract for the rolling counter of
// amounts handed to the UPI app today.
type DailyCounterServicer interface {
	Today(ctx context.Context) (int64, error)
	Add(ctx context.Context, amount int64) error
}

// PaymentRequest is a payment entered by the user. Amount is the decimal
// rupee string as typed.
type PaymentRequest struct {
	PayeeID   string
	PayeeName string
	Amount    string
	Category  string
	Note      string
}

// QRPaymentRequest is a payment started from a scanned UPI QR code. Amount
// is required only when the code carries none.
type QRPaymentRequest struct {
	Code     string
	Amount   string
	Category string
	Note     string
}

// PaymentGateServicer defines the contract for the payment gate.
type PaymentGateServicer interface {
	Submit(ctx context.Context, req PaymentRequest) (*models.PaymentAttempt, error)
	SubmitQR(ctx context.Context, req QRPaymentRequest) (*models.PaymentAttempt, error)
	RequestOverride(ctx context.Context, id string) (*models.PaymentAttempt, error)
	ConfirmOverride(ctx context.Context, id string) (*models.PaymentAttempt, error)
	Cancel(ctx context.Context, id string) (*models.PaymentAttempt, error)
	Get(ctx context.Context, id string) (*models.PaymentAttempt, error)
}

// GoalSummary is a goal with its derived progress.
type GoalSummary struct {
	models.Goal
	Progress  float64 `json:"progress"`
	Remaining int64   `json:"remaining"`
}

// Overview contains the home screen aggregates.
type Overview struct {
	Totals          Totals               `json:"totals"`
	LastSevenDays   []DailyTotal         `json:"last_seven_days"`
	RecentExpenses  []models.Transaction `json:"recent_expenses"`
	TopGoals        []GoalSummary        `json:"top_goals"`
	DispatchedToday int64                `json:"dispatched_today"`
}

// OverviewServicer defines the contract for the home screen summary.
type OverviewServicer interface {
	Overview(ctx context.Context) (*Overview, error)
}

// DataServicer defines the contract for bulk data maintenance.
type DataServicer interface {
	Seed(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, action, resourceType, resourceID, ipAddress string, changes map[string]any)
	List(ctx context.Context, limit int) ([]models.AuditLog, error)
}
