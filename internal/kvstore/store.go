// Package kvstore is the persistence boundary of MindfulPay: an opaque
// string-keyed store of JSON documents plus a repository that serializes
// read-modify-write cycles per key.
package kvstore

import "context"

// Keys of the logical records.
const (
	KeyTransactions     = "mindfulpay_transactions"
	KeyGoals            = "mindfulpay_goals"
	KeySpendingLimits   = "mindfulpay_spending_limits"
	KeyBlockedMerchants = "mindfulpay_blocked_merchants"
	KeyDailySpending    = "mindfulpay_daily_spending"
	KeyLimitSettings    = "mindfulpay_limit_settings"
	KeyPaymentAttempts  = "mindfulpay_payment_attempts"
	KeyAuditLog         = "mindfulpay_audit_log"
)

// AllKeys lists every key written by the application.
var AllKeys = []string{
	KeyTransactions,
	KeyGoals,
	KeySpendingLimits,
	KeyBlockedMerchants,
	KeyDailySpending,
	KeyLimitSettings,
	KeyPaymentAttempts,
	KeyAuditLog,
}

// Store is an asynchronous key-value store. Read reports found=false for a
// missing key; that is not an error.
type Store interface {
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
