package models

import (
	"fmt"
	"time"

	"github.com/hissterical/MindfulPay/internal/money"
)

// PaymentState is a state of the payment gate.
type PaymentState string

const (
	PaymentStateChecking         PaymentState = "checking"
	PaymentStateAllowed          PaymentState = "allowed"
	PaymentStateBlockedByVendor  PaymentState = "blocked_by_vendor"
	PaymentStateBlockedByLimit   PaymentState = "blocked_by_limit"
	PaymentStateEmergencyPrompt  PaymentState = "emergency_prompt"
	PaymentStateCancelled        PaymentState = "cancelled"
	PaymentStateOverrideApproved PaymentState = "override_approved"
	PaymentStateFailed           PaymentState = "failed"
)

var paymentTransitions = map[PaymentState][]PaymentState{
	PaymentStateChecking:        {PaymentStateAllowed, PaymentStateBlockedByVendor, PaymentStateBlockedByLimit, PaymentStateFailed},
	PaymentStateBlockedByVendor: {PaymentStateEmergencyPrompt, PaymentStateCancelled},
	PaymentStateBlockedByLimit:  {PaymentStateEmergencyPrompt, PaymentStateCancelled},
	PaymentStateEmergencyPrompt: {PaymentStateOverrideApproved, PaymentStateCancelled, PaymentStateFailed},
}

// CanTransition reports whether the gate may move from s to next.
func (s PaymentState) CanTransition(next PaymentState) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Blocked reports whether s is one of the blocked states.
func (s PaymentState) Blocked() bool {
	return s == PaymentStateBlockedByVendor || s == PaymentStateBlockedByLimit
}

// Terminal reports whether no further transition leaves s.
func (s PaymentState) Terminal() bool {
	return len(paymentTransitions[s]) == 0
}

// LimitScope names the limit that denied a payment.
type LimitScope string

const (
	LimitScopeDaily    LimitScope = "daily"
	LimitScopeMonthly  LimitScope = "monthly"
	LimitScopeCategory LimitScope = "category"
)

// Decision is the outcome of evaluating a prospective payment against the
// configured limits.
type Decision struct {
	Allowed  bool        `json:"allowed"`
	Scope    LimitScope  `json:"scope,omitempty"`
	Category string      `json:"category,omitempty"`
	Period   LimitPeriod `json:"period,omitempty"`
	Limit    int64       `json:"limit,omitempty"`
	Spent    int64       `json:"spent,omitempty"`
	Amount   int64       `json:"amount"`
}

// Allow returns an allowing decision for amount.
func Allow(amount int64) *Decision {
	return &Decision{Allowed: true, Amount: amount}
}

// Message describes the denial for display.
func (d Decision) Message() string {
	if d.Allowed {
		return ""
	}
	switch d.Scope {
	case LimitScopeDaily:
		return fmt.Sprintf("You have exceeded your daily spending limit of ₹%s", money.Format(d.Limit))
	case LimitScopeMonthly:
		return fmt.Sprintf("You have reached your monthly spending limit of ₹%s. Emergency override available.", money.Format(d.Limit))
	default:
		return fmt.Sprintf("You have reached your %s limit of ₹%s for %s. Emergency override available.", d.Period, money.Format(d.Limit), d.Category)
	}
}

// BlockReason explains why the gate stopped a payment.
type BlockReason string

const (
	BlockReasonVendor               BlockReason = "vendor_blocked"
	BlockReasonBlocklistUnavailable BlockReason = "blocklist_unavailable"
	BlockReasonLimit                BlockReason = "limit_exceeded"
)

// PaymentAttempt is one pass of a payment through the gate.
type PaymentAttempt struct {
	ID            string       `json:"id"`
	PayeeID       string       `json:"payee_id"`
	PayeeName     string       `json:"payee_name,omitempty"`
	Amount        int64        `json:"amount"`
	Category      string       `json:"category"`
	Note          string       `json:"note"`
	State         PaymentState `json:"state"`
	BlockReason   BlockReason  `json:"block_reason,omitempty"`
	Decision      *Decision    `json:"decision,omitempty"`
	Message       string       `json:"message,omitempty"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Error         string       `json:"error,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Transition moves the attempt to next, or reports false when the move is
// not part of the state machine.
func (p *PaymentAttempt) Transition(next PaymentState, at time.Time) bool {
	if !p.State.CanTransition(next) {
		return false
	}
	p.State = next
	p.UpdatedAt = at
	return true
}
