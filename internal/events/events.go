// Package events publishes payment gate events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hissterical/MindfulPay/internal/models"
)

// Event types, also used as routing keys.
const (
	TypePaymentAllowed    = "payment.allowed"
	TypePaymentBlocked    = "payment.blocked"
	TypeOverrideRequested = "payment.override_requested"
	TypeOverrideApproved  = "payment.override_approved"
	TypePaymentCancelled  = "payment.cancelled"
	TypePaymentFailed     = "payment.failed"
)

// Event describes one state change of a payment attempt.
type Event struct {
	Type       string    `json:"type"`
	PaymentID  string    `json:"payment_id"`
	PayeeID    string    `json:"payee_id"`
	Amount     int64     `json:"amount"`
	State      string    `json:"state"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromAttempt builds the event for attempt's current state.
func FromAttempt(attempt *models.PaymentAttempt, at time.Time) Event {
	return Event{
		Type:       typeFor(attempt.State),
		PaymentID:  attempt.ID,
		PayeeID:    attempt.PayeeID,
		Amount:     attempt.Amount,
		State:      string(attempt.State),
		Reason:     string(attempt.BlockReason),
		OccurredAt: at,
	}
}

func typeFor(state models.PaymentState) string {
	switch state {
	case models.PaymentStateAllowed:
		return TypePaymentAllowed
	case models.PaymentStateBlockedByVendor, models.PaymentStateBlockedByLimit:
		return TypePaymentBlocked
	case models.PaymentStateEmergencyPrompt:
		return TypeOverrideRequested
	case models.PaymentStateOverrideApproved:
		return TypeOverrideApproved
	case models.PaymentStateCancelled:
		return TypePaymentCancelled
	default:
		return TypePaymentFailed
	}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
