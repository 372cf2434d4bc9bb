package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/events"
	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/logger"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
	"github.com/hissterical/MindfulPay/internal/upi"
	"github.com/hissterical/MindfulPay/internal/uuid"
)

var gateTracer = otel.Tracer("mindfulpay/services/payment_gate")

// PaymentGateConfig holds the gate policy switches.
type PaymentGateConfig struct {
	// FailMode decides what happens when the blocklist cannot be read.
	FailMode models.BlocklistFailMode
	// RecheckBlocklistOnOverride refuses overrides for payees that are
	// still blocked at confirmation time.
	RecheckBlocklistOnOverride bool
	// UPIScheme is the URI scheme accepted from QR codes.
	UPIScheme string
	// Retention is how long finished attempts are kept. Zero keeps them.
	Retention time.Duration
}

// PaymentGateDeps are the collaborators of the payment gate.
type PaymentGateDeps struct {
	Repo       *kvstore.Repository
	Blocklist  BlocklistServicer
	Limits     LimitServicer
	Ledger     LedgerServicer
	Counter    DailyCounterServicer
	Dispatcher upi.Dispatcher
	Publisher  events.Publisher
	Metrics    *metrics.Metrics
	Clock      Clock
}

// paymentGate runs a payment through the blocklist and the limit policy
// before it is handed to the UPI app, and owns the emergency override.
type paymentGate struct {
	PaymentGateDeps
	cfg   PaymentGateConfig
	locks sync.Map

	// spendMu is held from limit evaluation until the allowed payment is in
	// the ledger, so concurrent submits see each other's spending.
	spendMu sync.Mutex
}

// NewPaymentGate creates a new PaymentGateServicer.
func NewPaymentGate(deps PaymentGateDeps, cfg PaymentGateConfig) PaymentGateServicer {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if !cfg.FailMode.Valid() {
		cfg.FailMode = models.FailOpen
	}
	if cfg.UPIScheme == "" {
		cfg.UPIScheme = "upi"
	}
	return &paymentGate{PaymentGateDeps: deps, cfg: cfg}
}

// Submit validates req and runs it through the gate. A blocked payment is
// not an error: the returned attempt carries the blocked state and the
// decision.
func (g *paymentGate) Submit(ctx context.Context, req PaymentRequest) (*models.PaymentAttempt, error) {
	ctx, span := gateTracer.Start(ctx, "PaymentGate.Submit")
	defer span.End()

	payee := strings.TrimSpace(req.PayeeID)
	if !models.ValidPayee(payee) {
		return nil, apperrors.ErrInvalidPayee
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return nil, apperrors.ErrInvalidAmount
	}
	category, err := paymentCategory(req.Category)
	if err != nil {
		return nil, err
	}

	attempt := g.newAttempt(payee, strings.TrimSpace(req.PayeeName), amount, category, strings.TrimSpace(req.Note))
	return g.check(ctx, span, attempt)
}

// SubmitQR reads a scanned UPI code and runs the payment it describes
// through the gate. The request amount wins over the amount in the code.
func (g *paymentGate) SubmitQR(ctx context.Context, req QRPaymentRequest) (*models.PaymentAttempt, error) {
	intent, err := upi.ParseURI(g.cfg.UPIScheme, req.Code)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidQRCode, err)
	}

	amount := strings.TrimSpace(req.Amount)
	if amount == "" && intent.Amount > 0 {
		amount = money.Format(intent.Amount)
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = intent.Note
	}

	return g.Submit(ctx, PaymentRequest{
		PayeeID:   intent.PayeeID,
		PayeeName: intent.PayeeName,
		Amount:    amount,
		Category:  req.Category,
		Note:      note,
	})
}

func (g *paymentGate) check(ctx context.Context, span trace.Span, attempt *models.PaymentAttempt) (*models.PaymentAttempt, error) {
	span.SetAttributes(
		attribute.String("payment.id", attempt.ID),
		attribute.Int64("payment.amount", attempt.Amount),
		attribute.String("payment.category", attempt.Category),
	)

	blocked, err := g.Blocklist.IsBlocked(ctx, attempt.PayeeID)
	if err != nil {
		if g.cfg.FailMode == models.FailClosed {
			logger.Get().Warnw("blocklist unavailable, treating payee as blocked",
				"payment_id", attempt.ID,
				"payee_id", attempt.PayeeID,
				"error", err,
			)
			attempt.BlockReason = models.BlockReasonBlocklistUnavailable
			attempt.Message = "Payment blocked because the blocked vendor list could not be checked."
			return g.block(ctx, span, attempt, models.PaymentStateBlockedByVendor)
		}
		logger.Get().Warnw("blocklist unavailable, continuing without vendor check",
			"payment_id", attempt.ID,
			"payee_id", attempt.PayeeID,
			"error", err,
		)
	}
	if blocked {
		attempt.BlockReason = models.BlockReasonVendor
		attempt.Message = fmt.Sprintf("Payments to %s are blocked due to security concerns.", attempt.PayeeID)
		return g.block(ctx, span, attempt, models.PaymentStateBlockedByVendor)
	}

	decision, tx, err := g.evaluateAndRecord(ctx, attempt)
	if decision == nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "limit evaluation failed")
		return nil, err
	}
	attempt.Decision = decision
	if !decision.Allowed {
		attempt.BlockReason = models.BlockReasonLimit
		attempt.Message = decision.Message()
		return g.block(ctx, span, attempt, models.PaymentStateBlockedByLimit)
	}
	if err != nil {
		return g.fail(ctx, span, attempt, err)
	}
	attempt.TransactionID = tx.ID

	if err := g.dispatch(ctx, attempt); err != nil {
		return g.fail(ctx, span, attempt, err)
	}

	attempt.Transition(models.PaymentStateAllowed, g.Clock.Now())
	attempt.Message = "Payment handed to UPI app"
	g.Metrics.IncrDecision(string(attempt.State))
	span.SetAttributes(attribute.String("payment.state", string(attempt.State)))
	if err := g.save(ctx, attempt); err != nil {
		return nil, err
	}
	g.publish(ctx, attempt)
	return attempt, nil
}

// evaluateAndRecord checks the limits and, when the payment is allowed,
// appends it to the ledger under spendMu. A nil decision means the
// evaluation itself failed; an allowed decision with an error means the
// ledger write failed.
func (g *paymentGate) evaluateAndRecord(ctx context.Context, attempt *models.PaymentAttempt) (*models.Decision, *models.Transaction, error) {
	g.spendMu.Lock()
	defer g.spendMu.Unlock()

	decision, err := g.Limits.Evaluate(ctx, attempt.Amount, attempt.Category)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return decision, nil, nil
	}
	tx, err := g.Ledger.Append(ctx, models.TransactionInput{
		Amount:      attempt.Amount,
		Type:        models.TransactionTypeExpense,
		Category:    attempt.Category,
		Description: paymentDescription(attempt),
		Date:        g.Clock.Today(),
		Merchant:    attempt.PayeeID,
	})
	return decision, tx, err
}

// RequestOverride moves a blocked payment to the emergency prompt.
func (g *paymentGate) RequestOverride(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	ctx, span := gateTracer.Start(ctx, "PaymentGate.RequestOverride", trace.WithAttributes(attribute.String("payment.id", id)))
	defer span.End()

	attempt, unlock, err := g.lockAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !attempt.Transition(models.PaymentStateEmergencyPrompt, g.Clock.Now()) {
		return nil, invalidTransition(attempt, models.PaymentStateEmergencyPrompt)
	}
	if err := g.save(ctx, attempt); err != nil {
		return nil, err
	}
	g.publish(ctx, attempt)
	return attempt, nil
}

// ConfirmOverride records the payment as an emergency expense and hands it
// to the UPI app regardless of why it was blocked. The blocklist and limits
// are not evaluated again unless RecheckBlocklistOnOverride is set.
func (g *paymentGate) ConfirmOverride(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	ctx, span := gateTracer.Start(ctx, "PaymentGate.ConfirmOverride", trace.WithAttributes(attribute.String("payment.id", id)))
	defer span.End()

	attempt, unlock, err := g.lockAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !attempt.State.CanTransition(models.PaymentStateOverrideApproved) {
		return nil, invalidTransition(attempt, models.PaymentStateOverrideApproved)
	}

	if g.cfg.RecheckBlocklistOnOverride {
		if err := g.recheckBlocklist(ctx, attempt); err != nil {
			return nil, err
		}
	}

	g.spendMu.Lock()
	tx, err := g.Ledger.Append(ctx, models.TransactionInput{
		Amount:      attempt.Amount,
		Type:        models.TransactionTypeExpense,
		Category:    attempt.Category,
		Description: models.EmergencyPrefix + paymentDescription(attempt),
		Date:        g.Clock.Today(),
		Merchant:    attempt.PayeeID,
		Tags:        []string{models.TagEmergency},
	})
	g.spendMu.Unlock()
	if err != nil {
		return g.fail(ctx, span, attempt, err)
	}
	attempt.TransactionID = tx.ID

	if err := g.dispatch(ctx, attempt); err != nil {
		return g.fail(ctx, span, attempt, err)
	}

	attempt.Transition(models.PaymentStateOverrideApproved, g.Clock.Now())
	attempt.Message = "Emergency payment handed to UPI app"
	g.Metrics.IncrOverride(string(attempt.BlockReason))
	g.Metrics.IncrDecision(string(attempt.State))
	if err := g.save(ctx, attempt); err != nil {
		return nil, err
	}
	g.publish(ctx, attempt)
	return attempt, nil
}

func (g *paymentGate) recheckBlocklist(ctx context.Context, attempt *models.PaymentAttempt) error {
	blocked, err := g.Blocklist.IsBlocked(ctx, attempt.PayeeID)
	if err != nil {
		if g.cfg.FailMode == models.FailClosed {
			return apperrors.Wrap(apperrors.ErrOverrideRefused, err)
		}
		logger.Get().Warnw("blocklist unavailable during override, continuing",
			"payment_id", attempt.ID,
			"error", err,
		)
		return nil
	}
	if blocked {
		return apperrors.ErrOverrideRefused
	}
	return nil
}

// Cancel abandons a blocked payment or an open emergency prompt.
func (g *paymentGate) Cancel(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	ctx, span := gateTracer.Start(ctx, "PaymentGate.Cancel", trace.WithAttributes(attribute.String("payment.id", id)))
	defer span.End()

	attempt, unlock, err := g.lockAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !attempt.Transition(models.PaymentStateCancelled, g.Clock.Now()) {
		return nil, invalidTransition(attempt, models.PaymentStateCancelled)
	}
	attempt.Message = "Payment cancelled"
	g.Metrics.IncrDecision(string(attempt.State))
	if err := g.save(ctx, attempt); err != nil {
		return nil, err
	}
	g.publish(ctx, attempt)
	return attempt, nil
}

// Get returns a payment attempt by id.
func (g *paymentGate) Get(ctx context.Context, id string) (*models.PaymentAttempt, error) {
	list, err := kvstore.LoadList[models.PaymentAttempt](ctx, g.Repo, kvstore.KeyPaymentAttempts)
	if err != nil {
		return nil, storageFailure(g.Metrics, "payments", "failed to load payment attempts", err, "payment_id", id)
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (g *paymentGate) newAttempt(payee, name string, amount int64, category, note string) *models.PaymentAttempt {
	now := g.Clock.Now()
	return &models.PaymentAttempt{
		ID:        uuid.New(),
		PayeeID:   payee,
		PayeeName: name,
		Amount:    amount,
		Category:  category,
		Note:      note,
		State:     models.PaymentStateChecking,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (g *paymentGate) block(ctx context.Context, span trace.Span, attempt *models.PaymentAttempt, state models.PaymentState) (*models.PaymentAttempt, error) {
	attempt.Transition(state, g.Clock.Now())
	g.Metrics.IncrDecision(string(state))
	span.SetAttributes(
		attribute.String("payment.state", string(state)),
		attribute.String("payment.block_reason", string(attempt.BlockReason)),
	)
	if err := g.save(ctx, attempt); err != nil {
		return nil, err
	}
	g.publish(ctx, attempt)
	return attempt, nil
}

func (g *paymentGate) dispatch(ctx context.Context, attempt *models.PaymentAttempt) error {
	note := attempt.Note
	if note == "" {
		note = paymentDescription(attempt)
	}
	if err := g.Dispatcher.Dispatch(ctx, attempt.PayeeID, attempt.Amount, note); err != nil {
		g.Metrics.IncrDispatchError()
		logger.Get().Errorw("failed to dispatch payment",
			"payment_id", attempt.ID,
			"payee_id", attempt.PayeeID,
			"error", err,
		)
		return apperrors.Wrap(apperrors.ErrDispatchFailed, err)
	}

	if err := g.Counter.Add(ctx, attempt.Amount); err != nil {
		logger.Get().Warnw("failed to update daily spending counter",
			"payment_id", attempt.ID,
			"error", err,
		)
	}
	return nil
}

// fail records the attempt as failed and returns cause to the caller. A
// ledger entry written before the failure is kept.
func (g *paymentGate) fail(ctx context.Context, span trace.Span, attempt *models.PaymentAttempt, cause error) (*models.PaymentAttempt, error) {
	span.RecordError(cause)
	span.SetStatus(codes.Error, "payment failed")

	attempt.Transition(models.PaymentStateFailed, g.Clock.Now())
	attempt.Error = cause.Error()
	g.Metrics.IncrDecision(string(attempt.State))
	if err := g.save(ctx, attempt); err != nil {
		logger.Get().Errorw("failed to record failed payment attempt",
			"payment_id", attempt.ID,
			"error", err,
		)
	}
	g.publish(ctx, attempt)
	return nil, cause
}

// save upserts attempt and prunes finished attempts past the retention.
func (g *paymentGate) save(ctx context.Context, attempt *models.PaymentAttempt) error {
	now := g.Clock.Now()
	err := kvstore.UpdateList(ctx, g.Repo, kvstore.KeyPaymentAttempts, func(list []models.PaymentAttempt) ([]models.PaymentAttempt, error) {
		kept := list[:0]
		found := false
		for _, a := range list {
			if a.ID == attempt.ID {
				kept = append(kept, *attempt)
				found = true
				continue
			}
			if g.cfg.Retention > 0 && a.State.Terminal() && now.Sub(a.UpdatedAt) > g.cfg.Retention {
				g.locks.Delete(a.ID)
				continue
			}
			kept = append(kept, a)
		}
		if !found {
			kept = append(kept, *attempt)
		}
		return kept, nil
	})
	if err != nil {
		return storageFailure(g.Metrics, "payments", "failed to save payment attempt", err, "payment_id", attempt.ID)
	}
	return nil
}

func (g *paymentGate) publish(ctx context.Context, attempt *models.PaymentAttempt) {
	if err := g.Publisher.Publish(ctx, events.FromAttempt(attempt, g.Clock.Now())); err != nil {
		logger.Get().Warnw("failed to publish payment event",
			"payment_id", attempt.ID,
			"state", attempt.State,
			"error", err,
		)
	}
}

// lockAttempt takes the per-attempt lock and returns the attempt as stored
// once the lock is held. Unknown ids never get a lock entry.
func (g *paymentGate) lockAttempt(ctx context.Context, id string) (*models.PaymentAttempt, func(), error) {
	if _, err := g.Get(ctx, id); err != nil {
		return nil, nil, err
	}
	v, _ := g.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	attempt, err := g.Get(ctx, id)
	if err != nil {
		mu.Unlock()
		return nil, nil, err
	}
	return attempt, mu.Unlock, nil
}

func paymentCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.DefaultCategory, nil
	}
	if !models.IsExpenseCategory(category) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category: "+category)
	}
	return category, nil
}

func paymentDescription(attempt *models.PaymentAttempt) string {
	if attempt.Note != "" {
		return attempt.Note
	}
	name := attempt.PayeeName
	if name == "" {
		name = attempt.PayeeID
	}
	return "Payment to " + name
}

func invalidTransition(attempt *models.PaymentAttempt, next models.PaymentState) error {
	return apperrors.WithMessage(apperrors.ErrInvalidPaymentState,
		fmt.Sprintf("payment %s cannot move from %s to %s", attempt.ID, attempt.State, next))
}
