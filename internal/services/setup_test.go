package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hissterical/MindfulPay/internal/events"
	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/logger"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
	"github.com/hissterical/MindfulPay/internal/testutil"
)

// rupees converts whole rupees to paise for readable test amounts.
func rupees(r int64) int64 { return money.FromRupees(r) }

type dispatchCall struct {
	payeeID string
	amount  int64
	note    string
}

// fakeDispatcher records dispatches and fails with err when set.
type fakeDispatcher struct {
	mu    sync.Mutex
	calls []dispatchCall
	err   error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, payeeID string, amount int64, note string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, dispatchCall{payeeID: payeeID, amount: amount, note: note})
	return nil
}

func (d *fakeDispatcher) Calls() []dispatchCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]dispatchCall, len(d.calls))
	copy(out, d.calls)
	return out
}

// testEnv wires every service over one repository and a fixed clock.
type testEnv struct {
	repo       *kvstore.Repository
	clock      *testutil.Clock
	metrics    *metrics.Metrics
	recorder   *events.Recorder
	dispatcher *fakeDispatcher

	blocklist BlocklistServicer
	ledger    LedgerServicer
	limits    LimitServicer
	goals     GoalServicer
	counter   DailyCounterServicer
	gate      PaymentGateServicer
	overview  OverviewServicer
	data      DataServicer
	audit     AuditServicer
}

type envOption func(*envConfig)

type envConfig struct {
	store  kvstore.Store
	limits LimitConfig
	gate   PaymentGateConfig
}

func withStore(s kvstore.Store) envOption {
	return func(c *envConfig) { c.store = s }
}

func withDuplicatePolicy(p models.DuplicateLimitPolicy) envOption {
	return func(c *envConfig) { c.limits.DuplicatePolicy = p }
}

func withFailMode(m models.BlocklistFailMode) envOption {
	return func(c *envConfig) { c.gate.FailMode = m }
}

func withOverrideRecheck() envOption {
	return func(c *envConfig) { c.gate.RecheckBlocklistOnOverride = true }
}

func withRetention(d time.Duration) envOption {
	return func(c *envConfig) { c.gate.Retention = d }
}

func withLimits(daily, monthly int64) envOption {
	return func(c *envConfig) {
		c.limits.Defaults = models.LimitSettings{DailyLimit: daily, MonthlyLimit: monthly}
	}
}

// newTestEnv builds the services with daily and monthly limits of 5,000 and
// 1,00,000 rupees unless overridden.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{
		store: kvstore.NewMemory(),
		limits: LimitConfig{
			Defaults:        models.LimitSettings{DailyLimit: rupees(5000), MonthlyLimit: rupees(100000)},
			DuplicatePolicy: models.DuplicateReject,
		},
		gate: PaymentGateConfig{FailMode: models.FailOpen, UPIScheme: "upi"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	env := &testEnv{
		repo:       kvstore.NewRepository(cfg.store),
		clock:      testutil.NewClock(testutil.Now),
		metrics:    metrics.New(),
		recorder:   &events.Recorder{},
		dispatcher: &fakeDispatcher{},
	}
	clock := NewClock(env.clock.Now, time.UTC)

	env.blocklist = NewBlocklistService(env.repo, env.metrics)
	env.ledger = NewLedgerService(env.repo, clock, env.metrics)
	env.limits = NewLimitService(env.repo, env.ledger, clock, cfg.limits, env.metrics)
	env.goals = NewGoalService(env.repo, env.metrics)
	env.counter = NewDailyCounter(env.repo, clock, env.metrics)
	env.gate = NewPaymentGate(PaymentGateDeps{
		Repo:       env.repo,
		Blocklist:  env.blocklist,
		Limits:     env.limits,
		Ledger:     env.ledger,
		Counter:    env.counter,
		Dispatcher: env.dispatcher,
		Publisher:  env.recorder,
		Metrics:    env.metrics,
		Clock:      clock,
	}, cfg.gate)
	env.overview = NewOverviewService(env.ledger, env.goals, env.counter, clock)
	env.data = NewDataService(env.repo, clock, env.metrics)
	env.audit = NewAuditService(env.repo, clock)
	return env
}

// observeLogs routes the global logger to an in-memory core for the rest of
// the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Get().Desugar()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })
	return logs
}
