package services

import (
	"context"
	"time"

	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/logger"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
)

// dataService loads demo data and wipes stored records.
type dataService struct {
	repo    *kvstore.Repository
	clock   Clock
	metrics *metrics.Metrics
}

// NewDataService creates a new DataServicer.
func NewDataService(repo *kvstore.Repository, clock Clock, m *metrics.Metrics) DataServicer {
	return &dataService{repo: repo, clock: clock, metrics: m}
}

type seedTransaction struct {
	day         int
	rupees      int64
	txType      models.TransactionType
	category    string
	description string
	merchant    string
}

var seedTransactions = []seedTransaction{
	{1, 50000, models.TransactionTypeIncome, "Salary", "Monthly salary", ""},
	{10, 15000, models.TransactionTypeIncome, "Business", "Freelance project", ""},
	{15, 5000, models.TransactionTypeIncome, "Investments", "Dividend payment", ""},
	{20, 3000, models.TransactionTypeIncome, "Other", "Gift from family", ""},
	{2, 8000, models.TransactionTypeExpense, "Food & Dining", "Grocery shopping", "supermarket@upi"},
	{8, 2500, models.TransactionTypeExpense, "Food & Dining", "Restaurant dinner", "restaurant@upi"},
	{3, 4000, models.TransactionTypeExpense, "Transportation", "Fuel", "petrol@upi"},
	{12, 1500, models.TransactionTypeExpense, "Transportation", "Cab fare", "rideshare@upi"},
	{4, 3000, models.TransactionTypeExpense, "Bills & Utilities", "Electricity bill", "utility@upi"},
	{18, 1200, models.TransactionTypeExpense, "Bills & Utilities", "Internet bill", "internet@upi"},
	{14, 5500, models.TransactionTypeExpense, "Shopping", "New clothes", "clothing@upi"},
	{16, 2000, models.TransactionTypeExpense, "Entertainment", "Movie tickets", "cinema@upi"},
	{22, 1800, models.TransactionTypeExpense, "Entertainment", "Concert tickets", "ticketing@upi"},
	{25, 3500, models.TransactionTypeExpense, "Other", "Gift for friend", "giftshop@upi"},
}

type seedGoal struct {
	name     string
	target   int64
	current  int64
	category string
	// months until the end of the deadline month
	months int
}

var seedGoals = []seedGoal{
	{"Emergency Fund", 100000, 25000, "Emergency Fund", 9},
	{"Home Down Payment", 500000, 100000, "Home", 21},
	{"Credit Card Payoff", 50000, 20000, "Debt Repayment", 3},
	{"Vacation Fund", 75000, 15000, "Savings", 7},
	{"New Laptop", 80000, 30000, "Other", 5},
}

var seedLimits = []struct {
	category string
	rupees   int64
}{
	{"Food & Dining", 10000},
	{"Transportation", 5000},
	{"Entertainment", 3000},
	{"Shopping", 7000},
	{"Bills & Utilities", 5000},
}

var seedBlockedMerchants = []string{
	"gambling@upi",
	"casino@upi",
	"lottery@upi",
	"betting@upi",
	"liquor@upi",
}

// Seed replaces the transactions, goals, limits and blocklist with demo
// data dated in the current month. Days after today are moved to today.
func (s *dataService) Seed(ctx context.Context) error {
	today := s.clock.Today()
	month := today.StartOfMonth()

	txs := make([]models.Transaction, 0, len(seedTransactions))
	for _, st := range seedTransactions {
		date := month.AddDays(st.day - 1)
		if date.After(today) {
			date = today
		}
		tx, err := models.NewTransaction(models.TransactionInput{
			Amount:      money.FromRupees(st.rupees),
			Type:        st.txType,
			Category:    st.category,
			Description: st.description,
			Date:        date,
			Merchant:    st.merchant,
		})
		if err != nil {
			return err
		}
		txs = append(txs, *tx)
	}

	goals := make([]models.Goal, 0, len(seedGoals))
	for _, sg := range seedGoals {
		deadline := models.NewDate(today.Year, today.Month+time.Month(sg.months)+1, 0)
		goal, err := models.NewGoal(models.GoalInput{
			Name:          sg.name,
			TargetAmount:  money.FromRupees(sg.target),
			CurrentAmount: money.FromRupees(sg.current),
			Category:      sg.category,
			Deadline:      &deadline,
		})
		if err != nil {
			return err
		}
		goals = append(goals, *goal)
	}

	limits := make([]models.SpendingLimit, 0, len(seedLimits))
	for _, sl := range seedLimits {
		limit, err := models.NewSpendingLimit(sl.category, money.FromRupees(sl.rupees), models.LimitPeriodMonthly)
		if err != nil {
			return err
		}
		limits = append(limits, *limit)
	}

	records := []struct {
		key   string
		value any
	}{
		{kvstore.KeyTransactions, txs},
		{kvstore.KeyGoals, goals},
		{kvstore.KeySpendingLimits, limits},
		{kvstore.KeyBlockedMerchants, seedBlockedMerchants},
	}
	for _, r := range records {
		if err := kvstore.SaveValue(ctx, s.repo, r.key, r.value); err != nil {
			return storageFailure(s.metrics, "data", "failed to seed demo data", err, "key", r.key)
		}
	}

	logger.Get().Infow("seeded demo data",
		"transactions", len(txs),
		"goals", len(goals),
		"limits", len(limits),
		"blocked_merchants", len(seedBlockedMerchants),
	)
	return nil
}

// ClearAll removes every stored record.
func (s *dataService) ClearAll(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return storageFailure(s.metrics, "data", "failed to clear stored data", err)
	}
	logger.Get().Infow("cleared all stored data")
	return nil
}
