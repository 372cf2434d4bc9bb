package services

import (
	"context"
	"sort"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
	"github.com/hissterical/MindfulPay/internal/pagination"
)

// ledgerService handles the recorded transactions. Aggregates are derived
// from the stored list on every call.
type ledgerService struct {
	repo    *kvstore.Repository
	clock   Clock
	metrics *metrics.Metrics
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(repo *kvstore.Repository, clock Clock, m *metrics.Metrics) LedgerServicer {
	return &ledgerService{repo: repo, clock: clock, metrics: m}
}

// Append validates in and records it with a fresh id.
func (s *ledgerService) Append(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	tx, err := models.NewTransaction(in)
	if err != nil {
		return nil, err
	}

	err = kvstore.UpdateList(ctx, s.repo, kvstore.KeyTransactions, func(list []models.Transaction) ([]models.Transaction, error) {
		return append(list, *tx), nil
	})
	if err != nil {
		return nil, storageFailure(s.metrics, "ledger", "failed to append transaction", err, "amount", tx.Amount, "category", tx.Category)
	}
	return tx, nil
}

// Remove deletes the transaction with the given id.
func (s *ledgerService) Remove(ctx context.Context, id string) error {
	err := kvstore.UpdateList(ctx, s.repo, kvstore.KeyTransactions, func(list []models.Transaction) ([]models.Transaction, error) {
		for i := range list {
			if list[i].ID == id {
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, apperrors.ErrTransactionNotFound
	})
	if err != nil {
		return storageFailure(s.metrics, "ledger", "failed to remove transaction", err, "transaction_id", id)
	}
	return nil
}

// All returns every transaction in insertion order.
func (s *ledgerService) All(ctx context.Context) ([]models.Transaction, error) {
	list, err := kvstore.LoadList[models.Transaction](ctx, s.repo, kvstore.KeyTransactions)
	if err != nil {
		return nil, storageFailure(s.metrics, "ledger", "failed to load transactions", err)
	}
	return list, nil
}

// Get returns a transaction by id.
func (s *ledgerService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, apperrors.ErrTransactionNotFound
}

// List returns a page of transactions matching filter, newest first.
func (s *ledgerService) List(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Transaction, 0, len(list))
	for _, tx := range list {
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.FromDate != nil && tx.Date.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && tx.Date.After(*filter.ToDate) {
			continue
		}
		matched = append(matched, tx)
	}
	newestFirst(matched)

	result := pagination.Slice(matched, page)
	return &result, nil
}

// newestFirst sorts by date descending; on the same date the later recorded
// transaction comes first.
func newestFirst(list []models.Transaction) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
}

// Totals sums income and expense across the whole ledger. ByCategory covers
// expenses only.
func (s *ledgerService) Totals(ctx context.Context) (*Totals, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	totals := computeTotals(list)
	return &totals, nil
}

func computeTotals(list []models.Transaction) Totals {
	totals := Totals{ByCategory: map[string]int64{}}
	for _, tx := range list {
		if tx.IsExpense() {
			totals.Expense = money.Sum(totals.Expense, tx.Amount)
			totals.ByCategory[tx.Category] = money.Sum(totals.ByCategory[tx.Category], tx.Amount)
		} else {
			totals.Income = money.Sum(totals.Income, tx.Amount)
		}
	}
	totals.Net = totals.Income - totals.Expense
	return totals
}

// RecentExpenses returns the n most recent expenses, newest first.
func (s *ledgerService) RecentExpenses(ctx context.Context, n int) ([]models.Transaction, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return recentExpenses(list, n), nil
}

func recentExpenses(list []models.Transaction, n int) []models.Transaction {
	expenses := make([]models.Transaction, 0, len(list))
	for _, tx := range list {
		if tx.IsExpense() {
			expenses = append(expenses, tx)
		}
	}
	newestFirst(expenses)
	if n >= 0 && len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}

// DailyExpenses returns the expense total of each of the last days days,
// oldest first and ending today.
func (s *ledgerService) DailyExpenses(ctx context.Context, days int) ([]DailyTotal, error) {
	if days <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be greater than zero")
	}
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return dailyExpenses(list, s.clock.Today(), days), nil
}

func dailyExpenses(list []models.Transaction, today models.Date, days int) []DailyTotal {
	out := make([]DailyTotal, days)
	index := make(map[models.Date]int, days)
	for i := 0; i < days; i++ {
		d := today.AddDays(i - days + 1)
		out[i] = DailyTotal{Date: d}
		index[d] = i
	}
	for _, tx := range list {
		if !tx.IsExpense() {
			continue
		}
		if i, ok := index[tx.Date]; ok {
			out[i].Amount = money.Sum(out[i].Amount, tx.Amount)
		}
	}
	return out
}

// sumExpenses totals expenses inside w, optionally restricted to category.
func sumExpenses(list []models.Transaction, w models.Window, category string) int64 {
	var total int64
	for _, tx := range list {
		if !tx.IsExpense() || !w.Contains(tx.Date) {
			continue
		}
		if category != "" && tx.Category != category {
			continue
		}
		total = money.Sum(total, tx.Amount)
	}
	return total
}
