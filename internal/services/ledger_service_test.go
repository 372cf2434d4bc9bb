package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/pagination"
	"github.com/hissterical/MindfulPay/internal/testutil"
)

func TestLedger_Append(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		env := newTestEnv(t)

		tx, err := env.ledger.Append(context.Background(), models.TransactionInput{
			Amount:      rupees(250),
			Type:        models.TransactionTypeExpense,
			Category:    "Food & Dining",
			Description: "Lunch",
			Date:        testutil.Today,
			Merchant:    "canteen@upi",
		})
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		all, err := env.ledger.All(context.Background())
		testutil.AssertNoError(t, err)
		if len(all) != 1 || all[0].ID != tx.ID {
			t.Errorf("expected the appended transaction to be stored, got %v", all)
		}
	})

	t.Run("wrong_category_for_type", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.ledger.Append(context.Background(), models.TransactionInput{
			Amount:   rupees(100),
			Type:     models.TransactionTypeIncome,
			Category: "Shopping",
			Date:     testutil.Today,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("zero_amount", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.ledger.Append(context.Background(), models.TransactionInput{
			Type:     models.TransactionTypeExpense,
			Category: "Shopping",
			Date:     testutil.Today,
		})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("storage_failure", func(t *testing.T) {
		store := testutil.NewFailingStore()
		env := newTestEnv(t, withStore(store))
		observeLogs(t)
		store.FailWrites(kvstore.KeyTransactions, true)

		_, err := env.ledger.Append(context.Background(), models.TransactionInput{
			Amount:   rupees(100),
			Type:     models.TransactionTypeExpense,
			Category: "Shopping",
			Date:     testutil.Today,
		})
		testutil.AssertStorageFailure(t, err)
	})
}

func TestLedger_Remove(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		env := newTestEnv(t)
		tx := testutil.CreateTestExpense(t, env.repo, "Shopping", rupees(100), testutil.Today)
		keep := testutil.CreateTestExpense(t, env.repo, "Shopping", rupees(200), testutil.Today)

		testutil.AssertNoError(t, env.ledger.Remove(context.Background(), tx.ID))

		all, err := env.ledger.All(context.Background())
		testutil.AssertNoError(t, err)
		if len(all) != 1 || all[0].ID != keep.ID {
			t.Errorf("expected only %s to remain, got %v", keep.ID, all)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.ledger.Remove(context.Background(), "missing")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestLedger_Totals(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTestIncome(t, env.repo, rupees(50000), testutil.Today)
	testutil.CreateTestExpense(t, env.repo, "Food & Dining", rupees(800), testutil.Today)
	testutil.CreateTestExpense(t, env.repo, "Food & Dining", rupees(200), testutil.Today.AddDays(-3))
	testutil.CreateTestExpense(t, env.repo, "Shopping", rupees(1500), testutil.Today)

	totals, err := env.ledger.Totals(context.Background())
	testutil.AssertNoError(t, err)

	if totals.Income != rupees(50000) {
		t.Errorf("expected income %d, got %d", rupees(50000), totals.Income)
	}
	if totals.Expense != rupees(2500) {
		t.Errorf("expected expense %d, got %d", rupees(2500), totals.Expense)
	}
	if totals.Net != rupees(47500) {
		t.Errorf("expected net %d, got %d", rupees(47500), totals.Net)
	}
	want := map[string]int64{"Food & Dining": rupees(1000), "Shopping": rupees(1500)}
	if !reflect.DeepEqual(totals.ByCategory, want) {
		t.Errorf("expected by-category %v, got %v", want, totals.ByCategory)
	}
}

func TestLedger_List(t *testing.T) {
	env := newTestEnv(t)
	old := testutil.CreateTestExpense(t, env.repo, "Shopping", rupees(100), testutil.Today.AddDays(-10))
	first := testutil.CreateTestExpense(t, env.repo, "Food & Dining", rupees(200), testutil.Today)
	income := testutil.CreateTestIncome(t, env.repo, rupees(300), testutil.Today.AddDays(-1))
	second := testutil.CreateTestExpense(t, env.repo, "Food & Dining", rupees(400), testutil.Today)

	t.Run("newest_first", func(t *testing.T) {
		page, err := env.ledger.List(context.Background(), TransactionFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		var ids []string
		for _, tx := range page.Data {
			ids = append(ids, tx.ID)
		}
		want := []string{second.ID, first.ID, income.ID, old.ID}
		if !reflect.DeepEqual(ids, want) {
			t.Errorf("expected order %v, got %v", want, ids)
		}
		if page.TotalItems != 4 {
			t.Errorf("expected 4 total items, got %d", page.TotalItems)
		}
	})

	t.Run("filters", func(t *testing.T) {
		expense := models.TransactionTypeExpense
		from := testutil.Today.AddDays(-1)
		page, err := env.ledger.List(context.Background(), TransactionFilter{
			Type:     &expense,
			Category: "Food & Dining",
			FromDate: &from,
		}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 2 {
			t.Fatalf("expected 2 matching transactions, got %d", len(page.Data))
		}
	})

	t.Run("paginates", func(t *testing.T) {
		page, err := env.ledger.List(context.Background(), TransactionFilter{}, pagination.PageRequest{Page: 2, PageSize: 3})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 1 || page.Data[0].ID != old.ID {
			t.Errorf("expected the oldest transaction on page 2, got %v", page.Data)
		}
		if page.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", page.TotalPages)
		}
	})
}

func TestLedger_RecentAndDailyExpenses(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 7; i++ {
		testutil.CreateTestExpense(t, env.repo, "Shopping", rupees(int64(100*(i+1))), testutil.Today.AddDays(-i))
	}
	testutil.CreateTestIncome(t, env.repo, rupees(9999), testutil.Today)

	recent, err := env.ledger.RecentExpenses(context.Background(), 5)
	testutil.AssertNoError(t, err)
	if len(recent) != 5 {
		t.Fatalf("expected 5 recent expenses, got %d", len(recent))
	}
	if recent[0].Amount != rupees(100) || recent[4].Amount != rupees(500) {
		t.Errorf("expected newest first, got %d .. %d", recent[0].Amount, recent[4].Amount)
	}

	daily, err := env.ledger.DailyExpenses(context.Background(), 3)
	testutil.AssertNoError(t, err)
	want := []DailyTotal{
		{Date: testutil.Today.AddDays(-2), Amount: rupees(300)},
		{Date: testutil.Today.AddDays(-1), Amount: rupees(200)},
		{Date: testutil.Today, Amount: rupees(100)},
	}
	if !reflect.DeepEqual(daily, want) {
		t.Errorf("expected %v, got %v", want, daily)
	}

	_, err = env.ledger.DailyExpenses(context.Background(), 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestLedger_PersistsAcrossReload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	env := newTestEnv(t, withStore(kvstore.NewGormStore(db)))

	in := models.TransactionInput{
		Amount:      rupees(1234) + 56,
		Type:        models.TransactionTypeExpense,
		Category:    "Travel",
		Description: "Train tickets",
		Date:        testutil.Today,
		Merchant:    "irctc@upi",
		Tags:        []string{models.TagEmergency},
	}
	tx, err := env.ledger.Append(context.Background(), in)
	testutil.AssertNoError(t, err)

	reloaded := NewLedgerService(kvstore.NewRepository(kvstore.NewGormStore(db)), NewClock(nil, nil), nil)
	got, err := reloaded.Get(context.Background(), tx.ID)
	testutil.AssertNoError(t, err)

	if !reflect.DeepEqual(*got, *tx) {
		t.Errorf("expected %+v after reload, got %+v", *tx, *got)
	}
}
