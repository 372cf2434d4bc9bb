package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/pagination"
	"github.com/hissterical/MindfulPay/internal/services"
)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/transactions", handler.CreateTransaction)
	r.GET("/transactions", handler.GetTransactions)
	r.GET("/transactions/summary", handler.GetSummary)
	r.GET("/transactions/:id", handler.GetTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns_201_and_converts_the_amount_to_paise", func(t *testing.T) {
		var got models.TransactionInput
		ledger := &mockLedgerService{
			appendFn: func(_ context.Context, in models.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{ID: "tx-1", Amount: in.Amount, Type: in.Type, Category: in.Category, Date: in.Date}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(ledger, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"amount":"1249.50","type":"expense","category":"Shopping","description":"Shoes","date":"2024-03-10","tags":["sale"]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount != 124950 {
			t.Errorf("expected 124950 paise, got %d", got.Amount)
		}
		if got.Date != models.NewDate(2024, 3, 10) {
			t.Errorf("expected date 2024-03-10, got %s", got.Date)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "sale" {
			t.Errorf("unexpected tags %v", got.Tags)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["date"] != "2024-03-10" {
			t.Errorf("expected date in response, got %v", tx["date"])
		}
	})

	t.Run("returns_400_for_invalid_bodies", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"missing_amount", `{"type":"expense","category":"Shopping","date":"2024-03-10"}`},
			{"zero_amount", `{"amount":"0","type":"expense","category":"Shopping","date":"2024-03-10"}`},
			{"bad_type", `{"amount":"10","type":"transfer","category":"Shopping","date":"2024-03-10"}`},
			{"bad_date", `{"amount":"10","type":"expense","category":"Shopping","date":"10/03/2024"}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r := setupTransactionRouter(NewTransactionHandler(&mockLedgerService{}, &mockAuditService{}))

				rec := doRequest(r, http.MethodPost, "/transactions", tt.body)

				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status 400, got %d", rec.Code)
				}
				assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			})
		}
	})

	t.Run("passes_ledger_validation_errors_through", func(t *testing.T) {
		ledger := &mockLedgerService{
			appendFn: func(context.Context, models.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown category")
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(ledger, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions", `{"amount":"10","type":"income","category":"Shopping","date":"2024-03-10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses_filters_and_pagination", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		var gotPage pagination.PageRequest
		ledger := &mockLedgerService{
			listFn: func(_ context.Context, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter, gotPage = filter, page
				page.Defaults()
				resp := pagination.NewPageResponse([]models.Transaction{{ID: "tx-1"}}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(ledger, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/transactions?type=expense&category=Shopping&from_date=2024-03-01&to_date=2024-03-31&page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense filter, got %v", gotFilter.Type)
		}
		if gotFilter.Category != "Shopping" {
			t.Errorf("expected category Shopping, got %q", gotFilter.Category)
		}
		if gotFilter.FromDate == nil || *gotFilter.FromDate != models.NewDate(2024, 3, 1) {
			t.Errorf("unexpected from_date %v", gotFilter.FromDate)
		}
		if gotFilter.ToDate == nil || *gotFilter.ToDate != models.NewDate(2024, 3, 31) {
			t.Errorf("unexpected to_date %v", gotFilter.ToDate)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page request %+v", gotPage)
		}
		result := parseJSON(t, rec)
		if data, ok := result["data"].([]interface{}); !ok || len(data) != 1 {
			t.Errorf("expected one transaction in data, got %v", result["data"])
		}
	})

	t.Run("returns_400_for_invalid_filters", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{"bad_type", "?type=refund"},
			{"bad_from_date", "?from_date=yesterday"},
			{"bad_to_date", "?to_date=2024-13-01"},
			{"bad_page_size", "?page_size=500"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r := setupTransactionRouter(NewTransactionHandler(&mockLedgerService{}, &mockAuditService{}))

				rec := doRequest(r, http.MethodGet, "/transactions"+tt.query, "")

				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status 400, got %d", rec.Code)
				}
				assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			})
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	ledger := &mockLedgerService{
		getFn: func(_ context.Context, id string) (*models.Transaction, error) {
			if id == "tx-1" {
				return &models.Transaction{ID: "tx-1", Amount: 5000}, nil
			}
			return nil, apperrors.ErrTransactionNotFound
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(ledger, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/transactions/tx-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = doRequest(r, http.MethodGet, "/transactions/tx-2", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("deletes_and_audits", func(t *testing.T) {
		var removed string
		audit := &mockAuditService{}
		ledger := &mockLedgerService{
			removeFn: func(_ context.Context, id string) error {
				removed = id
				return nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(ledger, audit))

		rec := doRequest(r, http.MethodDelete, "/transactions/tx-1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if removed != "tx-1" {
			t.Errorf("expected tx-1 removed, got %q", removed)
		}
		if got := audit.actions(); len(got) != 1 || got[0] != "DELETE_TRANSACTION" {
			t.Errorf("unexpected audit actions %v", got)
		}
	})

	t.Run("returns_404_when_missing", func(t *testing.T) {
		audit := &mockAuditService{}
		ledger := &mockLedgerService{
			removeFn: func(context.Context, string) error { return apperrors.ErrTransactionNotFound },
		}
		r := setupTransactionRouter(NewTransactionHandler(ledger, audit))

		rec := doRequest(r, http.MethodDelete, "/transactions/nope", "")

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
		if len(audit.actions()) != 0 {
			t.Error("failed deletes should not be audited")
		}
	})
}

func TestTransactionHandler_GetSummary(t *testing.T) {
	ledger := &mockLedgerService{
		totalsFn: func(context.Context) (*services.Totals, error) {
			return &services.Totals{Income: 5000000, Expense: 1200000, Net: 3800000, ByCategory: map[string]int64{"Shopping": 1200000}}, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(ledger, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/transactions/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["net"] != float64(3800000) {
		t.Errorf("expected net 3800000, got %v", summary["net"])
	}
}
