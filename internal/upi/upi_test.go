package upi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hissterical/MindfulPay/internal/resilience"
	"github.com/hissterical/MindfulPay/internal/upi"
)

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name   string
		intent upi.PaymentIntent
		want   string
	}{
		{
			name:   "all_fields",
			intent: upi.PaymentIntent{PayeeID: "shop@upi", PayeeName: "Corner Shop", Amount: 45050, Currency: "INR", Note: "groceries & milk"},
			want:   "upi://pay?pa=shop%40upi&pn=Corner%20Shop&am=450.50&cu=INR&tn=groceries%20%26%20milk",
		},
		{
			name:   "payee_only",
			intent: upi.PaymentIntent{PayeeID: "a@upi"},
			want:   "upi://pay?pa=a%40upi",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := upi.BuildURI("upi", tt.intent); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseURI(t *testing.T) {
	t.Run("parses_a_full_payment_uri", func(t *testing.T) {
		intent, err := upi.ParseURI("upi", "upi://pay?pa=shop@upi&pn=Corner%20Shop&am=450.5&cu=INR&tn=milk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent.PayeeID != "shop@upi" || intent.PayeeName != "Corner Shop" || intent.Amount != 45050 || intent.Note != "milk" || intent.Currency != "INR" {
			t.Errorf("unexpected intent %+v", intent)
		}
	})

	t.Run("amount_is_optional", func(t *testing.T) {
		intent, err := upi.ParseURI("upi", "upi://pay?pa=shop@upi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent.Amount != 0 {
			t.Errorf("expected zero amount, got %d", intent.Amount)
		}
	})

	t.Run("round_trips_builduri", func(t *testing.T) {
		in := upi.PaymentIntent{PayeeID: "x@okbank", PayeeName: "X Y", Amount: 100, Currency: "INR", Note: "a+b & c"}
		out, err := upi.ParseURI("upi", upi.BuildURI("upi", in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *out != in {
			t.Errorf("expected %+v, got %+v", in, *out)
		}
	})

	for _, raw := range []string{
		"",
		"hello world",
		"https://pay?pa=a@upi",
		"upi://collect?pa=a@upi",
		"upi://pay?pn=NoPayee",
		"upi://pay?pa=a@upi&am=abc",
		"upi://pay?pa=a@upi&am=-5",
	} {
		t.Run("rejects_"+raw, func(t *testing.T) {
			if _, err := upi.ParseURI("upi", raw); !errors.Is(err, upi.ErrMalformedURI) {
				t.Errorf("expected ErrMalformedURI, got %v", err)
			}
		})
	}
}

type fakeOpener struct {
	canOpen bool
	openErr error
	opened  []string
}

func (f *fakeOpener) CanOpen(context.Context, string) (bool, error) { return f.canOpen, nil }

func (f *fakeOpener) Open(_ context.Context, uri string) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = append(f.opened, uri)
	return nil
}

func TestLauncher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("opens_the_payment_uri", func(t *testing.T) {
		opener := &fakeOpener{canOpen: true}
		l := upi.NewLauncher(opener, "upi", "INR")
		if err := l.Dispatch(ctx, "shop@upi", 10000, "lunch"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(opener.opened) != 1 || opener.opened[0] != "upi://pay?pa=shop%40upi&am=100.00&cu=INR&tn=lunch" {
			t.Errorf("unexpected opened uris %v", opener.opened)
		}
	})

	t.Run("fails_without_a_handler", func(t *testing.T) {
		l := upi.NewLauncher(&fakeOpener{canOpen: false}, "upi", "INR")
		if err := l.Dispatch(ctx, "shop@upi", 100, ""); !errors.Is(err, upi.ErrNoHandler) {
			t.Errorf("expected ErrNoHandler, got %v", err)
		}
	})

	t.Run("wraps_open_failures", func(t *testing.T) {
		boom := errors.New("activity not found")
		l := upi.NewLauncher(&fakeOpener{canOpen: true, openErr: boom}, "upi", "INR")
		if err := l.Dispatch(ctx, "shop@upi", 100, ""); !errors.Is(err, boom) {
			t.Errorf("expected wrapped open error, got %v", err)
		}
	})
}

func TestBridgeOpener(t *testing.T) {
	var opened string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/can-open":
			_ = json.NewEncoder(w).Encode(map[string]bool{"can_open": r.URL.Query().Get("uri") != ""})
		case "/open":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			opened = body["uri"]
			w.WriteHeader(http.StatusAccepted)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	b := upi.NewBridgeOpener(&http.Client{Timeout: time.Second}, srv.URL+"/", resilience.NewCircuitBreaker("upi-bridge-test"))
	ctx := context.Background()

	ok, err := b.CanOpen(ctx, "upi://pay?pa=a%40upi")
	if err != nil || !ok {
		t.Fatalf("expected can open, got %v, %v", ok, err)
	}
	if err := b.Open(ctx, "upi://pay?pa=a%40upi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opened != "upi://pay?pa=a%40upi" {
		t.Errorf("bridge received %q", opened)
	}
}

func TestBridgeOpener_ReportsBridgeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := upi.NewBridgeOpener(srv.Client(), srv.URL, resilience.NewCircuitBreaker("upi-bridge-down"))
	if err := b.Open(context.Background(), "upi://pay?pa=a%40upi"); err == nil {
		t.Fatal("expected error from failing bridge")
	}
	if _, err := b.CanOpen(context.Background(), "upi://pay?pa=a%40upi"); err == nil {
		t.Fatal("expected error from failing bridge")
	}
}
