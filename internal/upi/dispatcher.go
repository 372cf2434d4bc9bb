package upi

import (
	"context"
	"errors"
	"fmt"

	"github.com/hissterical/MindfulPay/internal/logger"
)

// ErrNoHandler is returned when no app on the device can open a UPI URI.
var ErrNoHandler = errors.New("no upi app available to handle this payment")

// Dispatcher hands an approved payment to the UPI app.
type Dispatcher interface {
	Dispatch(ctx context.Context, payeeID string, amount int64, note string) error
}

// Opener is the platform's URI-open facility.
type Opener interface {
	CanOpen(ctx context.Context, uri string) (bool, error)
	Open(ctx context.Context, uri string) error
}

// Launcher is the Dispatcher that builds a payment URI and opens it.
type Launcher struct {
	opener   Opener
	scheme   string
	currency string
}

// NewLauncher creates a Launcher producing scheme:// URIs in currency.
func NewLauncher(opener Opener, scheme, currency string) *Launcher {
	return &Launcher{opener: opener, scheme: scheme, currency: currency}
}

// Dispatch builds the URI for the payment and opens it.
func (l *Launcher) Dispatch(ctx context.Context, payeeID string, amount int64, note string) error {
	uri := BuildURI(l.scheme, PaymentIntent{
		PayeeID:  payeeID,
		Amount:   amount,
		Currency: l.currency,
		Note:     note,
	})

	ok, err := l.opener.CanOpen(ctx, uri)
	if err != nil {
		return fmt.Errorf("check upi handler: %w", err)
	}
	if !ok {
		return ErrNoHandler
	}
	if err := l.opener.Open(ctx, uri); err != nil {
		return fmt.Errorf("open upi uri: %w", err)
	}
	return nil
}

// LogOpener writes the URI to the log instead of opening it. Used when no
// device bridge is configured.
type LogOpener struct{}

func (LogOpener) CanOpen(context.Context, string) (bool, error) {
	return true, nil
}

func (LogOpener) Open(_ context.Context, uri string) error {
	logger.Get().Infow("UPI payment handed off", "uri", uri)
	return nil
}
