// Package upi builds and parses UPI payment URIs and hands them to the
// device's UPI app.
package upi

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hissterical/MindfulPay/internal/money"
)

// ErrMalformedURI is returned by ParseURI for input that is not a UPI
// payment URI.
var ErrMalformedURI = errors.New("malformed upi uri")

// PaymentIntent is the content of a upi://pay URI.
type PaymentIntent struct {
	PayeeID   string `json:"payee_id"`
	PayeeName string `json:"payee_name,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Note      string `json:"note,omitempty"`
}

// BuildURI formats intent as scheme://pay?pa=..&pn=..&am=..&cu=..&tn=..
// Empty optional fields are left out.
func BuildURI(scheme string, intent PaymentIntent) string {
	params := [][2]string{{"pa", intent.PayeeID}}
	if intent.PayeeName != "" {
		params = append(params, [2]string{"pn", intent.PayeeName})
	}
	if intent.Amount > 0 {
		params = append(params, [2]string{"am", money.Format(intent.Amount)})
	}
	if intent.Currency != "" {
		params = append(params, [2]string{"cu", intent.Currency})
	}
	if intent.Note != "" {
		params = append(params, [2]string{"tn", intent.Note})
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://pay?")
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(escape(p[1]))
	}
	return b.String()
}

// escape percent-encodes a query value with %20 for spaces, which UPI apps
// read more reliably than '+'.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// ParseURI reads a scheme://pay URI such as a UPI QR code carries. The payee
// (pa) is required; the amount (am) is optional but must be a positive
// decimal when present.
func ParseURI(scheme, raw string) (*PaymentIntent, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedURI, err)
	}
	if !strings.EqualFold(u.Scheme, scheme) {
		return nil, fmt.Errorf("%w: scheme %q", ErrMalformedURI, u.Scheme)
	}
	host := u.Host
	if host == "" {
		host = strings.TrimPrefix(u.Opaque, "//")
		host, _, _ = strings.Cut(host, "?")
	}
	if !strings.EqualFold(host, "pay") {
		return nil, fmt.Errorf("%w: expected pay, got %q", ErrMalformedURI, host)
	}

	q := u.Query()
	intent := &PaymentIntent{
		PayeeID:   strings.TrimSpace(q.Get("pa")),
		PayeeName: strings.TrimSpace(q.Get("pn")),
		Currency:  strings.TrimSpace(q.Get("cu")),
		Note:      strings.TrimSpace(q.Get("tn")),
	}
	if intent.PayeeID == "" {
		return nil, fmt.Errorf("%w: missing pa", ErrMalformedURI)
	}
	if am := strings.TrimSpace(q.Get("am")); am != "" {
		amount, err := money.Parse(am)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q", ErrMalformedURI, am)
		}
		intent.Amount = amount
	}
	return intent, nil
}
