package models

import "strings"

// NormalizePayee lower-cases and trims a UPI id so that "Foo@UPI" and
// "foo@upi " compare equal.
func NormalizePayee(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ValidPayee reports whether id looks like a UPI id (name@handle).
func ValidPayee(id string) bool {
	id = strings.TrimSpace(id)
	at := strings.Index(id, "@")
	return at > 0 && at < len(id)-1 && strings.Count(id, "@") == 1 && !strings.ContainsAny(id, " \t\r\n")
}

// BlocklistFailMode decides how the payment gate treats a blocklist that
// cannot be read.
type BlocklistFailMode string

const (
	// FailOpen lets the payment continue as if the payee was not blocked.
	FailOpen BlocklistFailMode = "open"
	// FailClosed treats the payee as blocked.
	FailClosed BlocklistFailMode = "closed"
)

// Valid reports whether m is a known mode.
func (m BlocklistFailMode) Valid() bool {
	return m == FailOpen || m == FailClosed
}
