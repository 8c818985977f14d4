// Package upi builds UPI deep links for settle-up payments.
package upi

import (
	"net/url"
	"strings"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

// DefaultCurrency is used when a link is built without a currency.
const DefaultCurrency = "INR"

// PaymentLink returns a upi://pay link asking the payer to send amount to the
// handle upiID, displayed as name. It returns "" when there is no handle or
// nothing to pay.
func PaymentLink(upiID, name string, amount money.Cents, currency string) string {
	upiID = strings.TrimSpace(upiID)
	if upiID == "" || amount <= 0 {
		return ""
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	params := []struct{ key, value string }{
		{"pa", upiID},
		{"pn", name},
		{"am", amount.String()},
		{"cu", strings.ToUpper(currency)},
	}
	var query strings.Builder
	for i, p := range params {
		if p.value == "" {
			continue
		}
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(p.key)
		query.WriteByte('=')
		query.WriteString(escape(p.value))
	}

	u := url.URL{Scheme: "upi", Host: "pay", RawQuery: query.String()}
	return u.String()
}

// escape encodes spaces as %20, which UPI apps expect instead of "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
