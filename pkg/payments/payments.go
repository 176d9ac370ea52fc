package payments

import (
	"fmt"
	"strings"
)

// Method enumerates the supported payment hand-off flows.
type Method string

const (
	MethodCard           Method = "card"
	MethodHostedRedirect Method = "hosted_redirect"
	MethodBankTransfer   Method = "bank_transfer"
)

// IsValid reports whether the method is one of the supported flows.
func (m Method) IsValid() bool {
	switch m {
	case MethodCard, MethodHostedRedirect, MethodBankTransfer:
		return true
	}
	return false
}

// ParseMethod normalizes and validates a raw method string.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(raw)))
	if !m.IsValid() {
		return "", fmt.Errorf("unsupported payment method %q", raw)
	}
	return m, nil
}

// Handoff describes what the client must do next to complete payment.
// Exactly one of RedirectURL or Reference is populated for the redirect and
// bank transfer flows; card payments settle through a separate capture call.
type Handoff struct {
	Method      Method `json:"method"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Beneficiary string `json:"beneficiary,omitempty"`
}
