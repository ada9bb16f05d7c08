package llm

import (
	"errors"
	"net/http"
	"strings"
)

// Classified failure kinds. Provider clients wrap these so callers can
// branch with errors.Is regardless of which provider produced the failure.
var (
	// ErrNoProviderConfigured means zero credentials are present; no
	// network call is ever attempted.
	ErrNoProviderConfigured = errors.New("no language model provider configured")

	// ErrRateLimited is a rate-limit style rejection; the caller may
	// advise trying again later.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrQuotaExhausted means credits or billing balance is depleted,
	// distinct from transient rate limiting.
	ErrQuotaExhausted = errors.New("provider quota exhausted")

	// ErrTransport covers network failures, timeouts, and any other
	// non-2xx response.
	ErrTransport = errors.New("provider transport error")

	// ErrMalformedOutput means the provider responded but the payload
	// could not be turned into the expected shape.
	ErrMalformedOutput = errors.New("malformed generation output")
)

// classifyStatus maps an HTTP status plus response body to one of the
// classified kinds. 429 bodies that mention quota or billing are treated
// as exhaustion rather than throttling.
func classifyStatus(status int, body string) error {
	switch status {
	case http.StatusTooManyRequests:
		if quotaHint(body) {
			return ErrQuotaExhausted
		}
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrQuotaExhausted
	default:
		return ErrTransport
	}
}

func quotaHint(body string) bool {
	lower := strings.ToLower(body)
	for _, hint := range []string{"quota", "billing", "credit", "balance"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
