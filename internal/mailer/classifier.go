// Package mailer implements the transactional mail delivery core: error
// classification, the bounded retry loop, the delivery orchestrator with its
// audit trail, and the oversight notification path.
package mailer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// ErrorCategory is the closed vocabulary used for delivery diagnostics.
// Raw transport errors are mapped onto it and never surfaced unwrapped.
type ErrorCategory string

const (
	CategoryAuthenticationFailed ErrorCategory = "authentication_failed"
	CategoryConnectionRefused    ErrorCategory = "connection_refused"
	CategoryConnectionReset      ErrorCategory = "connection_reset"
	CategorySocketClosed         ErrorCategory = "socket_closed"
	CategoryTimeout              ErrorCategory = "timeout"
	CategoryTLSError             ErrorCategory = "tls_error"
	CategoryDNSFailure           ErrorCategory = "dns_failure"
	CategoryNetworkError         ErrorCategory = "network_error"
	CategoryProtocolError        ErrorCategory = "protocol_error"
	CategoryUnknown              ErrorCategory = "unknown"
)

// Classification is the result of classifying a transport failure. Code is
// the SMTP reply code when one could be extracted (structured or textual),
// 0 otherwise.
type Classification struct {
	Category ErrorCategory
	Code     int
}

// smtpAuthFailed is the SMTP reply code for rejected credentials.
const smtpAuthFailed = 535

// responseCodePattern extracts a 4xx/5xx reply code embedded in error text,
// for transports that only surface the code as part of the message. The text
// is stripped of host:port tokens first so a TCP port in a dial error (e.g.
// "dial tcp 10.0.0.1:465") is never mistaken for a reply code.
var responseCodePattern = regexp.MustCompile(`\b([45][0-9]{2})\b`)

// hostPortPattern matches the ":<port>" suffix of an address token.
var hostPortPattern = regexp.MustCompile(`:[0-9]{1,5}`)

// transientPatterns is the fixed set of substrings that mark a failure as
// likely to succeed on retry, independent of its category.
var transientPatterns = []string{
	"network",
	"timeout",
	"connection refused",
	"connection reset",
	"timed out",
	"temporary failure",
	"connection timeout",
	"socket hang up",
}

// Classify maps an arbitrary transport failure into an ErrorCategory. It is
// total over all inputs: anything unrecognized falls back to CategoryUnknown.
// Matching runs in priority order against the lowercased error text plus the
// structured reply code attached by the transport.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Category: CategoryUnknown}
	}

	text := strings.ToLower(err.Error())
	code := responseCode(err, text)

	switch {
	case code == smtpAuthFailed,
		strings.Contains(text, "invalid login"),
		strings.Contains(text, "authentication failed"),
		strings.Contains(text, "username and password not accepted"),
		strings.Contains(text, "bad credentials"):
		return Classification{Category: CategoryAuthenticationFailed, Code: code}

	case strings.Contains(text, "connection refused"):
		return Classification{Category: CategoryConnectionRefused, Code: code}
	case strings.Contains(text, "connection reset"):
		return Classification{Category: CategoryConnectionReset, Code: code}
	case strings.Contains(text, "socket hang up"),
		strings.Contains(text, "broken pipe"),
		strings.Contains(text, "use of closed network connection"):
		return Classification{Category: CategorySocketClosed, Code: code}

	case strings.Contains(text, "timeout"), strings.Contains(text, "timed out"):
		return Classification{Category: CategoryTimeout, Code: code}

	case strings.Contains(text, "tls"),
		strings.Contains(text, "ssl"),
		strings.Contains(text, "certificate"):
		return Classification{Category: CategoryTLSError, Code: code}

	case strings.Contains(text, "no such host"),
		strings.Contains(text, "dns"),
		strings.Contains(text, "name resolution"):
		return Classification{Category: CategoryDNSFailure, Code: code}

	case strings.Contains(text, "network"):
		return Classification{Category: CategoryNetworkError, Code: code}

	case code >= 400 && code <= 599,
		strings.Contains(text, "protocol error"):
		return Classification{Category: CategoryProtocolError, Code: code}
	}

	return Classification{Category: CategoryUnknown, Code: code}
}

// IsRetryable reports whether a failure is transient. Retryable means the
// reply code sits in the 4xx range (SMTP temporary failures), or the error
// text matches one of the fixed transient patterns. Everything else —
// including 5xx replies and authentication failures — is permanent: retrying
// will not succeed without operator intervention.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	text := strings.ToLower(err.Error())
	if code := responseCode(err, text); code >= 400 && code <= 499 {
		return true
	}

	for _, p := range transientPatterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Diagnostic renders an operator-facing description of the failure. It names
// the category and, where known, the relay host/port or the credential
// fields to check, so remediation never requires raw transport internals.
func (c Classification) Diagnostic(err error) string {
	host, port := relayCoordinates(err)
	relay := "the SMTP relay"
	if host != "" {
		relay = fmt.Sprintf("%s:%d", host, port)
	}

	switch c.Category {
	case CategoryAuthenticationFailed:
		return "authentication failed: check SMTP_USERNAME and SMTP_PASSWORD"
	case CategoryConnectionRefused:
		return fmt.Sprintf("connection refused by %s: check SMTP_HOST and SMTP_PORT", relay)
	case CategoryConnectionReset:
		return fmt.Sprintf("connection to %s was reset", relay)
	case CategorySocketClosed:
		return fmt.Sprintf("connection to %s closed unexpectedly", relay)
	case CategoryTimeout:
		return fmt.Sprintf("connection to %s timed out", relay)
	case CategoryTLSError:
		return fmt.Sprintf("TLS negotiation with %s failed: check the port and certificate configuration", relay)
	case CategoryDNSFailure:
		if host != "" {
			return fmt.Sprintf("could not resolve %s: check SMTP_HOST", host)
		}
		return "could not resolve the SMTP host: check SMTP_HOST"
	case CategoryNetworkError:
		return fmt.Sprintf("network error reaching %s", relay)
	case CategoryProtocolError:
		if c.Code != 0 {
			return fmt.Sprintf("SMTP error %d from %s", c.Code, relay)
		}
		return fmt.Sprintf("SMTP protocol error from %s", relay)
	}
	return fmt.Sprintf("unclassified delivery error via %s", relay)
}

// responseCode extracts the SMTP reply code from a failure: the structured
// code attached by the transport when present, otherwise a 4xx/5xx number
// embedded in the lowercased error text.
func responseCode(err error, text string) int {
	var tErr *types.TransportError
	if errors.As(err, &tErr) && tErr.Code != 0 {
		return tErr.Code
	}
	stripped := hostPortPattern.ReplaceAllString(text, ":")
	if m := responseCodePattern.FindString(stripped); m != "" {
		code, _ := strconv.Atoi(m)
		return code
	}
	return 0
}

// relayCoordinates recovers the host/port the failed send was addressed to.
func relayCoordinates(err error) (string, int) {
	var tErr *types.TransportError
	if errors.As(err, &tErr) {
		return tErr.Host, tErr.Port
	}
	return "", 0
}
