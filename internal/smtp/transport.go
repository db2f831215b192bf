// Package smtp implements the outbound mail transport. Two implementations
// exist: SMTPTransport performs real network sends through an SMTP relay,
// and LoggedTransport simulates sends for environments without credentials.
// Mode selection happens once at construction from configuration; there is
// no runtime toggle.
package smtp

import (
	"context"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// Transport abstracts "send a message". Implementations are safe for
// concurrent use; the underlying relay coordinates are shared read-only
// configuration.
type Transport interface {
	// Send transmits a pre-rendered message and returns the transport
	// message ID. Failures from the live transport are *types.TransportError
	// values carrying the SMTP reply code when the server produced one.
	Send(ctx context.Context, input types.SendInput) (string, error)

	// Mode reports whether this transport performs real sends.
	Mode() types.TransportMode
}
