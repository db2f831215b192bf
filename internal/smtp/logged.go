package smtp

import (
	"context"
	"fmt"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// devModePrefix marks synthesized message IDs so downstream consumers can
// tell simulated deliveries from real ones.
const devModePrefix = "dev-mode-"

// LoggedTransport is the development Transport implementation. It performs
// no network I/O: every send synthesizes a deterministic success with a
// timestamp-derived ID and emits a structured log entry instead. Selected
// when SMTP credentials are absent.
type LoggedTransport struct {
	clock  types.Clock
	logger types.Logger
}

// NewLoggedTransport creates a logged-mode transport.
func NewLoggedTransport(logger types.Logger) *LoggedTransport {
	return NewLoggedTransportWithClock(logger, types.RealClock{})
}

// NewLoggedTransportWithClock creates a logged-mode transport with an
// injected clock. Tests use this to make the synthesized IDs predictable.
func NewLoggedTransportWithClock(logger types.Logger, clock types.Clock) *LoggedTransport {
	return &LoggedTransport{
		clock:  clock,
		logger: logger.With("transport", "logged"),
	}
}

// Mode reports that this transport only simulates sends.
func (t *LoggedTransport) Mode() types.TransportMode {
	return types.ModeLogged
}

// Send logs the would-be delivery and always succeeds.
func (t *LoggedTransport) Send(_ context.Context, input types.SendInput) (string, error) {
	msgID := fmt.Sprintf("%s%d", devModePrefix, t.clock.Now().UnixNano())

	t.logger.Info("dev mode: mail not sent",
		"message_id", msgID,
		"to", input.To,
		"from", input.From.Address,
		"subject", input.Subject,
	)

	return msgID, nil
}

// Compile-time assertion that LoggedTransport implements Transport.
var _ Transport = (*LoggedTransport)(nil)
