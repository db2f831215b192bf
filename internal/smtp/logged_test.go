package smtp

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

type testLogger struct{}

func (testLogger) Info(string, ...any)        {}
func (testLogger) Error(string, ...any)       {}
func (testLogger) Warn(string, ...any)        {}
func (l testLogger) With(...any) types.Logger { return l }

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestLoggedTransport_Send(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	transport := NewLoggedTransportWithClock(testLogger{}, fixedClock{now: now})

	msgID, err := transport.Send(context.Background(), types.SendInput{
		To:      "p@example.com",
		From:    types.SenderIdentity{Address: "noreply@sympoazzi.com"},
		Subject: "Test",
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msgID, "dev-mode-"), "msgID %q", msgID)
	assert.Equal(t, "dev-mode-"+strconv.FormatInt(now.UnixNano(), 10), msgID)
}

func TestLoggedTransport_Mode(t *testing.T) {
	transport := NewLoggedTransport(testLogger{})
	assert.Equal(t, types.ModeLogged, transport.Mode())
}

func TestLoggedTransport_AlwaysSucceeds(t *testing.T) {
	transport := NewLoggedTransport(testLogger{})
	for i := 0; i < 3; i++ {
		_, err := transport.Send(context.Background(), types.SendInput{To: "p@example.com"})
		require.NoError(t, err)
	}
}
