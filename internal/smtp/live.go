package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/textproto"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"gopkg.in/gomail.v2"

	"github.com/mohamedazzim/SympoAzzi/internal/config"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// breakerName identifies the SMTP circuit breaker in its state-change logs.
const breakerName = "smtp-relay"

// SMTPTransport is the live Transport implementation. It dials the
// configured relay via gomail and routes every send through a circuit
// breaker so a dead relay fails fast instead of tying up delivery
// goroutines in dial timeouts.
type SMTPTransport struct {
	dialer      *gomail.Dialer
	breaker     *gobreaker.CircuitBreaker[string]
	host        string
	port        int
	sendTimeout time.Duration
	logger      types.Logger
}

// NewSMTPTransport creates a live transport from the SMTP configuration.
// Port 465 selects implicit TLS (SMTPS); other ports use an explicit
// STARTTLS upgrade, which is gomail's default behavior.
func NewSMTPTransport(cfg config.SMTPConfig, logger types.Logger) *SMTPTransport {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password.Unmask())
	d.SSL = cfg.ImplicitTLS()
	if cfg.InsecureSkipVerify {
		logger.Warn("certificate verification disabled for SMTP relay",
			"host", cfg.Host,
			"port", cfg.Port,
		)
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host}
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("SMTP circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 60 * time.Second
	}

	return &SMTPTransport{
		dialer:      d,
		breaker:     cb,
		host:        cfg.Host,
		port:        cfg.Port,
		sendTimeout: sendTimeout,
		logger:      logger.With("transport", "smtp", "host", cfg.Host, "port", cfg.Port),
	}
}

// Mode reports that this transport performs real sends.
func (t *SMTPTransport) Mode() types.TransportMode {
	return types.ModeLive
}

// Send builds the MIME message, assigns a Message-ID, and transmits it
// through the relay. The dial-and-send sequence is bounded by the configured
// send timeout; SMTP has no context support, so the call runs in its own
// goroutine and is abandoned on deadline (the connection is torn down by the
// dialer's own timeouts).
func (t *SMTPTransport) Send(ctx context.Context, input types.SendInput) (string, error) {
	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), t.host)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", input.From.Address, input.From.Name)
	m.SetHeader("To", input.To)
	m.SetHeader("Subject", input.Subject)
	m.SetHeader("Message-ID", msgID)
	if input.ReferenceID != "" {
		m.SetHeader("X-SympoAzzi-Reference", input.ReferenceID)
	}
	m.SetBody("text/html", input.BodyHTML)

	id, err := t.breaker.Execute(func() (string, error) {
		if err := t.dialAndSend(ctx, m); err != nil {
			return "", err
		}
		return msgID, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &types.TransportError{
				Host: t.host,
				Port: t.port,
				Err:  fmt.Errorf("relay unavailable: %w", err),
			}
		}
		return "", t.wrapErr(err)
	}

	return id, nil
}

// dialAndSend runs the blocking gomail send under the send-timeout deadline.
func (t *SMTPTransport) dialAndSend(ctx context.Context, m *gomail.Message) error {
	ctx, cancel := context.WithTimeout(ctx, t.sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- t.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("connection timeout after %s: %w", t.sendTimeout, ctx.Err())
	}
}

// wrapErr attaches the relay coordinates and, when present, the structured
// SMTP reply code to a raw transport failure. net/smtp surfaces protocol
// errors as *textproto.Error.
func (t *SMTPTransport) wrapErr(err error) *types.TransportError {
	var tpErr *textproto.Error
	code := 0
	if errors.As(err, &tpErr) {
		code = tpErr.Code
	}
	return &types.TransportError{
		Code: code,
		Host: t.host,
		Port: t.port,
		Err:  err,
	}
}

// Compile-time assertion that SMTPTransport implements Transport.
var _ Transport = (*SMTPTransport)(nil)
