package mailer

import (
	"context"
	"time"

	"github.com/mohamedazzim/SympoAzzi/internal/metrics"
	"github.com/mohamedazzim/SympoAzzi/internal/smtp"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// RetryPolicy defines the exponential backoff parameters for delivery
// retries. MaxAttempts counts the first attempt: MaxAttempts=3 means one
// send plus up to two retries.
type RetryPolicy struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy yields backoff delays of 1s, 2s, 4s, ...
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:   3,
	BaseDelay:     1 * time.Second,
	MaxDelay:      30 * time.Second,
	BackoffFactor: 2.0,
}

// CalculateBackoff computes the delay after the given failed attempt
// (1-based): delay = min(BaseDelay * BackoffFactor^(attempt-1), MaxDelay).
func CalculateBackoff(policy RetryPolicy, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(policy.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= policy.BackoffFactor
	}

	d := time.Duration(delay)
	if d > policy.MaxDelay || d < 0 {
		d = policy.MaxDelay
	}
	return d
}

// Scheduler drives bounded delivery attempts against a transport. Retry
// state is local to each Attempt call: concurrent deliveries run their own
// independent backoff timers.
type Scheduler struct {
	transport smtp.Transport
	policy    RetryPolicy
	logger    types.Logger
	sleep     func(time.Duration)
}

// NewScheduler creates a Scheduler with the given transport and policy.
// A zero-valued policy falls back to DefaultRetryPolicy.
func NewScheduler(transport smtp.Transport, policy RetryPolicy, logger types.Logger) *Scheduler {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy
	}
	return &Scheduler{
		transport: transport,
		policy:    policy,
		logger:    logger,
		sleep:     time.Sleep,
	}
}

// Attempt sends the message, retrying transient failures with exponential
// backoff up to the policy's MaxAttempts. It never returns a raw transport
// error: the outcome is encoded in the result value, with RetryCount set to
// the number of retries consumed before the final outcome.
func (s *Scheduler) Attempt(ctx context.Context, input types.SendInput, templateType types.TemplateType) types.DeliveryAttemptResult {
	for attempt := 1; ; attempt++ {
		msgID, err := s.transport.Send(ctx, input)
		if err == nil {
			if attempt > 1 {
				s.logger.Info("delivery succeeded after retry",
					"to", RedactEmail(input.To),
					"attempt", attempt,
				)
			}
			metrics.MailSendSuccess.WithLabelValues(string(templateType), string(s.transport.Mode())).Inc()
			return types.DeliveryAttemptResult{
				Outcome:            types.OutcomeSuccess,
				TransportMessageID: msgID,
				RetryCount:         attempt - 1,
			}
		}

		cls := Classify(err)
		if IsRetryable(err) && attempt < s.policy.MaxAttempts {
			delay := CalculateBackoff(s.policy, attempt)
			s.logger.Warn("transient delivery failure, retrying",
				"to", RedactEmail(input.To),
				"attempt", attempt,
				"category", string(cls.Category),
				"delay", delay.String(),
			)
			metrics.MailRetries.Inc()
			s.sleep(delay)
			continue
		}

		diagnostic := cls.Diagnostic(err)
		s.logger.Error("delivery failed",
			"to", RedactEmail(input.To),
			"attempts", attempt,
			"category", string(cls.Category),
			"diagnostic", diagnostic,
		)
		metrics.MailSendFailure.WithLabelValues(string(templateType), string(cls.Category)).Inc()
		return types.DeliveryAttemptResult{
			Outcome:    types.OutcomeFailure,
			Category:   string(cls.Category),
			Diagnostic: diagnostic,
			RetryCount: attempt - 1,
		}
	}
}
