package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mohamedazzim/SympoAzzi/internal/metrics"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// backgroundTimeout bounds each audit/oversight task so a hung database or
// relay cannot pin a pool worker forever.
const backgroundTimeout = 30 * time.Second

// Mailer is the delivery orchestrator. Each high-level send operation renders
// its template, runs the bounded retry loop synchronously, and hands the
// audit append plus the oversight notification to the background pool. The
// caller gets back a plain result value; no error escapes as a panic or a
// raw transport failure.
type Mailer struct {
	scheduler *Scheduler
	pool      *TaskPool
	audit     types.AuditStore
	oversight *OversightNotifier
	sender    types.SenderIdentity
	branding  string
	clock     types.Clock
	logger    types.Logger
}

// MailerOptions collects the collaborators for NewMailer. Oversight may be
// nil to disable the secondary notification entirely.
type MailerOptions struct {
	Scheduler *Scheduler
	Pool      *TaskPool
	Audit     types.AuditStore
	Oversight *OversightNotifier
	Sender    types.SenderIdentity
	Branding  string
	Clock     types.Clock
	Logger    types.Logger
}

// NewMailer creates the orchestrator. A nil Clock falls back to the system
// clock.
func NewMailer(opts MailerOptions) *Mailer {
	clock := opts.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	branding := opts.Branding
	if branding == "" {
		branding = opts.Sender.Name
	}
	return &Mailer{
		scheduler: opts.Scheduler,
		pool:      opts.Pool,
		audit:     opts.Audit,
		oversight: opts.Oversight,
		sender:    opts.Sender,
		branding:  branding,
		clock:     clock,
		logger:    opts.Logger,
	}
}

// Deliver sends a fully rendered message and returns the caller-visible
// result. Exactly one audit record is appended per call, regardless of
// outcome; the append and the oversight notification run in the background
// and add no latency to the caller.
func (m *Mailer) Deliver(ctx context.Context, msg types.Message, recipientName string) types.EmailResult {
	input := types.SendInput{
		To:          msg.To,
		From:        m.sender,
		Subject:     msg.Subject,
		BodyHTML:    msg.BodyHTML,
		ReferenceID: uuid.NewString(),
	}

	result := m.scheduler.Attempt(ctx, input, msg.TemplateType)

	m.pool.Submit("post-delivery", func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		m.appendAudit(bgCtx, msg, recipientName, result)

		// The super-admin hears about every delivery, failed ones included.
		if m.oversight != nil {
			m.oversight.Notify(bgCtx, msg, recipientName, result.Outcome)
		}
	})

	if result.Outcome == types.OutcomeSuccess {
		return types.EmailResult{Success: true, MessageID: result.TransportMessageID}
	}
	return types.EmailResult{Success: false, Error: result.Diagnostic}
}

// appendAudit writes the single audit record for a delivery. Store failures
// are logged and counted, never propagated: the caller already has its
// result by the time this runs.
func (m *Mailer) appendAudit(ctx context.Context, msg types.Message, recipientName string, result types.DeliveryAttemptResult) {
	status := types.EmailLogSent
	errMsg := ""
	if result.Outcome == types.OutcomeFailure {
		status = types.EmailLogFailed
		errMsg = result.Diagnostic
	}

	metadata := make(map[string]any, len(msg.Metadata)+2)
	for k, v := range msg.Metadata {
		metadata[k] = v
	}
	metadata["retryCount"] = result.RetryCount
	if result.TransportMessageID != "" {
		metadata["messageId"] = result.TransportMessageID
	}

	entry := &types.EmailLog{
		ID:            uuid.NewString(),
		Recipient:     msg.To,
		RecipientName: recipientName,
		Subject:       msg.Subject,
		TemplateType:  msg.TemplateType,
		Status:        status,
		Metadata:      metadata,
		ErrorMessage:  errMsg,
		CreatedAt:     m.clock.Now(),
	}

	if err := m.audit.Append(ctx, entry); err != nil {
		metrics.AuditAppendFailures.Inc()
		m.logger.Error("audit append failed",
			"recipient", RedactEmail(msg.To),
			"template_type", string(msg.TemplateType),
			"error", err.Error(),
		)
	}
}

// renderFailure is the shared fallback when a template cannot be rendered.
// The operation still produces its audit record.
func (m *Mailer) renderFailure(msg types.Message, recipientName string, err error) types.EmailResult {
	m.logger.Error("template rendering failed",
		"template_type", string(msg.TemplateType),
		"error", err.Error(),
	)

	m.pool.Submit("render-failure-audit", func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		m.appendAudit(bgCtx, msg, recipientName, types.DeliveryAttemptResult{
			Outcome:    types.OutcomeFailure,
			Category:   string(CategoryUnknown),
			Diagnostic: "internal error rendering the email template",
		})
	})

	return types.EmailResult{Success: false, Error: "internal error rendering the email template"}
}

// SendRegistrationApproved notifies a participant that their registration was
// approved and hands over their generated credentials.
func (m *Mailer) SendRegistrationApproved(ctx context.Context, email, fullName, eventName, username, password string) types.EmailResult {
	msg := types.Message{
		To:           email,
		Subject:      fmt.Sprintf("Registration Approved - %s", eventName),
		TemplateType: types.TemplateRegistrationApproved,
		Metadata: map[string]any{
			"eventName": eventName,
			"username":  username,
		},
	}

	body, err := RenderRegistrationApproved(RegistrationApprovedParams{
		FullName:     fullName,
		EventName:    eventName,
		Username:     username,
		Password:     password,
		BrandingName: m.branding,
	})
	if err != nil {
		return m.renderFailure(msg, fullName, err)
	}
	msg.BodyHTML = body

	return m.Deliver(ctx, msg, fullName)
}

// SendCredentials re-sends a participant's login credentials.
func (m *Mailer) SendCredentials(ctx context.Context, email, fullName, eventName, username, password string) types.EmailResult {
	msg := types.Message{
		To:           email,
		Subject:      fmt.Sprintf("Your Login Credentials - %s", eventName),
		TemplateType: types.TemplateCredentials,
		Metadata: map[string]any{
			"eventName": eventName,
			"username":  username,
		},
	}

	body, err := RenderCredentials(CredentialsParams{
		FullName:     fullName,
		EventName:    eventName,
		Username:     username,
		Password:     password,
		BrandingName: m.branding,
	})
	if err != nil {
		return m.renderFailure(msg, fullName, err)
	}
	msg.BodyHTML = body

	return m.Deliver(ctx, msg, fullName)
}

// SendTestStartReminder reminds a participant that their test starts soon.
func (m *Mailer) SendTestStartReminder(ctx context.Context, email, fullName, eventName string, startsAt time.Time) types.EmailResult {
	startsAtText := startsAt.UTC().Format("Mon, 02 Jan 2006 15:04 MST")

	msg := types.Message{
		To:           email,
		Subject:      fmt.Sprintf("Test Starting Soon - %s", eventName),
		TemplateType: types.TemplateTestStartReminder,
		Metadata: map[string]any{
			"eventName": eventName,
			"startsAt":  startsAtText,
		},
	}

	body, err := RenderTestStartReminder(TestStartReminderParams{
		FullName:     fullName,
		EventName:    eventName,
		StartsAt:     startsAtText,
		BrandingName: m.branding,
	})
	if err != nil {
		return m.renderFailure(msg, fullName, err)
	}
	msg.BodyHTML = body

	return m.Deliver(ctx, msg, fullName)
}

// SendResultPublished notifies a participant that their results are out.
func (m *Mailer) SendResultPublished(ctx context.Context, email, fullName, eventName, score, rank string) types.EmailResult {
	msg := types.Message{
		To:           email,
		Subject:      fmt.Sprintf("Results Published - %s", eventName),
		TemplateType: types.TemplateResultPublished,
		Metadata: map[string]any{
			"eventName": eventName,
			"score":     score,
			"rank":      rank,
		},
	}

	body, err := RenderResultPublished(ResultPublishedParams{
		FullName:     fullName,
		EventName:    eventName,
		Score:        score,
		Rank:         rank,
		BrandingName: m.branding,
	})
	if err != nil {
		return m.renderFailure(msg, fullName, err)
	}
	msg.BodyHTML = body

	return m.Deliver(ctx, msg, fullName)
}
