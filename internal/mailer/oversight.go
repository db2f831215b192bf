package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mohamedazzim/SympoAzzi/internal/metrics"
	"github.com/mohamedazzim/SympoAzzi/internal/smtp"
	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// OversightNotifier sends a secondary copy-style notification to the platform
// super-admin after every delivery, successful or not. It is deliberately
// simpler than the primary delivery path: one direct transport send, no retry
// loop, no audit record. Failures are logged and swallowed; oversight must
// never affect a caller-visible outcome.
type OversightNotifier struct {
	transport smtp.Transport
	directory types.Directory
	sender    types.SenderIdentity
	branding  string
	logger    types.Logger
}

// NewOversightNotifier creates an OversightNotifier.
func NewOversightNotifier(transport smtp.Transport, directory types.Directory, sender types.SenderIdentity, branding string, logger types.Logger) *OversightNotifier {
	return &OversightNotifier{
		transport: transport,
		directory: directory,
		sender:    sender,
		branding:  branding,
		logger:    logger,
	}
}

// Notify looks up the super-admin and sends them a summary of the delivery
// that just happened, whatever its outcome. All failure paths return without
// error: a missing super-admin, a directory lookup failure, and a transport
// failure are each logged at warn level and dropped.
func (o *OversightNotifier) Notify(ctx context.Context, msg types.Message, recipientName string, outcome types.DeliveryOutcome) {
	metrics.OversightNotified.Inc()

	outcomeWord := "sent"
	if outcome == types.OutcomeFailure {
		outcomeWord = "failed"
	}

	admin, err := o.findSuperAdmin(ctx)
	if err != nil {
		metrics.OversightFailures.Inc()
		o.logger.Warn("oversight notification skipped: directory lookup failed", "error", err.Error())
		return
	}
	if admin == nil {
		o.logger.Warn("oversight notification skipped: no super-admin account found")
		return
	}

	eventName, _ := msg.Metadata["eventName"].(string)
	body, err := RenderOversightSummary(OversightSummaryParams{
		AdminName:     admin.FullName,
		EventName:     eventName,
		Recipient:     msg.To,
		RecipientName: recipientName,
		TemplateType:  string(msg.TemplateType),
		Outcome:       outcomeWord,
		Details:       msg.Subject,
		BrandingName:  o.branding,
	})
	if err != nil {
		metrics.OversightFailures.Inc()
		o.logger.Warn("oversight notification skipped: template rendering failed", "error", err.Error())
		return
	}

	input := types.SendInput{
		To:          admin.Email,
		From:        o.sender,
		Subject:     fmt.Sprintf("[Oversight] %s email %s", msg.TemplateType, outcomeWord),
		BodyHTML:    body,
		ReferenceID: uuid.NewString(),
	}

	if _, err := o.transport.Send(ctx, input); err != nil {
		metrics.OversightFailures.Inc()
		o.logger.Warn("oversight notification failed",
			"to", RedactEmail(admin.Email),
			"template_type", string(msg.TemplateType),
			"error", err.Error(),
		)
		return
	}

	o.logger.Info("oversight notification sent",
		"to", RedactEmail(admin.Email),
		"template_type", string(msg.TemplateType),
	)
}

// findSuperAdmin returns the first user holding the super-admin role, or nil
// when the directory has none.
func (o *OversightNotifier) findSuperAdmin(ctx context.Context) (*types.User, error) {
	users, err := o.directory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Role == types.RoleSuperAdmin {
			return &users[i], nil
		}
	}
	return nil, nil
}
