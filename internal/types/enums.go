package types

// TemplateType tags a Message with the kind of notification it carries.
// The tag is recorded on the EmailLog audit record and selects the template
// used to render the body.
type TemplateType string

const (
	TemplateRegistrationApproved TemplateType = "registration_approved"
	TemplateCredentials          TemplateType = "credentials"
	TemplateTestStartReminder    TemplateType = "test_start_reminder"
	TemplateResultPublished      TemplateType = "result_published"
	TemplateOversightSummary     TemplateType = "oversight_summary"
)

// DeliveryOutcome is the final outcome of a Deliver call.
type DeliveryOutcome string

const (
	OutcomeSuccess DeliveryOutcome = "success"
	OutcomeFailure DeliveryOutcome = "failure"
)

// EmailLogStatus is the status recorded on an EmailLog audit record.
type EmailLogStatus string

const (
	EmailLogSent   EmailLogStatus = "sent"
	EmailLogFailed EmailLogStatus = "failed"
)

// TransportMode is the process-wide delivery mode, resolved once at startup
// from the presence of SMTP credentials and fixed for the process lifetime.
type TransportMode string

const (
	// ModeLive performs real SMTP sends.
	ModeLive TransportMode = "live"
	// ModeLogged simulates sends and only records them to the log. Selected
	// when no SMTP credentials are configured so the surrounding application
	// stays functional in constrained environments.
	ModeLogged TransportMode = "logged"
)

// User roles known to the directory. The mailer only cares about the
// oversight role, but the full set is listed for completeness.
const (
	RoleSuperAdmin  = "super_admin"
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)
