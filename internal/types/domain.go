package types

import "time"

// Message is a fully rendered outbound notification. It is immutable once
// constructed; the builders in the mailer package are the only producers.
type Message struct {
	To           string
	Subject      string
	BodyHTML     string
	TemplateType TemplateType
	// Metadata is an open mapping carried through to the audit record
	// (e.g. eventName, score, rank). Never interpreted by the delivery path.
	Metadata map[string]any
}

// SenderIdentity is the resolved From address and display name.
type SenderIdentity struct {
	Address string
	Name    string
}

// SendInput is the transport-level send request: a pre-rendered message plus
// the resolved sender. ReferenceID correlates the send with the audit trail.
type SendInput struct {
	To          string
	From        SenderIdentity
	Subject     string
	BodyHTML    string
	ReferenceID string
}

// DeliveryAttemptResult is the outcome of one Deliver call. Produced exactly
// once per call and never mutated afterwards.
type DeliveryAttemptResult struct {
	Outcome DeliveryOutcome
	// TransportMessageID is set iff Outcome is OutcomeSuccess.
	TransportMessageID string
	// Category and Diagnostic are set iff Outcome is OutcomeFailure.
	// Diagnostic is operator-facing: it names the category and, where
	// available, the offending host/port or credential field.
	Category   string
	Diagnostic string
	// RetryCount is the number of retries consumed before the final outcome
	// (0 means the first attempt decided the result).
	RetryCount int
}

// EmailLog is the immutable audit record appended once per Deliver call.
type EmailLog struct {
	ID            string
	Recipient     string
	RecipientName string
	Subject       string
	TemplateType  TemplateType
	Status        EmailLogStatus
	// Metadata includes the message metadata plus delivery details such as
	// retryCount.
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// User is the directory collaborator's view of a platform user. The mailer
// uses it to locate the oversight recipient.
type User struct {
	ID       string
	Email    string
	FullName string
	Role     string
}

// EmailResult is the caller-visible subset of DeliveryAttemptResult returned
// by the high-level send operations. RetryCount and Category stay internal.
type EmailResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
