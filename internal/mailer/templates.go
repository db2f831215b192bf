package mailer

import (
	"bytes"
	_ "embed"
	"html/template"
)

// Template parameter structs. Rendering is pure string-building; all
// decision logic stays in the delivery path.

type RegistrationApprovedParams struct {
	FullName     string
	EventName    string
	Username     string
	Password     string
	BrandingName string
}

type CredentialsParams struct {
	FullName     string
	EventName    string
	Username     string
	Password     string
	BrandingName string
}

type TestStartReminderParams struct {
	FullName     string
	EventName    string
	StartsAt     string
	BrandingName string
}

type ResultPublishedParams struct {
	FullName     string
	EventName    string
	Score        string
	Rank         string
	BrandingName string
}

type OversightSummaryParams struct {
	AdminName     string
	EventName     string
	Recipient     string
	RecipientName string
	TemplateType  string
	// Outcome is the delivery outcome word shown to the admin ("sent" or
	// "failed").
	Outcome      string
	Details      string
	BrandingName string
}

var (
	registrationApprovedTemplate = template.New("registrationApproved")
	credentialsTemplate          = template.New("credentials")
	testStartReminderTemplate    = template.New("testStartReminder")
	resultPublishedTemplate      = template.New("resultPublished")
	oversightSummaryTemplate     = template.New("oversightSummary")

	//go:embed templates/registration_approved.html
	registrationApprovedRaw string
	//go:embed templates/credentials.html
	credentialsRaw string
	//go:embed templates/test_start_reminder.html
	testStartReminderRaw string
	//go:embed templates/result_published.html
	resultPublishedRaw string
	//go:embed templates/oversight_summary.html
	oversightSummaryRaw string
)

func init() {
	if _, err := registrationApprovedTemplate.Parse(registrationApprovedRaw); err != nil {
		panic(err)
	}
	if _, err := credentialsTemplate.Parse(credentialsRaw); err != nil {
		panic(err)
	}
	if _, err := testStartReminderTemplate.Parse(testStartReminderRaw); err != nil {
		panic(err)
	}
	if _, err := resultPublishedTemplate.Parse(resultPublishedRaw); err != nil {
		panic(err)
	}
	if _, err := oversightSummaryTemplate.Parse(oversightSummaryRaw); err != nil {
		panic(err)
	}
}

func render(t *template.Template, p any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderRegistrationApproved renders the registration-approval body.
func RenderRegistrationApproved(p RegistrationApprovedParams) (string, error) {
	return render(registrationApprovedTemplate, p)
}

// RenderCredentials renders the credentials-issued body.
func RenderCredentials(p CredentialsParams) (string, error) {
	return render(credentialsTemplate, p)
}

// RenderTestStartReminder renders the test-start reminder body.
func RenderTestStartReminder(p TestStartReminderParams) (string, error) {
	return render(testStartReminderTemplate, p)
}

// RenderResultPublished renders the result-published body.
func RenderResultPublished(p ResultPublishedParams) (string, error) {
	return render(resultPublishedTemplate, p)
}

// RenderOversightSummary renders the oversight notification body.
func RenderOversightSummary(p OversightSummaryParams) (string, error) {
	return render(oversightSummaryTemplate, p)
}
