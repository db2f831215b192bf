package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRegistrationApproved(t *testing.T) {
	body, err := RenderRegistrationApproved(RegistrationApprovedParams{
		FullName:     "Priya N",
		EventName:    "TechFest 2026",
		Username:     "priya01",
		Password:     "s3cret",
		BrandingName: "SympoAzzi",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Priya N")
	assert.Contains(t, body, "TechFest 2026")
	assert.Contains(t, body, "priya01")
	assert.Contains(t, body, "s3cret")
	assert.Contains(t, body, "SympoAzzi")
}

func TestRenderTemplates_EscapeHTML(t *testing.T) {
	// Untrusted input must not inject markup into the rendered body.
	body, err := RenderCredentials(CredentialsParams{
		FullName:  "<script>alert(1)</script>",
		EventName: "TechFest",
		Username:  "u",
		Password:  "p",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestRenderTestStartReminder(t *testing.T) {
	body, err := RenderTestStartReminder(TestStartReminderParams{
		FullName:     "Priya N",
		EventName:    "TechFest 2026",
		StartsAt:     "Mon, 01 Sep 2026 09:00 UTC",
		BrandingName: "SympoAzzi",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Mon, 01 Sep 2026 09:00 UTC")
}

func TestRenderResultPublished(t *testing.T) {
	body, err := RenderResultPublished(ResultPublishedParams{
		FullName:  "Priya N",
		EventName: "TechFest 2026",
		Score:     "92",
		Rank:      "4",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "92")
	assert.Contains(t, body, "4")
}

func TestRenderOversightSummary(t *testing.T) {
	body, err := RenderOversightSummary(OversightSummaryParams{
		AdminName:     "Admin A",
		EventName:     "TechFest 2026",
		Recipient:     "p@example.com",
		RecipientName: "Priya N",
		TemplateType:  "registration_approved",
		Outcome:       "sent",
		Details:       "Registration Approved - TechFest 2026",
		BrandingName:  "SympoAzzi",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Admin A")
	assert.Contains(t, body, "p@example.com")
	assert.Contains(t, body, "registration_approved")
	assert.Contains(t, body, "sent")
}
