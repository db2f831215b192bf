package mailer

import "strings"

// RedactEmail masks an email address for log output. PII never reaches the
// structured logs in full: only the first character of the local part and
// the domain survive.
func RedactEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***"
	}

	local := parts[0]
	domain := parts[1]

	if len(local) == 0 {
		return "***@" + domain
	}

	return string(local[0]) + "***@" + domain
}
