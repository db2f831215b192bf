// Package config defines the global configuration structure for the
// SympoAzzi mailer service. Configuration is loaded once at process
// initialization and is immutable thereafter; in particular the transport
// mode (live vs logged) is resolved here exactly once and never re-evaluated
// per call.
package config

import (
	"time"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the mailer service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"sympoazzi-mailer"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Server    ServerConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Delivery  DeliveryConfig
	Oversight OversightConfig
	Archive   ArchiveConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
// The URL may be empty: the service then runs without a persistent audit
// store or user directory (log-only collaborators are substituted).
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL"`

	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// SMTPConfig holds the SMTP relay coordinates and credentials. The presence
// of Host, Username, and Password together selects live mode; any of them
// missing selects logged mode.
type SMTPConfig struct {
	Host     string       `envconfig:"SMTP_HOST"`
	Port     int          `envconfig:"SMTP_PORT" default:"587"`
	Username string       `envconfig:"SMTP_USERNAME"`
	Password SecretString `envconfig:"SMTP_PASSWORD"`

	FromAddress string `envconfig:"SMTP_FROM" default:"noreply@sympoazzi.com"`
	FromName    string `envconfig:"SMTP_FROM_NAME" default:"SympoAzzi"`

	// InsecureSkipVerify relaxes certificate validation on the TLS
	// connection to the relay. Needed for some institutional relays with
	// self-signed certificates.
	InsecureSkipVerify bool `envconfig:"SMTP_INSECURE_SKIP_VERIFY" default:"false"`

	// SendTimeout bounds the full dial-and-send exchange with the relay.
	SendTimeout time.Duration `envconfig:"SMTP_SEND_TIMEOUT" default:"60s"`
}

// Mode resolves the transport mode from the presence of credentials.
func (c SMTPConfig) Mode() types.TransportMode {
	if c.Host != "" && c.Username != "" && c.Password.Unmask() != "" {
		return types.ModeLive
	}
	return types.ModeLogged
}

// ImplicitTLS reports whether the configured port uses implicit TLS
// (SMTPS on 465) rather than an explicit STARTTLS upgrade.
func (c SMTPConfig) ImplicitTLS() bool {
	return c.Port == 465
}

// Sender returns the resolved sender identity.
func (c SMTPConfig) Sender() types.SenderIdentity {
	return types.SenderIdentity{Address: c.FromAddress, Name: c.FromName}
}

// DeliveryConfig holds the retry policy inputs for the delivery path.
type DeliveryConfig struct {
	MaxAttempts int           `envconfig:"MAIL_MAX_ATTEMPTS" default:"3" validate:"min=1"`
	BaseDelay   time.Duration `envconfig:"MAIL_RETRY_BASE_DELAY" default:"1s"`
	MaxDelay    time.Duration `envconfig:"MAIL_RETRY_MAX_DELAY" default:"30s"`
	// BackgroundWorkers bounds the pool that runs audit appends and
	// oversight notifications off the caller's path.
	BackgroundWorkers int `envconfig:"MAIL_BACKGROUND_WORKERS" default:"4" validate:"min=1"`
}

// OversightConfig controls the secondary oversight notification.
type OversightConfig struct {
	Enabled bool `envconfig:"OVERSIGHT_NOTIFICATIONS" default:"true"`
}

// ArchiveConfig holds the audit archiver settings.
type ArchiveConfig struct {
	Retention time.Duration `envconfig:"AUDIT_RETENTION" default:"2160h"` // 90 days
	BatchSize int           `envconfig:"AUDIT_ARCHIVE_BATCH" default:"500" validate:"min=1"`
	OutputDir string        `envconfig:"AUDIT_ARCHIVE_DIR" default:"./archive"`
}
