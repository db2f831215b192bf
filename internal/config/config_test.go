package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

func TestSMTPConfig_Mode(t *testing.T) {
	tests := []struct {
		name string
		cfg  SMTPConfig
		want types.TransportMode
	}{
		{
			name: "all credentials present",
			cfg:  SMTPConfig{Host: "smtp.example.com", Username: "mailer", Password: "secret"},
			want: types.ModeLive,
		},
		{
			name: "missing host",
			cfg:  SMTPConfig{Username: "mailer", Password: "secret"},
			want: types.ModeLogged,
		},
		{
			name: "missing username",
			cfg:  SMTPConfig{Host: "smtp.example.com", Password: "secret"},
			want: types.ModeLogged,
		},
		{
			name: "missing password",
			cfg:  SMTPConfig{Host: "smtp.example.com", Username: "mailer"},
			want: types.ModeLogged,
		},
		{
			name: "nothing configured",
			cfg:  SMTPConfig{},
			want: types.ModeLogged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Mode())
		})
	}
}

func TestSMTPConfig_ImplicitTLS(t *testing.T) {
	assert.True(t, SMTPConfig{Port: 465}.ImplicitTLS())
	assert.False(t, SMTPConfig{Port: 587}.ImplicitTLS())
	assert.False(t, SMTPConfig{Port: 25}.ImplicitTLS())
}

func TestSMTPConfig_Sender(t *testing.T) {
	cfg := SMTPConfig{FromAddress: "noreply@sympoazzi.com", FromName: "SympoAzzi"}
	sender := cfg.Sender()
	assert.Equal(t, "noreply@sympoazzi.com", sender.Address)
	assert.Equal(t, "SympoAzzi", sender.Name)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 3, cfg.Delivery.MaxAttempts)
	assert.Equal(t, 4, cfg.Delivery.BackgroundWorkers)
	assert.True(t, cfg.Oversight.Enabled)
	assert.Equal(t, types.ModeLogged, cfg.SMTP.Mode())
}

func TestLoad_LiveModeFromEnvironment(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_FROM", "noreply@sympoazzi.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, types.ModeLive, cfg.SMTP.Mode())
	assert.True(t, cfg.SMTP.ImplicitTLS())
	assert.Equal(t, "secret", cfg.SMTP.Password.Unmask())
}

func TestLoad_InvalidEnvironmentRejected(t *testing.T) {
	t.Setenv("APP_ENV", "production-ish")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "validate", cfgErr.Stage)
}
