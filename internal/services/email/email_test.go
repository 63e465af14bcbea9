package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civickit/ballotbox/internal/config"
	"github.com/civickit/ballotbox/internal/services/email"
)

func TestNewService_RequiresHostOutsideDevMode(t *testing.T) {
	_, err := email.NewService(&config.SMTPConfig{From: "noreply@example.com"}, "http://localhost")
	assert.Error(t, err)

	_, err = email.NewService(&config.SMTPConfig{From: "noreply@example.com", DevMode: true}, "http://localhost")
	assert.NoError(t, err)

	_, err = email.NewService(&config.SMTPConfig{Host: "smtp.example.com"}, "http://localhost")
	assert.Error(t, err, "from address is mandatory")
}

func TestResetLink(t *testing.T) {
	svc, err := email.NewService(&config.SMTPConfig{From: "noreply@example.com", DevMode: true},
		"http://localhost:8080/")
	require.NoError(t, err)

	// Trailing slash on the base URL does not double up.
	assert.Equal(t, "http://localhost:8080/reset-password?token=abc", svc.ResetLink("abc"))
}

func TestDevLink(t *testing.T) {
	dev, err := email.NewService(&config.SMTPConfig{From: "noreply@example.com", DevMode: true},
		"http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/reset-password?token=abc", dev.DevLink("abc"))

	prod, err := email.NewService(&config.SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"},
		"http://localhost:8080")
	require.NoError(t, err)
	assert.Empty(t, prod.DevLink("abc"))
}
