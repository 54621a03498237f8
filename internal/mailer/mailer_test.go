package mailer

import (
	"io"
	"testing"

	"lexdesk/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewWithoutSMTPHostIsDisabled(t *testing.T) {
	m := New(&types.Config{}, testLogger())

	assert.False(t, m.Enabled())

	// Sends on a disabled mailer are silent no-ops; none of these may
	// panic or block.
	m.ClientCreated("client@example.com", "Rohan Mehta", "Priya Raman")
	m.DocumentUploaded("client@example.com", "CS/2026/0142", "petition.pdf")
	m.ClientDeleted("client@example.com", "Rohan Mehta")
}

func TestNewWithSMTPHostIsEnabled(t *testing.T) {
	cfg := &types.Config{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		EmailFrom: "no-reply@lexdesk.app",
	}

	m := New(cfg, testLogger())

	assert.True(t, m.Enabled())
}
