package helpers

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, logrus.DebugLevel, newLogger(&buf, "app", "development", "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(&buf, "app", "production", "").GetLevel())
	assert.Equal(t, logrus.WarnLevel, newLogger(&buf, "app", "production", "warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(&buf, "app", "production", "loud").GetLevel())
}

func TestSafeFields(t *testing.T) {
	out := SafeFields(logrus.Fields{"email": "a@b.com", "password": "x", "confirm_password": "x"})
	assert.Equal(t, "a@b.com", out["email"])
	assert.Equal(t, "[redacted]", out["password"])
	assert.Equal(t, "[redacted]", out["confirm_password"])
}
