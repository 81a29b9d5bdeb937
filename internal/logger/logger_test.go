package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env     string
		debugOn bool
	}{
		{"production", false},
		{"development", true},
		{"", true},
	}

	for _, tc := range tests {
		t.Run("env="+tc.env, func(t *testing.T) {
			log := New(tc.env)
			assert.NotNil(t, log)
			assert.Equal(t, tc.debugOn, log.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestNamed(t *testing.T) {
	log := New("development")
	child := Named(log, "handler")
	assert.NotNil(t, child)
	assert.NotSame(t, log, child)
}
