package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetpack/internal/core/domain"
)

func TestBuildStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.BuildStatus
		isTerminal bool
	}{
		{"Pending", domain.BuildStatusPending, false},
		{"Built", domain.BuildStatusBuilt, true},
		{"Cached", domain.BuildStatusCached, true},
		{"Failed", domain.BuildStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestNormalizeBuildStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.BuildStatus
	}{
		{"pending", domain.BuildStatusPending},
		{"BUILT", domain.BuildStatusBuilt},
		{"cached", domain.BuildStatusCached},
		{"failed", domain.BuildStatusFailed},
		{"unknown", domain.BuildStatusPending},
		{"", domain.BuildStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeBuildStatus(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    domain.LogLevel
		expected string
	}{
		{domain.LogLevelDebug, "DEBUG"},
		{domain.LogLevelInfo, "INFO"},
		{domain.LogLevelWarn, "WARN"},
		{domain.LogLevelError, "ERROR"},
		{domain.LogLevel(999), "INFO"}, // Default case
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}
