package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetpack/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)

	log.Debug("hidden detail")
	log.Info("package built")
	log.Warn("probe failed")
	log.Error(zerr.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden detail")
	assert.Contains(t, out, "level=INFO msg=\"package built\"")
	assert.Contains(t, out, "level=WARN msg=\"probe failed\"")
	assert.Contains(t, out, "level=ERROR msg=\"operation failed\"")
	assert.Contains(t, out, "boom")
}

func TestLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)
	log.SetVerbose(true)

	log.Debug("resolved 3 files")
	assert.Contains(t, buf.String(), "level=DEBUG msg=\"resolved 3 files\"")

	buf.Reset()
	log.SetVerbose(false)
	log.Debug("resolved 3 files")
	assert.Empty(t, buf.String())
}
