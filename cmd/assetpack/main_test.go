package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpack/internal/app"
)

func graftProvider(ctx context.Context) (*app.Components, func(), error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	return c, func() {}, err
}

func TestRun_ProviderError(t *testing.T) {
	stderr := &bytes.Buffer{}
	code := run(context.Background(), []string{"build"}, &bytes.Buffer{}, stderr,
		func(context.Context) (*app.Components, func(), error) {
			return nil, nil, errors.New("wiring failed")
		})

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: wiring failed\n", stderr.String())
}

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "assetpack.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`version: "1"
packages:
  app: { type: js, path: /js/app.js, files: [/js/*.js] }
`), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "js"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "js", "a.js"), []byte("var a = 1;"), 0o600))

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{name: "version", args: []string{"version"}, expectedExit: 0},
		{name: "build", args: []string{"build", "--config", configPath}, expectedExit: 0},
		{name: "render", args: []string{"render", "app", "--config", configPath}, expectedExit: 0},
		{name: "unknown package", args: []string{"build", "missing", "--config", configPath}, expectedExit: 1},
		{name: "invalid env", args: []string{"status", "--env", "staging", "--config", configPath}, expectedExit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			code := run(context.Background(), tt.args, stdout, &bytes.Buffer{}, graftProvider)
			assert.Equal(t, tt.expectedExit, code, stdout.String())
		})
	}

	_, err := os.Stat(filepath.Join(tmpDir, "public", ".assetpack", "manifest.json"))
	require.NoError(t, err)
}
