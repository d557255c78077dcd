package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpack/internal/adapters/fs"
)

func TestVerifier_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	verifier := fs.NewVerifier()
	writeFile(t, tmpDir, "css/app.css", "content")

	exists, err := verifier.Exists(tmpDir, "/css/app.css")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = verifier.Exists(tmpDir, "/css/missing.css")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = verifier.Exists(tmpDir, "/css")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWriter_Write(t *testing.T) {
	tmpDir := t.TempDir()
	writer := fs.NewWriter()

	p, err := writer.Write(tmpDir, "/css/app.0123456789abcdef.css", []byte("body{}"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "css", "app.0123456789abcdef.css"), p)

	content, err := os.ReadFile(p) //nolint:gosec // Test path
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(content))

	// Overwrites in place without leaving temporary files behind.
	_, err = writer.Write(tmpDir, "/css/app.0123456789abcdef.css", []byte("p{}"))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(tmpDir, "css"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
