package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCmd_Usage rejects a missing data file argument.
func TestRootCmd_Usage(t *testing.T) {
	var stderr bytes.Buffer

	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(&stderr)
	rootCmd.SetArgs([]string{})

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, stderr.String(), "Usage:")
}

// TestRootCmd_NothingToPack succeeds and leaves the companion file alone.
func TestRootCmd_NothingToPack(t *testing.T) {
	t.Setenv("EMSCRIPTEN", "")

	dir := t.TempDir()
	chdir(t, dir)

	html := []byte("<head>{{{ PRELOAD }}}</head>")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.html"), html, 0o600))

	rootCmd.SetArgs([]string{"app.data"})
	require.NoError(t, rootCmd.Execute())

	contents, err := os.ReadFile(filepath.Join(dir, "app.html"))
	require.NoError(t, err)
	require.Equal(t, html, contents)
}

// TestRootCmd_CompanionMissing reports the precondition error.
func TestRootCmd_CompanionMissing(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "embed"), 0o755))

	var stderr bytes.Buffer

	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"app.data"})

	err := rootCmd.Execute()
	require.ErrorContains(t, err, "companion HTML file is missing")
	require.NotContains(t, stderr.String(), "Usage:")
}

// chdir changes the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
