package packager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/empkg/internal/config"
	"github.com/oshokin/empkg/internal/domain/bundle"
	"github.com/oshokin/empkg/internal/packer"
	"github.com/oshokin/empkg/internal/repository/artifact"
	"github.com/oshokin/empkg/internal/service/resolver"
)

var errTestPacker = errors.New("test packer error")

// recordingPacker is a minimal Packer that writes placeholder artifacts and remembers its input.
type recordingPacker struct {
	// calls counts Pack invocations.
	calls int
	// names stores the entry names of the last manifest.
	names []string
}

// Pack records the manifest and writes both outputs.
func (r *recordingPacker) Pack(_ context.Context, m *bundle.Manifest, blobPath, loaderPath string) error {
	r.calls++
	r.names = r.names[:0]

	for _, e := range m.Entries() {
		r.names = append(r.names, e.Name)
	}

	if err := os.WriteFile(blobPath, []byte("blob"), 0o600); err != nil {
		return err
	}

	return os.WriteFile(loaderPath, []byte("loader"), 0o600)
}

// memoryArtifact is an in-memory artifact.Repository for tests.
type memoryArtifact struct {
	// content is returned from Load.
	content string
	// writes counts Replace calls.
	writes int
}

// Load returns the stored content.
func (m *memoryArtifact) Load(context.Context) (string, error) {
	return m.content, nil
}

// Replace stores content.
func (m *memoryArtifact) Replace(_ context.Context, content string) error {
	m.content = content
	m.writes++

	return nil
}

// setupTarget creates a staging tree and, optionally, the companion HTML file.
func setupTarget(t *testing.T, withHTML bool) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "embed", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "embed", "a.txt"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "embed", "sub", "b.txt"), []byte("b"), 0o600))

	if withHTML {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.html"),
			[]byte("<head>{{{ PRELOAD }}}</head>"), 0o600))
	}

	return dir
}

// TestRun_PacksPatchesAndReleases covers the successful pipeline.
func TestRun_PacksPatchesAndReleases(t *testing.T) {
	t.Parallel()

	dir := setupTarget(t, true)
	fake := new(recordingPacker)

	report, err := Run(context.Background(), &Options{
		DataFile: filepath.Join(dir, "app.data"),
		Config:   config.Default(),
		Packer:   fake,
	})
	require.NoError(t, err)
	require.True(t, report.Patched)
	require.Equal(t, resolver.SourceStaging, report.Resolution.Kind)
	require.True(t, report.Resolution.Staging.Released())

	require.Equal(t, 1, fake.calls)
	require.Equal(t, []string{"a.txt", "sub/b.txt"}, fake.names)

	html, err := os.ReadFile(filepath.Join(dir, "app.html"))
	require.NoError(t, err)
	require.Equal(t, `<head><script type="text/javascript" src="app.preload.js"></script></head>`, string(html))

	_, err = os.Stat(filepath.Join(dir, "embed"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRun_PackerFailureKeepsStaging leaves HTML and staging untouched on packer failure.
func TestRun_PackerFailureKeepsStaging(t *testing.T) {
	t.Parallel()

	dir := setupTarget(t, true)
	failing := packer.Func(func(context.Context, *bundle.Manifest, string, string) error {
		return errTestPacker
	})

	report, err := Run(context.Background(), &Options{
		DataFile: filepath.Join(dir, "app.data"),
		Config:   config.Default(),
		Packer:   failing,
	})
	require.ErrorIs(t, err, errTestPacker)
	require.Nil(t, report)

	html, err := os.ReadFile(filepath.Join(dir, "app.html"))
	require.NoError(t, err)
	require.Equal(t, "<head>{{{ PRELOAD }}}</head>", string(html))

	_, err = os.Stat(filepath.Join(dir, "embed", "sub", "b.txt"))
	require.NoError(t, err)
}

// TestRun_NoStaging is a successful no-op that never builds a packer.
func TestRun_NoStaging(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := []byte("<head>{{{ PRELOAD }}}</head>")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.html"), original, 0o600))

	// The external packer would fail without a toolchain root; it must not be needed.
	report, err := Run(context.Background(), &Options{
		DataFile: filepath.Join(dir, "app.data"),
		Config:   config.Default(),
	})
	require.NoError(t, err)
	require.True(t, report.Resolution.Empty())
	require.False(t, report.Patched)

	html, err := os.ReadFile(filepath.Join(dir, "app.html"))
	require.NoError(t, err)
	require.Equal(t, original, html)
}

// TestRun_CompanionMissing fails before packing.
func TestRun_CompanionMissing(t *testing.T) {
	t.Parallel()

	dir := setupTarget(t, false)
	fake := new(recordingPacker)

	_, err := Run(context.Background(), &Options{
		DataFile: filepath.Join(dir, "app.data"),
		Config:   config.Default(),
		Packer:   fake,
	})
	require.ErrorIs(t, err, resolver.ErrCompanionMissing)
	require.Zero(t, fake.calls)

	for _, name := range []string{"app.data", "app.preload.js"} {
		_, err = os.Stat(filepath.Join(dir, name))
		require.ErrorIs(t, err, os.ErrNotExist)
	}
}

// TestRun_ToolchainRootRequired fails when the external packer has no toolchain root.
func TestRun_ToolchainRootRequired(t *testing.T) {
	t.Parallel()

	dir := setupTarget(t, true)

	_, err := Run(context.Background(), &Options{
		DataFile: filepath.Join(dir, "app.data"),
		Config:   config.Default(),
	})
	require.ErrorIs(t, err, config.ErrToolchainRootRequired)

	_, err = os.Stat(filepath.Join(dir, "embed"))
	require.NoError(t, err)
}

// TestPatchHTML_Idempotent writes once and leaves an already patched artifact alone.
func TestPatchHTML_Idempotent(t *testing.T) {
	t.Parallel()

	repo := &memoryArtifact{content: "<body>{{{ PRELOAD }}}</body>"}

	patched, err := PatchHTML(context.Background(), repo, "app.preload.js")
	require.NoError(t, err)
	require.True(t, patched)

	first := repo.content
	require.Equal(t, `<body><script type="text/javascript" src="app.preload.js"></script></body>`, first)

	patched, err = PatchHTML(context.Background(), repo, "app.preload.js")
	require.NoError(t, err)
	require.False(t, patched)
	require.Equal(t, first, repo.content)
	require.Equal(t, 1, repo.writes)
}

// TestPatchHTML_MissingArtifact reports the repository error.
func TestPatchHTML_MissingArtifact(t *testing.T) {
	t.Parallel()

	repo := artifact.NewFileRepository(filepath.Join(t.TempDir(), "missing.html"))

	_, err := PatchHTML(context.Background(), repo, "app.preload.js")
	require.ErrorIs(t, err, artifact.ErrNotFound)
}
