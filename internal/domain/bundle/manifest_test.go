package bundle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestManifest_PreservesOrder verifies entries come back in insertion order with normalized names.
func TestManifest_PreservesOrder(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	require.NoError(t, m.Add("/tmp/embed/z.txt", "z.txt"))
	require.NoError(t, m.Add("/tmp/embed/sub/b.txt", `sub\b.txt`))
	require.NoError(t, m.Add("/tmp/embed/a.txt", "./a.txt"))

	require.Equal(t, 3, m.Len())
	require.Equal(t, []Entry{
		{Source: "/tmp/embed/z.txt", Name: "z.txt"},
		{Source: "/tmp/embed/sub/b.txt", Name: "sub/b.txt"},
		{Source: "/tmp/embed/a.txt", Name: "a.txt"},
	}, m.Entries())
}

// TestManifest_RejectsDuplicates ensures names stay unique after normalization.
func TestManifest_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	require.NoError(t, m.Add("a", "sub/a.txt"))
	require.ErrorIs(t, m.Add("b", "sub/./a.txt"), ErrDuplicateEntry)
	require.Equal(t, 1, m.Len())
}

// TestManifest_RejectsEscapingNames checks that entries cannot leave the archive root.
func TestManifest_RejectsEscapingNames(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	for _, name := range []string{"", ".", "..", "../x", "/etc/passwd", "a/../../x"} {
		require.ErrorIs(t, m.Add("src", name), ErrInvalidEntry, name)
	}

	require.Zero(t, m.Len())
}

// TestManifest_EntriesIsACopy ensures callers cannot mutate the manifest through Entries.
func TestManifest_EntriesIsACopy(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	require.NoError(t, m.Add("a", "a"))

	entries := m.Entries()
	entries[0].Name = "changed"

	require.Equal(t, "a", m.Entries()[0].Name)
}
