package bundle

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrDuplicateEntry is returned when an archive entry name is added twice.
	ErrDuplicateEntry = errors.New("duplicate archive entry")
	// ErrInvalidEntry is returned for entry names that cannot be mounted.
	ErrInvalidEntry = errors.New("invalid archive entry")
)

// Entry pairs a file on disk with its name inside the archive.
type Entry struct {
	// Source is the filesystem path of the file to bundle.
	Source string
	// Name is the slash-separated path of the file in the virtual file namespace.
	Name string
}

// Manifest is an ordered list of entries with unique names.
type Manifest struct {
	// entries keeps insertion order.
	entries []Entry
	// names indexes entry names for the uniqueness check.
	names map[string]struct{}
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		names: make(map[string]struct{}),
	}
}

// Add appends an entry, keeping names unique.
func (m *Manifest) Add(source, name string) error {
	cleaned, err := cleanEntryName(name)
	if err != nil {
		return err
	}

	if _, found := m.names[cleaned]; found {
		return fmt.Errorf("%s: %w", cleaned, ErrDuplicateEntry)
	}

	m.names[cleaned] = struct{}{}
	m.entries = append(m.entries, Entry{
		Source: source,
		Name:   cleaned,
	})

	return nil
}

// Entries returns a copy of the entries in insertion order.
func (m *Manifest) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// cleanEntryName normalizes a relative slash path and rejects names escaping the archive root.
func cleanEntryName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")

	cleaned := path.Clean(name)
	if name == "" || cleaned == "." || path.IsAbs(cleaned) ||
		cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidEntry)
	}

	return cleaned, nil
}
