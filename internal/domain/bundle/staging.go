package bundle

import (
	"fmt"
	"os"
)

// Staging is the ownership handle of a staging directory.
// A nil *Staging owns nothing and releases nothing.
type Staging struct {
	// Root is the staging directory path.
	Root string
	// released is set once the directory has been removed.
	released bool
}

// NewStaging acquires ownership of the staging directory at root.
func NewStaging(root string) *Staging {
	return &Staging{Root: root}
}

// Release recursively removes the staging directory.
// Callers release only after the packer succeeded; an unreleased handle leaves
// the directory in place for diagnosis.
func (s *Staging) Release() error {
	if s == nil || s.released {
		return nil
	}

	if err := os.RemoveAll(s.Root); err != nil {
		return fmt.Errorf("remove staging directory %s: %w", s.Root, err)
	}

	s.released = true

	return nil
}

// Released reports whether Release removed the directory.
func (s *Staging) Released() bool {
	return s != nil && s.released
}
