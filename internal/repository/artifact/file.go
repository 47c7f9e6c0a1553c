package artifact

import (
	"bytes"
	"context"
	"crypto"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	// Ensure SHA512 available for checksum verification.
	_ "crypto/sha512"
)

const (
	// checksumFunction verifies the staged content before it replaces the target.
	checksumFunction = crypto.SHA512
	// oldSuffix is the name suffix go-update gives the replaced file.
	oldSuffix = ".old"
)

var (
	// ErrNotFound is returned when the artifact does not exist.
	ErrNotFound = errors.New("artifact not found")
	// errHashUnavailable is returned when the checksum function is not linked in.
	errHashUnavailable = errors.New("hash function unavailable")
)

// Repository defines whole-file operations on a text artifact.
type Repository interface {
	Load(ctx context.Context) (string, error)
	Replace(ctx context.Context, content string) error
}

// FileRepository reads and atomically replaces one artifact on disk.
type FileRepository struct {
	// path is the filesystem location of the artifact.
	path string
}

// NewFileRepository creates a repository for the artifact at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the artifact location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the full artifact.
func (r *FileRepository) Load(_ context.Context) (string, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return "", fmt.Errorf("read artifact: %w", err)
	}

	return string(contents), nil
}

// Replace swaps the artifact content for content, keeping its permissions.
// On failure the previous content stays in place.
func (r *FileRepository) Replace(_ context.Context, content string) error {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return fmt.Errorf("stat artifact: %w", err)
	}

	checksum, err := contentChecksum(content)
	if err != nil {
		return err
	}

	options := goupdate.Options{
		TargetPath: r.path,
		TargetMode: info.Mode().Perm(),
		Checksum:   checksum,
		Hash:       checksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader([]byte(content)), options); err != nil {
		return fmt.Errorf("replace artifact %s: %w", r.path, err)
	}

	oldPath := filepath.Join(filepath.Dir(r.path), "."+filepath.Base(r.path)+oldSuffix)
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}

// contentChecksum hashes content with checksumFunction.
func contentChecksum(content string) ([]byte, error) {
	if !checksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := checksumFunction.New()
	if _, err := hasher.Write([]byte(content)); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
