package resolver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/empkg/internal/domain/bundle"
	"github.com/oshokin/empkg/internal/logger"
)

var (
	// ErrCompanionMissing is returned when there is something to pack but no companion HTML file.
	ErrCompanionMissing = errors.New("companion HTML file is missing")
	// ErrUnsupportedEntry is returned for a staged link that does not point to a regular file.
	ErrUnsupportedEntry = errors.New("staged link does not point to a regular file")
)

// SourceKind tells where the manifest came from.
type SourceKind string

const (
	// SourceNone means there is nothing to pack.
	SourceNone SourceKind = "none"
	// SourceStaging means the manifest lists a staging directory tree.
	SourceStaging SourceKind = "staging"
	// SourceManifestFile means the manifest was read from an explicit list.
	SourceManifestFile SourceKind = "manifest-file"
)

// Options names the conventional sources inside the target directory.
type Options struct {
	// StagingDir is the staging directory name.
	StagingDir string
	// ManifestFile is the explicit manifest file name.
	ManifestFile string
}

// Resolution is the result of resolving one target.
type Resolution struct {
	// Kind tells which source was used.
	Kind SourceKind
	// Target is the artifact set of the data file.
	Target *bundle.Target
	// Manifest lists the files to pack; nil when Kind is SourceNone.
	Manifest *bundle.Manifest
	// Staging owns the staging directory; nil unless Kind is SourceStaging.
	Staging *bundle.Staging
}

// Empty reports whether there is nothing to pack.
func (r *Resolution) Empty() bool {
	return r.Kind == SourceNone
}

// Resolve finds the source for dataFile and builds its manifest.
// It returns ErrCompanionMissing when a source exists but the companion HTML file does not.
func Resolve(ctx context.Context, dataFile string, opts Options) (*Resolution, error) {
	var (
		target       = bundle.NewTarget(dataFile)
		stagingRoot  = filepath.Join(target.Dir, opts.StagingDir)
		manifestPath = filepath.Join(target.Dir, opts.ManifestFile)
		resolution   = &Resolution{Kind: SourceNone, Target: target}
	)

	switch {
	case isDir(stagingRoot):
		resolution.Kind = SourceStaging
	case isFile(manifestPath):
		resolution.Kind = SourceManifestFile
	default:
		logger.DebugKV(ctx, "No staging source found", "staging_dir", stagingRoot, "manifest_file", manifestPath)
		return resolution, nil
	}

	if !target.HasHTML() {
		return nil, fmt.Errorf("%s: %w", target.HTML, ErrCompanionMissing)
	}

	var err error

	switch resolution.Kind {
	case SourceStaging:
		resolution.Manifest, err = FromStaging(stagingRoot)
		resolution.Staging = bundle.NewStaging(stagingRoot)
	default:
		resolution.Manifest, err = FromManifestFile(manifestPath, target.Dir)
	}

	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Resolved manifest", "source", resolution.Kind, "entries", resolution.Manifest.Len())

	return resolution, nil
}

// FromStaging lists every regular file under root in walk order.
// Symbolic links are followed when they point to a regular file; any other link fails the walk.
func FromStaging(root string) (*bundle.Manifest, error) {
	manifest := bundle.NewManifest()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Errorf("%s: %w", path, statErr)
			}

			if !info.Mode().IsRegular() {
				return fmt.Errorf("%s: %w", path, ErrUnsupportedEntry)
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		return manifest.Add(path, filepath.ToSlash(rel))
	})
	if err != nil {
		return nil, fmt.Errorf("walk staging directory: %w", err)
	}

	return manifest, nil
}

// FromManifestFile reads one relative path per line, resolved against baseDir.
// Blank lines are skipped and entries keep file order.
func FromManifestFile(path, baseDir string) (*bundle.Manifest, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open manifest file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	var (
		manifest = bundle.NewManifest()
		scanner  = bufio.NewScanner(f)
		line     = 0
	)

	for scanner.Scan() {
		line++

		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}

		source := filepath.Join(baseDir, filepath.FromSlash(name))
		if !isFile(source) {
			return nil, fmt.Errorf("%s:%d: %s: %w", path, line, name, os.ErrNotExist)
		}

		if err = manifest.Add(source, name); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	return manifest, nil
}

// isDir reports whether path is an existing directory.
func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// isFile reports whether path is an existing regular file.
func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
