package packer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/empkg/internal/domain/bundle"
	"github.com/oshokin/empkg/internal/logger"
)

// artifactMode is the permission of packed artifacts.
const artifactMode os.FileMode = 0o644

// FileMetadata locates one entry inside the blob.
type FileMetadata struct {
	// Filename is the absolute path of the entry in the virtual file namespace.
	Filename string `json:"filename"`
	// Start is the offset of the first byte.
	Start int64 `json:"start"`
	// End is the offset past the last byte.
	End int64 `json:"end"`
}

// Metadata is embedded in the loader script.
type Metadata struct {
	// Files lists entries in manifest order.
	Files []FileMetadata `json:"files"`
	// RemotePackageSize is the blob length in bytes.
	RemotePackageSize int64 `json:"remote_package_size"`
	// PackageName is the blob location relative to the page.
	PackageName string `json:"package_name"`
}

// loaderScript mounts every entry of the blob before the module runs.
// The single verb receives the JSON metadata.
const loaderScript = `var Module = typeof Module !== 'undefined' ? Module : {};
(function() {
  var metadata = %s;
  var name = metadata.package_name;
  if (typeof Module['locateFile'] === 'function') {
    name = Module['locateFile'](name, '');
  }
  if (!Module['preRun']) Module['preRun'] = [];
  Module['preRun'].push(function() {
    Module['addRunDependency']('datafile_' + metadata.package_name);
    var xhr = new XMLHttpRequest();
    xhr.open('GET', name, true);
    xhr.responseType = 'arraybuffer';
    xhr.onload = function() {
      var data = new Uint8Array(xhr.response);
      metadata.files.forEach(function(file) {
        var slash = file.filename.lastIndexOf('/');
        var dir = file.filename.slice(0, slash) || '/';
        Module['FS_createPath']('/', dir, true, true);
        Module['FS_createDataFile'](dir, file.filename.slice(slash + 1),
          data.subarray(file.start, file.end), true, true, true);
      });
      Module['removeRunDependency']('datafile_' + metadata.package_name);
    };
    xhr.send(null);
  });
})();
`

// Builtin packs archives in-process: the blob is the concatenation of the
// entries in manifest order.
type Builtin struct{}

// NewBuiltin creates the in-process packer.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

// Pack writes the blob, then the loader script.
func (b *Builtin) Pack(ctx context.Context, manifest *bundle.Manifest, blobPath, loaderPath string) error {
	metadata, err := b.writeBlob(manifest, blobPath)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	script := fmt.Sprintf(loaderScript, encoded)
	if err = os.WriteFile(loaderPath, []byte(script), artifactMode); err != nil {
		return fmt.Errorf("write loader: %w", err)
	}

	logger.DebugKV(ctx, "Packed archive",
		"blob", blobPath, "size", metadata.RemotePackageSize, "entries", len(metadata.Files))

	return nil
}

// writeBlob concatenates the entries into blobPath and records their ranges.
func (b *Builtin) writeBlob(manifest *bundle.Manifest, blobPath string) (*Metadata, error) {
	blob, err := os.OpenFile(filepath.Clean(blobPath), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, artifactMode)
	if err != nil {
		return nil, fmt.Errorf("create blob: %w", err)
	}

	metadata := &Metadata{
		Files:       make([]FileMetadata, 0, manifest.Len()),
		PackageName: filepath.Base(blobPath),
	}

	for _, entry := range manifest.Entries() {
		var written int64

		written, err = appendFile(blob, entry.Source)
		if err != nil {
			_ = blob.Close()

			return nil, err
		}

		metadata.Files = append(metadata.Files, FileMetadata{
			Filename: "/" + entry.Name,
			Start:    metadata.RemotePackageSize,
			End:      metadata.RemotePackageSize + written,
		})
		metadata.RemotePackageSize += written
	}

	if err = blob.Close(); err != nil {
		return nil, fmt.Errorf("close blob: %w", err)
	}

	return metadata, nil
}

// appendFile copies source to w and returns the number of bytes copied.
func appendFile(w io.Writer, source string) (int64, error) {
	f, err := os.Open(filepath.Clean(source))
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = f.Close()
	}()

	written, err := io.Copy(w, f)
	if err != nil {
		return written, fmt.Errorf("copy %s: %w", source, err)
	}

	return written, nil
}
