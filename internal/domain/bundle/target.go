package bundle

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// htmlExtension is appended to the base name of the companion HTML file.
	htmlExtension = ".html"
	// loaderExtension is appended to the base name of the loader script.
	loaderExtension = ".preload.js"
)

// Target is the artifact set derived from one data file path.
type Target struct {
	// Dir is the directory holding every artifact of the set.
	Dir string
	// Base is the data file name without its extension.
	Base string
	// Blob is the archive blob produced by the packer.
	Blob string
	// Loader is the loader script produced by the packer.
	Loader string
	// HTML is the companion artifact patched in place.
	HTML string
}

// NewTarget derives the artifact set for dataFile, e.g. out/app.data gives
// out/app.html and out/app.preload.js.
func NewTarget(dataFile string) *Target {
	dataFile = filepath.Clean(dataFile)

	var (
		dir  = filepath.Dir(dataFile)
		name = filepath.Base(dataFile)
		base = strings.TrimSuffix(name, filepath.Ext(name))
	)

	return &Target{
		Dir:    dir,
		Base:   base,
		Blob:   dataFile,
		Loader: filepath.Join(dir, base+loaderExtension),
		HTML:   filepath.Join(dir, base+htmlExtension),
	}
}

// LoaderReference returns the loader script path as referenced from the HTML file.
func (t *Target) LoaderReference() string {
	return filepath.Base(t.Loader)
}

// HasHTML reports whether the companion HTML file exists.
func (t *Target) HasHTML() bool {
	info, err := os.Stat(t.HTML)

	return err == nil && info.Mode().IsRegular()
}
