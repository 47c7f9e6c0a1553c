package bootstrap

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// fastSuffix tags artifacts of the binary module build.
	fastSuffix = "-wasm"
	// fallbackSuffix tags artifacts of the interpreted build.
	fallbackSuffix = "-asmjs"
	// preloadExtension names the preload archive loader of a build.
	preloadExtension = ".preload.js"
	// mainExtension names the main module script of a build.
	mainExtension = ".js"
	// memoryInitializerExtension names the memory initializer of the fallback build.
	memoryInitializerExtension = ".html.mem"
)

// ErrInvalidProject is returned for project identifiers unusable in file names and URLs.
var ErrInvalidProject = errors.New("invalid project identifier")

// projectPattern limits identifiers to characters safe inside attributes and script strings.
var projectPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._/-]*$`)

// ValidateProject checks that project can be embedded verbatim in generated markup.
func ValidateProject(project string) error {
	if !projectPattern.MatchString(project) {
		return fmt.Errorf("%w: %q", ErrInvalidProject, project)
	}

	return nil
}

// Kind names a capability classification.
type Kind string

const (
	// KindFastPath is selected when the host can instantiate binary modules.
	KindFastPath Kind = "fast-path-supported"
	// KindFallback is selected when the probe fails for any reason.
	KindFallback Kind = "fallback-required"
)

// Classification is the outcome of the capability probe.
// The only implementations are FastPath and Fallback.
type Classification interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Scripts returns script references in request issuance order.
	Scripts() []string

	sealed()
}

// FastPath loads the binary module build.
type FastPath struct {
	// Preload is the preload archive loader of the build.
	Preload string
	// Main is the main module script of the build.
	Main string
}

// NewFastPath names the fast path artifacts of project.
func NewFastPath(project string) FastPath {
	return FastPath{
		Preload: project + fastSuffix + preloadExtension,
		Main:    project + fastSuffix + mainExtension,
	}
}

// Kind implements Classification.
func (FastPath) Kind() Kind {
	return KindFastPath
}

// Scripts implements Classification.
func (f FastPath) Scripts() []string {
	return []string{f.Preload, f.Main}
}

func (FastPath) sealed() {}

// Fallback loads the interpreted build and fetches its memory initializer.
type Fallback struct {
	// Preload is the preload archive loader of the build.
	Preload string
	// Main is the main module script of the build.
	Main string
	// MemoryInitializer is the default memory initializer location,
	// used when the page supplies no path-resolution hook.
	MemoryInitializer string
}

// NewFallback names the fallback artifacts of project.
func NewFallback(project string) Fallback {
	return Fallback{
		Preload:           project + fallbackSuffix + preloadExtension,
		Main:              project + fallbackSuffix + mainExtension,
		MemoryInitializer: project + fallbackSuffix + memoryInitializerExtension,
	}
}

// Kind implements Classification.
func (Fallback) Kind() Kind {
	return KindFallback
}

// Scripts implements Classification.
// The memory initializer request is issued between these two.
func (f Fallback) Scripts() []string {
	return []string{f.Preload, f.Main}
}

func (Fallback) sealed() {}
