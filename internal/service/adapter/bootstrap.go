package adapter

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/oshokin/empkg/internal/domain/bootstrap"
)

// Mode selects which paths the bootstrap block contains.
type Mode string

const (
	// ModeAuto probes the host at load time and picks a path.
	ModeAuto Mode = "auto"
	// ModeFast always loads the binary module build.
	ModeFast Mode = "fast"
	// ModeFallback always loads the interpreted build.
	ModeFallback Mode = "fallback"
)

// ErrUnknownMode is returned for an unsupported mode name.
var ErrUnknownMode = errors.New("unknown bootstrap mode")

// ParseMode converts a flag value to a Mode; empty means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeFast, ModeFallback:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// bootstrapTemplates holds the block layout and one template per classification.
// Script end tags inside document.write strings are escaped so the outer block stays intact.
var bootstrapTemplates = template.Must(template.New("bootstrap").Parse(`<script type="text/javascript">
(function() {
{{- if .Probe}}
  var supported = false;
  try {
    if (typeof WebAssembly === 'object' &&
        typeof WebAssembly.Module === 'function' &&
        typeof WebAssembly.Instance === 'function') {
      var module = new WebAssembly.Module(Uint8Array.of(0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00));
      if (module instanceof WebAssembly.Module) {
        supported = new WebAssembly.Instance(module) instanceof WebAssembly.Instance;
      }
    }
  } catch (e) {
    supported = false;
  }
  if (supported) {
{{.Fast}}  } else {
{{.Fallback}}  }
{{- else}}
{{.Fixed}}
{{- end}}
})();
</script>`))

// fastTemplate issues both requests of the fast path; completion order is left to the host.
var fastTemplate = template.Must(template.New("fast").Parse(
	`{{range .Scripts}}    document.write('<script async type="text/javascript" src="{{.}}"><\/script>');
{{end}}`))

// fallbackTemplate issues the preload request, then the memory initializer
// request, then appends the main script that later consumes that request.
var fallbackTemplate = template.Must(template.New("fallback").Parse(
	`    document.write('<script async type="text/javascript" src="{{.Preload}}"><\/script>');
    var Module = window['Module'] = window['Module'] || {};
    var memoryInitializer = '{{.MemoryInitializer}}';
    if (typeof Module['locateFile'] === 'function') {
      memoryInitializer = Module['locateFile'](memoryInitializer);
    } else if (Module['memoryInitializerPrefixURL']) {
      memoryInitializer = Module['memoryInitializerPrefixURL'] + memoryInitializer;
    }
    var xhr = Module['memoryInitializerRequest'] = new XMLHttpRequest();
    xhr.open('GET', memoryInitializer, true);
    xhr.responseType = 'arraybuffer';
    xhr.send(null);
    var script = document.createElement('script');
    script.src = '{{.Main}}';
    (document.body || document.head || document.documentElement).appendChild(script);
`))

// bootstrapData feeds bootstrapTemplates.
type bootstrapData struct {
	// Probe includes the runtime capability probe.
	Probe bool
	// Fast and Fallback are the rendered branches of a probing block.
	Fast     string
	Fallback string
	// Fixed is the only branch of a non-probing block.
	Fixed string
}

// RenderBootstrap returns the inline bootstrap block for project.
func RenderBootstrap(project string, mode Mode) (string, error) {
	if err := bootstrap.ValidateProject(project); err != nil {
		return "", err
	}

	var (
		data = bootstrapData{Probe: mode == ModeAuto}
		err  error
	)

	switch mode {
	case ModeAuto:
		if data.Fast, err = RenderVariant(bootstrap.NewFastPath(project)); err != nil {
			return "", err
		}

		data.Fallback, err = RenderVariant(bootstrap.NewFallback(project))
	case ModeFast:
		data.Fixed, err = RenderVariant(bootstrap.NewFastPath(project))
	case ModeFallback:
		data.Fixed, err = RenderVariant(bootstrap.NewFallback(project))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if err != nil {
		return "", err
	}

	data.Fixed = strings.TrimSuffix(data.Fixed, "\n")

	var builder strings.Builder
	if err = bootstrapTemplates.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("render bootstrap: %w", err)
	}

	return builder.String(), nil
}

// RenderVariant returns the load sequence of one classification.
func RenderVariant(c bootstrap.Classification) (string, error) {
	var (
		builder strings.Builder
		err     error
	)

	switch variant := c.(type) {
	case bootstrap.FastPath:
		err = fastTemplate.Execute(&builder, variant)
	case bootstrap.Fallback:
		err = fallbackTemplate.Execute(&builder, variant)
	default:
		return "", fmt.Errorf("unsupported classification %T", c)
	}

	if err != nil {
		return "", fmt.Errorf("render %s: %w", c.Kind(), err)
	}

	return builder.String(), nil
}
