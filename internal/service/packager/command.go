package packager

import (
	"context"
	"fmt"

	"github.com/oshokin/empkg/internal/config"
	"github.com/oshokin/empkg/internal/logger"
	"github.com/oshokin/empkg/internal/packer"
	"github.com/oshokin/empkg/internal/placeholder"
	"github.com/oshokin/empkg/internal/repository/artifact"
	"github.com/oshokin/empkg/internal/service/resolver"
)

// scriptTagFormat is the tag that replaces the preload token.
const scriptTagFormat = `<script type="text/javascript" src="%s"></script>`

// Options contains inputs for the packager entry point.
type Options struct {
	// DataFile is the archive blob path; companion names derive from its base name.
	DataFile string
	// Config holds the packaging settings; nil loads them from ConfigPath.
	Config *config.Config
	// ConfigPath is an optional path to the settings YAML file.
	ConfigPath string
	// Packer overrides the packer selected by the settings.
	Packer packer.Packer
}

// Report describes what a run produced.
type Report struct {
	// Resolution is the resolved source.
	Resolution *resolver.Resolution
	// Patched is true when the companion HTML file changed.
	Patched bool
}

// packager runs one packaging pipeline.
// Callers go through Run, which performs setup and validation.
type packager struct {
	// cfg holds the packaging settings.
	cfg *config.Config
	// packer is injected by callers or built from cfg once there is something to pack.
	packer packer.Packer
}

// Run executes the packaging workflow: resolve, pack, patch, release staging.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "empkg")
	ctx = logger.WithKV(ctx, "data_file", opts.DataFile)

	cfg := opts.Config
	if cfg == nil {
		var err error

		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	} else if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	pkg := &packager{
		cfg:    cfg,
		packer: opts.Packer,
	}

	report, err := pkg.Run(ctx, opts.DataFile)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Packager completed successfully")

	return report, nil
}

// Run performs the pipeline for dataFile.
// The staging directory is released only after packing succeeded.
func (p *packager) Run(ctx context.Context, dataFile string) (*Report, error) {
	resolution, err := resolver.Resolve(ctx, dataFile, resolver.Options{
		StagingDir:   p.cfg.StagingDir,
		ManifestFile: p.cfg.ManifestFile,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Resolution: resolution}

	if resolution.Empty() {
		logger.Info(ctx, "Nothing to pack")
		return report, nil
	}

	if p.packer == nil {
		if p.packer, err = packer.New(p.cfg); err != nil {
			return nil, fmt.Errorf("initialize packer: %w", err)
		}
	}

	target := resolution.Target

	logger.InfoKV(ctx, "Packing archive", "blob", target.Blob, "loader", target.Loader)

	if err = p.packer.Pack(ctx, resolution.Manifest, target.Blob, target.Loader); err != nil {
		if resolution.Staging != nil {
			logger.WarnKV(ctx, "Staging directory left for inspection", "path", resolution.Staging.Root)
		}

		return nil, fmt.Errorf("pack %s: %w", target.Blob, err)
	}

	if report.Patched, err = PatchHTML(ctx, artifact.NewFileRepository(target.HTML), target.LoaderReference()); err != nil {
		return nil, err
	}

	if err = resolution.Staging.Release(); err != nil {
		return nil, err
	}

	return report, nil
}

// PatchHTML replaces the preload token in repo with a script tag loading loaderRef.
// An artifact without the token is left untouched.
func PatchHTML(ctx context.Context, repo artifact.Repository, loaderRef string) (bool, error) {
	tpl, err := placeholder.New(placeholder.Slot{
		Name:   "preload",
		Token:  placeholder.PreloadToken,
		Render: placeholder.Static(fmt.Sprintf(scriptTagFormat, loaderRef)),
	})
	if err != nil {
		return false, err
	}

	content, err := repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load companion HTML: %w", err)
	}

	result, err := tpl.Render(content)
	if err != nil {
		return false, fmt.Errorf("render companion HTML: %w", err)
	}

	if !result.Changed() {
		logger.WarnKV(ctx, "Preload placeholder not found, companion HTML left unchanged",
			"token", placeholder.PreloadToken)

		return false, nil
	}

	if err = repo.Replace(ctx, result.Content); err != nil {
		return false, fmt.Errorf("write companion HTML: %w", err)
	}

	logger.InfoKV(ctx, "Patched companion HTML", "loader", loaderRef)

	return true, nil
}
