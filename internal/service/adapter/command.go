package adapter

import (
	"context"
	"fmt"

	"github.com/oshokin/empkg/internal/logger"
	"github.com/oshokin/empkg/internal/placeholder"
	"github.com/oshokin/empkg/internal/repository/artifact"
)

// clearedPreload replaces the preload placeholder; packaging fills that slot separately.
const clearedPreload = " "

// Options contains inputs for the adapt-template entry point.
type Options struct {
	// Project is the identifier the build artifacts are named after.
	Project string
	// TemplatePath is the template artifact adapted in place.
	TemplatePath string
	// Mode selects the bootstrap paths; empty means ModeAuto.
	Mode Mode
}

// Run substitutes the bootstrap block into the template artifact.
// The script placeholder is required; the preload placeholder is optional.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "adapt-template")
	ctx = logger.WithKV(ctx, "template", opts.TemplatePath)

	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}

	tpl, err := placeholder.New(
		placeholder.Slot{
			Name:     "script",
			Token:    placeholder.ScriptToken,
			Required: true,
			Render: func() (string, error) {
				return RenderBootstrap(opts.Project, mode)
			},
		},
		placeholder.Slot{
			Name:   "preload",
			Token:  placeholder.PreloadToken,
			Render: placeholder.Static(clearedPreload),
		},
	)
	if err != nil {
		return err
	}

	repo := artifact.NewFileRepository(opts.TemplatePath)

	content, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	result, err := tpl.Render(content)
	if err != nil {
		return fmt.Errorf("adapt template: %w", err)
	}

	if err = repo.Replace(ctx, result.Content); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	logger.InfoKV(ctx, "Template adapted",
		"project", opts.Project, "mode", mode, "substituted", result.Substituted)

	return nil
}
