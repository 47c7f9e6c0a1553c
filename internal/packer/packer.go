package packer

import (
	"context"
	"fmt"

	"github.com/oshokin/empkg/internal/config"
	"github.com/oshokin/empkg/internal/domain/bundle"
)

// Packer produces the archive blob and the loader script for a manifest.
// Both artifacts exist when Pack returns nil.
type Packer interface {
	Pack(ctx context.Context, manifest *bundle.Manifest, blobPath, loaderPath string) error
}

// Func adapts a function to the Packer interface.
type Func func(ctx context.Context, manifest *bundle.Manifest, blobPath, loaderPath string) error

// Pack implements Packer.
func (f Func) Pack(ctx context.Context, manifest *bundle.Manifest, blobPath, loaderPath string) error {
	return f(ctx, manifest, blobPath, loaderPath)
}

// New returns the packer selected by cfg.
//
//nolint:ireturn // Callers depend on the capability, not the implementation.
func New(cfg *config.Config) (Packer, error) {
	switch cfg.Packer {
	case config.PackerBuiltin:
		return NewBuiltin(), nil
	case config.PackerExternal, "":
		script, err := cfg.ToolchainScript()
		if err != nil {
			return nil, err
		}

		return NewExternal(cfg.Python, script, WithEcho(cfg.Env.Verbose)), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPacker, cfg.Packer)
	}
}
