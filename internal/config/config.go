package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the packaging settings shared by the empkg runs.
type Config struct {
	// StagingDir is the name of the staging directory inside the target directory.
	StagingDir string `yaml:"staging_dir"`
	// ManifestFile is the name of the explicit manifest file inside the target directory.
	ManifestFile string `yaml:"manifest_file"`
	// Packer selects the archive packer implementation (external or builtin).
	Packer string `yaml:"packer"`
	// Python is the interpreter used to run the external packer script.
	Python string `yaml:"python"`
	// PackagerScript is the packer script path relative to the toolchain root.
	PackagerScript string `yaml:"packager_script"`
	// Env is populated from the process environment and never persisted.
	Env Environment `yaml:"-"`
}

// Environment holds the settings read from environment variables.
type Environment struct {
	// ToolchainRoot is the root directory of the external packer toolchain.
	ToolchainRoot string `env:"EMSCRIPTEN"`
	// Verbose echoes the external packer invocation before running it.
	Verbose bool `env:"EMPKG_VERBOSE" envDefault:"true"`
	// LogLevel is the textual minimum log level.
	LogLevel string `env:"EMPKG_LOG_LEVEL" envDefault:"info"`
}

const (
	// DefaultConfigFilename is the settings file picked up from the working directory when present.
	DefaultConfigFilename = "empkg-settings.yaml"

	// DefaultStagingDir is the conventional staging directory name.
	DefaultStagingDir = "embed"

	// DefaultManifestFile is the conventional explicit manifest file name.
	DefaultManifestFile = "embed.txt"

	// DefaultPython is the interpreter used for the external packer script.
	DefaultPython = "python3"

	// DefaultPackagerScript is the packer script location inside the toolchain root.
	DefaultPackagerScript = "tools/file_packager.py"

	// PackerExternal runs the toolchain packer script as a separate process.
	PackerExternal = "external"

	// PackerBuiltin packs the archive in-process.
	PackerBuiltin = "builtin"
)

var (
	// ErrToolchainRootRequired is returned when the external packer is used without EMSCRIPTEN.
	ErrToolchainRootRequired = errors.New("EMSCRIPTEN must point to the packer toolchain root")
	// ErrUnknownPacker is returned for an unsupported packer kind.
	ErrUnknownPacker = errors.New("unknown packer")
	// errNestedName is returned when a staging or manifest name is not a plain file name.
	errNestedName = errors.New("must be a plain name inside the target directory")
)

// Default returns settings with every field set to its default.
func Default() *Config {
	return &Config{
		StagingDir:     DefaultStagingDir,
		ManifestFile:   DefaultManifestFile,
		Packer:         PackerExternal,
		Python:         DefaultPython,
		PackagerScript: DefaultPackagerScript,
	}
}

// Load reads settings from path and the environment, then validates them.
// An empty path uses DefaultConfigFilename when that file exists and defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	contents, err := readSettings(path)
	if err != nil {
		return nil, err
	}

	if len(contents) > 0 {
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	environment, err := LoadEnvironment()
	if err != nil {
		return nil, err
	}

	cfg.Env = *environment

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvironment parses the environment variables consumed by the tools.
func LoadEnvironment() (*Environment, error) {
	var environment Environment
	if err := env.Parse(&environment); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &environment, nil
}

// Validate fills defaults for empty fields and rejects malformed settings.
func Validate(cfg *Config) error {
	if cfg.StagingDir == "" {
		cfg.StagingDir = DefaultStagingDir
	}

	if cfg.ManifestFile == "" {
		cfg.ManifestFile = DefaultManifestFile
	}

	if cfg.Python == "" {
		cfg.Python = DefaultPython
	}

	if cfg.PackagerScript == "" {
		cfg.PackagerScript = DefaultPackagerScript
	}

	cfg.Packer = strings.ToLower(strings.TrimSpace(cfg.Packer))
	if cfg.Packer == "" {
		cfg.Packer = PackerExternal
	}

	if cfg.Packer != PackerExternal && cfg.Packer != PackerBuiltin {
		return fmt.Errorf("%w: %q", ErrUnknownPacker, cfg.Packer)
	}

	if err := validateName("staging_dir", cfg.StagingDir); err != nil {
		return err
	}

	return validateName("manifest_file", cfg.ManifestFile)
}

// validateName rejects names that would escape or nest inside the target directory.
func validateName(key, name string) error {
	if filepath.Base(name) != name || name == "." || name == ".." {
		return fmt.Errorf("%s %q: %w", key, name, errNestedName)
	}

	return nil
}

// ToolchainScript returns the absolute location of the external packer script.
func (c *Config) ToolchainScript() (string, error) {
	if c.Env.ToolchainRoot == "" {
		return "", ErrToolchainRootRequired
	}

	return filepath.Join(c.Env.ToolchainRoot, filepath.FromSlash(c.PackagerScript)), nil
}

// readSettings returns the raw settings file, or nil when the implicit default file is absent.
func readSettings(path string) ([]byte, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err == nil {
		return contents, nil
	}

	if !explicit && errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	return nil, fmt.Errorf("read settings: %w", err)
}
