// Package config defines the packaging settings used by empkg and helpers to
// load and validate them.
//
// Settings come from an optional YAML file (staging directory and manifest
// names, packer kind) and from the environment (packer toolchain root,
// verbosity, log level).
package config
