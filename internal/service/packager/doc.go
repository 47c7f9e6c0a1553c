// Package packager implements the empkg pipeline.
//
// It resolves the files to bundle for a data file, hands the manifest to the
// archive packer, wires the produced loader script into the companion HTML
// file and finally removes the staging directory. A packer failure stops the
// run before any HTML change and keeps the staging directory.
package packager
