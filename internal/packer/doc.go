// Package packer provides the archive packer capability used by empkg.
//
// A Packer turns a Manifest into an archive blob and a loader script whose
// metadata maps every entry name to its byte range in the blob. External
// runs the toolchain packer script as a child process; Builtin packs
// in-process.
package packer
