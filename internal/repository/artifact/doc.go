// Package artifact implements whole-file access to template artifacts.
//
// The FileRepository reads an artifact into memory and replaces it through
// go-update: the new content is written next to the target, verified against
// its SHA-512 checksum and renamed into place, so readers observe either the
// old or the new content.
package artifact
