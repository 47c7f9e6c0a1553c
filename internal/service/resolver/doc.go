// Package resolver discovers the files to bundle for one target.
//
// Sources, in order of preference: the staging directory next to the data
// file (every regular file becomes an entry named by its relative path), or
// an explicit manifest file listing one relative path per line.
package resolver
