// Package bundle contains the core domain types of a packaging run.
//
// It defines the Manifest (ordered source to archive entry pairs with unique
// entry names), the Target artifact set derived from a data file path, and
// the Staging handle whose release removes the staging directory.
package bundle
