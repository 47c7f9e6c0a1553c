// Package bootstrap models the load-time choice between the two builds of a
// module.
//
// A Classification is either FastPath (binary module build) or Fallback
// (interpreted build that also fetches a memory initializer). Each variant
// carries the ordered script references it injects.
package bootstrap
