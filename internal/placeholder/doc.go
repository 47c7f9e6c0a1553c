// Package placeholder substitutes literal placeholder tokens in template
// artifacts.
//
// A Template is a set of named slots. Each slot has a literal token, a
// required flag and a render function. Rendering fails when a required
// token is missing and leaves content untouched for an absent optional one,
// which makes repeated runs a no-op once the token has been consumed.
package placeholder
