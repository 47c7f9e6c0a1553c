// Package adapter implements adapt-template.
//
// It renders the capability-probing bootstrap block for a project and
// substitutes it for the script placeholder of a template artifact, clearing
// the preload placeholder on the way.
package adapter
