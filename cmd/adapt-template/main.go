// Command adapt-template substitutes the capability-probing bootstrap block
// into an HTML template.
package main

import "github.com/oshokin/empkg/cmd/adapt-template/cmd"

func main() {
	cmd.Execute()
}
