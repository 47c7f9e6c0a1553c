// Command empkg packs the staged assets of a data file into an archive and
// wires the loader script into the companion HTML file.
package main

import "github.com/oshokin/empkg/cmd/empkg/cmd"

func main() {
	cmd.Execute()
}
