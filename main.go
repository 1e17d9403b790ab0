// The main package for the enqueue-tally executable.
package main

import (
	"github.com/JakeFAU/enqueue-tally/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
