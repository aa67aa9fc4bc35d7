/*
gbromhack - Utilities for inserting translated English text into the
Jungle Wars ROM for Game Boy and keeping translation work files in sync.
*/
package main

import (
	"fmt"
	"os"

	"github.com/DemonGiggle/gbromhack/cmd"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Check for version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("gbromhack %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cmd.Execute()
}
