// Package cmd provides command-line interface functionality for gbromhack.
// gbromhack is a collection of utilities for inserting translated text
// into the Jungle Wars ROM for Game Boy.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the gbromhack application.
var rootCmd = &cobra.Command{
	Use:   "gbromhack",
	Short: "Tools for patching translated text into the Jungle Wars GB ROM",
	Long: `gbromhack - Utilities for inserting translated English text into the
Jungle Wars ROM for Game Boy and keeping translation work files in sync.

Currently supports:
  - Scripted dialogue, combat captions and in-place substitutions
  - Enemy name records
  - Environmental sign text
  - NPC name tags
  - UI window records
  - Merging two translation work files

Examples:
  gbromhack insert script jw.gb script.yaml jw-en.tbl
  gbromhack insert enemies jw.gb enemies.yaml jw-en.tbl
  gbromhack insert signs jw.gb signs.yaml jw-en.tbl
  gbromhack insert npcs jw.gb npcs.yaml jw-en.tbl
  gbromhack insert windows jw.gb windows.yaml jw-en.tbl
  gbromhack merge script.yaml incoming.yaml merged.yaml

Use 'gbromhack [command] --help' for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
