// Package cmd provides command-line interface for work-file merging.
// This file contains the merge command reconciling two translation
// work files.
package cmd

import (
	"fmt"

	"github.com/DemonGiggle/gbromhack/pkg"
	"github.com/DemonGiggle/gbromhack/pkg/common"
	"github.com/spf13/cobra"
)

// mergeCmd folds an incoming translation work file into an existing one.
// Conflicts between real values are resolved by the --prefer policy;
// placeholder entries are upgraded silently.
var mergeCmd = &cobra.Command{
	Use:   "merge [existing] [inputfile] [outputfile]",
	Short: "Merge two translation work files",
	Long: `Merge an incoming translation work file into an existing one.

Placeholder data in the existing file (TODO translations, unwired
pointers) is upgraded from the incoming file without question. When both
files carry real, differing values the --prefer policy decides:

  new     take the incoming value (default)
  old     keep the existing value
  fail    abort on the first conflict

Arguments:
  existing      Existing work file the merge folds into
  inputfile     Incoming work file to merge
  outputfile    Where to save the result; existing file when omitted

Examples:
  gbromhack merge script.yaml incoming.yaml
  gbromhack merge --prefer old script.yaml incoming.yaml merged.yaml`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		existingFile := args[0]
		inputFile := args[1]
		outputFile := existingFile
		if len(args) == 3 {
			outputFile = args[2]
		}

		// Enable verbose mode if requested
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}
		common.SetVerboseMode(verbose)

		preferValue, err := cmd.Flags().GetString("prefer")
		if err != nil {
			return fmt.Errorf("error getting prefer flag: %w", err)
		}
		policy, err := pkg.ParseMergePolicy(preferValue)
		if err != nil {
			return err
		}

		existing, err := pkg.LoadTranslationDocument(existingFile)
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadTranslation, err)
		}
		incoming, err := pkg.LoadTranslationDocument(inputFile)
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadTranslation, err)
		}

		stats, err := pkg.MergeDocuments(existing, incoming, policy)
		if err != nil {
			return fmt.Errorf("merge failed: %w", err)
		}

		if err := pkg.SaveTranslationDocument(outputFile, existing); err != nil {
			return err
		}

		common.LogInfo(common.InfoMergeSaved, outputFile)
		fmt.Printf("Merge complete: %d entries updated, %d conflicts resolved\n", stats.Updated, stats.Conflicts)
		return nil
	},
}

// init initializes the merge command with appropriate flags.
func init() {
	// Register the merge command with the root command
	rootCmd.AddCommand(mergeCmd)

	// Add verbose flag for detailed output
	mergeCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")

	// Conflict resolution policy
	mergeCmd.Flags().String("prefer", "new", "Conflict policy: new, old or fail")
}
