// Package cmd provides command-line interface for text insertion.
// This file contains the insert command family: one subcommand per
// record category of the Jungle Wars translation.
package cmd

import (
	"fmt"

	"github.com/DemonGiggle/gbromhack/pkg"
	"github.com/DemonGiggle/gbromhack/pkg/common"
	"github.com/DemonGiggle/gbromhack/pkg/gb"
	"github.com/spf13/cobra"
)

// insertCmd represents the parent command for all insertion operations.
// Every subcommand takes the ROM image, the YAML work file and the
// translation table file in that order.
var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Insert translated text into the ROM image",
	Long: `Insert translated text into the Jungle Wars ROM image.

Commands:
  script     Scripted dialogue, combat captions and in-place substitutions
  enemies    Enemy name records
  signs      Environmental sign text
  npcs       NPC name tags
  windows    UI window records

A timestamped backup of the ROM is taken before patching unless
--no-backup is given.

Examples:
  gbromhack insert script jw.gb script.yaml jw-en.tbl
  gbromhack insert enemies -v jw.gb enemies.yaml jw-en.tbl`,
}

// insertScriptCmd inserts the scripted dialogue categories
var insertScriptCmd = &cobra.Command{
	Use:   "script [romfile] [inputfile] [tablefile]",
	Short: "Insert scripted dialogue and combat captions",
	Long: `Insert the scripted dialogue categories into the ROM image.

This command will:
- Apply the fixed-address in-place substitutions
- Lay out, encode and relocate every wired dialogue record
- Rewrite the dialogue pointers and the indirection table

Example:
  gbromhack insert script jw.gb script.yaml jw-en.tbl`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rom, tables, err := openPatchTarget(cmd, args)
		if err != nil {
			return err
		}
		defer rom.Close()

		document, err := pkg.LoadTranslationDocument(args[1])
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadTranslation, err)
		}

		inserter := pkg.NewScriptInserter(tables.main, tables.overworld)
		if err := inserter.Insert(rom, document); err != nil {
			return fmt.Errorf("failed to insert script: %w", err)
		}

		fmt.Println("Script inserted successfully!")
		return nil
	},
}

// insertEnemiesCmd inserts the enemy name records. The machine code
// patches redirecting the enemy name loader are installed first.
var insertEnemiesCmd = &cobra.Command{
	Use:   "enemies [romfile] [inputfile] [tablefile]",
	Short: "Insert enemy name records",
	Long: `Insert the enemy name records into the ROM image.

This command will:
- Install the enemy name loader redirection patches
- Relocate each stat header and translated name into the allocated regions
- Rewrite the enemy pointer table

Example:
  gbromhack insert enemies jw.gb enemies.yaml jw-en.tbl`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rom, tables, err := openPatchTarget(cmd, args)
		if err != nil {
			return err
		}
		defer rom.Close()

		document, err := pkg.LoadEnemyDocument(args[1])
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadTranslation, err)
		}

		if err := pkg.ApplyPatches(rom, pkg.EnemyNameRedirectionPatches); err != nil {
			return err
		}
		if err := pkg.ApplyPatches(rom, pkg.EnemyTextHandlerPatches); err != nil {
			return err
		}

		inserter := pkg.NewEnemyInserter(tables.main)
		if err := inserter.Insert(rom, document); err != nil {
			return fmt.Errorf("failed to insert enemies: %w", err)
		}

		fmt.Println("Enemy names inserted successfully!")
		return nil
	},
}

// insertSignsCmd inserts the environmental sign text
var insertSignsCmd = &cobra.Command{
	Use:   "signs [romfile] [inputfile] [tablefile]",
	Short: "Insert environmental sign text",
	Long: `Insert the environmental sign text into the ROM image.

Each sign carries three length-prefixed display lines. Signs are
relocated into the allocated regions and their pointer table is
rewritten.

Example:
  gbromhack insert signs jw.gb signs.yaml jw-en.tbl`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rom, tables, err := openPatchTarget(cmd, args)
		if err != nil {
			return err
		}
		defer rom.Close()

		document, err := pkg.LoadSignDocument(args[1])
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadTranslation, err)
		}

		inserter := pkg.NewSignInserter(tables.main)
		if err := inserter.Insert(rom, document); err != nil {
			return fmt.Errorf("failed to insert signs: %w", err)
		}

		fmt.Println("Signs inserted successfully!")
		return nil
	},
}

// insertNpcsCmd overwrites the NPC name tags in place
var insertNpcsCmd = &cobra.Command{
	Use:   "npcs [romfile] [inputfile] [tablefile]",
	Short: "Insert NPC name tags",
	Long: `Overwrite the NPC name tags in the ROM image.

NPC names are written in place at their relocated bank locations with a
terminator appended; no pointers are rewritten.

Example:
  gbromhack insert npcs jw.gb npcs.yaml jw-en.tbl`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rom, tables, err := openPatchTarget(cmd, args)
		if err != nil {
			return err
		}
		defer rom.Close()

		document, err := pkg.LoadNPCDocument(args[1])
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadTranslation, err)
		}

		inserter := pkg.NewNPCInserter(tables.main)
		if err := inserter.Insert(rom, document); err != nil {
			return fmt.Errorf("failed to insert NPC names: %w", err)
		}

		fmt.Println("NPC names inserted successfully!")
		return nil
	},
}

// insertWindowsCmd rebuilds the UI window records
var insertWindowsCmd = &cobra.Command{
	Use:   "windows [romfile] [inputfile] [tablefile]",
	Short: "Insert UI window records",
	Long: `Rebuild the UI window records in the ROM image.

Fullscreen and overlay windows are packed sequentially behind their
pointer tables; each window gets a recomputed or forced 6-byte header
followed by its encoded text.

Example:
  gbromhack insert windows jw.gb windows.yaml jw-en.tbl`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rom, tables, err := openPatchTarget(cmd, args)
		if err != nil {
			return err
		}
		defer rom.Close()

		document, err := pkg.LoadWindowDocument(args[1])
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadTranslation, err)
		}

		inserter := pkg.NewWindowInserter(tables.main, tables.overworld)
		if err := inserter.Insert(rom, document); err != nil {
			return fmt.Errorf("failed to insert windows: %w", err)
		}

		fmt.Println("Windows inserted successfully!")
		return nil
	},
}

// encoderTables bundles the default and overworld translation tables
type encoderTables struct {
	main      *pkg.TranslationTable
	overworld *pkg.TranslationTable
}

// openPatchTarget performs the shared preamble of every insert
// subcommand: flag handling, table loading, ROM backup and open.
// The caller owns the returned ROM handle and must close it.
func openPatchTarget(cmd *cobra.Command, args []string) (*gb.ROM, *encoderTables, error) {
	romFile := args[0]
	tableFile := args[2]

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, nil, fmt.Errorf("error getting verbose flag: %w", err)
	}
	common.SetVerboseMode(verbose)

	noBackup, err := cmd.Flags().GetBool("no-backup")
	if err != nil {
		return nil, nil, fmt.Errorf("error getting no-backup flag: %w", err)
	}

	overworldFile, err := cmd.Flags().GetString("overworld-table")
	if err != nil {
		return nil, nil, fmt.Errorf("error getting overworld-table flag: %w", err)
	}

	tables := &encoderTables{}
	tables.main, err = pkg.LoadTranslationTable(tableFile)
	if err != nil {
		return nil, nil, common.FormatError(common.ErrFailedToLoadTable, err)
	}
	common.LogInfo(common.InfoTableLoaded, tables.main.Len())

	// The overworld table is only loaded when the flag points somewhere;
	// categories without overworld records never touch it
	if overworldFile != "" {
		tables.overworld, err = pkg.LoadTranslationTable(overworldFile)
		if err != nil {
			return nil, nil, common.FormatError(common.ErrFailedToLoadTable, err)
		}
		common.LogInfo(common.InfoOverworldTableLoaded, tables.overworld.Len())
	}

	if noBackup {
		common.LogWarn(common.WarnBackupDisabled)
	} else {
		backupPath, err := gb.BackupROM(romFile)
		if err != nil {
			return nil, nil, common.FormatError(common.ErrFailedToBackupROM, err)
		}
		common.LogInfo(common.InfoBackupCreated, backupPath)
	}

	rom, err := gb.OpenROM(romFile)
	if err != nil {
		return nil, nil, common.FormatError(common.ErrFailedToOpenROM, err)
	}
	return rom, tables, nil
}

// init initializes the insert command family with appropriate flags.
func init() {
	// Register the insert command with the root command
	rootCmd.AddCommand(insertCmd)

	// Add one subcommand per record category
	insertCmd.AddCommand(insertScriptCmd)
	insertCmd.AddCommand(insertEnemiesCmd)
	insertCmd.AddCommand(insertSignsCmd)
	insertCmd.AddCommand(insertNpcsCmd)
	insertCmd.AddCommand(insertWindowsCmd)

	// Shared flags for every insert subcommand
	insertCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
	insertCmd.PersistentFlags().Bool("no-backup", false, "Disable the automatic ROM backup before patching")
	insertCmd.PersistentFlags().String("overworld-table", "", "Translation table for the overworld character set")
}
