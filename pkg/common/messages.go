package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrFailedToLoadTranslation   = "failed to load translation file"
	ErrFailedToReadYAMLFile      = "failed to read YAML file"
	ErrFailedToParseYAML         = "failed to parse YAML"
	ErrFailedToLoadTable         = "failed to load translation table"
	ErrFailedToOpenROM           = "failed to open ROM file"
	ErrFailedToBackupROM         = "failed to back up ROM file"
	ErrFailedToEncodeText        = "failed to encode text"
	ErrFailedToLayoutText        = "failed to lay out text"
	ErrFailedToWritePayload      = "failed to write text data"
	ErrFailedToWritePointer      = "failed to write pointer"
	ErrFailedToWriteHeader       = "failed to write header"
	ErrFailedToApplyPatch        = "failed to apply machine code patch"
	ErrFailedToSaveTranslation   = "failed to save translation file"
	ErrAllocationSpaceExhausted  = "not enough allocated space"
	ErrMissingTranslation        = "entry has no translation"
	ErrUnmappedCharacter         = "no table mapping for character"
	ErrPointerValueOutOfRange    = "pointer value out of range"
	ErrMergeConflictUnresolvable = "conflicting values and policy is fail-on-conflict"
)

// Info messages
const (
	InfoBackupCreated        = "Backup created: %s"
	InfoRecordsInserted      = "Inserted %d records"
	InfoRecordsSkipped       = "Skipped %d records without translation or pointer"
	InfoWroteUpToBank        = "Wrote text data up to bank 0x%02X"
	InfoPatchesApplied       = "Applied %d machine code patches"
	InfoWindowsInserted      = "Inserted %d window records (%d bytes of data)"
	InfoMergeComplete        = "Merge complete: %d entries updated, %d conflicts resolved"
	InfoMergeSaved           = "Merged translation saved to: %s"
	InfoTableLoaded          = "Translation table loaded: %d mappings"
	InfoOverworldTableLoaded = "Overworld translation table loaded: %d mappings"
)

// Debug messages
const (
	DebugRecordPlaced     = "Record %04X placed at bank 0x%02X offset 0x%04X (%d bytes)"
	DebugRecordLayout     = "Record %04X: %q -> %d bytes"
	DebugRegionAdvance    = "Region exhausted, advancing to region %d at 0x%06X"
	DebugPointerWrite     = "Pointer at 0x%06X <- 0x%04X"
	DebugInPlaceWrite     = "In-place write at 0x%06X (%d bytes)"
	DebugOverworldRecord  = "Record %04X uses the overworld character set"
	DebugMergeUpgraded    = "Entry %04X: placeholder upgraded from incoming file"
	DebugMergeKept        = "Entry %04X: kept existing %s"
	DebugMergeReplaced    = "Entry %04X: replaced %s from incoming file"
	DebugWindowHeader     = "Window %02X header: % X"
	DebugPatchApplied     = "Patch at 0x%06X: %d bytes"
	DebugTableMapping     = "Table: 0x%02X = %q"
	DebugSkippedNoPointer = "Entry %04X skipped: pointer location not wired"
	DebugSkippedTodo      = "Entry %04X skipped: translation still TODO"
)

// Warning messages
const (
	WarnEntrySkipped        = "Skipping entry %04X: %v"
	WarnBackupDisabled      = "Backup disabled, patching ROM in place without a safety copy"
	WarnSignLineMissing     = "Sign %04X line %d has no translated text, writing empty line"
	WarnForcedWindowHeader  = "Window %02X uses a forced header, geometry fields ignored"
	WarnMergeEntryNotInBase = "Entry %04X from incoming file not present in existing file, ignored"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
