// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the merge tool that reconciles
// two translation work files.
package pkg

import (
	"fmt"
	"strings"

	"github.com/DemonGiggle/gbromhack/pkg/common"
)

// MergePolicy decides which side wins when both work files carry real,
// differing data for the same field.
type MergePolicy int

const (
	// PreferNew takes the incoming file's value on conflict
	PreferNew MergePolicy = iota
	// PreferOld keeps the existing file's value on conflict
	PreferOld
	// FailOnConflict aborts the merge on the first real conflict
	FailOnConflict
)

// ParseMergePolicy converts a command line flag value to a policy
func ParseMergePolicy(value string) (MergePolicy, error) {
	switch strings.ToLower(value) {
	case "new":
		return PreferNew, nil
	case "old":
		return PreferOld, nil
	case "fail":
		return FailOnConflict, nil
	default:
		return PreferNew, fmt.Errorf("unknown merge policy %q (want new, old or fail)", value)
	}
}

// MergeStats summarizes what a merge changed
type MergeStats struct {
	Updated   int
	Conflicts int
}

// MergeConflictError reports an unresolved conflict under FailOnConflict
type MergeConflictError struct {
	ID    int
	Field string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("entry %04X: conflicting %s values", e.ID, e.Field)
}

// MergeDocuments folds the incoming work file into the existing one.
// Placeholder data (TODO translations, unwired pointers) always loses to
// real data without counting as a conflict; everything else is resolved
// by the policy. Entries only present in the incoming file are ignored,
// the existing file defines the record set.
func MergeDocuments(existing, incoming *TranslationDocument, policy MergePolicy) (MergeStats, error) {
	stats := MergeStats{}

	incomingSections := incoming.sections()
	for _, incomingSection := range incomingSections {
		for _, id := range sortedKeys(incomingSection.entries) {
			incomingEntry := incomingSection.entries[id]

			existingEntry, existingSection := findEntry(existing, id)
			if existingEntry == nil {
				common.LogWarn(common.WarnMergeEntryNotInBase, id)
				continue
			}

			if entriesEqual(existingEntry, incomingEntry) {
				continue
			}

			// An untouched script stub is replaced wholesale
			if existingSection == "script" && existingEntry.Placeholder() {
				*existingEntry = *incomingEntry
				common.LogDebug(common.DebugMergeUpgraded, id)
				stats.Updated++
				continue
			}

			changed, err := mergeEntry(id, existingEntry, incomingEntry, policy, &stats)
			if err != nil {
				return stats, err
			}
			if changed {
				stats.Updated++
			}
		}
	}

	common.LogInfo(common.InfoMergeComplete, stats.Updated, stats.Conflicts)
	return stats, nil
}

// entriesEqual compares two entries field by field
func entriesEqual(a, b *ScriptEntry) bool {
	if a.Original != b.Original || a.Translation != b.Translation ||
		a.PointerLocation != b.PointerLocation || a.Overworld != b.Overworld {
		return false
	}
	if len(a.AdditionalPointers) != len(b.AdditionalPointers) {
		return false
	}
	for i, pointer := range a.AdditionalPointers {
		if pointer != b.AdditionalPointers[i] {
			return false
		}
	}
	return true
}

// findEntry locates an entry by logical id across the existing file's
// sections, returning the entry and its section name.
func findEntry(document *TranslationDocument, id int) (*ScriptEntry, string) {
	for _, candidate := range document.sections() {
		if entry, ok := candidate.entries[id]; ok {
			return entry, candidate.name
		}
	}
	return nil, ""
}

// mergeEntry reconciles one entry field by field
func mergeEntry(id int, existing, incoming *ScriptEntry, policy MergePolicy, stats *MergeStats) (bool, error) {
	changed := false

	if existing.Original != incoming.Original {
		take, err := resolveConflict(id, "original", policy, stats)
		if err != nil {
			return changed, err
		}
		if take {
			existing.Original = incoming.Original
			common.LogDebug(common.DebugMergeReplaced, id, "original")
			changed = true
		} else {
			common.LogDebug(common.DebugMergeKept, id, "original")
		}
	}

	switch {
	case existing.PointerLocation == 0 && incoming.PointerLocation != 0:
		// Wiring up a pointer is an upgrade, not a conflict
		existing.PointerLocation = incoming.PointerLocation
		changed = true
	case existing.PointerLocation != 0 && incoming.PointerLocation != 0 &&
		existing.PointerLocation != incoming.PointerLocation:
		take, err := resolveConflict(id, "pointer_location", policy, stats)
		if err != nil {
			return changed, err
		}
		if take {
			existing.PointerLocation = incoming.PointerLocation
			common.LogDebug(common.DebugMergeReplaced, id, "pointer_location")
			changed = true
		} else {
			common.LogDebug(common.DebugMergeKept, id, "pointer_location")
		}
	}

	existingTodo := strings.HasPrefix(existing.Translation, TodoPrefix)
	incomingTodo := strings.HasPrefix(incoming.Translation, TodoPrefix)
	switch {
	case existingTodo && !incomingTodo:
		existing.Translation = incoming.Translation
		changed = true
	case !existingTodo && !incomingTodo && existing.Translation != incoming.Translation:
		take, err := resolveConflict(id, "translation", policy, stats)
		if err != nil {
			return changed, err
		}
		if take {
			existing.Translation = incoming.Translation
			common.LogDebug(common.DebugMergeReplaced, id, "translation")
			changed = true
		} else {
			common.LogDebug(common.DebugMergeKept, id, "translation")
		}
	}

	return changed, nil
}

// resolveConflict applies the policy to one conflicting field, returning
// whether the incoming value should be taken.
func resolveConflict(id int, field string, policy MergePolicy, stats *MergeStats) (bool, error) {
	stats.Conflicts++
	switch policy {
	case PreferOld:
		return false, nil
	case FailOnConflict:
		return false, common.FormatError(common.ErrMergeConflictUnresolvable, &MergeConflictError{ID: id, Field: field})
	default:
		return true, nil
	}
}
