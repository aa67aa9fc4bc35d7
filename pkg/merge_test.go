// Package pkg provides tests for the work-file merge tool
package pkg

import (
	"errors"
	"testing"
)

func baseDocument() *TranslationDocument {
	return &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {Original: "old original", Translation: "old translation", PointerLocation: 0x1000},
			0x11: {Original: "stub", Translation: "TODO", PointerLocation: 0},
			0x12: {Original: "same", Translation: "same text", PointerLocation: 0x1200},
		},
		Combat: map[int]*ScriptEntry{
			0x20: {Original: "swing", Translation: "TODO swing", PointerLocation: 0x2000},
		},
	}
}

func TestMergeDocuments_PlaceholderUpgradedSilently(t *testing.T) {
	existing := baseDocument()
	incoming := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x11: {Original: "stub", Translation: "Real text now", PointerLocation: 0x1100},
		},
	}

	stats, err := MergeDocuments(existing, incoming, FailOnConflict)
	if err != nil {
		t.Fatalf("MergeDocuments() error: %v", err)
	}

	entry := existing.Script[0x11]
	if entry.Translation != "Real text now" {
		t.Errorf("Translation = %q, want %q", entry.Translation, "Real text now")
	}
	if entry.PointerLocation != 0x1100 {
		t.Errorf("PointerLocation = 0x%X, want 0x1100", entry.PointerLocation)
	}
	if stats.Updated != 1 {
		t.Errorf("Updated = %d, want 1", stats.Updated)
	}
	if stats.Conflicts != 0 {
		t.Errorf("Conflicts = %d, want 0", stats.Conflicts)
	}
}

func TestMergeDocuments_TodoTranslationUpgraded(t *testing.T) {
	existing := baseDocument()
	incoming := &TranslationDocument{
		Combat: map[int]*ScriptEntry{
			0x20: {Original: "swing", Translation: "A mighty swing!", PointerLocation: 0x2000},
		},
	}

	_, err := MergeDocuments(existing, incoming, FailOnConflict)
	if err != nil {
		t.Fatalf("MergeDocuments() error: %v", err)
	}
	if existing.Combat[0x20].Translation != "A mighty swing!" {
		t.Errorf("Translation = %q, want upgraded text", existing.Combat[0x20].Translation)
	}
}

func TestMergeDocuments_PreferNew(t *testing.T) {
	existing := baseDocument()
	incoming := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {Original: "old original", Translation: "new translation", PointerLocation: 0x1000},
		},
	}

	stats, err := MergeDocuments(existing, incoming, PreferNew)
	if err != nil {
		t.Fatalf("MergeDocuments() error: %v", err)
	}
	if existing.Script[0x10].Translation != "new translation" {
		t.Errorf("Translation = %q, want incoming value", existing.Script[0x10].Translation)
	}
	if stats.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", stats.Conflicts)
	}
}

func TestMergeDocuments_PreferOld(t *testing.T) {
	existing := baseDocument()
	incoming := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {Original: "old original", Translation: "new translation", PointerLocation: 0x1000},
		},
	}

	_, err := MergeDocuments(existing, incoming, PreferOld)
	if err != nil {
		t.Fatalf("MergeDocuments() error: %v", err)
	}
	if existing.Script[0x10].Translation != "old translation" {
		t.Errorf("Translation = %q, want existing value kept", existing.Script[0x10].Translation)
	}
}

func TestMergeDocuments_FailOnConflict(t *testing.T) {
	existing := baseDocument()
	incoming := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {Original: "changed original", Translation: "old translation", PointerLocation: 0x1000},
		},
	}

	_, err := MergeDocuments(existing, incoming, FailOnConflict)
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}

	var conflict *MergeConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected MergeConflictError, got %T: %v", err, err)
	}
	if conflict.ID != 0x10 {
		t.Errorf("ID = 0x%X, want 0x10", conflict.ID)
	}
	if conflict.Field != "original" {
		t.Errorf("Field = %q, want \"original\"", conflict.Field)
	}
}

func TestMergeDocuments_PointerWiringIsNotAConflict(t *testing.T) {
	existing := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {Original: "text", Translation: "done", PointerLocation: 0},
		},
	}
	incoming := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {Original: "text", Translation: "done", PointerLocation: 0x1000},
		},
	}

	stats, err := MergeDocuments(existing, incoming, FailOnConflict)
	if err != nil {
		t.Fatalf("MergeDocuments() error: %v", err)
	}
	if existing.Script[0x10].PointerLocation != 0x1000 {
		t.Errorf("PointerLocation = 0x%X, want 0x1000", existing.Script[0x10].PointerLocation)
	}
	if stats.Conflicts != 0 {
		t.Errorf("Conflicts = %d, want 0", stats.Conflicts)
	}
}

func TestMergeDocuments_UnknownEntryIgnored(t *testing.T) {
	existing := baseDocument()
	incoming := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x99: {Original: "new entry", Translation: "text", PointerLocation: 0x9900},
		},
	}

	stats, err := MergeDocuments(existing, incoming, FailOnConflict)
	if err != nil {
		t.Fatalf("MergeDocuments() error: %v", err)
	}
	if _, ok := existing.Script[0x99]; ok {
		t.Error("entry 0x99 must not be added, the existing file defines the record set")
	}
	if stats.Updated != 0 {
		t.Errorf("Updated = %d, want 0", stats.Updated)
	}
}

func TestMergeDocuments_IdenticalEntriesUntouched(t *testing.T) {
	existing := baseDocument()
	incoming := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x12: {Original: "same", Translation: "same text", PointerLocation: 0x1200},
		},
	}

	stats, err := MergeDocuments(existing, incoming, FailOnConflict)
	if err != nil {
		t.Fatalf("MergeDocuments() error: %v", err)
	}
	if stats.Updated != 0 || stats.Conflicts != 0 {
		t.Errorf("stats = %+v, want no changes", stats)
	}
}

func TestParseMergePolicy(t *testing.T) {
	tests := []struct {
		value   string
		want    MergePolicy
		wantErr bool
	}{
		{"new", PreferNew, false},
		{"OLD", PreferOld, false},
		{"fail", FailOnConflict, false},
		{"ask", PreferNew, true},
	}

	for _, tt := range tests {
		policy, err := ParseMergePolicy(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMergePolicy(%q): expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMergePolicy(%q) error: %v", tt.value, err)
			continue
		}
		if policy != tt.want {
			t.Errorf("ParseMergePolicy(%q) = %d, want %d", tt.value, policy, tt.want)
		}
	}
}
