// Package pkg provides tests for the per-category inserters, run against
// a zero-filled scratch ROM image.
package pkg

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DemonGiggle/gbromhack/pkg/gb"
)

// newTestROM creates and opens a zero-filled scratch ROM image
func newTestROM(t *testing.T, size int) *gb.ROM {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gb")
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("failed to create test ROM: %v", err)
	}
	rom, err := gb.OpenROM(path)
	if err != nil {
		t.Fatalf("OpenROM() error: %v", err)
	}
	return rom
}

// newTestTable builds an identity table: every printable ASCII character
// encodes as its own byte, control tokens as their code byte.
func newTestTable() *TranslationTable {
	mappings := map[string][]byte{
		"<FF>": {0xFF},
		"<FC>": {0xFC},
		"<FE>": {0xFE},
		"<FD>": {0xFD},
	}
	for b := byte(0x20); b < 0x7F; b++ {
		mappings[string(rune(b))] = []byte{b}
	}
	return NewTranslationTable("test", mappings)
}

// expectBytes fails the test when the ROM content at offset differs
func expectBytes(t *testing.T, rom *gb.ROM, offset int64, want []byte) {
	t.Helper()
	read, err := rom.ReadAt(offset, len(want))
	if err != nil {
		t.Fatalf("ReadAt(0x%X) error: %v", offset, err)
	}
	if !bytes.Equal(read, want) {
		t.Errorf("bytes at 0x%X = % X, want % X", offset, read, want)
	}
}

func TestScriptInserter_Insert(t *testing.T) {
	rom := newTestROM(t, 2*1024*1024)
	defer rom.Close()

	document := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {
				Original:           "original line",
				Translation:        "Hello World",
				PointerLocation:    0x1234,
				AdditionalPointers: []int{0x2000},
			},
			0x11: {Original: "later", Translation: "TODO translate me", PointerLocation: 0x3000},
			0x12: {Original: "unwired", Translation: "X", PointerLocation: 0},
		},
		Combat: map[int]*ScriptEntry{
			0x20: {Original: "hit", Translation: "Hit!", PointerLocation: 0x1500},
		},
		InPlace: map[int]*InPlaceEntry{
			0x500: {Translation: "OK"},
		},
	}

	inserter := NewScriptInserter(newTestTable(), nil)
	if err := inserter.Insert(rom, document); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	// In-place substitution, no relocation
	expectBytes(t, rom, 0x500, []byte("OK"))

	// Intro message stays at index 0: pointer holds indirection entry 0,
	// the entry points at bank 0x11 offset 0, the payload follows the
	// layout "A morning in the<FE>Jungle.<FC>"
	expectBytes(t, rom, gb.IntroMessagePointer, []byte{0x00, 0x00})
	expectBytes(t, rom, gb.ScriptIndirectionTable(0), []byte{0x11, 0x00, 0x00})
	expectBytes(t, rom, gb.AbsoluteOffset(0x11, 0), append([]byte("A morning in the"), 0xFE))
	expectBytes(t, rom, gb.AbsoluteOffset(0x11, 24), []byte{0xFC})

	// "Hello World" is record 1, placed right after the 25-byte intro;
	// both pointers hold the same indirection entry offset
	expectBytes(t, rom, 0x1234, []byte{0x03, 0x00})
	expectBytes(t, rom, 0x2000, []byte{0x03, 0x00})
	expectBytes(t, rom, gb.ScriptIndirectionTable(1), []byte{0x11, 0x19, 0x00})
	expectBytes(t, rom, gb.AbsoluteOffset(0x11, 0x19), append([]byte("Hello World"), 0xFF))

	// "Hit!" is record 2 at offset 25+12
	expectBytes(t, rom, 0x1500, []byte{0x06, 0x00})
	expectBytes(t, rom, gb.ScriptIndirectionTable(2), []byte{0x11, 0x25, 0x00})
	expectBytes(t, rom, gb.AbsoluteOffset(0x11, 0x25), append([]byte("Hit!"), 0xFF))

	// The skipped entries left their pointers untouched
	expectBytes(t, rom, 0x3000, []byte{0x00, 0x00})
}

func TestScriptInserter_InPlaceMissingTranslationFails(t *testing.T) {
	rom := newTestROM(t, 0x10000)
	defer rom.Close()

	document := &TranslationDocument{
		InPlace: map[int]*InPlaceEntry{
			0x500: {Original: "fixed text", Translation: ""},
		},
	}

	inserter := NewScriptInserter(newTestTable(), nil)
	err := inserter.Insert(rom, document)
	if err == nil {
		t.Fatal("expected error for in-place entry without translation, got nil")
	}

	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %T: %v", err, err)
	}
	if malformed.ID != 0x500 {
		t.Errorf("ID = 0x%X, want 0x500", malformed.ID)
	}
}

func TestScriptInserter_UnmappedCharacterAborts(t *testing.T) {
	rom := newTestROM(t, 2*1024*1024)
	defer rom.Close()

	table := NewTranslationTable("tiny", map[string][]byte{
		"<FF>": {0xFF}, "<FC>": {0xFC}, "<FE>": {0xFE},
		"A": {0x41}, " ": {0x00},
	})
	document := &TranslationDocument{
		Script: map[int]*ScriptEntry{
			0x10: {Translation: "AZ", PointerLocation: 0x1234},
		},
	}

	// The intro message itself needs the full character set, so even an
	// otherwise empty document fails against this crippled table
	inserter := NewScriptInserter(table, nil)
	err := inserter.Insert(rom, document)
	if err == nil {
		t.Fatal("expected EncodingError, got nil")
	}
	var encodingErr *EncodingError
	if !errors.As(err, &encodingErr) {
		t.Fatalf("expected EncodingError, got %T: %v", err, err)
	}
}

func TestEnemyInserter_Insert(t *testing.T) {
	rom := newTestROM(t, 2*1024*1024)
	defer rom.Close()

	header := bytes.Repeat([]byte{0xA5}, 22)
	document := &EnemyDocument{
		Enemies: map[int]*EnemyEntry{
			2: {TranslatedName: "AB", OriginalHeader: "a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5"},
			3: {TranslatedName: "", OriginalHeader: "00"}, // skipped with a warning
		},
	}

	inserter := NewEnemyInserter(newTestTable())
	if err := inserter.Insert(rom, document); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	dataStart := int64(gb.EnemyDataRegions[0].Start)
	expectBytes(t, rom, dataStart, header)
	expectBytes(t, rom, dataStart+22, []byte("AB"))

	// Pointer holds the CPU address of the record through the data bank
	// window: 0x31800 - 0xB*0x4000 = 0x5800
	expectBytes(t, rom, gb.EnemyPointersStart+2*2, []byte{0x00, 0x58})

	// The skipped enemy left its pointer untouched
	expectBytes(t, rom, gb.EnemyPointersStart+3*2, []byte{0x00, 0x00})
}

func TestSignInserter_Insert(t *testing.T) {
	rom := newTestROM(t, 2*1024*1024)
	defer rom.Close()

	document := &SignDocument{
		Signs: map[int]*SignEntry{
			1: {
				Line0TranslatedText: "GO",
				Line1TranslatedText: "UP",
				Line2TranslatedText: "",
			},
		},
	}

	inserter := NewSignInserter(newTestTable())
	if err := inserter.Insert(rom, document); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	dataStart := int64(gb.SignDataRegions[0].Start)
	expectBytes(t, rom, dataStart, []byte{0x02, 'G', 'O', 0x02, 'U', 'P', 0x00})

	// 0x32400 - 0xB*0x4000 = 0x6400
	expectBytes(t, rom, gb.SignPointersStart+1*2, []byte{0x00, 0x64})
}

func TestRegionInserter_OverflowAbortsBatch(t *testing.T) {
	rom := newTestROM(t, 0x40000)
	defer rom.Close()

	inserter := &RegionInserter{
		PointersStart: 0x30000,
		BaseBank:      0x0C,
		Regions:       []gb.Region{{Start: 0x31800, End: 0x31808}},
	}
	records := []regionRecord{
		{id: 0, payload: []byte{1, 2, 3, 4, 5, 6}},
		{id: 1, payload: []byte{1, 2, 3, 4}},
	}

	err := inserter.insert(rom, records)
	if err == nil {
		t.Fatal("expected AllocationOverflowError, got nil")
	}
	var overflow *AllocationOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected AllocationOverflowError, got %T: %v", err, err)
	}
	if overflow.RecordID != 1 {
		t.Errorf("RecordID = %d, want 1", overflow.RecordID)
	}

	// Nothing was written past the region bound
	expectBytes(t, rom, 0x31808, []byte{0x00, 0x00, 0x00, 0x00})
}

func TestNPCInserter_Insert(t *testing.T) {
	rom := newTestROM(t, 2*1024*1024)
	defer rom.Close()

	document := &NPCDocument{
		NPCs: map[int]*NPCEntry{
			1: {NameTranslated: "BOB", Location: 0x100},
		},
	}

	inserter := NewNPCInserter(newTestTable())
	if err := inserter.Insert(rom, document); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	// Written in place in the relocated bank, with a terminator appended
	expectBytes(t, rom, gb.NPCNameOffset(0x100), []byte{'B', 'O', 'B', 0xFF})
}

func TestWindowInserter_Insert(t *testing.T) {
	rom := newTestROM(t, 2*1024*1024)
	defer rom.Close()

	document := &WindowDocument{
		Fullscreen: map[int]*WindowEntry{
			2: {X: 1, Y: 2, Width: 10, Height: 4, Translation: "HI<FF>"},
		},
		Overlay: map[int]*WindowEntry{
			0x81: {Translation: "NO<FF>", ForceHeader: "aabbccddeeff"},
		},
	}

	inserter := NewWindowInserter(newTestTable(), nil)
	if err := inserter.Insert(rom, document); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	// Fullscreen window 2: pointer, recomputed header, text
	expectBytes(t, rom, gb.WindowFullscreenPointers+2*2, []byte{0x00, 0x50})
	expectBytes(t, rom, gb.WindowDataStart, []byte{2, 1, 4, 10, 0, 0})
	expectBytes(t, rom, gb.WindowDataStart+6, []byte{'H', 'I', 0xFF})

	// Overlay window 0x81 follows the 9 fullscreen bytes; its forced
	// header is written verbatim
	expectBytes(t, rom, gb.WindowOverlayPointers+2, []byte{0x09, 0x50})
	expectBytes(t, rom, gb.WindowDataStart+9, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	expectBytes(t, rom, gb.WindowDataStart+15, []byte{'N', 'O', 0xFF})
}
