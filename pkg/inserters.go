// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the per-category inserters that
// tie the layout engine, the table encoder and the allocators together
// and commit payloads and pointers to the ROM image.
package pkg

import (
	"fmt"
	"strings"

	"github.com/DemonGiggle/gbromhack/pkg/common"
	"github.com/DemonGiggle/gbromhack/pkg/gb"
)

// ScriptInserter relocates the scripted dialogue text: each record is
// laid out, encoded, packed into the growing data banks and wired up
// through the three-byte indirection table.
type ScriptInserter struct {
	Table          *TranslationTable
	OverworldTable *TranslationTable
	Widths         TokenWidths
}

// NewScriptInserter returns a script inserter using the given encoder
// tables and the default token width table.
func NewScriptInserter(table, overworldTable *TranslationTable) *ScriptInserter {
	return &ScriptInserter{
		Table:          table,
		OverworldTable: overworldTable,
		Widths:         DefaultTokenWidths(),
	}
}

// Insert applies the whole script work file to the ROM: in-place
// substitutions first, then every wired dialogue record.
func (ins *ScriptInserter) Insert(rom *gb.ROM, document *TranslationDocument) error {
	if err := ins.insertInPlace(rom, document.InPlace); err != nil {
		return err
	}

	records, skipped := ins.collectRecords(document)
	common.LogInfo(common.InfoRecordsSkipped, skipped)

	allocator := NewBankAllocator(gb.ScriptDataBank)
	for index, record := range records {
		if err := ins.prepareRecord(record); err != nil {
			return fmt.Errorf("record with pointer at 0x%06X: %w", record.PointerAddress, err)
		}

		record.Placement = allocator.Place(record.ByteLength)
		common.LogDebug(common.DebugRecordPlaced, record.PointerAddress,
			record.Placement.Bank, record.Placement.Offset, record.ByteLength)

		if err := ins.writeRecord(rom, index, record); err != nil {
			return err
		}
	}

	common.LogInfo(common.InfoRecordsInserted, len(records))
	common.LogInfo(common.InfoWroteUpToBank, allocator.CurrentBank())
	return nil
}

// insertInPlace performs the fixed-address substitutions. These records
// are not relocated and have no pointers; a missing translation here is
// a hard failure, the game text at that offset would otherwise be left
// half original.
func (ins *ScriptInserter) insertInPlace(rom *gb.ROM, entries map[int]*InPlaceEntry) error {
	for _, offset := range sortedKeys(entries) {
		entry := entries[offset]
		if entry.Translation == "" {
			return common.FormatError(common.ErrMissingTranslation, &MalformedRecordError{ID: offset, Field: "translation"})
		}
		encoded, err := ins.Table.ConvertScript(entry.Translation)
		if err != nil {
			return common.FormatError(common.ErrFailedToEncodeText, err)
		}
		if err := rom.WriteAt(int64(offset), encoded); err != nil {
			return common.FormatError(common.ErrFailedToWritePayload, err)
		}
		common.LogDebug(common.DebugInPlaceWrite, offset, len(encoded))
	}
	return nil
}

// collectRecords turns the wired work-file entries into text records.
// The fixed intro message stays at index 0; entries without a pointer or
// still marked TODO are skipped with a count.
func (ins *ScriptInserter) collectRecords(document *TranslationDocument) ([]*TextRecord, int) {
	records := []*TextRecord{{
		PointerAddress: gb.IntroMessagePointer,
		Text:           gb.IntroMessageText,
		LineBudget:     ScriptLineBudget,
	}}

	skipped := 0
	for _, category := range document.sections() {
		for _, id := range sortedKeys(category.entries) {
			entry := category.entries[id]
			if entry.PointerLocation == 0 {
				common.LogDebug(common.DebugSkippedNoPointer, id)
				skipped++
				continue
			}
			if strings.HasPrefix(entry.Translation, TodoPrefix) {
				common.LogDebug(common.DebugSkippedTodo, id)
				skipped++
				continue
			}
			records = append(records, &TextRecord{
				PointerAddress:     entry.PointerLocation,
				AdditionalPointers: entry.AdditionalPointers,
				Text:               entry.Translation,
				LineBudget:         category.lineBudget,
				Overworld:          entry.Overworld,
			})
		}
	}
	return records, skipped
}

// prepareRecord lays out and encodes one record, checking that the
// encoder produced exactly the byte length the layout engine computed.
func (ins *ScriptInserter) prepareRecord(record *TextRecord) error {
	record.Prepare(ins.Widths)
	common.LogDebug(common.DebugRecordLayout, record.PointerAddress, record.MarkedText, record.ByteLength)

	table := ins.Table
	if record.Overworld {
		common.LogDebug(common.DebugOverworldRecord, record.PointerAddress)
		if ins.OverworldTable == nil {
			return fmt.Errorf("record uses the overworld character set but no overworld table is loaded")
		}
		table = ins.OverworldTable
	}

	encoded, err := table.ConvertScript(record.MarkedText)
	if err != nil {
		return common.FormatError(common.ErrFailedToEncodeText, err)
	}
	if len(encoded) != record.ByteLength {
		return fmt.Errorf("layout computed %d bytes but encoder produced %d", record.ByteLength, len(encoded))
	}
	record.Encoded = encoded
	return nil
}

// writeRecord commits one placed record: the payload, the indirection
// table entry, and every pointer referencing the record. Pointers hold
// the record's indirection entry offset; the entry holds the final bank
// and intra-bank offset.
func (ins *ScriptInserter) writeRecord(rom *gb.ROM, index int, record *TextRecord) error {
	pointerValue, err := common.SafeIntToUint16(index * gb.ScriptIndirectionStride)
	if err != nil {
		return common.FormatError(common.ErrPointerValueOutOfRange, err)
	}

	if err := rom.WriteUint16LE(int64(record.PointerAddress), pointerValue); err != nil {
		return common.FormatError(common.ErrFailedToWritePointer, err)
	}
	common.LogDebug(common.DebugPointerWrite, record.PointerAddress, pointerValue)
	for _, pointer := range record.AdditionalPointers {
		if err := rom.WriteUint16LE(int64(pointer), pointerValue); err != nil {
			return common.FormatError(common.ErrFailedToWritePointer, err)
		}
		common.LogDebug(common.DebugPointerWrite, pointer, pointerValue)
	}

	bank, err := common.SafeIntToUint8(record.Placement.Bank)
	if err != nil {
		return common.FormatError(common.ErrPointerValueOutOfRange, err)
	}
	offset, err := common.SafeIntToUint16(record.Placement.Offset)
	if err != nil {
		return common.FormatError(common.ErrPointerValueOutOfRange, err)
	}
	entry := append([]byte{bank}, common.Uint16LEBytes(offset)...)
	if err := rom.WriteAt(gb.ScriptIndirectionTable(index), entry); err != nil {
		return common.FormatError(common.ErrFailedToWritePointer, err)
	}

	target := gb.AbsoluteOffset(record.Placement.Bank, record.Placement.Offset)
	if err := rom.WriteAt(target, record.Encoded); err != nil {
		return common.FormatError(common.ErrFailedToWritePayload, err)
	}
	return nil
}

// RegionInserter places length-prefixed or header-carrying records into
// a fixed list of allocated regions and rewrites their bank-relative
// pointer table. Enemies and signs share this mechanism; only the payload
// construction differs.
type RegionInserter struct {
	// PointersStart is the absolute offset of the category's pointer table
	PointersStart int64
	// BaseBank is the bank the pointer table addresses through
	BaseBank int
	// Regions are the allocated ranges, tried in order
	Regions []gb.Region
}

// regionRecord is one built payload awaiting placement
type regionRecord struct {
	id      int
	payload []byte
}

// insert places every record and rewrites its pointer table entry.
// Allocation overflow aborts the batch: the record set does not fit.
func (ins *RegionInserter) insert(rom *gb.ROM, records []regionRecord) error {
	allocator := NewRegionAllocator(ins.Regions)
	for _, record := range records {
		offset, err := allocator.Place(record.id, len(record.payload))
		if err != nil {
			return common.FormatError(common.ErrAllocationSpaceExhausted, err)
		}

		pointer, err := BankRelativePointer(int64(offset), ins.BaseBank)
		if err != nil {
			return err
		}
		pointerLocation := ins.PointersStart + int64(record.id)*2
		if err := rom.WriteUint16LE(pointerLocation, pointer); err != nil {
			return common.FormatError(common.ErrFailedToWritePointer, err)
		}
		common.LogDebug(common.DebugPointerWrite, pointerLocation, pointer)

		if err := rom.WriteAt(int64(offset), record.payload); err != nil {
			return common.FormatError(common.ErrFailedToWritePayload, err)
		}
	}
	common.LogInfo(common.InfoRecordsInserted, len(records))
	return nil
}

// EnemyInserter relocates the opponent records: the original 22-byte
// stat header followed by the translated name.
type EnemyInserter struct {
	Table *TranslationTable
}

// NewEnemyInserter returns an enemy inserter using the given encoder table
func NewEnemyInserter(table *TranslationTable) *EnemyInserter {
	return &EnemyInserter{Table: table}
}

// Insert applies the enemy work file to the ROM
func (ins *EnemyInserter) Insert(rom *gb.ROM, document *EnemyDocument) error {
	region := &RegionInserter{
		PointersStart: gb.EnemyPointersStart,
		BaseBank:      gb.EnemyBaseBank,
		Regions:       gb.EnemyDataRegions,
	}

	var records []regionRecord
	for _, id := range sortedKeys(document.Enemies) {
		entry := document.Enemies[id]
		if entry.TranslatedName == "" {
			common.LogWarn(common.WarnEntrySkipped, id, &MalformedRecordError{ID: id, Field: "translated_name"})
			continue
		}
		header, err := entry.HeaderBytes()
		if err != nil {
			common.LogWarn(common.WarnEntrySkipped, id, err)
			continue
		}
		name, err := ins.Table.ConvertScript(entry.TranslatedName)
		if err != nil {
			return common.FormatError(common.ErrFailedToEncodeText, err)
		}
		records = append(records, regionRecord{id: id, payload: append(header, name...)})
	}
	return region.insert(rom, records)
}

// SignInserter relocates the environmental sign records: three
// length-prefixed display lines per sign.
type SignInserter struct {
	Table *TranslationTable
}

// NewSignInserter returns a sign inserter using the given encoder table
func NewSignInserter(table *TranslationTable) *SignInserter {
	return &SignInserter{Table: table}
}

// Insert applies the sign work file to the ROM
func (ins *SignInserter) Insert(rom *gb.ROM, document *SignDocument) error {
	region := &RegionInserter{
		PointersStart: gb.SignPointersStart,
		BaseBank:      gb.SignBaseBank,
		Regions:       gb.SignDataRegions,
	}

	var records []regionRecord
	for _, id := range sortedKeys(document.Signs) {
		entry := document.Signs[id]

		var payload []byte
		for lineIndex, line := range entry.TranslatedLines() {
			if line == "" {
				common.LogWarn(common.WarnSignLineMissing, id, lineIndex)
			}
			encoded, err := ins.Table.ConvertScript(line)
			if err != nil {
				return common.FormatError(common.ErrFailedToEncodeText, err)
			}
			lineLength, err := common.SafeIntToUint8(len(encoded))
			if err != nil {
				return common.FormatError(common.ErrFailedToEncodeText, err)
			}
			payload = append(payload, lineLength)
			payload = append(payload, encoded...)
		}
		records = append(records, regionRecord{id: id, payload: payload})
	}
	return region.insert(rom, records)
}

// NPCInserter overwrites the NPC name tags in place in their relocated
// bank. No pointer is rewritten; the name slot stays where it is.
type NPCInserter struct {
	Table *TranslationTable
}

// NewNPCInserter returns an NPC inserter using the given encoder table
func NewNPCInserter(table *TranslationTable) *NPCInserter {
	return &NPCInserter{Table: table}
}

// Insert applies the NPC work file to the ROM
func (ins *NPCInserter) Insert(rom *gb.ROM, document *NPCDocument) error {
	inserted := 0
	for _, id := range sortedKeys(document.NPCs) {
		entry := document.NPCs[id]
		if entry.NameTranslated == "" {
			common.LogWarn(common.WarnEntrySkipped, id, &MalformedRecordError{ID: id, Field: "name_translated"})
			continue
		}
		encoded, err := ins.Table.ConvertScript(entry.NameTranslated)
		if err != nil {
			return common.FormatError(common.ErrFailedToEncodeText, err)
		}

		target := gb.NPCNameOffset(entry.Location)
		if err := rom.WriteAt(target, append(encoded, 0xFF)); err != nil {
			return common.FormatError(common.ErrFailedToWritePayload, err)
		}
		common.LogDebug(common.DebugInPlaceWrite, target, len(encoded)+1)
		inserted++
	}
	common.LogInfo(common.InfoRecordsInserted, inserted)
	return nil
}

// WindowInserter rebuilds the UI window data: both pointer tables and
// the sequentially packed header + text payloads behind them.
type WindowInserter struct {
	Table          *TranslationTable
	OverworldTable *TranslationTable
}

// NewWindowInserter returns a window inserter using the given encoder tables
func NewWindowInserter(table, overworldTable *TranslationTable) *WindowInserter {
	return &WindowInserter{Table: table, OverworldTable: overworldTable}
}

// Insert applies the window work file to the ROM
func (ins *WindowInserter) Insert(rom *gb.ROM, document *WindowDocument) error {
	totalSize := 0
	inserted := 0

	groups := []struct {
		entries       map[int]*WindowEntry
		pointersStart int64
		idBase        int
	}{
		{document.Fullscreen, gb.WindowFullscreenPointers, 0},
		{document.Overlay, gb.WindowOverlayPointers, gb.WindowOverlayIDBase},
	}

	for _, group := range groups {
		for _, id := range sortedKeys(group.entries) {
			window, err := NewWindowFromEntry(id, group.entries[id])
			if err != nil {
				return err
			}
			size, err := ins.insertWindow(rom, window, group.pointersStart, group.idBase, totalSize)
			if err != nil {
				return err
			}
			totalSize += size
			inserted++
		}
	}

	common.LogInfo(common.InfoWindowsInserted, inserted, totalSize)
	return nil
}

// insertWindow writes one window's pointer, header and text and returns
// the number of data bytes consumed.
func (ins *WindowInserter) insertWindow(rom *gb.ROM, window *Window, pointersStart int64, idBase, totalSize int) (int, error) {
	pointer, err := common.SafeIntToUint16(gb.WindowPointerBase + totalSize)
	if err != nil {
		return 0, common.FormatError(common.ErrPointerValueOutOfRange, err)
	}
	pointerLocation := pointersStart + int64(window.ID-idBase)*2
	if err := rom.WriteUint16LE(pointerLocation, pointer); err != nil {
		return 0, common.FormatError(common.ErrFailedToWritePointer, err)
	}
	common.LogDebug(common.DebugPointerWrite, pointerLocation, pointer)

	header, err := window.Header()
	if err != nil {
		return 0, err
	}
	common.LogDebug(common.DebugWindowHeader, window.ID, header)

	target := int64(gb.WindowDataStart + totalSize)
	if err := rom.WriteAt(target, header); err != nil {
		return 0, common.FormatError(common.ErrFailedToWriteHeader, err)
	}

	table := ins.Table
	if window.Overworld {
		if ins.OverworldTable == nil {
			return 0, fmt.Errorf("window %02X uses the overworld character set but no overworld table is loaded", window.ID)
		}
		table = ins.OverworldTable
	}
	encoded, err := table.ConvertScript(window.Translation)
	if err != nil {
		return 0, common.FormatError(common.ErrFailedToEncodeText, err)
	}
	if err := rom.WriteAt(target+int64(len(header)), encoded); err != nil {
		return 0, common.FormatError(common.ErrFailedToWritePayload, err)
	}

	return len(header) + len(encoded), nil
}
