// Package gb provides Game Boy specific structures and functionality.
// This file maps out where Jungle Wars keeps its text data and pointer
// tables inside the ROM image.
package gb

// Scripted dialogue text. Relocated text grows from ScriptDataBank
// upward, one bank at a time; pointers go through a three-byte
// indirection table in ScriptIndirectionBank.
const (
	// ScriptDataBank is the first bank that receives relocated dialogue text
	ScriptDataBank = 0x11
	// ScriptIndirectionBank holds the bank/offset indirection table
	ScriptIndirectionBank = 0x10
	// ScriptIndirectionOffset is the intra-bank offset of the indirection table
	ScriptIndirectionOffset = 0x1000
	// ScriptIndirectionStride is the size of one indirection entry
	// (bank byte + little-endian 16-bit offset)
	ScriptIndirectionStride = 3
)

// ScriptIndirectionTable returns the absolute offset of the indirection
// entry for the given message index
func ScriptIndirectionTable(index int) int64 {
	return AbsoluteOffset(ScriptIndirectionBank, ScriptIndirectionOffset) + int64(index)*ScriptIndirectionStride
}

// IntroMessagePointer is the pointer of the fixed intro message that must
// stay at message index 0 so the title sequence keeps working
const IntroMessagePointer = 0x1A581

// IntroMessageText is the text of the fixed intro message. It ends with
// an explicit end-of-block code instead of the default terminator.
const IntroMessageText = "A morning in the Jungle.<FC>"

// Enemy name records. The names live in freed ranges of the enemy data
// bank; the pointer table holds addresses as seen by the CPU with that
// bank switched in.
const (
	// EnemyBaseBank is the bank the enemy pointer table addresses into
	EnemyBaseBank = 0x0C
	// EnemyPointersStart is the absolute offset of the enemy pointer table
	EnemyPointersStart = EnemyBaseBank * BankSize
	// EnemyHeaderSize is the fixed stat block preceding each enemy name
	EnemyHeaderSize = 22
)

// EnemyDataRegions lists the freed ranges available for relocated enemy
// records, tried in order
var EnemyDataRegions = []Region{
	{Start: EnemyBaseBank*BankSize + 0x1800, End: EnemyBaseBank*BankSize + 0x2400},
	{Start: EnemyBaseBank*BankSize + 0x3200, End: EnemyBaseBank*BankSize + 0x3A00},
}

// Environmental sign text, same bank and addressing convention as the
// enemy records
const (
	// SignBaseBank is the bank the sign pointer table addresses into
	SignBaseBank = 0x0C
	// SignPointersStart is the absolute offset of the sign pointer table
	SignPointersStart = SignBaseBank*BankSize + 0x0400
	// SignLineCount is the number of display lines per sign
	SignLineCount = 3
)

// SignDataRegions lists the freed ranges available for relocated sign
// records, tried in order
var SignDataRegions = []Region{
	{Start: SignBaseBank*BankSize + 0x2400, End: SignBaseBank*BankSize + 0x2C00},
	{Start: SignBaseBank*BankSize + 0x3A00, End: SignBaseBank*BankSize + 0x3E00},
}

// NPC name tags are overwritten in place. Their work-file locations are
// expressed in the original name bank; the relocated copies live a fixed
// number of banks further up.
const (
	// NPCOriginalBank is the bank NPC name locations are expressed in
	NPCOriginalBank = 0x0D
	// NPCRelocatedBank is the bank the names are actually written to
	NPCRelocatedBank = 0x1C
)

// NPCNameOffset converts a work-file NPC name location to the absolute
// offset of its relocated copy
func NPCNameOffset(location int) int64 {
	return int64(location) + (NPCRelocatedBank-NPCOriginalBank)*BankSize
}

// Window (UI chrome) records, all in one bank: two pointer tables
// followed by the window data itself
const (
	// WindowBank holds window pointers and data
	WindowBank = 0x1F
	// WindowFullscreenPointers is the absolute offset of the fullscreen pointer table
	WindowFullscreenPointers = WindowBank * BankSize
	// WindowOverlayPointers is the absolute offset of the overlay pointer table
	WindowOverlayPointers = WindowBank*BankSize + 0x0500
	// WindowDataStart is the absolute offset where window data is laid out
	WindowDataStart = WindowBank*BankSize + 0x1000
	// WindowPointerBase is the CPU address corresponding to WindowDataStart
	WindowPointerBase = 0x5000
	// WindowOverlayIDBase is the first window id of the overlay table
	WindowOverlayIDBase = 0x80
	// WindowHeaderSize is the fixed header preceding each window's text
	WindowHeaderSize = 6
)
