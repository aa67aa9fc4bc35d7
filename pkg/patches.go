// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the fixed machine code patches
// that redirect the game's text loaders to the relocated data.
package pkg

import (
	"github.com/DemonGiggle/gbromhack/pkg/common"
	"github.com/DemonGiggle/gbromhack/pkg/gb"
)

// Patch is a fixed byte sequence installed at an absolute ROM offset
type Patch struct {
	Offset int64
	Data   []byte
}

// EnemyNameRedirectionPatches hooks the enemy name loader so it loads
// names through the bank switch trampoline instead of the original
// fixed-bank read.
var EnemyNameRedirectionPatches = []Patch{
	{
		// Replace the original loader entry with a jump into bank 0x1F
		// followed by the bank restore
		Offset: 0x0F95,
		Data: []byte{
			0xC3, 0x00, 0x41, // jp $4100
			0x3E, 0x0C, // ld a, $0C
			0xC7, // rst $00 (bank switch)
		},
	},
	{
		// Trampoline in bank 0x1F: bump the pending name counter
		Offset: gb.AbsoluteOffset(0x1F, 0x0100),
		Data: []byte{
			0xFA, 0x9B, 0xC5, // ld a, ($C59B)
			0x3C,             // inc a
			0xEA, 0x9B, 0xC5, // ld ($C59B), a
			0xC9, // ret
		},
	},
}

// EnemyTextHandlerPatches retargets the combat text handler at the bank
// holding the relocated enemy records.
var EnemyTextHandlerPatches = []Patch{
	{
		// Bank operand of the original handler
		Offset: 0x0C6E,
		Data:   []byte{0x1E},
	},
	{
		// Switch to bank 0x1E and continue in the relocated handler
		Offset: 0x0F9E,
		Data: []byte{
			0x3E, 0x1E, // ld a, $1E
			0xC7,             // rst $00 (bank switch)
			0xC3, 0x00, 0x45, // jp $4500
		},
	},
	{
		// Relocated handler in bank 0x1E
		Offset: gb.AbsoluteOffset(0x1E, 0x0500),
		Data: []byte{
			0x21, 0x00, 0x40, // ld hl, $4000
			0xCD, 0x71, 0x3A, // call $3A71
			0x3E, 0x16, // ld a, $16
			0xC7, // rst $00 (bank switch)
		},
	},
}

// ApplyPatches writes each patch at its offset. Patch installation is
// all-or-nothing per run: the first failed write aborts.
func ApplyPatches(rom *gb.ROM, patches []Patch) error {
	for _, patch := range patches {
		if err := rom.WriteAt(patch.Offset, patch.Data); err != nil {
			return common.FormatError(common.ErrFailedToApplyPatch, err)
		}
		common.LogDebug(common.DebugPatchApplied, patch.Offset, len(patch.Data))
	}
	common.LogInfo(common.InfoPatchesApplied, len(patches))
	return nil
}
