// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the bank-aware space allocators
// and the pointer value conversions shared by all record categories.
package pkg

import (
	"fmt"

	"github.com/DemonGiggle/gbromhack/pkg/common"
	"github.com/DemonGiggle/gbromhack/pkg/gb"
)

// AllocationOverflowError reports that no region had enough remaining
// capacity for a record. It aborts the whole batch: the selected record
// set does not fit, whichever record happened to trigger it.
type AllocationOverflowError struct {
	RecordID  int
	Needed    int
	Available int
}

func (e *AllocationOverflowError) Error() string {
	return fmt.Sprintf("record %04X needs %d bytes but only %d remain in the allocated regions",
		e.RecordID, e.Needed, e.Available)
}

// BankAllocator implements the growing-bank placement policy: records
// are packed from a starting bank upward, and a record that would cross
// the bank boundary starts fresh at offset 0 of the next bank.
//
// The capacity check intentionally runs after the cursor advance and
// restarts the cursor at the overflowing record's length, matching the
// layout the game was patched with; see DESIGN.md before changing it.
type BankAllocator struct {
	bankSize int
	bank     int
	used     int
}

// NewBankAllocator returns an allocator that starts placing at offset 0
// of startBank.
func NewBankAllocator(startBank int) *BankAllocator {
	return &BankAllocator{bankSize: gb.BankSize, bank: startBank}
}

// Place assigns the next placement for a record of the given byte length.
// Records are never split across a bank boundary.
func (a *BankAllocator) Place(length int) Placement {
	placement := Placement{Bank: a.bank, Offset: a.used}
	a.used += length
	if a.used > a.bankSize {
		a.bank++
		placement = Placement{Bank: a.bank, Offset: 0}
		a.used = length
	}
	return placement
}

// CurrentBank returns the bank the allocator is currently filling
func (a *BankAllocator) CurrentBank() int {
	return a.bank
}

// RegionAllocator implements the fixed-region-list placement policy:
// records fill an ordered list of allocated [start, end) ranges, advancing
// to the next range when the current one cannot hold the record. The
// allocator never places a record across or past a region bound; running
// out of regions is an AllocationOverflowError.
type RegionAllocator struct {
	regions []gb.Region
	current int
	used    int
}

// NewRegionAllocator returns an allocator over the given regions, tried
// strictly in list order.
func NewRegionAllocator(regions []gb.Region) *RegionAllocator {
	return &RegionAllocator{regions: regions}
}

// Place reserves length bytes (payload plus any per-record overhead the
// caller folded in) and returns the absolute ROM offset of the
// reservation.
func (a *RegionAllocator) Place(recordID, length int) (int, error) {
	available := 0
	if a.current < len(a.regions) {
		available = a.regions[a.current].Size() - a.used
	}

	for a.current < len(a.regions) && a.used+length > a.regions[a.current].Size() {
		a.current++
		a.used = 0
		if a.current < len(a.regions) {
			common.LogDebug(common.DebugRegionAdvance, a.current, a.regions[a.current].Start)
		}
	}
	if a.current >= len(a.regions) {
		return 0, &AllocationOverflowError{RecordID: recordID, Needed: length, Available: available}
	}

	offset := a.regions[a.current].Start + a.used
	a.used += length
	return offset, nil
}

// BankRelativePointer converts an absolute ROM offset to the 16-bit value
// expected by a pointer table that addresses through the switchable bank
// window: the CPU address the data has when baseBank is switched in.
func BankRelativePointer(absOffset int64, baseBank int) (uint16, error) {
	value := absOffset - int64(baseBank-1)*gb.BankSize
	pointer, err := common.SafeIntToUint16(int(value))
	if err != nil {
		return 0, common.FormatError(common.ErrPointerValueOutOfRange, err)
	}
	return pointer, nil
}
