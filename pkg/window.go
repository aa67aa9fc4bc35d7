// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the UI window record.
package pkg

import (
	"encoding/hex"
	"fmt"

	"github.com/DemonGiggle/gbromhack/pkg/common"
	"github.com/DemonGiggle/gbromhack/pkg/gb"
)

// Window is one UI chrome record: a box drawn by the game with a fixed
// 6-byte header describing its geometry, followed by its encoded text.
type Window struct {
	ID          int
	X           int
	Y           int
	Width       int
	Height      int
	Attribute   int
	Translation string
	Overworld   bool
	// ForceHeader, when set, is written verbatim instead of the
	// recomputed header
	ForceHeader []byte
}

// NewWindowFromEntry builds a Window from its work-file entry
func NewWindowFromEntry(id int, entry *WindowEntry) (*Window, error) {
	window := &Window{
		ID:          id,
		X:           entry.X,
		Y:           entry.Y,
		Width:       entry.Width,
		Height:      entry.Height,
		Attribute:   entry.Attribute,
		Translation: entry.Translation,
		Overworld:   entry.Overworld,
	}
	if entry.ForceHeader != "" {
		header, err := hex.DecodeString(entry.ForceHeader)
		if err != nil {
			return nil, fmt.Errorf("window %02X: invalid forced header hex: %w", id, err)
		}
		if len(header) != gb.WindowHeaderSize {
			return nil, fmt.Errorf("window %02X: forced header must be %d bytes, got %d",
				id, gb.WindowHeaderSize, len(header))
		}
		window.ForceHeader = header
	}
	return window, nil
}

// Header returns the 6-byte header block to write before the window's
// text: the forced header when the work file supplies one, otherwise the
// header recomputed from the geometry fields.
func (w *Window) Header() ([]byte, error) {
	if w.ForceHeader != nil {
		common.LogWarn(common.WarnForcedWindowHeader, w.ID)
		return w.ForceHeader, nil
	}
	return w.RecomputeHeader()
}

// RecomputeHeader derives the header block from the window geometry
func (w *Window) RecomputeHeader() ([]byte, error) {
	fields := []struct {
		name  string
		value int
	}{
		{"y", w.Y},
		{"x", w.X},
		{"height", w.Height},
		{"width", w.Width},
		{"attribute", w.Attribute},
	}

	header := make([]byte, 0, gb.WindowHeaderSize)
	for _, field := range fields {
		value, err := common.SafeIntToUint8(field.value)
		if err != nil {
			return nil, fmt.Errorf("window %02X: %s: %w", w.ID, field.name, err)
		}
		header = append(header, value)
	}
	return append(header, 0), nil
}
