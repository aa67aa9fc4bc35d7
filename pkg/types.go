package pkg

// Line budgets per record category. Dialogue boxes and the wide combat
// caption share a width; the narrow combat caption is smaller.
const (
	ScriptLineBudget     = 17
	CombatLineBudget     = 10
	CombatWideLineBudget = 17
)

// Placement is a record's assigned location in the ROM: a bank index and
// an offset within that bank.
type Placement struct {
	Bank   int
	Offset int
}

// TextRecord is one translatable unit of dialogue text: the author-facing
// string, the pointer that references it, and the layout parameters for
// its display context.
//
// Lifecycle: constructed from a work-file entry, laid out once, encoded
// once, placed once by the allocator, written once.
type TextRecord struct {
	// PointerAddress is the absolute offset of the primary pointer
	// referencing this record
	PointerAddress int
	// AdditionalPointers are further pointer locations updated to the
	// same value as the primary one
	AdditionalPointers []int
	// Text is the author-facing string, with <br> markers and named tokens
	Text string
	// LineBudget is the character width of one visual line in this
	// record's display context
	LineBudget int
	// Overworld selects the alternate character set encoder
	Overworld bool

	// MarkedText and ByteLength are produced by the layout engine
	MarkedText string
	ByteLength int
	// Encoded is the final byte stream produced by the table encoder
	Encoded []byte
	// Placement is assigned by the allocator
	Placement Placement
}

// Prepare runs the layout engine on the record's text and stores the
// marked text and byte length.
func (r *TextRecord) Prepare(widths TokenWidths) {
	result := Layout(r.Text, r.LineBudget, widths)
	r.MarkedText = result.Text
	r.ByteLength = result.ByteLength
}
