// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the text layout engine that
// turns author-facing text into the marked stream the game's text engine
// expects, together with its exact encoded byte length.
package pkg

import (
	"strings"
	"unicode/utf8"
)

// Control codes recognized by the game's text engine
const (
	// TokenEndOfText terminates a message (default terminator)
	TokenEndOfText = "<FF>"
	// TokenEndOfBlock terminates a message block without closing the box
	TokenEndOfBlock = "<FC>"
	// TokenLineFeed moves to the bottom line of the current text box
	TokenLineFeed = "<FE>"
	// TokenNewPage clears the box and starts a new page on the top line
	TokenNewPage = "<FD>"
	// TokenPageBreak is the authoring-time marker forcing a new page
	TokenPageBreak = "<br>"
)

// TokenWidths maps each named token to the character width it expands to
// at runtime. The width doubles as the encoded byte cost; no current
// token distinguishes the two.
type TokenWidths map[string]int

// DefaultTokenWidths returns the token width table for Jungle Wars.
// The <varN> entries are runtime substitutions performed by the game;
// named aliases exist for the ones whose meaning is known.
func DefaultTokenWidths() TokenWidths {
	return TokenWidths{
		"<var0>":      4, // F0
		"<character>": 4, // F0
		"<var1>":      4, // F1
		"<var2>":      8, // F2
		"<item>":      8, // F2
		"<var3>":      4, // F3
		"<var4>":      8, // F4
		"<enemy>":     8, // F4
		"<var5>":      4, // F5
		"<var6>":      4, // F6
		"<var7>":      4, // F7
		"<var8>":      4, // F8
		"<amount>":    4, // F8
		"<var9>":      4, // F9
		"<gold>":      4, // F9
		"<price>":     4, // FA
		TokenEndOfBlock: 1,
		TokenEndOfText:  1,
		TokenLineFeed:   1,
		TokenNewPage:    1,
	}
}

// LayoutResult is the outcome of laying out one text record: the marked
// text ready for the table encoder and the byte length that text will
// occupy once encoded.
type LayoutResult struct {
	Text       string
	ByteLength int
}

// Layout wraps the given text into two-line pages within lineBudget
// characters per line and returns the marked text plus its encoded byte
// length. Explicit <br> markers always force a new page; automatic wraps
// alternate between line feed and new page starting from the top line.
// The result always ends in exactly one terminator: the default <FF> is
// appended unless the author already terminated with <FF> or <FC>.
// A word wider than the budget is placed whole, never split.
func Layout(text string, lineBudget int, widths TokenWidths) LayoutResult {
	segments := strings.Split(text, TokenPageBreak)

	var marked strings.Builder
	length := 0
	lineIndex := 0 // 0 = top line of the page, 1 = bottom line

	for segmentIndex, segment := range segments {
		words := strings.Fields(segment)
		lineWidth := 0

		for wordIndex, word := range words {
			width := wordWidth(word, widths)

			if wordIndex > 0 {
				// Try to place the separating space first
				if lineWidth+1+width <= lineBudget {
					marked.WriteString(" ")
					length++
					lineWidth++
				} else {
					lineIndex = writeWrap(&marked, lineIndex)
					length++
					lineWidth = 0
				}
			}

			if lineWidth+width <= lineBudget {
				marked.WriteString(word)
				length += width
				lineWidth += width
			} else {
				if lineWidth > 0 {
					lineIndex = writeWrap(&marked, lineIndex)
					length++
					lineWidth = 0
				}
				// Over-budget word: placed as-is on its own line
				marked.WriteString(word)
				length += width
				lineWidth += width
			}
		}

		// An explicit page break always emits the new-page code and
		// resets to the top line, whatever line we were on
		if segmentIndex < len(segments)-1 {
			marked.WriteString(TokenNewPage)
			length++
			lineIndex = 0
		}
	}

	result := marked.String()
	if result == "" {
		return LayoutResult{Text: TokenEndOfText, ByteLength: 1}
	}
	if !strings.HasSuffix(result, TokenEndOfText) && !strings.HasSuffix(result, TokenEndOfBlock) {
		result += TokenEndOfText
		length++
	}
	return LayoutResult{Text: result, ByteLength: length}
}

// wordWidth returns the effective character width of a word: literal
// characters count one each, named tokens count their declared expanded
// width instead of their textual length.
func wordWidth(word string, widths TokenWidths) int {
	width := utf8.RuneCountInString(word)
	for token, expanded := range widths {
		count := strings.Count(word, token)
		if count > 0 {
			width -= utf8.RuneCountInString(token) * count
			width += expanded * count
		}
	}
	return width
}

// writeWrap emits the wrap code for the current line and returns the new
// line index: line feed from the top line, new page from the bottom one.
func writeWrap(marked *strings.Builder, lineIndex int) int {
	if lineIndex == 0 {
		marked.WriteString(TokenLineFeed)
		return 1
	}
	marked.WriteString(TokenNewPage)
	return 0
}
