// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the translation table loader
// and the character/token encoder built on it.
package pkg

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// EncodingError reports a character or token with no table mapping.
// An unmapped character aborts the record's conversion.
type EncodingError struct {
	Char     rune
	Position int
	Table    string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("no mapping for %q at position %d (table %s)", e.Char, e.Position, e.Table)
}

// TranslationTable maps logical characters and named tokens to the byte
// encoding used by the game's text engine. Two tables are in use: the
// default dialogue table and the overworld (alternate character set) one.
type TranslationTable struct {
	name      string
	mappings  map[string][]byte
	maxKeyLen int
}

// LoadTranslationTable reads a .tbl file. Each line maps a hexadecimal
// byte sequence to the text it encodes, e.g.:
//
//	41=A
//	FE=<FE>
//	F2=<item>
//
// Empty lines and lines starting with # are ignored.
func LoadTranslationTable(path string) (*TranslationTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file %s: %w", path, err)
	}
	defer file.Close()

	table, err := ParseTranslationTable(file, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table file %s: %w", path, err)
	}
	return table, nil
}

// ParseTranslationTable parses table data from a reader. The name is used
// in error messages only.
func ParseTranslationTable(reader io.Reader, name string) (*TranslationTable, error) {
	table := &TranslationTable{
		name:     name,
		mappings: make(map[string][]byte),
	}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		code, text, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: missing '=' separator", lineNumber)
		}

		encoded, err := hex.DecodeString(code)
		if err != nil || len(encoded) == 0 {
			return nil, fmt.Errorf("line %d: invalid byte sequence %q", lineNumber, code)
		}

		table.mappings[text] = encoded
		if len(text) > table.maxKeyLen {
			table.maxKeyLen = len(text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table data: %w", err)
	}
	return table, nil
}

// NewTranslationTable builds a table from an in-memory mapping of text to
// byte sequences.
func NewTranslationTable(name string, mappings map[string][]byte) *TranslationTable {
	table := &TranslationTable{
		name:     name,
		mappings: make(map[string][]byte, len(mappings)),
	}
	for text, encoded := range mappings {
		table.mappings[text] = encoded
		if len(text) > table.maxKeyLen {
			table.maxKeyLen = len(text)
		}
	}
	return table
}

// Name returns the table's name (its file path when loaded from disk)
func (t *TranslationTable) Name() string {
	return t.name
}

// Len returns the number of mappings in the table
func (t *TranslationTable) Len() int {
	return len(t.mappings)
}

// ConvertScript encodes marked text to the game's byte encoding using
// greedy longest-match against the table, so named tokens like <item>
// win over their individual characters. Unmapped characters are a hard
// error, never skipped.
func (t *TranslationTable) ConvertScript(text string) ([]byte, error) {
	encoded := make([]byte, 0, len(text))

	for position := 0; position < len(text); {
		remaining := len(text) - position
		matchLen := t.maxKeyLen
		if matchLen > remaining {
			matchLen = remaining
		}

		matched := false
		for length := matchLen; length > 0; length-- {
			if bytes, ok := t.mappings[text[position:position+length]]; ok {
				encoded = append(encoded, bytes...)
				position += length
				matched = true
				break
			}
		}
		if !matched {
			char, _ := utf8.DecodeRuneInString(text[position:])
			return nil, &EncodingError{Char: char, Position: position, Table: t.name}
		}
	}
	return encoded, nil
}
