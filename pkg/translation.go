// Package pkg provides the core logic for inserting translated text into
// the Jungle Wars ROM. This file contains the YAML work-file documents
// the translation is authored in.
package pkg

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/DemonGiggle/gbromhack/pkg/common"
	"gopkg.in/yaml.v3"
)

// TodoPrefix marks a translation that has not been written yet. Entries
// still carrying it are skipped by the inserters and upgraded silently by
// the merge tool.
const TodoPrefix = "TODO"

// MalformedRecordError reports a work-file entry missing a required field
type MalformedRecordError struct {
	ID    int
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("entry %04X is missing required field %q", e.ID, e.Field)
}

// ScriptEntry is one dialogue entry of the script work file
type ScriptEntry struct {
	Original           string `yaml:"original"`
	Translation        string `yaml:"translation"`
	PointerLocation    int    `yaml:"pointer_location"`
	AdditionalPointers []int  `yaml:"additional_pointers,omitempty"`
	Overworld          bool   `yaml:"overworld,omitempty"`
}

// Placeholder reports whether the entry is an untouched stub: TODO text
// and no pointer wired yet.
func (e *ScriptEntry) Placeholder() bool {
	return strings.HasPrefix(e.Translation, TodoPrefix) && e.PointerLocation == 0
}

// InPlaceEntry is a fixed-address substitution: the translated bytes
// overwrite the original text where it sits, with no relocation and no
// pointer rewrite.
type InPlaceEntry struct {
	Original    string `yaml:"original,omitempty"`
	Translation string `yaml:"translation"`
}

// TranslationDocument is the main script work file, containing the
// dialogue categories keyed by logical location and the in-place
// substitutions keyed by absolute offset.
type TranslationDocument struct {
	Script     map[int]*ScriptEntry  `yaml:"script"`
	Combat     map[int]*ScriptEntry  `yaml:"combat"`
	CombatWide map[int]*ScriptEntry  `yaml:"combat_wide"`
	InPlace    map[int]*InPlaceEntry `yaml:"in_place,omitempty"`
}

// section pairs a category name with its entries and line budget
type section struct {
	name       string
	entries    map[int]*ScriptEntry
	lineBudget int
}

// sections returns the dialogue categories in insertion order
func (d *TranslationDocument) sections() []section {
	return []section{
		{"script", d.Script, ScriptLineBudget},
		{"combat", d.Combat, CombatLineBudget},
		{"combat_wide", d.CombatWide, CombatWideLineBudget},
	}
}

// EnemyEntry is one opponent record: a fixed stat header carried over
// from the original data plus the translated name.
type EnemyEntry struct {
	OriginalName   string `yaml:"original_name,omitempty"`
	TranslatedName string `yaml:"translated_name"`
	// OriginalHeader is the 22-byte stat block as hexadecimal text
	OriginalHeader string `yaml:"original_header"`
}

// HeaderBytes decodes the entry's stat header and checks its size
func (e *EnemyEntry) HeaderBytes() ([]byte, error) {
	header, err := hex.DecodeString(e.OriginalHeader)
	if err != nil {
		return nil, fmt.Errorf("invalid header hex: %w", err)
	}
	if len(header) != 22 {
		return nil, fmt.Errorf("header must be 22 bytes, got %d", len(header))
	}
	return header, nil
}

// EnemyDocument is the enemy name work file
type EnemyDocument struct {
	Enemies map[int]*EnemyEntry `yaml:"enemies"`
}

// SignEntry is one environmental sign: three display lines
type SignEntry struct {
	Line0Original       string `yaml:"line0_original,omitempty"`
	Line1Original       string `yaml:"line1_original,omitempty"`
	Line2Original       string `yaml:"line2_original,omitempty"`
	Line0TranslatedText string `yaml:"line0_translated_text"`
	Line1TranslatedText string `yaml:"line1_translated_text"`
	Line2TranslatedText string `yaml:"line2_translated_text"`
}

// TranslatedLines returns the three display lines in order
func (e *SignEntry) TranslatedLines() [3]string {
	return [3]string{e.Line0TranslatedText, e.Line1TranslatedText, e.Line2TranslatedText}
}

// SignDocument is the sign work file
type SignDocument struct {
	Signs map[int]*SignEntry `yaml:"signs"`
}

// NPCEntry is one NPC name tag, overwritten in place at its location
type NPCEntry struct {
	NameOriginal   string `yaml:"name_original,omitempty"`
	NameTranslated string `yaml:"name_translated"`
	Location       int    `yaml:"location"`
}

// NPCDocument is the NPC name work file
type NPCDocument struct {
	NPCs map[int]*NPCEntry `yaml:"npcs"`
}

// WindowEntry is one UI window record: box geometry plus its text
type WindowEntry struct {
	X           int    `yaml:"x"`
	Y           int    `yaml:"y"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Attribute   int    `yaml:"attribute,omitempty"`
	Translation string `yaml:"translation"`
	Overworld   bool   `yaml:"overworld,omitempty"`
	// ForceHeader overrides the recomputed header with a literal 6-byte
	// block given as hexadecimal text
	ForceHeader string `yaml:"force_header,omitempty"`
}

// WindowDocument is the window work file, split into the fullscreen and
// overlay pointer tables
type WindowDocument struct {
	Fullscreen map[int]*WindowEntry `yaml:"fullscreen"`
	Overlay    map[int]*WindowEntry `yaml:"overlay"`
}

// LoadTranslationDocument reads the main script work file
func LoadTranslationDocument(path string) (*TranslationDocument, error) {
	document := &TranslationDocument{}
	if err := loadYAMLDocument(path, document); err != nil {
		return nil, err
	}
	return document, nil
}

// SaveTranslationDocument writes the main script work file back to disk
func SaveTranslationDocument(path string, document *TranslationDocument) error {
	data, err := yaml.Marshal(document)
	if err != nil {
		return common.FormatError(common.ErrFailedToSaveTranslation, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return common.FormatError(common.ErrFailedToSaveTranslation, err)
	}
	return nil
}

// LoadEnemyDocument reads the enemy name work file
func LoadEnemyDocument(path string) (*EnemyDocument, error) {
	document := &EnemyDocument{}
	if err := loadYAMLDocument(path, document); err != nil {
		return nil, err
	}
	return document, nil
}

// LoadSignDocument reads the sign work file
func LoadSignDocument(path string) (*SignDocument, error) {
	document := &SignDocument{}
	if err := loadYAMLDocument(path, document); err != nil {
		return nil, err
	}
	return document, nil
}

// LoadNPCDocument reads the NPC name work file
func LoadNPCDocument(path string) (*NPCDocument, error) {
	document := &NPCDocument{}
	if err := loadYAMLDocument(path, document); err != nil {
		return nil, err
	}
	return document, nil
}

// LoadWindowDocument reads the window work file
func LoadWindowDocument(path string) (*WindowDocument, error) {
	document := &WindowDocument{}
	if err := loadYAMLDocument(path, document); err != nil {
		return nil, err
	}
	return document, nil
}

// loadYAMLDocument reads and unmarshals one YAML work file
func loadYAMLDocument(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.FormatError(common.ErrFailedToReadYAMLFile, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return common.FormatError(common.ErrFailedToParseYAML, err)
	}
	return nil
}

// sortedKeys returns the map's keys in ascending order so insertion
// order is deterministic from run to run.
func sortedKeys[V any](entries map[int]V) []int {
	keys := make([]int, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
