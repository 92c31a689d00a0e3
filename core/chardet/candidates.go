// Package chardet implements byte-encoding detection with a confidence
// score. A fixed candidate table is scored against the input buffer and
// the full ranked list is returned; detection never fails, it only gets
// less confident.
package chardet

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Family groups candidates that share a scoring weight profile.
type Family string

// Family constants.
const (
	FamilySingleByte Family = "single-byte"
	FamilyMultiByte  Family = "multi-byte"
	FamilyWide       Family = "wide"
)

// Weights blends the three classifier signals into one score.
// Weights are fixed per family so results are reproducible; a config
// file may substitute the table once at startup, never afterwards.
type Weights struct {
	Validity     float64 `toml:"validity"`
	Structure    float64 `toml:"structure"`
	Plausibility float64 `toml:"plausibility"`
}

// DefaultWeights is the built-in weight table. Wide encodings lean on
// structural signals (BOMs, null-byte stride) so that a bare byte-order
// mark still detects with high confidence; statistical encodings lean on
// validity and plausibility.
var DefaultWeights = map[Family]Weights{
	FamilySingleByte: {Validity: 0.55, Structure: 0.10, Plausibility: 0.35},
	FamilyMultiByte:  {Validity: 0.50, Structure: 0.10, Plausibility: 0.40},
	FamilyWide:       {Validity: 0.30, Structure: 0.50, Plausibility: 0.20},
}

// Candidate is one member of the fixed set of decoders evaluated during
// detection.
type Candidate struct {
	// ID is the canonical encoding name exposed on the wire.
	ID string

	// Family selects the weight profile.
	Family Family

	// Priority breaks score ties; lower wins. Structurally marked
	// candidates outrank purely statistical ones.
	Priority int

	// BOM is the byte-order mark associated with the candidate, if any.
	// When present at the head of the buffer it is excluded from
	// statistical scoring and scored as a structural signal instead.
	BOM []byte

	// Bias is a fixed demotion applied to the final score. It orders
	// vendor aliases of the same byte layout (windows-31j and cp932
	// behind shift_jis) the way the original tool ranked them.
	Bias float64

	enc encoding.Encoding
}

// DefaultEncoding is the sentinel best for empty buffers.
const DefaultEncoding = "utf-8"

// candidates is the static process-wide table, read-only after package
// initialization. Order doubles as the tie-break priority.
var candidates = []Candidate{
	{ID: "utf-8-sig", Family: FamilyWide, Priority: 0, BOM: []byte{0xEF, 0xBB, 0xBF}, enc: unicode.UTF8},
	{ID: "utf-16le", Family: FamilyWide, Priority: 1, BOM: []byte{0xFF, 0xFE}, enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{ID: "utf-16be", Family: FamilyWide, Priority: 2, BOM: []byte{0xFE, 0xFF}, enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	{ID: "utf-8", Family: FamilyMultiByte, Priority: 3, enc: unicode.UTF8},
	{ID: "shift_jis", Family: FamilyMultiByte, Priority: 4, enc: japanese.ShiftJIS},
	{ID: "windows-31j", Family: FamilyMultiByte, Priority: 5, Bias: 0.02, enc: japanese.ShiftJIS},
	{ID: "cp932", Family: FamilyMultiByte, Priority: 6, Bias: 0.04, enc: japanese.ShiftJIS},
	{ID: "euc-jp", Family: FamilyMultiByte, Priority: 7, enc: japanese.EUCJP},
	{ID: "iso-2022-jp", Family: FamilyMultiByte, Priority: 8, enc: japanese.ISO2022JP},
	{ID: "windows-1252", Family: FamilySingleByte, Priority: 9, enc: charmap.Windows1252},
}

// Candidates returns the IDs of the registered candidate set in priority
// order.
func Candidates() []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}

func candidateByID(id string) (Candidate, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}
