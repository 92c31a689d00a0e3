package chardet

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// Signal is the structured diagnostic behind one candidate's score.
type Signal struct {
	// Validity is the fraction of the buffer that decodes without
	// illegal byte sequences under the candidate encoding.
	Validity float64 `json:"validity"`

	// Structure captures byte-level priors: a byte-order mark, the
	// null-byte stride of wide encodings, or ISO-2022 escape sequences.
	Structure float64 `json:"structure"`

	// Plausibility is the fraction of decoded code points that fall in
	// ranges typical of natural-language text.
	Plausibility float64 `json:"plausibility"`

	// BOM reports whether the candidate's byte-order mark led the buffer.
	BOM bool `json:"bom"`
}

// classify scores one candidate against a buffer. Stateless and
// deterministic: identical bytes always produce the identical score.
func classify(c Candidate, buf []byte, w Weights) (float64, Signal) {
	sig := Signal{}

	body := buf
	if len(c.BOM) > 0 && bytes.HasPrefix(buf, c.BOM) {
		sig.BOM = true
		sig.Structure = 1.0
		body = buf[len(c.BOM):]
	} else {
		sig.Structure = structuralPrior(c, buf)
	}

	decoded := decodeLossy(c, body)
	sig.Validity = validity(decoded)
	sig.Plausibility = plausibility(decoded)

	score := w.Validity*sig.Validity + w.Structure*sig.Structure + w.Plausibility*sig.Plausibility
	score -= c.Bias
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, sig
}

// decodeLossy decodes body under the candidate encoding, mapping illegal
// sequences to U+FFFD. x/text decoders do this replacement themselves;
// the error path only fires on transformer misuse, in which case the
// buffer counts as fully invalid.
func decodeLossy(c Candidate, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	out, err := c.enc.NewDecoder().Bytes(body)
	if err != nil {
		return ""
	}
	return string(out)
}

// validity is 1 minus the fraction of replacement runes in the decoded
// text. An empty decode (nothing left after the BOM) is vacuously valid.
func validity(decoded string) float64 {
	total, bad := 0, 0
	for _, r := range decoded {
		total++
		if r == utf8.RuneError {
			bad++
		}
	}
	if total == 0 {
		return 1.0
	}
	return 1.0 - float64(bad)/float64(total)
}

// plausibility is the fraction of decoded code points in ranges typical
// of natural-language text: letters, marks, numbers, punctuation,
// symbols, whitespace. Control characters, format characters,
// private-use and replacement runes count against the candidate. An
// empty decode is vacuously plausible, so a bare byte-order mark scores
// on its structural prior alone.
func plausibility(decoded string) float64 {
	total, good := 0, 0
	for _, r := range decoded {
		total++
		if plausibleRune(r) {
			good++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(good) / float64(total)
}

func plausibleRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) ||
		unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
}

// structuralPrior scores BOM-less structural evidence. Wide candidates
// get the null-byte stride of UTF-16 text; iso-2022-jp gets its escape
// sequences. Buffers too short for a signal score zero, they never fault.
func structuralPrior(c Candidate, buf []byte) float64 {
	switch c.ID {
	case "utf-16le":
		return nullStride(buf, 1)
	case "utf-16be":
		return nullStride(buf, 0)
	case "iso-2022-jp":
		if bytes.Contains(buf, []byte{0x1B, '$'}) || bytes.Contains(buf, []byte{0x1B, '('}) {
			return 1.0
		}
		return 0
	default:
		return 0
	}
}

// nullStride measures how strongly zero bytes prefer one parity of byte
// positions, the signature of UTF-16 text in the ASCII range. phase is
// the parity where the high (zero) byte of ASCII code units lives: odd
// for little endian, even for big endian.
func nullStride(buf []byte, phase int) float64 {
	if len(buf) < 4 {
		return 0
	}
	var zeros [2]int
	var slots [2]int
	for i, b := range buf {
		p := i % 2
		slots[p]++
		if b == 0 {
			zeros[p]++
		}
	}
	frac := func(p int) float64 {
		if slots[p] == 0 {
			return 0
		}
		return float64(zeros[p]) / float64(slots[p])
	}
	d := frac(phase) - frac(1-phase)
	if d < 0 {
		return 0
	}
	return d
}
