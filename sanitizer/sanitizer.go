// Package sanitizer rewrites characters of a log message according to a
// composable rule list built from filter and transform flags.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // Control characters (unicode.IsControl)
	FilterLineBreak                       // '\n', '\r', U+2028, U+2029
)

// Transform flags for character transformation
const (
	TransformStrip      uint64 = 1 << iota // Drop the rune
	TransformHexEncode                     // Replace with "<xxyy>" of its UTF-8 bytes
	TransformJSONEscape                    // Replace with a backslash escape
)

// PolicyPreset names a pre-configured rule list
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Passthrough
	PolicyLine PolicyPreset = "line" // Escape control characters so an entry stays on one line
	PolicyTxt  PolicyPreset = "txt"  // Hex-encode anything not printable
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyLine: {{filter: FilterControl | FilterLineBreak, transform: TransformJSONEscape}},
	PolicyTxt:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
}

var filterCheckers = []struct {
	flag  uint64
	check func(rune) bool
}{
	{FilterNonPrintable, func(r rune) bool { return !strconv.IsPrint(r) }},
	{FilterControl, unicode.IsControl},
	{FilterLineBreak, func(r rune) bool {
		return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
	}},
}

// IsPolicy reports whether name is a known preset
func IsPolicy(name string) bool {
	_, ok := policyRules[PolicyPreset(name)]
	return ok
}

// Sanitizer applies its rules rune by rune, the first matching rule wins.
// A Sanitizer reuses an internal buffer and is not safe for concurrent use.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a passthrough sanitizer
func New() *Sanitizer {
	return &Sanitizer{buf: make([]byte, 0, 256)}
}

// Rule appends a custom rule
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset, unknown presets add nothing
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	s.rules = append(s.rules, policyRules[preset]...)
	return s
}

// Sanitize returns data with every rule applied
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}
	s.buf = s.buf[:0]
	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				s.buf = applyTransform(s.buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			s.buf = utf8.AppendRune(s.buf, r)
		}
	}
	return string(s.buf)
}

func matchesFilter(r rune, mask uint64) bool {
	for _, fc := range filterCheckers {
		if mask&fc.flag != 0 && fc.check(r) {
			return true
		}
	}
	return false
}

func applyTransform(buf []byte, r rune, mask uint64) []byte {
	switch {
	case mask&TransformStrip != 0:
		return buf

	case mask&TransformHexEncode != 0:
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], r)
		buf = append(buf, '<')
		buf = hex.AppendEncode(buf, rb[:n])
		return append(buf, '>')

	case mask&TransformJSONEscape != 0:
		switch r {
		case '\n':
			return append(buf, '\\', 'n')
		case '\r':
			return append(buf, '\\', 'r')
		case '\t':
			return append(buf, '\\', 't')
		case '\b':
			return append(buf, '\\', 'b')
		case '\f':
			return append(buf, '\\', 'f')
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) || r == '\u2028' || r == '\u2029' {
			return append(buf, fmt.Sprintf("\\u%04x", r)...)
		}
		return utf8.AppendRune(buf, r)
	}
	return utf8.AppendRune(buf, r)
}
