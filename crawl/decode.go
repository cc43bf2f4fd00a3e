package crawl

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported by DecodeBodyEncoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingWindows1252 = "cp1252"
	EncodingISO88591    = "iso-8859-1"
	EncodingReplacement = "utf-8-replace"
)

// decodeStep is one rung of the encoding ladder. accept rejects bodies the
// encoding would decode into something implausible.
type decodeStep struct {
	name   string
	enc    encoding.Encoding
	accept func([]byte) bool
}

var ladder = []decodeStep{
	{name: EncodingLatin1, enc: charmap.ISO8859_1, accept: noC1Controls},
	{name: EncodingWindows1252, enc: charmap.Windows1252, accept: definedInWindows1252},
	{name: EncodingISO88591, enc: charmap.ISO8859_1, accept: func([]byte) bool { return true }},
}

// DecodeBody converts a response body to text. Government sites still serve
// a mix of UTF-8 and legacy single-byte encodings without declaring them.
func DecodeBody(raw []byte) string {
	s, _ := DecodeBodyEncoding(raw)
	return s
}

// DecodeBodyEncoding is DecodeBody that also reports the encoding used.
// The order is utf-8, latin-1 (no C1 controls), cp1252 (defined bytes only),
// iso-8859-1, and finally utf-8 with invalid sequences replaced.
func DecodeBodyEncoding(raw []byte) (string, string) {
	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8
	}
	for _, step := range ladder {
		if !step.accept(raw) {
			continue
		}
		out, err := step.enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		return string(out), step.name
	}
	return strings.ToValidUTF8(string(raw), "�"), EncodingReplacement
}

// noC1Controls reports whether raw avoids 0x80-0x9F, which latin-1 maps to
// control characters that never appear in real page text.
func noC1Controls(raw []byte) bool {
	for _, b := range raw {
		if b >= 0x80 && b <= 0x9F {
			return false
		}
	}
	return true
}

// definedInWindows1252 reports whether raw avoids the five byte values
// windows-1252 leaves unassigned.
func definedInWindows1252(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return false
		}
	}
	return true
}
