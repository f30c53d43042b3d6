// Package jsonuni provides the Unicode conversions shared by the JSON parser
// and serializer: hex digit handling for \uXXXX escapes, UTF-16 surrogate
// pair combination, and UTF-8 encoding and decoding of code points.
//
// See https://www.unicode.org/faq/utf_bom.html#utf16-3 for the surrogate
// arithmetic and RFC 3629 §3 for the UTF-8 encoding ranges.
package jsonuni

import (
	"fmt"

	"github.com/lattice-substrate/json-codec/jsonerr"
)

const (
	// MaxASCII is the largest ASCII value.
	MaxASCII = 0x7F

	// MaxCodepoint is the largest valid Unicode code point.
	MaxCodepoint = 0x10FFFF

	// MaxBMP is the largest code point in the Basic Multilingual Plane.
	MaxBMP = 0xFFFF

	// Surrogate code unit ranges.
	SurrogateHighMin = 0xD800
	SurrogateHighMax = 0xDBFF
	SurrogateLowMin  = 0xDC00
	SurrogateLowMax  = 0xDFFF

	// LeadOffset and SurrogateOffset relate a surrogate pair to the code
	// point it encodes. SurrogateOffset is negative, so unsigned arithmetic
	// uses the rearranged equivalent form.
	LeadOffset      = SurrogateHighMin - (0x10000 >> 10)
	SurrogateOffset = 0x10000 - (SurrogateHighMin << 10) - SurrogateLowMin
)

// HexDigitToInt converts a single hex digit character to its value.
func HexDigitToInt(c byte) (uint8, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, jsonerr.New(jsonerr.InvalidInput, "Invalid hex digit")
}

// HexStringToCodeUnit converts exactly four hex digit characters to a
// UTF-16 code unit value.
func HexStringToCodeUnit(hex []byte) (uint32, error) {
	if len(hex) != 4 {
		return 0, jsonerr.New(jsonerr.InvalidInput, "Invalid hex string length")
	}

	var value uint32
	for _, c := range hex {
		d, err := HexDigitToInt(c)
		if err != nil {
			return 0, err
		}
		value = (value << 4) | uint32(d)
	}

	return value, nil
}

// IsHighSurrogate reports whether the code unit is in the high surrogate range.
func IsHighSurrogate(cu uint32) bool {
	return cu >= SurrogateHighMin && cu <= SurrogateHighMax
}

// IsLowSurrogate reports whether the code unit is in the low surrogate range.
func IsLowSurrogate(cu uint32) bool {
	return cu >= SurrogateLowMin && cu <= SurrogateLowMax
}

// CombineSurrogatePair combines a high and low UTF-16 surrogate code unit
// into the supplementary-plane code point they jointly encode.
func CombineSurrogatePair(high, low uint32) (uint32, error) {
	if !IsHighSurrogate(high) {
		return 0, jsonerr.New(jsonerr.InvalidSurrogate,
			fmt.Sprintf("Invalid high surrogate value %04X", high))
	}
	if !IsLowSurrogate(low) {
		return 0, jsonerr.New(jsonerr.InvalidSurrogate,
			fmt.Sprintf("Invalid low surrogate value %04X", low))
	}
	// Unsigned-safe form of (high << 10) + low + SurrogateOffset.
	return ((high - SurrogateHighMin) << 10) + (low - SurrogateLowMin) + 0x10000, nil
}

// AppendCodepointUTF8 appends the RFC 3629 UTF-8 encoding of the code point
// to dst and returns the extended slice. Code points above MaxCodepoint are
// unreachable when the input came from validated surrogate combination, but
// are still rejected.
func AppendCodepointUTF8(dst []byte, cp uint32) ([]byte, error) {
	switch {
	case cp <= 0x7F:
		// 0nnnnnnn
		return append(dst, byte(cp)), nil
	case cp <= 0x7FF:
		// 110nnnnn 10nnnnnn
		return append(dst,
			0xC0|byte(cp>>6),
			0x80|byte(cp&0x3F)), nil
	case cp <= 0xFFFF:
		// 1110nnnn 10nnnnnn 10nnnnnn
		return append(dst,
			0xE0|byte(cp>>12),
			0x80|byte((cp>>6)&0x3F),
			0x80|byte(cp&0x3F)), nil
	case cp <= MaxCodepoint:
		// 11110nnn 10nnnnnn 10nnnnnn 10nnnnnn
		return append(dst,
			0xF0|byte(cp>>18),
			0x80|byte((cp>>12)&0x3F),
			0x80|byte((cp>>6)&0x3F),
			0x80|byte(cp&0x3F)), nil
	}
	return dst, jsonerr.New(jsonerr.InvalidCodepoint, "Unicode value is invalid")
}

// DecodeUTF8 decodes the leading UTF-8 sequence of b into a code point and
// its encoded length in bytes. It is the reverse direction used when the
// serializer escapes non-ASCII string content, and rejects truncated
// sequences, bad continuation bytes, surrogate-range code points, and code
// points above MaxCodepoint.
func DecodeUTF8(b []byte) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, jsonerr.New(jsonerr.InvalidUTF8, "Invalid UTF-8 character sequence")
	}

	lead := b[0]
	var cp uint32
	var size int
	switch {
	case lead <= MaxASCII:
		return uint32(lead), 1, nil
	case lead&0xE0 == 0xC0:
		cp = uint32(lead & 0x1F)
		size = 2
	case lead&0xF0 == 0xE0:
		cp = uint32(lead & 0x0F)
		size = 3
	case lead&0xF8 == 0xF0:
		cp = uint32(lead & 0x07)
		size = 4
	default:
		return 0, 0, jsonerr.New(jsonerr.InvalidUTF8, "Invalid UTF-8 character sequence")
	}

	if len(b) < size {
		return 0, 0, jsonerr.New(jsonerr.InvalidUTF8, "Invalid UTF-8 character sequence")
	}
	for _, c := range b[1:size] {
		// Continuation bytes are 10nnnnnn.
		if c&0xC0 != 0x80 {
			return 0, 0, jsonerr.New(jsonerr.InvalidUTF8, "Invalid UTF-8 character sequence")
		}
		cp = (cp << 6) | uint32(c&0x3F)
	}

	if cp > MaxCodepoint {
		return 0, 0, jsonerr.New(jsonerr.InvalidCodepoint, "Invalid Unicode character")
	}
	if cp >= SurrogateHighMin && cp <= SurrogateLowMax {
		return 0, 0, jsonerr.New(jsonerr.InvalidUTF8, "Invalid UTF-8 character sequence")
	}

	return cp, size, nil
}
