package jsonval

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonuni"
)

// ToString serializes the value as compact, single-line JSON text with one
// space after each ':' and ','. Object members are emitted in key-sort order,
// so structurally equal objects always produce identical text.
//
// Serialization fails when a Number holds NaN or an infinity, or when a
// String's bytes are not valid UTF-8.
func (v *Value) ToString() (string, error) {
	buf, err := v.append(nil)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteTo writes the compact serialization of the value to w. It implements
// io.WriterTo. Nothing is written when serialization fails.
func (v *Value) WriteTo(w io.Writer) (int64, error) {
	buf, err := v.append(nil)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

func (v *Value) append(buf []byte) ([]byte, error) {
	switch v.kind {
	case KindLiteral:
		return v.lit.append(buf)
	case KindString:
		return v.str.append(buf)
	case KindNumber:
		return v.num.append(buf)
	case KindObject:
		return v.obj.append(buf)
	case KindArray:
		return v.arr.append(buf)
	}
	return nil, jsonerr.New(jsonerr.TypeMismatch,
		fmt.Sprintf("Unknown JSON value kind %d", int(v.kind)))
}

func (l Literal) append(buf []byte) ([]byte, error) {
	switch l {
	case Null:
		return append(buf, "null"...), nil
	case True:
		return append(buf, "true"...), nil
	case False:
		return append(buf, "false"...), nil
	}
	return nil, jsonerr.New(jsonerr.UnknownLiteral, "Invalid JSON Literal value")
}

// append serializes the string with the output escaping policy: short
// escapes for the JSON two-character sequences, \u00XX for other control
// characters, \uXXXX for every non-ASCII code point (a surrogate pair above
// the BMP), and ~ for the tilde.
func (s String) append(buf []byte) ([]byte, error) {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
			i++
		case c == '\\':
			buf = append(buf, '\\', '\\')
			i++
		case c == '\b':
			buf = append(buf, '\\', 'b')
			i++
		case c == '\f':
			buf = append(buf, '\\', 'f')
			i++
		case c == '\n':
			buf = append(buf, '\\', 'n')
			i++
		case c == '\r':
			buf = append(buf, '\\', 'r')
			i++
		case c == '\t':
			buf = append(buf, '\\', 't')
			i++
		case c == 0x7E:
			// The tilde is escaped by policy even though it is printable.
			buf = appendEscapedUnit(buf, 0x7E)
			i++
		case c < 0x20:
			buf = appendEscapedUnit(buf, uint32(c))
			i++
		case c > jsonuni.MaxASCII:
			cp, size, err := jsonuni.DecodeUTF8([]byte(s[i:]))
			if err != nil {
				return nil, err
			}
			if cp > jsonuni.MaxBMP {
				high := jsonuni.LeadOffset + (cp >> 10)
				low := jsonuni.SurrogateLowMin + (cp & 0x3FF)
				buf = appendEscapedUnit(buf, high)
				buf = appendEscapedUnit(buf, low)
			} else {
				buf = appendEscapedUnit(buf, cp)
			}
			i += size
		default:
			buf = append(buf, c)
			i++
		}
	}
	return append(buf, '"'), nil
}

const upperHex = "0123456789ABCDEF"

// appendEscapedUnit emits one \uXXXX escape with uppercase hex digits.
func appendEscapedUnit(buf []byte, cu uint32) []byte {
	return append(buf, '\\', 'u',
		upperHex[(cu>>12)&0xF],
		upperHex[(cu>>8)&0xF],
		upperHex[(cu>>4)&0xF],
		upperHex[cu&0xF])
}

func (n Number) append(buf []byte) ([]byte, error) {
	if !n.isFloat {
		return strconv.AppendInt(buf, n.i, 10), nil
	}

	f := n.f
	if math.IsInf(f, 0) {
		return nil, jsonerr.New(jsonerr.NonFiniteNumber,
			"Value of infinity is disallowed in JSON")
	}
	if math.IsNaN(f) {
		return nil, jsonerr.New(jsonerr.NonFiniteNumber,
			"Value of NaN is disallowed in JSON")
	}
	// Negative zero serializes as plain zero.
	if f == 0 {
		return append(buf, '0'), nil
	}
	return strconv.AppendFloat(buf, f, 'g', -1, 64), nil
}

func (o *Object) append(buf []byte) ([]byte, error) {
	buf = append(buf, '{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf = append(buf, ',', ' ')
		}
		var err error
		buf, err = String(key).append(buf)
		if err != nil {
			return nil, err
		}
		buf = append(buf, ':', ' ')
		buf, err = o.members[key].append(buf)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func (a *Array) append(buf []byte) ([]byte, error) {
	buf = append(buf, '[')
	for i, elem := range a.elems {
		if i > 0 {
			buf = append(buf, ',', ' ')
		}
		var err error
		buf, err = elem.append(buf)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}
