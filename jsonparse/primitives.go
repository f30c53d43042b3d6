package jsonparse

import (
	"errors"
	"strconv"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonuni"
	"github.com/lattice-substrate/json-codec/jsonval"
)

// parseString consumes a quoted JSON string and returns its decoded bytes.
// Raw control bytes are rejected wherever they appear. The short escapes
// b f n r t decode to their control characters and \u escapes are decoded
// through jsonuni; any other escaped byte is taken literally, which covers
// \" \\ and \/ without special cases.
func (p *parser) parseString() (jsonval.String, error) {
	if p.eof() {
		return "", p.errorf(jsonerr.IncompleteInput, "Incomplete JSON text")
	}
	if p.cur() != '"' {
		return "", p.errorf(jsonerr.ExpectedString, "Expected leading quote mark")
	}
	p.advance(1)

	var buf []byte
	handleEscape := false
	closeQuote := false

	for !p.eof() {
		c := p.cur()

		if c < 0x20 {
			return "", p.errorf(jsonerr.IllegalControlCharacter,
				"Illegal control character in string")
		}

		if handleEscape {
			switch c {
			case 'b':
				p.advance(1)
				buf = append(buf, '\b')
			case 'f':
				p.advance(1)
				buf = append(buf, '\f')
			case 'n':
				p.advance(1)
				buf = append(buf, '\n')
			case 'r':
				p.advance(1)
				buf = append(buf, '\r')
			case 't':
				p.advance(1)
				buf = append(buf, '\t')
			case 'u':
				p.advance(1)
				var err error
				buf, err = p.parseUnicode(buf)
				if err != nil {
					return "", err
				}
			default:
				buf = append(buf, c)
				p.advance(1)
			}
			handleEscape = false
			continue
		}

		if c == '"' {
			p.advance(1)
			closeQuote = true
			break
		}

		if c == '\\' {
			p.advance(1)
			handleEscape = true
			continue
		}

		buf = append(buf, c)
		p.advance(1)
	}

	if !closeQuote {
		return "", p.errorf(jsonerr.UnterminatedString, "No closing quote parsing string")
	}

	return jsonval.String(buf), nil
}

// parseUnicode consumes the hex digits of one \uXXXX escape, pairing a high
// surrogate with the immediately following \uXXXX low surrogate, and appends
// the UTF-8 encoding of the resulting code point. The read position sits
// just past '\u' on entry.
func (p *parser) parseUnicode(buf []byte) ([]byte, error) {
	initialColumn := p.column

	if p.remaining() < 4 {
		return nil, p.errorf(jsonerr.InvalidInput,
			"Insufficient input following \\u sequence")
	}

	hex := p.data[p.pos : p.pos+4]
	p.advance(4)
	codeValue, err := jsonuni.HexStringToCodeUnit(hex)
	if err != nil {
		return nil, p.wrapAt(jsonerr.InvalidInput, p.column-4, err)
	}

	if jsonuni.IsHighSurrogate(codeValue) || jsonuni.IsLowSurrogate(codeValue) {
		if jsonuni.IsLowSurrogate(codeValue) {
			return nil, p.errorAt(jsonerr.InvalidSurrogate, p.column-6,
				"Unexpected low Unicode surrogate found")
		}

		// A high surrogate must be immediately followed by '\uNNNN'.
		if p.remaining() < 6 {
			return nil, p.errorf(jsonerr.InvalidSurrogate,
				"Insufficient input following high Unicode surrogate")
		}
		if p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
			return nil, p.errorf(jsonerr.InvalidSurrogate,
				"Expected low Unicode surrogate, but did not find one")
		}
		p.advance(2)

		hex = p.data[p.pos : p.pos+4]
		p.advance(4)
		lowCodeValue, err := jsonuni.HexStringToCodeUnit(hex)
		if err != nil {
			return nil, p.wrapAt(jsonerr.InvalidInput, p.column-4, err)
		}

		codeValue, err = jsonuni.CombineSurrogatePair(codeValue, lowCodeValue)
		if err != nil {
			return nil, p.errorAt(jsonerr.InvalidSurrogate, p.column-6,
				"Expected low Unicode surrogate value")
		}
	}

	out, err := jsonuni.AppendCodepointUTF8(buf, codeValue)
	if err != nil {
		// Unreachable after surrogate validation, but kept as a guard.
		return nil, p.errorAt(jsonerr.InvalidCodepoint, initialColumn,
			"Unicode value is invalid")
	}
	return out, nil
}

func (p *parser) wrapAt(kind jsonerr.Kind, column int, cause error) error {
	var je *jsonerr.Error
	if errors.As(cause, &je) {
		return jsonerr.WrapAt(je.Kind, p.line, column, je.Message, cause)
	}
	return jsonerr.WrapAt(kind, p.line, column, cause.Error(), cause)
}

// numberState is the 5-state machine mirroring the JSON number grammar.
type numberState int

const (
	numberSign numberState = iota
	numberInteger
	numberFloat
	numberExponentSign
	numberExponent
)

// parseNumber consumes a number token and classifies it as the integer case
// or the float case. A '.' or exponent marker forces the float case. The
// accumulated token is converted at the end; conversion failure (overflow or
// underflow of the target type) surfaces as an invalid number.
func (p *parser) parseNumber() (jsonval.Number, error) {
	if p.eof() {
		return jsonval.Number{}, p.errorf(jsonerr.InvalidNumber, "Incomplete JSON number")
	}

	var token []byte
	state := numberSign
	validNumber := false
	endOfNumber := false
	isFloat := false

	for !p.eof() && !endOfNumber {
		c := p.cur()
		switch state {
		case numberSign:
			if c == '-' {
				token = append(token, c)
				p.advance(1)
				state = numberInteger
				break
			}
			if isDigit(c) {
				state = numberInteger
				break
			}
			endOfNumber = true

		case numberInteger:
			if isDigit(c) {
				token = append(token, c)
				p.advance(1)
				validNumber = true
				break
			}
			if c == '.' {
				if !validNumber {
					return jsonval.Number{}, p.errorf(jsonerr.InvalidNumber, "Invalid number")
				}
				token = append(token, c)
				p.advance(1)
				validNumber = false
				isFloat = true
				state = numberFloat
				break
			}
			if c == 'e' || c == 'E' {
				if !validNumber {
					return jsonval.Number{}, p.errorf(jsonerr.InvalidNumber, "Invalid number")
				}
				token = append(token, c)
				p.advance(1)
				validNumber = false
				isFloat = true
				state = numberExponentSign
				break
			}
			endOfNumber = true

		case numberFloat:
			if isDigit(c) {
				token = append(token, c)
				p.advance(1)
				validNumber = true
				break
			}
			if c == 'e' || c == 'E' {
				if !validNumber {
					return jsonval.Number{}, p.errorf(jsonerr.InvalidNumber, "Invalid number")
				}
				token = append(token, c)
				p.advance(1)
				validNumber = false
				state = numberExponentSign
				break
			}
			endOfNumber = true

		case numberExponentSign:
			if c == '-' || c == '+' {
				token = append(token, c)
				p.advance(1)
				state = numberExponent
				break
			}
			if isDigit(c) {
				state = numberExponent
				break
			}
			endOfNumber = true

		case numberExponent:
			if isDigit(c) {
				token = append(token, c)
				p.advance(1)
				validNumber = true
				break
			}
			endOfNumber = true
		}
	}

	if !validNumber {
		return jsonval.Number{}, p.errorf(jsonerr.InvalidNumber, "Invalid number")
	}

	if isFloat {
		f, err := strconv.ParseFloat(string(token), 64)
		if err != nil {
			return jsonval.Number{}, jsonerr.WrapAt(jsonerr.InvalidNumber,
				p.line, p.column, "Failed converting number", err)
		}
		return jsonval.Float(f), nil
	}

	i, err := strconv.ParseInt(string(token), 10, 64)
	if err != nil {
		return jsonval.Number{}, jsonerr.WrapAt(jsonerr.InvalidNumber,
			p.line, p.column, "Failed converting number", err)
	}
	return jsonval.Int(i), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseLiteral consumes exactly one of the three JSON literals.
func (p *parser) parseLiteral() (jsonval.Literal, error) {
	if p.eof() {
		return jsonval.Null, p.errorf(jsonerr.IncompleteInput, "Incomplete JSON text")
	}

	switch p.cur() {
	case 't':
		if p.remaining() >= 4 && string(p.data[p.pos:p.pos+4]) == "true" {
			p.advance(4)
			return jsonval.True, nil
		}
	case 'f':
		if p.remaining() >= 5 && string(p.data[p.pos:p.pos+5]) == "false" {
			p.advance(5)
			return jsonval.False, nil
		}
	case 'n':
		if p.remaining() >= 4 && string(p.data[p.pos:p.pos+4]) == "null" {
			p.advance(4)
			return jsonval.Null, nil
		}
	}

	return jsonval.Null, p.errorf(jsonerr.UnknownLiteral, "Unknown JSON literal")
}
