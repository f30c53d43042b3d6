package jsonfmt

import "github.com/lattice-substrate/json-codec/jsonerr"

// valueKind classifies the upcoming token from its first byte. The formatter
// has its own kind set because it never materializes jsonval values.
type valueKind int

const (
	valueLiteral valueKind = iota
	valueString
	valueNumber
	valueObject
	valueArray
)

func (f *Formatter) eof() bool {
	return f.pos >= len(f.data)
}

func (f *Formatter) remaining() int {
	return len(f.data) - f.pos
}

func (f *Formatter) cur() byte {
	return f.data[f.pos]
}

// advance moves the read position forward, clamped to the end of input, and
// tracks the column counter.
func (f *Formatter) advance(n int) {
	if n > f.remaining() {
		n = f.remaining()
	}
	f.pos += n
	f.column += n
}

// consumeWhitespace skips the four JSON whitespace characters. A newline
// increments the line counter and resets the column counter.
func (f *Formatter) consumeWhitespace() {
	for !f.eof() {
		switch f.cur() {
		case ' ', '\r', '\t':
			f.advance(1)
		case '\n':
			f.pos++
			f.line++
			f.column = 0
		default:
			return
		}
	}
}

// valueType determines the kind of the upcoming value from its first byte.
func (f *Formatter) valueType() (valueKind, error) {
	if f.eof() {
		return 0, f.errorf(jsonerr.IncompleteInput, "Incomplete JSON text")
	}

	switch c := f.cur(); {
	case c == '"':
		return valueString, nil
	case c == '[':
		return valueArray, nil
	case c == '{':
		return valueObject, nil
	case c == 't', c == 'f', c == 'n':
		return valueLiteral, nil
	case c == '-', c >= '0' && c <= '9':
		return valueNumber, nil
	}
	return 0, f.errorf(jsonerr.UnknownValueType, "Unknown value type")
}

func (f *Formatter) emit(s string) {
	f.out = append(f.out, s...)
}

func (f *Formatter) emitByte(c byte) {
	f.out = append(f.out, c)
}

func (f *Formatter) emitIndent() {
	for i := 0; i < f.currentIndent; i++ {
		f.out = append(f.out, ' ')
	}
}

func (f *Formatter) errorf(kind jsonerr.Kind, msg string) error {
	return jsonerr.At(kind, f.line, f.column, msg)
}

// printPrimitive copies a string, number, or literal token to the output.
func (f *Formatter) printPrimitive(kind valueKind) error {
	switch kind {
	case valueString:
		return f.printString()
	case valueNumber:
		return f.printNumber()
	case valueLiteral:
		return f.printLiteral()
	}
	return f.errorf(jsonerr.UnknownValueType, "Unknown value type provided")
}

// printString copies a quoted string token verbatim. Escape sequences are
// passed through without decoding; only raw control bytes and a missing
// closing quote are rejected.
func (f *Formatter) printString() error {
	if f.eof() || f.cur() != '"' {
		return f.errorf(jsonerr.ExpectedString, "Expected leading quote mark")
	}
	f.emitByte('"')
	f.advance(1)

	handleEscape := false
	for !f.eof() {
		c := f.cur()

		if c < 0x20 {
			return f.errorf(jsonerr.IllegalControlCharacter,
				"Illegal control character in string")
		}

		if handleEscape {
			f.emitByte(c)
			f.advance(1)
			handleEscape = false
			continue
		}

		if c == '"' {
			f.emitByte('"')
			f.advance(1)
			return nil
		}

		if c == '\\' {
			handleEscape = true
		}
		f.emitByte(c)
		f.advance(1)
	}

	return f.errorf(jsonerr.UnterminatedString, "No closing quote parsing string")
}

// printNumber copies a number token through the same state machine the
// parser uses, but emits the bytes unchanged instead of converting them.
func (f *Formatter) printNumber() error {
	state := numberSign
	validNumber := false
	endOfNumber := false

	for !f.eof() && !endOfNumber {
		c := f.cur()
		switch state {
		case numberSign:
			if c == '-' {
				f.emitByte(c)
				f.advance(1)
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
				f.emitByte(c)
				f.advance(1)
				validNumber = true
				break
			}
			if c == '.' {
				if !validNumber {
					return f.errorf(jsonerr.InvalidNumber, "Invalid number")
				}
				f.emitByte(c)
				f.advance(1)
				validNumber = false
				state = numberFloat
				break
			}
			if c == 'e' || c == 'E' {
				if !validNumber {
					return f.errorf(jsonerr.InvalidNumber, "Invalid number")
				}
				f.emitByte(c)
				f.advance(1)
				validNumber = false
				state = numberExponentSign
				break
			}
			endOfNumber = true

		case numberFloat:
			if isDigit(c) {
				f.emitByte(c)
				f.advance(1)
				validNumber = true
				break
			}
			if c == 'e' || c == 'E' {
				if !validNumber {
					return f.errorf(jsonerr.InvalidNumber, "Invalid number")
				}
				f.emitByte(c)
				f.advance(1)
				validNumber = false
				state = numberExponentSign
				break
			}
			endOfNumber = true

		case numberExponentSign:
			if c == '-' || c == '+' {
				f.emitByte(c)
				f.advance(1)
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
				f.emitByte(c)
				f.advance(1)
				validNumber = true
				break
			}
			endOfNumber = true
		}
	}

	if !validNumber {
		return f.errorf(jsonerr.InvalidNumber, "Invalid number")
	}
	return nil
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

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// printLiteral copies exactly one of the three JSON literals.
func (f *Formatter) printLiteral() error {
	if f.eof() {
		return f.errorf(jsonerr.IncompleteInput, "Incomplete JSON text")
	}

	switch f.cur() {
	case 't':
		if f.remaining() >= 4 && string(f.data[f.pos:f.pos+4]) == "true" {
			f.emit("true")
			f.advance(4)
			return nil
		}
	case 'f':
		if f.remaining() >= 5 && string(f.data[f.pos:f.pos+5]) == "false" {
			f.emit("false")
			f.advance(5)
			return nil
		}
	case 'n':
		if f.remaining() >= 4 && string(f.data[f.pos:f.pos+4]) == "null" {
			f.emit("null")
			f.advance(4)
			return nil
		}
	}

	return f.errorf(jsonerr.UnknownLiteral, "Unknown JSON literal")
}
