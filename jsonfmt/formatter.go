// Package jsonfmt reformats JSON text with configurable indentation.
//
// The formatter re-lexes its input just far enough to find token boundaries
// and streams the indented output directly; it never builds a jsonval tree.
// It is deliberately not a strict validator: it trusts the caller to supply
// syntactically sound JSON and reports only the errors it happens to detect
// while scanning. In particular it does not reject duplicate object keys and
// does not validate string escapes or UTF-8 content, and it never reorders
// object members; keys are written in exactly the order found in the source.
//
// Nesting is handled with the same explicit frame stack the parser uses, so
// arbitrarily deep input cannot overflow the native call stack.
package jsonfmt

import (
	"io"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonval"
)

// DefaultIndentWidth is the indentation used when Options does not override it.
const DefaultIndentWidth = 2

// Options configures a Formatter. The zero value (or a nil pointer) selects
// two-space indentation and the default brace placement.
type Options struct {
	// IndentWidth is the number of spaces per nesting level.
	// 0 means DefaultIndentWidth.
	IndentWidth int

	// AllmanStyle places the opening delimiter of a nested object or array
	// member on its own line at the current indentation instead of after
	// ": " on the key's line.
	AllmanStyle bool
}

func (o *Options) indentWidth() int {
	if o != nil && o.IndentWidth > 0 {
		return o.IndentWidth
	}
	return DefaultIndentWidth
}

func (o *Options) allmanStyle() bool {
	return o != nil && o.AllmanStyle
}

// frame tracks one open composite on the explicit format stack. The
// formatter has no tree, so a frame carries only the composite kind and the
// progress flags.
type frame struct {
	isObject    bool
	openingSeen bool
	memberSeen  bool
	closingSeen bool
}

// Formatter reformats JSON text. A Formatter holds mutable scratch state
// scoped to one Print or Write call; a single instance must not be used by
// multiple goroutines simultaneously, but distinct instances are fully
// independent.
type Formatter struct {
	indent int
	allman bool

	data          []byte
	pos           int
	line          int
	column        int
	out           []byte
	currentIndent int
	frames        []frame
}

// New returns a Formatter with the given options. A nil opts selects the
// defaults.
func New(opts *Options) *Formatter {
	return &Formatter{
		indent: opts.indentWidth(),
		allman: opts.allmanStyle(),
	}
}

// Print reformats the given JSON text and returns the formatted string.
func (f *Formatter) Print(content []byte) (string, error) {
	out, err := f.format(content)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// PrintString is like Print for string input.
func (f *Formatter) PrintString(content string) (string, error) {
	return f.Print([]byte(content))
}

// PrintValue serializes the value to compact text first, then reformats it.
func (f *Formatter) PrintValue(v *jsonval.Value) (string, error) {
	compact, err := v.ToString()
	if err != nil {
		return "", err
	}
	return f.PrintString(compact)
}

// Write reformats the given JSON text onto w.
func (f *Formatter) Write(w io.Writer, content []byte) error {
	out, err := f.format(content)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// WriteValue serializes the value to compact text, reformats it, and writes
// the result onto w.
func (f *Formatter) WriteValue(w io.Writer, v *jsonval.Value) error {
	compact, err := v.ToString()
	if err != nil {
		return err
	}
	return f.Write(w, []byte(compact))
}

func (f *Formatter) format(content []byte) ([]byte, error) {
	if len(content) == 0 {
		return nil, jsonerr.New(jsonerr.EmptyInput, "The content string is empty")
	}

	f.data = content
	f.pos = 0
	f.line = 0
	f.column = 0
	f.out = f.out[:0]
	f.currentIndent = 0
	f.frames = f.frames[:0]

	f.consumeWhitespace()
	if f.eof() {
		return nil, jsonerr.New(jsonerr.WhitespaceOnlyInput,
			"The content string contains only whitespace")
	}

	kind, err := f.valueType()
	if err != nil {
		return nil, err
	}

	switch kind {
	case valueObject, valueArray:
		f.push(kind == valueObject)
		if err := f.run(); err != nil {
			return nil, err
		}
	default:
		if err := f.printPrimitive(kind); err != nil {
			return nil, err
		}
	}

	f.consumeWhitespace()
	if !f.eof() {
		return nil, f.errorf(jsonerr.UnexpectedTrailingCharacter, "Unexpected character")
	}

	return f.out, nil
}

// run drives the frame stack until every open composite has been closed.
func (f *Formatter) run() error {
	for len(f.frames) > 0 {
		top := &f.frames[len(f.frames)-1]
		var err error
		if top.isObject {
			err = f.stepObject(top)
		} else {
			err = f.stepArray(top)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) push(isObject bool) {
	f.frames = append(f.frames, frame{isObject: isObject})
}

func (f *Formatter) pop() {
	f.frames = f.frames[:len(f.frames)-1]
}

// stepObject advances the top object frame: it emits the member layout and
// returns after pushing a frame for a nested composite member, after popping
// at '}', or on error.
func (f *Formatter) stepObject(fr *frame) error {
	if !fr.openingSeen {
		if f.eof() {
			return f.errorf(jsonerr.IncompleteInput, "Incomplete JSON object")
		}
		if f.cur() != '{' {
			return f.errorf(jsonerr.UnknownValueType, "Expected leading brace")
		}
		f.emit("{\n")
		f.currentIndent += f.indent
		f.advance(1)
		fr.openingSeen = true
	}

	for {
		f.consumeWhitespace()
		if f.eof() {
			break
		}

		if f.cur() == '}' {
			f.currentIndent -= f.indent
			f.emit("\n")
			f.emitIndent()
			f.emit("}")
			f.advance(1)
			fr.closingSeen = true
			f.pop()
			return nil
		}

		if fr.memberSeen {
			if f.cur() != ',' {
				return f.errorf(jsonerr.ExpectedComma, "Expected a comma")
			}
			f.emit(",\n")
			f.advance(1)
			f.consumeWhitespace()
			if f.eof() {
				break
			}
			if f.cur() == '}' {
				return f.errorf(jsonerr.PrematureClose, "Premature end of JSON object")
			}
		}

		kind, err := f.valueType()
		if err != nil {
			return err
		}
		if kind != valueString {
			return f.errorf(jsonerr.ExpectedString, "Expected a string")
		}

		f.emitIndent()
		if err := f.printString(); err != nil {
			return err
		}

		f.consumeWhitespace()
		if f.eof() {
			break
		}
		if f.cur() != ':' {
			return f.errorf(jsonerr.ExpectedColon, "Expected a colon")
		}
		f.advance(1)

		f.consumeWhitespace()
		if f.eof() {
			break
		}

		kind, err = f.valueType()
		if err != nil {
			return err
		}

		if kind == valueObject || kind == valueArray {
			if f.allman {
				// Allman placement: the nested delimiter starts on its own
				// line at the current indentation.
				f.emit(":\n")
				f.emitIndent()
			} else {
				f.emit(": ")
			}
			fr.memberSeen = true
			f.push(kind == valueObject)
			return nil
		}

		f.emit(": ")
		if err := f.printPrimitive(kind); err != nil {
			return err
		}
		fr.memberSeen = true
	}

	return f.errorf(jsonerr.IncompleteInput, "Unexpected end of JSON object")
}

// stepArray advances the top array frame, mirroring stepObject without the
// key grammar.
func (f *Formatter) stepArray(fr *frame) error {
	if !fr.openingSeen {
		if f.eof() {
			return f.errorf(jsonerr.IncompleteInput, "Incomplete JSON array")
		}
		if f.cur() != '[' {
			return f.errorf(jsonerr.UnknownValueType, "Expected leading bracket")
		}
		f.emit("[\n")
		f.currentIndent += f.indent
		f.advance(1)
		fr.openingSeen = true
	}

	for {
		f.consumeWhitespace()
		if f.eof() {
			break
		}

		if f.cur() == ']' {
			f.currentIndent -= f.indent
			f.emit("\n")
			f.emitIndent()
			f.emit("]")
			f.advance(1)
			fr.closingSeen = true
			f.pop()
			return nil
		}

		if fr.memberSeen {
			if f.cur() != ',' {
				return f.errorf(jsonerr.ExpectedComma, "Expected a comma")
			}
			f.emit(",\n")
			f.advance(1)
			f.consumeWhitespace()
			if f.eof() {
				break
			}
			if f.cur() == ']' {
				return f.errorf(jsonerr.PrematureClose, "Premature end of JSON array")
			}
		}

		kind, err := f.valueType()
		if err != nil {
			return err
		}

		f.emitIndent()
		if kind == valueObject || kind == valueArray {
			fr.memberSeen = true
			f.push(kind == valueObject)
			return nil
		}

		if err := f.printPrimitive(kind); err != nil {
			return err
		}
		fr.memberSeen = true
	}

	return f.errorf(jsonerr.IncompleteInput, "Unexpected end of JSON array")
}
