// Package jsonparse parses UTF-8 JSON text into a jsonval.Value tree.
//
// The parser enforces the RFC 8259 grammar, rejects duplicate object keys,
// decodes backslash and \uXXXX escapes (including surrogate pairs), and
// reports every failure with the line and column where scanning stopped.
//
// Nested objects and arrays are not parsed by recursive descent. The parser
// keeps an explicit stack of frames, one per open composite, and drives them
// with a single loop: descending into a nested composite pushes a frame and
// returns to the loop rather than calling back into itself. Native stack
// usage is therefore constant no matter how deeply the input nests, so
// adversarial input can only exhaust heap memory, never overflow the call
// stack.
package jsonparse

import (
	"fmt"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonval"
)

// DefaultMaxInputSize bounds input reads for callers, such as CLIs, that
// take untrusted streams. The library itself imposes no limit unless asked.
const DefaultMaxInputSize = 64 << 20

// Options controls optional parser bounds. The zero value imposes no limits;
// by default the only bound on work is the input size itself.
type Options struct {
	// MaxDepth caps the composite nesting depth. 0 means unlimited.
	MaxDepth int

	// MaxInputSize caps the input length in bytes. 0 means unlimited.
	MaxInputSize int
}

// frame tracks one open composite value on the explicit parse stack.
type frame struct {
	container   *jsonval.Value
	openingSeen bool
	memberSeen  bool
	closingSeen bool
}

// parser is mutable scratch state scoped to a single Parse call. Distinct
// parsers are fully independent; there is no shared or global state.
type parser struct {
	data   []byte
	pos    int
	line   int
	column int
	frames []frame
	opts   *Options
}

// Parse parses a complete JSON text and returns the value tree. The input
// must contain exactly one JSON value surrounded by nothing but whitespace.
func Parse(data []byte) (*jsonval.Value, error) {
	return ParseWithOptions(data, nil)
}

// ParseString is like Parse for string input.
func ParseString(content string) (*jsonval.Value, error) {
	return Parse([]byte(content))
}

// ParseWithOptions is like Parse but applies the given bounds.
func ParseWithOptions(data []byte, opts *Options) (*jsonval.Value, error) {
	if len(data) == 0 {
		return nil, jsonerr.New(jsonerr.EmptyInput, "The content string is empty")
	}
	if opts != nil && opts.MaxInputSize > 0 && len(data) > opts.MaxInputSize {
		return nil, jsonerr.New(jsonerr.BoundExceeded,
			fmt.Sprintf("Input size %d exceeds maximum %d", len(data), opts.MaxInputSize))
	}

	p := &parser{data: data, opts: opts}

	p.consumeWhitespace()
	if p.eof() {
		return nil, jsonerr.New(jsonerr.WhitespaceOnlyInput,
			"The content string contains only whitespace")
	}

	kind, err := p.valueType()
	if err != nil {
		return nil, err
	}

	var root *jsonval.Value
	switch kind {
	case jsonval.KindObject, jsonval.KindArray:
		root = jsonval.NewValue(kind)
		if err := p.push(root); err != nil {
			return nil, err
		}
		if err := p.run(); err != nil {
			return nil, err
		}
	default:
		root, err = p.parsePrimitive(kind)
		if err != nil {
			return nil, err
		}
	}

	p.consumeWhitespace()
	if !p.eof() {
		return nil, p.errorf(jsonerr.UnexpectedTrailingCharacter, "Unexpected character")
	}

	return root, nil
}

// run drives the frame stack until every open composite has been closed.
// Each step either consumes members of the top frame, pushes a frame for a
// nested composite, or pops the top frame at its closing delimiter.
func (p *parser) run() error {
	for len(p.frames) > 0 {
		f := &p.frames[len(p.frames)-1]
		var err error
		if f.container.Kind() == jsonval.KindObject {
			err = p.stepObject(f)
		} else {
			err = p.stepArray(f)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) push(container *jsonval.Value) error {
	if p.opts != nil && p.opts.MaxDepth > 0 && len(p.frames) >= p.opts.MaxDepth {
		return p.errorf(jsonerr.BoundExceeded,
			fmt.Sprintf("Nesting depth exceeds maximum %d", p.opts.MaxDepth))
	}
	p.frames = append(p.frames, frame{container: container})
	return nil
}

func (p *parser) pop() {
	p.frames = p.frames[:len(p.frames)-1]
}

// stepObject advances the top object frame. It returns after pushing a frame
// for a nested composite member, after popping at '}', or on error.
func (p *parser) stepObject(f *frame) error {
	obj, err := f.container.AsObject()
	if err != nil {
		return err
	}

	if !f.openingSeen {
		if p.eof() {
			return p.errorf(jsonerr.IncompleteInput, "Incomplete JSON object")
		}
		if p.cur() != '{' {
			return p.errorf(jsonerr.UnknownValueType, "Expected leading brace")
		}
		p.advance(1)
		f.openingSeen = true
	}

	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}

		if p.cur() == '}' {
			p.advance(1)
			f.closingSeen = true
			p.pop()
			return nil
		}

		if f.memberSeen {
			if p.cur() != ',' {
				return p.errorf(jsonerr.ExpectedComma, "Expected a comma")
			}
			p.advance(1)
			p.consumeWhitespace()
			if p.eof() {
				break
			}
			if p.cur() == '}' {
				return p.errorf(jsonerr.PrematureClose, "Premature end of JSON object")
			}
		}

		kind, err := p.valueType()
		if err != nil {
			return err
		}
		if kind != jsonval.KindString {
			return p.errorf(jsonerr.ExpectedString, "Expected a string")
		}

		key, err := p.parseString()
		if err != nil {
			return err
		}
		if obj.HasKey(string(key)) {
			return p.errorf(jsonerr.DuplicateKey, "Duplicate name")
		}

		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.cur() != ':' {
			return p.errorf(jsonerr.ExpectedColon, "Expected a colon")
		}
		p.advance(1)

		p.consumeWhitespace()
		if p.eof() {
			break
		}

		kind, err = p.valueType()
		if err != nil {
			return err
		}

		member := obj.Index(string(key))
		if kind == jsonval.KindObject || kind == jsonval.KindArray {
			// Descend: the member is already attached to its parent, so the
			// parent frame resumes naturally once the new frame pops.
			member.AssignType(kind)
			f.memberSeen = true
			return p.push(member)
		}

		prim, err := p.parsePrimitive(kind)
		if err != nil {
			return err
		}
		*member = *prim
		f.memberSeen = true
	}

	return p.errorf(jsonerr.IncompleteInput, "Unexpected end of JSON object")
}

// stepArray advances the top array frame, mirroring stepObject without the
// key grammar.
func (p *parser) stepArray(f *frame) error {
	arr, err := f.container.AsArray()
	if err != nil {
		return err
	}

	if !f.openingSeen {
		if p.eof() {
			return p.errorf(jsonerr.IncompleteInput, "Incomplete JSON array")
		}
		if p.cur() != '[' {
			return p.errorf(jsonerr.UnknownValueType, "Expected leading bracket")
		}
		p.advance(1)
		f.openingSeen = true
	}

	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}

		if p.cur() == ']' {
			p.advance(1)
			f.closingSeen = true
			p.pop()
			return nil
		}

		if f.memberSeen {
			if p.cur() != ',' {
				return p.errorf(jsonerr.ExpectedComma, "Expected a comma")
			}
			p.advance(1)
			p.consumeWhitespace()
			if p.eof() {
				break
			}
			if p.cur() == ']' {
				return p.errorf(jsonerr.PrematureClose, "Premature end of JSON array")
			}
		}

		kind, err := p.valueType()
		if err != nil {
			return err
		}

		if kind == jsonval.KindObject || kind == jsonval.KindArray {
			elem := jsonval.NewValue(kind)
			arr.Append(elem)
			f.memberSeen = true
			return p.push(elem)
		}

		prim, err := p.parsePrimitive(kind)
		if err != nil {
			return err
		}
		arr.Append(prim)
		f.memberSeen = true
	}

	return p.errorf(jsonerr.IncompleteInput, "Unexpected end of JSON array")
}

// parsePrimitive parses a string, number, or literal in place.
func (p *parser) parsePrimitive(kind jsonval.Kind) (*jsonval.Value, error) {
	switch kind {
	case jsonval.KindString:
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return jsonval.StringValue(string(s)), nil
	case jsonval.KindNumber:
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return jsonval.NumberValue(n), nil
	case jsonval.KindLiteral:
		l, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return jsonval.LiteralValue(l), nil
	}
	return nil, p.errorf(jsonerr.UnknownValueType, "Unknown value type provided")
}

func (p *parser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *parser) remaining() int {
	return len(p.data) - p.pos
}

func (p *parser) cur() byte {
	return p.data[p.pos]
}

// advance moves the read position forward, clamped to the end of input, and
// tracks the column counter.
func (p *parser) advance(n int) {
	if n > p.remaining() {
		n = p.remaining()
	}
	p.pos += n
	p.column += n
}

// consumeWhitespace skips the four JSON whitespace characters. A newline
// increments the line counter and resets the column counter.
func (p *parser) consumeWhitespace() {
	for !p.eof() {
		switch p.cur() {
		case ' ', '\r', '\t':
			p.advance(1)
		case '\n':
			p.pos++
			p.line++
			p.column = 0
		default:
			return
		}
	}
}

// valueType determines the kind of the upcoming value from its first byte.
func (p *parser) valueType() (jsonval.Kind, error) {
	if p.eof() {
		return 0, p.errorf(jsonerr.IncompleteInput, "Incomplete JSON text")
	}

	switch c := p.cur(); {
	case c == '"':
		return jsonval.KindString, nil
	case c == '[':
		return jsonval.KindArray, nil
	case c == '{':
		return jsonval.KindObject, nil
	case c == 't', c == 'f', c == 'n':
		return jsonval.KindLiteral, nil
	case c == '-', c >= '0' && c <= '9':
		return jsonval.KindNumber, nil
	}
	return 0, p.errorf(jsonerr.UnknownValueType, "Unknown value type")
}

func (p *parser) errorf(kind jsonerr.Kind, msg string) error {
	return jsonerr.At(kind, p.line, p.column, msg)
}

func (p *parser) errorAt(kind jsonerr.Kind, column int, msg string) error {
	return jsonerr.At(kind, p.line, column, msg)
}
