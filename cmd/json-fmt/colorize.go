package main

import (
	"strings"

	"github.com/fatih/color"
)

// Colors per token class. Keys and string values get distinct colors so the
// two read apart at a glance; delimiters and separators are bold.
var (
	colorDelim  = color.New(color.Bold).SprintFunc()
	colorKey    = color.New(color.FgBlue, color.Bold).SprintFunc()
	colorString = color.New(color.FgGreen).SprintFunc()
	colorNumber = color.New(color.FgCyan).SprintFunc()
	colorBool   = color.New(color.FgYellow).SprintFunc()
	colorNull   = color.New(color.FgBlack, color.Bold).SprintFunc()
)

type colorFrame struct {
	object    bool
	expectKey bool
}

// colorize wraps the tokens of already well-formed JSON text in ANSI colors.
// The input is output this process just produced, so scanning is minimal: a
// string token runs to its closing quote, every other token runs to the next
// whitespace or separator byte.
func colorize(src string) string {
	var b strings.Builder
	b.Grow(len(src) * 2)

	var frames []colorFrame
	top := func() *colorFrame {
		if len(frames) == 0 {
			return nil
		}
		return &frames[len(frames)-1]
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '{' || c == '[':
			b.WriteString(colorDelim(string(c)))
			frames = append(frames, colorFrame{object: c == '{', expectKey: c == '{'})
			i++
		case c == '}' || c == ']':
			b.WriteString(colorDelim(string(c)))
			if len(frames) > 0 {
				frames = frames[:len(frames)-1]
			}
			i++
		case c == ',':
			b.WriteString(colorDelim(","))
			if f := top(); f != nil && f.object {
				f.expectKey = true
			}
			i++
		case c == ':':
			b.WriteString(colorDelim(":"))
			if f := top(); f != nil && f.object {
				f.expectKey = false
			}
			i++
		case c == '"':
			end := stringTokenEnd(src, i)
			token := src[i:end]
			if f := top(); f != nil && f.object && f.expectKey {
				b.WriteString(colorKey(token))
			} else {
				b.WriteString(colorString(token))
			}
			i = end
		case c == 't' || c == 'f':
			end := bareTokenEnd(src, i)
			b.WriteString(colorBool(src[i:end]))
			i = end
		case c == 'n':
			end := bareTokenEnd(src, i)
			b.WriteString(colorNull(src[i:end]))
			i = end
		case c == '-' || (c >= '0' && c <= '9'):
			end := bareTokenEnd(src, i)
			b.WriteString(colorNumber(src[i:end]))
			i = end
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// stringTokenEnd returns the index just past the closing quote of the string
// token starting at i, honoring backslash escapes.
func stringTokenEnd(src string, i int) int {
	j := i + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
		case '"':
			return j + 1
		default:
			j++
		}
	}
	return j
}

// bareTokenEnd returns the index just past a literal or number token.
func bareTokenEnd(src string, i int) int {
	j := i
	for j < len(src) {
		switch src[j] {
		case ' ', '\t', '\n', '\r', ',', ']', '}', ':':
			return j
		}
		j++
	}
	return j
}
