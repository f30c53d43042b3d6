package jsonparse_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonparse"
	"github.com/lattice-substrate/json-codec/jsonval"
)

func mustParse(t *testing.T, in string) *jsonval.Value {
	t.Helper()
	v, err := jsonparse.ParseString(in)
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return v
}

func mustParseErr(t *testing.T, in string) *jsonerr.Error {
	t.Helper()
	_, err := jsonparse.ParseString(in)
	if err == nil {
		t.Fatalf("expected error for %q", in)
	}
	var je *jsonerr.Error
	if !errors.As(err, &je) {
		t.Fatalf("expected *jsonerr.Error, got %T: %v", err, err)
	}
	return je
}

func mustRoundTrip(t *testing.T, in string) string {
	t.Helper()
	out, err := mustParse(t, in).ToString()
	if err != nil {
		t.Fatalf("serialize %q: %v", in, err)
	}
	return out
}

func TestParseLiterals(t *testing.T) {
	cases := []struct {
		in   string
		want jsonval.Literal
	}{
		{"true", jsonval.True},
		{"false", jsonval.False},
		{"null", jsonval.Null},
		{"  true  ", jsonval.True},
		{"\n\tnull\r\n", jsonval.Null},
	}
	for _, tc := range cases {
		v := mustParse(t, tc.in)
		l, err := v.AsLiteral()
		if err != nil {
			t.Fatalf("AsLiteral(%q): %v", tc.in, err)
		}
		if l != tc.want {
			t.Errorf("parse %q = %s, want %s", tc.in, l, tc.want)
		}
	}
}

func TestParseUnknownLiteral(t *testing.T) {
	for _, in := range []string{"tru", "truthy", "fals", "nul", "nulla"} {
		je := mustParseErr(t, in)
		if je.Kind != jsonerr.UnknownLiteral && je.Kind != jsonerr.UnexpectedTrailingCharacter {
			t.Fatalf("parse %q: expected literal failure, got %s", in, je.Kind)
		}
	}
}

func TestParseNumberClassification(t *testing.T) {
	intCases := map[string]int64{
		"0":                    0,
		"2":                    2,
		"-41":                  -41,
		"9223372036854775807":  math.MaxInt64,
		"-9223372036854775808": math.MinInt64,
	}
	for in, want := range intCases {
		n, err := mustParse(t, in).AsNumber()
		if err != nil {
			t.Fatalf("AsNumber(%q): %v", in, err)
		}
		if !n.IsInteger() {
			t.Fatalf("parse %q: expected integer case", in)
		}
		if n.GetInteger() != want {
			t.Errorf("parse %q = %d, want %d", in, n.GetInteger(), want)
		}
	}

	floatCases := map[string]float64{
		"2.0":     2.0,
		"-0.5":    -0.5,
		"3e2":     300,
		"3E2":     300,
		"1.5e-3":  0.0015,
		"2e+1":    20,
		"-1.25E2": -125,
	}
	for in, want := range floatCases {
		n, err := mustParse(t, in).AsNumber()
		if err != nil {
			t.Fatalf("AsNumber(%q): %v", in, err)
		}
		if !n.IsFloat() {
			t.Fatalf("parse %q: expected float case", in)
		}
		if n.GetFloat() != want {
			t.Errorf("parse %q = %g, want %g", in, n.GetFloat(), want)
		}
	}
}

func TestParseNumberInvalid(t *testing.T) {
	for _, in := range []string{"-", "2.", "2.e1", "1e", "1e+", "-.5"} {
		je := mustParseErr(t, in)
		if je.Kind != jsonerr.InvalidNumber {
			t.Fatalf("parse %q: expected INVALID_NUMBER, got %s", in, je.Kind)
		}
	}
}

func TestParseNumberOverflow(t *testing.T) {
	// One past MaxInt64; stays in the integer case and fails conversion.
	je := mustParseErr(t, "9223372036854775808")
	if je.Kind != jsonerr.InvalidNumber {
		t.Fatalf("expected INVALID_NUMBER, got %s", je.Kind)
	}
	if je.Unwrap() == nil {
		t.Error("conversion failure should carry its cause")
	}
}

func TestParseStringEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"plain"`, "plain"},
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\/b"`, "a/b"},
		{`"\b\f\n\r\t"`, "\b\f\n\r\t"},
		// Unknown escapes pass the byte through.
		{`"a\qb"`, "aqb"},
		{`"A"`, "A"},
		{`"é"`, "é"},
		{`"€"`, "€"},
		{`"😁"`, "\U0001F601"},
	}
	for _, tc := range cases {
		s, err := mustParse(t, tc.in).AsString()
		if err != nil {
			t.Fatalf("AsString(%q): %v", tc.in, err)
		}
		if string(*s) != tc.want {
			t.Errorf("parse %q = %q, want %q", tc.in, string(*s), tc.want)
		}
	}
}

func TestParseSurrogatePairDecodesToUTF8(t *testing.T) {
	s, err := mustParse(t, `"😁"`).AsString()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xF0, 0x9F, 0x98, 0x81}
	if string(*s) != string(want) {
		t.Fatalf("surrogate pair decoded to % X, want % X", string(*s), want)
	}
}

func TestParseSurrogateErrors(t *testing.T) {
	cases := []struct {
		in   string
		kind jsonerr.Kind
	}{
		{`"\uDC00"`, jsonerr.InvalidSurrogate},       // lone low surrogate
		{`"\uD800"`, jsonerr.InvalidSurrogate},       // high surrogate at end of string
		{`"\uD800x"`, jsonerr.InvalidSurrogate},      // high surrogate not followed by \u
		{`"\uD800\n"`, jsonerr.InvalidSurrogate},     // escape but not \u
		{`"\uD800\uD800"`, jsonerr.InvalidSurrogate}, // high followed by high
		{`"\u12"`, jsonerr.InvalidInput},             // truncated hex
		{`"\u12g4"`, jsonerr.InvalidInput},           // bad hex digit
	}
	for _, tc := range cases {
		je := mustParseErr(t, tc.in)
		if je.Kind != tc.kind {
			t.Fatalf("parse %q: expected %s, got %s (%v)", tc.in, tc.kind, je.Kind, je)
		}
	}
}

func TestParseStringErrors(t *testing.T) {
	je := mustParseErr(t, `"unterminated`)
	if je.Kind != jsonerr.UnterminatedString {
		t.Fatalf("expected UNTERMINATED_STRING, got %s", je.Kind)
	}

	je = mustParseErr(t, "\"raw\ncontrol\"")
	if je.Kind != jsonerr.IllegalControlCharacter {
		t.Fatalf("expected ILLEGAL_CONTROL_CHARACTER, got %s", je.Kind)
	}
	if !strings.Contains(je.Message, "control character") {
		t.Fatalf("unexpected message: %s", je.Message)
	}
}

func TestParseObject(t *testing.T) {
	v := mustParse(t, `{"name": "box", "count": 3, "open": false}`)
	obj, err := v.AsObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", obj.Len())
	}

	name, err := v.Get("name")
	if err != nil {
		t.Fatal(err)
	}
	s, err := name.AsString()
	if err != nil {
		t.Fatal(err)
	}
	if string(*s) != "box" {
		t.Errorf("name = %q, want box", string(*s))
	}
}

func TestParseNestedComposites(t *testing.T) {
	v := mustParse(t, `{"xs": [1, [2, {"deep": null}], 3], "o": {"p": {"q": true}}}`)
	out, err := v.ToString()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"o": {"p": {"q": true}}, "xs": [1, [2, {"deep": null}], 3]}`
	if out != want {
		t.Errorf("round trip = %s, want %s", out, want)
	}
}

func TestParseDuplicateKey(t *testing.T) {
	je := mustParseErr(t, `{"a": 1, "a": 2}`)
	if je.Kind != jsonerr.DuplicateKey {
		t.Fatalf("expected DUPLICATE_KEY, got %s", je.Kind)
	}
	if je.Message != "Duplicate name" {
		t.Fatalf("unexpected message: %s", je.Message)
	}
}

func TestParseObjectGrammarErrors(t *testing.T) {
	cases := []struct {
		in   string
		kind jsonerr.Kind
	}{
		{`{"a": 1 "b": 2}`, jsonerr.ExpectedComma},
		{`{"a": 1,}`, jsonerr.PrematureClose},
		{`{1: 2}`, jsonerr.ExpectedString},
		{`{"a" 1}`, jsonerr.ExpectedColon},
		{`{"a": }`, jsonerr.UnknownValueType},
		{`{"a": 1`, jsonerr.IncompleteInput},
		{`{`, jsonerr.IncompleteInput},
	}
	for _, tc := range cases {
		je := mustParseErr(t, tc.in)
		if je.Kind != tc.kind {
			t.Fatalf("parse %q: expected %s, got %s (%v)", tc.in, tc.kind, je.Kind, je)
		}
	}
}

func TestParseArrayGrammarErrors(t *testing.T) {
	cases := []struct {
		in   string
		kind jsonerr.Kind
	}{
		{`[1 2]`, jsonerr.ExpectedComma},
		{`[1,]`, jsonerr.PrematureClose},
		{`[1, 2`, jsonerr.IncompleteInput},
		{`[`, jsonerr.IncompleteInput},
		{`[,]`, jsonerr.UnknownValueType},
	}
	for _, tc := range cases {
		je := mustParseErr(t, tc.in)
		if je.Kind != tc.kind {
			t.Fatalf("parse %q: expected %s, got %s (%v)", tc.in, tc.kind, je.Kind, je)
		}
	}
}

func TestParseTopLevelContract(t *testing.T) {
	je := mustParseErr(t, "")
	if je.Kind != jsonerr.EmptyInput {
		t.Fatalf("expected EMPTY_INPUT, got %s", je.Kind)
	}

	je = mustParseErr(t, " \t\r\n ")
	if je.Kind != jsonerr.WhitespaceOnlyInput {
		t.Fatalf("expected WHITESPACE_ONLY_INPUT, got %s", je.Kind)
	}

	for _, in := range []string{`1 2`, `{} x`, `null,`, `"a" "b"`} {
		je = mustParseErr(t, in)
		if je.Kind != jsonerr.UnexpectedTrailingCharacter {
			t.Fatalf("parse %q: expected UNEXPECTED_TRAILING_CHARACTER, got %s", in, je.Kind)
		}
	}
}

func TestParseErrorTextFormat(t *testing.T) {
	je := mustParseErr(t, "[1, x]")
	want := "JSON parsing error at line 0, column 4: Unknown value type"
	if je.Error() != want {
		t.Fatalf("error text %q, want %q", je.Error(), want)
	}
}

func TestParseErrorPositionTracksLines(t *testing.T) {
	je := mustParseErr(t, "{\n  \"a\": 1,\n  \"a\": 2\n}")
	if je.Kind != jsonerr.DuplicateKey {
		t.Fatalf("expected DUPLICATE_KEY, got %s", je.Kind)
	}
	if je.Line != 2 {
		t.Errorf("line = %d, want 2", je.Line)
	}
	if je.Column != 5 {
		t.Errorf("column = %d, want 5", je.Column)
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 100_000
	in := strings.Repeat("[", depth) + "1" + strings.Repeat("]", depth)

	v, err := jsonparse.ParseString(in)
	if err != nil {
		t.Fatalf("deep nesting: %v", err)
	}
	for i := 0; i < depth; i++ {
		v, err = v.Index(0)
		if err != nil {
			t.Fatalf("descend level %d: %v", i, err)
		}
	}
	n, err := v.AsNumber()
	if err != nil {
		t.Fatal(err)
	}
	if n.GetInteger() != 1 {
		t.Fatalf("innermost = %d, want 1", n.GetInteger())
	}
}

func TestParseMaxDepth(t *testing.T) {
	in := strings.Repeat("[", 50) + "1" + strings.Repeat("]", 50)

	_, err := jsonparse.ParseWithOptions([]byte(in), &jsonparse.Options{MaxDepth: 64})
	if err != nil {
		t.Fatalf("within bound: %v", err)
	}

	_, err = jsonparse.ParseWithOptions([]byte(in), &jsonparse.Options{MaxDepth: 10})
	var je *jsonerr.Error
	if !errors.As(err, &je) || je.Kind != jsonerr.BoundExceeded {
		t.Fatalf("expected BOUND_EXCEEDED, got %v", err)
	}
}

func TestParseMaxInputSize(t *testing.T) {
	_, err := jsonparse.ParseWithOptions([]byte(`[1, 2, 3]`), &jsonparse.Options{MaxInputSize: 4})
	var je *jsonerr.Error
	if !errors.As(err, &je) || je.Kind != jsonerr.BoundExceeded {
		t.Fatalf("expected BOUND_EXCEEDED, got %v", err)
	}
}

func TestRoundTripCompact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`[1,2,3]`, `[1, 2, 3]`},
		{`{"b":2,"a":1}`, `{"a": 1, "b": 2}`},
		{`{"z":[true,null,false]}`, `{"z": [true, null, false]}`},
		{`{}`, `{}`},
		{`[]`, `[]`},
		{`[{},[]]`, `[{}, []]`},
		{`-0.001`, `-0.001`},
		{`"a"`, `"a"`},
	}
	for _, tc := range cases {
		got := mustRoundTrip(t, tc.in)
		if got != tc.want {
			t.Errorf("round trip %q = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDefersUTF8ValidationToSerialization(t *testing.T) {
	v, err := jsonparse.Parse([]byte{'"', 0xff, '"'})
	if err != nil {
		t.Fatalf("parse should accept raw string bytes unvalidated: %v", err)
	}

	_, err = v.ToString()
	var je *jsonerr.Error
	if !errors.As(err, &je) || je.Kind != jsonerr.InvalidUTF8 {
		t.Fatalf("expected INVALID_UTF8 at serialization, got %v", err)
	}
}

func TestRoundTripSurrogateEscapes(t *testing.T) {
	// Decoded to UTF-8 on parse, re-escaped to the same pair on serialize.
	got := mustRoundTrip(t, `"😁"`)
	want := "\"\\uD83D\\uDE01\""
	if got != want {
		t.Fatalf("round trip = %q, want %q", got, want)
	}
}
