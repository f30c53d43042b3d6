package jsonerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lattice-substrate/json-codec/jsonerr"
)

func TestPositionedErrorText(t *testing.T) {
	err := jsonerr.At(jsonerr.ExpectedComma, 3, 14, "Expected a comma")
	want := "JSON parsing error at line 3, column 14: Expected a comma"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestPositionlessErrorText(t *testing.T) {
	err := jsonerr.New(jsonerr.TypeMismatch, "JSON value does not contain a String type")
	if got := err.Error(); got != "JSON value does not contain a String type" {
		t.Fatalf("got %q", got)
	}
	if err.Line != -1 || err.Column != -1 {
		t.Fatalf("positionless error carries position %d:%d", err.Line, err.Column)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("value out of range")
	err := jsonerr.WrapAt(jsonerr.InvalidNumber, 0, 19, "Failed converting number", cause)

	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause not reachable through errors.Is")
	}

	var je *jsonerr.Error
	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.As(wrapped, &je) {
		t.Fatal("errors.As failed through wrapping")
	}
	if je.Kind != jsonerr.InvalidNumber {
		t.Fatalf("kind %s", je.Kind)
	}
}

func TestExitCodes(t *testing.T) {
	modelUsage := []jsonerr.Kind{
		jsonerr.TypeMismatch,
		jsonerr.IndexOutOfRange,
		jsonerr.KeyNotFound,
	}
	for _, k := range modelUsage {
		if got := k.ExitCode(); got != 10 {
			t.Errorf("%s exit code %d, want 10", k, got)
		}
	}

	invalid := []jsonerr.Kind{
		jsonerr.ExpectedComma,
		jsonerr.DuplicateKey,
		jsonerr.InvalidSurrogate,
		jsonerr.EmptyInput,
		jsonerr.InvalidNumber,
	}
	for _, k := range invalid {
		if got := k.ExitCode(); got != 2 {
			t.Errorf("%s exit code %d, want 2", k, got)
		}
	}
}
