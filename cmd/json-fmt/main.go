// Command json-fmt validates and reformats JSON read from a file or stdin.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonfmt"
	"github.com/lattice-substrate/json-codec/jsonparse"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}

	if fl.help {
		if err := writeHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if exitCode, ok := ensureSingleInput(positional, stderr); ok {
		return exitCode
	}

	input, err := readInput(positional, stdin, jsonparse.DefaultMaxInputSize)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: reading input: %v\n", err)
	}

	output, err := render(input, fl)
	if err != nil {
		return writeErrorAndReturn(stderr, errorExitCode(err), "error: %v\n", err)
	}

	if fl.color {
		output = colorize(output)
	}

	if _, err := io.WriteString(stdout, output+"\n"); err != nil {
		return writeErrorAndReturn(stderr, exitInternal, "error: writing output: %v\n", err)
	}

	return exitSuccess
}

// render produces the output text. Compact mode parses into a value tree and
// reserializes, which sorts object keys and normalizes escapes; otherwise the
// tree-less formatter reindents the text with keys in source order.
func render(input []byte, fl flags) (string, error) {
	if fl.compact {
		v, err := jsonparse.Parse(input)
		if err != nil {
			return "", err
		}
		return v.ToString()
	}

	f := jsonfmt.New(&jsonfmt.Options{
		IndentWidth: fl.indent,
		AllmanStyle: fl.allman,
	})
	return f.Print(input)
}

// errorExitCode maps a failure to the process exit code, using the error
// kind's classification when the error carries one.
func errorExitCode(err error) int {
	var je *jsonerr.Error
	if errors.As(err, &je) {
		return je.Kind.ExitCode()
	}
	return exitInvalid
}

type flags struct {
	indent  int
	allman  bool
	compact bool
	color   bool
	help    bool
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		switch arg {
		case "--indent", "-indent":
			if i+1 >= len(args) {
				return flags{}, nil, fmt.Errorf("option %s requires a value", arg)
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return flags{}, nil, fmt.Errorf("invalid indent width: %s", args[i])
			}
			f.indent = n
		case "--allman", "-allman":
			f.allman = true
		case "--compact", "-compact", "-c":
			f.compact = true
		case "--color", "-color":
			f.color = true
		case "--help", "-h":
			f.help = true
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, fmt.Errorf("unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func readInput(positional []string, stdin io.Reader, maxInputSize int) ([]byte, error) {
	if len(positional) == 0 || positional[0] == "-" {
		return readBounded(stdin, maxInputSize)
	}

	f, err := os.Open(positional[0])
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", positional[0], err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := readBounded(f, maxInputSize)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", positional[0], err)
	}
	return data, nil
}

func readBounded(r io.Reader, maxInputSize int) ([]byte, error) {
	lr := io.LimitReader(r, int64(maxInputSize)+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("input exceeds maximum size %d bytes", maxInputSize)
	}
	return data, nil
}

func ensureSingleInput(positional []string, stderr io.Writer) (int, bool) {
	if len(positional) <= 1 {
		return 0, false
	}
	if err := writeLine(stderr, "error: multiple input files specified"); err != nil {
		return exitInternal, true
	}
	return exitInvalid, true
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	if err := writef(stderr, format, args...); err != nil {
		return exitInternal
	}
	return code
}

func writeHelp(stderr io.Writer) error {
	lines := []string{
		"usage: json-fmt [options] [file|-]",
		"  Read JSON from file (or stdin), emit formatted text to stdout.",
		"  --indent N  Spaces per nesting level (default 2)",
		"  --allman    Nested delimiters start on their own line",
		"  --compact   Emit single-line output with sorted object keys",
		"  --color     Colorize the output",
	}
	for _, line := range lines {
		if err := writeLine(stderr, line); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
