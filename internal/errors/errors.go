// Package errors defines the Carbon compiler and VM error taxonomy and
// formats diagnostics with source context, line/column information, and a
// caret pointing at the offending column.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a Carbon error by kind, not by Go type, matching the
// single error-enum design used throughout the compiler and VM.
type Kind int

const (
	Ok Kind = iota
	Bug
	NullPointer
	OperatorNotSupported
	NotImplemented
	ZeroDivision
	TypeError
	AttributeError
	InvalidArgCount
	InvalidIndex
	IoError
	SyntaxError
	Assertion
	UnexpectedEof
	NameError
	AlreadyDefined
	VariableShadowing // warning
	MissedEnumInSwitch // warning
	NonTerminatingLoop // warning
	UnreachableCode // warning
	StandAloneExpression // warning
	Rethrow
	StackOverflow
)

var kindNames = [...]string{
	Ok:                    "OK",
	Bug:                   "BUG",
	NullPointer:           "NULL_POINTER",
	OperatorNotSupported:  "OPERATOR_NOT_SUPPORTED",
	NotImplemented:        "NOT_IMPLEMENTED",
	ZeroDivision:          "ZERO_DIVISION",
	TypeError:             "TYPE_ERROR",
	AttributeError:        "ATTRIBUTE_ERROR",
	InvalidArgCount:       "INVALID_ARG_COUNT",
	InvalidIndex:          "INVALID_INDEX",
	IoError:               "IO_ERROR",
	SyntaxError:           "SYNTAX_ERROR",
	Assertion:             "ASSERTION",
	UnexpectedEof:         "UNEXPECTED_EOF",
	NameError:             "NAME_ERROR",
	AlreadyDefined:        "ALREADY_DEFINED",
	VariableShadowing:     "VARIABLE_SHADOWING",
	MissedEnumInSwitch:    "MISSED_ENUM_IN_SWITCH",
	NonTerminatingLoop:    "NON_TERMINATING_LOOP",
	UnreachableCode:       "UNREACHABLE_CODE",
	StandAloneExpression:  "STAND_ALONE_EXPRESSION",
	Rethrow:               "RETHROW",
	StackOverflow:         "STACK_OVERFLOW",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsWarning reports whether a Kind is accumulated as a warning instead of
// aborting compilation.
func (k Kind) IsWarning() bool {
	switch k {
	case VariableShadowing, MissedEnumInSwitch, NonTerminatingLoop, UnreachableCode, StandAloneExpression:
		return true
	default:
		return false
	}
}

// Position is a 1-based (line, column) source location plus a byte offset,
// used uniformly by the lexer, parser, analyzer and VM.
type Position struct {
	Line   int
	Column int
	Offset int
}

// SourceError is a single diagnostic: a Kind, a message, the emitting
// source position, and enough of the original source to render a caret.
type SourceError struct {
	Kind    Kind
	Message string
	File    string
	Source  string
	Pos     Position
	Width   int // width of the offending token, for the caret underline

	// CompilerFile/CompilerLine name the emitting compiler source location,
	// set only for analyzer errors (spec: "a surrounding compile-time
	// wrapper adds the emitting compiler file/line for debugging").
	CompilerFile string
	CompilerLine int
}

// New builds a SourceError with a token width of 1.
func New(kind Kind, pos Position, format string, args ...any) *SourceError {
	return &SourceError{Kind: kind, Pos: pos, Width: 1, Message: fmt.Sprintf(format, args...)}
}

// WithSource attaches the originating file name and full source text, used
// to render the offending line and its neighbors.
func (e *SourceError) WithSource(file, source string) *SourceError {
	e.File = file
	e.Source = source
	return e
}

func (e *SourceError) Error() string {
	return e.Format(false)
}

// Format renders "ERROR(<kind>): <message>" followed by the source line and
// a caret, matching spec §6's diagnostic line format.
func (e *SourceError) Format(color bool) string {
	var sb strings.Builder

	label := "ERROR"
	if e.Kind.IsWarning() {
		label = "WARNING"
	}
	sb.WriteString(fmt.Sprintf("%s(%s): %s\n", label, e.Kind, e.Message))

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("  --> %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column))
	}

	line := e.sourceLine(e.Pos.Line)
	if line != "" {
		prefix := fmt.Sprintf("%5d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")

		width := e.Width
		if width < 1 {
			width = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString(strings.Repeat("^", width))
		if color {
			sb.WriteString("\033[0m")
		}
	}

	if e.CompilerFile != "" {
		sb.WriteString(fmt.Sprintf("\n  (raised at %s:%d)", e.CompilerFile, e.CompilerLine))
	}

	return sb.String()
}

// FormatWithContext renders contextLines of source before and after the
// error line in addition to the caret line.
func (e *SourceError) FormatWithContext(contextLines int, color bool) string {
	if e.Source == "" {
		return e.Format(color)
	}
	lines := strings.Split(e.Source, "\n")
	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	label := "ERROR"
	if e.Kind.IsWarning() {
		label = "WARNING"
	}
	sb.WriteString(fmt.Sprintf("%s(%s): %s\n", label, e.Kind, e.Message))
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("  --> %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column))
	}
	for ln := start; ln <= end; ln++ {
		prefix := fmt.Sprintf("%5d | ", ln)
		sb.WriteString(prefix)
		sb.WriteString(lines[ln-1])
		sb.WriteString("\n")
		if ln == e.Pos.Line {
			width := e.Width
			if width < 1 {
				width = 1
			}
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
			sb.WriteString(strings.Repeat("^", width))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (e *SourceError) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// FormatAll renders a batch of errors/warnings separated by blank lines.
func FormatAll(errs []*SourceError, color bool) string {
	var sb strings.Builder
	for i, e := range errs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(e.Format(color))
	}
	return sb.String()
}
