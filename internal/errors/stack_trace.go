package errors

import (
	"fmt"
	"strings"
)

// Frame is a single entry in a traceback: a function name and a source
// position.
type Frame struct {
	FunctionName string
	FileName     string
	Pos          Position
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d:%d)", f.FunctionName, f.FileName, f.Pos.Line, f.Pos.Column)
}

// Traceback is an ordered sequence of Frames, innermost (most recent) call
// first.
type Traceback []Frame

// RethrowError wraps an inner error with the Traceback of frames it has
// been passed through; each WrapFrame call appends one outer Frame.
type RethrowError struct {
	Inner  error
	Frames Traceback
}

func (r *RethrowError) Error() string {
	var sb strings.Builder
	sb.WriteString(r.Inner.Error())
	sb.WriteString("\ntraceback (most recent call last):\n")
	for i := len(r.Frames) - 1; i >= 0; i-- {
		sb.WriteString("  ")
		sb.WriteString(r.Frames[i].String())
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *RethrowError) Unwrap() error { return r.Inner }

// WrapFrame returns err wrapped with an additional outer Frame, appended
// after the frames already present. The bytecode VM does not call
// WrapFrame: the runtime errors it returns carry no traceback frames.
func WrapFrame(err error, frame Frame) error {
	if rt, ok := err.(*RethrowError); ok {
		rt.Frames = append(rt.Frames, frame)
		return rt
	}
	return &RethrowError{Inner: err, Frames: Traceback{frame}}
}
