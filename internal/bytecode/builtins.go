package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var stdin = bufio.NewReader(os.Stdin)

func argErr(name string, got int, want string) error {
	return &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: fmt.Sprintf("%s expects %s, got %d", name, want, got)}
}

func typeErr(name string, pos int) error {
	return &cerrors.SourceError{Kind: cerrors.TypeError, Message: fmt.Sprintf("%s: wrong argument type at position %d", name, pos)}
}

// callBuiltin dispatches the VM's ordinary (non-compile-time) builtin
// functions: spec §6's print/input/min/max/pow plus the math and locale
// helpers restored from original_source/core/builtin_functions.cpp. out is
// the VM's configured output writer, defaulting to os.Stdout.
func callBuiltin(out io.Writer, name string, args []value.Var) (value.Var, error) {
	switch name {
	case "print":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return value.Null(), nil

	case "input":
		line, err := stdin.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil && line == "" {
			return value.String(""), nil
		}
		return value.String(line), nil

	case "min":
		if len(args) != 2 {
			return value.Null(), argErr("min", len(args), "2 arguments")
		}
		return minMax(args[0], args[1], true)

	case "max":
		if len(args) != 2 {
			return value.Null(), argErr("max", len(args), "2 arguments")
		}
		return minMax(args[0], args[1], false)

	case "pow":
		if len(args) != 2 {
			return value.Null(), argErr("pow", len(args), "2 arguments")
		}
		return value.Float(math.Pow(args[0].AsFloat(), args[1].AsFloat())), nil

	case "ceil":
		return mathUnary("ceil", args, math.Ceil)
	case "floor":
		return mathUnary("floor", args, math.Floor)
	case "round":
		return mathUnary("round", args, math.Round)
	case "abs":
		if len(args) != 1 {
			return value.Null(), argErr("abs", len(args), "1 argument")
		}
		if args[0].Kind() == value.KindInt {
			n := args[0].AsInt()
			if n < 0 {
				n = -n
			}
			return value.Int(n), nil
		}
		return value.Float(math.Abs(args[0].AsFloat())), nil

	case "normalize":
		if len(args) != 1 || args[0].Kind() != value.KindString {
			return value.Null(), typeErr("normalize", 1)
		}
		return value.String(norm.NFC.String(args[0].AsString())), nil

	case "strcmp_locale":
		return strcmpLocale(args)

	case "__assert":
		return vmAssert(args)
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.NameError, Message: "unknown builtin function " + name}
}

func minMax(a, b value.Var, wantMin bool) (value.Var, error) {
	if a.Kind() == value.KindInt && b.Kind() == value.KindInt {
		ai, bi := a.AsInt(), b.AsInt()
		if (ai < bi) == wantMin {
			return a, nil
		}
		return b, nil
	}
	if !a.IsNumber() || !b.IsNumber() {
		return value.Null(), typeErr("min/max", 1)
	}
	af, bf := a.AsFloat(), b.AsFloat()
	if (af < bf) == wantMin {
		return a, nil
	}
	return b, nil
}

func mathUnary(name string, args []value.Var, fn func(float64) float64) (value.Var, error) {
	if len(args) != 1 || !args[0].IsNumber() {
		return value.Null(), typeErr(name, 1)
	}
	return value.Float(fn(args[0].AsFloat())), nil
}

func strcmpLocale(args []value.Var) (value.Var, error) {
	if len(args) < 2 || len(args) > 3 {
		return value.Null(), argErr("strcmp_locale", len(args), "2 or 3 arguments")
	}
	if args[0].Kind() != value.KindString || args[1].Kind() != value.KindString {
		return value.Null(), typeErr("strcmp_locale", 1)
	}
	locale := "en"
	if len(args) == 3 {
		if args[2].Kind() != value.KindString {
			return value.Null(), typeErr("strcmp_locale", 3)
		}
		locale = args[2].AsString()
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	col := collate.New(tag)
	return value.Int(int64(col.CompareString(args[0].AsString(), args[1].AsString()))), nil
}

// vmAssert implements the __assert pseudo-call's runtime half: the
// condition still has to be checked at run time even though the call site
// itself is resolved at compile time. The trailing arg is the source line,
// appended by codegen.
func vmAssert(args []value.Var) (value.Var, error) {
	if len(args) < 1 {
		return value.Null(), argErr("__assert", len(args), "at least 1 argument")
	}
	cond := args[0]
	if cond.Truthy() {
		return value.Null(), nil
	}
	msg := "assertion failed"
	if len(args) >= 2 && args[1].Kind() == value.KindString {
		msg = args[1].AsString()
	}
	line := int64(0)
	if len(args) > 0 {
		if last := args[len(args)-1]; last.Kind() == value.KindInt {
			line = last.AsInt()
		}
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.Assertion, Message: fmt.Sprintf("%s (line %d)", msg, line)}
}

// constructBuiltin converts a single argument to one of the primitive
// builtin types (bool/int/float/string/array/map), per spec §4.2's
// `int(x)`-style conversion-call syntax.
func constructBuiltin(name string, args []value.Var) (value.Var, error) {
	switch name {
	case "bool":
		if len(args) == 0 {
			return value.Bool(false), nil
		}
		return value.Bool(args[0].Truthy()), nil
	case "int":
		if len(args) == 0 {
			return value.Int(0), nil
		}
		return toInt(args[0])
	case "float":
		if len(args) == 0 {
			return value.Float(0), nil
		}
		return toFloat(args[0])
	case "string":
		if len(args) == 0 {
			return value.String(""), nil
		}
		return value.String(args[0].String()), nil
	case "array":
		return value.FromArray(value.NewArray(append([]value.Var{}, args...))), nil
	case "map":
		m := value.NewMap()
		for i := 0; i+1 < len(args); i += 2 {
			if err := m.Set(args[i], args[i+1]); err != nil {
				return value.Null(), err
			}
		}
		return value.FromMap(m), nil
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.NameError, Message: "unknown builtin type " + name}
}

func toInt(v value.Var) (value.Var, error) {
	switch v.Kind() {
	case value.KindInt:
		return v, nil
	case value.KindFloat:
		return value.Int(int64(v.AsFloat())), nil
	case value.KindBool:
		if v.AsBool() {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case value.KindString:
		var n int64
		if _, err := fmt.Sscanf(v.AsString(), "%d", &n); err != nil {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.TypeError, Message: "cannot convert " + v.AsString() + " to int"}
		}
		return value.Int(n), nil
	}
	return value.Null(), typeErr("int", 1)
}

func toFloat(v value.Var) (value.Var, error) {
	switch v.Kind() {
	case value.KindFloat:
		return v, nil
	case value.KindInt:
		return value.Float(float64(v.AsInt())), nil
	case value.KindString:
		var f float64
		if _, err := fmt.Sscanf(v.AsString(), "%g", &f); err != nil {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.TypeError, Message: "cannot convert " + v.AsString() + " to float"}
		}
		return value.Float(f), nil
	}
	return value.Null(), typeErr("float", 1)
}
