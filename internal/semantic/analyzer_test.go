package semantic

import (
	"testing"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/parser"
	"github.com/carbon-lang/carbon/internal/value"
)

func analyze(t *testing.T, src string) *Analyzer {
	t.Helper()
	file, perrs := parser.ParseFile(src, "<test>")
	if len(perrs) > 0 {
		t.Fatalf("parse errors: %v", perrs)
	}
	a := New(file, nil)
	a.Run()
	return a
}

func TestConstantFolding(t *testing.T) {
	a := analyze(t, `const x = 1 + 2 * 3;`)
	if len(a.errors) != 0 {
		t.Fatalf("unexpected errors: %v", a.errors)
	}
	c := a.File.Consts[0]
	if c.Resolved == nil {
		t.Fatal("constant was not folded")
	}
	if c.Resolved.Value.Kind() != value.KindInt || c.Resolved.Value.AsInt() != 7 {
		t.Errorf("got %s, want int 7", c.Resolved.Value.String())
	}
}

func TestConstantSelfReferenceRejected(t *testing.T) {
	a := analyze(t, `const x = x + 1;`)
	if len(a.errors) == 0 {
		t.Fatal("expected an error for self-referential constant")
	}
	if a.errors[0].Kind != cerrors.Bug {
		t.Errorf("got kind %s, want Bug", a.errors[0].Kind)
	}
}

func TestEnumAutoIncrement(t *testing.T) {
	a := analyze(t, `enum Color { Red, Green, Blue = 10, Yellow }`)
	if len(a.errors) != 0 {
		t.Fatalf("unexpected errors: %v", a.errors)
	}
	e := a.File.Enums[0]
	want := map[string]int64{"Red": 0, "Green": 1, "Blue": 10, "Yellow": 11}
	for _, ev := range e.Values {
		if ev.Resolved != want[ev.Name] {
			t.Errorf("%s = %d, want %d", ev.Name, ev.Resolved, want[ev.Name])
		}
	}
}

func TestInheritanceCycleRejected(t *testing.T) {
	a := analyze(t, `
class A : B { }
class B : A { }
`)
	if len(a.errors) == 0 {
		t.Fatal("expected an inheritance-cycle error")
	}
	found := false
	for _, e := range a.errors {
		if e.Kind == cerrors.TypeError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a TypeError-kind error, got %v", a.errors)
	}
}

func TestUnknownBaseClassRejected(t *testing.T) {
	a := analyze(t, `class A : NoSuchClass { }`)
	if len(a.errors) == 0 {
		t.Fatal("expected an unknown-base-class error")
	}
	if a.errors[0].Kind != cerrors.NameError {
		t.Errorf("got kind %s, want NameError", a.errors[0].Kind)
	}
}

func TestMemberShadowingWarns(t *testing.T) {
	a := analyze(t, `
class A { var x; }
class B : A { var x; }
`)
	found := false
	for _, e := range a.errors {
		if e.Kind == cerrors.VariableShadowing {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a VariableShadowing warning, got %v", a.errors)
	}
}

func TestDefaultArgFolding(t *testing.T) {
	a := analyze(t, `func f(a, b = 1 + 2) { return a + b; }`)
	if len(a.errors) != 0 {
		t.Fatalf("unexpected errors: %v", a.errors)
	}
	fn := a.File.Functions[0]
	def := fn.Params[1].ResolvedDefault
	if def == nil {
		t.Fatal("default value was not folded")
	}
	if def.Value.Kind() != value.KindInt || def.Value.AsInt() != 3 {
		t.Errorf("got %s, want int 3", def.Value.String())
	}
}

func TestUndefinedNameRejected(t *testing.T) {
	a := analyze(t, `func main() { print(doesNotExist); }`)
	if len(a.errors) == 0 {
		t.Fatal("expected an undefined-name error")
	}
	if a.errors[0].Kind != cerrors.NameError {
		t.Errorf("got kind %s, want NameError", a.errors[0].Kind)
	}
}

func TestArityMismatchRejected(t *testing.T) {
	a := analyze(t, `
func f(a, b) { return a + b; }
func main() { f(1); }
`)
	if len(a.errors) == 0 {
		t.Fatal("expected an arity error")
	}
	if a.errors[0].Kind != cerrors.InvalidArgCount {
		t.Errorf("got kind %s, want InvalidArgCount", a.errors[0].Kind)
	}
}

func TestArityWithDefaultsAccepted(t *testing.T) {
	a := analyze(t, `
func f(a, b = 1) { return a + b; }
func main() { f(1); f(1, 2); }
`)
	if len(a.errors) != 0 {
		t.Errorf("unexpected errors: %v", a.errors)
	}
}

func TestThisOutsideMethodRejected(t *testing.T) {
	a := analyze(t, `func main() { print(this); }`)
	if len(a.errors) == 0 {
		t.Fatal("expected an error using 'this' outside a method")
	}
	if a.errors[0].Kind != cerrors.NameError {
		t.Errorf("got kind %s, want NameError", a.errors[0].Kind)
	}
}

func TestSuperWithoutBaseRejected(t *testing.T) {
	a := analyze(t, `
class A {
  func m() { print(super); }
}
`)
	if len(a.errors) == 0 {
		t.Fatal("expected an error using 'super' without a base class")
	}
	if a.errors[0].Kind != cerrors.NameError {
		t.Errorf("got kind %s, want NameError", a.errors[0].Kind)
	}
}
