package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/carbon-lang/carbon/internal/parser"
	"github.com/carbon-lang/carbon/internal/semantic"
	"github.com/carbon-lang/carbon/internal/value"
)

// compileAndRun parses, analyzes and generates src, then runs its "main"
// entry point, returning captured print output.
func compileAndRun(t *testing.T, src string) (string, value.Var, error) {
	t.Helper()
	file, perrs := parser.ParseFile(src, "<test>")
	if len(perrs) > 0 {
		t.Fatalf("parse errors: %v", perrs)
	}
	analyzer := semantic.New(file, nil)
	analyzer.Run()
	if errs := analyzer.Errors(); len(errs) > 0 {
		for _, e := range errs {
			if !e.Kind.IsWarning() {
				t.Fatalf("semantic errors: %v", errs)
			}
		}
	}
	mod, err := Generate(file)
	if err != nil {
		t.Fatalf("codegen error: %v", err)
	}
	var out bytes.Buffer
	vm := New(mod)
	vm.Output = &out
	result, err := vm.Run("main", nil)
	return out.String(), result, err
}

func TestVMArithmeticPromotion(t *testing.T) {
	out, _, err := compileAndRun(t, `func main() { print(1 + 2.5); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "3.5" {
		t.Errorf("got %q, want 3.5", out)
	}
}

func TestVMDivisionByZeroPropagates(t *testing.T) {
	_, _, err := compileAndRun(t, `func main() { print(1 / 0); }`)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestVMIterationContract(t *testing.T) {
	out, _, err := compileAndRun(t, `
func main() {
  var a = [1, 2, 3];
  for (v : a) { print(v); }
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1\n2\n3\n" {
		t.Errorf("got %q", out)
	}
}

func TestVMDefaultArgApplied(t *testing.T) {
	out, _, err := compileAndRun(t, `
func add(a, b = 10) { return a + b; }
func main() { print(add(5)); print(add(5, 1)); }
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "15\n6\n" {
		t.Errorf("got %q", out)
	}
}

func TestVMRecursion(t *testing.T) {
	out, _, err := compileAndRun(t, `
func fact(n) {
  if (n <= 1) { return 1; }
  return n * fact(n - 1);
}
func main() { print(fact(5)); }
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "120" {
		t.Errorf("got %q, want 120", out)
	}
}

func TestMemberIndexStability(t *testing.T) {
	file, perrs := parser.ParseFile(`
class Base { var a; var b; }
class Derived : Base { var c; }
`, "<test>")
	if len(perrs) > 0 {
		t.Fatalf("parse errors: %v", perrs)
	}
	analyzer := semantic.New(file, nil)
	analyzer.Run()
	if errs := analyzer.Errors(); len(errs) > 0 {
		t.Fatalf("semantic errors: %v", errs)
	}
	mod, err := Generate(file)
	if err != nil {
		t.Fatalf("codegen error: %v", err)
	}
	base := mod.Classes["Base"]
	derived := mod.Classes["Derived"]
	if base.MemberIndex["a"] != 0 || base.MemberIndex["b"] != 1 {
		t.Errorf("base member indices = %v, want a:0 b:1", base.MemberIndex)
	}
	// Derived member slots must start past the base's, so a Derived instance's
	// inherited slots keep the same index the base class compiled against.
	if derived.MemberIndex["c"] != 2 {
		t.Errorf("derived member index for c = %d, want 2", derived.MemberIndex["c"])
	}
	// Inherited members must also appear in the derived class's own
	// MemberIndex, at the same slots as the base, so a Derived instance
	// allocates storage for them and dot-access resolves them directly.
	if derived.MemberIndex["a"] != 0 || derived.MemberIndex["b"] != 1 {
		t.Errorf("derived inherited member indices = %v, want a:0 b:1", derived.MemberIndex)
	}
}

func TestInheritedMemberAccessibleByDotSyntax(t *testing.T) {
	out, _, err := compileAndRun(t, `
class A {
  var x;
  func setX() { x = 5; }
}
class B : A { }
func main() {
  var b = B();
  b.setX();
  print(b.x);
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "5" {
		t.Errorf("got %q, want 5", out)
	}
}

func TestVMIterationOverMap(t *testing.T) {
	out, _, err := compileAndRun(t, `
func main() {
  var m = {"a": 1, "b": 2};
  for (k : m) { print(k); }
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a\nb\n" {
		t.Errorf("got %q, want a\\nb\\n", out)
	}
}

func TestVMInheritedMethodOverride(t *testing.T) {
	out, _, err := compileAndRun(t, `
class Animal {
  func speak() { return "..."; }
}
class Dog : Animal {
  func speak() { return "woof"; }
}
func main() {
  var d = Dog();
  print(d.speak());
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "woof" {
		t.Errorf("got %q, want woof", out)
	}
}

func TestDisassembleProducesFunctionListing(t *testing.T) {
	file, perrs := parser.ParseFile(`func main() { var x = 1 + 2; print(x); }`, "<test>")
	if len(perrs) > 0 {
		t.Fatalf("parse errors: %v", perrs)
	}
	analyzer := semantic.New(file, nil)
	analyzer.Run()
	mod, err := Generate(file)
	if err != nil {
		t.Fatalf("codegen error: %v", err)
	}
	text := Disassemble(mod)
	if !strings.Contains(text, "func main(0 params") {
		t.Errorf("disassembly missing main function header:\n%s", text)
	}
	if !strings.Contains(text, "CALL_BUILTIN") {
		t.Errorf("disassembly missing CALL_BUILTIN for print:\n%s", text)
	}
}
