package carbon_test

import (
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/carbon-lang/carbon/pkg/carbon"
)

func TestEvalArithmetic(t *testing.T) {
	engine, err := carbon.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := engine.Eval(`func main() { var x = 1 + 2 * 3; print(x); }`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "7\n" {
		t.Errorf("Output = %q, want %q", result.Output, "7\n")
	}
}

func TestEvalDefaultArg(t *testing.T) {
	engine, _ := carbon.New()
	result, err := engine.Eval(`
		func f(a, b = 10) { return a + b; }
		func main() { print(f(5)); }
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "15\n" {
		t.Errorf("Output = %q, want %q", result.Output, "15\n")
	}
}

func TestEvalInheritanceOverride(t *testing.T) {
	engine, _ := carbon.New()
	result, err := engine.Eval(`
		class A { func m() { return 1; } }
		class B : A { func m() { return 2; } }
		func main() { print(B().m()); }
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "2\n" {
		t.Errorf("Output = %q, want %q", result.Output, "2\n")
	}
}

func TestEvalEnum(t *testing.T) {
	engine, _ := carbon.New()
	result, err := engine.Eval(`
		enum { E1, E2, E3 = 10, E4 }
		func main() { print(E1, E2, E3, E4); }
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "0 1 10 11\n" {
		t.Errorf("Output = %q, want %q", result.Output, "0 1 10 11\n")
	}
}

func TestEvalForeach(t *testing.T) {
	engine, _ := carbon.New()
	result, err := engine.Eval(`
		func main() {
			var a = [1, 2, 3];
			for (v : a) { print(v); }
		}
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "1\n2\n3\n" {
		t.Errorf("Output = %q, want %q", result.Output, "1\n2\n3\n")
	}
}

func TestEvalRecursion(t *testing.T) {
	engine, _ := carbon.New()
	result, err := engine.Eval(`
		func gcd(a, b) { if (b == 0) { return a; } return gcd(b, a % b); }
		func main() { print(gcd(48, 18)); }
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "6\n" {
		t.Errorf("Output = %q, want %q", result.Output, "6\n")
	}
}

func TestCompileReuse(t *testing.T) {
	engine, _ := carbon.New()
	program, err := engine.Compile(`
		var greeting = "hi";
		func main() { print(greeting); }
	`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for i := 0; i < 2; i++ {
		result, err := engine.Run(program)
		if err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		if result.Output != "hi\n" {
			t.Errorf("run %d: Output = %q", i, result.Output)
		}
	}
}

func TestWithOutputStreamsLive(t *testing.T) {
	var buf strings.Builder
	engine, err := carbon.New(carbon.WithOutput(&buf))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Eval(`func main() { print("captured"); }`); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if buf.String() != "captured\n" {
		t.Errorf("buf = %q", buf.String())
	}
}

func TestInheritanceCycleRejected(t *testing.T) {
	engine, _ := carbon.New()
	_, err := engine.Eval(`
		class A : B { func m() { return 1; } }
		class B : A { func m() { return 2; } }
		func main() {}
	`)
	if err == nil {
		t.Fatal("expected inheritance-cycle error, got nil")
	}
}

func TestSymbolsAndAST(t *testing.T) {
	engine, _ := carbon.New()
	program, err := engine.Compile(`
		var x = 42;
		const Pi = 3;
		func f() { return 1; }
	`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if program.AST() == nil {
		t.Fatal("AST() returned nil")
	}
	names := map[string]bool{}
	for _, s := range program.Symbols() {
		names[s.Name] = true
	}
	for _, want := range []string{"x", "Pi", "f"} {
		if !names[want] {
			t.Errorf("missing symbol %q", want)
		}
	}
}

func ExampleEngine_Eval() {
	engine, err := carbon.New()
	if err != nil {
		log.Fatal(err)
	}

	result, err := engine.Eval(`func main() { print("Hello, World!"); }`)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(result.Output)
	// Output: Hello, World!
}
