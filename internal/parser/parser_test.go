package parser

import (
	"testing"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
)

func TestParseFileBasicDeclarations(t *testing.T) {
	file, errs := ParseFile(`
var x = 1;
const y = 2;
func add(a, b) { return a + b; }
class Point { var x; var y; }
enum Color { Red, Green, Blue }
`, "<test>")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(file.Vars) != 1 || len(file.Consts) != 1 || len(file.Functions) != 1 ||
		len(file.Classes) != 1 || len(file.Enums) != 1 {
		t.Errorf("unexpected shape: %d vars, %d consts, %d funcs, %d classes, %d enums",
			len(file.Vars), len(file.Consts), len(file.Functions), len(file.Classes), len(file.Enums))
	}
}

func TestLocalVarCollisionRejected(t *testing.T) {
	_, errs := ParseFile(`
func main() {
  var x = 1;
  var x = 2;
}
`, "<test>")
	if len(errs) == 0 {
		t.Fatal("expected a redeclaration error")
	}
	if errs[0].Kind != cerrors.AlreadyDefined {
		t.Errorf("got kind %s, want AlreadyDefined", errs[0].Kind)
	}
}

func TestLocalConstCollisionRejected(t *testing.T) {
	_, errs := ParseFile(`
func main() {
  const x = 1;
  const x = 2;
}
`, "<test>")
	if len(errs) == 0 {
		t.Fatal("expected a redeclaration error")
	}
	if errs[0].Kind != cerrors.AlreadyDefined {
		t.Errorf("got kind %s, want AlreadyDefined", errs[0].Kind)
	}
}

func TestDistinctLocalNamesAccepted(t *testing.T) {
	_, errs := ParseFile(`
func main() {
  var x = 1;
  var y = 2;
}
`, "<test>")
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestForUnifiesForeach(t *testing.T) {
	file, errs := ParseFile(`
func main() {
  var a = [1, 2, 3];
  for (v : a) { print(v); }
}
`, "<test>")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(file.Functions) != 1 {
		t.Fatalf("expected one function, got %d", len(file.Functions))
	}
}

func TestClassWithBaseParses(t *testing.T) {
	file, errs := ParseFile(`
class Animal { func speak() { return "..."; } }
class Dog : Animal { func speak() { return "woof"; } }
`, "<test>")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if file.Classes[1].BaseName != "Animal" {
		t.Errorf("got base name %q, want Animal", file.Classes[1].BaseName)
	}
}
