package natives

import (
	"testing"

	"github.com/carbon-lang/carbon/internal/value"
)

func TestLookupUnknownReturnsNil(t *testing.T) {
	if Lookup("NoSuchNativeClass") != nil {
		t.Fatal("expected nil for an unregistered class")
	}
}

func TestOSPathJoinBaseDir(t *testing.T) {
	obj, err := Construct("OSPath", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined, err := obj.CallMethod("join", []value.Var{value.String("a"), value.String("b.txt")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined.AsString() != "a/b.txt" {
		t.Errorf("got %q, want a/b.txt", joined.AsString())
	}

	base, err := obj.CallMethod("base", []value.Var{value.String("a/b.txt")})
	if err != nil || base.AsString() != "b.txt" {
		t.Errorf("base() = %q, %v", base.AsString(), err)
	}

	dir, err := obj.CallMethod("dir", []value.Var{value.String("a/b.txt")})
	if err != nil || dir.AsString() != "a" {
		t.Errorf("dir() = %q, %v", dir.AsString(), err)
	}
}

func TestConstructUnknownClass(t *testing.T) {
	_, err := Construct("NoSuchNativeClass", nil)
	if err == nil {
		t.Fatal("expected an error constructing an unregistered class")
	}
}

func TestRegisterBindAndInheritedLookup(t *testing.T) {
	Register("test_Base", func(args []value.Var) (value.Object, error) {
		return nil, nil
	})
	Bind("test_Base", "greet", BindData{
		Kind: BindMethod,
		Method: func(self value.Var, args []value.Var) (value.Var, error) {
			return value.String("hello"), nil
		},
	})
	RegisterWithParent("test_Derived", "test_Base", func(args []value.Var) (value.Object, error) {
		return nil, nil
	})

	derived := Lookup("test_Derived")
	if derived == nil {
		t.Fatal("expected test_Derived to be registered")
	}
	if _, ok := derived.GetBindData("greet"); ok {
		t.Fatal("expected no inherited bind data before Freeze resolves Parent")
	}

	Freeze()

	if derived.Parent == nil {
		t.Fatal("expected Freeze to resolve test_Derived.Parent")
	}
	bd, ok := derived.GetBindData("greet")
	if !ok {
		t.Fatal("expected test_Derived to inherit 'greet' via the resolved parent chain")
	}
	v, err := bd.Method(value.Null(), nil)
	if err != nil || v.AsString() != "hello" {
		t.Errorf("got %q, %v, want hello, nil", v.AsString(), err)
	}
}

func TestRegisterAfterFreezePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Register after Freeze to panic")
		}
	}()
	Register("test_TooLate", func(args []value.Var) (value.Object, error) {
		return nil, nil
	})
}
