package value

import "testing"

func TestIntArithmetic(t *testing.T) {
	v, err := Binary(OpAdd, Int(2), Int(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindInt || v.AsInt() != 5 {
		t.Errorf("got %s, want int 5", v.String())
	}
}

func TestIntFloatPromotion(t *testing.T) {
	v, err := Binary(OpAdd, Int(2), Float(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindFloat {
		t.Fatalf("got kind %s, want float", v.Kind())
	}
	if v.AsFloat() != 2.5 {
		t.Errorf("got %v, want 2.5", v.AsFloat())
	}
}

func TestDivisionByZero(t *testing.T) {
	cases := []struct {
		name string
		a, b Var
	}{
		{"int", Int(1), Int(0)},
		{"float", Float(1), Float(0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Binary(OpDiv, c.a, c.b)
			if err == nil {
				t.Fatal("expected division-by-zero error, got nil")
			}
		})
	}
}

func TestModuloByZero(t *testing.T) {
	_, err := Binary(OpMod, Int(1), Int(0))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestStringConcat(t *testing.T) {
	v, err := Binary(OpAdd, String("foo"), String("bar"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsString() != "foobar" {
		t.Errorf("got %q", v.AsString())
	}
}

func TestStringPlusIntIsTypeError(t *testing.T) {
	_, err := Binary(OpAdd, String("foo"), Int(1))
	if err == nil {
		t.Fatal("expected type error, got nil")
	}
}

func TestComparisonAcrossIntFloat(t *testing.T) {
	v, err := Binary(OpLt, Int(1), Float(1.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.AsBool() {
		t.Errorf("expected 1 < 1.5 to be true")
	}
}

func TestEqualAcrossIntFloat(t *testing.T) {
	if !Equal(Int(2), Float(2.0)) {
		t.Error("expected 2 == 2.0")
	}
	if Equal(Int(2), Float(2.1)) {
		t.Error("expected 2 != 2.1")
	}
}

func TestUnaryNeg(t *testing.T) {
	v, err := Unary(OpNeg, Int(5))
	if err != nil || v.AsInt() != -5 {
		t.Errorf("got %v, err %v", v, err)
	}
}

func TestUnaryNot(t *testing.T) {
	v, err := Unary(OpNot, Bool(false))
	if err != nil || !v.AsBool() {
		t.Errorf("got %v, err %v", v, err)
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Var
		want bool
	}{
		{Null(), false},
		{Bool(false), false},
		{Int(0), false},
		{String(""), false},
		{Int(1), true},
		{String("x"), true},
		{FromArray(NewArray(nil)), false},
		{FromArray(NewArray([]Var{Int(1)})), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("%s.Truthy() = %v, want %v", c.v.String(), got, c.want)
		}
	}
}

func TestMapSetGetOverwrite(t *testing.T) {
	m := NewMap()
	if err := m.Set(String("a"), Int(1)); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(String("a"), Int(2)); err != nil {
		t.Fatal(err)
	}
	v, ok := m.Get(String("a"))
	if !ok || v.AsInt() != 2 {
		t.Errorf("got %v, %v, want 2, true", v, ok)
	}
	if m.Len() != 1 {
		t.Errorf("got len %d, want 1", m.Len())
	}
}
