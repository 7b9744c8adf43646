// Package value implements Var, Carbon's dynamically-typed runtime value: a
// tagged union over null, bool, int64, float64, string, array, map and
// object. It is the lowest-level package in the compiler — it has no
// dependency on the lexer, parser, analyzer or bytecode packages — and
// provides arithmetic, comparison, hashing and stringification shared by
// the analyzer's constant folder and the VM.
package value

import (
	"fmt"
	"strconv"
	"strings"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
)

// Kind is the tag of a Var.
type Kind byte

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	default:
		return "?"
	}
}

// Object is the capability interface every script instance or host-bound
// native object must implement. Each capability has a default
// implementation that fails with OperatorNotSupported; concrete types
// override only what they need.
type Object interface {
	TypeName() string
	GetMember(name string) (Var, error)
	SetMember(name string, v Var) error
	CallMethod(name string, args []Var) (Var, error)
	Call(args []Var) (Var, error)
	GetMapped(key Var) (Var, error)
	SetMapped(key Var, v Var) error
	IterBegin() (Var, error)
	IterHasNext(iter Var) (bool, error)
	IterNext(iter Var) (Var, Var, error)
	Hash() (uint64, error)
	String() string
	// Binary applies a binary operator with the object as the left operand.
	Binary(op Operator, rhs Var) (Var, error)
}

// BaseObject implements Object with every capability returning
// OperatorNotSupported, to be embedded by concrete native/script objects
// that override only the capabilities they support.
type BaseObject struct{ Name string }

func (b *BaseObject) TypeName() string { return b.Name }
func (b *BaseObject) GetMember(name string) (Var, error) {
	return Null(), opErr("get member %q on %s", name, b.Name)
}
func (b *BaseObject) SetMember(name string, _ Var) error {
	return opErr("set member %q on %s", name, b.Name)
}
func (b *BaseObject) CallMethod(name string, _ []Var) (Var, error) {
	return Null(), opErr("call method %q on %s", name, b.Name)
}
func (b *BaseObject) Call(_ []Var) (Var, error) { return Null(), opErr("call %s", b.Name) }
func (b *BaseObject) GetMapped(_ Var) (Var, error) {
	return Null(), opErr("index %s", b.Name)
}
func (b *BaseObject) SetMapped(_ Var, _ Var) error { return opErr("index-assign %s", b.Name) }
func (b *BaseObject) IterBegin() (Var, error)      { return Null(), opErr("iterate %s", b.Name) }
func (b *BaseObject) IterHasNext(_ Var) (bool, error) {
	return false, opErr("iterate %s", b.Name)
}
func (b *BaseObject) IterNext(_ Var) (Var, Var, error) {
	return Null(), Null(), opErr("iterate %s", b.Name)
}
func (b *BaseObject) Hash() (uint64, error) { return 0, opErr("hash %s", b.Name) }
func (b *BaseObject) String() string        { return "<" + b.Name + ">" }
func (b *BaseObject) Binary(op Operator, _ Var) (Var, error) {
	return Null(), opErr("operator %s on %s", op, b.Name)
}

func opErr(format string, args ...any) error {
	return &cerrors.SourceError{Kind: cerrors.OperatorNotSupported, Message: fmt.Sprintf(format, args...)}
}

// Array is a shared, ordered, mutable sequence of Var. Aliased mutation is
// observable through every Var holding a reference to the same Array.
type Array struct {
	Elems []Var
}

func NewArray(elems []Var) *Array { return &Array{Elems: elems} }

// Map is a shared, insertion-ordered mapping from hashable Var to Var.
// Collisions are resolved with a chain of candidate indices per hash bucket,
// matching the spec's requirement that Map keys compare by value, not by
// hash alone.
type Map struct {
	keys    []Var
	entries []Var
	buckets map[uint64][]int
}

func NewMap() *Map {
	return &Map{buckets: make(map[uint64][]int)}
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Get(key Var) (Var, bool) {
	h, err := key.Hash()
	if err != nil {
		return Null(), false
	}
	for _, idx := range m.buckets[h] {
		if Equal(m.keys[idx], key) {
			return m.entries[idx], true
		}
	}
	return Null(), false
}

func (m *Map) Set(key Var, v Var) error {
	h, err := key.Hash()
	if err != nil {
		return err
	}
	for _, idx := range m.buckets[h] {
		if Equal(m.keys[idx], key) {
			m.entries[idx] = v
			return nil
		}
	}
	idx := len(m.keys)
	m.keys = append(m.keys, key)
	m.entries = append(m.entries, v)
	m.buckets[h] = append(m.buckets[h], idx)
	return nil
}

// Keys returns map keys in insertion order.
func (m *Map) Keys() []Var { return m.keys }

// Values returns map values in the same order as Keys.
func (m *Map) Values() []Var { return m.entries }

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.String())
		sb.WriteString(": ")
		sb.WriteString(m.entries[i].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Var is the tagged-union dynamic value. Null, Bool, Int, Float and String
// are value-semantic; Array, Map and Object are reference-shared through
// their pointer fields.
type Var struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  *Array
	mp   *Map
	obj  Object
}

func Null() Var             { return Var{kind: KindNull} }
func Bool(b bool) Var       { return Var{kind: KindBool, b: b} }
func Int(i int64) Var       { return Var{kind: KindInt, i: i} }
func Float(f float64) Var   { return Var{kind: KindFloat, f: f} }
func String(s string) Var   { return Var{kind: KindString, s: s} }
func FromArray(a *Array) Var { return Var{kind: KindArray, arr: a} }
func FromMap(m *Map) Var    { return Var{kind: KindMap, mp: m} }
func FromObject(o Object) Var {
	if o == nil {
		return Null()
	}
	return Var{kind: KindObject, obj: o}
}

func (v Var) Kind() Kind     { return v.kind }
func (v Var) IsNull() bool   { return v.kind == KindNull }
func (v Var) AsBool() bool   { return v.b }
func (v Var) AsInt() int64   { return v.i }
func (v Var) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}
func (v Var) AsString() string { return v.s }
func (v Var) AsArray() *Array  { return v.arr }
func (v Var) AsMap() *Map      { return v.mp }
func (v Var) AsObject() Object { return v.obj }

func (v Var) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// Truthy implements the language's notion of truthiness for `if`/`while`/
// logical operators: null and false(/0/""/empty) are falsey, everything
// else is truthy, mirroring common dynamic-language conventions while
// keeping Bool the canonical condition type.
func (v Var) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return v.arr != nil && len(v.arr.Elems) > 0
	case KindMap:
		return v.mp != nil && v.mp.Len() > 0
	default:
		return true
	}
}

func (v Var) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindArray:
		if v.arr == nil {
			return "[]"
		}
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.arr.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindMap:
		if v.mp == nil {
			return "{}"
		}
		return v.mp.String()
	case KindObject:
		if v.obj == nil {
			return "null"
		}
		return v.obj.String()
	default:
		return "?"
	}
}

// Hash returns a hash for use as a Map key. Array and Map are not hashable.
func (v Var) Hash() (uint64, error) {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	fnv := func(s string) uint64 {
		h := uint64(offset64)
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= prime64
		}
		return h
	}
	switch v.kind {
	case KindNull:
		return 0, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 2, nil
	case KindInt:
		return uint64(v.i)*prime64 + 3, nil
	case KindFloat:
		return fnv(strconv.FormatFloat(v.f, 'g', -1, 64)) + 4, nil
	case KindString:
		return fnv(v.s) + 5, nil
	case KindObject:
		if v.obj == nil {
			return 0, nil
		}
		return v.obj.Hash()
	default:
		return 0, &cerrors.SourceError{Kind: cerrors.TypeError, Message: v.kind.String() + " is not hashable"}
	}
}
