package bytecode

import "github.com/carbon-lang/carbon/internal/value"

// BaseKind mirrors ast.BaseKind for a compiled class module, so the VM
// doesn't need to depend on the ast package at run time.
type BaseKind int

const (
	BaseNone BaseKind = iota
	BaseLocalScript
	BaseExternalScript
	BaseNative
)

// Bytecode is one compiled module: either a file module (globals,
// top-level functions, nested classes) or a class module (members,
// methods, constructor), per spec §3.4.
type Bytecode struct {
	Name string

	// Constant pool, addressed by AddrConstValue.
	Consts []value.Var

	// File-module data.
	GlobalNames []string
	GlobalIndex map[string]int32
	Functions   map[string]*CarbonFunction
	Classes     map[string]*Bytecode
	Enums       map[string]map[string]int64

	// Class-module data.
	MemberIndex  map[string]int32 // instance member name -> slot
	StaticIndex  map[string]int32 // static member name -> slot
	StaticValues []value.Var
	Methods      map[string]*CarbonFunction
	Ctor         *CarbonFunction
	BaseKind     BaseKind
	BaseName     string
	Base         *Bytecode // set when BaseKind == BaseLocalScript/BaseExternalScript

	Externs []string // free variable names captured from the enclosing file module

	Init *CarbonFunction // synthesized: runs global var initializers in declaration order
}

func NewModule(name string) *Bytecode {
	return &Bytecode{
		Name:        name,
		GlobalIndex: map[string]int32{},
		Functions:   map[string]*CarbonFunction{},
		Classes:     map[string]*Bytecode{},
		Enums:       map[string]map[string]int64{},
		MemberIndex: map[string]int32{},
		StaticIndex: map[string]int32{},
		Methods:     map[string]*CarbonFunction{},
	}
}

func (m *Bytecode) addConst(v value.Var) int32 {
	m.Consts = append(m.Consts, v)
	return int32(len(m.Consts) - 1)
}

// CarbonFunction is one compiled function or method (spec §3.5): its
// parameter count/defaults, the peak local-stack size a call frame needs,
// and its instruction stream.
type CarbonFunction struct {
	Name       string
	NumParams  int
	Defaults   []Address // one per parameter; AddrNull if no default
	StackSize  int
	Code       []Instruction
	Module     *Bytecode
	IsStatic   bool
	IsCtor     bool
}
