// Package bytecode implements Carbon's code generator and VM: lowering an
// analyzed ast.FileNode into address-based bytecode (spec §3.6/§4.4) and
// executing it on a stack-per-call virtual machine (spec §4.5).
package bytecode

import "strconv"

// AddressKind tags what an Address refers to. Every operand in the
// instruction set is an Address rather than a bare stack slot, so the VM's
// operand fetch is centralized in one switch (see VM.load/VM.store).
type AddressKind byte

const (
	AddrNull AddressKind = iota
	AddrStack
	AddrParameter
	AddrThis
	AddrExtern
	AddrNativeClass
	AddrBuiltinFunc
	AddrBuiltinType
	AddrMemberVar
	AddrStaticMember
	AddrConstValue
)

func (k AddressKind) String() string {
	switch k {
	case AddrNull:
		return "null"
	case AddrStack:
		return "stack"
	case AddrParameter:
		return "param"
	case AddrThis:
		return "this"
	case AddrExtern:
		return "extern"
	case AddrNativeClass:
		return "native-class"
	case AddrBuiltinFunc:
		return "builtin-func"
	case AddrBuiltinType:
		return "builtin-type"
	case AddrMemberVar:
		return "member-var"
	case AddrStaticMember:
		return "static-member"
	case AddrConstValue:
		return "const"
	default:
		return "?"
	}
}

// Address is a two-part operand: an 8-bit kind plus a 24-bit index,
// matching spec §3.6's packed kind+index addressing model (kept here as two
// plain struct fields rather than a packed bitfield, since Go gains nothing
// from bit-packing a value that's never serialized across a process
// boundary).
type Address struct {
	Kind  AddressKind
	Index int32
}

func Null() Address                    { return Address{Kind: AddrNull} }
func Stack(i int32) Address            { return Address{Kind: AddrStack, Index: i} }
func Parameter(i int32) Address        { return Address{Kind: AddrParameter, Index: i} }
func This() Address                    { return Address{Kind: AddrThis} }
func Extern(i int32) Address           { return Address{Kind: AddrExtern, Index: i} }
func NativeClassAddr(i int32) Address  { return Address{Kind: AddrNativeClass, Index: i} }
func BuiltinFunc(i int32) Address      { return Address{Kind: AddrBuiltinFunc, Index: i} }
func BuiltinType(i int32) Address      { return Address{Kind: AddrBuiltinType, Index: i} }
func MemberVar(i int32) Address        { return Address{Kind: AddrMemberVar, Index: i} }
func StaticMember(i int32) Address     { return Address{Kind: AddrStaticMember, Index: i} }
func ConstValue(i int32) Address       { return Address{Kind: AddrConstValue, Index: i} }

func (a Address) String() string {
	if a.Kind == AddrNull || a.Kind == AddrThis {
		return a.Kind.String()
	}
	return a.Kind.String() + "#" + strconv.Itoa(int(a.Index))
}
