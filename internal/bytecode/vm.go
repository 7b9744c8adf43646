package bytecode

import (
	"fmt"
	"io"
	"os"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/natives"
	"github.com/carbon-lang/carbon/internal/value"
)

const maxCallDepth = 2000

// VM executes compiled Bytecode. One VM corresponds to one running script:
// it owns the file module's global-variable storage and every instantiated
// script object's class-static storage, and dispatches calls across the
// file module and its nested class modules (spec §4.5).
type VM struct {
	File    *Bytecode
	Output  io.Writer // destination for the `print` builtin, defaults to os.Stdout
	globals []value.Var
	depth   int
}

// New creates a VM over a generated file module, sizing global storage but
// not yet running the module initializer (call Run for that).
func New(file *Bytecode) *VM {
	natives.Freeze()
	return &VM{File: file, Output: os.Stdout, globals: make([]value.Var, len(file.GlobalNames))}
}

// Run executes the module initializer (global var assignments) followed by
// the named entry-point function (conventionally "main"), returning its
// result.
func (vm *VM) Run(entry string, args []value.Var) (value.Var, error) {
	if vm.File.Init != nil {
		if _, err := vm.callFunction(vm.File.Init, nil, value.Null()); err != nil {
			return value.Null(), err
		}
	}
	fn, ok := vm.File.Functions[entry]
	if !ok {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.NameError, Message: "no entry-point function " + entry}
	}
	return vm.callFunction(fn, args, value.Null())
}

// frame is one call's activation record: its local-slot stack, its borrowed
// argument slice, and (for methods) the receiver and defining class module.
type frame struct {
	fn    *CarbonFunction
	stack []value.Var
	args  []value.Var
	this  value.Var
	class *Bytecode // defining class module, nil for file-level functions
}

func (vm *VM) callFunction(fn *CarbonFunction, args []value.Var, this value.Var) (value.Var, error) {
	vm.depth++
	defer func() { vm.depth-- }()
	if vm.depth > maxCallDepth {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.StackOverflow, Message: "call stack exceeded maximum depth"}
	}

	full := make([]value.Var, fn.NumParams)
	for i := 0; i < fn.NumParams; i++ {
		if i < len(args) {
			full[i] = args[i]
		} else if fn.Defaults[i].Kind != AddrNull {
			v, err := vm.load(&frame{fn: fn, stack: nil, args: full, this: this, class: fn.Module}, fn.Defaults[i])
			if err != nil {
				return value.Null(), err
			}
			full[i] = v
		} else {
			full[i] = value.Null()
		}
	}
	required := 0
	for i, d := range fn.Defaults {
		if d.Kind == AddrNull {
			required = i + 1
		}
	}
	if len(args) < required || len(args) > fn.NumParams {
		// arity was already checked at compile time for direct calls; this
		// guards indirect/builtin-dispatched calls that skip that check.
		return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: fmt.Sprintf("%s expects between %d and %d arguments, got %d", fn.Name, required, fn.NumParams, len(args))}
	}

	fr := &frame{fn: fn, stack: make([]value.Var, fn.StackSize), args: full, this: this, class: fn.Module}
	return vm.exec(fr)
}

func (vm *VM) exec(fr *frame) (value.Var, error) {
	pc := 0
	for {
		if pc >= len(fr.fn.Code) {
			return value.Null(), nil
		}
		ins := &fr.fn.Code[pc]
		switch ins.Op {
		case OpEnd:
			return value.Null(), nil

		case OpReturn:
			v, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			return v, nil

		case OpJump:
			pc = int(ins.N)
			continue

		case OpJumpIf:
			v, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			if v.Truthy() {
				pc = int(ins.N)
				continue
			}

		case OpJumpIfNot:
			v, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			if !v.Truthy() {
				pc = int(ins.N)
				continue
			}

		case OpAssign:
			v, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			if err := vm.store(fr, ins.Dst, v); err != nil {
				return value.Null(), err
			}

		case OpOperator:
			a, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			var result value.Var
			if isUnary(value.Operator(ins.N)) {
				result, err = value.Unary(value.Operator(ins.N), a)
			} else {
				b, berr := vm.load(fr, ins.B)
				if berr != nil {
					return value.Null(), berr
				}
				result, err = value.Binary(value.Operator(ins.N), a, b)
			}
			if err != nil {
				return value.Null(), err
			}
			if err := vm.store(fr, ins.Dst, result); err != nil {
				return value.Null(), err
			}

		case OpSetTrue:
			vm.store(fr, ins.Dst, value.Bool(true))
		case OpSetFalse:
			vm.store(fr, ins.Dst, value.Bool(false))

		case OpGet:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			v, err := vm.getMember(base, ins.Name)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpSet:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			v, err := vm.load(fr, ins.Args[0])
			if err != nil {
				return value.Null(), err
			}
			if err := vm.setMember(base, ins.Name, v); err != nil {
				return value.Null(), err
			}

		case OpGetMapped:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			key, err := vm.load(fr, ins.B)
			if err != nil {
				return value.Null(), err
			}
			v, err := vm.getMapped(base, key)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpSetMapped:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			key, err := vm.load(fr, ins.B)
			if err != nil {
				return value.Null(), err
			}
			val, err := vm.load(fr, ins.Args[0])
			if err != nil {
				return value.Null(), err
			}
			if err := vm.setMapped(base, key, val); err != nil {
				return value.Null(), err
			}

		case OpConstructLiteralArray:
			elems := make([]value.Var, len(ins.Args))
			for i, a := range ins.Args {
				v, err := vm.load(fr, a)
				if err != nil {
					return value.Null(), err
				}
				elems[i] = v
			}
			vm.store(fr, ins.Dst, value.FromArray(value.NewArray(elems)))

		case OpConstructLiteralMap:
			m := value.NewMap()
			for i := 0; i+1 < len(ins.Args); i += 2 {
				k, err := vm.load(fr, ins.Args[i])
				if err != nil {
					return value.Null(), err
				}
				v, err := vm.load(fr, ins.Args[i+1])
				if err != nil {
					return value.Null(), err
				}
				if err := m.Set(k, v); err != nil {
					return value.Null(), err
				}
			}
			vm.store(fr, ins.Dst, value.FromMap(m))

		case OpConstructBuiltin:
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			v, err := constructBuiltin(ins.Name, args)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpConstructNative:
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			obj, err := natives.Construct(ins.Name, args)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, value.FromObject(obj))

		case OpConstructCarbon:
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			v, err := vm.constructCarbon(ins.Name, args)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpCallFunc:
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			fn, ok := vm.File.Functions[ins.Name]
			if !ok {
				return value.Null(), &cerrors.SourceError{Kind: cerrors.NameError, Message: "unknown function " + ins.Name}
			}
			v, err := vm.callFunction(fn, args, value.Null())
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpCallBuiltin:
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			v, err := callBuiltin(vm.Output, ins.Name, args)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpCallMethod:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			v, err := vm.callMethod(base, ins.Name, args)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpCallSuperCtor:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			v, err := vm.callSuper(base, ins.Name, args)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpCall:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			args, err := vm.loadArgs(fr, ins.Args)
			if err != nil {
				return value.Null(), err
			}
			if base.Kind() != value.KindObject || base.AsObject() == nil {
				return value.Null(), &cerrors.SourceError{Kind: cerrors.TypeError, Message: "value is not callable"}
			}
			v, err := base.AsObject().Call(args)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, v)

		case OpIterBegin:
			base, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			it, err := vm.iterBegin(base)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, it)

		case OpIterNext:
			it, err := vm.load(fr, ins.A)
			if err != nil {
				return value.Null(), err
			}
			val, hasNext, err := vm.iterNext(it)
			if err != nil {
				return value.Null(), err
			}
			vm.store(fr, ins.Dst, val)
			vm.store(fr, ins.B, value.Bool(hasNext))

		default:
			return value.Null(), fmt.Errorf("unimplemented opcode %s", ins.Op)
		}
		pc++
	}
}

func isUnary(op value.Operator) bool {
	return op == value.OpNeg || op == value.OpPos || op == value.OpNot || op == value.OpBitNot
}

func (vm *VM) loadArgs(fr *frame, addrs []Address) ([]value.Var, error) {
	out := make([]value.Var, len(addrs))
	for i, a := range addrs {
		v, err := vm.load(fr, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// load fetches the value at addr, centralizing every operand kind's
// storage location in one place (spec §4.5's address dispatch).
func (vm *VM) load(fr *frame, addr Address) (value.Var, error) {
	switch addr.Kind {
	case AddrNull:
		return value.Null(), nil
	case AddrStack:
		return fr.stack[addr.Index], nil
	case AddrParameter:
		return fr.args[addr.Index], nil
	case AddrThis:
		return fr.this, nil
	case AddrExtern:
		return vm.globals[addr.Index], nil
	case AddrConstValue:
		return vm.File.Consts[addr.Index], nil
	case AddrMemberVar:
		if fr.this.Kind() != value.KindObject {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.NullPointer, Message: "member access with no 'this' instance"}
		}
		if inst, ok := fr.this.AsObject().(*instance); ok {
			return inst.members[addr.Index], nil
		}
		return value.Null(), &cerrors.SourceError{Kind: cerrors.TypeError, Message: "member-var address on non-script instance"}
	case AddrStaticMember:
		if fr.class != nil && int(addr.Index) < len(fr.class.StaticValues) {
			return fr.class.StaticValues[addr.Index], nil
		}
		return value.Null(), nil
	case AddrBuiltinType, AddrBuiltinFunc, AddrNativeClass:
		return value.Null(), nil
	}
	return value.Null(), nil
}

func (vm *VM) store(fr *frame, addr Address, v value.Var) error {
	switch addr.Kind {
	case AddrStack:
		fr.stack[addr.Index] = v
	case AddrExtern:
		vm.globals[addr.Index] = v
	case AddrMemberVar:
		if fr.this.Kind() != value.KindObject {
			return &cerrors.SourceError{Kind: cerrors.NullPointer, Message: "member assignment with no 'this' instance"}
		}
		if inst, ok := fr.this.AsObject().(*instance); ok {
			inst.members[addr.Index] = v
			return nil
		}
		return &cerrors.SourceError{Kind: cerrors.TypeError, Message: "member-var address on non-script instance"}
	case AddrStaticMember:
		if fr.class != nil && int(addr.Index) < len(fr.class.StaticValues) {
			fr.class.StaticValues[addr.Index] = v
		}
	case AddrParameter:
		fr.args[addr.Index] = v
	case AddrThis:
		// 'this' is never a valid assignment destination; silently ignored
	}
	return nil
}

func (vm *VM) getMember(base value.Var, name string) (value.Var, error) {
	if base.Kind() == value.KindObject && base.AsObject() != nil {
		return base.AsObject().GetMember(name)
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.AttributeError, Message: "no member " + name}
}

func (vm *VM) setMember(base value.Var, name string, v value.Var) error {
	if base.Kind() == value.KindObject && base.AsObject() != nil {
		return base.AsObject().SetMember(name, v)
	}
	return &cerrors.SourceError{Kind: cerrors.AttributeError, Message: "no member " + name}
}

func (vm *VM) getMapped(base, key value.Var) (value.Var, error) {
	switch base.Kind() {
	case value.KindArray:
		idx := key.AsInt()
		arr := base.AsArray()
		if idx < 0 || int(idx) >= len(arr.Elems) {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidIndex, Message: "array index out of range"}
		}
		return arr.Elems[idx], nil
	case value.KindMap:
		v, ok := base.AsMap().Get(key)
		if !ok {
			return value.Null(), nil
		}
		return v, nil
	case value.KindObject:
		if base.AsObject() != nil {
			return base.AsObject().GetMapped(key)
		}
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.TypeError, Message: "value is not indexable"}
}

func (vm *VM) setMapped(base, key, v value.Var) error {
	switch base.Kind() {
	case value.KindArray:
		idx := key.AsInt()
		arr := base.AsArray()
		if idx < 0 || int(idx) >= len(arr.Elems) {
			return &cerrors.SourceError{Kind: cerrors.InvalidIndex, Message: "array index out of range"}
		}
		arr.Elems[idx] = v
		return nil
	case value.KindMap:
		return base.AsMap().Set(key, v)
	case value.KindObject:
		if base.AsObject() != nil {
			return base.AsObject().SetMapped(key, v)
		}
	}
	return &cerrors.SourceError{Kind: cerrors.TypeError, Message: "value is not indexable"}
}

func (vm *VM) iterBegin(base value.Var) (value.Var, error) {
	switch base.Kind() {
	case value.KindArray:
		return value.FromObject(newArrayIterator(base.AsArray())), nil
	case value.KindMap:
		m := base.AsMap()
		return value.FromObject(newMapIterator(m.Keys(), m.Values())), nil
	case value.KindObject:
		if base.AsObject() != nil {
			return base.AsObject().IterBegin()
		}
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.TypeError, Message: "value is not iterable"}
}

func (vm *VM) iterNext(cursorHolder value.Var) (value.Var, bool, error) {
	// The cursor IterBegin produced (an arrayIterator/mapIterator for
	// literal containers, or the iterated object itself for a native/script
	// iterable) is its own IterHasNext/IterNext receiver.
	if cursorHolder.Kind() == value.KindObject && cursorHolder.AsObject() != nil {
		has, err := cursorHolder.AsObject().IterHasNext(cursorHolder)
		if err != nil || !has {
			return value.Null(), false, err
		}
		_, v, err := cursorHolder.AsObject().IterNext(cursorHolder)
		return v, true, err
	}
	return value.Null(), false, nil
}

func (vm *VM) callMethod(base value.Var, name string, args []value.Var) (value.Var, error) {
	if base.Kind() != value.KindObject || base.AsObject() == nil {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.NullPointer, Message: "method call on null"}
	}
	if inst, ok := base.AsObject().(*instance); ok {
		return vm.callScriptMethod(inst, name, args)
	}
	return base.AsObject().CallMethod(name, args)
}
