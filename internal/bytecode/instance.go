package bytecode

import (
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/natives"
	"github.com/carbon-lang/carbon/internal/value"
)

// instance is a runtime Carbon script object: its class module, its own
// member-variable slots, and (for a native-derived class) the wrapped
// native object the member slots sit in front of.
type instance struct {
	value.BaseObject
	class   *Bytecode
	members []value.Var
	native  value.Object // set when class.BaseKind == BaseNative, via the base constructor
}

func newInstance(class *Bytecode) *instance {
	count := len(class.MemberIndex)
	return &instance{BaseObject: value.BaseObject{Name: class.Name}, class: class, members: make([]value.Var, count)}
}

func (i *instance) GetMember(name string) (value.Var, error) {
	if idx, ok := i.class.MemberIndex[name]; ok {
		return i.members[idx], nil
	}
	if i.native != nil {
		return i.native.GetMember(name)
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.AttributeError, Message: "no member " + name + " on " + i.class.Name}
}

func (i *instance) SetMember(name string, v value.Var) error {
	if idx, ok := i.class.MemberIndex[name]; ok {
		i.members[idx] = v
		return nil
	}
	if i.native != nil {
		return i.native.SetMember(name, v)
	}
	return &cerrors.SourceError{Kind: cerrors.AttributeError, Message: "no member " + name + " on " + i.class.Name}
}

func (i *instance) String() string { return "<" + i.class.Name + " instance>" }

// constructCarbon instantiates a script-defined class: allocates member
// slots (inherited slots included, since MemberIndex was assigned
// contiguously across the base chain at compile time), runs an implicit
// native/base constructor where required, then the class's own constructor.
func (vm *VM) constructCarbon(className string, args []value.Var) (value.Var, error) {
	class, ok := vm.File.Classes[className]
	if !ok {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.NameError, Message: "unknown class " + className}
	}
	inst, err := vm.instantiate(class, args)
	if err != nil {
		return value.Null(), err
	}
	return value.FromObject(inst), nil
}

func (vm *VM) instantiate(class *Bytecode, args []value.Var) (*instance, error) {
	inst := newInstance(class)

	if class.BaseKind == BaseNative {
		obj, err := natives.Construct(class.BaseName, args)
		if err != nil {
			return nil, err
		}
		inst.native = obj
	}

	if class.Ctor != nil {
		if _, err := vm.callFunction(class.Ctor, args, value.FromObject(inst)); err != nil {
			return nil, err
		}
	} else if class.Base != nil {
		// No explicit constructor: spec requires an implicit call to the
		// base class's constructor with the same arguments.
		if class.Base.Ctor != nil {
			if _, err := vm.callFunction(class.Base.Ctor, args, value.FromObject(inst)); err != nil {
				return nil, err
			}
		}
	}
	return inst, nil
}

// callScriptMethod dispatches a method call on a script instance, walking
// the class chain for an override and falling back to the wrapped native
// object for classes derived from a native base.
func (vm *VM) callScriptMethod(inst *instance, name string, args []value.Var) (value.Var, error) {
	for c := inst.class; c != nil; c = c.Base {
		if m, ok := c.Methods[name]; ok {
			return vm.callFunction(m, args, value.FromObject(inst))
		}
	}
	if inst.native != nil {
		return inst.native.CallMethod(name, args)
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.AttributeError, Message: "no method " + name + " on " + inst.class.Name}
}

// callSuper handles OpCallSuperCtor: a bare `super(...)` (empty name) invokes
// the base class's constructor directly; `super.method(...)` (name set)
// invokes the base class's method implementation, bypassing any override in
// the current instance's dynamic class.
func (vm *VM) callSuper(base value.Var, name string, args []value.Var) (value.Var, error) {
	if base.Kind() != value.KindObject || base.AsObject() == nil {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.NullPointer, Message: "super call with no 'this' instance"}
	}
	inst, ok := base.AsObject().(*instance)
	if !ok || inst.class.Base == nil {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.NameError, Message: "super call outside of a derived class"}
	}
	if name == "" {
		if inst.class.Base.Ctor != nil {
			return vm.callFunction(inst.class.Base.Ctor, args, base)
		}
		return value.Null(), nil
	}
	for c := inst.class.Base; c != nil; c = c.Base {
		if m, ok := c.Methods[name]; ok {
			return vm.callFunction(m, args, base)
		}
	}
	if inst.native != nil {
		return inst.native.CallMethod(name, args)
	}
	return value.Null(), &cerrors.SourceError{Kind: cerrors.AttributeError, Message: "no method " + name + " on base of " + inst.class.Name}
}
