// Dylib wraps Go's plugin package for the `Dylib` native class, letting
// script code load a compiled shared object and call an exported symbol.
// Go's plugin package only supports Linux (and, partially, macOS, but never
// Windows), so this class is a Linux-only capability, documented as such in
// SPEC_FULL.md rather than emulated elsewhere.
package natives

import (
	"fmt"
	"plugin"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

type dylibObject struct {
	value.BaseObject
	p *plugin.Plugin
}

func newDylib(args []value.Var) (value.Object, error) {
	if len(args) != 1 {
		return nil, &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "Dylib(path) takes exactly 1 argument"}
	}
	p, err := plugin.Open(args[0].AsString())
	if err != nil {
		return nil, &cerrors.SourceError{Kind: cerrors.IoError, Message: fmt.Sprintf("load dylib: %v", err)}
	}
	return &dylibObject{BaseObject: value.BaseObject{Name: "Dylib"}, p: p}, nil
}

func (d *dylibObject) CallMethod(name string, args []value.Var) (value.Var, error) {
	if name != "call" {
		return d.BaseObject.CallMethod(name, args)
	}
	if len(args) < 1 {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "call(symbol, ...) requires a symbol name"}
	}
	sym, err := d.p.Lookup(args[0].AsString())
	if err != nil {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.NameError, Message: fmt.Sprintf("dylib symbol not found: %v", err)}
	}
	fn, ok := sym.(func([]value.Var) (value.Var, error))
	if !ok {
		return value.Null(), &cerrors.SourceError{Kind: cerrors.TypeError, Message: "dylib symbol does not have the expected Carbon native-function signature"}
	}
	return fn(args[1:])
}

func init() {
	Register("Dylib", newDylib)
	Bind("Dylib", "call", BindData{Kind: BindMethod})
}
