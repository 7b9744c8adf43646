// Package natives implements Carbon's native-class registry (spec §4.6): a
// process-wide, frozen-once table of host-provided classes (File, Dylib,
// OSPath) that script code can instantiate and call into like any other
// class, plus the parent-chain bind-data lookup used to resolve inherited
// native methods/vars.
package natives

import (
	"fmt"
	"sort"
	"sync"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

// BindKind classifies one entry bound onto a NativeClass.
type BindKind int

const (
	BindMethod BindKind = iota
	BindStaticFunc
	BindMemberVar
	BindStaticVar
	BindStaticConst
	BindEnum
	BindEnumValue
)

// Method is a native method or static function implementation.
type Method func(self value.Var, args []value.Var) (value.Var, error)

// Constructor builds a new instance given constructor arguments.
type Constructor func(args []value.Var) (value.Object, error)

// BindData is one named capability bound onto a NativeClass.
type BindData struct {
	Kind   BindKind
	Method Method
	Value  value.Var // for BindStaticVar/BindStaticConst/BindEnumValue
}

// NativeClass describes one host-provided class available to script code.
type NativeClass struct {
	Name       string
	ParentName string
	Parent     *NativeClass

	Ctor    Constructor
	Binds   map[string]BindData
	frozen  bool
}

func newClass(name, parent string) *NativeClass {
	return &NativeClass{Name: name, ParentName: parent, Binds: map[string]BindData{}}
}

// GetBindData looks up name on c, then walks the parent chain, matching
// spec §4.6's inherited-method resolution for native classes.
func (c *NativeClass) GetBindData(name string) (BindData, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if bd, ok := cur.Binds[name]; ok {
			return bd, true
		}
	}
	return BindData{}, false
}

var (
	mu       sync.Mutex
	classes  = map[string]*NativeClass{}
	frozen   bool
)

// Register adds a root (no-parent) native class to the registry. Must be
// called before the registry is frozen (i.e. before the first VM run).
func Register(name string, ctor Constructor) *NativeClass {
	return RegisterWithParent(name, "", ctor)
}

// RegisterWithParent adds a native class inheriting from parent, which must
// already be registered.
func RegisterWithParent(name, parent string, ctor Constructor) *NativeClass {
	mu.Lock()
	defer mu.Unlock()
	if frozen {
		panic(fmt.Sprintf("natives: cannot register %q after the registry is frozen", name))
	}
	c := newClass(name, parent)
	c.Ctor = ctor
	classes[name] = c
	return c
}

// Bind attaches a capability to a registered native class.
func Bind(className, memberName string, bd BindData) {
	mu.Lock()
	defer mu.Unlock()
	c, ok := classes[className]
	if !ok {
		panic(fmt.Sprintf("natives: Bind on unregistered class %q", className))
	}
	c.Binds[memberName] = bd
}

// Freeze resolves every class's Parent pointer and locks the registry
// against further registration; safe to call multiple times.
func Freeze() {
	mu.Lock()
	defer mu.Unlock()
	if frozen {
		return
	}
	for _, c := range classes {
		if c.ParentName != "" {
			c.Parent = classes[c.ParentName]
		}
	}
	frozen = true
}

// Lookup returns the registered native class named name, or nil.
func Lookup(name string) *NativeClass {
	mu.Lock()
	defer mu.Unlock()
	return classes[name]
}

// Names returns every registered native class name, sorted.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(classes))
	for n := range classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Construct instantiates the native class named name with args, returning a
// NameError if it isn't registered.
func Construct(name string, args []value.Var) (value.Object, error) {
	c := Lookup(name)
	if c == nil {
		return nil, &cerrors.SourceError{Kind: cerrors.NameError, Message: fmt.Sprintf("unknown native class %q", name)}
	}
	return c.Ctor(args)
}
