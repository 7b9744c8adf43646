package natives

import (
	"path/filepath"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

// osPathObject backs the stateless `OSPath` native class: a thin wrapper
// over path/filepath for script code that needs host-filesystem path
// manipulation (spec §4.6/§5's host-capability classes).
type osPathObject struct {
	value.BaseObject
}

func newOSPath([]value.Var) (value.Object, error) {
	return &osPathObject{BaseObject: value.BaseObject{Name: "OSPath"}}, nil
}

func (o *osPathObject) CallMethod(name string, args []value.Var) (value.Var, error) {
	switch name {
	case "abs_path":
		if len(args) != 1 {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "abs_path(path) takes exactly 1 argument"}
		}
		abs, err := filepath.Abs(args[0].AsString())
		if err != nil {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.IoError, Message: err.Error()}
		}
		return value.String(abs), nil
	case "rel_path":
		if len(args) != 2 {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "rel_path(base, target) takes exactly 2 arguments"}
		}
		rel, err := filepath.Rel(args[0].AsString(), args[1].AsString())
		if err != nil {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.IoError, Message: err.Error()}
		}
		return value.String(rel), nil
	case "join":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.AsString()
		}
		return value.String(filepath.Join(parts...)), nil
	case "base":
		if len(args) != 1 {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "base(path) takes exactly 1 argument"}
		}
		return value.String(filepath.Base(args[0].AsString())), nil
	case "dir":
		if len(args) != 1 {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "dir(path) takes exactly 1 argument"}
		}
		return value.String(filepath.Dir(args[0].AsString())), nil
	default:
		return o.BaseObject.CallMethod(name, args)
	}
}

func init() {
	Register("OSPath", newOSPath)
	for _, m := range []string{"abs_path", "rel_path", "join", "base", "dir"} {
		Bind("OSPath", m, BindData{Kind: BindMethod})
	}
}
