package bytecode

import (
	"fmt"

	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

// Generate lowers an analyzed file into its file-module Bytecode, compiling
// every module function and every class (members, methods, constructor).
// The file is expected to have already passed through internal/semantic.
func Generate(file *ast.FileNode) (*Bytecode, error) {
	mod := NewModule(file.Path)
	for i, v := range file.Vars {
		mod.GlobalIndex[v.Name] = int32(i)
		mod.GlobalNames = append(mod.GlobalNames, v.Name)
	}
	for _, e := range file.Enums {
		vals := map[string]int64{}
		for _, ev := range e.Values {
			vals[ev.Name] = ev.Resolved
		}
		mod.Enums[e.Name] = vals
	}
	for _, fn := range file.Functions {
		cf, err := compileFunction(fn, mod, nil)
		if err != nil {
			return nil, err
		}
		mod.Functions[fn.Name] = cf
	}
	for _, c := range file.Classes {
		cm, err := compileClass(c, mod)
		if err != nil {
			return nil, err
		}
		mod.Classes[c.Name] = cm
	}

	init, err := compileInit(file, mod)
	if err != nil {
		return nil, err
	}
	mod.Init = init
	return mod, nil
}

// compileInit synthesizes the module's global-variable initializer
// function, run once by the VM before the entry point (spec §4.5's
// module-load semantics): plain top-level `var x = expr;` statements have
// no natural home in any user-written function, so codegen gives them one.
func compileInit(file *ast.FileNode, mod *Bytecode) (*CarbonFunction, error) {
	cf := &CarbonFunction{Name: "<init>", Module: mod}
	g := &fgen{mod: mod, fn: cf, locals: map[string]int32{}}
	for i, v := range file.Vars {
		if v.Init == nil {
			continue
		}
		src, err := g.expr(v.Init)
		if err != nil {
			return nil, err
		}
		g.emit(Instruction{Op: OpAssign, Dst: Extern(int32(i)), A: src})
	}
	g.emit(Instruction{Op: OpEnd})
	cf.StackSize = int(g.peak)
	return cf, nil
}

func compileClass(c *ast.ClassNode, fileMod *Bytecode) (*Bytecode, error) {
	cm := NewModule(c.Name)
	cm.BaseName = c.BaseName
	switch c.BaseKind {
	case ast.BaseLocalScript:
		cm.BaseKind = BaseLocalScript
		if base, ok := fileMod.Classes[c.BaseName]; ok {
			cm.Base = base
		}
	case ast.BaseExternalScript:
		cm.BaseKind = BaseExternalScript
	case ast.BaseNative:
		cm.BaseKind = BaseNative
	}

	// Inherited member slots are copied forward rather than looked up through
	// the base chain at access time: a derived class's MemberIndex ends up
	// holding every member visible on it (its own plus every ancestor's), at
	// the same indices the base already compiled against, so an instance's
	// member slice can be sized from MemberIndex alone and GetMember/SetMember
	// need only consult the instance's own (most-derived) class.
	idx := int32(0)
	if cm.Base != nil {
		for name, baseIdx := range cm.Base.MemberIndex {
			cm.MemberIndex[name] = baseIdx
		}
		idx = int32(len(cm.Base.MemberIndex))
	}
	for _, v := range c.Vars {
		if v.Static {
			continue
		}
		v.MemberIdx = int(idx)
		cm.MemberIndex[v.Name] = idx
		idx++
	}
	// Static var initializers beyond a compile-time constant are not
	// executed (no per-class init function is synthesized): every static
	// slot starts out Null unless its declared initializer already folded
	// to a ConstValueNode during resolveConstants.
	staticIdx := int32(0)
	for _, v := range c.Vars {
		if !v.Static {
			continue
		}
		cm.StaticIndex[v.Name] = staticIdx
		staticIdx++
		initVal := value.Null()
		if cv, ok := v.Init.(*ast.ConstValueNode); ok {
			initVal = cv.Value
		}
		cm.StaticValues = append(cm.StaticValues, initVal)
	}
	for _, e := range c.Enums {
		vals := map[string]int64{}
		for _, ev := range e.Values {
			vals[ev.Name] = ev.Resolved
		}
		cm.Enums[e.Name] = vals
	}

	for _, fn := range c.Functions {
		cf, err := compileFunction(fn, fileMod, c)
		if err != nil {
			return nil, err
		}
		cf.Module = cm
		if fn.IsConstructor {
			cm.Ctor = cf
		} else {
			cm.Methods[fn.Name] = cf
		}
	}
	return cm, nil
}

// fgen holds per-function codegen state: the stack-slot allocator for
// locals/temporaries, and the jump-label lists the innermost loop patches
// on break/continue.
type fgen struct {
	mod    *Bytecode // enclosing file module, for global/const/function lookups
	class  *ast.ClassNode
	fn     *CarbonFunction
	locals map[string]int32
	next   int32
	peak   int32

	breakLabels    [][]int
	continueLabels [][]int
}

func compileFunction(fn *ast.FunctionNode, fileMod *Bytecode, class *ast.ClassNode) (*CarbonFunction, error) {
	cf := &CarbonFunction{Name: fn.Name, NumParams: len(fn.Params), IsStatic: fn.Static, IsCtor: fn.IsConstructor, Module: fileMod}
	cf.Defaults = make([]Address, len(fn.Params))
	g := &fgen{mod: fileMod, class: class, fn: cf, locals: map[string]int32{}}

	for i, p := range fn.Params {
		if p.ResolvedDefault != nil {
			cf.Defaults[i] = ConstValue(fileMod.addConst(p.ResolvedDefault.Value))
		} else {
			cf.Defaults[i] = Null()
		}
	}

	if fn.Body != nil {
		if err := g.block(fn.Body); err != nil {
			return nil, err
		}
	}
	g.emit(Instruction{Op: OpEnd})
	cf.StackSize = int(g.peak)
	return cf, nil
}

func (g *fgen) emit(ins Instruction) int {
	g.fn.Code = append(g.fn.Code, ins)
	return len(g.fn.Code) - 1
}

func (g *fgen) alloc() Address {
	a := Stack(g.next)
	g.next++
	if g.next > g.peak {
		g.peak = g.next
	}
	return a
}

// scoped runs body with the allocator reset to its position at entry,
// reclaiming slots once the scope exits (locals never outlive their block).
func (g *fgen) scoped(body func() error) error {
	mark := g.next
	savedLocals := make(map[string]int32, len(g.locals))
	for k, v := range g.locals {
		savedLocals[k] = v
	}
	err := body()
	g.locals = savedLocals
	g.next = mark
	return err
}

func (g *fgen) block(b *ast.BlockNode) error {
	return g.scoped(func() error {
		for _, stmt := range b.Statements {
			if err := g.statement(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *fgen) statement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BlockNode:
		return g.block(s)
	case *ast.VarNode:
		slot := g.alloc()
		g.locals[s.Name] = slot.Index
		if s.Init != nil {
			src, err := g.expr(s.Init)
			if err != nil {
				return err
			}
			g.emit(Instruction{Op: OpAssign, Dst: slot, A: src})
		}
		return nil
	case *ast.ConstNode:
		slot := g.alloc()
		g.locals[s.Name] = slot.Index
		if s.Resolved != nil {
			g.emit(Instruction{Op: OpAssign, Dst: slot, A: ConstValue(g.mod.addConst(s.Resolved.Value))})
		}
		return nil
	case *ast.ExprStatement:
		_, err := g.expr(s.Expr)
		return err
	case *ast.ControlFlowNode:
		return g.controlFlow(s)
	}
	return nil
}

func (g *fgen) controlFlow(n *ast.ControlFlowNode) error {
	switch n.Kind {
	case ast.CFIf:
		cond, err := g.expr(n.Args[0])
		if err != nil {
			return err
		}
		jIfNot := g.emit(Instruction{Op: OpJumpIfNot, A: cond})
		if err := g.block(n.Body); err != nil {
			return err
		}
		if n.ElseBody != nil {
			jEnd := g.emit(Instruction{Op: OpJump})
			g.fn.Code[jIfNot].N = int32(len(g.fn.Code))
			if err := g.block(n.ElseBody); err != nil {
				return err
			}
			g.fn.Code[jEnd].N = int32(len(g.fn.Code))
		} else {
			g.fn.Code[jIfNot].N = int32(len(g.fn.Code))
		}
		return nil

	case ast.CFWhile:
		top := len(g.fn.Code)
		g.pushLoop()
		cond, err := g.expr(n.Args[0])
		if err != nil {
			return err
		}
		jExit := g.emit(Instruction{Op: OpJumpIfNot, A: cond})
		if err := g.block(n.Body); err != nil {
			return err
		}
		g.emit(Instruction{Op: OpJump, N: int32(top)})
		g.fn.Code[jExit].N = int32(len(g.fn.Code))
		g.popLoop(top, len(g.fn.Code))
		return nil

	case ast.CFFor:
		return g.scoped(func() error {
			if n.Init != nil {
				if err := g.statement(n.Init); err != nil {
					return err
				}
			}
			top := len(g.fn.Code)
			g.pushLoop()
			var jExit int
			hasCond := len(n.Args) > 0
			if hasCond {
				cond, err := g.expr(n.Args[0])
				if err != nil {
					return err
				}
				jExit = g.emit(Instruction{Op: OpJumpIfNot, A: cond})
			}
			if err := g.block(n.Body); err != nil {
				return err
			}
			stepPos := len(g.fn.Code)
			if n.Step != nil {
				if err := g.statement(n.Step); err != nil {
					return err
				}
			}
			g.emit(Instruction{Op: OpJump, N: int32(top)})
			if hasCond {
				g.fn.Code[jExit].N = int32(len(g.fn.Code))
			}
			g.popLoopWithContinue(stepPos, len(g.fn.Code))
			return nil
		})

	case ast.CFForeach:
		return g.scoped(func() error {
			iterable, err := g.expr(n.Args[0])
			if err != nil {
				return err
			}
			iter := g.alloc()
			g.emit(Instruction{Op: OpIterBegin, Dst: iter, A: iterable})
			top := len(g.fn.Code)
			g.pushLoop()
			val := g.alloc()
			hasNext := g.alloc()
			jExit := g.emit(Instruction{Op: OpIterNext, Dst: val, A: iter, B: hasNext})
			jExit2 := g.emit(Instruction{Op: OpJumpIfNot, A: hasNext})
			_ = jExit
			g.locals[n.ForeachVar] = val.Index
			if err := g.block(n.Body); err != nil {
				return err
			}
			g.emit(Instruction{Op: OpJump, N: int32(top)})
			g.fn.Code[jExit2].N = int32(len(g.fn.Code))
			g.popLoop(top, len(g.fn.Code))
			return nil
		})

	case ast.CFSwitch:
		subject, err := g.expr(n.Args[0])
		if err != nil {
			return err
		}
		var exitJumps []int
		var prevFalseJump = -1
		for _, c := range n.Cases {
			if prevFalseJump >= 0 {
				g.fn.Code[prevFalseJump].N = int32(len(g.fn.Code))
				prevFalseJump = -1
			}
			if c.IsDefault {
				if err := g.block(c.Body); err != nil {
					return err
				}
				continue
			}
			var matchJumps []int
			for i, v := range c.Values {
				valAddr, err := g.expr(v)
				if err != nil {
					return err
				}
				eq := g.alloc()
				g.emit(Instruction{Op: OpOperator, Dst: eq, A: subject, B: valAddr, N: int32(value.OpEq)})
				if i == len(c.Values)-1 {
					prevFalseJump = g.emit(Instruction{Op: OpJumpIfNot, A: eq})
				} else {
					matchJumps = append(matchJumps, g.emit(Instruction{Op: OpJumpIf, A: eq}))
				}
			}
			for _, mj := range matchJumps {
				g.fn.Code[mj].N = int32(len(g.fn.Code))
			}
			if err := g.block(c.Body); err != nil {
				return err
			}
			exitJumps = append(exitJumps, g.emit(Instruction{Op: OpJump}))
		}
		if prevFalseJump >= 0 {
			g.fn.Code[prevFalseJump].N = int32(len(g.fn.Code))
		}
		for _, ej := range exitJumps {
			g.fn.Code[ej].N = int32(len(g.fn.Code))
		}
		return nil

	case ast.CFBreak:
		if len(g.breakLabels) == 0 {
			return &cerrors.SourceError{Kind: cerrors.SyntaxError, Pos: n.Position, Message: "break outside of a loop"}
		}
		idx := len(g.breakLabels) - 1
		g.breakLabels[idx] = append(g.breakLabels[idx], g.emit(Instruction{Op: OpJump}))
		return nil

	case ast.CFContinue:
		if len(g.continueLabels) == 0 {
			return &cerrors.SourceError{Kind: cerrors.SyntaxError, Pos: n.Position, Message: "continue outside of a loop"}
		}
		idx := len(g.continueLabels) - 1
		g.continueLabels[idx] = append(g.continueLabels[idx], g.emit(Instruction{Op: OpJump}))
		return nil

	case ast.CFReturn:
		var a Address
		if len(n.Args) > 0 {
			v, err := g.expr(n.Args[0])
			if err != nil {
				return err
			}
			a = v
		} else {
			a = Null()
		}
		g.emit(Instruction{Op: OpReturn, A: a})
		return nil
	}
	return fmt.Errorf("unhandled control-flow kind %d", n.Kind)
}

func (g *fgen) pushLoop() {
	g.breakLabels = append(g.breakLabels, nil)
	g.continueLabels = append(g.continueLabels, nil)
}

// popLoop patches break jumps to exitPos and continue jumps to headerPos
// (used when continue should re-check the loop condition, as in while/foreach).
func (g *fgen) popLoop(headerPos, exitPos int) {
	g.patchLoop(headerPos, exitPos)
}

// popLoopWithContinue patches continue jumps to stepPos (C-style for, where
// continue must still run the step) and break jumps to exitPos.
func (g *fgen) popLoopWithContinue(stepPos, exitPos int) {
	g.patchLoop(stepPos, exitPos)
}

func (g *fgen) patchLoop(continueTarget, exitPos int) {
	n := len(g.breakLabels) - 1
	for _, idx := range g.breakLabels[n] {
		g.fn.Code[idx].N = int32(exitPos)
	}
	for _, idx := range g.continueLabels[n] {
		g.fn.Code[idx].N = int32(continueTarget)
	}
	g.breakLabels = g.breakLabels[:n]
	g.continueLabels = g.continueLabels[:n]
}
