package bytecode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carbon-lang/carbon/internal/value"
)

// Disassemble renders a module's constant pool, every top-level function,
// and every nested class's methods as a flat textual instruction listing —
// the `cmd/carbon disasm` command's output, grounded on the teacher's
// Chunk.String() summary idiom, extended to a full per-instruction dump
// since a one-line summary doesn't help debug codegen.
func Disassemble(mod *Bytecode) string {
	var sb strings.Builder
	disassembleModule(&sb, mod, "")
	return sb.String()
}

func disassembleModule(sb *strings.Builder, mod *Bytecode, indent string) {
	fmt.Fprintf(sb, "%smodule %s\n", indent, mod.Name)

	if len(mod.Consts) > 0 {
		fmt.Fprintf(sb, "%s  constants:\n", indent)
		for i, c := range mod.Consts {
			fmt.Fprintf(sb, "%s    [%d] %s\n", indent, i, c.String())
		}
	}

	if mod.Init != nil {
		disassembleFunction(sb, "<init>", mod.Init, indent+"  ")
	}

	for _, name := range sortedKeys(mod.Functions) {
		disassembleFunction(sb, name, mod.Functions[name], indent+"  ")
	}

	for _, name := range sortedKeys(mod.Classes) {
		class := mod.Classes[name]
		fmt.Fprintf(sb, "%s  class %s", indent, name)
		if class.BaseName != "" {
			fmt.Fprintf(sb, " : %s", class.BaseName)
		}
		sb.WriteString("\n")
		if class.Ctor != nil {
			disassembleFunction(sb, "<ctor>", class.Ctor, indent+"    ")
		}
		for _, mname := range sortedKeys(class.Methods) {
			disassembleFunction(sb, mname, class.Methods[mname], indent+"    ")
		}
	}
}

func disassembleFunction(sb *strings.Builder, name string, fn *CarbonFunction, indent string) {
	fmt.Fprintf(sb, "%sfunc %s(%d params, %d stack slots)\n", indent, name, fn.NumParams, fn.StackSize)
	for i, ins := range fn.Code {
		fmt.Fprintf(sb, "%s  %04d %s\n", indent, i, disassembleInstruction(ins))
	}
}

func disassembleInstruction(ins Instruction) string {
	var parts []string
	if ins.Dst.Kind != AddrNull {
		parts = append(parts, "dst="+ins.Dst.String())
	}
	if ins.A.Kind != AddrNull {
		parts = append(parts, "a="+ins.A.String())
	}
	if ins.B.Kind != AddrNull {
		parts = append(parts, "b="+ins.B.String())
	}
	if ins.Name != "" {
		parts = append(parts, "name="+ins.Name)
	}
	if len(ins.Args) > 0 {
		argStrs := make([]string, len(ins.Args))
		for i, a := range ins.Args {
			argStrs[i] = a.String()
		}
		parts = append(parts, "args=["+strings.Join(argStrs, ", ")+"]")
	}
	if ins.Op == OpOperator {
		parts = append(parts, "op="+value.Operator(ins.N).String())
	} else if ins.N != 0 || ins.Op == OpJump || ins.Op == OpJumpIf || ins.Op == OpJumpIfNot {
		parts = append(parts, fmt.Sprintf("n=%d", ins.N))
	}
	if len(parts) == 0 {
		return ins.Op.String()
	}
	return ins.Op.String() + " " + strings.Join(parts, " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
