package VM

import (
	"fmt"
	"strings"

	"github.com/sqlvibe/exprcheck/internal/DS"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
	"github.com/sqlvibe/exprcheck/internal/SF/util"
)

// Instruction is a single three-operand bytecode instruction.
type Instruction struct {
	Op Opcode
	A  int
	B  int
	C  int
}

// FuncRef names a builtin invoked by BcCall, resolved once at build time.
type FuncRef struct {
	Name  string
	NArgs int
}

// Program is an immutable compiled projection: straight-line bytecode with
// forward jumps, a constant pool, and NumOuts output slots.
type Program struct {
	Insts   []Instruction
	Consts  []DS.Value
	Funcs   []FuncRef
	NumRegs int
	NumOuts int
}

// Disasm renders the program as one instruction per line, for error
// detail and debug logging.
func (p *Program) Disasm() string {
	var sb strings.Builder
	for pc, in := range p.Insts {
		fmt.Fprintf(&sb, "%4d  %-10s", pc, in.Op)
		switch in.Op {
		case BcLoadConst:
			fmt.Fprintf(&sb, " r%d, %s", in.A, p.Consts[in.B])
		case BcLoadCol:
			fmt.Fprintf(&sb, " r%d, col%d", in.A, in.B)
		case BcMove, BcNot, BcNeg:
			fmt.Fprintf(&sb, " r%d, r%d", in.A, in.B)
		case BcJump:
			fmt.Fprintf(&sb, " @%d", in.A)
		case BcJumpFalse:
			fmt.Fprintf(&sb, " r%d, @%d", in.A, in.B)
		case BcCall:
			f := p.Funcs[in.B]
			fmt.Fprintf(&sb, " r%d, %s/%d, r%d", in.A, f.Name, f.NArgs, in.C)
		case BcMakeTuple:
			fmt.Fprintf(&sb, " r%d, r%d, n=%d", in.A, in.B, in.C)
		case BcStoreOut:
			fmt.Fprintf(&sb, " out%d, r%d", in.A, in.B)
		default:
			fmt.Fprintf(&sb, " r%d, r%d, r%d", in.A, in.B, in.C)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type jumpPatch struct {
	pc    int
	label int
}

// BytecodeBuilder accumulates instructions, constants, and labels and
// produces a Program. Forward jump targets are emitted as labels and
// patched in Build.
type BytecodeBuilder struct {
	insts   []Instruction
	consts  []DS.Value
	funcs   []FuncRef
	nextReg int
	numOuts int

	labelPCs []int
	patches  []jumpPatch
}

func NewBytecodeBuilder(numOuts int) *BytecodeBuilder {
	return &BytecodeBuilder{numOuts: numOuts}
}

func (b *BytecodeBuilder) AllocReg() int {
	r := b.nextReg
	b.nextReg++
	return r
}

// AddConst interns a constant and returns its pool index.
func (b *BytecodeBuilder) AddConst(v DS.Value) int {
	for i := range b.consts {
		if b.consts[i].Equal(v) {
			return i
		}
	}
	b.consts = append(b.consts, v.Copy())
	return len(b.consts) - 1
}

func (b *BytecodeBuilder) AddFuncRef(name string, nargs int) int {
	b.funcs = append(b.funcs, FuncRef{Name: name, NArgs: nargs})
	return len(b.funcs) - 1
}

func (b *BytecodeBuilder) EmitABC(op Opcode, a, b2, c int) int {
	b.insts = append(b.insts, Instruction{Op: op, A: a, B: b2, C: c})
	return len(b.insts) - 1
}

// AllocLabel reserves a jump target to be bound later.
func (b *BytecodeBuilder) AllocLabel() int {
	b.labelPCs = append(b.labelPCs, -1)
	return len(b.labelPCs) - 1
}

// BindLabel binds a label to the next instruction to be emitted.
func (b *BytecodeBuilder) BindLabel(label int) {
	util.Assert(b.labelPCs[label] == -1, "label bound twice")
	b.labelPCs[label] = len(b.insts)
}

// EmitJump emits an unconditional jump to a label.
func (b *BytecodeBuilder) EmitJump(label int) {
	b.patches = append(b.patches, jumpPatch{pc: len(b.insts), label: label})
	b.EmitABC(BcJump, -1, 0, 0)
}

// EmitJumpFalse emits a jump taken when the register holds a false or
// NULL value.
func (b *BytecodeBuilder) EmitJumpFalse(condReg, label int) {
	b.patches = append(b.patches, jumpPatch{pc: len(b.insts), label: label})
	b.EmitABC(BcJumpFalse, condReg, -1, 0)
}

// Disasm renders the instructions emitted so far, for diagnostics when
// compilation fails partway.
func (b *BytecodeBuilder) Disasm() string {
	p := &Program{Insts: b.insts, Consts: b.consts, Funcs: b.funcs}
	return p.Disasm()
}

// Build patches all jump targets and returns the finished program.
func (b *BytecodeBuilder) Build() (*Program, error) {
	for _, p := range b.patches {
		target := b.labelPCs[p.label]
		if target < 0 {
			return nil, SE.Errorf(SE.EC_INTERNAL, "unbound label %d at pc %d", p.label, p.pc)
		}
		switch b.insts[p.pc].Op {
		case BcJump:
			b.insts[p.pc].A = target
		case BcJumpFalse:
			b.insts[p.pc].B = target
		default:
			return nil, SE.Errorf(SE.EC_INTERNAL, "patch at pc %d is not a jump", p.pc)
		}
	}
	return &Program{
		Insts:   b.insts,
		Consts:  b.consts,
		Funcs:   b.funcs,
		NumRegs: b.nextReg,
		NumOuts: b.numOuts,
	}, nil
}
