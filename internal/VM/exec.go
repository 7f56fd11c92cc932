package VM

import (
	"github.com/sqlvibe/exprcheck/internal/DS"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

// Run executes the program against one input row and returns the output
// slot values. A fresh register file is used per call, so a program can be
// run concurrently from multiple goroutines.
func (p *Program) Run(row DS.Row) ([]DS.Value, error) {
	regs := make([]DS.Value, p.NumRegs)
	outs := make([]DS.Value, p.NumOuts)
	for i := range outs {
		outs[i] = DS.NullValue()
	}

	pc := 0
	steps := 0
	limit := 16 * (len(p.Insts) + 1) // backstop against a mispatched jump loop
	for pc < len(p.Insts) {
		steps++
		if steps > limit {
			return nil, SE.Errorf(SE.EC_INTERNAL, "execution did not terminate (pc=%d)", pc)
		}
		in := p.Insts[pc]
		var err error
		switch in.Op {
		case BcLoadConst:
			regs[in.A] = p.Consts[in.B]
		case BcLoadCol:
			regs[in.A] = row.Get(in.B)
		case BcMove:
			regs[in.A] = regs[in.B]

		case BcAdd:
			regs[in.A], err = AddValues(regs[in.B], regs[in.C])
		case BcSub:
			regs[in.A], err = SubValues(regs[in.B], regs[in.C])
		case BcMul:
			regs[in.A], err = MulValues(regs[in.B], regs[in.C])
		case BcDiv:
			regs[in.A], err = DivValues(regs[in.B], regs[in.C])
		case BcMod:
			regs[in.A], err = ModValues(regs[in.B], regs[in.C])
		case BcConcat:
			regs[in.A], err = ConcatValues(regs[in.B], regs[in.C])

		case BcEq:
			regs[in.A], err = CompareValues("=", regs[in.B], regs[in.C])
		case BcNe:
			regs[in.A], err = CompareValues("<>", regs[in.B], regs[in.C])
		case BcLt:
			regs[in.A], err = CompareValues("<", regs[in.B], regs[in.C])
		case BcLe:
			regs[in.A], err = CompareValues("<=", regs[in.B], regs[in.C])
		case BcGt:
			regs[in.A], err = CompareValues(">", regs[in.B], regs[in.C])
		case BcGe:
			regs[in.A], err = CompareValues(">=", regs[in.B], regs[in.C])

		case BcAnd:
			regs[in.A], err = AndValues(regs[in.B], regs[in.C])
		case BcOr:
			regs[in.A], err = OrValues(regs[in.B], regs[in.C])
		case BcNot:
			regs[in.A], err = NotValue(regs[in.B])
		case BcNeg:
			regs[in.A], err = NegValue(regs[in.B])

		case BcJump:
			pc = in.A
			continue
		case BcJumpFalse:
			truth, null, terr := Truth(regs[in.A])
			if terr != nil {
				return nil, terr
			}
			if null || !truth {
				pc = in.B
				continue
			}

		case BcCall:
			ref := p.Funcs[in.B]
			f, ok := LookupFunc(ref.Name)
			if !ok {
				return nil, SE.Errorf(SE.EC_EVAL, "unknown function %q", ref.Name)
			}
			if err = CheckArity(f, ref.NArgs); err != nil {
				return nil, err
			}
			regs[in.A], err = f.Call(regs[in.C : in.C+ref.NArgs])

		case BcMakeTuple:
			elems := make([]DS.Value, in.C)
			for i := 0; i < in.C; i++ {
				elems[i] = regs[in.B+i].Copy()
			}
			regs[in.A] = DS.TupleValue(elems)

		case BcStoreOut:
			if in.A < 0 || in.A >= len(outs) {
				return nil, SE.Errorf(SE.EC_INTERNAL, "output slot %d out of range", in.A)
			}
			outs[in.A] = regs[in.B]

		default:
			return nil, SE.Errorf(SE.EC_INTERNAL, "invalid opcode %d at pc %d", int(in.Op), pc)
		}
		if err != nil {
			return nil, err
		}
		pc++
	}
	return outs, nil
}
