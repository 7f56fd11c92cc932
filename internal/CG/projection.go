package CG

import (
	"github.com/sqlvibe/exprcheck/internal/DS"
	"github.com/sqlvibe/exprcheck/internal/QP"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
	"github.com/sqlvibe/exprcheck/internal/VM"
	"github.com/sqlvibe/exprcheck/internal/log"
)

// compileProjection lowers a list of output expressions into one program
// with one output slot per expression. Compile failures carry the partial
// disassembly as error detail.
func compileProjection(kind string, exprs []QP.Expr) (*VM.Program, error) {
	b := VM.NewBytecodeBuilder(len(exprs))
	c := &exprCompiler{b: b}
	for i, e := range exprs {
		r, err := c.compile(e)
		if err != nil {
			return nil, SE.WithDetail(err, b.Disasm())
		}
		b.EmitABC(VM.BcStoreOut, i, r, 0)
	}
	p, err := b.Build()
	if err != nil {
		return nil, SE.WithDetail(err, b.Disasm())
	}
	log.Debug("compiled %s projection: %d exprs, %d insts, %d regs",
		kind, len(exprs), len(p.Insts), p.NumRegs)
	return p, nil
}

// MutableProjection writes its outputs into a caller-owned mutable row,
// one slot per output expression.
type MutableProjection struct {
	prog *VM.Program
}

// CompileMutableProjection compiles a projection whose outputs are
// written into a reused mutable row.
func CompileMutableProjection(exprs []QP.Expr) (*MutableProjection, error) {
	p, err := compileProjection("mutable", exprs)
	if err != nil {
		return nil, err
	}
	return &MutableProjection{prog: p}, nil
}

// NumOuts returns the number of output slots the projection fills.
func (p *MutableProjection) NumOuts() int { return p.prog.NumOuts }

// Run evaluates the projection over row and overwrites the first NumOuts
// slots of dest in place.
func (p *MutableProjection) Run(row DS.Row, dest *DS.MutableRow) error {
	if dest == nil || dest.Len() < p.prog.NumOuts {
		return SE.Errorf(SE.EC_MISUSE, "destination row needs %d slots", p.prog.NumOuts)
	}
	outs, err := p.prog.Run(row)
	if err != nil {
		return err
	}
	for i, v := range outs {
		dest.Set(i, v)
	}
	return nil
}

func (p *MutableProjection) Disasm() string { return p.prog.Disasm() }

// SafeProjection materializes a fresh immutable row on every run.
type SafeProjection struct {
	prog *VM.Program
}

// CompileSafeProjection compiles a projection whose outputs are copied
// into a fresh immutable row on every run.
func CompileSafeProjection(exprs []QP.Expr) (*SafeProjection, error) {
	p, err := compileProjection("safe", exprs)
	if err != nil {
		return nil, err
	}
	return &SafeProjection{prog: p}, nil
}

// Run evaluates the projection over row and returns the outputs as a new
// immutable row.
func (p *SafeProjection) Run(row DS.Row) (DS.Row, error) {
	outs, err := p.prog.Run(row)
	if err != nil {
		return DS.Row{}, err
	}
	return DS.NewRow(outs), nil
}

func (p *SafeProjection) Disasm() string { return p.prog.Disasm() }

// PackedProjection encodes its outputs into the packed binary row layout.
type PackedProjection struct {
	prog *VM.Program
}

// CompilePackedProjection compiles a projection whose outputs are encoded
// into the packed binary row format. Output types the format cannot
// represent are rejected at compile time.
func CompilePackedProjection(exprs []QP.Expr) (*PackedProjection, error) {
	for i, e := range exprs {
		if QP.InferExprType(e, nil) == QP.TypeTuple {
			return nil, SE.Errorf(SE.EC_CODEGEN,
				"output %d has type TUPLE, which the packed layout cannot hold", i)
		}
	}
	p, err := compileProjection("packed", exprs)
	if err != nil {
		return nil, err
	}
	return &PackedProjection{prog: p}, nil
}

// Run evaluates the projection over row and encodes the outputs into a
// packed row buffer.
func (p *PackedProjection) Run(row DS.Row) (DS.PackedRow, error) {
	outs, err := p.prog.Run(row)
	if err != nil {
		return DS.PackedRow{}, err
	}
	return DS.EncodePackedRow(outs)
}

func (p *PackedProjection) Disasm() string { return p.prog.Disasm() }
