package CG

import (
	"github.com/sqlvibe/exprcheck/internal/DS"
	"github.com/sqlvibe/exprcheck/internal/QP"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
	"github.com/sqlvibe/exprcheck/internal/VM"
)

// exprCompiler lowers one expression tree into register bytecode. Each
// node yields the register holding its value.
type exprCompiler struct {
	b *VM.BytecodeBuilder
}

func (c *exprCompiler) compile(expr QP.Expr) (int, error) {
	switch e := expr.(type) {
	case *QP.Literal:
		v, err := DS.Convert(e.Value)
		if err != nil {
			return 0, SE.Wrap(SE.EC_CODEGEN, err, "unsupported literal")
		}
		dst := c.b.AllocReg()
		c.b.EmitABC(VM.BcLoadConst, dst, c.b.AddConst(v), 0)
		return dst, nil

	case *QP.ColumnRef:
		dst := c.b.AllocReg()
		c.b.EmitABC(VM.BcLoadCol, dst, e.Index, 0)
		return dst, nil

	case *QP.BinaryExpr:
		left, err := c.compile(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := c.compile(e.Right)
		if err != nil {
			return 0, err
		}
		op, ok := binaryOpcodes[e.Op]
		if !ok {
			return 0, SE.Errorf(SE.EC_CODEGEN, "no opcode for operator %s", e.Op)
		}
		dst := c.b.AllocReg()
		c.b.EmitABC(op, dst, left, right)
		return dst, nil

	case *QP.UnaryExpr:
		src, err := c.compile(e.Expr)
		if err != nil {
			return 0, err
		}
		dst := c.b.AllocReg()
		switch e.Op {
		case QP.OpNot:
			c.b.EmitABC(VM.BcNot, dst, src, 0)
		case QP.OpNeg:
			c.b.EmitABC(VM.BcNeg, dst, src, 0)
		default:
			return 0, SE.Errorf(SE.EC_CODEGEN, "no opcode for unary operator %s", e.Op)
		}
		return dst, nil

	case *QP.FuncCall:
		return c.compileCall(e.Name, e.Args)

	case *QP.CaseExpr:
		return c.compileCase(e)

	case *QP.CastExpr:
		name, ok := VM.CastFuncName(e.TypeName)
		if !ok {
			return 0, SE.Errorf(SE.EC_CODEGEN, "unknown cast target %q", e.TypeName)
		}
		return c.compileCall(name, []QP.Expr{e.Expr})

	case *QP.TupleExpr:
		base, err := c.compileArgBlock(e.Elems)
		if err != nil {
			return 0, err
		}
		dst := c.b.AllocReg()
		c.b.EmitABC(VM.BcMakeTuple, dst, base, len(e.Elems))
		return dst, nil
	}
	return 0, SE.Errorf(SE.EC_CODEGEN, "unknown expression node %T", expr)
}

var binaryOpcodes = map[QP.Op]VM.Opcode{
	QP.OpAdd:    VM.BcAdd,
	QP.OpSub:    VM.BcSub,
	QP.OpMul:    VM.BcMul,
	QP.OpDiv:    VM.BcDiv,
	QP.OpMod:    VM.BcMod,
	QP.OpConcat: VM.BcConcat,
	QP.OpEq:     VM.BcEq,
	QP.OpNe:     VM.BcNe,
	QP.OpLt:     VM.BcLt,
	QP.OpLe:     VM.BcLe,
	QP.OpGt:     VM.BcGt,
	QP.OpGe:     VM.BcGe,
	QP.OpAnd:    VM.BcAnd,
	QP.OpOr:     VM.BcOr,
}

// compileCall resolves the builtin at compile time, so a call that can
// never succeed is a compile failure rather than a runtime one.
func (c *exprCompiler) compileCall(name string, args []QP.Expr) (int, error) {
	f, ok := VM.LookupFunc(name)
	if !ok {
		return 0, SE.Errorf(SE.EC_CODEGEN, "unknown function %q", name)
	}
	if err := VM.CheckArity(f, len(args)); err != nil {
		return 0, SE.Wrap(SE.EC_CODEGEN, err, "bad call")
	}
	base, err := c.compileArgBlock(args)
	if err != nil {
		return 0, err
	}
	dst := c.b.AllocReg()
	c.b.EmitABC(VM.BcCall, dst, c.b.AddFuncRef(f.Name, len(args)), base)
	return dst, nil
}

// compileArgBlock evaluates expressions into a run of consecutive
// registers, the calling convention BcCall and BcMakeTuple share.
func (c *exprCompiler) compileArgBlock(args []QP.Expr) (int, error) {
	base := c.b.AllocReg()
	for i := 1; i < len(args); i++ {
		c.b.AllocReg()
	}
	for i, a := range args {
		r, err := c.compile(a)
		if err != nil {
			return 0, err
		}
		c.b.EmitABC(VM.BcMove, base+i, r, 0)
	}
	return base, nil
}

func (c *exprCompiler) compileCase(e *QP.CaseExpr) (int, error) {
	dst := c.b.AllocReg()
	end := c.b.AllocLabel()

	operandReg := -1
	if e.Operand != nil {
		r, err := c.compile(e.Operand)
		if err != nil {
			return 0, err
		}
		operandReg = r
	}

	for _, w := range e.Whens {
		next := c.b.AllocLabel()
		condReg, err := c.compile(w.Condition)
		if err != nil {
			return 0, err
		}
		if operandReg >= 0 {
			// Simple CASE: branch on operand = condition. A NULL result
			// falls through like false, matching the no-match rule.
			eqReg := c.b.AllocReg()
			c.b.EmitABC(VM.BcEq, eqReg, operandReg, condReg)
			condReg = eqReg
		}
		c.b.EmitJumpFalse(condReg, next)
		resultReg, err := c.compile(w.Result)
		if err != nil {
			return 0, err
		}
		c.b.EmitABC(VM.BcMove, dst, resultReg, 0)
		c.b.EmitJump(end)
		c.b.BindLabel(next)
	}

	if e.Else != nil {
		elseReg, err := c.compile(e.Else)
		if err != nil {
			return 0, err
		}
		c.b.EmitABC(VM.BcMove, dst, elseReg, 0)
	} else {
		c.b.EmitABC(VM.BcLoadConst, dst, c.b.AddConst(DS.NullValue()), 0)
	}
	c.b.BindLabel(end)
	return dst, nil
}
