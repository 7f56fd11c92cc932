package QE

import (
	"github.com/sqlvibe/exprcheck/internal/DS"
	"github.com/sqlvibe/exprcheck/internal/QP"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
	"github.com/sqlvibe/exprcheck/internal/VM"
)

// Eval evaluates an expression tree against one input row by walking the
// tree directly. Scalar operations go through the shared value kernels,
// so a tree walk and a compiled program cannot disagree on arithmetic.
func Eval(expr QP.Expr, row DS.Row) (DS.Value, error) {
	switch e := expr.(type) {
	case *QP.Literal:
		return DS.Convert(e.Value)

	case *QP.ColumnRef:
		return row.Get(e.Index), nil

	case *QP.BinaryExpr:
		left, err := Eval(e.Left, row)
		if err != nil {
			return DS.Value{}, err
		}
		right, err := Eval(e.Right, row)
		if err != nil {
			return DS.Value{}, err
		}
		return applyBinary(e.Op, left, right)

	case *QP.UnaryExpr:
		v, err := Eval(e.Expr, row)
		if err != nil {
			return DS.Value{}, err
		}
		switch e.Op {
		case QP.OpNot:
			return VM.NotValue(v)
		case QP.OpNeg:
			return VM.NegValue(v)
		}
		return DS.Value{}, SE.Errorf(SE.EC_INTERNAL, "unary operator %s", e.Op)

	case *QP.FuncCall:
		return evalFuncCall(e, row)

	case *QP.CaseExpr:
		return evalCase(e, row)

	case *QP.CastExpr:
		return evalCast(e, row)

	case *QP.TupleExpr:
		elems := make([]DS.Value, len(e.Elems))
		for i, el := range e.Elems {
			v, err := Eval(el, row)
			if err != nil {
				return DS.Value{}, err
			}
			elems[i] = v
		}
		return DS.TupleValue(elems), nil
	}
	return DS.Value{}, SE.Errorf(SE.EC_INTERNAL, "unknown expression node %T", expr)
}

func applyBinary(op QP.Op, a, b DS.Value) (DS.Value, error) {
	switch op {
	case QP.OpAdd:
		return VM.AddValues(a, b)
	case QP.OpSub:
		return VM.SubValues(a, b)
	case QP.OpMul:
		return VM.MulValues(a, b)
	case QP.OpDiv:
		return VM.DivValues(a, b)
	case QP.OpMod:
		return VM.ModValues(a, b)
	case QP.OpConcat:
		return VM.ConcatValues(a, b)
	case QP.OpEq, QP.OpNe, QP.OpLt, QP.OpLe, QP.OpGt, QP.OpGe:
		return VM.CompareValues(op.String(), a, b)
	case QP.OpAnd:
		return VM.AndValues(a, b)
	case QP.OpOr:
		return VM.OrValues(a, b)
	}
	return DS.Value{}, SE.Errorf(SE.EC_INTERNAL, "binary operator %s", op)
}

func evalFuncCall(e *QP.FuncCall, row DS.Row) (DS.Value, error) {
	f, ok := VM.LookupFunc(e.Name)
	if !ok {
		return DS.Value{}, SE.Errorf(SE.EC_EVAL, "unknown function %q", e.Name)
	}
	if err := VM.CheckArity(f, len(e.Args)); err != nil {
		return DS.Value{}, err
	}
	args := make([]DS.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := Eval(a, row)
		if err != nil {
			return DS.Value{}, err
		}
		args[i] = v
	}
	return f.Call(args)
}

func evalCase(e *QP.CaseExpr, row DS.Row) (DS.Value, error) {
	var operand DS.Value
	if e.Operand != nil {
		v, err := Eval(e.Operand, row)
		if err != nil {
			return DS.Value{}, err
		}
		operand = v
	}
	for _, w := range e.Whens {
		cond, err := Eval(w.Condition, row)
		if err != nil {
			return DS.Value{}, err
		}
		var fire bool
		if e.Operand != nil {
			// Simple CASE matches by equality; a NULL operand or
			// condition matches nothing.
			eq, err := VM.CompareValues("=", operand, cond)
			if err != nil {
				return DS.Value{}, err
			}
			fire = !eq.IsNull() && eq.Bool()
		} else {
			truth, null, err := VM.Truth(cond)
			if err != nil {
				return DS.Value{}, err
			}
			fire = !null && truth
		}
		if fire {
			return Eval(w.Result, row)
		}
	}
	if e.Else != nil {
		return Eval(e.Else, row)
	}
	return DS.NullValue(), nil
}

func evalCast(e *QP.CastExpr, row DS.Row) (DS.Value, error) {
	v, err := Eval(e.Expr, row)
	if err != nil {
		return DS.Value{}, err
	}
	name, ok := VM.CastFuncName(e.TypeName)
	if !ok {
		return DS.Value{}, SE.Errorf(SE.EC_EVAL, "unknown cast target %q", e.TypeName)
	}
	f, _ := VM.LookupFunc(name)
	return f.Call([]DS.Value{v})
}
