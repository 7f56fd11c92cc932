package QP

import (
	"fmt"
	"strings"
)

// Op identifies a binary or unary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNot
	OpNeg
)

var opNames = []string{"+", "-", "*", "/", "%", "||", "=", "<>", "<", "<=", ">", ">=", "AND", "OR", "NOT", "-"}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("OP(%d)", int(o))
}

// Expr is an immutable expression tree node. Expressions are shared
// read-only across backends; no node is mutated after construction.
type Expr interface {
	exprNode()
}

// Literal is a host-level constant; its value is converted to the internal
// representation at evaluation time.
type Literal struct {
	Value interface{}
}

func (e *Literal) exprNode() {}

// ColumnRef refers to an input-row column by position. Name is optional
// and used only in diagnostics.
type ColumnRef struct {
	Index int
	Name  string
}

func (e *ColumnRef) exprNode() {}

type BinaryExpr struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) exprNode() {}

type UnaryExpr struct {
	Op   Op
	Expr Expr
}

func (e *UnaryExpr) exprNode() {}

type FuncCall struct {
	Name string
	Args []Expr
}

func (e *FuncCall) exprNode() {}

type CaseWhen struct {
	Condition Expr
	Result    Expr
}

type CaseExpr struct {
	Operand Expr // nil for searched CASE
	Whens   []CaseWhen
	Else    Expr
}

func (e *CaseExpr) exprNode() {}

// CastExpr converts its operand to the named type ("INT", "FLOAT",
// "TEXT", "BLOB"). Casts are strict: an unconvertible operand raises an
// evaluation failure rather than producing a default.
type CastExpr struct {
	Expr     Expr
	TypeName string
}

func (e *CastExpr) exprNode() {}

// TupleExpr is a row constructor. Its output type is a nested tuple, which
// the packed binary layout cannot represent.
type TupleExpr struct {
	Elems []Expr
}

func (e *TupleExpr) exprNode() {}

// ExprString renders an expression as diagnostic text.
func ExprString(expr Expr) string {
	switch e := expr.(type) {
	case nil:
		return "<nil>"
	case *Literal:
		return literalString(e.Value)
	case *ColumnRef:
		if e.Name != "" {
			return e.Name
		}
		return fmt.Sprintf("$%d", e.Index)
	case *BinaryExpr:
		return "(" + ExprString(e.Left) + " " + e.Op.String() + " " + ExprString(e.Right) + ")"
	case *UnaryExpr:
		return "(" + e.Op.String() + " " + ExprString(e.Expr) + ")"
	case *FuncCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = ExprString(a)
		}
		return strings.ToUpper(e.Name) + "(" + strings.Join(args, ", ") + ")"
	case *CaseExpr:
		var sb strings.Builder
		sb.WriteString("CASE")
		if e.Operand != nil {
			sb.WriteString(" " + ExprString(e.Operand))
		}
		for _, w := range e.Whens {
			sb.WriteString(" WHEN " + ExprString(w.Condition) + " THEN " + ExprString(w.Result))
		}
		if e.Else != nil {
			sb.WriteString(" ELSE " + ExprString(e.Else))
		}
		sb.WriteString(" END")
		return sb.String()
	case *CastExpr:
		return "CAST(" + ExprString(e.Expr) + " AS " + strings.ToUpper(e.TypeName) + ")"
	case *TupleExpr:
		elems := make([]string, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = ExprString(el)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}
	return fmt.Sprintf("<%T>", expr)
}

func literalString(v interface{}) string {
	switch lv := v.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("'%s'", lv)
	case []byte:
		return fmt.Sprintf("x'%x'", lv)
	default:
		return fmt.Sprintf("%v", lv)
	}
}
