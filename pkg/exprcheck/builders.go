// Package exprcheck cross-checks expression evaluation strategies: the
// same expression is evaluated by a tree-walking interpreter, by compiled
// register programs over mutable, immutable and packed-binary rows, and
// by an optimize-then-interpret path, and every result must agree with
// the caller-supplied expected value.
package exprcheck

import (
	"github.com/sqlvibe/exprcheck/internal/QP"
)

// Expr is an expression tree node, built with the helpers below.
type Expr = QP.Expr

// When pairs a CASE condition with its result.
type When = QP.CaseWhen

// Lit builds a constant from a host literal; nil means NULL.
func Lit(value interface{}) Expr { return &QP.Literal{Value: value} }

// Col references an input-row column by position.
func Col(index int) Expr { return &QP.ColumnRef{Index: index} }

// NamedCol references a column by position with a display name for
// diagnostics.
func NamedCol(index int, name string) Expr {
	return &QP.ColumnRef{Index: index, Name: name}
}

func binary(op QP.Op, left, right Expr) Expr {
	return &QP.BinaryExpr{Op: op, Left: left, Right: right}
}

func Add(left, right Expr) Expr    { return binary(QP.OpAdd, left, right) }
func Sub(left, right Expr) Expr    { return binary(QP.OpSub, left, right) }
func Mul(left, right Expr) Expr    { return binary(QP.OpMul, left, right) }
func Div(left, right Expr) Expr    { return binary(QP.OpDiv, left, right) }
func Mod(left, right Expr) Expr    { return binary(QP.OpMod, left, right) }
func Concat(left, right Expr) Expr { return binary(QP.OpConcat, left, right) }
func Eq(left, right Expr) Expr     { return binary(QP.OpEq, left, right) }
func Ne(left, right Expr) Expr     { return binary(QP.OpNe, left, right) }
func Lt(left, right Expr) Expr     { return binary(QP.OpLt, left, right) }
func Le(left, right Expr) Expr     { return binary(QP.OpLe, left, right) }
func Gt(left, right Expr) Expr     { return binary(QP.OpGt, left, right) }
func Ge(left, right Expr) Expr     { return binary(QP.OpGe, left, right) }
func And(left, right Expr) Expr    { return binary(QP.OpAnd, left, right) }
func Or(left, right Expr) Expr     { return binary(QP.OpOr, left, right) }

func Not(expr Expr) Expr { return &QP.UnaryExpr{Op: QP.OpNot, Expr: expr} }
func Neg(expr Expr) Expr { return &QP.UnaryExpr{Op: QP.OpNeg, Expr: expr} }

// Fn calls a builtin scalar function by name.
func Fn(name string, args ...Expr) Expr {
	return &QP.FuncCall{Name: name, Args: args}
}

// Cast converts to the named type; the conversion is strict.
func Cast(expr Expr, typeName string) Expr {
	return &QP.CastExpr{Expr: expr, TypeName: typeName}
}

// Tuple builds a row constructor. Its result cannot be held by the
// packed binary row layout.
func Tuple(elems ...Expr) Expr { return &QP.TupleExpr{Elems: elems} }

// Case builds a searched CASE: the first condition with a true result
// selects its branch, otherwise elseExpr (nil for NULL).
func Case(whens []When, elseExpr Expr) Expr {
	return &QP.CaseExpr{Whens: whens, Else: elseExpr}
}

// CaseOf builds a simple CASE matching operand against each condition by
// equality.
func CaseOf(operand Expr, whens []When, elseExpr Expr) Expr {
	return &QP.CaseExpr{Operand: operand, Whens: whens, Else: elseExpr}
}

// ExprString renders an expression as diagnostic text.
func ExprString(expr Expr) string { return QP.ExprString(expr) }
