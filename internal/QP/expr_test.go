package QP

import "testing"

func TestExprString(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{&Literal{Value: nil}, "NULL"},
		{&Literal{Value: 42}, "42"},
		{&Literal{Value: "hi"}, "'hi'"},
		{&Literal{Value: []byte{0xab, 0xcd}}, "x'abcd'"},
		{&ColumnRef{Index: 2}, "$2"},
		{&ColumnRef{Index: 0, Name: "a"}, "a"},
		{
			&BinaryExpr{Op: OpAdd, Left: &ColumnRef{Index: 0}, Right: &Literal{Value: 1}},
			"($0 + 1)",
		},
		{
			&BinaryExpr{Op: OpAnd,
				Left:  &BinaryExpr{Op: OpGt, Left: &ColumnRef{Index: 0}, Right: &Literal{Value: 5}},
				Right: &UnaryExpr{Op: OpNot, Expr: &ColumnRef{Index: 1}}},
			"(($0 > 5) AND (NOT $1))",
		},
		{&UnaryExpr{Op: OpNeg, Expr: &Literal{Value: 3}}, "(- 3)"},
		{&FuncCall{Name: "upper", Args: []Expr{&Literal{Value: "x"}}}, "UPPER('x')"},
		{
			&CaseExpr{
				Whens: []CaseWhen{{Condition: &Literal{Value: true}, Result: &Literal{Value: 1}}},
				Else:  &Literal{Value: 0},
			},
			"CASE WHEN true THEN 1 ELSE 0 END",
		},
		{&CastExpr{Expr: &Literal{Value: "9"}, TypeName: "int"}, "CAST('9' AS INT)"},
		{&TupleExpr{Elems: []Expr{&Literal{Value: 1}, &Literal{Value: "a"}}}, "(1, 'a')"},
	}
	for _, tt := range tests {
		if got := ExprString(tt.expr); got != tt.want {
			t.Errorf("ExprString = %q, want %q", got, tt.want)
		}
	}
}

func TestOpString(t *testing.T) {
	if OpConcat.String() != "||" {
		t.Errorf("OpConcat.String() = %q", OpConcat.String())
	}
	if Op(99).String() != "OP(99)" {
		t.Errorf("unknown op = %q", Op(99).String())
	}
}
