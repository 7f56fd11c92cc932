package QP

import "testing"

func TestInferExprType(t *testing.T) {
	schema := []ColumnType{TypeInt, TypeFloat, TypeText, TypeBlob}
	tests := []struct {
		name string
		expr Expr
		want ColumnType
	}{
		{"int literal", &Literal{Value: 1}, TypeInt},
		{"float literal", &Literal{Value: 2.5}, TypeFloat},
		{"null literal", &Literal{Value: nil}, TypeNull},
		{"bool literal", &Literal{Value: true}, TypeBool},
		{"column", &ColumnRef{Index: 2}, TypeText},
		{"column out of schema", &ColumnRef{Index: 9}, TypeAny},
		{
			"int plus int",
			&BinaryExpr{Op: OpAdd, Left: &ColumnRef{Index: 0}, Right: &Literal{Value: 1}},
			TypeInt,
		},
		{
			"int plus float promotes",
			&BinaryExpr{Op: OpAdd, Left: &ColumnRef{Index: 0}, Right: &ColumnRef{Index: 1}},
			TypeFloat,
		},
		{
			"null absorbs in promotion",
			&BinaryExpr{Op: OpMul, Left: &Literal{Value: nil}, Right: &ColumnRef{Index: 0}},
			TypeInt,
		},
		{
			"comparison is bool",
			&BinaryExpr{Op: OpLt, Left: &ColumnRef{Index: 0}, Right: &Literal{Value: 5}},
			TypeBool,
		},
		{
			"text concat",
			&BinaryExpr{Op: OpConcat, Left: &ColumnRef{Index: 2}, Right: &Literal{Value: "x"}},
			TypeText,
		},
		{
			"blob concat stays blob",
			&BinaryExpr{Op: OpConcat, Left: &ColumnRef{Index: 3}, Right: &Literal{Value: []byte{1}}},
			TypeBlob,
		},
		{
			"blob concat text is text",
			&BinaryExpr{Op: OpConcat, Left: &ColumnRef{Index: 3}, Right: &ColumnRef{Index: 2}},
			TypeText,
		},
		{"not is bool", &UnaryExpr{Op: OpNot, Expr: &ColumnRef{Index: 0}}, TypeBool},
		{"neg passes through", &UnaryExpr{Op: OpNeg, Expr: &ColumnRef{Index: 1}}, TypeFloat},
		{"neg of bool is int", &UnaryExpr{Op: OpNeg, Expr: &Literal{Value: true}}, TypeInt},
		{"length", &FuncCall{Name: "length", Args: []Expr{&ColumnRef{Index: 2}}}, TypeInt},
		{"upper", &FuncCall{Name: "UPPER", Args: []Expr{&ColumnRef{Index: 2}}}, TypeText},
		{"abs of float", &FuncCall{Name: "abs", Args: []Expr{&ColumnRef{Index: 1}}}, TypeFloat},
		{
			"coalesce promotes args",
			&FuncCall{Name: "coalesce", Args: []Expr{&Literal{Value: nil}, &ColumnRef{Index: 0}}},
			TypeInt,
		},
		{"unknown func", &FuncCall{Name: "mystery"}, TypeAny},
		{
			"case promotes results",
			&CaseExpr{
				Whens: []CaseWhen{{Condition: &Literal{Value: true}, Result: &ColumnRef{Index: 0}}},
				Else:  &ColumnRef{Index: 1},
			},
			TypeFloat,
		},
		{"cast int", &CastExpr{Expr: &ColumnRef{Index: 2}, TypeName: "integer"}, TypeInt},
		{"cast text", &CastExpr{Expr: &ColumnRef{Index: 0}, TypeName: "TEXT"}, TypeText},
		{"tuple", &TupleExpr{Elems: []Expr{&Literal{Value: 1}}}, TypeTuple},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferExprType(tt.expr, schema); got != tt.want {
				t.Errorf("InferExprType(%s) = %s, want %s", ExprString(tt.expr), got, tt.want)
			}
		})
	}
}

func TestInferWithNilSchema(t *testing.T) {
	if got := InferExprType(&ColumnRef{Index: 0}, nil); got != TypeAny {
		t.Errorf("nil schema column type = %s, want ANY", got)
	}
}
