package QE

import (
	"testing"

	"github.com/sqlvibe/exprcheck/internal/DS"
	"github.com/sqlvibe/exprcheck/internal/QP"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

func mustEval(t *testing.T, expr QP.Expr, row DS.Row) DS.Value {
	t.Helper()
	v, err := Eval(expr, row)
	if err != nil {
		t.Fatalf("Eval(%s): %v", QP.ExprString(expr), err)
	}
	return v
}

func TestEvalBasics(t *testing.T) {
	row := DS.NewRow([]DS.Value{DS.IntValue(10), DS.TextValue("abc"), DS.NullValue()})
	tests := []struct {
		name string
		expr QP.Expr
		want DS.Value
	}{
		{"literal", &QP.Literal{Value: 42}, DS.IntValue(42)},
		{"null literal", &QP.Literal{Value: nil}, DS.NullValue()},
		{"column", &QP.ColumnRef{Index: 1}, DS.TextValue("abc")},
		{"null column", &QP.ColumnRef{Index: 2}, DS.NullValue()},
		{
			"add",
			&QP.BinaryExpr{Op: QP.OpAdd, Left: &QP.ColumnRef{Index: 0}, Right: &QP.Literal{Value: 5}},
			DS.IntValue(15),
		},
		{
			"mixed add promotes",
			&QP.BinaryExpr{Op: QP.OpAdd, Left: &QP.ColumnRef{Index: 0}, Right: &QP.Literal{Value: 0.5}},
			DS.FloatValue(10.5),
		},
		{
			"null propagates",
			&QP.BinaryExpr{Op: QP.OpMul, Left: &QP.ColumnRef{Index: 2}, Right: &QP.Literal{Value: 3}},
			DS.NullValue(),
		},
		{
			"div by zero is null",
			&QP.BinaryExpr{Op: QP.OpDiv, Left: &QP.ColumnRef{Index: 0}, Right: &QP.Literal{Value: 0}},
			DS.NullValue(),
		},
		{
			"concat",
			&QP.BinaryExpr{Op: QP.OpConcat, Left: &QP.ColumnRef{Index: 1}, Right: &QP.Literal{Value: "!"}},
			DS.TextValue("abc!"),
		},
		{
			"blob concat",
			&QP.BinaryExpr{Op: QP.OpConcat,
				Left:  &QP.Literal{Value: []byte{0x41}},
				Right: &QP.Literal{Value: []byte{0x42, 0x43}}},
			DS.BlobValue([]byte{0x41, 0x42, 0x43}),
		},
		{
			"comparison",
			&QP.BinaryExpr{Op: QP.OpGt, Left: &QP.ColumnRef{Index: 0}, Right: &QP.Literal{Value: 5}},
			DS.BoolValue(true),
		},
		{
			"comparison with null is null",
			&QP.BinaryExpr{Op: QP.OpEq, Left: &QP.ColumnRef{Index: 2}, Right: &QP.Literal{Value: 1}},
			DS.NullValue(),
		},
		{
			"and",
			&QP.BinaryExpr{Op: QP.OpAnd,
				Left:  &QP.BinaryExpr{Op: QP.OpGt, Left: &QP.ColumnRef{Index: 0}, Right: &QP.Literal{Value: 5}},
				Right: &QP.Literal{Value: true}},
			DS.BoolValue(true),
		},
		{"not", &QP.UnaryExpr{Op: QP.OpNot, Expr: &QP.Literal{Value: false}}, DS.BoolValue(true)},
		{"neg", &QP.UnaryExpr{Op: QP.OpNeg, Expr: &QP.ColumnRef{Index: 0}}, DS.IntValue(-10)},
		{
			"func call",
			&QP.FuncCall{Name: "length", Args: []QP.Expr{&QP.ColumnRef{Index: 1}}},
			DS.IntValue(3),
		},
		{
			"nested func call",
			&QP.FuncCall{Name: "upper", Args: []QP.Expr{
				&QP.BinaryExpr{Op: QP.OpConcat, Left: &QP.ColumnRef{Index: 1}, Right: &QP.Literal{Value: "d"}},
			}},
			DS.TextValue("ABCD"),
		},
		{
			"tuple",
			&QP.TupleExpr{Elems: []QP.Expr{&QP.ColumnRef{Index: 0}, &QP.Literal{Value: "x"}}},
			DS.TupleValue([]DS.Value{DS.IntValue(10), DS.TextValue("x")}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEval(t, tt.expr, row)
			if !got.Equal(tt.want) {
				t.Errorf("Eval(%s) = %s, want %s", QP.ExprString(tt.expr), got, tt.want)
			}
		})
	}
}

func TestEvalSearchedCase(t *testing.T) {
	expr := &QP.CaseExpr{
		Whens: []QP.CaseWhen{
			{
				Condition: &QP.BinaryExpr{Op: QP.OpLt, Left: &QP.ColumnRef{Index: 0}, Right: &QP.Literal{Value: 0}},
				Result:    &QP.Literal{Value: "neg"},
			},
			{
				Condition: &QP.BinaryExpr{Op: QP.OpEq, Left: &QP.ColumnRef{Index: 0}, Right: &QP.Literal{Value: 0}},
				Result:    &QP.Literal{Value: "zero"},
			},
		},
		Else: &QP.Literal{Value: "pos"},
	}
	tests := []struct {
		in   DS.Value
		want string
	}{
		{DS.IntValue(-4), "neg"},
		{DS.IntValue(0), "zero"},
		{DS.IntValue(9), "pos"},
		{DS.NullValue(), "pos"}, // NULL conditions never fire
	}
	for _, tt := range tests {
		got := mustEval(t, expr, DS.NewRow([]DS.Value{tt.in}))
		if !got.Equal(DS.TextValue(tt.want)) {
			t.Errorf("CASE(%s) = %s, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEvalSimpleCase(t *testing.T) {
	expr := &QP.CaseExpr{
		Operand: &QP.ColumnRef{Index: 0},
		Whens: []QP.CaseWhen{
			{Condition: &QP.Literal{Value: 1}, Result: &QP.Literal{Value: "one"}},
			{Condition: &QP.Literal{Value: 2}, Result: &QP.Literal{Value: "two"}},
		},
		Else: &QP.Literal{Value: "many"},
	}
	tests := []struct {
		in   DS.Value
		want string
	}{
		{DS.IntValue(1), "one"},
		{DS.IntValue(2), "two"},
		{DS.IntValue(7), "many"},
		{DS.NullValue(), "many"}, // NULL operand matches nothing
	}
	for _, tt := range tests {
		got := mustEval(t, expr, DS.NewRow([]DS.Value{tt.in}))
		if !got.Equal(DS.TextValue(tt.want)) {
			t.Errorf("CASE %s = %s, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEvalCaseWithoutElse(t *testing.T) {
	expr := &QP.CaseExpr{
		Whens: []QP.CaseWhen{
			{Condition: &QP.Literal{Value: false}, Result: &QP.Literal{Value: 1}},
		},
	}
	got := mustEval(t, expr, DS.EmptyRow)
	if !got.IsNull() {
		t.Errorf("CASE with no match and no ELSE = %s, want NULL", got)
	}
}

func TestEvalCast(t *testing.T) {
	got := mustEval(t, &QP.CastExpr{Expr: &QP.Literal{Value: "42"}, TypeName: "INT"}, DS.EmptyRow)
	if !got.Equal(DS.IntValue(42)) {
		t.Errorf("CAST('42' AS INT) = %s", got)
	}

	_, err := Eval(&QP.CastExpr{Expr: &QP.Literal{Value: "nope"}, TypeName: "INT"}, DS.EmptyRow)
	if SE.ErrorCodeOf(err) != SE.EC_EVAL {
		t.Errorf("strict cast should fail with EC_EVAL, got %v", err)
	}

	_, err = Eval(&QP.CastExpr{Expr: &QP.Literal{Value: 1}, TypeName: "DATETIME"}, DS.EmptyRow)
	if SE.ErrorCodeOf(err) != SE.EC_EVAL {
		t.Errorf("unknown cast target should fail with EC_EVAL, got %v", err)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		expr QP.Expr
	}{
		{"unknown function", &QP.FuncCall{Name: "mystery"}},
		{"bad arity", &QP.FuncCall{Name: "abs", Args: []QP.Expr{&QP.Literal{Value: 1}, &QP.Literal{Value: 2}}}},
		{
			"arithmetic on text",
			&QP.BinaryExpr{Op: QP.OpAdd, Left: &QP.Literal{Value: "x"}, Right: &QP.Literal{Value: 1}},
		},
		{
			"error inside nested arg",
			&QP.FuncCall{Name: "abs", Args: []QP.Expr{
				&QP.BinaryExpr{Op: QP.OpSub, Left: &QP.Literal{Value: "x"}, Right: &QP.Literal{Value: 1}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.expr, DS.EmptyRow)
			if SE.ErrorCodeOf(err) != SE.EC_EVAL {
				t.Errorf("expected EC_EVAL, got %v", err)
			}
		})
	}
}

