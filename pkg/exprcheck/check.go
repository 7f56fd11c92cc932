package exprcheck

import (
	"github.com/sqlvibe/exprcheck/internal/CG"
	"github.com/sqlvibe/exprcheck/internal/DS"
	"github.com/sqlvibe/exprcheck/internal/QP"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
	"github.com/sqlvibe/exprcheck/internal/log"
)

// EmptyRow is the zero-column input row for expressions over constants.
var EmptyRow = DS.EmptyRow

// BuildRow converts host literals into an immutable input row, preserving
// position. The whole build fails on the first literal with no internal
// representation, naming its position and value.
func BuildRow(values ...interface{}) (DS.Row, error) {
	cols := make([]DS.Value, len(values))
	for i, v := range values {
		cv, err := DS.Convert(v)
		if err != nil {
			return DS.Row{}, SE.Wrap(SE.EC_CONVERT, err, "column %d (%v)", i, v)
		}
		cols[i] = cv
	}
	return DS.NewRow(cols), nil
}

// CheckEvaluation evaluates expr over row on every backend and verifies
// each result against the expected literal. It fails fast: the first
// backend failure or result mismatch is returned with the expression
// text, the backend name, and the input row when there is one.
func CheckEvaluation(expr Expr, expected interface{}, row DS.Row) error {
	if expr == nil {
		return SE.NewError(SE.EC_MISUSE, "nil expression")
	}
	want, err := DS.Convert(expected)
	if err != nil {
		return SE.Wrap(SE.EC_CONVERT, err, "expected value %v", expected)
	}

	// Validate code generation up front: a malformed expression is a
	// generation failure carrying the program text, never an evaluation
	// failure from whichever backend happens to run first.
	if _, err := CG.CompileSafeProjection([]QP.Expr{expr}); err != nil {
		return SE.Wrap(SE.ErrorCodeOf(err), err,
			"code generation failed for %s", ExprString(expr))
	}

	for _, b := range backends() {
		if ac, ok := b.(applicabilityChecker); ok && !ac.Applicable(expr, row) {
			log.Debug("skipping %s for %s", b.Name(), ExprString(expr))
			continue
		}
		got, err := b.Run(expr, row)
		if err != nil {
			return SE.Wrap(SE.ErrorCodeOf(err), err,
				"backend %s failed on %s%s", b.Name(), ExprString(expr), rowSuffix(row))
		}
		if !ValuesEqual(got, want) {
			code := SE.EC_MISMATCH
			if mc, ok := b.(mismatchCoder); ok {
				code = mc.MismatchCode()
			}
			return SE.Errorf(code, "backend %s: %s = %s, want %s%s",
				b.Name(), ExprString(expr), got, want, rowSuffix(row))
		}
		if rv, ok := b.(resultVerifier); ok {
			if err := rv.VerifyResult(want); err != nil {
				return SE.Wrap(SE.ErrorCodeOf(err), err,
					"backend %s representation check failed on %s", b.Name(), ExprString(expr))
			}
		}
	}
	return nil
}

// CheckDoubleEvaluation verifies a floating-point expression on the
// interpreted backend only, accepting any numeric result within
// expected ± tolerance. Exact cross-backend agreement is deliberately
// not required here.
func CheckDoubleEvaluation(expr Expr, expected float64, tolerance float64, row DS.Row) error {
	if expr == nil {
		return SE.NewError(SE.EC_MISUSE, "nil expression")
	}
	if tolerance < 0 {
		return SE.Errorf(SE.EC_MISUSE, "negative tolerance %v", tolerance)
	}
	got, err := interpretedBackend{}.Run(expr, row)
	if err != nil {
		return SE.Wrap(SE.ErrorCodeOf(err), err,
			"interpreted evaluation failed on %s%s", ExprString(expr), rowSuffix(row))
	}
	var f float64
	switch got.Type {
	case DS.TypeFloat:
		f = got.Float
	case DS.TypeInt, DS.TypeBool:
		f = float64(got.Int)
	default:
		return SE.Errorf(SE.EC_MISMATCH, "%s = %s, want a numeric result%s",
			ExprString(expr), got, rowSuffix(row))
	}
	if !floatWithin(f, expected, tolerance) {
		return SE.Errorf(SE.EC_RANGE, "%s = %v, want %v ± %v%s",
			ExprString(expr), f, expected, tolerance, rowSuffix(row))
	}
	return nil
}

func rowSuffix(row DS.Row) string {
	if row.IsEmpty() {
		return ""
	}
	return " over row " + row.String()
}
