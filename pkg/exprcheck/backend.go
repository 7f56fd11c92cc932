package exprcheck

import (
	"github.com/sqlvibe/exprcheck/internal/CG"
	"github.com/sqlvibe/exprcheck/internal/DS"
	"github.com/sqlvibe/exprcheck/internal/QE"
	"github.com/sqlvibe/exprcheck/internal/QP"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

// Backend is one evaluation strategy under test.
type Backend interface {
	Name() string
	Run(expr Expr, row DS.Row) (DS.Value, error)
}

// applicabilityChecker is implemented by backends that cannot represent
// every output type; the orchestrator skips them when they report false.
type applicabilityChecker interface {
	Applicable(expr Expr, row DS.Row) bool
}

// resultVerifier is implemented by backends with checks that need the
// expected value, run after the result comparison has passed.
type resultVerifier interface {
	VerifyResult(expected DS.Value) error
}

// mismatchCoder overrides the error code a result mismatch is reported
// under.
type mismatchCoder interface {
	MismatchCode() SE.ErrorCode
}

// backends returns a fresh adapter set per check; no state is shared
// across invocations.
func backends() []Backend {
	return []Backend{
		interpretedBackend{},
		mutableBackend{},
		&safeBackend{},
		packedBackend{},
		optimizedBackend{},
	}
}

// interpretedBackend walks the tree directly. Assertion panics from the
// engine surface as evaluation failures, not process aborts.
type interpretedBackend struct{}

func (interpretedBackend) Name() string { return "interpreted" }

func (interpretedBackend) Run(expr Expr, row DS.Row) (v DS.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = DS.Value{}
			err = SE.Errorf(SE.EC_EVAL, "panic during evaluation: %v", r)
		}
	}()
	return QE.Eval(expr, row)
}

// mutableBackend compiles the expression into a projection that writes
// its result into a freshly allocated mutable row each call, then reads
// slot 0 back.
type mutableBackend struct{}

func (mutableBackend) Name() string { return "codegen-mutable" }

func (mutableBackend) Run(expr Expr, row DS.Row) (DS.Value, error) {
	p, err := CG.CompileMutableProjection([]QP.Expr{expr})
	if err != nil {
		return DS.Value{}, err
	}
	dest := DS.NewMutableRow(p.NumOuts())
	if err := p.Run(row, dest); err != nil {
		return DS.Value{}, err
	}
	return dest.Get(0), nil
}

// safeBackend compiles the expression and materializes the result as an
// immutable row. It keeps the row for representation checks against the
// expected value.
type safeBackend struct {
	row DS.Row
}

func (*safeBackend) Name() string { return "codegen-safe" }

func (b *safeBackend) Run(expr Expr, row DS.Row) (DS.Value, error) {
	p, err := CG.CompileSafeProjection([]QP.Expr{expr})
	if err != nil {
		return DS.Value{}, err
	}
	out, err := p.Run(row)
	if err != nil {
		return DS.Value{}, err
	}
	b.row = out
	return b.row.Get(0), nil
}

// VerifyResult checks the produced row at the representation level: its
// content hash must equal the hash of a row built independently from the
// expected value, and a clone must still equal it.
func (b *safeBackend) VerifyResult(expected DS.Value) error {
	want := DS.NewRow([]DS.Value{expected})
	if b.row.Hash64() != want.Hash64() {
		return SE.Errorf(SE.EC_MISMATCH,
			"row hash %#x differs from expected row hash %#x (row %s)",
			b.row.Hash64(), want.Hash64(), b.row)
	}
	if clone := b.row.Clone(); !clone.Equal(b.row) {
		return SE.Errorf(SE.EC_MISMATCH, "cloned row %s diverged from %s", clone, b.row)
	}
	return nil
}

// packedBackend compiles the expression into a projection that encodes
// the result into the packed binary layout, and always decodes before
// comparing: the comparison must see what a reader of the binary row
// would see.
type packedBackend struct{}

func (packedBackend) Name() string { return "codegen-packed" }

// Applicable reports whether the expression's output type is known to be
// embeddable in the packed layout. The input row supplies column types,
// so a reference to a tuple-valued column is skipped rather than
// attempted; an unknowable output type is skipped conservatively.
func (packedBackend) Applicable(expr Expr, row DS.Row) bool {
	t := QP.InferExprType(expr, rowSchema(row))
	return t != QP.TypeTuple && t != QP.TypeAny
}

func (packedBackend) Run(expr Expr, row DS.Row) (DS.Value, error) {
	p, err := CG.CompilePackedProjection([]QP.Expr{expr})
	if err != nil {
		return DS.Value{}, err
	}
	packed, err := p.Run(row)
	if err != nil {
		return DS.Value{}, err
	}
	decoded, err := packed.Decode()
	if err != nil {
		return DS.Value{}, err
	}
	return decoded.Get(0), nil
}

// rowSchema derives a column-type schema from the input row so type
// inference can see through column references.
func rowSchema(row DS.Row) []QP.ColumnType {
	if row.IsEmpty() {
		return nil
	}
	schema := make([]QP.ColumnType, row.Len())
	for i := range schema {
		schema[i] = columnTypeOf(row.Get(i).Type)
	}
	return schema
}

func columnTypeOf(t DS.ValueType) QP.ColumnType {
	switch t {
	case DS.TypeNull:
		return QP.TypeNull
	case DS.TypeInt:
		return QP.TypeInt
	case DS.TypeFloat:
		return QP.TypeFloat
	case DS.TypeText:
		return QP.TypeText
	case DS.TypeBlob:
		return QP.TypeBlob
	case DS.TypeBool:
		return QP.TypeBool
	case DS.TypeTuple:
		return QP.TypeTuple
	}
	return QP.TypeAny
}

// optimizedBackend rewrites the expression through the projection
// optimizer and interprets the rewritten tree. Any failure or mismatch
// on this path is reported as EC_OPTIMIZE so a rewrite bug is never
// mistaken for a plain evaluation bug.
type optimizedBackend struct{}

func (optimizedBackend) Name() string { return "optimized" }

func (optimizedBackend) MismatchCode() SE.ErrorCode { return SE.EC_OPTIMIZE }

func (optimizedBackend) Run(expr Expr, row DS.Row) (DS.Value, error) {
	plan := QP.NewOptimizer().OptimizeProjection(&QP.Projection{Exprs: []QP.Expr{expr}})
	v, err := interpretedBackend{}.Run(plan.Exprs[0], row)
	if err != nil {
		return DS.Value{}, SE.Wrap(SE.EC_OPTIMIZE, err, "optimized evaluation failed")
	}
	return v, nil
}
