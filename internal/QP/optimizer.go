package QP

import "math"

// Projection is the trivial single-row plan the optimizer rewrites: a list
// of output expressions over a one-row relation.
type Projection struct {
	Exprs []Expr
}

// Optimizer rewrites projection plans. Rewrites are pure: input
// expressions are never mutated, and every rewrite preserves evaluation
// semantics exactly, including NULL propagation and error behavior.
type Optimizer struct{}

func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// OptimizeProjection runs all rewrite passes over the plan and returns a
// new plan; the input plan is left untouched.
func (o *Optimizer) OptimizeProjection(p *Projection) *Projection {
	if p == nil || len(p.Exprs) == 0 {
		return p
	}
	out := &Projection{Exprs: make([]Expr, len(p.Exprs))}
	for i, e := range p.Exprs {
		out.Exprs[i] = o.optimizeExpr(e)
	}
	return out
}

func (o *Optimizer) optimizeExpr(expr Expr) Expr {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *Literal, *ColumnRef:
		return expr

	case *BinaryExpr:
		left := o.optimizeExpr(e.Left)
		right := o.optimizeExpr(e.Right)
		if folded, ok := o.foldBinary(e.Op, left, right); ok {
			return folded
		}
		return &BinaryExpr{Op: e.Op, Left: left, Right: right}

	case *UnaryExpr:
		inner := o.optimizeExpr(e.Expr)
		if folded, ok := o.foldUnary(e.Op, inner); ok {
			return folded
		}
		// Double negation / double NOT elimination when provably safe.
		if u, ok := inner.(*UnaryExpr); ok && u.Op == e.Op {
			switch e.Op {
			case OpNot:
				if isBooleanShaped(u.Expr) {
					return u.Expr
				}
			case OpNeg:
				t := InferExprType(u.Expr, nil)
				if t == TypeInt || t == TypeFloat {
					return u.Expr
				}
			}
		}
		return &UnaryExpr{Op: e.Op, Expr: inner}

	case *FuncCall:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = o.optimizeExpr(a)
		}
		return &FuncCall{Name: e.Name, Args: args}

	case *CaseExpr:
		return o.optimizeCase(e)

	case *CastExpr:
		// Casts are strict and may raise; never folded away.
		return &CastExpr{Expr: o.optimizeExpr(e.Expr), TypeName: e.TypeName}

	case *TupleExpr:
		elems := make([]Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = o.optimizeExpr(el)
		}
		return &TupleExpr{Elems: elems}
	}
	return expr
}

// optimizeCase prunes WHEN branches with constant-false (or NULL)
// conditions and collapses the CASE once a constant-true condition is the
// first live branch.
func (o *Optimizer) optimizeCase(e *CaseExpr) Expr {
	if e.Operand != nil {
		// Simple CASE: only optimize subtrees; branch selection depends on
		// the operand value.
		out := &CaseExpr{Operand: o.optimizeExpr(e.Operand)}
		for _, w := range e.Whens {
			out.Whens = append(out.Whens, CaseWhen{
				Condition: o.optimizeExpr(w.Condition),
				Result:    o.optimizeExpr(w.Result),
			})
		}
		if e.Else != nil {
			out.Else = o.optimizeExpr(e.Else)
		}
		return out
	}

	var kept []CaseWhen
	for _, w := range e.Whens {
		cond := o.optimizeExpr(w.Condition)
		result := o.optimizeExpr(w.Result)
		if lit, ok := cond.(*Literal); ok {
			switch lv := normalizeLiteral(lit.Value).(type) {
			case nil:
				continue // NULL condition never fires
			case bool:
				if !lv {
					continue
				}
				// Constant-true: nothing after this branch can fire.
				if len(kept) == 0 {
					return result
				}
				return &CaseExpr{Whens: kept, Else: result}
			}
		}
		kept = append(kept, CaseWhen{Condition: cond, Result: result})
	}
	if len(kept) == 0 {
		if e.Else != nil {
			return o.optimizeExpr(e.Else)
		}
		return &Literal{Value: nil}
	}
	out := &CaseExpr{Whens: kept}
	if e.Else != nil {
		out.Else = o.optimizeExpr(e.Else)
	}
	return out
}

// foldBinary evaluates a binary operation over two literals at rewrite
// time. Folding is skipped whenever runtime behavior could differ
// (zero divisors, mixed coercions), so the rewrite is always
// semantics-preserving.
func (o *Optimizer) foldBinary(op Op, left, right Expr) (Expr, bool) {
	ll, lok := left.(*Literal)
	rl, rok := right.(*Literal)
	if !lok || !rok {
		return nil, false
	}
	a := normalizeLiteral(ll.Value)
	b := normalizeLiteral(rl.Value)

	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return foldArith(op, a, b)
	case OpConcat:
		return foldConcat(a, b)
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return foldCompare(op, a, b)
	case OpAnd, OpOr:
		return foldLogic(op, a, b)
	}
	return nil, false
}

func (o *Optimizer) foldUnary(op Op, inner Expr) (Expr, bool) {
	lit, ok := inner.(*Literal)
	if !ok {
		return nil, false
	}
	v := normalizeLiteral(lit.Value)
	switch op {
	case OpNeg:
		switch n := v.(type) {
		case nil:
			return &Literal{Value: nil}, true
		case int64:
			return &Literal{Value: -n}, true
		case float64:
			return &Literal{Value: -n}, true
		}
	case OpNot:
		switch n := v.(type) {
		case nil:
			return &Literal{Value: nil}, true
		case bool:
			return &Literal{Value: !n}, true
		}
	}
	return nil, false
}

func foldArith(op Op, a, b interface{}) (Expr, bool) {
	if a == nil || b == nil {
		return &Literal{Value: nil}, true
	}
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	if aInt && bInt {
		switch op {
		case OpAdd:
			return &Literal{Value: ai + bi}, true
		case OpSub:
			return &Literal{Value: ai - bi}, true
		case OpMul:
			return &Literal{Value: ai * bi}, true
		case OpDiv:
			if bi == 0 {
				return nil, false // runtime yields NULL; leave it there
			}
			return &Literal{Value: ai / bi}, true
		case OpMod:
			if bi == 0 {
				return nil, false
			}
			return &Literal{Value: ai % bi}, true
		}
		return nil, false
	}
	af, aNum := literalFloat(a)
	bf, bNum := literalFloat(b)
	if !aNum || !bNum {
		return nil, false
	}
	switch op {
	case OpAdd:
		return &Literal{Value: af + bf}, true
	case OpSub:
		return &Literal{Value: af - bf}, true
	case OpMul:
		return &Literal{Value: af * bf}, true
	case OpDiv:
		if bf == 0 {
			return nil, false
		}
		return &Literal{Value: af / bf}, true
	}
	return nil, false
}

func foldConcat(a, b interface{}) (Expr, bool) {
	if a == nil || b == nil {
		return &Literal{Value: nil}, true
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return &Literal{Value: as + bs}, true
		}
	}
	if ab, ok := a.([]byte); ok {
		if bb, ok := b.([]byte); ok {
			joined := make([]byte, 0, len(ab)+len(bb))
			joined = append(joined, ab...)
			joined = append(joined, bb...)
			return &Literal{Value: joined}, true
		}
	}
	return nil, false
}

func foldCompare(op Op, a, b interface{}) (Expr, bool) {
	if a == nil || b == nil {
		return &Literal{Value: nil}, true
	}
	var c int
	af, aNum := literalFloat(a)
	bf, bNum := literalFloat(b)
	switch {
	case aNum && bNum:
		// NaN sorts below every other numeric and equal to itself, the
		// same position the value order gives it at runtime.
		aNaN, bNaN := math.IsNaN(af), math.IsNaN(bf)
		switch {
		case aNaN && bNaN:
		case aNaN:
			c = -1
		case bNaN:
			c = 1
		case af < bf:
			c = -1
		case af > bf:
			c = 1
		}
	default:
		as, aStr := a.(string)
		bs, bStr := b.(string)
		if !aStr || !bStr {
			return nil, false
		}
		switch {
		case as < bs:
			c = -1
		case as > bs:
			c = 1
		}
	}
	var result bool
	switch op {
	case OpEq:
		result = c == 0
	case OpNe:
		result = c != 0
	case OpLt:
		result = c < 0
	case OpLe:
		result = c <= 0
	case OpGt:
		result = c > 0
	case OpGe:
		result = c >= 0
	}
	return &Literal{Value: result}, true
}

func foldLogic(op Op, a, b interface{}) (Expr, bool) {
	at, aok := literalTruth(a)
	bt, bok := literalTruth(b)
	if !aok || !bok {
		return nil, false
	}
	// Three-valued logic: nil pointer means unknown.
	if op == OpAnd {
		if at != nil && !*at {
			return &Literal{Value: false}, true
		}
		if bt != nil && !*bt {
			return &Literal{Value: false}, true
		}
		if at == nil || bt == nil {
			return &Literal{Value: nil}, true
		}
		return &Literal{Value: true}, true
	}
	if at != nil && *at {
		return &Literal{Value: true}, true
	}
	if bt != nil && *bt {
		return &Literal{Value: true}, true
	}
	if at == nil || bt == nil {
		return &Literal{Value: nil}, true
	}
	return &Literal{Value: false}, true
}

// literalTruth maps a literal to three-valued truth: (nil, true) means
// unknown (SQL NULL); the bool flag reports whether the literal kind has a
// defined truth value at all.
func literalTruth(v interface{}) (*bool, bool) {
	switch n := v.(type) {
	case nil:
		return nil, true
	case bool:
		return &n, true
	case int64:
		t := n != 0
		return &t, true
	case float64:
		t := n != 0
		return &t, true
	}
	return nil, false
}

func literalFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// normalizeLiteral widens integer literal kinds to int64 and float32 to
// float64 so folding sees the same numeric domain the kernels do.
func normalizeLiteral(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case float32:
		return float64(n)
	}
	return v
}

// isBooleanShaped reports whether an expression always yields a boolean or
// NULL, which makes NOT-NOT elimination safe.
func isBooleanShaped(expr Expr) bool {
	switch e := expr.(type) {
	case *Literal:
		_, ok := e.Value.(bool)
		return ok || e.Value == nil
	case *BinaryExpr:
		switch e.Op {
		case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr:
			return true
		}
	case *UnaryExpr:
		return e.Op == OpNot
	}
	return false
}
