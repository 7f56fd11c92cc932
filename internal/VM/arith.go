package VM

import (
	"math"
	"strconv"

	"github.com/sqlvibe/exprcheck/internal/DS"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

// Value kernels shared by the register machine and the tree-walking
// evaluator. Routing every backend through the same kernels keeps scalar
// semantics identical across evaluation strategies.

func isNumeric(v DS.Value) bool {
	switch v.Type {
	case DS.TypeInt, DS.TypeFloat, DS.TypeBool:
		return true
	}
	return false
}

func numInt(v DS.Value) int64 {
	return v.Int // TypeBool stores 0/1 in Int
}

func numFloat(v DS.Value) float64 {
	if v.Type == DS.TypeFloat {
		return v.Float
	}
	return float64(v.Int)
}

func arithOperands(op string, a, b DS.Value) error {
	if !isNumeric(a) || !isNumeric(b) {
		return SE.Errorf(SE.EC_EVAL, "cannot apply %s to %s and %s", op, a.Type, b.Type)
	}
	return nil
}

func AddValues(a, b DS.Value) (DS.Value, error) {
	if a.IsNull() || b.IsNull() {
		return DS.NullValue(), nil
	}
	if err := arithOperands("+", a, b); err != nil {
		return DS.Value{}, err
	}
	if a.Type == DS.TypeFloat || b.Type == DS.TypeFloat {
		return DS.FloatValue(numFloat(a) + numFloat(b)), nil
	}
	return DS.IntValue(numInt(a) + numInt(b)), nil
}

func SubValues(a, b DS.Value) (DS.Value, error) {
	if a.IsNull() || b.IsNull() {
		return DS.NullValue(), nil
	}
	if err := arithOperands("-", a, b); err != nil {
		return DS.Value{}, err
	}
	if a.Type == DS.TypeFloat || b.Type == DS.TypeFloat {
		return DS.FloatValue(numFloat(a) - numFloat(b)), nil
	}
	return DS.IntValue(numInt(a) - numInt(b)), nil
}

func MulValues(a, b DS.Value) (DS.Value, error) {
	if a.IsNull() || b.IsNull() {
		return DS.NullValue(), nil
	}
	if err := arithOperands("*", a, b); err != nil {
		return DS.Value{}, err
	}
	if a.Type == DS.TypeFloat || b.Type == DS.TypeFloat {
		return DS.FloatValue(numFloat(a) * numFloat(b)), nil
	}
	return DS.IntValue(numInt(a) * numInt(b)), nil
}

// DivValues divides with NULL on a zero divisor rather than an error, in
// both the integer and the float domain.
func DivValues(a, b DS.Value) (DS.Value, error) {
	if a.IsNull() || b.IsNull() {
		return DS.NullValue(), nil
	}
	if err := arithOperands("/", a, b); err != nil {
		return DS.Value{}, err
	}
	if a.Type == DS.TypeFloat || b.Type == DS.TypeFloat {
		bf := numFloat(b)
		if bf == 0 {
			return DS.NullValue(), nil
		}
		return DS.FloatValue(numFloat(a) / bf), nil
	}
	bi := numInt(b)
	if bi == 0 {
		return DS.NullValue(), nil
	}
	return DS.IntValue(numInt(a) / bi), nil
}

func ModValues(a, b DS.Value) (DS.Value, error) {
	if a.IsNull() || b.IsNull() {
		return DS.NullValue(), nil
	}
	if err := arithOperands("%", a, b); err != nil {
		return DS.Value{}, err
	}
	if a.Type == DS.TypeFloat || b.Type == DS.TypeFloat {
		bf := numFloat(b)
		if bf == 0 {
			return DS.NullValue(), nil
		}
		return DS.FloatValue(math.Mod(numFloat(a), bf)), nil
	}
	bi := numInt(b)
	if bi == 0 {
		return DS.NullValue(), nil
	}
	return DS.IntValue(numInt(a) % bi), nil
}

// ConcatValues joins two blobs into a blob; any other non-NULL pair is
// coerced to text and joined as text.
func ConcatValues(a, b DS.Value) (DS.Value, error) {
	if a.IsNull() || b.IsNull() {
		return DS.NullValue(), nil
	}
	if a.Type == DS.TypeBlob && b.Type == DS.TypeBlob {
		joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
		joined = append(joined, a.Bytes...)
		joined = append(joined, b.Bytes...)
		return DS.BlobValue(joined), nil
	}
	as, err := TextOf(a)
	if err != nil {
		return DS.Value{}, err
	}
	bs, err := TextOf(b)
	if err != nil {
		return DS.Value{}, err
	}
	return DS.TextValue(as + bs), nil
}

// TextOf renders a non-NULL value as text the way CAST AS TEXT does.
func TextOf(v DS.Value) (string, error) {
	switch v.Type {
	case DS.TypeText:
		return v.Str, nil
	case DS.TypeBlob:
		return string(v.Bytes), nil
	case DS.TypeInt:
		return strconv.FormatInt(v.Int, 10), nil
	case DS.TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case DS.TypeBool:
		if v.Int != 0 {
			return "1", nil
		}
		return "0", nil
	}
	return "", SE.Errorf(SE.EC_EVAL, "cannot render %s as text", v.Type)
}

// CompareValues evaluates a comparison under SQL semantics: a NULL on
// either side yields NULL, otherwise the total order over values decides.
// op is one of "=", "<>", "<", "<=", ">", ">=".
func CompareValues(op string, a, b DS.Value) (DS.Value, error) {
	if a.IsNull() || b.IsNull() {
		return DS.NullValue(), nil
	}
	c := DS.Compare(a, b)
	var result bool
	switch op {
	case "=":
		result = c == 0
	case "<>":
		result = c != 0
	case "<":
		result = c < 0
	case "<=":
		result = c <= 0
	case ">":
		result = c > 0
	case ">=":
		result = c >= 0
	default:
		return DS.Value{}, SE.Errorf(SE.EC_INTERNAL, "unknown comparison %q", op)
	}
	return DS.BoolValue(result), nil
}

// Truth maps a value to three-valued logic: null reports SQL unknown.
// Text, blob, and tuple values have no truth value.
func Truth(v DS.Value) (truth bool, null bool, err error) {
	switch v.Type {
	case DS.TypeNull:
		return false, true, nil
	case DS.TypeInt, DS.TypeBool:
		return v.Int != 0, false, nil
	case DS.TypeFloat:
		return v.Float != 0, false, nil
	}
	return false, false, SE.Errorf(SE.EC_EVAL, "%s has no truth value", v.Type)
}

// AndValues implements three-valued AND. Both operands are always
// evaluated by every backend; there is no short circuit to diverge on.
func AndValues(a, b DS.Value) (DS.Value, error) {
	at, an, err := Truth(a)
	if err != nil {
		return DS.Value{}, err
	}
	bt, bn, err := Truth(b)
	if err != nil {
		return DS.Value{}, err
	}
	if (!an && !at) || (!bn && !bt) {
		return DS.BoolValue(false), nil
	}
	if an || bn {
		return DS.NullValue(), nil
	}
	return DS.BoolValue(true), nil
}

func OrValues(a, b DS.Value) (DS.Value, error) {
	at, an, err := Truth(a)
	if err != nil {
		return DS.Value{}, err
	}
	bt, bn, err := Truth(b)
	if err != nil {
		return DS.Value{}, err
	}
	if (!an && at) || (!bn && bt) {
		return DS.BoolValue(true), nil
	}
	if an || bn {
		return DS.NullValue(), nil
	}
	return DS.BoolValue(false), nil
}

func NotValue(v DS.Value) (DS.Value, error) {
	t, null, err := Truth(v)
	if err != nil {
		return DS.Value{}, err
	}
	if null {
		return DS.NullValue(), nil
	}
	return DS.BoolValue(!t), nil
}

func NegValue(v DS.Value) (DS.Value, error) {
	switch v.Type {
	case DS.TypeNull:
		return DS.NullValue(), nil
	case DS.TypeInt, DS.TypeBool:
		return DS.IntValue(-v.Int), nil
	case DS.TypeFloat:
		return DS.FloatValue(-v.Float), nil
	}
	return DS.Value{}, SE.Errorf(SE.EC_EVAL, "cannot negate %s", v.Type)
}
