package QP

import "strings"

// ColumnType represents the declared output type of an expression.
type ColumnType int

const (
	TypeAny ColumnType = iota
	TypeInt
	TypeFloat
	TypeText
	TypeBlob
	TypeBool
	TypeNull
	TypeTuple
)

var columnTypeNames = []string{"ANY", "INT", "FLOAT", "TEXT", "BLOB", "BOOL", "NULL", "TUPLE"}

func (t ColumnType) String() string {
	if t >= 0 && int(t) < len(columnTypeNames) {
		return columnTypeNames[t]
	}
	return "ANY"
}

// InferExprType infers the declared output type of an expression.
// schema gives the type of each input-row column by position; a nil schema
// makes every column reference TypeAny.
func InferExprType(expr Expr, schema []ColumnType) ColumnType {
	if expr == nil {
		return TypeNull
	}
	switch e := expr.(type) {
	case *ColumnRef:
		if schema != nil && e.Index >= 0 && e.Index < len(schema) {
			return schema[e.Index]
		}
		return TypeAny
	case *Literal:
		return inferFromValue(e.Value)
	case *BinaryExpr:
		left := InferExprType(e.Left, schema)
		right := InferExprType(e.Right, schema)
		switch e.Op {
		case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr:
			return TypeBool
		case OpConcat:
			if left == TypeBlob && right == TypeBlob {
				return TypeBlob
			}
			return TypeText
		default:
			return promoteTypes(left, right)
		}
	case *UnaryExpr:
		if e.Op == OpNot {
			return TypeBool
		}
		// Negation: bools count as 0/1, so the result is an integer.
		t := InferExprType(e.Expr, schema)
		if t == TypeBool {
			return TypeInt
		}
		return t
	case *FuncCall:
		return funcReturnType(e.Name, e.Args, schema)
	case *CaseExpr:
		result := TypeNull
		for _, w := range e.Whens {
			result = promoteTypes(result, InferExprType(w.Result, schema))
		}
		if e.Else != nil {
			result = promoteTypes(result, InferExprType(e.Else, schema))
		}
		return result
	case *CastExpr:
		switch strings.ToUpper(e.TypeName) {
		case "INT", "INTEGER":
			return TypeInt
		case "FLOAT", "REAL", "DOUBLE":
			return TypeFloat
		case "TEXT", "VARCHAR":
			return TypeText
		case "BLOB":
			return TypeBlob
		}
		return TypeAny
	case *TupleExpr:
		return TypeTuple
	}
	return TypeAny
}

func inferFromValue(v interface{}) ColumnType {
	switch v.(type) {
	case nil:
		return TypeNull
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case string:
		return TypeText
	case []byte:
		return TypeBlob
	case bool:
		return TypeBool
	case []interface{}:
		return TypeTuple
	}
	return TypeAny
}

func promoteTypes(a, b ColumnType) ColumnType {
	if a == b {
		return a
	}
	if a == TypeNull {
		return b
	}
	if b == TypeNull {
		return a
	}
	if a == TypeFloat || b == TypeFloat {
		return TypeFloat
	}
	if a == TypeInt || b == TypeInt {
		return TypeInt
	}
	return TypeAny
}

func funcReturnType(name string, args []Expr, schema []ColumnType) ColumnType {
	switch strings.ToUpper(name) {
	case "LENGTH":
		return TypeInt
	case "UPPER", "LOWER":
		return TypeText
	case "ABS":
		if len(args) > 0 {
			return InferExprType(args[0], schema)
		}
		return TypeAny
	case "COALESCE", "IFNULL":
		result := TypeNull
		for _, a := range args {
			result = promoteTypes(result, InferExprType(a, schema))
		}
		return result
	}
	return TypeAny
}
