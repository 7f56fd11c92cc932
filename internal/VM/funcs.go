package VM

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sqlvibe/exprcheck/internal/DS"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

// Func is a builtin scalar function. MaxArgs of -1 means variadic.
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int
	Call    func(args []DS.Value) (DS.Value, error)
}

var builtins = map[string]*Func{}

func register(f *Func) {
	builtins[f.Name] = f
}

// LookupFunc resolves a builtin by case-insensitive name.
func LookupFunc(name string) (*Func, bool) {
	f, ok := builtins[strings.ToLower(name)]
	return f, ok
}

// CastFuncName maps a cast target type name to the builtin that performs
// it. Both evaluation strategies lower CAST through this mapping.
func CastFuncName(typeName string) (string, bool) {
	switch strings.ToUpper(typeName) {
	case "INT", "INTEGER":
		return "cast_int", true
	case "FLOAT", "REAL", "DOUBLE":
		return "cast_float", true
	case "TEXT", "VARCHAR":
		return "cast_text", true
	case "BLOB":
		return "cast_blob", true
	}
	return "", false
}

// CheckArity verifies an argument count against a function's signature.
func CheckArity(f *Func, n int) error {
	if n < f.MinArgs || (f.MaxArgs >= 0 && n > f.MaxArgs) {
		return SE.Errorf(SE.EC_EVAL, "%s: wrong argument count %d", f.Name, n)
	}
	return nil
}

func init() {
	register(&Func{Name: "abs", MinArgs: 1, MaxArgs: 1, Call: fnAbs})
	register(&Func{Name: "upper", MinArgs: 1, MaxArgs: 1, Call: fnUpper})
	register(&Func{Name: "lower", MinArgs: 1, MaxArgs: 1, Call: fnLower})
	register(&Func{Name: "length", MinArgs: 1, MaxArgs: 1, Call: fnLength})
	register(&Func{Name: "coalesce", MinArgs: 1, MaxArgs: -1, Call: fnCoalesce})
	register(&Func{Name: "ifnull", MinArgs: 2, MaxArgs: 2, Call: fnCoalesce})
	register(&Func{Name: "cast_int", MinArgs: 1, MaxArgs: 1, Call: fnCastInt})
	register(&Func{Name: "cast_float", MinArgs: 1, MaxArgs: 1, Call: fnCastFloat})
	register(&Func{Name: "cast_text", MinArgs: 1, MaxArgs: 1, Call: fnCastText})
	register(&Func{Name: "cast_blob", MinArgs: 1, MaxArgs: 1, Call: fnCastBlob})
}

func fnAbs(args []DS.Value) (DS.Value, error) {
	v := args[0]
	switch v.Type {
	case DS.TypeNull:
		return DS.NullValue(), nil
	case DS.TypeInt, DS.TypeBool:
		if v.Int < 0 {
			return DS.IntValue(-v.Int), nil
		}
		return DS.IntValue(v.Int), nil
	case DS.TypeFloat:
		if v.Float < 0 {
			return DS.FloatValue(-v.Float), nil
		}
		return DS.FloatValue(v.Float), nil
	}
	return DS.Value{}, SE.Errorf(SE.EC_EVAL, "abs: %s is not numeric", v.Type)
}

func fnUpper(args []DS.Value) (DS.Value, error) {
	v := args[0]
	if v.IsNull() {
		return DS.NullValue(), nil
	}
	if v.Type != DS.TypeText {
		return DS.Value{}, SE.Errorf(SE.EC_EVAL, "upper: %s is not text", v.Type)
	}
	return DS.TextValue(strings.ToUpper(v.Str)), nil
}

func fnLower(args []DS.Value) (DS.Value, error) {
	v := args[0]
	if v.IsNull() {
		return DS.NullValue(), nil
	}
	if v.Type != DS.TypeText {
		return DS.Value{}, SE.Errorf(SE.EC_EVAL, "lower: %s is not text", v.Type)
	}
	return DS.TextValue(strings.ToLower(v.Str)), nil
}

// fnLength counts characters for text and bytes for blobs.
func fnLength(args []DS.Value) (DS.Value, error) {
	v := args[0]
	switch v.Type {
	case DS.TypeNull:
		return DS.NullValue(), nil
	case DS.TypeText:
		return DS.IntValue(int64(utf8.RuneCountInString(v.Str))), nil
	case DS.TypeBlob:
		return DS.IntValue(int64(len(v.Bytes))), nil
	}
	return DS.Value{}, SE.Errorf(SE.EC_EVAL, "length: %s has no length", v.Type)
}

func fnCoalesce(args []DS.Value) (DS.Value, error) {
	for _, a := range args {
		if !a.IsNull() {
			return a.Copy(), nil
		}
	}
	return DS.NullValue(), nil
}

// Casts are strict: an operand that cannot be converted raises an
// evaluation failure instead of yielding a default.

func fnCastInt(args []DS.Value) (DS.Value, error) {
	v := args[0]
	switch v.Type {
	case DS.TypeNull:
		return DS.NullValue(), nil
	case DS.TypeInt, DS.TypeBool:
		return DS.IntValue(v.Int), nil
	case DS.TypeFloat:
		return DS.IntValue(int64(v.Float)), nil
	case DS.TypeText:
		s := strings.TrimSpace(v.Str)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return DS.IntValue(n), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return DS.IntValue(int64(f)), nil
		}
		return DS.Value{}, SE.Errorf(SE.EC_EVAL, "cannot cast %q to INT", v.Str)
	}
	return DS.Value{}, SE.Errorf(SE.EC_EVAL, "cannot cast %s to INT", v.Type)
}

func fnCastFloat(args []DS.Value) (DS.Value, error) {
	v := args[0]
	switch v.Type {
	case DS.TypeNull:
		return DS.NullValue(), nil
	case DS.TypeInt, DS.TypeBool:
		return DS.FloatValue(float64(v.Int)), nil
	case DS.TypeFloat:
		return DS.FloatValue(v.Float), nil
	case DS.TypeText:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return DS.FloatValue(f), nil
		}
		return DS.Value{}, SE.Errorf(SE.EC_EVAL, "cannot cast %q to FLOAT", v.Str)
	}
	return DS.Value{}, SE.Errorf(SE.EC_EVAL, "cannot cast %s to FLOAT", v.Type)
}

func fnCastText(args []DS.Value) (DS.Value, error) {
	v := args[0]
	if v.IsNull() {
		return DS.NullValue(), nil
	}
	s, err := TextOf(v)
	if err != nil {
		return DS.Value{}, err
	}
	return DS.TextValue(s), nil
}

func fnCastBlob(args []DS.Value) (DS.Value, error) {
	v := args[0]
	switch v.Type {
	case DS.TypeNull:
		return DS.NullValue(), nil
	case DS.TypeBlob:
		return v.Copy(), nil
	case DS.TypeText:
		return DS.BlobValue([]byte(v.Str)), nil
	}
	return DS.Value{}, SE.Errorf(SE.EC_EVAL, "cannot cast %s to BLOB", v.Type)
}
