package VM

// Opcode identifies a bytecode instruction. Instructions use a three
// operand register form: A is the destination, B and C are sources or
// immediates depending on the opcode.
type Opcode int

const (
	BcLoadConst Opcode = iota // A=dst B=const index
	BcLoadCol                 // A=dst B=input column index
	BcMove                    // A=dst B=src

	BcAdd    // A=dst B=left C=right
	BcSub    // A=dst B=left C=right
	BcMul    // A=dst B=left C=right
	BcDiv    // A=dst B=left C=right
	BcMod    // A=dst B=left C=right
	BcConcat // A=dst B=left C=right

	BcEq // A=dst B=left C=right
	BcNe
	BcLt
	BcLe
	BcGt
	BcGe

	BcAnd // A=dst B=left C=right
	BcOr
	BcNot // A=dst B=src
	BcNeg // A=dst B=src

	BcJump      // A=target pc
	BcJumpFalse // A=cond reg B=target pc; NULL also jumps

	BcCall      // A=dst B=func-ref index C=first arg reg (args consecutive)
	BcMakeTuple // A=dst B=first elem reg C=elem count

	BcStoreOut // A=output slot B=src reg
)

var opcodeNames = []string{
	"LoadConst", "LoadCol", "Move",
	"Add", "Sub", "Mul", "Div", "Mod", "Concat",
	"Eq", "Ne", "Lt", "Le", "Gt", "Ge",
	"And", "Or", "Not", "Neg",
	"Jump", "JumpFalse",
	"Call", "MakeTuple",
	"StoreOut",
}

func (op Opcode) String() string {
	if op >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "Invalid"
}
