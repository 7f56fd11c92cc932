package VM

import (
	"strings"
	"testing"

	"github.com/sqlvibe/exprcheck/internal/DS"
	SE "github.com/sqlvibe/exprcheck/internal/SF/errors"
)

// buildAddProgram assembles col0 + addend by hand, driving the builder
// the way the code generator does.
func buildAddProgram(t *testing.T, addend int64) *Program {
	t.Helper()
	b := NewBytecodeBuilder(1)
	r0 := b.AllocReg()
	r1 := b.AllocReg()
	r2 := b.AllocReg()
	b.EmitABC(BcLoadCol, r0, 0, 0)
	b.EmitABC(BcLoadConst, r1, b.AddConst(DS.IntValue(addend)), 0)
	b.EmitABC(BcAdd, r2, r0, r1)
	b.EmitABC(BcStoreOut, 0, r2, 0)
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestProgramRun(t *testing.T) {
	p := buildAddProgram(t, 5)
	outs, err := p.Run(DS.NewRow([]DS.Value{DS.IntValue(3)}))
	if err != nil {
		t.Fatal(err)
	}
	if len(outs) != 1 || !outs[0].Equal(DS.IntValue(8)) {
		t.Errorf("outs = %v, want [8]", outs)
	}

	// NULL input propagates through the add.
	outs, err = p.Run(DS.NewRow([]DS.Value{DS.NullValue()}))
	if err != nil {
		t.Fatal(err)
	}
	if !outs[0].IsNull() {
		t.Errorf("NULL + 5 = %s, want NULL", outs[0])
	}
}

func TestProgramRunIsReusable(t *testing.T) {
	p := buildAddProgram(t, 1)
	for i := int64(0); i < 3; i++ {
		outs, err := p.Run(DS.NewRow([]DS.Value{DS.IntValue(i)}))
		if err != nil {
			t.Fatal(err)
		}
		if !outs[0].Equal(DS.IntValue(i + 1)) {
			t.Errorf("run %d: got %s", i, outs[0])
		}
	}
}

// TestProgramJumps assembles the branch shape the compiler uses for CASE:
// jump over the then-result when the condition is false or NULL.
func TestProgramJumps(t *testing.T) {
	b := NewBytecodeBuilder(1)
	cond := b.AllocReg()
	out := b.AllocReg()
	elseL := b.AllocLabel()
	endL := b.AllocLabel()

	b.EmitABC(BcLoadCol, cond, 0, 0)
	b.EmitJumpFalse(cond, elseL)
	b.EmitABC(BcLoadConst, out, b.AddConst(DS.TextValue("yes")), 0)
	b.EmitJump(endL)
	b.BindLabel(elseL)
	b.EmitABC(BcLoadConst, out, b.AddConst(DS.TextValue("no")), 0)
	b.BindLabel(endL)
	b.EmitABC(BcStoreOut, 0, out, 0)

	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   DS.Value
		want DS.Value
	}{
		{DS.BoolValue(true), DS.TextValue("yes")},
		{DS.BoolValue(false), DS.TextValue("no")},
		{DS.NullValue(), DS.TextValue("no")},
		{DS.IntValue(2), DS.TextValue("yes")},
	}
	for _, tt := range tests {
		outs, err := p.Run(DS.NewRow([]DS.Value{tt.in}))
		if err != nil {
			t.Fatalf("Run(%s): %v", tt.in, err)
		}
		if !outs[0].Equal(tt.want) {
			t.Errorf("cond=%s: got %s, want %s", tt.in, outs[0], tt.want)
		}
	}
}

func TestProgramCall(t *testing.T) {
	b := NewBytecodeBuilder(1)
	a0 := b.AllocReg()
	a1 := b.AllocReg()
	dst := b.AllocReg()
	b.EmitABC(BcLoadCol, a0, 0, 0)
	b.EmitABC(BcLoadConst, a1, b.AddConst(DS.TextValue("fallback")), 0)
	b.EmitABC(BcCall, dst, b.AddFuncRef("ifnull", 2), a0)
	b.EmitABC(BcStoreOut, 0, dst, 0)
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	outs, err := p.Run(DS.NewRow([]DS.Value{DS.NullValue()}))
	if err != nil {
		t.Fatal(err)
	}
	if !outs[0].Equal(DS.TextValue("fallback")) {
		t.Errorf("ifnull(NULL, 'fallback') = %s", outs[0])
	}
}

func TestProgramUnknownFunc(t *testing.T) {
	b := NewBytecodeBuilder(1)
	dst := b.AllocReg()
	b.EmitABC(BcCall, dst, b.AddFuncRef("mystery", 0), 0)
	b.EmitABC(BcStoreOut, 0, dst, 0)
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Run(DS.EmptyRow)
	if SE.ErrorCodeOf(err) != SE.EC_EVAL {
		t.Errorf("expected EC_EVAL, got %v", err)
	}
}

func TestProgramMakeTuple(t *testing.T) {
	b := NewBytecodeBuilder(1)
	e0 := b.AllocReg()
	e1 := b.AllocReg()
	dst := b.AllocReg()
	b.EmitABC(BcLoadConst, e0, b.AddConst(DS.IntValue(1)), 0)
	b.EmitABC(BcLoadCol, e1, 0, 0)
	b.EmitABC(BcMakeTuple, dst, e0, 2)
	b.EmitABC(BcStoreOut, 0, dst, 0)
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	outs, err := p.Run(DS.NewRow([]DS.Value{DS.TextValue("x")}))
	if err != nil {
		t.Fatal(err)
	}
	want := DS.TupleValue([]DS.Value{DS.IntValue(1), DS.TextValue("x")})
	if !outs[0].Equal(want) {
		t.Errorf("tuple = %s, want %s", outs[0], want)
	}
}

func TestAddConstInterns(t *testing.T) {
	b := NewBytecodeBuilder(0)
	i := b.AddConst(DS.IntValue(7))
	j := b.AddConst(DS.IntValue(7))
	k := b.AddConst(DS.IntValue(8))
	if i != j || i == k {
		t.Errorf("const pool indices: %d %d %d", i, j, k)
	}
}

func TestBuildRejectsUnboundLabel(t *testing.T) {
	b := NewBytecodeBuilder(0)
	l := b.AllocLabel()
	b.EmitJump(l)
	if _, err := b.Build(); SE.ErrorCodeOf(err) != SE.EC_INTERNAL {
		t.Errorf("expected EC_INTERNAL, got %v", err)
	}
}

func TestDisasm(t *testing.T) {
	p := buildAddProgram(t, 5)
	text := p.Disasm()
	for _, want := range []string{"LoadCol", "LoadConst", "Add", "StoreOut", "col0", "out0"} {
		if !strings.Contains(text, want) {
			t.Errorf("Disasm missing %q:\n%s", want, text)
		}
	}
}
