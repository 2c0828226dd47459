package typechecker

import (
	"testing"

	"github.com/cbc-lang/cbc/internal/ast"
	"github.com/cbc-lang/cbc/internal/diagnostics"
	"github.com/cbc-lang/cbc/internal/types"
)

func TestImplicitCastSameTypeIsNoOp(t *testing.T) {
	c, table := newFixture()
	intT := mustType(table, types.Ref{Name: "int", ArrayLen: -1})

	expr := typedIdent("x", intT)

	got := c.implicitCast(intT, expr)
	if got != ast.Expression(expr) {
		t.Error("implicitCast must return the same node when types already match")
	}

	if c.diags.ErrorCount() != 0 || len(c.diags.All()) != 0 {
		t.Error("implicitCast must not report anything for a no-op cast")
	}
}

func TestImplicitCastWidensWithoutWarning(t *testing.T) {
	c, table := newFixture()
	charT := mustType(table, types.Ref{Name: "char", ArrayLen: -1})
	intT := mustType(table, types.Ref{Name: "int", ArrayLen: -1})

	expr := typedIdent("c", charT)

	got := c.implicitCast(intT, expr)

	cast, ok := got.(*ast.Cast)
	if !ok {
		t.Fatalf("implicitCast(int, char-typed expr) = %T, want *ast.Cast", got)
	}

	if !types.IsSameType(cast.GetType(), intT) {
		t.Errorf("Cast type = %s, want int", cast.GetType())
	}

	if len(c.diags.All()) != 0 {
		t.Error("widening a compatible integer must not warn")
	}
}

func TestImplicitCastNarrowingWarns(t *testing.T) {
	c, table := newFixture()
	intT := mustType(table, types.Ref{Name: "int", ArrayLen: -1})
	charT := mustType(table, types.Ref{Name: "char", ArrayLen: -1})

	expr := typedIdent("n", intT) // not a literal, so isSafeIntegerCast can't suppress the warning

	got := c.implicitCast(charT, expr)

	if _, ok := got.(*ast.Cast); !ok {
		t.Fatalf("implicitCast(char, int-typed expr) = %T, want *ast.Cast", got)
	}

	if len(c.diags.All()) != 1 || c.diags.All()[0].Level != diagnostics.Warning {
		t.Fatalf("expected exactly one warning, got %v", c.diags.All())
	}
}

func TestImplicitCastSafeIntegerLiteralSuppressesWarning(t *testing.T) {
	c, table := newFixture()
	charT := mustType(table, types.Ref{Name: "char", ArrayLen: -1})

	lit := intLit(table, 5) // fits in a char; must not warn despite being a narrowing int->char cast

	got := c.implicitCast(charT, lit)

	if _, ok := got.(*ast.Cast); !ok {
		t.Fatalf("implicitCast(char, literal 5) = %T, want *ast.Cast", got)
	}

	if len(c.diags.All()) != 0 {
		t.Errorf("a safe integer-literal cast must not warn, got %v", c.diags.All())
	}
}

func TestImplicitCastUncastableReportsError(t *testing.T) {
	c, table := newFixture()
	intT := mustType(table, types.Ref{Name: "int", ArrayLen: -1})

	structT := &types.StructType{Name: "s", Fields: []types.Field{{Name: "x", Type: intT}}}
	expr := typedIdent("s", structT)

	got := c.implicitCast(intT, expr)

	if got != ast.Expression(expr) {
		t.Error("implicitCast must return expr unchanged on an uncastable conversion")
	}

	if c.diags.ErrorCount() != 1 {
		t.Errorf("expected exactly one error, got %d", c.diags.ErrorCount())
	}
}

func TestMultiplyPtrBaseSizeScalesAndPromotes(t *testing.T) {
	c, table := newFixture()
	intT := mustType(table, types.Ref{Name: "int", ArrayLen: -1})
	charT := mustType(table, types.Ref{Name: "char", ArrayLen: -1})
	intPtrT := mustType(table, types.Ref{Name: "int", PointerDepth: 1, ArrayLen: -1})

	ptr := typedIdent("p", intPtrT)
	offset := typedIdent("c", charT) // narrower than int: must be integrally promoted first

	result := c.multiplyPtrBaseSize(offset, ptr)

	bin, ok := result.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("multiplyPtrBaseSize = %T, want *ast.BinaryOp", result)
	}

	if bin.Op != "*" {
		t.Errorf("Op = %q, want \"*\"", bin.Op)
	}

	if !types.IsSameType(bin.GetType(), table.PtrDiffType()) {
		t.Errorf("result type = %s, want ptrdiff type", bin.GetType())
	}

	lit, ok := bin.Right.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("Right = %T, want *ast.IntegerLiteral", bin.Right)
	}

	if lit.Value != int64(intT.Size()) {
		t.Errorf("scale factor = %d, want %d", lit.Value, intT.Size())
	}

	if _, ok := bin.Left.(*ast.Cast); !ok {
		t.Error("the narrower operand must be wrapped in a promotion Cast")
	}
}

func TestMultiplyPtrBaseSizeHandlesArrayBase(t *testing.T) {
	c, table := newFixture()
	arrT := mustType(table, types.Ref{Name: "int", ArrayLen: 10})
	intT := mustType(table, types.Ref{Name: "int", ArrayLen: -1})

	arr := typedIdent("a", arrT)
	offset := typedIdent("n", intT)

	result := c.multiplyPtrBaseSize(offset, arr)

	bin, ok := result.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("multiplyPtrBaseSize = %T, want *ast.BinaryOp", result)
	}

	lit := bin.Right.(*ast.IntegerLiteral)
	if lit.Value != int64(intT.Size()) {
		t.Errorf("scale factor over an array base = %d, want %d", lit.Value, intT.Size())
	}
}

func TestIntegralPromoteLeavesWideIntegersAlone(t *testing.T) {
	c, table := newFixture()
	intT := mustType(table, types.Ref{Name: "int", ArrayLen: -1})

	expr := typedIdent("n", intT)

	got := c.integralPromote(expr)
	if got != ast.Expression(expr) {
		t.Error("integralPromote must not wrap an already-int-or-wider operand")
	}
}
