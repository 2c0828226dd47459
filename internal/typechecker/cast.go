package typechecker

import (
	"github.com/cbc-lang/cbc/internal/ast"
	"github.com/cbc-lang/cbc/internal/types"
)

// implicitCast makes expr conform to target, materializing the conversion
// as an explicit Cast node when the two types differ. It is the single
// chokepoint every assignment-like conversion in the checker routes
// through: declaration initializers, plain assignment, return statements,
// and mandatory call arguments.
func (c *checker) implicitCast(target types.Type, expr ast.Expression) ast.Expression {
	if types.IsSameType(expr.GetType(), target) {
		return expr
	}

	if !types.IsCastableTo(expr.GetType(), target) {
		c.diags.Error(expr.GetSpan(), "invalid cast from %s to %s", expr.GetType().String(), target.String())

		return expr
	}

	if !types.IsCompatible(expr.GetType(), target) && !isSafeIntegerCast(target, expr) {
		c.diags.Warn(expr.GetSpan(), "incompatible implicit cast from %s to %s", expr.GetType().String(), target.String())
	}

	return ast.NewCast(target, expr)
}

// isSafeIntegerCast reports whether expr is an integer literal whose value
// fits inside target's domain, suppressing the narrowing warning
// implicitCast would otherwise raise for idioms like "char c = 0;".
func isSafeIntegerCast(target types.Type, expr ast.Expression) bool {
	lit, ok := expr.(*ast.IntegerLiteral)
	if !ok {
		return false
	}

	return types.IsSafeIntegerCast(target, lit.Value)
}

// multiplyPtrBaseSize scales expr (the non-pointer operand of a pointer +/-
// integer expression) by ptr's base-type size, after integrally promoting
// expr. The new literal's span is ptr's, matching the original pointer
// operand's location rather than expr's. The resulting BinaryOp is bound to
// the checker's ptrdiff type so it is fully typed the instant it is spliced
// in.
func (c *checker) multiplyPtrBaseSize(expr, ptr ast.Expression) ast.Expression {
	promoted := c.integralPromote(expr)

	base := derefBase(ptr.GetType())

	scale := ast.NewIntegerLiteral(ptr.GetSpan(), int64(base.Size()), c.table.PtrDiffType())

	result := ast.NewBinaryOp(expr.GetSpan(), "*", promoted, scale)
	result.SetType(c.table.PtrDiffType())

	return result
}

// derefBase returns the element type a dereferable type decays to: a
// pointer's base, or an array's element.
func derefBase(t types.Type) types.Type {
	switch dt := t.(type) {
	case *types.PointerType:
		return dt.Base
	case *types.ArrayType:
		return dt.Element
	default:
		panic("internal error: derefBase called on non-dereferable type " + t.String())
	}
}

// integralPromote wraps expr in a Cast to signedInt if its type is an
// integer narrower than int, leaving it unchanged otherwise. expr.type must
// already be an integer type; that precondition is the expression
// validator's responsibility to establish before calling in.
func (c *checker) integralPromote(expr ast.Expression) ast.Expression {
	promoted := types.IntegralPromotion(expr.GetType(), c.table.SignedInt())
	if types.IsSameType(promoted, expr.GetType()) {
		return expr
	}

	return ast.NewCast(promoted, expr)
}
