package typechecker

import (
	"github.com/cbc-lang/cbc/internal/ast"
	"github.com/cbc-lang/cbc/internal/types"
)

// checkExpr dispatches to the validator for e's concrete kind and returns
// the (possibly rewritten) expression that should replace e in its parent's
// slot — children are always visited and typed before the parent's own
// rule runs.
func (c *checker) checkExpr(e ast.Expression) ast.Expression {
	switch ex := e.(type) {
	case *ast.Identifier, *ast.IntegerLiteral:
		return e
	case *ast.Assignment:
		return c.checkAssignment(ex)
	case *ast.OpAssignment:
		return c.checkOpAssignment(ex)
	case *ast.CondExpr:
		return c.checkCondExpr(ex)
	case *ast.BinaryOp:
		return c.checkBinaryOp(ex)
	case *ast.LogicalAnd:
		ex.Left, ex.Right = c.checkExpr(ex.Left), c.checkExpr(ex.Right)

		t := c.expectsComparableScalars(ex, ex.Left, ex.Right, func(l, r ast.Expression) { ex.Left, ex.Right = l, r })
		ex.SetType(t)

		return ex
	case *ast.LogicalOr:
		ex.Left, ex.Right = c.checkExpr(ex.Left), c.checkExpr(ex.Right)

		t := c.expectsComparableScalars(ex, ex.Left, ex.Right, func(l, r ast.Expression) { ex.Left, ex.Right = l, r })
		ex.SetType(t)

		return ex
	case *ast.UnaryOp:
		return c.checkUnaryOp(ex)
	case *ast.PrefixOp:
		return c.checkIncDec(ex)
	case *ast.PostfixOp:
		return c.checkIncDec(ex)
	case *ast.FuncallExpr:
		return c.checkFuncall(ex)
	case *ast.ArefExpr:
		return c.checkAref(ex)
	case *ast.CastExpr:
		return c.checkCastExpr(ex)
	case *ast.Cast:
		// The checker's own output: already typed at construction, and never
		// revisited, so a second pass over the same tree is a no-op here.
		return ex
	default:
		panic("internal error: unknown expression kind in checker")
	}
}

func (c *checker) checkAssignment(a *ast.Assignment) ast.Expression {
	a.LHS = c.checkExpr(a.LHS)
	a.RHS = c.checkExpr(a.RHS)

	lhsOK := c.checkLHS(a.LHS)
	rhsOK := checkRHSType(a.RHS.GetType())

	if !rhsOK {
		c.diags.Error(a.RHS.GetSpan(), "invalid RHS type: %s", a.RHS.GetType().String())
	}

	if !lhsOK || !rhsOK {
		a.SetType(a.LHS.GetType())

		return a
	}

	a.RHS = c.implicitCast(a.LHS.GetType(), a.RHS)
	a.SetType(a.LHS.GetType())

	return a
}

// checkLHS reports whether expr is an admissible assignment target,
// reporting "invalid LHS type: T" if not. A parameter is always admissible
// — an array parameter decays to a pointer, so it is assignable regardless
// of its stored declared type.
func (c *checker) checkLHS(expr ast.Expression) bool {
	if id, ok := expr.(*ast.Identifier); ok {
		if _, isParam := id.Decl.(*ast.Parameter); isParam {
			return true
		}
	}

	if checkLHSType(expr.GetType()) {
		return true
	}

	c.diags.Error(expr.GetSpan(), "invalid LHS type: %s", expr.GetType().String())

	return false
}

func (c *checker) checkOpAssignment(a *ast.OpAssignment) ast.Expression {
	a.LHS = c.checkExpr(a.LHS)
	a.RHS = c.checkExpr(a.RHS)

	if !c.checkLHS(a.LHS) {
		a.SetType(a.LHS.GetType())

		return a
	}

	if !checkRHSType(a.RHS.GetType()) {
		c.diags.Error(a.RHS.GetSpan(), "invalid RHS type: %s", a.RHS.GetType().String())
		a.SetType(a.LHS.GetType())

		return a
	}

	lhsType := a.LHS.GetType()

	if (a.Op == "+" || a.Op == "-") && lhsType.IsDereferable() {
		if !a.RHS.GetType().IsInteger() {
			c.diags.Error(a.RHS.GetSpan(), "wrong operand type for %s=: %s", a.Op, a.RHS.GetType().String())
			a.SetType(lhsType)

			return a
		}

		a.RHS = c.multiplyPtrBaseSize(a.RHS, a.LHS)
		a.SetType(lhsType)

		return a
	}

	if !lhsType.IsInteger() || !a.RHS.GetType().IsInteger() {
		c.diags.Error(a.GetSpan(), "wrong operand type for %s=", a.Op)
		a.SetType(lhsType)

		return a
	}

	l := types.IntegralPromotion(lhsType, c.table.SignedInt())
	r := types.IntegralPromotion(a.RHS.GetType(), c.table.SignedInt())
	op := types.UsualArithmeticConversion(l, r, c.table.UnsignedInt(), c.table.SignedLong(), c.table.UnsignedLong(), c.table.SignedInt())

	if !types.IsCompatible(op, l) && !isSafeIntegerCast(l, a.RHS) {
		c.diags.Warn(a.GetSpan(), "incompatible implicit cast from %s to %s", op.String(), l.String())
	}

	if !types.IsSameType(a.RHS.GetType(), op) {
		a.RHS = ast.NewCast(op, a.RHS)
	}

	a.SetType(lhsType)

	return a
}

func (c *checker) checkCondExpr(ce *ast.CondExpr) ast.Expression {
	ce.Cond = c.checkCondition(ce.Cond)
	ce.Then = c.checkExpr(ce.Then)
	ce.Else = c.checkExpr(ce.Else)

	thenType, elseType := ce.Then.GetType(), ce.Else.GetType()

	switch {
	case types.IsSameType(thenType, elseType):
		ce.SetType(thenType)
	case types.IsCompatible(thenType, elseType):
		ce.Then = ast.NewCast(elseType, ce.Then)
		ce.SetType(elseType)
	case types.IsCompatible(elseType, thenType):
		ce.Else = ast.NewCast(thenType, ce.Else)
		ce.SetType(thenType)
	default:
		c.diags.Error(ce.Then.GetSpan(), "invalid cast from %s to %s", thenType.String(), elseType.String())
		ce.SetType(thenType)
	}

	return ce
}

func (c *checker) checkBinaryOp(b *ast.BinaryOp) ast.Expression {
	b.Left = c.checkExpr(b.Left)
	b.Right = c.checkExpr(b.Right)

	var t types.Type

	switch b.Op {
	case "+", "-":
		t = c.expectsSameIntegerOrPointerDiff(b)
	case "*", "/", "%", "&", "|", "^", "<<", ">>":
		t = c.expectsSameInteger(b, b.Left, b.Right, func(l, r ast.Expression) { b.Left, b.Right = l, r })
	case "==", "!=", "<", "<=", ">", ">=":
		t = c.expectsComparableScalars(b, b.Left, b.Right, func(l, r ast.Expression) { b.Left, b.Right = l, r })
	default:
		panic("internal error: unknown binary operator " + b.Op)
	}

	b.SetType(t)

	return b
}

// expectsSameIntegerOrPointerDiff implements the +/- admissibility rule: a
// dereferable operand on either side turns the expression into pointer
// arithmetic, scaling the other (integer) operand by the pointer's base
// size; otherwise it falls back to plain integer arithmetic.
func (c *checker) expectsSameIntegerOrPointerDiff(b *ast.BinaryOp) types.Type {
	left, right := b.Left, b.Right

	if left.GetType().IsDereferable() {
		base := left.GetType()
		if pt, ok := base.(*types.PointerType); ok && pt.Base.IsVoid() {
			c.diags.Error(b.GetSpan(), "wrong operand type for %s: %s", b.Op, right.GetType().String())

			return left.GetType()
		}

		if !right.GetType().IsInteger() {
			c.diags.Error(right.GetSpan(), "wrong operand type for %s: %s", b.Op, right.GetType().String())

			return left.GetType()
		}

		b.Right = c.multiplyPtrBaseSize(right, left)

		return left.GetType()
	}

	if right.GetType().IsDereferable() {
		if b.Op == "-" {
			c.diags.Error(b.GetSpan(), "invalid operation integer-pointer")

			return right.GetType()
		}

		if pt, ok := right.GetType().(*types.PointerType); ok && pt.Base.IsVoid() {
			c.diags.Error(b.GetSpan(), "wrong operand type for %s: %s", b.Op, left.GetType().String())

			return right.GetType()
		}

		if !left.GetType().IsInteger() {
			c.diags.Error(left.GetSpan(), "wrong operand type for %s: %s", b.Op, left.GetType().String())

			return right.GetType()
		}

		b.Left = c.multiplyPtrBaseSize(left, right)

		return right.GetType()
	}

	return c.expectsSameInteger(b, b.Left, b.Right, func(l, r ast.Expression) { b.Left, b.Right = l, r })
}

// expectsSameInteger requires both operands to be integer, then applies the
// usual arithmetic conversion; node is only used for its span in
// diagnostics.
func (c *checker) expectsSameInteger(node ast.Expression, left, right ast.Expression, replace func(l, r ast.Expression)) types.Type {
	if !left.GetType().IsInteger() {
		c.diags.Error(left.GetSpan(), "wrong operand type for %s: %s", binaryOpLabel(node), left.GetType().String())

		return left.GetType()
	}

	if !right.GetType().IsInteger() {
		c.diags.Error(right.GetSpan(), "wrong operand type for %s: %s", binaryOpLabel(node), right.GetType().String())

		return right.GetType()
	}

	return c.arithmeticImplicitCast(left, right, replace)
}

// expectsComparableScalars requires both operands to be scalar. If either
// side is dereferable, the other side is force-cast to the dereferable
// side's pointer type; otherwise the usual arithmetic conversion applies.
func (c *checker) expectsComparableScalars(node ast.Expression, left, right ast.Expression, replace func(l, r ast.Expression)) types.Type {
	if !left.GetType().IsScalar() {
		c.diags.Error(left.GetSpan(), "wrong operand type for %s: %s", binaryOpLabel(node), left.GetType().String())

		return left.GetType()
	}

	if !right.GetType().IsScalar() {
		c.diags.Error(right.GetSpan(), "wrong operand type for %s: %s", binaryOpLabel(node), right.GetType().String())

		return right.GetType()
	}

	if left.GetType().IsDereferable() {
		newRight := c.forcePointerType(right, left.GetType())
		replace(left, newRight)

		return left.GetType()
	}

	if right.GetType().IsDereferable() {
		newLeft := c.forcePointerType(left, right.GetType())
		replace(newLeft, right)

		return right.GetType()
	}

	return c.arithmeticImplicitCast(left, right, replace)
}

// forcePointerType casts expr to master (a dereferable type) if the two are
// not already compatible. This dialect's strictness setting decides whether
// that narrowing is merely a warning or a hard error.
func (c *checker) forcePointerType(expr ast.Expression, master types.Type) ast.Expression {
	if types.IsCompatible(expr.GetType(), master) {
		return expr
	}

	if c.dialect.StrictScalarComparisons() {
		c.diags.Error(expr.GetSpan(), "incompatible implicit cast from %s to %s", expr.GetType().String(), master.String())

		return expr
	}

	c.diags.Warn(expr.GetSpan(), "incompatible implicit cast from %s to %s", expr.GetType().String(), master.String())

	return ast.NewCast(master, expr)
}

// arithmeticImplicitCast applies integral promotion to both operands, then
// the usual arithmetic conversion, wrapping each operand in a Cast to the
// common type unless it is already that type.
func (c *checker) arithmeticImplicitCast(left, right ast.Expression, replace func(l, r ast.Expression)) types.Type {
	l := types.IntegralPromotion(left.GetType(), c.table.SignedInt())
	r := types.IntegralPromotion(right.GetType(), c.table.SignedInt())
	target := types.UsualArithmeticConversion(l, r, c.table.UnsignedInt(), c.table.SignedLong(), c.table.UnsignedLong(), c.table.SignedInt())

	newLeft, newRight := left, right

	if !types.IsSameType(left.GetType(), target) {
		newLeft = ast.NewCast(target, left)
	}

	if !types.IsSameType(right.GetType(), target) {
		newRight = ast.NewCast(target, right)
	}

	replace(newLeft, newRight)

	return target
}

func (c *checker) checkUnaryOp(u *ast.UnaryOp) ast.Expression {
	u.Operand = c.checkExpr(u.Operand)

	switch u.Op {
	case "+", "-", "~":
		if !u.Operand.GetType().IsInteger() {
			c.diags.Error(u.Operand.GetSpan(), "wrong operand type for %s: %s", u.Op, u.Operand.GetType().String())
		}

		u.SetType(u.Operand.GetType())
	case "!":
		if !u.Operand.GetType().IsScalar() {
			c.diags.Error(u.Operand.GetSpan(), "wrong operand type for %s: %s", u.Op, u.Operand.GetType().String())
		}

		u.SetType(u.Operand.GetType())
	default:
		panic("internal error: unknown unary operator " + u.Op)
	}

	return u
}

// checkIncDec implements expectsScalarLHS for prefix/postfix ++/--: a
// parameter operand always passes (array decay); a non-parameter array
// operand is rejected outright; everything else must be scalar. A promoted
// integer operand records its promotion and a unit amount; a dereferable
// operand records the pointer's base size as its amount.
func (c *checker) checkIncDec(node ast.Expression) ast.Expression {
	var operand ast.Expression

	var op string

	switch n := node.(type) {
	case *ast.PrefixOp:
		operand, op = n.Operand, n.Op
	case *ast.PostfixOp:
		operand, op = n.Operand, n.Op
	}

	operand = c.checkExpr(operand)

	setOperand := func(e ast.Expression) {
		switch n := node.(type) {
		case *ast.PrefixOp:
			n.Operand = e
		case *ast.PostfixOp:
			n.Operand = e
		}
	}
	setOpType := func(t types.Type) {
		switch n := node.(type) {
		case *ast.PrefixOp:
			n.OpType = t
		case *ast.PostfixOp:
			n.OpType = t
		}
	}
	setAmount := func(a int64) {
		switch n := node.(type) {
		case *ast.PrefixOp:
			n.Amount = a
		case *ast.PostfixOp:
			n.Amount = a
		}
	}

	setOperand(operand)
	node.SetType(operand.GetType())

	isParam := false
	if id, ok := operand.(*ast.Identifier); ok {
		_, isParam = id.Decl.(*ast.Parameter)
	}

	if isParam {
		if !operand.GetType().IsScalar() {
			return node
		}
	} else if operand.GetType().IsArray() {
		c.diags.Error(operand.GetSpan(), "wrong operand type for %s: %s", op, operand.GetType().String())

		return node
	} else if !operand.GetType().IsScalar() {
		c.diags.Error(operand.GetSpan(), "wrong operand type for %s: %s", op, operand.GetType().String())

		return node
	}

	if operand.GetType().IsInteger() {
		opType := types.IntegralPromotion(operand.GetType(), c.table.SignedInt())
		if !types.IsSameType(opType, operand.GetType()) {
			setOpType(opType)
		}

		setAmount(1)

		return node
	}

	base := derefBase(operand.GetType())
	if base.IsVoid() {
		c.diags.Error(operand.GetSpan(), "wrong operand type for %s: %s", op, operand.GetType().String())

		return node
	}

	setAmount(int64(base.Size()))

	return node
}

func (c *checker) checkFuncall(f *ast.FuncallExpr) ast.Expression {
	f.Callee = c.checkExpr(f.Callee)

	args := f.Arguments()
	for i, a := range args {
		args[i] = c.checkExpr(a)
	}

	f.ReplaceArgs(args)

	ft := f.FunctionType()
	if ft == nil {
		f.SetType(f.Callee.GetType())

		return f
	}

	if !ft.AcceptsArgc(f.NumArgs()) {
		c.diags.Error(f.GetSpan(), "wrong number of argments: %d", f.NumArgs())
		f.SetType(ft.Return)

		return f
	}

	newArgs := make([]ast.Expression, f.NumArgs())

	for i, a := range f.Arguments() {
		if i >= len(ft.Params) {
			newArgs[i] = a // variadic extra: passes through unchanged

			continue
		}

		if checkRHSType(a.GetType()) {
			newArgs[i] = c.implicitCast(ft.Params[i], a)
		} else {
			c.diags.Error(a.GetSpan(), "invalid RHS type: %s", a.GetType().String())
			newArgs[i] = a
		}
	}

	f.ReplaceArgs(newArgs)
	f.SetType(ft.Return)

	return f
}

func (c *checker) checkAref(a *ast.ArefExpr) ast.Expression {
	a.Array = c.checkExpr(a.Array)
	a.Index = c.checkExpr(a.Index)

	if !a.Index.GetType().IsInteger() {
		c.diags.Error(a.Index.GetSpan(), "wrong operand type for []: %s", a.Index.GetType().String())
	}

	switch elem := a.Array.GetType().(type) {
	case *types.PointerType:
		a.SetType(elem.Base)
	case *types.ArrayType:
		a.SetType(elem.Element)
	default:
		a.SetType(a.Array.GetType())
	}

	return a
}

func (c *checker) checkCastExpr(ce *ast.CastExpr) ast.Expression {
	ce.Expr = c.checkExpr(ce.Expr)

	target := c.resolveType(ce.TargetRef)
	if target == nil {
		c.diags.Error(ce.GetSpan(), "invalid cast from %s to %s", ce.Expr.GetType().String(), ce.TargetRef.String())
		ce.SetType(ce.Expr.GetType())

		return ce
	}

	ce.SetTarget(target)

	if !types.IsCastableTo(ce.Expr.GetType(), target) {
		c.diags.Error(ce.GetSpan(), "invalid cast from %s to %s", ce.Expr.GetType().String(), target.String())
		ce.SetType(ce.Expr.GetType())

		return ce
	}

	ce.SetType(target)

	return ce
}

// binaryOpLabel names node for diagnostics: its operator string for
// BinaryOp/LogicalAnd/LogicalOr, or a literal phrase for the few callers
// that don't carry one (condition expressions route through
// checkCondition, not here, so this only ever sees the operator-bearing
// kinds).
func binaryOpLabel(node ast.Expression) string {
	switch n := node.(type) {
	case *ast.BinaryOp:
		return n.Op
	case *ast.LogicalAnd:
		return "&&"
	case *ast.LogicalOr:
		return "||"
	default:
		return "?"
	}
}
