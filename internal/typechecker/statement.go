package typechecker

import "github.com/cbc-lang/cbc/internal/ast"

// checkBlock validates every local variable declared in b, then every
// statement, in source order.
func (c *checker) checkBlock(b *ast.Block) {
	for _, v := range b.Variables {
		c.checkVariable(v)
	}

	for _, s := range b.Stmts {
		c.checkStatement(s)
	}
}

// checkStatement dispatches to the validator for s's concrete kind.
func (c *checker) checkStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.DefinedVariable:
		c.checkVariable(st)
	case *ast.Block:
		c.checkBlock(st)
	case *ast.ExprStatement:
		c.checkExprStatement(st)
	case *ast.IfStatement:
		c.checkIfStatement(st)
	case *ast.WhileStatement:
		c.checkWhileStatement(st)
	case *ast.ForStatement:
		c.checkForStatement(st)
	case *ast.SwitchStatement:
		c.checkSwitchStatement(st)
	case *ast.ReturnStatement:
		c.checkReturnStatement(st)
	case *ast.BreakStatement, *ast.ContinueStatement:
		// no type-bearing content
	default:
		panic("internal error: unknown statement kind in checker")
	}
}

func (c *checker) checkExprStatement(s *ast.ExprStatement) {
	expr := c.checkExpr(s.Expr)
	s.Expr = expr

	t := expr.GetType()
	if t.IsStruct() || t.IsUnion() {
		c.diags.Error(s.GetSpan(), "invalid statement type: %s", t.String())
	}
}

// checkCondition validates cond and requires it to be scalar, as every
// conditional construct (if/while/for) does.
func (c *checker) checkCondition(cond ast.Expression) ast.Expression {
	cond = c.checkExpr(cond)
	if !cond.GetType().IsScalar() {
		c.diags.Error(cond.GetSpan(), "wrong operand type for condition expression")
	}

	return cond
}

func (c *checker) checkIfStatement(s *ast.IfStatement) {
	s.Cond = c.checkCondition(s.Cond)
	c.checkStatement(s.Then)

	if s.Else != nil {
		c.checkStatement(s.Else)
	}
}

func (c *checker) checkWhileStatement(s *ast.WhileStatement) {
	s.Cond = c.checkCondition(s.Cond)
	c.checkStatement(s.Body)
}

func (c *checker) checkForStatement(s *ast.ForStatement) {
	if s.Init != nil {
		c.checkStatement(s.Init)
	}

	if s.Cond != nil {
		s.Cond = c.checkCondition(s.Cond)
	}

	if s.Post != nil {
		c.checkStatement(s.Post)
	}

	c.checkStatement(s.Body)
}

func (c *checker) checkSwitchStatement(s *ast.SwitchStatement) {
	s.Cond = c.checkExpr(s.Cond)
	if !s.Cond.GetType().IsInteger() {
		c.diags.Error(s.Cond.GetSpan(), "wrong operand type for switch expression")
	}

	for _, cc := range s.Cases {
		for i, v := range cc.Values {
			cc.Values[i] = c.checkExpr(v)
		}

		for _, stmt := range cc.Body {
			c.checkStatement(stmt)
		}
	}
}

func (c *checker) checkReturnStatement(s *ast.ReturnStatement) {
	if c.retType == nil {
		return
	}

	if c.retType.IsVoid() {
		if s.Expr != nil {
			c.diags.Error(s.GetSpan(), "returning value from void function")
		}

		return
	}

	if s.Expr == nil {
		c.diags.Error(s.GetSpan(), "missing return value")

		return
	}

	expr := c.checkExpr(s.Expr)
	if expr.GetType().IsVoid() {
		c.diags.Error(expr.GetSpan(), "returning void")

		return
	}

	s.Expr = c.implicitCast(c.retType, expr)
}
