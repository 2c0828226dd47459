package typechecker

import (
	"github.com/cbc-lang/cbc/internal/ast"
	"github.com/cbc-lang/cbc/internal/config"
	"github.com/cbc-lang/cbc/internal/diagnostics"
	"github.com/cbc-lang/cbc/internal/position"
	"github.com/cbc-lang/cbc/internal/types"
)

// testSpan returns an arbitrary, valid span good enough for span-bearing
// assertions that don't care about the exact location.
func testSpan() position.Span {
	pos := position.Position{Filename: "t.cbc", Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: pos, End: pos}
}

// newFixture returns a checker wired to a fresh ILP32 table and an empty
// diagnostics sink, plus the table for convenience.
func newFixture() (*checker, *types.Table) {
	table := types.NewILP32Table()
	return &checker{table: table, dialect: config.DefaultDialect, diags: diagnostics.NewSink()}, table
}

// newFixtureWithDialect is newFixture with the dialect under test swapped
// in, for exercising the behavior a dialect's strictness settings gate.
func newFixtureWithDialect(dialect config.Dialect) (*checker, *types.Table) {
	c, table := newFixture()
	c.dialect = dialect

	return c, table
}

func mustType(t *types.Table, ref types.Ref) types.Type {
	typ, ok := t.Get(ref)
	if !ok {
		panic("test fixture: unresolvable type ref " + ref.Name)
	}

	return typ
}

func intLit(table *types.Table, value int64) *ast.IntegerLiteral {
	return ast.NewIntegerLiteral(testSpan(), value, mustType(table, types.Ref{Name: "int", ArrayLen: -1}))
}

// typedIdent builds an Identifier of the given type, bound to a synthetic
// local variable declaration (standing in for what a real name resolver
// would have already bound it to).
func typedIdent(name string, t types.Type) *ast.Identifier {
	decl := &ast.DefinedVariable{Span: testSpan(), Name: name}
	decl.SetType(t)

	id := ast.NewIdentifier(testSpan(), name, decl)
	id.SetType(t)

	return id
}

// paramIdent builds an Identifier bound to a Parameter, so checkLHS/checkIncDec's
// "parameter operands are always admissible" rule applies to it.
func paramIdent(name string, t types.Type) *ast.Identifier {
	decl := &ast.Parameter{Span: testSpan(), Name: name}
	decl.SetType(t)

	id := ast.NewIdentifier(testSpan(), name, decl)
	id.SetType(t)

	return id
}
