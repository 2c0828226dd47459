// Package typechecker implements the semantic checking pass: it validates
// every type-bearing construct in a parsed, name-resolved program, rewrites
// the tree in place to materialize implicit conversions as explicit Cast
// nodes, and annotates arithmetic and pointer operations with the types and
// scale factors codegen needs. It assumes the tree it is given already
// passed name resolution — every Identifier's Decl field is non-nil — and a
// dereferenceability pass — Decl/TypeRef combinations that could never
// resolve to a real type have already been rejected upstream.
package typechecker

import (
	"errors"

	"github.com/cbc-lang/cbc/internal/ast"
	"github.com/cbc-lang/cbc/internal/config"
	"github.com/cbc-lang/cbc/internal/diagnostics"
	"github.com/cbc-lang/cbc/internal/types"
)

// ErrSemanticFailure is returned by Check when the diagnostics sink recorded
// at least one error-level diagnostic during the pass. Warnings alone do not
// trigger it — a program with only narrowing-conversion warnings is still a
// valid program.
var ErrSemanticFailure = errors.New("typechecker: semantic errors found")

// checker carries the state one Check call threads through every helper:
// the type table to resolve TypeRefs against, the dialect that gates
// optional strictness rules, the diagnostics sink to report into, and the
// return type of whichever function is currently being validated (nil at
// top level).
type checker struct {
	table   *types.Table
	dialect config.Dialect
	diags   *diagnostics.Sink
	retType types.Type
}

// Check validates prog against table under dialect, reporting every problem
// it finds into diags, and splices Cast nodes into prog wherever an implicit
// conversion is required. It keeps checking past recoverable errors so that
// a single run surfaces as many diagnostics as possible, rather than
// stopping at the first one. It returns ErrSemanticFailure if diags recorded
// any error-level diagnostic; a nil return means prog is well-typed (modulo
// any reported warnings).
func Check(prog *ast.Program, table *types.Table, dialect config.Dialect, diags *diagnostics.Sink) error {
	c := &checker{table: table, dialect: dialect, diags: diags}

	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.DefinedVariable:
			c.checkGlobalVariable(d)
		case *ast.DefinedFunction:
			c.checkFunction(d)
		}
	}

	if diags.ErrorOccurred() {
		return ErrSemanticFailure
	}

	return nil
}
