// Package ast defines the abstract syntax tree for the cbc C-subset compiler.
//
// Nodes are produced by the (out-of-scope) lexer, parser, and name resolver
// before the semantic type-checking pass ever sees them: declarations already
// carry their syntactic type references, identifiers already carry the
// declaration they name and its type, and literals already carry a type. Every
// other Expression node still lacks a *resolved* Type on arrival — that slot,
// and the Cast/arithmetic-rewrite nodes the checker splices into child slots,
// are what this pass fills in.
package ast

import (
	"fmt"
	"strings"

	"github.com/cbc-lang/cbc/internal/position"
	"github.com/cbc-lang/cbc/internal/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	GetSpan() position.Span
	String() string
	Accept(visitor Visitor) interface{}
}

// Statement is implemented by every statement-position node.
type Statement interface {
	Node
	statementNode()
}

// Declaration is implemented by every top-level or local declaration node.
type Declaration interface {
	Node
	declarationNode()
}

// Expression is implemented by every expression-position node. Type is nil
// until the checker (or an earlier resolution step, for literals and
// identifiers) fills it in; Cast insertion rewrites a parent's child slot,
// never the Expression interface itself.
type Expression interface {
	Node
	expressionNode()
	GetType() types.Type
	SetType(t types.Type)
}

type exprBase struct {
	Span position.Span
	Typ  types.Type
}

func (e *exprBase) GetSpan() position.Span { return e.Span }
func (e *exprBase) expressionNode()        {}
func (e *exprBase) GetType() types.Type    { return e.Typ }
func (e *exprBase) SetType(t types.Type)   { e.Typ = t }

// TypeRef is the syntactic spelling of a type before resolution: a base name
// plus however many '*' and array-bracket suffixes the declaration wrote.
// ArrayLen is -1 for a non-array TypeRef, 0 for an incomplete array ("T a[]"),
// and a positive length for an allocated array ("T a[N]").
type TypeRef struct {
	Span         position.Span
	Name         string
	PointerDepth int
	ArrayLen     int
}

func (r TypeRef) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString(strings.Repeat("*", r.PointerDepth))

	if r.ArrayLen == 0 {
		b.WriteString("[]")
	} else if r.ArrayLen > 0 {
		fmt.Fprintf(&b, "[%d]", r.ArrayLen)
	}

	return b.String()
}

// IsArray reports whether this reference denotes an array (allocated or not).
func (r TypeRef) IsArray() bool { return r.PointerDepth == 0 && r.ArrayLen >= 0 }

// ===== Program =====

// Program is the root of a translation unit's AST.
type Program struct {
	Span         position.Span
	Declarations []Declaration
}

func (p *Program) GetSpan() position.Span { return p.Span }
func (p *Program) String() string {
	parts := make([]string, 0, len(p.Declarations))
	for _, d := range p.Declarations {
		parts = append(parts, d.String())
	}

	return strings.Join(parts, "\n")
}
func (p *Program) Accept(v Visitor) interface{} { return v.VisitProgram(p) }

// ===== Declarations =====

// Parameter is a single function parameter.
type Parameter struct {
	Span    position.Span
	Name    string
	TypeRef TypeRef

	resolved types.Type // filled in by the declaration validator
}

func (p *Parameter) GetSpan() position.Span       { return p.Span }
func (p *Parameter) declarationNode()             {}
func (p *Parameter) String() string               { return fmt.Sprintf("%s %s", p.TypeRef.String(), p.Name) }
func (p *Parameter) Accept(v Visitor) interface{} { return v.VisitParameter(p) }

// Type returns the parameter's resolved type, set once by the declaration
// validator; nil before that.
func (p *Parameter) Type() types.Type     { return p.resolved }
func (p *Parameter) SetType(t types.Type) { p.resolved = t }

// DefinedFunction is a function definition with a body.
type DefinedFunction struct {
	Span       position.Span
	Name       string
	ReturnType TypeRef
	Params     []*Parameter
	Variadic   bool
	Body       *Block

	resolvedReturn types.Type
}

func (f *DefinedFunction) GetSpan() position.Span { return f.Span }
func (f *DefinedFunction) declarationNode()       {}
func (f *DefinedFunction) String() string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, p.String())
	}

	return fmt.Sprintf("%s %s(%s) %s", f.ReturnType.String(), f.Name, strings.Join(params, ", "), f.Body.String())
}
func (f *DefinedFunction) Accept(v Visitor) interface{} { return v.VisitDefinedFunction(f) }

// ResolvedReturnType returns the function's resolved return type, set once by
// the declaration validator.
func (f *DefinedFunction) ResolvedReturnType() types.Type     { return f.resolvedReturn }
func (f *DefinedFunction) SetResolvedReturnType(t types.Type) { f.resolvedReturn = t }

// DefinedVariable is a global or local variable declaration, with an optional
// initializer. IsGlobal distinguishes module-level variables (validated
// directly by the entry point) from block-local ones (validated by the
// enclosing Block).
type DefinedVariable struct {
	Span        position.Span
	Name        string
	TypeRef     TypeRef
	Initializer Expression
	IsGlobal    bool

	resolved types.Type
}

func (v *DefinedVariable) GetSpan() position.Span { return v.Span }
func (v *DefinedVariable) declarationNode()       {}
func (v *DefinedVariable) statementNode()         {}
func (v *DefinedVariable) String() string {
	init := ""
	if v.Initializer != nil {
		init = " = " + v.Initializer.String()
	}

	return fmt.Sprintf("%s %s%s;", v.TypeRef.String(), v.Name, init)
}
func (v *DefinedVariable) Accept(vis Visitor) interface{} { return vis.VisitDefinedVariable(v) }

// Type returns the variable's resolved type, set once by the declaration
// validator; nil before that.
func (v *DefinedVariable) Type() types.Type     { return v.resolved }
func (v *DefinedVariable) SetType(t types.Type) { v.resolved = t }
