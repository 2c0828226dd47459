package ast

import (
	"fmt"
	"strings"

	"github.com/cbc-lang/cbc/internal/position"
	"github.com/cbc-lang/cbc/internal/types"
)

// Identifier is a reference to a previously-resolved binding — a variable,
// parameter, or function. Name resolution (out of scope for this module)
// guarantees Decl is non-nil by the time the checker runs.
type Identifier struct {
	exprBase
	Name string
	Decl Declaration
}

func NewIdentifier(span position.Span, name string, decl Declaration) *Identifier {
	return &Identifier{exprBase: exprBase{Span: span}, Name: name, Decl: decl}
}

func (i *Identifier) String() string               { return i.Name }
func (i *Identifier) Accept(v Visitor) interface{} { return v.VisitIdentifier(i) }

// IntegerLiteral is an integer constant. Its Type is set by the resolver
// before the checker runs, except for literals synthesized by the checker
// itself (pointer-base-size multipliers), which set it at construction time.
type IntegerLiteral struct {
	exprBase
	Value int64
}

func NewIntegerLiteral(span position.Span, value int64, t types.Type) *IntegerLiteral {
	return &IntegerLiteral{exprBase: exprBase{Span: span, Typ: t}, Value: value}
}

func (l *IntegerLiteral) String() string               { return fmt.Sprintf("%d", l.Value) }
func (l *IntegerLiteral) Accept(v Visitor) interface{} { return v.VisitIntegerLiteral(l) }

// Assignment is "LHS = RHS". The checker rewrites RHS in place with an
// implicit cast to LHS's type when the two types differ.
type Assignment struct {
	exprBase
	LHS, RHS Expression
}

func NewAssignment(span position.Span, lhs, rhs Expression) *Assignment {
	return &Assignment{exprBase: exprBase{Span: span}, LHS: lhs, RHS: rhs}
}

func (a *Assignment) String() string               { return fmt.Sprintf("%s = %s", a.LHS.String(), a.RHS.String()) }
func (a *Assignment) Accept(v Visitor) interface{} { return v.VisitAssignment(a) }

// OpAssignment is "LHS Op= RHS" (e.g. "+=", "&="). Op carries the underlying
// binary operator ("+", "&", ...) without the trailing '='.
type OpAssignment struct {
	exprBase
	Op       string
	LHS, RHS Expression
}

func NewOpAssignment(span position.Span, op string, lhs, rhs Expression) *OpAssignment {
	return &OpAssignment{exprBase: exprBase{Span: span}, Op: op, LHS: lhs, RHS: rhs}
}

func (a *OpAssignment) String() string {
	return fmt.Sprintf("%s %s= %s", a.LHS.String(), a.Op, a.RHS.String())
}
func (a *OpAssignment) Accept(v Visitor) interface{} { return v.VisitOpAssignment(a) }

// CondExpr is the ternary "Cond ? Then : Else".
type CondExpr struct {
	exprBase
	Cond, Then, Else Expression
}

func NewCondExpr(span position.Span, cond, then, els Expression) *CondExpr {
	return &CondExpr{exprBase: exprBase{Span: span}, Cond: cond, Then: then, Else: els}
}

func (c *CondExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Cond.String(), c.Then.String(), c.Else.String())
}
func (c *CondExpr) Accept(v Visitor) interface{} { return v.VisitCondExpr(c) }

// BinaryOp is a non-logical binary operator: "+", "-", "*", "/", "%", "&",
// "|", "^", "<<", ">>", "==", "!=", "<", "<=", ">", ">=".
type BinaryOp struct {
	exprBase
	Op          string
	Left, Right Expression
}

func NewBinaryOp(span position.Span, op string, left, right Expression) *BinaryOp {
	return &BinaryOp{exprBase: exprBase{Span: span}, Op: op, Left: left, Right: right}
}

func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}
func (b *BinaryOp) Accept(v Visitor) interface{} { return v.VisitBinaryOp(b) }

// LogicalAnd is "&&". Kept as its own node kind, distinct from BinaryOp,
// because short-circuit operators are typed by expectsComparableScalars like
// the comparison operators, not like arithmetic BinaryOp — merging the two
// kinds would blur that distinction at every call site.
type LogicalAnd struct {
	exprBase
	Left, Right Expression
}

func NewLogicalAnd(span position.Span, left, right Expression) *LogicalAnd {
	return &LogicalAnd{exprBase: exprBase{Span: span}, Left: left, Right: right}
}

func (l *LogicalAnd) String() string               { return fmt.Sprintf("(%s && %s)", l.Left.String(), l.Right.String()) }
func (l *LogicalAnd) Accept(v Visitor) interface{} { return v.VisitLogicalAnd(l) }

// LogicalOr is "||".
type LogicalOr struct {
	exprBase
	Left, Right Expression
}

func NewLogicalOr(span position.Span, left, right Expression) *LogicalOr {
	return &LogicalOr{exprBase: exprBase{Span: span}, Left: left, Right: right}
}

func (l *LogicalOr) String() string               { return fmt.Sprintf("(%s || %s)", l.Left.String(), l.Right.String()) }
func (l *LogicalOr) Accept(v Visitor) interface{} { return v.VisitLogicalOr(l) }

// UnaryOp is "+", "-", "~" (integer operand) or "!" (scalar operand).
type UnaryOp struct {
	exprBase
	Op      string
	Operand Expression
}

func NewUnaryOp(span position.Span, op string, operand Expression) *UnaryOp {
	return &UnaryOp{exprBase: exprBase{Span: span}, Op: op, Operand: operand}
}

func (u *UnaryOp) String() string               { return u.Op + u.Operand.String() }
func (u *UnaryOp) Accept(v Visitor) interface{} { return v.VisitUnaryOp(u) }

// incDecBase carries the fields PrefixOp and PostfixOp share: the operator
// ("++" or "--"), and the OpType/Amount the checker derives for codegen. If
// the integer operand's integral promotion changes its type, OpType records
// the promoted type and the node's own Type stays the operand's original
// type; Amount is 1 for integers and sizeof(base) for pointers.
type incDecBase struct {
	exprBase
	Op      string
	Operand Expression
	OpType  types.Type
	Amount  int64
}

// PrefixOp is "++x" / "--x".
type PrefixOp struct{ incDecBase }

func NewPrefixOp(span position.Span, op string, operand Expression) *PrefixOp {
	return &PrefixOp{incDecBase{exprBase: exprBase{Span: span}, Op: op, Operand: operand}}
}

func (p *PrefixOp) String() string               { return p.Op + p.Operand.String() }
func (p *PrefixOp) Accept(v Visitor) interface{} { return v.VisitPrefixOp(p) }

// PostfixOp is "x++" / "x--".
type PostfixOp struct{ incDecBase }

func NewPostfixOp(span position.Span, op string, operand Expression) *PostfixOp {
	return &PostfixOp{incDecBase{exprBase: exprBase{Span: span}, Op: op, Operand: operand}}
}

func (p *PostfixOp) String() string               { return p.Operand.String() + p.Op }
func (p *PostfixOp) Accept(v Visitor) interface{} { return v.VisitPostfixOp(p) }

// FuncallExpr is a function call. Callee is ordinarily an *Identifier bound
// to a *DefinedFunction, whose resolved type is a *types.FunctionType.
type FuncallExpr struct {
	exprBase
	Callee Expression
	Args   []Expression
}

func NewFuncallExpr(span position.Span, callee Expression, args []Expression) *FuncallExpr {
	return &FuncallExpr{exprBase: exprBase{Span: span}, Callee: callee, Args: args}
}

func (f *FuncallExpr) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}

	return fmt.Sprintf("%s(%s)", f.Callee.String(), strings.Join(args, ", "))
}
func (f *FuncallExpr) Accept(v Visitor) interface{} { return v.VisitFuncallExpr(f) }

// FunctionType returns the callee's function type, or nil if the callee does
// not resolve to one (an internal-resolver invariant the checker assumes
// never happens, but guards against rather than panicking on).
func (f *FuncallExpr) FunctionType() *types.FunctionType {
	ft, _ := f.Callee.GetType().(*types.FunctionType)
	return ft
}

// NumArgs returns the number of call-site arguments.
func (f *FuncallExpr) NumArgs() int { return len(f.Args) }

// Arguments returns the call-site argument expressions.
func (f *FuncallExpr) Arguments() []Expression { return f.Args }

// ReplaceArgs atomically installs a new argument list, e.g. after wrapping
// mandatory-parameter arguments in implicit casts.
func (f *FuncallExpr) ReplaceArgs(args []Expression) { f.Args = args }

// ArefExpr is an array/pointer index expression "Array[Index]".
type ArefExpr struct {
	exprBase
	Array, Index Expression
}

func NewArefExpr(span position.Span, array, index Expression) *ArefExpr {
	return &ArefExpr{exprBase: exprBase{Span: span}, Array: array, Index: index}
}

func (a *ArefExpr) String() string {
	return fmt.Sprintf("%s[%s]", a.Array.String(), a.Index.String())
}
func (a *ArefExpr) Accept(v Visitor) interface{} { return v.VisitArefExpr(a) }

// CastExpr is a source-level explicit cast "(T)expr".
type CastExpr struct {
	exprBase
	TargetRef TypeRef
	Expr      Expression

	target types.Type // resolved once by the checker
}

func NewCastExpr(span position.Span, targetRef TypeRef, expr Expression) *CastExpr {
	return &CastExpr{exprBase: exprBase{Span: span}, TargetRef: targetRef, Expr: expr}
}

func (c *CastExpr) String() string { return fmt.Sprintf("(%s)%s", c.TargetRef.String(), c.Expr.String()) }
func (c *CastExpr) Accept(v Visitor) interface{} { return v.VisitCastExpr(c) }
func (c *CastExpr) Target() types.Type           { return c.target }
func (c *CastExpr) SetTarget(t types.Type)        { c.target = t }

// Cast is a checker-inserted implicit conversion: the materialized witness
// that an assignment, return, initializer, call argument, or arithmetic
// promotion required a conversion the source text did not spell out. It is
// a distinct node kind from CastExpr precisely so that a second run of the
// pass never mistakes its own output for unconverted source and tries to
// re-wrap it (the implicitCast stability law in the testable properties).
type Cast struct {
	exprBase
	Expr Expression
}

// NewCast constructs an implicit-cast node with its Type already set to
// target, so the invariant "every expression has a non-nil type" holds the
// instant it is spliced into a parent slot.
func NewCast(target types.Type, expr Expression) *Cast {
	return &Cast{exprBase: exprBase{Span: expr.GetSpan(), Typ: target}, Expr: expr}
}

func (c *Cast) String() string               { return fmt.Sprintf("(%s)%s", c.Typ.String(), c.Expr.String()) }
func (c *Cast) Accept(v Visitor) interface{} { return v.VisitCast(c) }
