package typechecker

import (
	"github.com/cbc-lang/cbc/internal/ast"
	"github.com/cbc-lang/cbc/internal/types"
)

// checkFunction validates fn's return type and parameter types, then
// descends into its body with the return type pinned for checkReturn to
// consult.
func (c *checker) checkFunction(fn *ast.DefinedFunction) {
	retType := c.resolveType(fn.ReturnType)

	switch {
	case retType == nil:
		c.diags.Error(fn.GetSpan(), "returns invalid type: %s", fn.ReturnType.String())
	case retType.IsStruct() || retType.IsUnion() || retType.IsArray():
		c.diags.Error(fn.GetSpan(), "returns invalid type: %s", retType.String())
	default:
		fn.SetResolvedReturnType(retType)
	}

	for _, p := range fn.Params {
		pt := c.resolveType(p.TypeRef)

		switch {
		case pt == nil:
			c.diags.Error(p.GetSpan(), "invalid parameter type: %s", p.TypeRef.String())

			continue
		case pt.IsIncompleteArray() && c.dialect.SupportsIncompleteArrayParameters():
			// This dialect treats "T p[]" the same as "T *p": the parameter
			// decays to a pointer to the array's element rather than being
			// rejected outright.
			pt = &types.PointerType{Base: pt.(*types.ArrayType).Element}
		case pt.IsStruct() || pt.IsUnion() || pt.IsVoid() || pt.IsIncompleteArray():
			c.diags.Error(p.GetSpan(), "invalid parameter type: %s", pt.String())

			continue
		}

		p.SetType(pt)
	}

	prevRet := c.retType
	c.retType = fn.ResolvedReturnType()
	c.checkBlock(fn.Body)
	c.retType = prevRet
}

func (c *checker) checkGlobalVariable(v *ast.DefinedVariable) {
	c.checkVariable(v)
}

// checkVariable resolves v's declared type, rejecting void and non-allocated
// arrays, and — if it carries an initializer — validates and implicitly
// casts it to the declared type.
func (c *checker) checkVariable(v *ast.DefinedVariable) {
	t := c.resolveType(v.TypeRef)
	if t == nil || t.IsVoid() || (t.IsArray() && !t.IsAllocatedArray()) {
		c.diags.Error(v.GetSpan(), "invalid variable type")

		return
	}

	v.SetType(t)

	if v.Initializer == nil {
		return
	}

	init := c.checkExpr(v.Initializer)
	if !checkLHSType(t) {
		v.Initializer = init

		return
	}

	v.Initializer = c.implicitCast(t, init)
}

// checkLHSType reports whether t is an admissible assignment target: not
// struct, union, void, or array. Arrays only decay to pointers as function
// parameters, not as plain assignment targets.
func checkLHSType(t types.Type) bool {
	return !(t.IsStruct() || t.IsUnion() || t.IsVoid() || t.IsArray())
}

// checkRHSType reports whether t is an admissible value-producing type:
// not struct, union, or void.
func checkRHSType(t types.Type) bool {
	return !(t.IsStruct() || t.IsUnion() || t.IsVoid())
}

// resolveType resolves a TypeRef against the checker's type table. A nil
// return means the reference names no known type; callers decide the
// wording of the diagnostic that produces, since the same lookup backs
// several differently-worded errors.
func (c *checker) resolveType(ref ast.TypeRef) types.Type {
	// ast.TypeRef and types.Ref disagree on what a zero ArrayLen means: the
	// former uses it for an incomplete array ("T a[]"), the latter's -1
	// sentinel already means "not an array" so an incomplete array has to be
	// carried as a distinct negative value and un-shifted by Table.Get.
	arrayLen := -1
	if ref.IsArray() {
		if ref.ArrayLen == 0 {
			arrayLen = -2
		} else {
			arrayLen = ref.ArrayLen
		}
	}

	t, ok := c.table.Get(types.Ref{Name: ref.Name, PointerDepth: ref.PointerDepth, ArrayLen: arrayLen})
	if !ok {
		return nil
	}

	return t
}
