package types

import "fmt"

// Ref is the lookup key a TypeTable resolves: a base type name plus however
// many pointer and array derivations the declaration applied to it. It
// mirrors ast.TypeRef's shape without this package depending on ast (ast
// depends on types, not the reverse) — the typechecker package is
// responsible for converting one to the other at its boundary.
type Ref struct {
	Name         string
	PointerDepth int
	ArrayLen     int // -1: not an array, -2: incomplete array, >= 0: allocated array of that length
}

// Table maps type references to their canonical, resolved Type, and pins
// accessors for the platform integer types every arithmetic rule is defined
// in terms of. It is built once, before the checker runs, and is read-only
// for the duration of the pass.
type Table struct {
	named         map[string]Type
	signedInt     *IntegerType
	unsignedInt   *IntegerType
	signedLong    *IntegerType
	unsignedLong  *IntegerType
	ptrDiffRef    Ref
}

// NewILP32Table builds the TypeTable for the ILP32 profile the checker's
// arithmetic rules assume: 4-byte int, 4-byte long, 8-byte pointers, and
// ptrdiff_t aliased to signed long — the profile cbc itself targets.
func NewILP32Table() *Table {
	signedChar := &IntegerType{Name: "char", ByteSize: 1, Signed: true}
	signedShort := &IntegerType{Name: "short", ByteSize: 2, Signed: true}
	signedInt := &IntegerType{Name: "int", ByteSize: 4, Signed: true}
	unsignedInt := &IntegerType{Name: "unsigned int", ByteSize: 4, Signed: false}
	signedLong := &IntegerType{Name: "long", ByteSize: 4, Signed: true}
	unsignedLong := &IntegerType{Name: "unsigned long", ByteSize: 4, Signed: false}
	void := &VoidType{}

	t := &Table{
		named: map[string]Type{
			"char":          signedChar,
			"short":         signedShort,
			"int":           signedInt,
			"unsigned int":  unsignedInt,
			"long":          signedLong,
			"unsigned long": unsignedLong,
			"void":          void,
		},
		signedInt:    signedInt,
		unsignedInt:  unsignedInt,
		signedLong:   signedLong,
		unsignedLong: unsignedLong,
		ptrDiffRef:   Ref{Name: "long", ArrayLen: -1},
	}

	return t
}

// DefineStruct registers a named struct type, for use by declarations that
// reference it by name.
func (t *Table) DefineStruct(name string, fields []Field) *StructType {
	st := &StructType{Name: name, Fields: fields}
	t.named[name] = st

	return st
}

// DefineUnion registers a named union type.
func (t *Table) DefineUnion(name string, fields []Field) *UnionType {
	ut := &UnionType{Name: name, Fields: fields}
	t.named[name] = ut

	return ut
}

// Get resolves ref to its canonical Type, applying ref's pointer and array
// derivations on top of the named base type. The second return is false if
// the base name is undeclared.
func (t *Table) Get(ref Ref) (Type, bool) {
	base, ok := t.named[ref.Name]
	if !ok {
		return nil, false
	}

	result := base
	if ref.PointerDepth == 0 && ref.ArrayLen != -1 {
		length := ref.ArrayLen
		if length == -2 {
			length = -1 // ArrayType's own incomplete-array sentinel
		}

		result = &ArrayType{Element: result, Length: length}
	}

	for i := 0; i < ref.PointerDepth; i++ {
		result = &PointerType{Base: result}
	}

	return result, true
}

func (t *Table) SignedInt() Type     { return t.signedInt }
func (t *Table) UnsignedInt() Type   { return t.unsignedInt }
func (t *Table) SignedLong() Type    { return t.signedLong }
func (t *Table) UnsignedLong() Type  { return t.unsignedLong }
func (t *Table) PtrDiffType() Type   { return t.signedLong }
func (t *Table) PtrDiffTypeRef() Ref { return t.ptrDiffRef }

func (t *Table) String() string {
	return fmt.Sprintf("TypeTable{%d named types}", len(t.named))
}
