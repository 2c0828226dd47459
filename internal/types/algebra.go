package types

import "fmt"

// IsSameType is reflexive structural equality over the closed type variant.
func IsSameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch at := a.(type) {
	case *IntegerType:
		bt := b.(*IntegerType)
		// Name, not just ByteSize/Signed, distinguishes rank: on ILP32 "int"
		// and "long" share a width and signedness but are still different
		// types (and different ranks for the usual arithmetic conversion).
		return at.Name == bt.Name && at.ByteSize == bt.ByteSize && at.Signed == bt.Signed
	case *PointerType:
		bt := b.(*PointerType)
		return IsSameType(at.Base, bt.Base)
	case *ArrayType:
		bt := b.(*ArrayType)
		return at.Length == bt.Length && IsSameType(at.Element, bt.Element)
	case *StructType:
		bt := b.(*StructType)
		return at.Name == bt.Name
	case *UnionType:
		bt := b.(*UnionType)
		return at.Name == bt.Name
	case *VoidType:
		return true
	case *FunctionType:
		bt := b.(*FunctionType)
		if at.Variadic != bt.Variadic || len(at.Params) != len(bt.Params) || !IsSameType(at.Return, bt.Return) {
			return false
		}

		for i := range at.Params {
			if !IsSameType(at.Params[i], bt.Params[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// IsCompatible is the directed relation used to decide whether an a-value
// may stand where a b-value is expected without a narrowing warning: same
// type, or an integer widening into a not-smaller integer of compatible
// signedness, or a pointer whose base is compatible (by this same relation)
// with the other pointer's base, or any pointer into a void pointer and vice
// versa.
func IsCompatible(a, b Type) bool {
	if IsSameType(a, b) {
		return true
	}

	if ai, ok := a.(*IntegerType); ok {
		if bi, ok := b.(*IntegerType); ok {
			return bi.Size() >= ai.Size() && bi.Signed == ai.Signed
		}
	}

	if ap, ok := a.(*PointerType); ok {
		if bp, ok := b.(*PointerType); ok {
			if ap.Base.IsVoid() || bp.Base.IsVoid() {
				return true
			}

			return IsCompatible(ap.Base, bp.Base)
		}
	}

	return false
}

// IsCastableTo is the broader convertibility relation, including
// warning-eligible conversions implicitCast is willing to materialize: any
// two integers, any pointer-to-pointer conversion, and anything IsCompatible
// already allows.
func IsCastableTo(from, to Type) bool {
	if IsCompatible(from, to) {
		return true
	}

	if from == nil || to == nil {
		return false
	}

	if from.IsInteger() && to.IsInteger() {
		return true
	}

	if from.IsPointer() && to.IsPointer() {
		return true
	}

	// An integer and a pointer may stand in for each other (the classic
	// `(int*)0` / `(long)ptr` idioms). IsCompatible never allows this, so
	// when implicitCast materializes such a conversion it also warns.
	if (from.IsInteger() && to.IsPointer()) || (from.IsPointer() && to.IsInteger()) {
		return true
	}

	return false
}

// IntegralPromotion widens an integer type narrower than signedInt up to
// signedInt; wider types, including signedInt itself, pass through
// unchanged. t must be an integer type — this is an internal invariant the
// expression validator is responsible for upholding before calling in, not
// a condition this function recovers from.
func IntegralPromotion(t Type, signedInt Type) Type {
	it, ok := t.(*IntegerType)
	if !ok {
		panic(fmt.Sprintf("internal error: integralPromotion called on non-integer type %s", t.String()))
	}

	if it.Size() < signedInt.Size() {
		return signedInt
	}

	return t
}

// UsualArithmeticConversion computes the common type of two integer operands
// that have already been integrally promoted (so both have size >=
// sizeof(int)), per the ILP32 ladder in §4.5: unsigned int paired with signed
// long gives unsigned long; otherwise unsigned long beats everything, then
// signed long, then unsigned int, then plain signed int — symmetric in its
// two arguments by construction.
func UsualArithmeticConversion(a, b Type, unsignedInt, signedLong, unsignedLong, signedInt Type) Type {
	ai, aok := a.(*IntegerType)
	bi, bok := b.(*IntegerType)

	if !aok || !bok {
		panic("internal error: usualArithmeticConversion called on non-integer type")
	}

	isUnsignedInt := func(t *IntegerType) bool { return IsSameType(t, unsignedInt) }
	isSignedLong := func(t *IntegerType) bool { return IsSameType(t, signedLong) }
	isUnsignedLong := func(t *IntegerType) bool { return IsSameType(t, unsignedLong) }

	oneIsUnsignedInt := isUnsignedInt(ai) || isUnsignedInt(bi)
	oneIsSignedLong := isSignedLong(ai) || isSignedLong(bi)

	if oneIsUnsignedInt && oneIsSignedLong {
		return unsignedLong
	}

	if isUnsignedLong(ai) || isUnsignedLong(bi) {
		return unsignedLong
	}

	if oneIsSignedLong {
		return signedLong
	}

	if oneIsUnsignedInt {
		return unsignedInt
	}

	return signedInt
}

// IsSafeIntegerCast reports whether literalValue (assumed to already be
// known to be an integer-literal's value) fits inside target's domain,
// suppressing the narrowing warning implicitCast would otherwise emit for
// idioms like "char c = 0;".
func IsSafeIntegerCast(target Type, literalValue int64) bool {
	it, ok := target.(*IntegerType)
	if !ok {
		return false
	}

	return it.IsInDomain(literalValue)
}
