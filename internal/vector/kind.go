package vector

// Kind enumerates the vectorized primitive operations dispatched by
// (Kind, operand logical types) per spec §4.4.
type Kind uint8

const (
	KindAnd Kind = iota
	KindOr
	KindXor
	KindNot

	KindEq
	KindNe
	KindLt
	KindLe
	KindGt
	KindGe

	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindPow
	KindNegate
	KindAbs

	KindIsNull
	KindIsNotNull

	KindHashNodeID

	KindCastToString
	KindCastFromString
)
