package vector

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/pkg/dberr"
)

func unsupported(kind Kind, types ...catalog.LogicalTypeID) error {
	return dberr.New(dberr.KindUnsupportedExpression, "unsupported primitive %d over %v", kind, types)
}

// ExecuteUnary implements the unary-execute shape: op(in, out), one
// output slot per input slot the selection exposes, written back at
// the same physical slot index so downstream reads stay aligned.
func ExecuteUnary(kind Kind, in *Vector, sel *SelectionState, out *Vector) error {
	for i := 0; i < sel.Len(); i++ {
		pos := sel.At(i)
		if in.IsNull(pos) {
			out.SetNull(pos, true)
			continue
		}
		switch kind {
		case KindNot:
			if in.Type.ID != catalog.BOOL {
				return unsupported(kind, in.Type.ID)
			}
			out.SetBool(pos, !in.GetBool(pos))
		case KindNegate:
			switch in.Type.ID {
			case catalog.INT64:
				out.SetInt64(pos, -in.GetInt64(pos))
			case catalog.DOUBLE:
				out.SetFloat64(pos, -in.GetFloat64(pos))
			default:
				return unsupported(kind, in.Type.ID)
			}
		case KindAbs:
			switch in.Type.ID {
			case catalog.INT64:
				v := in.GetInt64(pos)
				if v < 0 {
					v = -v
				}
				out.SetInt64(pos, v)
			case catalog.DOUBLE:
				out.SetFloat64(pos, math.Abs(in.GetFloat64(pos)))
			default:
				return unsupported(kind, in.Type.ID)
			}
		case KindIsNull:
			out.SetBool(pos, false) // unreachable: null short-circuited above
		case KindIsNotNull:
			out.SetBool(pos, true)
		case KindHashNodeID:
			if in.Type.ID != catalog.NODE {
				return unsupported(kind, in.Type.ID)
			}
			var b [8]byte
			off := in.GetNodeOffset(pos)
			for j := 0; j < 8; j++ {
				b[j] = byte(off >> (8 * j))
			}
			out.SetInt64(pos, int64(xxhash.Sum64(b[:])))
		default:
			return unsupported(kind, in.Type.ID)
		}
	}
	// IS_NULL/IS_NOT_NULL need the null case handled specially since
	// it is the predicate under test, not a propagated null.
	if kind == KindIsNull || kind == KindIsNotNull {
		for i := 0; i < sel.Len(); i++ {
			pos := sel.At(i)
			isNull := in.IsNull(pos)
			if kind == KindIsNull {
				out.SetBool(pos, isNull)
			} else {
				out.SetBool(pos, !isNull)
			}
		}
	}
	return nil
}

// SelectUnary implements the unary-select shape: writes surviving
// physical positions into selOut and returns how many. Only defined
// for BOOL-producing kinds (IS_NULL/IS_NOT_NULL, NOT applied to a
// materialized predicate vector).
func SelectUnary(kind Kind, in *Vector, sel *SelectionState, selOut []uint32) (int, error) {
	n := 0
	for i := 0; i < sel.Len(); i++ {
		pos := sel.At(i)
		var keep bool
		switch kind {
		case KindIsNull:
			keep = in.IsNull(pos)
		case KindIsNotNull:
			keep = !in.IsNull(pos)
		case KindNot:
			if in.Type.ID != catalog.BOOL {
				return 0, unsupported(kind, in.Type.ID)
			}
			keep = !in.IsNull(pos) && !in.GetBool(pos)
		default:
			return 0, unsupported(kind, in.Type.ID)
		}
		if keep {
			if n < len(selOut) {
				selOut[n] = uint32(pos)
			}
			n++
		}
	}
	return n, nil
}

// ExecuteBinary implements the binary-execute shape: op(lhs, rhs,
// out). lhs and rhs must share the same selection (co-flatness).
func ExecuteBinary(kind Kind, lhs, rhs *Vector, sel *SelectionState, out *Vector) error {
	for i := 0; i < sel.Len(); i++ {
		pos := sel.At(i)
		if lhs.IsNull(pos) || rhs.IsNull(pos) {
			if kind == KindAnd || kind == KindOr {
				if ok, val := threeValuedShortCircuit(kind, lhs, rhs, pos); ok {
					out.SetBool(pos, val)
					continue
				}
			}
			out.SetNull(pos, true)
			continue
		}
		if err := executeBinaryNonNull(kind, lhs, rhs, pos, out); err != nil {
			return err
		}
	}
	return nil
}

// threeValuedShortCircuit implements AND/OR's three-valued logic:
// FALSE AND null = FALSE, TRUE OR null = TRUE, otherwise the result is
// null and the caller falls through to the null branch.
func threeValuedShortCircuit(kind Kind, lhs, rhs *Vector, pos int) (ok bool, val bool) {
	if lhs.Type.ID != catalog.BOOL || rhs.Type.ID != catalog.BOOL {
		return false, false
	}
	lhsNull, rhsNull := lhs.IsNull(pos), rhs.IsNull(pos)
	if kind == KindAnd {
		if !lhsNull && !lhs.GetBool(pos) {
			return true, false
		}
		if !rhsNull && !rhs.GetBool(pos) {
			return true, false
		}
	}
	if kind == KindOr {
		if !lhsNull && lhs.GetBool(pos) {
			return true, true
		}
		if !rhsNull && rhs.GetBool(pos) {
			return true, true
		}
	}
	return false, false
}

func executeBinaryNonNull(kind Kind, lhs, rhs *Vector, pos int, out *Vector) error {
	switch kind {
	case KindAnd:
		return boolOp(kind, lhs, rhs, pos, out)
	case KindOr:
		return boolOp(kind, lhs, rhs, pos, out)
	case KindXor:
		return boolOp(kind, lhs, rhs, pos, out)
	case KindEq, KindNe, KindLt, KindLe, KindGt, KindGe:
		return compareOp(kind, lhs, rhs, pos, out)
	case KindAdd, KindSub, KindMul, KindDiv, KindMod, KindPow:
		return arithOp(kind, lhs, rhs, pos, out)
	default:
		return unsupported(kind, lhs.Type.ID, rhs.Type.ID)
	}
}

func boolOp(kind Kind, lhs, rhs *Vector, pos int, out *Vector) error {
	if lhs.Type.ID != catalog.BOOL || rhs.Type.ID != catalog.BOOL {
		return unsupported(kind, lhs.Type.ID, rhs.Type.ID)
	}
	a, b := lhs.GetBool(pos), rhs.GetBool(pos)
	switch kind {
	case KindAnd:
		out.SetBool(pos, a && b)
	case KindOr:
		out.SetBool(pos, a || b)
	case KindXor:
		out.SetBool(pos, a != b)
	}
	return nil
}

func compareOp(kind Kind, lhs, rhs *Vector, pos int, out *Vector) error {
	// NODE-id comparison is a specialization of EQ/NE/relational ops
	// over 64-bit offsets rather than the general typed path (spec
	// §4.4: "comparison ... including a node-id specialization").
	if lhs.Type.ID == catalog.NODE && rhs.Type.ID == catalog.NODE {
		a, b := lhs.GetNodeOffset(pos), rhs.GetNodeOffset(pos)
		out.SetBool(pos, compareUint64(kind, a, b))
		return nil
	}
	if lhs.Type.ID != rhs.Type.ID {
		return unsupported(kind, lhs.Type.ID, rhs.Type.ID)
	}
	switch lhs.Type.ID {
	case catalog.INT64:
		out.SetBool(pos, compareInt64(kind, lhs.GetInt64(pos), rhs.GetInt64(pos)))
	case catalog.DOUBLE:
		out.SetBool(pos, compareFloat64(kind, lhs.GetFloat64(pos), rhs.GetFloat64(pos)))
	case catalog.BOOL:
		if kind != KindEq && kind != KindNe {
			return unsupported(kind, lhs.Type.ID)
		}
		a, b := lhs.GetBool(pos), rhs.GetBool(pos)
		out.SetBool(pos, (kind == KindEq) == (a == b))
	case catalog.STRING:
		if kind != KindEq && kind != KindNe {
			return unsupported(kind, lhs.Type.ID)
		}
		ls := lhs.slot(pos)
		rs := rhs.slot(pos)
		lhsD, rhsD := decodeSlotDescriptor(ls), decodeSlotDescriptor(rs)
		eq, err := stringEquals(lhs, rhs, lhsD, rhsD)
		if err != nil {
			return err
		}
		out.SetBool(pos, (kind == KindEq) == eq)
	default:
		return unsupported(kind, lhs.Type.ID)
	}
	return nil
}

func compareInt64(kind Kind, a, b int64) bool {
	switch kind {
	case KindEq:
		return a == b
	case KindNe:
		return a != b
	case KindLt:
		return a < b
	case KindLe:
		return a <= b
	case KindGt:
		return a > b
	case KindGe:
		return a >= b
	}
	return false
}

func compareFloat64(kind Kind, a, b float64) bool {
	switch kind {
	case KindEq:
		return a == b
	case KindNe:
		return a != b
	case KindLt:
		return a < b
	case KindLe:
		return a <= b
	case KindGt:
		return a > b
	case KindGe:
		return a >= b
	}
	return false
}

func compareUint64(kind Kind, a, b uint64) bool {
	switch kind {
	case KindEq:
		return a == b
	case KindNe:
		return a != b
	case KindLt:
		return a < b
	case KindLe:
		return a <= b
	case KindGt:
		return a > b
	case KindGe:
		return a >= b
	}
	return false
}

func arithOp(kind Kind, lhs, rhs *Vector, pos int, out *Vector) error {
	if lhs.Type.ID != rhs.Type.ID {
		return unsupported(kind, lhs.Type.ID, rhs.Type.ID)
	}
	switch lhs.Type.ID {
	case catalog.INT64:
		a, b := lhs.GetInt64(pos), rhs.GetInt64(pos)
		switch kind {
		case KindAdd:
			out.SetInt64(pos, a+b)
		case KindSub:
			out.SetInt64(pos, a-b)
		case KindMul:
			out.SetInt64(pos, a*b)
		case KindDiv:
			if b == 0 {
				out.SetNull(pos, true)
				return nil
			}
			out.SetInt64(pos, a/b)
		case KindMod:
			if b == 0 {
				out.SetNull(pos, true)
				return nil
			}
			out.SetInt64(pos, a%b)
		case KindPow:
			out.SetFloat64(pos, math.Pow(float64(a), float64(b)))
		}
	case catalog.DOUBLE:
		a, b := lhs.GetFloat64(pos), rhs.GetFloat64(pos)
		switch kind {
		case KindAdd:
			out.SetFloat64(pos, a+b)
		case KindSub:
			out.SetFloat64(pos, a-b)
		case KindMul:
			out.SetFloat64(pos, a*b)
		case KindDiv:
			out.SetFloat64(pos, a/b)
		case KindMod:
			out.SetFloat64(pos, math.Mod(a, b))
		case KindPow:
			out.SetFloat64(pos, math.Pow(a, b))
		}
	default:
		return unsupported(kind, lhs.Type.ID)
	}
	return nil
}

// SelectBinary implements the binary-select shape used to fuse filter
// predicates without materializing a boolean vector (spec §4.4).
func SelectBinary(kind Kind, lhs, rhs *Vector, sel *SelectionState, selOut []uint32) (int, error) {
	n := 0
	tmp := New(catalog.Primitive(catalog.BOOL), lhs.Capacity)
	for i := 0; i < sel.Len(); i++ {
		pos := sel.At(i)
		one := NewFlatSelection(pos)
		if err := ExecuteBinary(kind, lhs, rhs, one, tmp); err != nil {
			return 0, err
		}
		if tmp.IsNull(pos) {
			continue // null predicate never selects (three-valued logic)
		}
		if tmp.GetBool(pos) {
			if n < len(selOut) {
				selOut[n] = uint32(pos)
			}
			n++
		}
	}
	return n, nil
}
