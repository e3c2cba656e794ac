package vector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/catalog"
)

func identitySel(n int) *SelectionState { return NewIdentitySelection(n) }

func TestExecuteBinaryArithmeticInt64(t *testing.T) {
	lhs := New(catalog.Primitive(catalog.INT64), 4)
	rhs := New(catalog.Primitive(catalog.INT64), 4)
	out := New(catalog.Primitive(catalog.INT64), 4)
	for i := 0; i < 4; i++ {
		lhs.SetInt64(i, int64(10+i))
		rhs.SetInt64(i, int64(i+1))
	}

	require.NoError(t, ExecuteBinary(KindAdd, lhs, rhs, identitySel(4), out))
	require.EqualValues(t, 11, out.GetInt64(0))
	require.EqualValues(t, 15, out.GetInt64(3))
}

func TestExecuteBinaryNullPropagation(t *testing.T) {
	lhs := New(catalog.Primitive(catalog.INT64), 2)
	rhs := New(catalog.Primitive(catalog.INT64), 2)
	out := New(catalog.Primitive(catalog.INT64), 2)
	lhs.SetInt64(0, 5)
	rhs.SetNull(0, true)
	lhs.SetInt64(1, 6)
	rhs.SetInt64(1, 2)

	require.NoError(t, ExecuteBinary(KindAdd, lhs, rhs, identitySel(2), out))
	require.True(t, out.IsNull(0))
	require.False(t, out.IsNull(1))
	require.EqualValues(t, 8, out.GetInt64(1))
}

func TestThreeValuedAndOr(t *testing.T) {
	lhs := New(catalog.Primitive(catalog.BOOL), 1)
	rhs := New(catalog.Primitive(catalog.BOOL), 1)
	out := New(catalog.Primitive(catalog.BOOL), 1)

	lhs.SetBool(0, false)
	rhs.SetNull(0, true)
	require.NoError(t, ExecuteBinary(KindAnd, lhs, rhs, identitySel(1), out))
	require.False(t, out.IsNull(0))
	require.False(t, out.GetBool(0))

	lhs.SetBool(0, true)
	rhs.SetNull(0, true)
	require.NoError(t, ExecuteBinary(KindOr, lhs, rhs, identitySel(1), out))
	require.False(t, out.IsNull(0))
	require.True(t, out.GetBool(0))
}

func TestNodeIDComparisonSpecialization(t *testing.T) {
	lhs := New(catalog.Primitive(catalog.NODE), 2)
	rhs := New(catalog.Primitive(catalog.NODE), 2)
	out := New(catalog.Primitive(catalog.BOOL), 2)
	lhs.SetNodeOffset(0, 100)
	rhs.SetNodeOffset(0, 100)
	lhs.SetNodeOffset(1, 100)
	rhs.SetNodeOffset(1, 200)

	require.NoError(t, ExecuteBinary(KindEq, lhs, rhs, identitySel(2), out))
	require.True(t, out.GetBool(0))
	require.False(t, out.GetBool(1))
}

func TestHashNodeIDIsDeterministic(t *testing.T) {
	in := New(catalog.Primitive(catalog.NODE), 1)
	out1 := New(catalog.Primitive(catalog.INT64), 1)
	out2 := New(catalog.Primitive(catalog.INT64), 1)
	in.SetNodeOffset(0, 4242)

	require.NoError(t, ExecuteUnary(KindHashNodeID, in, identitySel(1), out1))
	require.NoError(t, ExecuteUnary(KindHashNodeID, in, identitySel(1), out2))
	require.Equal(t, out1.GetInt64(0), out2.GetInt64(0))
}

func TestDivideByZeroYieldsNull(t *testing.T) {
	lhs := New(catalog.Primitive(catalog.INT64), 1)
	rhs := New(catalog.Primitive(catalog.INT64), 1)
	out := New(catalog.Primitive(catalog.INT64), 1)
	lhs.SetInt64(0, 10)
	rhs.SetInt64(0, 0)

	require.NoError(t, ExecuteBinary(KindDiv, lhs, rhs, identitySel(1), out))
	require.True(t, out.IsNull(0))
}

func TestUnsupportedCombinationFailsWithUnsupportedExpression(t *testing.T) {
	lhs := New(catalog.Primitive(catalog.BOOL), 1)
	rhs := New(catalog.Primitive(catalog.BOOL), 1)
	out := New(catalog.Primitive(catalog.BOOL), 1)
	lhs.SetBool(0, true)
	rhs.SetBool(0, false)

	err := ExecuteBinary(KindAdd, lhs, rhs, identitySel(1), out)
	require.Error(t, err)
}
