package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/vector"
	"github.com/cuemby/graphdb/pkg/config"
)

func TestBinaryEvaluatorAddsSlotAndConstant(t *testing.T) {
	capacity := config.DefaultVectorCapacity
	ageVec := vector.New(catalog.Primitive(catalog.INT64), capacity)
	ageVec.SetInt64(0, 30)
	ageVec.SetInt64(1, 40)

	chunk := vector.NewDataChunk([]*vector.Vector{ageVec}, vector.NewIdentitySelection(2))
	ctx := &EvalContext{Chunks: []*vector.DataChunk{chunk}}

	slot := NewSlotEvaluator(DataPos{0, 0}, catalog.Primitive(catalog.INT64))
	one := NewConstantEvaluator(catalog.Primitive(catalog.INT64), int64(1), capacity)
	add := NewBinaryEvaluator(vector.KindAdd, slot, one, catalog.Primitive(catalog.INT64), capacity)

	require.NoError(t, add.Evaluate(ctx))
	require.EqualValues(t, 31, add.Result().GetInt64(0))
	require.EqualValues(t, 41, add.Result().GetInt64(1))
}

func TestBinaryEvaluatorSelectFiltersPositions(t *testing.T) {
	capacity := config.DefaultVectorCapacity
	ageVec := vector.New(catalog.Primitive(catalog.INT64), capacity)
	ageVec.SetInt64(0, 15)
	ageVec.SetInt64(1, 45)
	ageVec.SetInt64(2, 65)

	chunk := vector.NewDataChunk([]*vector.Vector{ageVec}, vector.NewIdentitySelection(3))
	ctx := &EvalContext{Chunks: []*vector.DataChunk{chunk}}

	slot := NewSlotEvaluator(DataPos{0, 0}, catalog.Primitive(catalog.INT64))
	threshold := NewConstantEvaluator(catalog.Primitive(catalog.INT64), int64(18), capacity)
	gt := NewBinaryEvaluator(vector.KindGe, slot, threshold, catalog.Primitive(catalog.BOOL), capacity)

	require.NoError(t, slot.Evaluate(ctx))
	require.NoError(t, threshold.Evaluate(ctx))

	out := make([]uint32, 3)
	n, err := gt.Select(ctx, out)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []uint32{1, 2}, out[:n])
}
