package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genobase/varset/internal/ga4gh"
)

func collectVariants(t *testing.T, cursor VariantCursor) []*ga4gh.Variant {
	t.Helper()
	defer cursor.Close()
	var out []*ga4gh.Variant
	for {
		v, err := cursor.Next()
		require.NoError(t, err)
		if v == nil {
			return out
		}
		out = append(out, v)
	}
}

func TestSimulated_FullDensity(t *testing.T) {
	set := NewSimulatedVariantSet("dataset1", "sim1", 1, 2, 1.0)
	assert.Equal(t, 2, set.NumCallSets())

	cursor, err := set.Variants("1", 0, 3, nil)
	require.NoError(t, err)
	got := collectVariants(t, cursor)
	require.Len(t, got, 3, "density 1.0 generates a variant at every position")

	for i, v := range got {
		assert.Equal(t, int64(i), v.Start)
		assert.Equal(t, int64(i+1), v.End)
		assert.Len(t, v.ReferenceBases, 1)
		require.Len(t, v.AlternateBases, 1)
		assert.NotEqual(t, v.ReferenceBases, v.AlternateBases[0])
		require.Len(t, v.Calls, 2)
		assert.Equal(t, "simCallSet_0", v.Calls[0].CallSetName)
		assert.Equal(t, []float64{-100, -100, -100}, v.Calls[0].GenotypeLikelihood)
	}
}

func TestSimulated_Repeatable(t *testing.T) {
	a := NewSimulatedVariantSet("dataset1", "sim1", 42, 1, 0.5)
	b := NewSimulatedVariantSet("dataset1", "sim1", 42, 1, 0.5)

	ca, err := a.Variants("1", 0, 200, nil)
	require.NoError(t, err)
	cb, err := b.Variants("1", 0, 200, nil)
	require.NoError(t, err)

	assert.Equal(t, collectVariants(t, ca), collectVariants(t, cb))
}

func TestSimulated_OverlappingRangesAgree(t *testing.T) {
	set := NewSimulatedVariantSet("dataset1", "sim1", 7, 1, 0.3)

	wide, err := set.Variants("1", 0, 300, nil)
	require.NoError(t, err)
	narrow, err := set.Variants("1", 100, 200, nil)
	require.NoError(t, err)

	byStart := make(map[int64]*ga4gh.Variant)
	for _, v := range collectVariants(t, wide) {
		byStart[v.Start] = v
	}
	inner := collectVariants(t, narrow)
	require.NotEmpty(t, inner)
	for _, v := range inner {
		// Same position, same variant, whatever the query boundaries.
		assert.Equal(t, byStart[v.Start], v)
	}
}

func TestSimulated_PointLookupMatchesScan(t *testing.T) {
	set := NewSimulatedVariantSet("dataset1", "sim1", 3, 1, 0.4)

	cursor, err := set.Variants("1", 0, 100, nil)
	require.NoError(t, err)
	scanned := collectVariants(t, cursor)
	require.NotEmpty(t, scanned)

	for _, want := range scanned {
		got, err := set.GetVariant("1", want.Start, HashVariant(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSimulated_AbsentPositionErrors(t *testing.T) {
	set := NewSimulatedVariantSet("dataset1", "sim1", 3, 1, 0.0)
	_, err := set.GetVariant("1", 10, "")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestSimulated_ValidatesCallSetIDs(t *testing.T) {
	set := NewSimulatedVariantSet("dataset1", "sim1", 3, 1, 1.0)
	_, err := set.Variants("1", 0, 10, []string{"bogus"})
	var csErr *CallSetNotInVariantSetError
	assert.ErrorAs(t, err, &csErr)
}
