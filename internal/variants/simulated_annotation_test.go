package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genobase/varset/internal/ga4gh"
)

func collectAnnotations(t *testing.T, cursor AnnotationCursor) []*ga4gh.VariantAnnotation {
	t.Helper()
	defer cursor.Close()
	var out []*ga4gh.VariantAnnotation
	for {
		ann, err := cursor.Next()
		require.NoError(t, err)
		if ann == nil {
			return out
		}
		out = append(out, ann)
	}
}

func TestSimulatedAnnotation_OnePerVariant(t *testing.T) {
	vs := NewSimulatedVariantSet("dataset1", "sim1", 1, 1, 1.0)
	as := NewSimulatedAnnotationSet(vs, "simAnn1", 1)

	cursor, err := as.VariantAnnotations("1", 0, 10)
	require.NoError(t, err)
	anns := collectAnnotations(t, cursor)
	require.Len(t, anns, 10)

	for _, ann := range anns {
		assert.Equal(t, as.ID(), ann.VariantAnnotationSetID)
		assert.NotEmpty(t, ann.VariantID)
		assert.Equal(t, ann.Start+1, ann.End)
	}
}

func TestSimulatedAnnotation_Deterministic(t *testing.T) {
	vs := NewSimulatedVariantSet("dataset1", "sim1", 5, 1, 1.0)
	as := NewSimulatedAnnotationSet(vs, "simAnn1", 5)

	ca, err := as.VariantAnnotations("1", 0, 50)
	require.NoError(t, err)
	cb, err := as.VariantAnnotations("1", 0, 50)
	require.NoError(t, err)

	assert.Equal(t, collectAnnotations(t, ca), collectAnnotations(t, cb))
}

func TestSimulatedAnnotation_EffectShape(t *testing.T) {
	vs := NewSimulatedVariantSet("dataset1", "sim1", 2, 1, 1.0)
	as := NewSimulatedAnnotationSet(vs, "simAnn1", 2)

	cursor, err := as.VariantAnnotations("1", 0, 100)
	require.NoError(t, err)
	anns := collectAnnotations(t, cursor)

	sawEffects := false
	for _, ann := range anns {
		// Single-alt variants carry between 0 and 5 effects.
		assert.LessOrEqual(t, len(ann.TranscriptEffects), 5)
		for _, effect := range ann.TranscriptEffects {
			sawEffects = true
			assert.Equal(t, simFeatureID, effect.FeatureID)
			assert.NotEmpty(t, effect.AlternateBases)
			require.Len(t, effect.Effects, 2)
			for _, term := range effect.Effects {
				assert.Contains(t, []string{"intron_variant", "exon_variant"}, term.Term)
				assert.NotEmpty(t, term.ID)
				assert.Equal(t, "sequenceOntology", term.SourceName)
			}
			require.NotNil(t, effect.HGVSAnnotation)
			assert.Equal(t, effect.HGVSAnnotation.Genomic, effect.HGVSAnnotation.Transcript)
			require.NotNil(t, effect.CDSLocation)
			assert.Equal(t, ann.Start, effect.CDSLocation.Start)
			require.Len(t, effect.AnalysisResults, 1)
			score := effect.AnalysisResults[0].Score
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
			assert.NotEmpty(t, effect.ID)
		}
	}
	assert.True(t, sawEffects, "at least one annotation should carry effects")
}

func TestSimulatedAnnotation_Analysis(t *testing.T) {
	vs := NewSimulatedVariantSet("dataset1", "sim1", 1, 1, 1.0)
	as := NewSimulatedAnnotationSet(vs, "simAnn1", 1)

	assert.Equal(t, AnnotationNone, as.Type())
	analysis := as.Analysis()
	require.NotNil(t, analysis)
	assert.NotEmpty(t, analysis.ID)
	assert.NotEmpty(t, analysis.CreateDateTime)
}
