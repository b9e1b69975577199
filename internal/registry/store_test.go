package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/variants"
)

// testRow is a representative built-set snapshot.
func testRow() variants.SetRow {
	return variants.SetRow{
		DatasetID:      "dataset1",
		LocalName:      "vs1",
		ReferenceSetID: "GRCh38",
		Created:        "2026-08-26T00:00:00Z",
		Updated:        "2026-08-26T00:00:00Z",
		ChromFiles: map[string]variants.FilePair{
			"1": {Data: "chr1.vcf.gz", Index: "chr1.vcf.gz.tbi"},
			"2": {Data: "chr2.vcf.gz", Index: "chr2.vcf.gz.tbi"},
		},
		Metadata: []*ga4gh.VariantSetMetadata{
			{ID: "m1", Key: "version", Value: "VCFv4.2", Type: "String", Number: "1"},
		},
		CallSetNames:   []string{"NA001", "NA002"},
		AnnotationType: variants.AnnotationSnpEff,
		Analysis: &ga4gh.Analysis{
			ID:       "a1",
			Name:     "annotation run",
			Software: []string{"SnpEff"},
			Info:     map[string][]string{"SnpEffVersion": {"4.0"}},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	set := variants.NewFileVariantSetFromRow(testRow(), nil, nil)
	require.NoError(t, store.SaveVariantSet(set))

	loaded, err := store.LoadVariantSet("dataset1", "vs1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, set.ID(), loaded.ID())
	assert.Equal(t, "GRCh38", loaded.ReferenceSetID())
	assert.Equal(t, set.CreationTime(), loaded.CreationTime())
	assert.Equal(t, set.ChromFiles(), loaded.ChromFiles())
	assert.Equal(t, set.Metadata(), loaded.Metadata())
	assert.Equal(t, 2, loaded.NumCallSets())

	require.True(t, loaded.IsAnnotated())
	annSet := loaded.AnnotationSets()[0]
	assert.Equal(t, variants.AnnotationSnpEff, annSet.Type())
	assert.Equal(t, []string{"SnpEff"}, annSet.Analysis().Software)
}

func TestStoreUpsert(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	row := testRow()
	require.NoError(t, store.SaveVariantSet(variants.NewFileVariantSetFromRow(row, nil, nil)))

	// Saving the same (dataset, name) replaces the row.
	row.ReferenceSetID = "GRCh37"
	require.NoError(t, store.SaveVariantSet(variants.NewFileVariantSetFromRow(row, nil, nil)))

	loaded, err := store.LoadVariantSet("dataset1", "vs1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "GRCh37", loaded.ReferenceSetID())

	sets, err := store.ListVariantSets()
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"dataset1", "vs1"}}, sets)
}

func TestStoreMissingSet(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LoadVariantSet("dataset1", "nope", nil, nil)
	assert.ErrorIs(t, err, variants.ErrObjectNotFound)
}

func TestStoreUnannotatedSet(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	row := testRow()
	row.AnnotationType = variants.AnnotationNone
	row.Analysis = nil
	require.NoError(t, store.SaveVariantSet(variants.NewFileVariantSetFromRow(row, nil, nil)))

	loaded, err := store.LoadVariantSet("dataset1", "vs1", nil, nil)
	require.NoError(t, err)
	assert.False(t, loaded.IsAnnotated())
}

func TestStorePersistsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry", "varset.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveVariantSet(variants.NewFileVariantSetFromRow(testRow(), nil, nil)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	sets, err := reopened.ListVariantSets()
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}
