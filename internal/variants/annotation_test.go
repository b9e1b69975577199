package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/htsfile"
)

// snpEffHeader declares the SnpEff tool and its ANN field.
func snpEffHeader(samples ...string) *htsfile.HeaderInfo {
	h := plainHeader(samples...)
	h.Infos = append(h.Infos, htsfile.FieldDef{
		ID: "ANN", Number: ".", Type: "String", Description: "Functional annotations",
	})
	h.Records = append(h.Records,
		htsfile.HeaderRecord{Key: "SnpEffVersion", Value: "4.0"},
		htsfile.HeaderRecord{Key: "created", Value: "2014-07-30"},
		htsfile.HeaderRecord{Key: "software", Value: "SnpEff"},
		htsfile.HeaderRecord{Key: "name", Value: "annotation run"},
		htsfile.HeaderRecord{Key: "description", Value: "functional annotation"},
	)
	return h
}

// newAnnotatedFileSet builds a populated SnpEff-annotated set holding a
// single multi-allelic record.
func newAnnotatedFileSet(t *testing.T) *FileVariantSet {
	t.Helper()
	rec := &htsfile.Record{
		Chrom: "1",
		Start: 889454,
		End:   889455,
		Ref:   "C",
		Alts:  []string{"A", "G"},
		Info: map[string][]string{
			"HGVS.g": {"1:g.889455C>A", "1:g.889455C>G"},
			"ANN": {
				snpEffToken("A", "missense_variant", "ENST00000372583",
					"c.1915C>A", "p.Pro639Thr", "1985/2523", "639/840"),
				snpEffToken("G", "missense_variant", "ENST00000372583",
					"c.1915C>G", "p.Pro639Ala", "1985/2523", "639/840"),
			},
		},
	}
	opener := fakeOpener{
		"ann.vcf.gz": &fakeFile{
			path:    "ann.vcf.gz",
			chroms:  []string{"1"},
			header:  snpEffHeader(),
			records: map[string][]*htsfile.Record{"1": {rec}},
		},
	}
	set := NewFileVariantSet("dataset1", "vs1", opener, testOntology)
	require.NoError(t, set.Populate([]string{"ann.vcf.gz"}, []string{"ann.vcf.gz.tbi"}))
	return set
}

func TestPopulate_InfersAnnotationSet(t *testing.T) {
	set := newAnnotatedFileSet(t)

	require.True(t, set.IsAnnotated())
	sets := set.AnnotationSets()
	require.Len(t, sets, 1)
	assert.Equal(t, AnnotationSnpEff, sets[0].Type())
	assert.Equal(t, "vs1", sets[0].Name())
}

func TestPopulate_UnsupportedVEPVersionFails(t *testing.T) {
	h := plainHeader()
	h.Records = append(h.Records, htsfile.HeaderRecord{Key: "VEP", Value: "v85"})
	opener := fakeOpener{
		"a.vcf.gz": &fakeFile{
			path: "a.vcf.gz", chroms: []string{"1"}, header: h,
			records: map[string][]*htsfile.Record{"1": {snv("1", 5, "A", "T")}},
		},
	}
	set := NewFileVariantSet("dataset1", "vs1", opener, testOntology)
	err := set.Populate([]string{"a.vcf.gz"}, []string{"a.tbi"})

	var vepErr *UnsupportedVEPVersionError
	assert.ErrorAs(t, err, &vepErr)
}

func TestPopulate_SecondAnnotationSourceIsSkipped(t *testing.T) {
	opener := fakeOpener{
		"a.vcf.gz": &fakeFile{
			path: "a.vcf.gz", chroms: []string{"1"}, header: snpEffHeader(),
			records: map[string][]*htsfile.Record{"1": {snv("1", 5, "A", "T")}},
		},
		"b.vcf.gz": &fakeFile{
			path: "b.vcf.gz", chroms: []string{"2"}, header: snpEffHeader(),
			records: map[string][]*htsfile.Record{"2": {snv("2", 5, "A", "T")}},
		},
	}
	set := NewFileVariantSet("dataset1", "vs1", opener, testOntology)
	require.NoError(t, set.Populate([]string{"a.vcf.gz", "b.vcf.gz"}, []string{"a.tbi", "b.tbi"}))
	assert.Len(t, set.AnnotationSets(), 1, "first inference wins")
}

func TestAnalysisFromHeader(t *testing.T) {
	set := newAnnotatedFileSet(t)
	analysis := set.AnnotationSets()[0].Analysis()
	require.NotNil(t, analysis)

	assert.Equal(t, "annotation run", analysis.Name)
	assert.Equal(t, "functional annotation", analysis.Description)
	assert.Equal(t, []string{"SnpEff"}, analysis.Software)
	assert.Equal(t, "2014-07-30T00:00:00Z", analysis.CreateDateTime)
	assert.Equal(t, []string{"Total depth"}, analysis.Info["INFO.DP"])
	assert.Equal(t, []string{"4.0"}, analysis.Info["SnpEffVersion"])
	assert.NotEmpty(t, analysis.ID)
}

func TestVariantAnnotations(t *testing.T) {
	set := newAnnotatedFileSet(t)
	annSet := set.AnnotationSets()[0]

	cursor, err := annSet.VariantAnnotations("1", 889000, 890000)
	require.NoError(t, err)
	defer cursor.Close()

	ann, err := cursor.Next()
	require.NoError(t, err)
	require.NotNil(t, ann)

	assert.Equal(t, annSet.ID(), ann.VariantAnnotationSetID)
	assert.NotEmpty(t, ann.VariantID)
	assert.NotEmpty(t, ann.ID)
	assert.Equal(t, int64(889454), ann.Start)
	assert.Equal(t, int64(889455), ann.End)

	require.Len(t, ann.TranscriptEffects, 2)
	// HGVS.g carries one element per alternate allele, matched to tokens
	// in order.
	assert.Equal(t, "A", ann.TranscriptEffects[0].AlternateBases)
	assert.Equal(t, "1:g.889455C>A", ann.TranscriptEffects[0].HGVSAnnotation.Genomic)
	assert.Equal(t, "G", ann.TranscriptEffects[1].AlternateBases)
	assert.Equal(t, "1:g.889455C>G", ann.TranscriptEffects[1].HGVSAnnotation.Genomic)

	next, err := cursor.Next()
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestVariantAnnotations_TruncatedHGVSList(t *testing.T) {
	rec := &htsfile.Record{
		Chrom: "1",
		Start: 889454,
		End:   889455,
		Ref:   "C",
		Alts:  []string{"A", "G"},
		Info: map[string][]string{
			// Only the first alternate carries a genomic HGVS entry.
			"HGVS.g": {"1:g.889455C>A"},
			"ANN": {
				snpEffToken("A", "missense_variant", "ENST00000372583",
					"c.1915C>A", "p.Pro639Thr", "1985/2523", "639/840"),
				snpEffToken("G", "missense_variant", "ENST00000372583",
					"c.1915C>G", "p.Pro639Ala", "1985/2523", "639/840"),
			},
		},
	}
	opener := fakeOpener{
		"ann.vcf.gz": &fakeFile{
			path:    "ann.vcf.gz",
			chroms:  []string{"1"},
			header:  snpEffHeader(),
			records: map[string][]*htsfile.Record{"1": {rec}},
		},
	}
	set := NewFileVariantSet("dataset1", "vs1", opener, testOntology)
	require.NoError(t, set.Populate([]string{"ann.vcf.gz"}, []string{"ann.vcf.gz.tbi"}))

	cursor, err := set.AnnotationSets()[0].VariantAnnotations("1", 0, htsfile.MaxFetchEnd)
	require.NoError(t, err)
	defer cursor.Close()

	ann, err := cursor.Next()
	require.NoError(t, err)
	require.NotNil(t, ann)

	require.Len(t, ann.TranscriptEffects, 2)
	assert.Equal(t, "1:g.889455C>A", ann.TranscriptEffects[0].HGVSAnnotation.Genomic)
	assert.Empty(t, ann.TranscriptEffects[1].HGVSAnnotation.Genomic)
}

func TestVariantAnnotations_DeterministicIDs(t *testing.T) {
	set := newAnnotatedFileSet(t)
	annSet := set.AnnotationSets()[0]

	read := func() *ga4gh.VariantAnnotation {
		cursor, err := annSet.VariantAnnotations("1", 0, htsfile.MaxFetchEnd)
		require.NoError(t, err)
		defer cursor.Close()
		ann, err := cursor.Next()
		require.NoError(t, err)
		require.NotNil(t, ann)
		return ann
	}

	first, second := read(), read()
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TranscriptEffects[0].ID, second.TranscriptEffects[0].ID)
}
