package variants

import (
	"math/rand"
	"strconv"

	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/ontology"
)

// simOntologyTerms is the small fixed catalog the simulator draws effect
// classifications from.
var simOntologyTerms = []ga4gh.OntologyTerm{
	{Term: "intron_variant", ID: "SO:0001627"},
	{Term: "exon_variant", ID: "SO:0001791"},
}

const simFeatureID = "E4TB33F"

// SimulatedAnnotationSet generates deterministic pseudo-random
// annotations for the variants of its variant set. The per-variant seed
// derives from (base seed + start + end), so the same variant always
// yields the same annotation regardless of query order.
type SimulatedAnnotationSet struct {
	annotationCore
	variantSet VariantSet
	seed       int64
}

// NewSimulatedAnnotationSet creates a simulated annotation set over the
// given variant set.
func NewSimulatedAnnotationSet(vs VariantSet, localName string, seed int64) *SimulatedAnnotationSet {
	s := &SimulatedAnnotationSet{
		annotationCore: newAnnotationCore(vs.ID(), localName, ontology.Empty),
		variantSet:     vs,
		seed:           seed,
	}
	s.analysis = &ga4gh.Analysis{
		ID:             s.analysisID(),
		Name:           "name",
		Description:    "description",
		Software:       []string{"software"},
		CreateDateTime: s.created,
		UpdateDateTime: s.updated,
	}
	return s
}

// Type returns AnnotationNone; simulated sets have no source pipeline.
func (s *SimulatedAnnotationSet) Type() AnnotationType { return AnnotationNone }

// VariantAnnotations streams one generated annotation per variant of the
// underlying set in the half-open range.
func (s *SimulatedAnnotationSet) VariantAnnotations(referenceName string, start, end int64) (AnnotationCursor, error) {
	variants, err := s.variantSet.Variants(referenceName, start, end, nil)
	if err != nil {
		return nil, err
	}
	return &simulatedAnnotationCursor{set: s, variants: variants}, nil
}

// GenerateAnnotation derives the annotation for one variant.
func (s *SimulatedAnnotationSet) GenerateAnnotation(v *ga4gh.Variant) *ga4gh.VariantAnnotation {
	rng := rand.New(rand.NewSource(s.seed + v.Start + v.End))

	ann := s.newAnnotation()
	ann.VariantID = v.ID
	ann.Start = v.Start
	ann.End = v.End

	// Between 0 and 5 transcript effects per alternate base.
	repeats := rng.Intn(6)
	for i := 0; i < repeats; i++ {
		for _, alt := range v.AlternateBases {
			ann.TranscriptEffects = append(ann.TranscriptEffects, s.generateTranscriptEffect(ann, alt, rng))
		}
	}

	ann.ID = s.annotationID(v, ann)
	return ann
}

func (s *SimulatedAnnotationSet) generateTranscriptEffect(ann *ga4gh.VariantAnnotation, alt string, rng *rand.Rand) *ga4gh.TranscriptEffect {
	effect := s.newTranscriptEffect()
	effect.AlternateBases = alt
	effect.FeatureID = simFeatureID

	anchor := strconv.FormatInt(ann.Start, 10)
	effect.HGVSAnnotation = &ga4gh.HGVSAnnotation{
		Genomic:    anchor,
		Transcript: anchor,
		Protein:    anchor,
	}
	effect.ProteinLocation = s.newAlleleLocation()
	effect.ProteinLocation.Start = ann.Start
	effect.CDSLocation = s.newAlleleLocation()
	effect.CDSLocation.Start = ann.Start
	effect.CDNALocation = s.newAlleleLocation()
	effect.CDNALocation.Start = ann.Start

	effect.Effects = append(effect.Effects, s.randomOntologyTerm(rng))
	effect.Effects = append(effect.Effects, s.randomOntologyTerm(rng))

	effect.ID = transcriptEffectID(effect)

	effect.AnalysisResults = append(effect.AnalysisResults, &ga4gh.AnalysisResult{
		AnalysisID: "analysisId",
		Result:     "result string",
		Score:      rng.Intn(101),
	})
	return effect
}

func (s *SimulatedAnnotationSet) randomOntologyTerm(rng *rand.Rand) *ga4gh.OntologyTerm {
	t := simOntologyTerms[rng.Intn(len(simOntologyTerms))]
	return &ga4gh.OntologyTerm{
		Term:          t.Term,
		ID:            t.ID,
		SourceName:    "sequenceOntology",
		SourceVersion: "0",
	}
}

type simulatedAnnotationCursor struct {
	set      *SimulatedAnnotationSet
	variants VariantCursor
}

func (c *simulatedAnnotationCursor) Next() (*ga4gh.VariantAnnotation, error) {
	v, err := c.variants.Next()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return c.set.GenerateAnnotation(v), nil
}

func (c *simulatedAnnotationCursor) Close() error { return c.variants.Close() }
