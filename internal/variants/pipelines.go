package variants

import (
	"fmt"
	"strings"

	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/htsfile"
)

// AnnotationType identifies the annotation pipeline that produced a
// file's encoded annotation field. It is fixed at construction and
// selects the parser for every record of the set.
type AnnotationType int

const (
	AnnotationNone AnnotationType = iota
	AnnotationVEPv82
	AnnotationVEPv77
	AnnotationSnpEff
)

// String returns the canonical pipeline tag.
func (t AnnotationType) String() string {
	switch t {
	case AnnotationVEPv82:
		return "VEP_v82"
	case AnnotationVEPv77:
		return "VEP_v77"
	case AnnotationSnpEff:
		return "SnpEff"
	default:
		return ""
	}
}

// ParseAnnotationType maps a stored pipeline tag back to its type.
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "":
		return AnnotationNone, nil
	case "VEP_v82":
		return AnnotationVEPv82, nil
	case "VEP_v77":
		return AnnotationVEPv77, nil
	case "SnpEff":
		return AnnotationSnpEff, nil
	default:
		return AnnotationNone, fmt.Errorf("unknown annotation type %q", s)
	}
}

// infoKey returns the INFO field carrying the encoded annotations for
// this pipeline.
func (t AnnotationType) infoKey() string {
	if t == AnnotationVEPv77 {
		return "CSQ"
	}
	return "ANN"
}

// DetectAnnotationType inspects the free-text header records for a
// recognized annotation tool signature. A VEP header with a version this
// engine cannot parse is a hard error, as is an annotation-bearing INFO
// field (CSQ or ANN) with no recognized tool at all.
func DetectAnnotationType(h *htsfile.HeaderInfo, path string) (AnnotationType, error) {
	annType := AnnotationNone
	for _, rec := range h.Records {
		switch rec.Key {
		case "SnpEffVersion":
			annType = AnnotationSnpEff
		case "VEP":
			version := ""
			if fields := strings.Fields(rec.Value); len(fields) > 0 {
				version = fields[0]
			}
			switch version {
			case "v82":
				annType = AnnotationVEPv82
			case "v77":
				annType = AnnotationVEPv77
			default:
				return AnnotationNone, &UnsupportedVEPVersionError{Version: version, Path: path}
			}
		}
	}
	if annType == AnnotationNone {
		if h.Info("CSQ") != nil || h.Info("ANN") != nil {
			return AnnotationNone, &UnsupportedAnnotationsError{Path: path}
		}
	}
	return annType, nil
}

// Field counts of the three encoded layouts.
const (
	csqFieldCount    = 19
	vepFieldCount    = 23
	snpEffFieldCount = 16
)

// convertTranscriptEffectCSQ parses one token of a VEP CSQ field:
//
//	Allele|Gene|Feature|Feature_type|Consequence|cDNA_position|
//	CDS_position|Protein_position|Amino_acids|Codons|Existing_variation|
//	DISTANCE|STRAND|SIFT|PolyPhen|MOTIF_NAME|MOTIF_POS|HIGH_INF_POS|
//	MOTIF_SCORE_CHANGE
//
// Each "&"-joined consequence term yields its own transcript effect.
// This layout carries no HGVS notations, so the genomic HGVS field is
// never populated.
func (s *FileAnnotationSet) convertTranscriptEffectCSQ(token string) ([]*ga4gh.TranscriptEffect, error) {
	fields := strings.Split(token, "|")
	if len(fields) != csqFieldCount {
		return nil, &AnnotationParseError{
			Pipeline: AnnotationVEPv77.String(),
			Message:  fmt.Sprintf("expected %d sub-fields, found %d", csqFieldCount, len(fields)),
		}
	}
	var (
		alt       = fields[0]
		featureID = fields[2]
		effects   = fields[4]
		cdnaPos   = fields[5]
		protPos   = fields[7]
	)

	var out []*ga4gh.TranscriptEffect
	for _, term := range strings.Split(effects, "&") {
		effect := s.newTranscriptEffect()
		effect.AlternateBases = alt
		effect.Effects = s.convertSeqOntology(term)
		effect.FeatureID = featureID
		effect.HGVSAnnotation = &ga4gh.HGVSAnnotation{}
		s.addLocations(effect, protPos, cdnaPos)
		effect.ID = transcriptEffectID(effect)
		out = append(out, effect)
	}
	return out, nil
}

// convertTranscriptEffectVEP parses one token of a VEP v82 ANN field:
//
//	Allele|Consequence|IMPACT|SYMBOL|Gene|Feature_type|Feature|BIOTYPE|
//	EXON|INTRON|HGVSc|HGVSp|cDNA_position|CDS_position|Protein_position|
//	Amino_acids|Codons|Existing_variation|DISTANCE|STRAND|SYMBOL_SOURCE|
//	HGNC_ID|HGVS_OFFSET
//
// The genomic HGVS notation is supplied externally, from the record's
// HGVS.g field indexed by alternate allele.
func (s *FileAnnotationSet) convertTranscriptEffectVEP(token, hgvsG string) (*ga4gh.TranscriptEffect, error) {
	fields := strings.Split(token, "|")
	if len(fields) != vepFieldCount {
		return nil, &AnnotationParseError{
			Pipeline: AnnotationVEPv82.String(),
			Message:  fmt.Sprintf("expected %d sub-fields, found %d", vepFieldCount, len(fields)),
		}
	}
	var (
		alt       = fields[0]
		effects   = fields[1]
		featureID = fields[6]
		hgvsC     = fields[10]
		hgvsP     = fields[11]
		cdnaPos   = fields[12]
		protPos   = fields[14]
	)

	effect := s.newTranscriptEffect()
	effect.AlternateBases = alt
	effect.Effects = s.convertSeqOntology(effects)
	effect.FeatureID = featureID
	effect.HGVSAnnotation = &ga4gh.HGVSAnnotation{
		Genomic:    hgvsG,
		Transcript: hgvsC,
		Protein:    hgvsP,
	}
	s.addLocations(effect, protPos, cdnaPos)
	effect.ID = transcriptEffectID(effect)
	return effect, nil
}

// convertTranscriptEffectSnpEff parses one token of a SnpEff ANN field:
//
//	Allele|Annotation|Putative_impact|Gene_name|Gene_ID|Feature_type|
//	Feature_ID|Transcript_biotype|Rank|HGVS.c|HGVS.p|cDNA_position|
//	CDS_position|Protein_position|Distance|Errors_Warnings_Info
//
// Same conceptual content as the VEP ANN layout with different field
// ordering; coordinate recovery is shared.
func (s *FileAnnotationSet) convertTranscriptEffectSnpEff(token, hgvsG string) (*ga4gh.TranscriptEffect, error) {
	fields := strings.Split(token, "|")
	if len(fields) != snpEffFieldCount {
		return nil, &AnnotationParseError{
			Pipeline: AnnotationSnpEff.String(),
			Message:  fmt.Sprintf("expected %d sub-fields, found %d", snpEffFieldCount, len(fields)),
		}
	}
	var (
		alt       = fields[0]
		effects   = fields[1]
		featureID = fields[6]
		hgvsC     = fields[9]
		hgvsP     = fields[10]
		cdnaPos   = fields[11]
		protPos   = fields[13]
	)

	effect := s.newTranscriptEffect()
	effect.AlternateBases = alt
	effect.Effects = s.convertSeqOntology(effects)
	effect.FeatureID = featureID
	effect.HGVSAnnotation = &ga4gh.HGVSAnnotation{
		Genomic:    hgvsG,
		Transcript: hgvsC,
		Protein:    hgvsP,
	}
	s.addLocations(effect, protPos, cdnaPos)
	effect.ID = transcriptEffectID(effect)
	return effect, nil
}

// convertSeqOntology splits an "&"-joined effect string into ontology
// terms, resolving each name through the injected lookup. Unresolved
// names keep an empty identifier; they are never a failure.
func (s *FileAnnotationSet) convertSeqOntology(seqOntStr string) []*ga4gh.OntologyTerm {
	names := strings.Split(seqOntStr, "&")
	terms := make([]*ga4gh.OntologyTerm, 0, len(names))
	for _, name := range names {
		terms = append(terms, &ga4gh.OntologyTerm{
			Term:           name,
			ID:             s.ontology.Resolve(name),
			OntologySource: "Sequence Ontology",
		})
	}
	return terms
}
