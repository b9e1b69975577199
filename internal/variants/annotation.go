package variants

import (
	"strconv"
	"time"

	"github.com/genobase/varset/internal/compoundid"
	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/htsfile"
	"github.com/genobase/varset/internal/ontology"
)

// annotationCore holds the identity, timestamp and ontology bookkeeping
// shared by both annotation set backends.
type annotationCore struct {
	id       string
	name     string
	created  string
	updated  string
	analysis *ga4gh.Analysis
	ontology ontology.Lookup
}

func newAnnotationCore(variantSetID, localName string, lookup ontology.Lookup) annotationCore {
	if lookup == nil {
		lookup = ontology.Empty
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return annotationCore{
		id:       compoundid.Extend(variantSetID, localName),
		name:     localName,
		created:  now,
		updated:  now,
		ontology: lookup,
	}
}

func (s *annotationCore) ID() string                { return s.id }
func (s *annotationCore) Name() string              { return s.name }
func (s *annotationCore) Analysis() *ga4gh.Analysis { return s.analysis }
func (s *annotationCore) analysisID() string        { return compoundid.Extend(s.id, "analysis") }

func (s *annotationCore) newAnnotation() *ga4gh.VariantAnnotation {
	return &ga4gh.VariantAnnotation{
		VariantAnnotationSetID: s.id,
		CreateDateTime:         s.created,
	}
}

func (s *annotationCore) newTranscriptEffect() *ga4gh.TranscriptEffect {
	return &ga4gh.TranscriptEffect{
		Created: s.created,
		Updated: s.updated,
	}
}

func (s *annotationCore) newAlleleLocation() *ga4gh.AlleleLocation {
	return &ga4gh.AlleleLocation{
		Created: s.created,
		Updated: s.updated,
	}
}

// annotationID derives the identifier of a variant annotation from the
// variant coordinates and the annotation content hash.
func (s *annotationCore) annotationID(v *ga4gh.Variant, a *ga4gh.VariantAnnotation) string {
	return compoundid.Extend(
		s.id, v.ReferenceName, strconv.FormatInt(v.Start, 10), hashAnnotation(v, a))
}

// FileAnnotationSet translates the encoded annotation field of an
// annotated variant set into transcript effects. The pipeline type is
// fixed at construction and selects the parser for every record.
type FileAnnotationSet struct {
	annotationCore
	variantSet *FileVariantSet
	annType    AnnotationType
}

func newFileAnnotationSet(vs *FileVariantSet, localName string, annType AnnotationType, header *htsfile.HeaderInfo, lookup ontology.Lookup) *FileAnnotationSet {
	s := &FileAnnotationSet{
		annotationCore: newAnnotationCore(vs.ID(), localName, lookup),
		variantSet:     vs,
		annType:        annType,
	}
	s.analysis = s.analysisFromHeader(header)
	return s
}

// Type returns the fixed annotation pipeline of this set.
func (s *FileAnnotationSet) Type() AnnotationType { return s.annType }

// VariantSet returns the variant set this annotation set derives from.
func (s *FileAnnotationSet) VariantSet() *FileVariantSet { return s.variantSet }

// ToProtocol converts this set into its protocol form.
func (s *FileAnnotationSet) ToProtocol() *ga4gh.VariantAnnotationSet {
	return &ga4gh.VariantAnnotationSet{
		ID:           s.id,
		VariantSetID: s.variantSet.ID(),
		Name:         s.name,
		Analysis:     s.analysis,
	}
}

// analysisFromHeader assembles the file header declarations into an
// Analysis record: field descriptions keyed by "FORMAT.x"/"INFO.x",
// free-text records folded into the info map, and the well-known
// created/software/name/description records promoted to fields.
func (s *FileAnnotationSet) analysisFromHeader(h *htsfile.HeaderInfo) *ga4gh.Analysis {
	analysis := &ga4gh.Analysis{
		ID:             s.analysisID(),
		CreateDateTime: s.created,
		UpdateDateTime: s.updated,
		Info:           make(map[string][]string),
	}
	for _, group := range []struct {
		prefix string
		defs   []htsfile.FieldDef
	}{
		{"FORMAT", h.Formats},
		{"INFO", h.Infos},
	} {
		for _, def := range group.defs {
			key := group.prefix + "." + def.ID
			analysis.Info[key] = append(analysis.Info[key], def.Description)
		}
	}
	for _, rec := range h.Records {
		if rec.Value != "" {
			analysis.Info[rec.Key] = append(analysis.Info[rec.Key], rec.Value)
		}
		switch rec.Key {
		case "created":
			if t, err := time.Parse("2006-01-02", rec.Value); err == nil {
				analysis.CreateDateTime = t.UTC().Format(time.RFC3339)
			}
		case "software":
			analysis.Software = append(analysis.Software, rec.Value)
		case "name":
			analysis.Name = rec.Value
		case "description":
			analysis.Description = rec.Value
		}
	}
	return analysis
}

// VariantAnnotations streams one annotation per raw record in the
// half-open range, each carrying the transcript effects parsed from the
// record's encoded annotation field.
func (s *FileAnnotationSet) VariantAnnotations(referenceName string, start, end int64) (AnnotationCursor, error) {
	records, file, err := s.variantSet.rawRecords(referenceName, start, end)
	if err != nil {
		return nil, err
	}
	return &fileAnnotationCursor{set: s, records: records, file: file}, nil
}

// convertAnnotation maps one raw record onto a variant annotation.
func (s *FileAnnotationSet) convertAnnotation(rec *htsfile.Record) (*ga4gh.VariantAnnotation, error) {
	variant, err := s.variantSet.ConvertVariant(rec, nil)
	if err != nil {
		return nil, err
	}

	ann := s.newAnnotation()
	ann.VariantID = variant.ID
	ann.Start = variant.Start
	ann.End = variant.End

	hgvsG := rec.Info["HGVS.g"]
	tokens := rec.Info[s.annType.infoKey()]

	if s.annType == AnnotationVEPv77 {
		for _, token := range tokens {
			effects, err := s.convertTranscriptEffectCSQ(token)
			if err != nil {
				return nil, err
			}
			ann.TranscriptEffects = append(ann.TranscriptEffects, effects...)
		}
	} else {
		for i, token := range tokens {
			// HGVS.g carries one element per alternate allele; encoded
			// tokens cycle through the alternates in order. A truncated
			// HGVS.g list leaves the trailing alternates without one.
			g := ""
			if len(variant.AlternateBases) > 0 {
				if idx := i % len(variant.AlternateBases); idx < len(hgvsG) {
					g = hgvsG[idx]
				}
			}
			var effect *ga4gh.TranscriptEffect
			if s.annType == AnnotationSnpEff {
				effect, err = s.convertTranscriptEffectSnpEff(token, g)
			} else {
				effect, err = s.convertTranscriptEffectVEP(token, g)
			}
			if err != nil {
				return nil, err
			}
			ann.TranscriptEffects = append(ann.TranscriptEffects, effect)
		}
	}

	ann.ID = s.annotationID(variant, ann)
	return ann, nil
}

type fileAnnotationCursor struct {
	set     *FileAnnotationSet
	records htsfile.Cursor
	file    htsfile.File
}

func (c *fileAnnotationCursor) Next() (*ga4gh.VariantAnnotation, error) {
	rec, err := c.records.Next()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return c.set.convertAnnotation(rec)
}

func (c *fileAnnotationCursor) Close() error {
	err := c.records.Close()
	if c.file != nil {
		if cerr := c.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
