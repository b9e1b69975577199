package variants

import (
	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/htsfile"
	"github.com/genobase/varset/internal/ontology"
)

// SetRow is the storable form of a built file-backed variant set: enough
// to serve the set again without rescanning its files.
type SetRow struct {
	DatasetID      string
	LocalName      string
	ReferenceSetID string
	Created        string
	Updated        string
	ChromFiles     map[string]FilePair
	Metadata       []*ga4gh.VariantSetMetadata
	CallSetNames   []string
	AnnotationType AnnotationType
	Analysis       *ga4gh.Analysis
}

// Row captures this set's state for persistence.
func (s *FileVariantSet) Row() SetRow {
	row := SetRow{
		DatasetID:      s.datasetID,
		LocalName:      s.localName,
		ReferenceSetID: s.referenceSetID,
		Created:        s.created,
		Updated:        s.updated,
		ChromFiles:     s.ChromFiles(),
		Metadata:       s.metadata,
	}
	for _, cs := range s.CallSets() {
		row.CallSetNames = append(row.CallSetNames, cs.SampleName())
	}
	for _, as := range s.annotationSets {
		row.AnnotationType = as.Type()
		row.Analysis = as.Analysis()
		break // at most one annotation set is ever attached
	}
	return row
}

// NewFileVariantSetFromRow rebuilds a file-backed variant set from its
// stored row. No file is opened; the routing table, metadata and call
// sets come from the row as they were captured at build time.
func NewFileVariantSetFromRow(row SetRow, opener htsfile.Opener, lookup ontology.Lookup) *FileVariantSet {
	s := NewFileVariantSet(row.DatasetID, row.LocalName, opener, lookup)
	s.created = row.Created
	s.updated = row.Updated
	s.referenceSetID = row.ReferenceSetID
	for chrom, pair := range row.ChromFiles {
		s.chromFiles[chrom] = pair
	}
	s.metadata = row.Metadata
	for _, name := range row.CallSetNames {
		s.AddCallSet(name)
	}
	if row.AnnotationType != AnnotationNone {
		as := &FileAnnotationSet{
			annotationCore: newAnnotationCore(s.ID(), row.LocalName, lookup),
			variantSet:     s,
			annType:        row.AnnotationType,
		}
		if row.Analysis != nil {
			as.analysis = row.Analysis
		}
		s.addAnnotationSet(as)
	}
	return s
}
