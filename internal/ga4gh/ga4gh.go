// Package ga4gh defines the GA4GH protocol value types produced by the
// variant and annotation translation engine. These are plain data
// carriers; identity derivation and population live in internal/variants.
package ga4gh

// Variant is the canonical representation of a single variant record.
// Coordinates are 0-based half-open: [Start, End).
type Variant struct {
	ID             string
	VariantSetID   string
	Names          []string // alternate names, split from the record's ID column
	Created        string   // RFC 3339
	Updated        string   // RFC 3339
	ReferenceName  string
	Start          int64
	End            int64
	ReferenceBases string
	AlternateBases []string
	Info           map[string][]string
	Calls          []*Call
}

// Call holds the observed genotype for one call set on one variant.
type Call struct {
	CallSetID          string
	CallSetName        string
	SampleID           string
	Genotype           []int // allele indices into [ref, alts...]
	Phaseset           string
	GenotypeLikelihood []float64
	Info               map[string][]string
}

// CallSet is the metadata associated with a single sample column.
type CallSet struct {
	ID            string
	Name          string
	SampleID      string
	VariantSetIDs []string
	Created       string
	Updated       string
}

// VariantSetMetadata describes one declared header field of a variant set.
type VariantSetMetadata struct {
	ID          string
	Key         string
	Value       string
	Type        string
	Number      string
	Description string
}

// VariantSet is the protocol form of a variant set.
type VariantSet struct {
	ID             string
	DatasetID      string
	ReferenceSetID string
	Name           string
	Metadata       []*VariantSetMetadata
}

// OntologyTerm is a single effect classification.
type OntologyTerm struct {
	ID             string
	Term           string
	SourceName     string
	SourceVersion  string
	OntologySource string
}

// HGVSAnnotation carries the three HGVS renderings of a variant effect.
// Any of the fields may be empty when the source pipeline does not
// provide that notation.
type HGVSAnnotation struct {
	Genomic    string
	Transcript string
	Protein    string
}

// AlleleLocation locates an allele in coding-DNA, coding-sequence or
// protein coordinates. Start is 0-based. The sequence fragments are
// optional and empty when not recoverable from the source.
type AlleleLocation struct {
	Start             int64
	End               int64
	ReferenceSequence string
	AlternateSequence string
	Created           string
	Updated           string
}

// AnalysisResult is one score attached to a transcript effect by an
// analysis pipeline.
type AnalysisResult struct {
	AnalysisID string
	Result     string
	Score      int
}

// TranscriptEffect is the normalized form of one encoded annotation token.
type TranscriptEffect struct {
	ID              string
	AlternateBases  string
	FeatureID       string
	Effects         []*OntologyTerm
	HGVSAnnotation  *HGVSAnnotation
	CDNALocation    *AlleleLocation
	CDSLocation     *AlleleLocation
	ProteinLocation *AlleleLocation
	AnalysisResults []*AnalysisResult
	Created         string
	Updated         string
}

// VariantAnnotation ties a list of transcript effects to a variant.
type VariantAnnotation struct {
	ID                     string
	VariantID              string
	VariantAnnotationSetID string
	Start                  int64
	End                    int64
	CreateDateTime         string
	TranscriptEffects      []*TranscriptEffect
}

// Analysis describes the annotation pipeline run that produced an
// annotation set, assembled from the source file headers.
type Analysis struct {
	ID             string
	Name           string
	Description    string
	Software       []string
	CreateDateTime string
	UpdateDateTime string
	Info           map[string][]string
}

// VariantAnnotationSet is the protocol form of an annotation set.
type VariantAnnotationSet struct {
	ID           string
	VariantSetID string
	Name         string
	Analysis     *Analysis
}
