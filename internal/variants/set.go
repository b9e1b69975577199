// Package variants translates raw variant records and their encoded
// annotations into GA4GH objects. It provides two interchangeable
// backends for variant sets and annotation sets: one backed by indexed
// variant files, one by a deterministic simulator. Both produce
// structurally identical output for the same interface.
package variants

import (
	"time"

	"go.uber.org/zap"

	"github.com/genobase/varset/internal/compoundid"
	"github.com/genobase/varset/internal/ga4gh"
)

// VariantCursor is a lazy, finite, forward-only sequence of variants.
// Next returns (nil, nil) when the sequence is exhausted.
type VariantCursor interface {
	Next() (*ga4gh.Variant, error)
	Close() error
}

// AnnotationCursor is a lazy, forward-only sequence of variant
// annotations.
type AnnotationCursor interface {
	Next() (*ga4gh.VariantAnnotation, error)
	Close() error
}

// VariantSet is the shared capability surface of the file-backed and
// simulated backends.
type VariantSet interface {
	ID() string
	Name() string
	DatasetID() string
	ReferenceSetID() string
	CreationTime() string
	UpdatedTime() string

	CallSets() []*CallSet
	NumCallSets() int
	CallSet(id string) (*CallSet, error)
	CallSetByName(name string) (*CallSet, error)
	CallSetByIndex(index int) (*CallSet, error)

	Metadata() []*ga4gh.VariantSetMetadata

	// GetVariant resolves the single variant at the exact start position
	// whose content hash matches.
	GetVariant(referenceName string, start int64, hash string) (*ga4gh.Variant, error)
	// Variants streams variants overlapping the half-open range. A nil
	// callSetIDs slice selects all call sets of the set.
	Variants(referenceName string, start, end int64, callSetIDs []string) (VariantCursor, error)

	AnnotationSets() []AnnotationSet
}

// AnnotationSet is the shared capability surface of the file-backed and
// simulated annotation backends.
type AnnotationSet interface {
	ID() string
	Name() string
	Analysis() *ga4gh.Analysis
	Type() AnnotationType
	VariantAnnotations(referenceName string, start, end int64) (AnnotationCursor, error)
}

// setCore holds the identity, timestamp and call-set bookkeeping shared
// by both variant set backends.
type setCore struct {
	id             string
	datasetID      string
	localName      string
	referenceSetID string
	created        string
	updated        string

	callSetIDMap   map[string]*CallSet
	callSetNameMap map[string]*CallSet
	callSetIDs     []string

	annotationSets []AnnotationSet

	logger *zap.Logger
}

func newSetCore(datasetID, localName string) setCore {
	now := time.Now().UTC().Format(time.RFC3339)
	return setCore{
		id:             compoundid.Encode(datasetID, localName),
		datasetID:      datasetID,
		localName:      localName,
		created:        now,
		updated:        now,
		callSetIDMap:   make(map[string]*CallSet),
		callSetNameMap: make(map[string]*CallSet),
		logger:         zap.NewNop(),
	}
}

func (s *setCore) ID() string             { return s.id }
func (s *setCore) Name() string           { return s.localName }
func (s *setCore) DatasetID() string      { return s.datasetID }
func (s *setCore) ReferenceSetID() string { return s.referenceSetID }
func (s *setCore) CreationTime() string   { return s.created }
func (s *setCore) UpdatedTime() string    { return s.updated }

// SetLogger sets the logger used for build-time diagnostics.
func (s *setCore) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SetReferenceSetID associates the set with a reference set.
func (s *setCore) SetReferenceSetID(id string) { s.referenceSetID = id }

// AnnotationSets returns the annotation sets attached to this set, in
// attachment order.
func (s *setCore) AnnotationSets() []AnnotationSet { return s.annotationSets }

func (s *setCore) addAnnotationSet(as AnnotationSet) {
	s.annotationSets = append(s.annotationSets, as)
}

// newVariant sets the fields every variant of this set shares.
func (s *setCore) newVariant() *ga4gh.Variant {
	return &ga4gh.Variant{
		VariantSetID: s.id,
		Created:      s.created,
		Updated:      s.updated,
	}
}

// ToProtocol converts the set bookkeeping into its protocol form.
func (s *setCore) toProtocol(metadata []*ga4gh.VariantSetMetadata) *ga4gh.VariantSet {
	return &ga4gh.VariantSet{
		ID:             s.id,
		DatasetID:      compoundid.Encode(s.datasetID),
		ReferenceSetID: s.referenceSetID,
		Name:           s.localName,
		Metadata:       metadata,
	}
}
