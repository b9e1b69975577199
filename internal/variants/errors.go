package variants

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound reports a point lookup that matched no variant.
var ErrObjectNotFound = errors.New("object not found")

// OverlappingFileError reports a chromosome claimed by two files within
// one variant set build.
type OverlappingFileError struct {
	Path  string
	Chrom string
}

func (e *OverlappingFileError) Error() string {
	return fmt.Sprintf("file %s overlaps chromosome %s already claimed by another file", e.Path, e.Chrom)
}

// InconsistentMetadataError reports a file whose header-derived metadata
// disagrees with the metadata established by the first file of the set.
type InconsistentMetadataError struct {
	Path string
}

func (e *InconsistentMetadataError) Error() string {
	return fmt.Sprintf("file %s declares metadata inconsistent with the variant set", e.Path)
}

// InconsistentCallSetsError reports a file whose sample list disagrees
// with the call sets established by the first file of the set.
type InconsistentCallSetsError struct {
	Path string
}

func (e *InconsistentCallSetsError) Error() string {
	return fmt.Sprintf("file %s declares samples inconsistent with the variant set", e.Path)
}

// UnsupportedVEPVersionError reports a recognized VEP header with a
// version this engine has no parser for.
type UnsupportedVEPVersionError struct {
	Version string
	Path    string
}

func (e *UnsupportedVEPVersionError) Error() string {
	return fmt.Sprintf("unsupported VEP version %q in %s", e.Version, e.Path)
}

// UnsupportedAnnotationsError reports an annotation-bearing INFO field
// (CSQ or ANN) with no recognized tool signature in the header.
type UnsupportedAnnotationsError struct {
	Path string
}

func (e *UnsupportedAnnotationsError) Error() string {
	return fmt.Sprintf("unsupported annotations in %s", e.Path)
}

// CallSetNotFoundError reports a call set id absent from the registry.
type CallSetNotFoundError struct {
	ID string
}

func (e *CallSetNotFoundError) Error() string {
	return fmt.Sprintf("call set %s not found", e.ID)
}

// CallSetNameNotFoundError reports a sample name absent from the registry.
type CallSetNameNotFoundError struct {
	Name string
}

func (e *CallSetNameNotFoundError) Error() string {
	return fmt.Sprintf("call set with sample name %q not found", e.Name)
}

// CallSetNotInVariantSetError reports a requested call set id that does
// not belong to the queried variant set.
type CallSetNotInVariantSetError struct {
	CallSetID    string
	VariantSetID string
}

func (e *CallSetNotInVariantSetError) Error() string {
	return fmt.Sprintf("call set %s is not in variant set %s", e.CallSetID, e.VariantSetID)
}

// AnnotationParseError reports an encoded annotation token that does not
// match its pipeline's field layout.
type AnnotationParseError struct {
	Pipeline string
	Message  string
}

func (e *AnnotationParseError) Error() string {
	return fmt.Sprintf("%s annotation: %s", e.Pipeline, e.Message)
}
