// Package htsfile reads indexed variant files (bgzip-compressed VCF with
// tabix indexes) and exposes them to the translation engine as raw
// records. The engine consumes the File interface only; the tabix-backed
// implementation lives in tabix.go so tests can substitute in-memory
// fakes.
package htsfile

import (
	"fmt"
	"math"
	"strings"
)

// MaxFetchEnd is the largest end coordinate accepted by a fetch, matching
// the htslib limit on region ends.
const MaxFetchEnd = int64(math.MaxInt32)

// Record is one raw variant record. Coordinates are 0-based half-open.
type Record struct {
	Chrom  string
	Start  int64
	End    int64
	ID     string // raw ID column, possibly ";"-separated names
	Ref    string
	Alts   []string
	Qual   float64
	Filter string
	Info   map[string][]string
	Calls  []SampleCall // ordered as the header sample columns
}

// SampleCall is the parsed genotype column for one sample.
type SampleCall struct {
	Sample      string
	Alleles     []int // allele indices; -1 for missing
	Phased      bool
	PhaseSet    string
	Likelihoods []float64
	Fields      map[string][]string // FORMAT fields other than GT, PS and GL
}

// FieldDef is one declared INFO or FORMAT field.
type FieldDef struct {
	ID          string
	Number      string
	Type        string
	Description string
}

// HeaderRecord is a free-text "##key=value" header line that is not a
// structured INFO/FORMAT/FILTER/contig declaration.
type HeaderRecord struct {
	Key   string
	Value string
}

// HeaderInfo is the declared schema of a variant file.
type HeaderInfo struct {
	Version string
	Infos   []FieldDef
	Formats []FieldDef
	Records []HeaderRecord
	Samples []string
}

// Info returns the declared INFO field with the given id, or nil.
func (h *HeaderInfo) Info(id string) *FieldDef {
	for i := range h.Infos {
		if h.Infos[i].ID == id {
			return &h.Infos[i]
		}
	}
	return nil
}

// Cursor is a forward-only, non-restartable sequence of records.
// Next returns (nil, nil) once the sequence is exhausted.
type Cursor interface {
	Next() (*Record, error)
	Close() error
}

// File is an open indexed variant file.
type File interface {
	Path() string
	// Chromosomes lists the reference names declared by the index. An
	// index may over-declare chromosomes that carry no records.
	Chromosomes() []string
	// Fetch returns a cursor over records overlapping [start, end) on the
	// given reference.
	Fetch(ref string, start, end int64) (Cursor, error)
	Header() *HeaderInfo
	Close() error
}

// Opener opens a (data, index) file pair.
type Opener interface {
	Open(dataPath, indexPath string) (File, error)
}

// NotIndexedError reports a data file opened without a usable index.
type NotIndexedError struct {
	Path string
}

func (e *NotIndexedError) Error() string {
	return fmt.Sprintf("variant file %s is not indexed", e.Path)
}

// ParseError reports a malformed header or record line.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error at line %d: %s", e.Path, e.Line, e.Message)
}

// SanitizeFetch normalizes a reference name and clamps a fetch range to
// coordinates the underlying reader accepts. A negative start is clamped
// to zero and the end to MaxFetchEnd; an inverted range collapses to an
// empty one.
func SanitizeFetch(ref string, start, end int64) (string, int64, int64) {
	ref = strings.TrimSpace(ref)
	if start < 0 {
		start = 0
	}
	if end > MaxFetchEnd {
		end = MaxFetchEnd
	}
	if end < start {
		end = start
	}
	return ref, start, end
}
