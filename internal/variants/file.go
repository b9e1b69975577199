package variants

import (
	"fmt"
	"path"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/genobase/varset/internal/compoundid"
	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/htsfile"
	"github.com/genobase/varset/internal/ontology"
)

// FilePair is the (data, index) location of one contributing file.
type FilePair struct {
	Data  string `json:"data"`
	Index string `json:"index"`
}

// FileVariantSet is a variant set backed by a collection of indexed
// variant files. It is built once by Populate or NewFileVariantSetFromRow
// and read-only afterwards.
type FileVariantSet struct {
	setCore
	opener     htsfile.Opener
	ontology   ontology.Lookup
	chromFiles map[string]FilePair
	metadata   []*ga4gh.VariantSetMetadata
}

// NewFileVariantSet creates an empty file-backed variant set for the
// given dataset and local name. The opener provides access to the
// underlying indexed files; the ontology lookup is handed to any
// annotation set inferred during population.
func NewFileVariantSet(datasetID, localName string, opener htsfile.Opener, lookup ontology.Lookup) *FileVariantSet {
	if lookup == nil {
		lookup = ontology.Empty
	}
	return &FileVariantSet{
		setCore:    newSetCore(datasetID, localName),
		opener:     opener,
		ontology:   lookup,
		chromFiles: make(map[string]FilePair),
	}
}

// ChromFiles returns the chromosome routing table.
func (s *FileVariantSet) ChromFiles() map[string]FilePair {
	out := make(map[string]FilePair, len(s.chromFiles))
	for k, v := range s.chromFiles {
		out[k] = v
	}
	return out
}

// Metadata returns the header-derived metadata of the set, one entry per
// declared field.
func (s *FileVariantSet) Metadata() []*ga4gh.VariantSetMetadata { return s.metadata }

// ToProtocol converts this set into its protocol form.
func (s *FileVariantSet) ToProtocol() *ga4gh.VariantSet { return s.toProtocol(s.metadata) }

// IsAnnotated reports whether an annotation set is attached.
func (s *FileVariantSet) IsAnnotated() bool { return len(s.annotationSets) > 0 }

// Populate builds the set from parallel ordered lists of data and index
// file paths, processing files in order. The first file establishes the
// header metadata and the call-set list; every later file must agree
// with both. Each chromosome with records may be claimed by exactly one
// file.
func (s *FileVariantSet) Populate(dataPaths, indexPaths []string) error {
	if len(dataPaths) != len(indexPaths) {
		return fmt.Errorf("got %d data files and %d index files", len(dataPaths), len(indexPaths))
	}
	for i := range dataPaths {
		if err := s.populateFromFile(dataPaths[i], indexPaths[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileVariantSet) populateFromFile(dataPath, indexPath string) error {
	f, err := s.opener.Open(dataPath, indexPath)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, chrom := range f.Chromosomes() {
		chrom, _, _ := htsfile.SanitizeFetch(chrom, 0, htsfile.MaxFetchEnd)
		// CSI-style indexes declare every contig in the header, so an
		// indexed chromosome may carry no records. Those are skipped
		// rather than claimed, or they would trigger spurious overlaps.
		has, err := s.hasRecords(f, chrom)
		if err != nil {
			return err
		}
		if !has {
			continue
		}
		if _, claimed := s.chromFiles[chrom]; claimed {
			return &OverlappingFileError{Path: dataPath, Chrom: chrom}
		}
		s.chromFiles[chrom] = FilePair{Data: dataPath, Index: indexPath}
	}

	if err := s.updateMetadata(f); err != nil {
		return err
	}
	if err := s.updateCallSets(f); err != nil {
		return err
	}
	if s.referenceSetID == "" {
		s.referenceSetID = referenceSetNameFromHeader(f.Header())
	}
	return s.inferAnnotationSet(f)
}

// referenceSetNameFromHeader derives a reference set name from the
// ##reference header record. Values are commonly FASTA paths or file://
// URLs; the base name without extension serves as the name.
func referenceSetNameFromHeader(h *htsfile.HeaderInfo) string {
	for _, rec := range h.Records {
		if rec.Key != "reference" {
			continue
		}
		name := strings.TrimPrefix(rec.Value, "file://")
		name = path.Base(name)
		for _, ext := range []string{".gz", ".fasta", ".fa"} {
			name = strings.TrimSuffix(name, ext)
		}
		return name
	}
	return ""
}

// hasRecords reports whether the file holds at least one record on the
// chromosome.
func (s *FileVariantSet) hasRecords(f htsfile.File, chrom string) (bool, error) {
	cur, err := f.Fetch(chrom, 0, htsfile.MaxFetchEnd)
	if err != nil {
		return false, err
	}
	defer cur.Close()
	rec, err := cur.Next()
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// updateMetadata establishes the set metadata from the first file and
// verifies that every later file produces identical metadata.
func (s *FileVariantSet) updateMetadata(f htsfile.File) error {
	metadata := s.metadataFromHeader(f.Header())
	if s.metadata == nil {
		s.metadata = metadata
		return nil
	}
	if !reflect.DeepEqual(s.metadata, metadata) {
		return &InconsistentMetadataError{Path: f.Path()}
	}
	return nil
}

// updateCallSets establishes the call sets from the first file's sample
// list and verifies that every later file declares the same samples.
func (s *FileVariantSet) updateCallSets(f htsfile.File) error {
	samples := f.Header().Samples
	if len(s.callSetIDs) == 0 {
		for _, sample := range samples {
			s.AddCallSet(sample)
		}
		return nil
	}
	if len(samples) != len(s.callSetIDs) {
		return &InconsistentCallSetsError{Path: f.Path()}
	}
	for _, sample := range samples {
		if _, ok := s.callSetNameMap[sample]; !ok {
			return &InconsistentCallSetsError{Path: f.Path()}
		}
	}
	return nil
}

// inferAnnotationSet attaches an annotation set when the file header
// declares a recognized annotation pipeline. Only the first inference
// ever attaches; a later annotation source is skipped.
func (s *FileVariantSet) inferAnnotationSet(f htsfile.File) error {
	annType, err := DetectAnnotationType(f.Header(), f.Path())
	if err != nil {
		if s.IsAnnotated() {
			// The set already has its pipeline; an unparseable second
			// source changes nothing.
			return nil
		}
		return err
	}
	if annType == AnnotationNone {
		return nil
	}
	if s.IsAnnotated() {
		s.logger.Warn("ignoring additional annotation source",
			zap.String("file", f.Path()),
			zap.String("pipeline", annType.String()))
		return nil
	}
	s.addAnnotationSet(newFileAnnotationSet(s, s.localName, annType, f.Header(), s.ontology))
	return nil
}

// CheckConsistency re-walks every claimed chromosome and re-validates
// metadata and call-set agreement for chromosomes holding records. It is
// an explicit integrity audit, separate from build-time validation.
func (s *FileVariantSet) CheckConsistency() error {
	for _, pair := range s.chromFiles {
		if err := s.checkFile(pair); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileVariantSet) checkFile(pair FilePair) error {
	f, err := s.opener.Open(pair.Data, pair.Index)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, chrom := range f.Chromosomes() {
		chrom, _, _ := htsfile.SanitizeFetch(chrom, 0, htsfile.MaxFetchEnd)
		has, err := s.hasRecords(f, chrom)
		if err != nil {
			return err
		}
		if !has {
			continue
		}
		metadata := s.metadataFromHeader(f.Header())
		if !reflect.DeepEqual(s.metadata, metadata) {
			return &InconsistentMetadataError{Path: f.Path()}
		}
		if err := s.checkCallSets(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileVariantSet) checkCallSets(f htsfile.File) error {
	if len(s.callSetIDs) == 0 {
		return nil
	}
	samples := f.Header().Samples
	if len(samples) != len(s.callSetIDs) {
		return &InconsistentCallSetsError{Path: f.Path()}
	}
	for _, sample := range samples {
		if !s.hasCallSet(s.callSetID(sample)) {
			return &InconsistentCallSetsError{Path: f.Path()}
		}
	}
	return nil
}

// GetVariant resolves the variant at the exact start position with the
// given content hash. The scan stops as soon as a record past the start
// is seen; records are sorted ascending by start per reference.
func (s *FileVariantSet) GetVariant(referenceName string, start int64, hash string) (*ga4gh.Variant, error) {
	pair, ok := s.chromFiles[referenceName]
	if !ok {
		return nil, fmt.Errorf("reference %s: %w", referenceName, ErrObjectNotFound)
	}
	f, err := s.opener.Open(pair.Data, pair.Index)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ref, fetchStart, fetchEnd := htsfile.SanitizeFetch(referenceName, start, start+1)
	cur, err := f.Fetch(ref, fetchStart, fetchEnd)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	for {
		rec, err := cur.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("variant %s:%d: %w", referenceName, start, ErrObjectNotFound)
		}
		variant, err := s.ConvertVariant(rec, s.callSetIDs)
		if err != nil {
			return nil, err
		}
		if rec.Start == start && HashVariant(variant) == hash {
			return variant, nil
		}
		if rec.Start > start {
			return nil, fmt.Errorf("variant %s:%d: %w", referenceName, start, ErrObjectNotFound)
		}
	}
}

// Variants streams converted variants for the half-open range. Explicit
// call-set ids are validated before any record is read; a reference with
// no contributing file yields an empty cursor.
func (s *FileVariantSet) Variants(referenceName string, start, end int64, callSetIDs []string) (VariantCursor, error) {
	ids, err := s.resolveCallSetIDs(callSetIDs)
	if err != nil {
		return nil, err
	}
	cur, closer, err := s.rawRecords(referenceName, start, end)
	if err != nil {
		return nil, err
	}
	return &fileVariantCursor{set: s, records: cur, file: closer, callSetIDs: ids}, nil
}

// rawRecords opens a record cursor for the range, routing by reference
// name. An unmapped reference produces an empty cursor.
func (s *FileVariantSet) rawRecords(referenceName string, start, end int64) (htsfile.Cursor, htsfile.File, error) {
	pair, ok := s.chromFiles[referenceName]
	if !ok {
		return emptyRecordCursor{}, nil, nil
	}
	f, err := s.opener.Open(pair.Data, pair.Index)
	if err != nil {
		return nil, nil, err
	}
	ref, start, end := htsfile.SanitizeFetch(referenceName, start, end)
	cur, err := f.Fetch(ref, start, end)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return cur, f, nil
}

// ConvertVariant maps one raw record onto a canonical variant, including
// calls for the given call-set ids only. It is pure: no state of the set
// changes.
func (s *FileVariantSet) ConvertVariant(rec *htsfile.Record, callSetIDs []string) (*ga4gh.Variant, error) {
	v := s.newVariant()
	v.ReferenceName = rec.Chrom
	if rec.ID != "" {
		v.Names = strings.Split(rec.ID, ";")
	}
	v.Start = rec.Start
	v.End = rec.End
	v.ReferenceBases = rec.Ref
	v.AlternateBases = append([]string(nil), rec.Alts...)

	v.Info = make(map[string][]string, len(rec.Info))
	for key, values := range rec.Info {
		v.Info[key] = append([]string(nil), values...)
	}

	for _, id := range callSetIDs {
		cs, err := s.CallSet(id)
		if err != nil {
			return nil, err
		}
		sc := findSampleCall(rec, cs.SampleName())
		if sc == nil {
			continue
		}
		v.Calls = append(v.Calls, convertCall(cs, sc))
	}

	v.ID = s.variantID(v)
	return v, nil
}

func findSampleCall(rec *htsfile.Record, sample string) *htsfile.SampleCall {
	for i := range rec.Calls {
		if rec.Calls[i].Sample == sample {
			return &rec.Calls[i]
		}
	}
	return nil
}

func convertCall(cs *CallSet, sc *htsfile.SampleCall) *ga4gh.Call {
	call := &ga4gh.Call{
		CallSetID:          cs.ID(),
		CallSetName:        cs.SampleName(),
		SampleID:           cs.SampleName(),
		Genotype:           append([]int(nil), sc.Alleles...),
		GenotypeLikelihood: append([]float64(nil), sc.Likelihoods...),
	}
	if sc.Phased {
		call.Phaseset = sc.PhaseSet
		if call.Phaseset == "" {
			call.Phaseset = "true"
		}
	}
	if len(sc.Fields) > 0 {
		call.Info = make(map[string][]string, len(sc.Fields))
		for key, values := range sc.Fields {
			call.Info[key] = append([]string(nil), values...)
		}
	}
	return call
}

// metadataFromHeader builds one typed metadata entry per declared header
// field. FORMAT.GT is excluded; contigs and filters differ legitimately
// between files and are not part of the metadata contract.
func (s *FileVariantSet) metadataFromHeader(h *htsfile.HeaderInfo) []*ga4gh.VariantSetMetadata {
	ret := []*ga4gh.VariantSetMetadata{s.buildMetadata("version", "", "String", "1", h.Version)}
	for _, group := range []struct {
		prefix string
		defs   []htsfile.FieldDef
	}{
		{"FORMAT", h.Formats},
		{"INFO", h.Infos},
	} {
		for _, def := range group.defs {
			key := group.prefix + "." + def.ID
			if key == "FORMAT.GT" {
				continue
			}
			ret = append(ret, s.buildMetadata(key, def.Description, def.Type, def.Number, ""))
		}
	}
	return ret
}

func (s *FileVariantSet) buildMetadata(key, description, typ, number, value string) *ga4gh.VariantSetMetadata {
	return &ga4gh.VariantSetMetadata{
		ID:          compoundid.Extend(s.id, "metadata:"+key),
		Key:         key,
		Value:       value,
		Type:        typ,
		Number:      number,
		Description: description,
	}
}

type fileVariantCursor struct {
	set        *FileVariantSet
	records    htsfile.Cursor
	file       htsfile.File
	callSetIDs []string
}

func (c *fileVariantCursor) Next() (*ga4gh.Variant, error) {
	rec, err := c.records.Next()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return c.set.ConvertVariant(rec, c.callSetIDs)
}

func (c *fileVariantCursor) Close() error {
	err := c.records.Close()
	if c.file != nil {
		if cerr := c.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type emptyRecordCursor struct{}

func (emptyRecordCursor) Next() (*htsfile.Record, error) { return nil, nil }
func (emptyRecordCursor) Close() error                   { return nil }
