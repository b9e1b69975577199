package variants

import (
	"fmt"

	"github.com/genobase/varset/internal/htsfile"
)

// fakeFile is an in-memory htsfile.File. Records are stored per
// chromosome, sorted ascending by start, like a tabix-indexed file.
type fakeFile struct {
	path    string
	chroms  []string
	header  *htsfile.HeaderInfo
	records map[string][]*htsfile.Record
}

func (f *fakeFile) Path() string                { return f.path }
func (f *fakeFile) Chromosomes() []string       { return f.chroms }
func (f *fakeFile) Header() *htsfile.HeaderInfo { return f.header }
func (f *fakeFile) Close() error                { return nil }

func (f *fakeFile) Fetch(ref string, start, end int64) (htsfile.Cursor, error) {
	var hits []*htsfile.Record
	for _, rec := range f.records[ref] {
		if rec.Start < end && rec.End > start {
			hits = append(hits, rec)
		}
	}
	return &fakeCursor{records: hits}, nil
}

type fakeCursor struct {
	records []*htsfile.Record
	pos     int
}

func (c *fakeCursor) Next() (*htsfile.Record, error) {
	if c.pos >= len(c.records) {
		return nil, nil
	}
	rec := c.records[c.pos]
	c.pos++
	return rec, nil
}

func (c *fakeCursor) Close() error { return nil }

// fakeOpener serves fakeFiles by data path.
type fakeOpener map[string]*fakeFile

func (o fakeOpener) Open(dataPath, indexPath string) (htsfile.File, error) {
	f, ok := o[dataPath]
	if !ok {
		return nil, fmt.Errorf("no such file %s", dataPath)
	}
	return f, nil
}

// plainHeader builds a minimal unannotated header with the given
// samples.
func plainHeader(samples ...string) *htsfile.HeaderInfo {
	return &htsfile.HeaderInfo{
		Version: "VCFv4.2",
		Infos: []htsfile.FieldDef{
			{ID: "DP", Number: "1", Type: "Integer", Description: "Total depth"},
		},
		Formats: []htsfile.FieldDef{
			{ID: "GT", Number: "1", Type: "String", Description: "Genotype"},
		},
		Samples: samples,
	}
}

// snv builds a single-base substitution record with one call per sample.
func snv(chrom string, start int64, ref, alt string, samples ...string) *htsfile.Record {
	rec := &htsfile.Record{
		Chrom: chrom,
		Start: start,
		End:   start + int64(len(ref)),
		Ref:   ref,
		Alts:  []string{alt},
		Info:  map[string][]string{},
	}
	for _, sample := range samples {
		rec.Calls = append(rec.Calls, htsfile.SampleCall{
			Sample:  sample,
			Alleles: []int{0, 1},
		})
	}
	return rec
}
