package htsfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/tabix"
)

// TabixOpener opens bgzip-compressed VCF files with tabix (.tbi) indexes.
type TabixOpener struct{}

// Open reads the index and the file header. When indexPath is empty the
// conventional sidecar path (dataPath + ".tbi") is assumed.
func (TabixOpener) Open(dataPath, indexPath string) (File, error) {
	if indexPath == "" {
		indexPath = dataPath + ".tbi"
	}

	idxFile, err := os.Open(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotIndexedError{Path: dataPath}
		}
		return nil, fmt.Errorf("open index %s: %w", indexPath, err)
	}
	defer idxFile.Close()

	idxReader, err := bgzf.NewReader(idxFile, 1)
	if err != nil {
		return nil, &NotIndexedError{Path: dataPath}
	}
	defer idxReader.Close()

	idx, err := tabix.ReadFrom(idxReader)
	if err != nil {
		return nil, &NotIndexedError{Path: dataPath}
	}

	header, err := readHeader(dataPath)
	if err != nil {
		return nil, err
	}

	return &tabixFile{path: dataPath, idx: idx, header: header}, nil
}

// readHeader parses the meta lines of a bgzip-compressed VCF up to and
// including the #CHROM column line.
func readHeader(path string) (*HeaderInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variant file: %w", err)
	}
	defer f.Close()

	bz, err := bgzf.NewReader(f, 1)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer bz.Close()

	header := &HeaderInfo{}
	reader := bufio.NewReader(bz)
	lineNo := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read header of %s: %w", path, err)
		}
		lineNo++
		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			parseHeaderLine(header, line)
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			header.Samples = parseSampleNames(line)
			return header, nil
		}
		return nil, &ParseError{Path: path, Line: lineNo, Message: "expected #CHROM header line"}
	}
	return nil, &ParseError{Path: path, Line: lineNo, Message: "no #CHROM header line found"}
}

type tabixFile struct {
	path   string
	idx    *tabix.Index
	header *HeaderInfo
}

func (f *tabixFile) Path() string { return f.path }

func (f *tabixFile) Header() *HeaderInfo { return f.header }

func (f *tabixFile) Chromosomes() []string { return f.idx.Names() }

func (f *tabixFile) Close() error { return nil }

// Fetch opens an independent cursor over [start, end) on ref. The cursor
// seeks to the first indexed chunk for the region when one exists and
// scans forward from there.
func (f *tabixFile) Fetch(ref string, start, end int64) (Cursor, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open variant file: %w", err)
	}
	bz, err := bgzf.NewReader(file, 1)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	// A failed chunk lookup (reference absent from the index, or an empty
	// bin) degrades to a scan from the start of the file.
	if chunks, err := f.idx.Chunks(ref, int(start), int(end)); err == nil && len(chunks) > 0 {
		if err := bz.Seek(chunks[0].Begin); err != nil {
			bz.Close()
			file.Close()
			return nil, fmt.Errorf("seek %s: %w", f.path, err)
		}
	}

	return &tabixCursor{
		path:    f.path,
		file:    file,
		bz:      bz,
		reader:  bufio.NewReader(bz),
		samples: f.header.Samples,
		ref:     ref,
		start:   start,
		end:     end,
	}, nil
}

type tabixCursor struct {
	path    string
	file    *os.File
	bz      *bgzf.Reader
	reader  *bufio.Reader
	samples []string
	ref     string
	start   int64
	end     int64
	seen    bool // a record on ref has been emitted
	done    bool
	line    int
}

// Next returns the next overlapping record, or (nil, nil) when the range
// is exhausted. Records are assumed sorted by start within a reference.
func (c *tabixCursor) Next() (*Record, error) {
	if c.done {
		return nil, nil
	}
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				c.done = true
				return nil, nil
			}
			return nil, fmt.Errorf("read %s: %w", c.path, err)
		}
		c.line++
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := parseRecord(line, c.samples)
		if err != nil {
			return nil, &ParseError{Path: c.path, Line: c.line, Message: err.Error()}
		}
		if rec.Chrom != c.ref {
			if c.seen {
				// Past the requested reference in a sorted file.
				c.done = true
				return nil, nil
			}
			continue
		}
		if rec.Start >= c.end {
			c.done = true
			return nil, nil
		}
		if rec.End <= c.start {
			continue
		}
		c.seen = true
		return rec, nil
	}
}

func (c *tabixCursor) Close() error {
	if c.file == nil {
		return nil
	}
	c.bz.Close()
	err := c.file.Close()
	c.file = nil
	return err
}
