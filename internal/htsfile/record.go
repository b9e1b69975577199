package htsfile

import (
	"fmt"
	"strconv"
	"strings"
)

// parseRecord parses one data line into a Record. Sample columns are
// matched positionally with the header sample names.
func parseRecord(line string, samples []string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, fmt.Errorf("expected at least 8 columns, found %d", len(fields))
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position: %s", fields[1])
	}

	qual := 0.0
	if fields[5] != "." {
		qual, _ = strconv.ParseFloat(fields[5], 64)
	}

	rec := &Record{
		Chrom:  fields[0],
		Start:  pos - 1, // VCF positions are 1-based
		ID:     fields[2],
		Ref:    fields[3],
		Qual:   qual,
		Filter: fields[6],
		Info:   parseInfoColumn(fields[7]),
	}
	if rec.ID == "." {
		rec.ID = ""
	}
	if fields[4] != "." && fields[4] != "" {
		rec.Alts = strings.Split(fields[4], ",")
	}

	rec.End = rec.Start + int64(len(rec.Ref))
	if ends, ok := rec.Info["END"]; ok && len(ends) > 0 {
		if end, err := strconv.ParseInt(ends[0], 10, 64); err == nil {
			rec.End = end
		}
	}

	if len(fields) > 9 {
		format := strings.Split(fields[8], ":")
		n := len(fields) - 9
		if n > len(samples) {
			n = len(samples)
		}
		rec.Calls = make([]SampleCall, 0, n)
		for i := 0; i < n; i++ {
			rec.Calls = append(rec.Calls, parseSampleCall(samples[i], format, fields[9+i]))
		}
	}

	return rec, nil
}

// parseInfoColumn parses the INFO column into an ordered-value map.
// Multi-valued fields are split on commas; flags map to ["true"].
func parseInfoColumn(info string) map[string][]string {
	result := make(map[string][]string)
	if info == "." || info == "" {
		return result
	}
	for _, kv := range strings.Split(info, ";") {
		key, value, ok := strings.Cut(kv, "=")
		if ok {
			result[key] = strings.Split(value, ",")
		} else {
			result[key] = []string{"true"}
		}
	}
	return result
}

// parseSampleCall parses one genotype column against the record FORMAT.
func parseSampleCall(sample string, format []string, column string) SampleCall {
	call := SampleCall{Sample: sample}
	values := strings.Split(column, ":")
	for i, key := range format {
		if i >= len(values) {
			break
		}
		value := values[i]
		switch key {
		case "GT":
			call.Alleles, call.Phased = parseGenotype(value)
		case "PS":
			if value != "." {
				call.PhaseSet = value
			}
		case "GL":
			call.Likelihoods = parseFloats(value)
		default:
			if call.Fields == nil {
				call.Fields = make(map[string][]string)
			}
			call.Fields[key] = strings.Split(value, ",")
		}
	}
	return call
}

// parseGenotype parses a GT value like "0/1" or "1|0" into allele
// indices. Missing alleles ('.') become -1. The separator determines
// phasing.
func parseGenotype(gt string) ([]int, bool) {
	phased := strings.Contains(gt, "|")
	parts := strings.FieldsFunc(gt, func(r rune) bool {
		return r == '/' || r == '|'
	})
	alleles := make([]int, 0, len(parts))
	for _, p := range parts {
		if p == "." || p == "" {
			alleles = append(alleles, -1)
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			alleles = append(alleles, -1)
			continue
		}
		alleles = append(alleles, idx)
	}
	return alleles, phased
}

func parseFloats(value string) []float64 {
	if value == "." || value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}
