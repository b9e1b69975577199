package htsfile

import (
	"strings"
)

// structuredKeys are header declarations of the form ##KEY=<ID=...>.
// Anything else with a ##key=value shape is kept as a free-text record.
var structuredKeys = map[string]bool{
	"INFO":     true,
	"FORMAT":   true,
	"FILTER":   true,
	"contig":   true,
	"ALT":      true,
	"META":     true,
	"SAMPLE":   true,
	"PEDIGREE": true,
}

// parseHeaderLine folds one "##..." meta line into the header. The
// "#CHROM" column line is handled by the caller.
func parseHeaderLine(h *HeaderInfo, line string) {
	body := strings.TrimPrefix(line, "##")
	key, value, ok := strings.Cut(body, "=")
	if !ok {
		return
	}

	switch {
	case key == "fileformat":
		h.Version = value
	case key == "INFO" && strings.HasPrefix(value, "<"):
		h.Infos = append(h.Infos, parseFieldDef(value))
	case key == "FORMAT" && strings.HasPrefix(value, "<"):
		h.Formats = append(h.Formats, parseFieldDef(value))
	case structuredKeys[key] && strings.HasPrefix(value, "<"):
		// Declarations we do not model (FILTER, contig, ALT, ...).
	default:
		h.Records = append(h.Records, HeaderRecord{
			Key:   key,
			Value: strings.Trim(value, `"`),
		})
	}
}

// parseFieldDef parses the <ID=...,Number=...,Type=...,Description="...">
// body of an INFO or FORMAT declaration.
func parseFieldDef(value string) FieldDef {
	body := strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
	var def FieldDef
	for _, kv := range splitHeaderFields(body) {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		v = strings.Trim(v, `"`)
		switch k {
		case "ID":
			def.ID = v
		case "Number":
			def.Number = v
		case "Type":
			def.Type = v
		case "Description":
			def.Description = v
		}
	}
	return def
}

// splitHeaderFields splits a declaration body on commas, honoring quoted
// Description values that contain commas themselves.
func splitHeaderFields(body string) []string {
	var fields []string
	var b strings.Builder
	inQuote := false
	for _, r := range body {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == ',' && !inQuote:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		fields = append(fields, b.String())
	}
	return fields
}

// parseSampleNames extracts sample names from the #CHROM column line.
func parseSampleNames(line string) []string {
	fields := strings.Split(line, "\t")
	if len(fields) > 9 {
		return fields[9:]
	}
	return nil
}
