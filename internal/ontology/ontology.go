// Package ontology resolves sequence ontology term names to term
// identifiers. The variant annotation translation treats this as an
// injected collaborator: unresolved names are never fatal and map to an
// empty identifier.
package ontology

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Lookup resolves a term name to its ontology identifier, or "" when
// the name is unknown.
type Lookup interface {
	Resolve(term string) string
}

// Map is a Lookup backed by an in-memory name→id map.
type Map map[string]string

// Resolve implements Lookup.
func (m Map) Resolve(term string) string {
	return m[term]
}

// Empty is a Lookup that resolves nothing. Useful for tests and for
// annotation sets built without an ontology source.
var Empty Lookup = Map(nil)

// LoadMap reads a two-column tab-separated file of term name and term
// id (e.g. "missense_variant\tSO:0001583") into a Map. Blank lines and
// lines starting with '#' are skipped.
func LoadMap(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology map: %w", err)
	}
	defer f.Close()

	m := make(Map)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, id, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("ontology map %s line %d: expected two tab-separated columns", path, lineNo)
		}
		m[strings.TrimSpace(name)] = strings.TrimSpace(id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ontology map: %w", err)
	}
	return m, nil
}
