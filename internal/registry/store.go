// Package registry persists built variant sets in DuckDB so they can be
// served again without rescanning their files. Routing tables, metadata
// and call sets are stored as JSON columns; raw variant data stays in
// the indexed files themselves.
package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/htsfile"
	"github.com/genobase/varset/internal/ontology"
	"github.com/genobase/varset/internal/variants"
)

// Store manages a DuckDB connection holding variant set rows.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an
// empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create registry directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS variant_sets (
		dataset_id VARCHAR,
		name VARCHAR,
		reference_set_id VARCHAR,
		created VARCHAR,
		updated VARCHAR,
		chrom_file_map VARCHAR,
		metadata VARCHAR,
		call_sets VARCHAR,
		annotation_type VARCHAR,
		analysis VARCHAR,
		PRIMARY KEY (dataset_id, name)
	)`)
	return err
}

// SaveVariantSet upserts the row form of a built variant set.
func (s *Store) SaveVariantSet(set *variants.FileVariantSet) error {
	row := set.Row()

	chromFiles, err := json.Marshal(row.ChromFiles)
	if err != nil {
		return fmt.Errorf("marshal routing table: %w", err)
	}
	metadata, err := json.Marshal(row.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	callSets, err := json.Marshal(row.CallSetNames)
	if err != nil {
		return fmt.Errorf("marshal call sets: %w", err)
	}
	analysis := []byte("null")
	if row.Analysis != nil {
		analysis, err = json.Marshal(row.Analysis)
		if err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO variant_sets
		(dataset_id, name, reference_set_id, created, updated,
		 chrom_file_map, metadata, call_sets, annotation_type, analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.DatasetID, row.LocalName, row.ReferenceSetID,
		row.Created, row.Updated,
		string(chromFiles), string(metadata), string(callSets),
		row.AnnotationType.String(), string(analysis))
	if err != nil {
		return fmt.Errorf("save variant set %s/%s: %w", row.DatasetID, row.LocalName, err)
	}
	return nil
}

// LoadVariantSet rebuilds a stored variant set. The opener and ontology
// lookup are re-injected; they are process configuration, not row state.
func (s *Store) LoadVariantSet(datasetID, name string, opener htsfile.Opener, lookup ontology.Lookup) (*variants.FileVariantSet, error) {
	row := variants.SetRow{DatasetID: datasetID, LocalName: name}
	var (
		chromFiles string
		metadata   string
		callSets   string
		annType    string
		analysis   string
	)
	err := s.db.QueryRow(`SELECT reference_set_id, created, updated,
			chrom_file_map, metadata, call_sets, annotation_type, analysis
		FROM variant_sets WHERE dataset_id = ? AND name = ?`,
		datasetID, name).Scan(
		&row.ReferenceSetID, &row.Created, &row.Updated,
		&chromFiles, &metadata, &callSets, &annType, &analysis)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("variant set %s/%s: %w", datasetID, name, variants.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load variant set %s/%s: %w", datasetID, name, err)
	}

	if err := json.Unmarshal([]byte(chromFiles), &row.ChromFiles); err != nil {
		return nil, fmt.Errorf("unmarshal routing table: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &row.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(callSets), &row.CallSetNames); err != nil {
		return nil, fmt.Errorf("unmarshal call sets: %w", err)
	}
	if analysis != "" && analysis != "null" {
		row.Analysis = &ga4gh.Analysis{}
		if err := json.Unmarshal([]byte(analysis), row.Analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
	}
	row.AnnotationType, err = variants.ParseAnnotationType(annType)
	if err != nil {
		return nil, err
	}

	return variants.NewFileVariantSetFromRow(row, opener, lookup), nil
}

// ListVariantSets returns the (datasetID, name) pairs of every stored
// set, ordered by dataset then name.
func (s *Store) ListVariantSets() ([][2]string, error) {
	rows, err := s.db.Query(`SELECT dataset_id, name FROM variant_sets ORDER BY dataset_id, name`)
	if err != nil {
		return nil, fmt.Errorf("list variant sets: %w", err)
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var datasetID, name string
		if err := rows.Scan(&datasetID, &name); err != nil {
			return nil, err
		}
		out = append(out, [2]string{datasetID, name})
	}
	return out, rows.Err()
}
