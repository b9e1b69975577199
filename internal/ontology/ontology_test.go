package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapResolve(t *testing.T) {
	m := Map{"missense_variant": "SO:0001583"}
	assert.Equal(t, "SO:0001583", m.Resolve("missense_variant"))
	assert.Equal(t, "", m.Resolve("unknown_term"))
	assert.Equal(t, "", Empty.Resolve("missense_variant"))
}

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "so.tsv")
	content := "# name\tid\n\nmissense_variant\tSO:0001583\nstop_gained\tSO:0001587\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadMap(path)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, "SO:0001587", m.Resolve("stop_gained"))
}

func TestLoadMapRejectsBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "so.tsv")
	require.NoError(t, os.WriteFile(path, []byte("missense_variant SO:0001583\n"), 0o644))

	_, err := LoadMap(path)
	assert.Error(t, err)
}
