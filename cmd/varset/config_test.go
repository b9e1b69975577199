package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigKey(t *testing.T) {
	for _, key := range []string{"dataset", "registry", "ontology"} {
		assert.NoError(t, checkConfigKey(key))
	}

	err := checkConfigKey("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset, ontology, registry")
}

func TestKnownKeysSorted(t *testing.T) {
	assert.Equal(t, []string{"dataset", "ontology", "registry"}, knownKeys())
}
