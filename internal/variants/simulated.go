package variants

import (
	"fmt"
	"math/rand"

	"github.com/genobase/varset/internal/ga4gh"
)

var simBases = []string{"A", "C", "G", "T"}

var simGenotypes = [][]int{{0, 1}, {1, 0}, {1, 1}}

// SimulatedVariantSet is a variant set that derives from no data store.
// Every position decision and generated variant is a pure function of
// (seed, position), so overlapping and repeated range queries agree and
// point lookups are consistent with range scans.
type SimulatedVariantSet struct {
	setCore
	seed    int64
	density float64
}

// NewSimulatedVariantSet creates a simulated set with the given seed,
// number of call sets and variant density in [0, 1].
func NewSimulatedVariantSet(datasetID, localName string, seed int64, numCalls int, density float64) *SimulatedVariantSet {
	s := &SimulatedVariantSet{
		setCore: newSetCore(datasetID, localName),
		seed:    seed,
		density: density,
	}
	for j := 0; j < numCalls; j++ {
		s.AddCallSet(fmt.Sprintf("simCallSet_%d", j))
	}
	return s
}

// Metadata returns no entries; simulated sets declare no header fields.
func (s *SimulatedVariantSet) Metadata() []*ga4gh.VariantSetMetadata { return nil }

// ToProtocol converts this set into its protocol form.
func (s *SimulatedVariantSet) ToProtocol() *ga4gh.VariantSet { return s.toProtocol(nil) }

// GetVariant reconstructs the variant at the exact position using the
// same per-position seeding rule as range scans. The hash argument is
// accepted for interface parity; the position fully determines the
// generated variant.
func (s *SimulatedVariantSet) GetVariant(referenceName string, start int64, hash string) (*ga4gh.Variant, error) {
	v := s.generateAt(referenceName, start)
	if v == nil {
		return nil, fmt.Errorf("variant %s:%d: %w", referenceName, start, ErrObjectNotFound)
	}
	return v, nil
}

// Variants streams generated variants for every position of the
// half-open range that the per-position decision selects.
func (s *SimulatedVariantSet) Variants(referenceName string, start, end int64, callSetIDs []string) (VariantCursor, error) {
	if _, err := s.resolveCallSetIDs(callSetIDs); err != nil {
		return nil, err
	}
	return &simulatedCursor{set: s, ref: referenceName, pos: start, end: end}, nil
}

// generateAt re-seeds a generator from (seed + position), decides
// presence with probability density and, when present, derives the
// variant from the remaining stream of the same generator. Scan order
// and range boundaries cannot influence the outcome.
func (s *SimulatedVariantSet) generateAt(referenceName string, position int64) *ga4gh.Variant {
	rng := rand.New(rand.NewSource(s.seed + position))
	if rng.Float64() >= s.density {
		return nil
	}

	v := s.newVariant()
	v.ReferenceName = referenceName
	v.Start = position
	v.End = position + 1 // single-base substitutions only

	ref := simBases[rng.Intn(len(simBases))]
	v.ReferenceBases = ref
	alts := make([]string, 0, len(simBases)-1)
	for _, b := range simBases {
		if b != ref {
			alts = append(alts, b)
		}
	}
	v.AlternateBases = []string{alts[rng.Intn(len(alts))]}

	for _, cs := range s.CallSets() {
		genotype := simGenotypes[rng.Intn(len(simGenotypes))]
		v.Calls = append(v.Calls, &ga4gh.Call{
			CallSetID:          cs.ID(),
			CallSetName:        cs.SampleName(),
			SampleID:           cs.SampleName(),
			Genotype:           append([]int(nil), genotype...),
			GenotypeLikelihood: []float64{-100, -100, -100},
		})
	}

	v.ID = s.variantID(v)
	return v
}

type simulatedCursor struct {
	set *SimulatedVariantSet
	ref string
	pos int64
	end int64
}

func (c *simulatedCursor) Next() (*ga4gh.Variant, error) {
	for c.pos < c.end {
		v := c.set.generateAt(c.ref, c.pos)
		c.pos++
		if v != nil {
			return v, nil
		}
	}
	return nil, nil
}

func (c *simulatedCursor) Close() error { return nil }
