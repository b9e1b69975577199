package variants

import (
	"github.com/genobase/varset/internal/compoundid"
	"github.com/genobase/varset/internal/ga4gh"
)

// CallSet is the metadata associated with one sample column of a variant
// set. It is created once per distinct sample name and immutable after
// registration; the variant set owns it exclusively.
type CallSet struct {
	id         string
	sampleName string
	parent     *setCore
}

// ID returns the call set's compound identifier.
func (c *CallSet) ID() string { return c.id }

// SampleName returns the sample name, which doubles as the local id.
func (c *CallSet) SampleName() string { return c.sampleName }

// ToProtocol returns the protocol form of this call set. Timestamps are
// inherited from the parent variant set.
func (c *CallSet) ToProtocol() *ga4gh.CallSet {
	return &ga4gh.CallSet{
		ID:            c.id,
		Name:          c.sampleName,
		SampleID:      c.sampleName,
		VariantSetIDs: []string{c.parent.id},
		Created:       c.parent.created,
		Updated:       c.parent.updated,
	}
}

// AddCallSet registers a call set for the sample name. Registering the
// same name twice is a no-op, so the set holds exactly one call set per
// distinct sample. Registration order is preserved for index lookups.
func (s *setCore) AddCallSet(sampleName string) *CallSet {
	if cs, ok := s.callSetNameMap[sampleName]; ok {
		return cs
	}
	cs := &CallSet{
		id:         s.callSetID(sampleName),
		sampleName: sampleName,
		parent:     s,
	}
	s.callSetIDMap[cs.id] = cs
	s.callSetNameMap[sampleName] = cs
	s.callSetIDs = append(s.callSetIDs, cs.id)
	return cs
}

// callSetID derives the compound id of the call set for a sample name.
func (s *setCore) callSetID(sampleName string) string {
	return compoundid.Extend(s.id, sampleName)
}

// CallSets returns the call sets in registration order.
func (s *setCore) CallSets() []*CallSet {
	out := make([]*CallSet, 0, len(s.callSetIDs))
	for _, id := range s.callSetIDs {
		out = append(out, s.callSetIDMap[id])
	}
	return out
}

// NumCallSets returns the number of registered call sets.
func (s *setCore) NumCallSets() int { return len(s.callSetIDs) }

// CallSet resolves a call set by id.
func (s *setCore) CallSet(id string) (*CallSet, error) {
	cs, ok := s.callSetIDMap[id]
	if !ok {
		return nil, &CallSetNotFoundError{ID: id}
	}
	return cs, nil
}

// CallSetByName resolves a call set by sample name.
func (s *setCore) CallSetByName(name string) (*CallSet, error) {
	cs, ok := s.callSetNameMap[name]
	if !ok {
		return nil, &CallSetNameNotFoundError{Name: name}
	}
	return cs, nil
}

// CallSetByIndex resolves a call set by its registration index.
func (s *setCore) CallSetByIndex(index int) (*CallSet, error) {
	if index < 0 || index >= len(s.callSetIDs) {
		return nil, &CallSetNotFoundError{ID: ""}
	}
	return s.callSetIDMap[s.callSetIDs[index]], nil
}

// hasCallSet reports whether the id belongs to this set.
func (s *setCore) hasCallSet(id string) bool {
	_, ok := s.callSetIDMap[id]
	return ok
}

// resolveCallSetIDs validates the requested ids against the registry, or
// returns every registered id when the request is nil.
func (s *setCore) resolveCallSetIDs(callSetIDs []string) ([]string, error) {
	if callSetIDs == nil {
		return s.callSetIDs, nil
	}
	for _, id := range callSetIDs {
		if !s.hasCallSet(id) {
			return nil, &CallSetNotInVariantSetError{CallSetID: id, VariantSetID: s.id}
		}
	}
	return callSetIDs, nil
}
