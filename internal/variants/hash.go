package variants

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/genobase/varset/internal/compoundid"
	"github.com/genobase/varset/internal/ga4gh"
)

// HashVariant produces a content hash distinguishing a variant from
// other variants at the same genomic coordinate. Two variants with
// identical reference and alternate alleles collide by design; this is
// what makes point lookups and consistency checks work. Only determinism
// and uniqueness are contractual, not the digest bytes.
func HashVariant(v *ga4gh.Variant) string {
	sum := md5.Sum([]byte(v.ReferenceBases + fmt.Sprintf("%q", v.AlternateBases)))
	return hex.EncodeToString(sum[:])
}

// variantID derives the identifier of a variant in this set from its
// reference name, start position and content hash.
func (s *setCore) variantID(v *ga4gh.Variant) string {
	return compoundid.Extend(
		s.id, v.ReferenceName, strconv.FormatInt(v.Start, 10), HashVariant(v))
}

// transcriptEffectID derives the content identifier of a transcript
// effect from its alternate allele, feature, ordered effect terms and
// HGVS transcript notation.
func transcriptEffectID(e *ga4gh.TranscriptEffect) string {
	terms := make([]string, 0, len(e.Effects))
	for _, t := range e.Effects {
		terms = append(terms, t.Term)
	}
	transcript := ""
	if e.HGVSAnnotation != nil {
		transcript = e.HGVSAnnotation.Transcript
	}
	sum := md5.Sum([]byte(strings.Join([]string{
		e.AlternateBases,
		e.FeatureID,
		strings.Join(terms, "&"),
		transcript,
	}, "\t")))
	return hex.EncodeToString(sum[:])
}

// hashAnnotation produces the content hash of a variant annotation from
// the variant alleles and the ordered child transcript-effect ids.
func hashAnnotation(v *ga4gh.Variant, a *ga4gh.VariantAnnotation) string {
	ids := make([]string, 0, len(a.TranscriptEffects))
	for _, eff := range a.TranscriptEffects {
		ids = append(ids, eff.ID)
	}
	sum := md5.Sum([]byte(strings.Join([]string{
		v.ReferenceBases,
		fmt.Sprintf("%q", v.AlternateBases),
		strings.Join(ids, "&"),
	}, "\t")))
	return hex.EncodeToString(sum[:])
}
