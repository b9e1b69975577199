package variants

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/genobase/varset/internal/ga4gh"
)

// HGVS coordinate extraction. The coding pattern captures the position
// and the flanking reference/alternate fragments of notations like
// "ENST00000366667.4:c.803T>C"; the protein pattern handles
// "ENSP00000355627.4:p.Met268Thr".
var (
	hgvsCodingRe  = regexp.MustCompile(`.*c\.(\d+)(\D+)>(\D+)`)
	hgvsProteinRe = regexp.MustCompile(`.*p\.(\D+)(\d+)(\D+)`)
)

// convertLocation parses a raw "position/length" pair as found in the
// position sub-fields of the encoded annotations. Only the integer
// position is used, converted to 0-based. Returns nil when the field is
// empty or carries no pair.
func (s *annotationCore) convertLocation(pos string) *ga4gh.AlleleLocation {
	if pos == "" {
		return nil
	}
	coord, _, ok := strings.Cut(pos, "/")
	if !ok {
		return nil
	}
	start, err := strconv.ParseInt(coord, 10, 64)
	if err != nil {
		return nil
	}
	loc := s.newAlleleLocation()
	loc.Start = start - 1
	return loc
}

// convertLocationHgvsC recovers a coding-DNA location from an HGVS
// coding notation, keeping the reference/alternate fragments.
func (s *annotationCore) convertLocationHgvsC(hgvsc string) *ga4gh.AlleleLocation {
	if hgvsc == "" {
		return nil
	}
	m := hgvsCodingRe.FindStringSubmatch(hgvsc)
	if m == nil {
		return nil
	}
	pos, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || pos <= 0 {
		return nil
	}
	loc := s.newAlleleLocation()
	loc.Start = pos - 1
	loc.ReferenceSequence = m[2]
	loc.AlternateSequence = m[3]
	return loc
}

// convertLocationHgvsP recovers a protein location from an HGVS protein
// notation.
func (s *annotationCore) convertLocationHgvsP(hgvsp string) *ga4gh.AlleleLocation {
	if hgvsp == "" {
		return nil
	}
	m := hgvsProteinRe.FindStringSubmatch(hgvsp)
	if m == nil {
		return nil
	}
	pos, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil
	}
	loc := s.newAlleleLocation()
	loc.ReferenceSequence = m[1]
	loc.Start = pos - 1
	loc.AlternateSequence = m[3]
	return loc
}

// addCDSLocation sets the coding-sequence location, preferring the HGVS
// coding notation over the raw pair. Reference/alternate fragments are
// not meaningful in coding-sequence coordinates and are stripped when
// the HGVS parse supplied them.
func (s *annotationCore) addCDSLocation(effect *ga4gh.TranscriptEffect, cdnaPos string) {
	hgvsC := ""
	if effect.HGVSAnnotation != nil {
		hgvsC = effect.HGVSAnnotation.Transcript
	}
	if loc := s.convertLocationHgvsC(hgvsC); loc != nil {
		loc.ReferenceSequence = ""
		loc.AlternateSequence = ""
		effect.CDSLocation = loc
		return
	}
	effect.CDSLocation = s.convertLocation(cdnaPos)
}

// addCDNALocation sets the coding-DNA location from the raw pair and,
// when the HGVS coding notation parses, attaches its reference and
// alternate fragments.
func (s *annotationCore) addCDNALocation(effect *ga4gh.TranscriptEffect, cdnaPos string) {
	hgvsC := ""
	if effect.HGVSAnnotation != nil {
		hgvsC = effect.HGVSAnnotation.Transcript
	}
	effect.CDNALocation = s.convertLocation(cdnaPos)
	if effect.CDNALocation == nil {
		return
	}
	if loc := s.convertLocationHgvsC(hgvsC); loc != nil {
		effect.CDNALocation.ReferenceSequence = loc.ReferenceSequence
		effect.CDNALocation.AlternateSequence = loc.AlternateSequence
	}
}

// addProteinLocation sets the protein location, preferring the HGVS
// protein notation over the raw pair.
func (s *annotationCore) addProteinLocation(effect *ga4gh.TranscriptEffect, protPos string) {
	hgvsP := ""
	if effect.HGVSAnnotation != nil {
		hgvsP = effect.HGVSAnnotation.Protein
	}
	if loc := s.convertLocationHgvsP(hgvsP); loc != nil {
		effect.ProteinLocation = loc
		return
	}
	effect.ProteinLocation = s.convertLocation(protPos)
}

// addLocations recovers all three allele locations for a transcript
// effect from its HGVS notations and the raw protein/coding-DNA position
// sub-fields.
func (s *annotationCore) addLocations(effect *ga4gh.TranscriptEffect, protPos, cdnaPos string) {
	s.addCDSLocation(effect, cdnaPos)
	s.addCDNALocation(effect, cdnaPos)
	s.addProteinLocation(effect, protPos)
}
