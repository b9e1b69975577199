// Package compoundid encodes ordered identifier fields into opaque
// stable strings and decodes them back. Callers treat the encoded form
// as a token; nothing in this repository inspects its layout.
package compoundid

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// fieldSep separates fields inside the encoded payload. The unit
// separator cannot appear in reference names, sample names or hex
// digests, so no escaping is needed.
const fieldSep = "\x1f"

// Encode joins the given fields into an opaque url-safe token.
func Encode(fields ...string) string {
	joined := strings.Join(fields, fieldSep)
	return base64.RawURLEncoding.EncodeToString([]byte(joined))
}

// Extend appends fields to an already-encoded parent id, producing the
// id of a child object.
func Extend(parent string, fields ...string) string {
	parentFields, err := Decode(parent)
	if err != nil {
		// A malformed parent is a programming error upstream; fold the
		// raw token in as a single field rather than panicking.
		parentFields = []string{parent}
	}
	return Encode(append(parentFields, fields...)...)
}

// Decode splits an encoded token back into its ordered fields.
func Decode(id string) ([]string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return nil, fmt.Errorf("decode compound id: %w", err)
	}
	return strings.Split(string(raw), fieldSep), nil
}
