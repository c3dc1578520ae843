// Package areakey canonicalizes heterogeneous area identifiers into one stable id space.
//
// Source attribute bags disagree on which field carries the identifier: newer
// datasets carry an explicit area id or statistical key code, reference
// boundary files carry the national administrative code, and older baselines
// still use a zip-style legacy code. Candidates are tried in a fixed priority
// order and the first non-empty one wins, so the same attribute bag always
// derives the same area id across runs
package areakey

import (
	"strings"

	"depotmap/internal/core/normalize"
	perr "depotmap/internal/platform/errors"
)

// Kind classifies which identifier family a key was derived from.
// Declaration order is specificity order, most specific first
type Kind int

const (
	// KindExplicit is an explicit area id or statistical key code field
	KindExplicit Kind = iota
	// KindNational is the national administrative code (N03_007 and friends)
	KindNational
	// KindLegacy is the zip-style code kept for older baselines
	KindLegacy
	// KindName is a normalized name, only used by name-fallback matching
	KindName
)

// String returns the stable label used in logs and the warning report
func (k Kind) String() string {
	switch k {
	case KindExplicit:
		return "explicit"
	case KindNational:
		return "national"
	case KindLegacy:
		return "legacy"
	case KindName:
		return "name"
	default:
		return "unknown"
	}
}

// MoreSpecific reports whether k outranks other when both match the same area
func (k Kind) MoreSpecific(other Kind) bool { return k < other }

// Attrs is a raw source attribute bag, values stringified but otherwise untouched
type Attrs = map[string]string

// Key is one canonicalized identifier with its provenance kind
type Key struct {
	ID   string
	Kind Kind
}

// candidate fields per kind, in lookup order within each kind
var (
	explicitFields = []string{"area_id", "KEY_CODE"}
	nationalFields = []string{"N03_007", "CITY_CODE"}
	legacyFields   = []string{"JCODE", "ZIP_CODE"}
)

// Normalizer derives canonical area keys from raw attribute bags
type Normalizer struct {
	text *normalize.Normalizer
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{text: normalize.New()} }

// Canon folds a raw identifier value into canonical form.
// Code punctuation (hyphens, interior spaces) is stripped so "252-0186" and
// "２５２ ０１８６" land on the same id
func (n *Normalizer) Canon(raw string) string {
	s := n.text.Normalize(raw)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// CanonName folds a display name for name-based matching, keeping word breaks
func (n *Normalizer) CanonName(raw string) string {
	return n.text.Normalize(raw)
}

// Candidates returns every non-empty identifier in the bag, priority order.
// The baseline matcher uses the full list; FromAttrs takes the head
func (n *Normalizer) Candidates(attrs Attrs) []Key {
	var out []Key
	collect := func(kind Kind, fields []string) {
		for _, f := range fields {
			v, ok := attrs[f]
			if !ok {
				continue
			}
			id := n.Canon(v)
			if id == "" {
				continue
			}
			out = append(out, Key{ID: id, Kind: kind})
			return // one key per kind, first populated field wins
		}
	}
	collect(KindExplicit, explicitFields)
	collect(KindNational, nationalFields)
	collect(KindLegacy, legacyFields)
	return out
}

// FromAttrs derives the single canonical area id for a source feature.
// Returns a MissingIdentifier error when no candidate field is populated
func (n *Normalizer) FromAttrs(attrs Attrs) (Key, error) {
	cands := n.Candidates(attrs)
	if len(cands) == 0 {
		return Key{}, perr.MissingIdentifierf("no identifier field populated in source attributes")
	}
	return cands[0], nil
}
