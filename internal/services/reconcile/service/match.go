package service

import (
	"fmt"
	"sort"
	"strings"

	"depotmap/internal/adapters/ingest/baseline"
	"depotmap/internal/core/areakey"
	"depotmap/internal/core/depot"
	perr "depotmap/internal/platform/errors"
	"depotmap/internal/services/reconcile/domain"
)

// nameRow is a baseline row with its key prepared for name containment
type nameRow struct {
	rec  baseline.Record
	name string
}

// matcher joins baseline rows onto areas by key priority:
// explicit > national > legacy > name containment. Baseline rows may sit at a
// coarser granularity than the area (a municipality-level row assigns every
// town inside it), so the area's parent unit key participates too
type matcher struct {
	keys  *areakey.Normalizer
	pack  *depot.Pack
	byKey map[string][]baseline.Record
	names []nameRow
}

func newMatcher(keys *areakey.Normalizer, pack *depot.Pack, rows []baseline.Record) *matcher {
	m := &matcher{
		keys:  keys,
		pack:  pack,
		byKey: make(map[string][]baseline.Record, len(rows)),
	}
	for _, r := range rows {
		ck := keys.Canon(r.Key)
		m.byKey[ck] = append(m.byKey[ck], r)
		if name := keys.CanonName(r.Key); name != "" {
			m.names = append(m.names, nameRow{rec: r, name: name})
		}
	}
	return m
}

// match is one baseline row hit with the kind it matched through
type match struct {
	kind areakey.Kind
	rec  baseline.Record
}

// assign resolves and applies the baseline depot for one area.
// No match leaves the area explicitly unassigned; conflicting matches are
// resolved by key specificity and reported, never guessed silently
func (m *matcher) assign(a *domain.AdminArea, parent *refUnit) []error {
	matches := m.collect(a, parent)
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].kind != matches[j].kind {
			return matches[i].kind.MoreSpecific(matches[j].kind)
		}
		return matches[i].rec.Line < matches[j].rec.Line
	})
	chosen := matches[0]

	var warns []error
	if conflicting(m.pack, matches) {
		warns = append(warns, perr.WithRef(
			perr.AmbiguousBaselinef(
				"area %q matched %d baseline rows with conflicting depots, %s match (line %d) wins",
				a.AreaID, len(matches), chosen.kind, chosen.rec.Line,
			),
			a.AreaID,
		))
	}

	d, err := m.pack.Canonicalize(chosen.rec.DepotLabel)
	if err != nil {
		// unknown labels are reported and the area left unassigned, not guessed
		warns = append(warns, perr.WithRef(err, fmt.Sprintf("%s (baseline line %d)", a.AreaID, chosen.rec.Line)))
		return warns
	}
	a.DepotCode = d.Code
	a.DepotName = d.Name
	return warns
}

// collect gathers every baseline row matching the area, deduped by row line
// keeping the most specific kind each row matched through
func (m *matcher) collect(a *domain.AdminArea, parent *refUnit) []match {
	best := map[int]match{}
	add := func(kind areakey.Kind, recs []baseline.Record) {
		for _, r := range recs {
			if prev, ok := best[r.Line]; ok && prev.kind.MoreSpecific(kind) {
				continue
			}
			best[r.Line] = match{kind: kind, rec: r}
		}
	}

	for _, k := range a.Keys {
		add(k.Kind, m.byKey[k.ID])
	}
	if parent != nil {
		add(parent.key.Kind, m.byKey[parent.key.ID])
	}

	// name containment is a fallback, consulted only when no code key matched
	if len(best) == 0 {
		if muni := m.keys.CanonName(a.Municipality); muni != "" {
			for _, nr := range m.names {
				if strings.Contains(muni, nr.name) || strings.Contains(nr.name, muni) {
					add(areakey.KindName, []baseline.Record{nr.rec})
				}
			}
		}
	}

	out := make([]match, 0, len(best))
	for _, mt := range best {
		out = append(out, mt)
	}
	return out
}

// conflicting reports whether the matched rows resolve to different depots.
// Rows that agree are coarse/fine duplicates of the same fact, not ambiguity
func conflicting(pack *depot.Pack, matches []match) bool {
	if len(matches) < 2 {
		return false
	}
	seen := map[string]bool{}
	for _, mt := range matches {
		code := mt.rec.DepotLabel
		if d, err := pack.Canonicalize(mt.rec.DepotLabel); err == nil {
			code = d.Code
		}
		seen[code] = true
	}
	return len(seen) > 1
}
