package service

import (
	"context"
	"testing"

	"github.com/paulmach/orb"

	"depotmap/internal/adapters/ingest/baseline"
	"depotmap/internal/adapters/ingest/boundary"
	"depotmap/internal/core/areakey"
	"depotmap/internal/core/depot"
	perr "depotmap/internal/platform/errors"
	"depotmap/internal/platform/testkit"
	"depotmap/internal/services/reconcile/domain"
)

// stubSource feeds canned records into the pipeline
type stubSource struct {
	name  string
	recs  []boundary.Record
	warns []error
	err   error
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Load(context.Context) ([]boundary.Record, []error, error) {
	return s.recs, s.warns, s.err
}

func poly(x, y float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x, y}, {x + 0.1, y}, {x + 0.1, y + 0.1}, {x, y},
	}}
}

func refRec(code, muni string, x, y float64) boundary.Record {
	return boundary.Record{
		Source:       "n03-reference",
		Attrs:        areakey.Attrs{"N03_007": code},
		Name:         muni,
		Municipality: muni,
		Geometry:     poly(x, y),
	}
}

func townRec(key, name, muni string, x, y float64) boundary.Record {
	return boundary.Record{
		Source:       "towns",
		Attrs:        areakey.Attrs{"KEY_CODE": key},
		Name:         name,
		Municipality: muni,
		Geometry:     poly(x, y),
	}
}

func newTestService(t *testing.T, ref *stubSource, fine []boundary.Source, rows []baseline.Record) *Service {
	t.Helper()
	pack, err := depot.Load()
	testkit.MustNoErr(t, err)
	return New(ref, fine, rows, pack, Config{Workers: 2})
}

func areaByID(t *testing.T, res *domain.Result, id string) *domain.AdminArea {
	t.Helper()
	for _, a := range res.Areas {
		if a.AreaID == id {
			return a
		}
	}
	t.Fatalf("no area %q in result", id)
	return nil
}

func warningCodes(res *domain.Result) map[string]int {
	return res.Report.WarningCounts
}

func TestRun_FallbackSubstitution(t *testing.T) {
	// the fine source covers 藤沢市 towns but omits 相模原市緑区 entirely;
	// baseline assigns the municipality to 相模原
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14151", "相模原市緑区", 139.2, 35.6),
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
	}}
	rows := []baseline.Record{
		{Key: "14151", DepotLabel: "相模原", Line: 1},
		{Key: "142050010", DepotLabel: "藤沢", Line: 2},
	}

	res, err := newTestService(t, ref, []boundary.Source{fine}, rows).Run(context.Background())
	testkit.MustNoErr(t, err)

	missing := areaByID(t, res, "14151")
	if missing.Granularity != domain.GranularityFallbackCity {
		t.Fatalf("granularity = %q, want fallback_city", missing.Granularity)
	}
	if missing.DepotCode != "SGM" {
		t.Fatalf("depot = %q, want SGM", missing.DepotCode)
	}
	if !missing.InScope {
		t.Fatal("fallback unit in an operational municipality should be in scope")
	}

	town := areaByID(t, res, "142050010")
	if town.Granularity != domain.GranularityFine || town.DepotCode != "FUJ" {
		t.Fatalf("town = %q/%q, want fine/FUJ", town.Granularity, town.DepotCode)
	}

	// the partially covered municipality is not itself duplicated as fallback
	for _, a := range res.Areas {
		if a.AreaID == "14205" {
			t.Fatal("covered municipality must not get a fallback feature")
		}
	}
	if res.Report.FallbackCount != 1 {
		t.Fatalf("fallback count = %d, want 1", res.Report.FallbackCount)
	}
}

func TestRun_AmbiguousBaselineNationalWins(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14151", "相模原市緑区", 139.2, 35.6),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		{
			Source:       "towns",
			Attrs:        areakey.Attrs{"N03_007": "14151", "ZIP_CODE": "252-0186"},
			Name:         "相模原市緑区",
			Municipality: "相模原市緑区",
			Geometry:     poly(139.2, 35.6),
		},
	}}
	rows := []baseline.Record{
		{Key: "252-0186", DepotLabel: "藤沢", Line: 1},
		{Key: "14151", DepotLabel: "相模原", Line: 2},
	}

	res, err := newTestService(t, ref, []boundary.Source{fine}, rows).Run(context.Background())
	testkit.MustNoErr(t, err)

	a := areaByID(t, res, "14151")
	if a.DepotCode != "SGM" {
		t.Fatalf("depot = %q, want SGM (national code match outranks legacy)", a.DepotCode)
	}
	if warningCodes(res)["AmbiguousBaselineMatch"] != 1 {
		t.Fatalf("warning counts = %v, want one AmbiguousBaselineMatch", warningCodes(res))
	}
}

func TestRun_AgreeingRowsAreNotAmbiguous(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
	}}
	// the town row and its municipality row agree, coarse/fine duplicates of one fact
	rows := []baseline.Record{
		{Key: "142050010", DepotLabel: "藤沢", Line: 1},
		{Key: "14205", DepotLabel: "FUJ", Line: 2},
	}

	res, err := newTestService(t, ref, []boundary.Source{fine}, rows).Run(context.Background())
	testkit.MustNoErr(t, err)
	if n := warningCodes(res)["AmbiguousBaselineMatch"]; n != 0 {
		t.Fatalf("got %d ambiguity warnings for agreeing rows, want 0", n)
	}
	if areaByID(t, res, "142050010").DepotCode != "FUJ" {
		t.Fatal("town should be assigned FUJ")
	}
}

func TestRun_MissingIdentifierExcludedNotFatal(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
		{
			Source:       "towns",
			Attrs:        areakey.Attrs{"S_NAME": "名無し"},
			Name:         "名無し",
			Municipality: "藤沢市",
			Geometry:     poly(139.46, 35.32),
		},
	}}

	res, err := newTestService(t, ref, []boundary.Source{fine}, nil).Run(context.Background())
	testkit.MustNoErr(t, err)

	if len(res.Areas) != 1 {
		t.Fatalf("got %d areas, want 1 (identifierless record excluded)", len(res.Areas))
	}
	if warningCodes(res)["MissingIdentifier"] != 1 {
		t.Fatalf("warning counts = %v, want one MissingIdentifier", warningCodes(res))
	}
}

func TestRun_DuplicateAreaIDFatal(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
		townRec("142050010", "片瀬東", "藤沢市", 139.46, 35.32),
	}}

	_, err := newTestService(t, ref, []boundary.Source{fine}, nil).Run(context.Background())
	testkit.MustCode(t, err, perr.ErrorCodeDuplicateAreaID)
}

func TestRun_UnknownDepotLabelLeavesUnassigned(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
	}}
	rows := []baseline.Record{{Key: "142050010", DepotLabel: "海老名", Line: 1}}

	res, err := newTestService(t, ref, []boundary.Source{fine}, rows).Run(context.Background())
	testkit.MustNoErr(t, err)

	a := areaByID(t, res, "142050010")
	if a.DepotCode != "" {
		t.Fatalf("depot = %q, want unassigned (unknown labels are never guessed)", a.DepotCode)
	}
	if warningCodes(res)["UnknownDepotLabel"] != 1 {
		t.Fatalf("warning counts = %v, want one UnknownDepotLabel", warningCodes(res))
	}
}

func TestRun_ScopeMarking(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14205", "藤沢市", 139.4, 35.3),     // operational, unassigned -> in scope
		refRec("14401", "小田原市", 139.1, 35.25),   // outside operational set -> out of scope
		refRec("14999", "所属未定地", 139.6, 35.2),   // reference-flagged -> out of scope
	}}

	res, err := newTestService(t, ref, nil, nil).Run(context.Background())
	testkit.MustNoErr(t, err)

	if !areaByID(t, res, "14205").InScope {
		t.Fatal("operational municipality should be in scope even when unassigned")
	}
	if areaByID(t, res, "14401").InScope {
		t.Fatal("non-operational unassigned municipality should be out of scope")
	}
	if areaByID(t, res, "14999").InScope {
		t.Fatal("unassigned-territory marker should be out of scope")
	}
	if res.Report.OutOfScopeCount != 2 {
		t.Fatalf("out of scope count = %d, want 2", res.Report.OutOfScopeCount)
	}
}

func TestRun_OutputInvariants(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14151", "相模原市緑区", 139.2, 35.6),
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
		townRec("142050020", "鵠沼", "藤沢市", 139.46, 35.32),
	}}
	rows := []baseline.Record{
		{Key: "藤沢市", DepotLabel: "藤沢", Line: 1},
		{Key: "14151", DepotLabel: "相模原", Line: 2},
	}

	svc := newTestService(t, ref, []boundary.Source{fine}, rows)
	res, err := svc.Run(context.Background())
	testkit.MustNoErr(t, err)

	// area ids pairwise distinct and sorted
	seen := map[string]bool{}
	for i, a := range res.Areas {
		if seen[a.AreaID] {
			t.Fatalf("duplicate area id %q", a.AreaID)
		}
		seen[a.AreaID] = true
		if i > 0 && res.Areas[i-1].AreaID > a.AreaID {
			t.Fatalf("areas not sorted: %q before %q", res.Areas[i-1].AreaID, a.AreaID)
		}
	}

	// depot codes only canonical or empty
	pack, _ := depot.Load()
	for _, a := range res.Areas {
		if a.DepotCode == "" {
			continue
		}
		if _, ok := pack.ByCode(a.DepotCode); !ok {
			t.Fatalf("area %q carries non-canonical depot %q", a.AreaID, a.DepotCode)
		}
	}

	// name-based municipality row reached both towns
	if areaByID(t, res, "142050010").DepotCode != "FUJ" || areaByID(t, res, "142050020").DepotCode != "FUJ" {
		t.Fatal("municipality-level baseline row should assign every town inside it")
	}

	// deterministic across runs
	again, err := svc.Run(context.Background())
	testkit.MustNoErr(t, err)
	if len(again.Areas) != len(res.Areas) {
		t.Fatalf("rerun produced %d areas, want %d", len(again.Areas), len(res.Areas))
	}
	for i := range res.Areas {
		if res.Areas[i].AreaID != again.Areas[i].AreaID || res.Areas[i].DepotCode != again.Areas[i].DepotCode {
			t.Fatalf("rerun diverged at %d: %+v vs %+v", i, res.Areas[i], again.Areas[i])
		}
	}
}

func TestRun_GeometryWarningsCarried(t *testing.T) {
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{
		name: "towns",
		recs: []boundary.Record{
			townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
		},
		warns: []error{perr.GeometryParsef("towns feature 3: bad ring")},
	}

	res, err := newTestService(t, ref, []boundary.Source{fine}, nil).Run(context.Background())
	testkit.MustNoErr(t, err)
	if warningCodes(res)["GeometryParseError"] != 1 {
		t.Fatalf("warning counts = %v, want one GeometryParseError", warningCodes(res))
	}
}

func TestRun_NameRowIgnoredWhenCodeMatches(t *testing.T) {
	// the town has a code-keyed baseline row; a conflicting free-text row
	// naming its municipality must not be consulted, so no ambiguity
	ref := &stubSource{name: "n03-reference", recs: []boundary.Record{
		refRec("14205", "藤沢市", 139.4, 35.3),
	}}
	fine := &stubSource{name: "towns", recs: []boundary.Record{
		townRec("142050010", "片瀬", "藤沢市", 139.45, 35.31),
	}}
	rows := []baseline.Record{
		{Key: "142050010", DepotLabel: "藤沢", Line: 1},
		{Key: "藤沢市", DepotLabel: "横浜港北", Line: 2},
	}

	res, err := newTestService(t, ref, []boundary.Source{fine}, rows).Run(context.Background())
	testkit.MustNoErr(t, err)

	town := areaByID(t, res, "142050010")
	if town.DepotCode != "FUJ" {
		t.Fatalf("depot = %q, want FUJ from the code-keyed row", town.DepotCode)
	}
	if n := warningCodes(res)["AmbiguousBaselineMatch"]; n != 0 {
		t.Fatalf("got %d ambiguity warnings, want none when a code key matched", n)
	}
}

func TestResolveFallback_NoGeometryIsFatal(t *testing.T) {
	keys := areakey.New()
	rec := refRec("14151", "相模原市緑区", 139.2, 35.6)
	rec.Geometry = nil

	units, warns := buildUnits(keys, []boundary.Record{rec})
	if len(warns) != 0 || len(units) != 1 {
		t.Fatalf("buildUnits = %d units, %d warns", len(units), len(warns))
	}

	_, _, err := resolveFallback(keys, units, nil)
	testkit.MustCode(t, err, perr.ErrorCodeCoverageGap)
	if !perr.Fatal(perr.CodeOf(err)) {
		t.Fatal("coverage gap must be fatal")
	}
}

func TestCheckCoverage_UnparentedUnitIsFatal(t *testing.T) {
	keys := areakey.New()
	units, _ := buildUnits(keys, []boundary.Record{
		refRec("14151", "相模原市緑区", 139.2, 35.6),
		refRec("14205", "藤沢市", 139.4, 35.3),
	})

	// one output feature parented to 14205 only; 14151 has no feature
	a := &domain.AdminArea{AreaID: "142050010", Municipality: "藤沢市"}
	parents := map[string]*refUnit{a.AreaID: units[1]}

	err := checkCoverage(units, []*domain.AdminArea{a}, parents)
	testkit.MustCode(t, err, perr.ErrorCodeCoverageGap)

	// covering the missing unit clears the failure
	b := &domain.AdminArea{AreaID: "14151", Municipality: "相模原市緑区"}
	parents[b.AreaID] = units[0]
	testkit.MustNoErr(t, checkCoverage(units, []*domain.AdminArea{a, b}, parents))
}
