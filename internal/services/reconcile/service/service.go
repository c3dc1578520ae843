// Package service implements the reconciliation pipeline: multi-source
// loading, identifier normalization, fallback resolution, baseline matching,
// scope marking, and the final consistency checks
package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"depotmap/internal/adapters/ingest/baseline"
	"depotmap/internal/adapters/ingest/boundary"
	"depotmap/internal/core/areakey"
	"depotmap/internal/core/depot"
	perr "depotmap/internal/platform/errors"
	"depotmap/internal/platform/logger"
	"depotmap/internal/services/reconcile/domain"
)

// Config holds reconciliation tuning
type Config struct {
	// Workers bounds parallel fine-source loading; <=0 -> 1
	Workers int
}

// Service runs one regeneration over the configured inputs
type Service struct {
	Reference boundary.Source
	Fine      []boundary.Source
	Baseline  []baseline.Record
	Pack      *depot.Pack
	Keys      *areakey.Normalizer
	Cfg       Config
}

// New constructs the reconciliation service
func New(ref boundary.Source, fine []boundary.Source, rows []baseline.Record, pack *depot.Pack, cfg Config) *Service {
	return &Service{
		Reference: ref,
		Fine:      fine,
		Baseline:  rows,
		Pack:      pack,
		Keys:      areakey.New(),
		Cfg:       cfg,
	}
}

// Run executes the full pipeline.
// Non-fatal conditions are collected into the report; only structural
// soundness failures (duplicate area ids, coverage gaps) abort the run
func (s *Service) Run(ctx context.Context) (*domain.Result, error) {
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)

	var warns []error

	// reference first, it defines the target territory
	refRecs, refWarns, err := s.Reference.Load(ctx)
	if err != nil {
		return nil, err
	}
	warns = append(warns, refWarns...)

	units, unitWarns := buildUnits(s.Keys, refRecs)
	warns = append(warns, unitWarns...)

	fineRecs, fineWarns, err := s.loadFine(ctx)
	if err != nil {
		return nil, err
	}
	warns = append(warns, fineWarns...)

	areas, normWarns := s.normalizeFine(fineRecs)
	warns = append(warns, normWarns...)

	// merge order is source order, output order is sorted area id, so
	// parallel load scheduling never shows up in the output
	sort.Slice(areas, func(i, j int) bool { return areas[i].AreaID < areas[j].AreaID })
	if err := checkDuplicates(areas); err != nil {
		return nil, err
	}

	fallbacks, parents, err := resolveFallback(s.Keys, units, areas)
	if err != nil {
		return nil, err
	}
	areas = append(areas, fallbacks...)
	sort.Slice(areas, func(i, j int) bool { return areas[i].AreaID < areas[j].AreaID })
	if err := checkDuplicates(areas); err != nil {
		return nil, err
	}
	if err := checkCoverage(units, areas, parents); err != nil {
		return nil, err
	}

	m := newMatcher(s.Keys, s.Pack, s.Baseline)
	for _, a := range areas {
		warns = append(warns, m.assign(a, parents[a.AreaID])...)
	}

	markScope(s.Pack, s.Keys, areas)

	sources := make([]string, 0, len(s.Fine)+1)
	sources = append(sources, s.Reference.Name())
	for _, src := range s.Fine {
		sources = append(sources, src.Name())
	}

	res := &domain.Result{
		RunID:  runID,
		Areas:  areas,
		Report: buildReport(runID, sources, areas, warns),
	}

	log.Info().
		Int("areas", len(areas)).
		Int("fallbacks", res.Report.FallbackCount).
		Int("out_of_scope", res.Report.OutOfScopeCount).
		Int("unassigned", res.Report.UnassignedCount).
		Int("warnings", len(res.Report.Warnings)).
		Msg("reconciliation complete")

	return res, nil
}

// loadFine loads every fine source, bounded by Cfg.Workers.
// Sources are independent and read-only, so parallelism is pure throughput;
// results are collected per source index to keep merge order fixed
func (s *Service) loadFine(ctx context.Context) ([]boundary.Record, []error, error) {
	workers := s.Cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	recsBy := make([][]boundary.Record, len(s.Fine))
	warnsBy := make([][]error, len(s.Fine))
	errsBy := make([]error, len(s.Fine))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, src := range s.Fine {
		wg.Add(1)
		go func(i int, src boundary.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			recsBy[i], warnsBy[i], errsBy[i] = src.Load(ctx)
		}(i, src)
	}
	wg.Wait()

	var recs []boundary.Record
	var warns []error
	for i := range s.Fine {
		if errsBy[i] != nil {
			return nil, nil, errsBy[i]
		}
		recs = append(recs, recsBy[i]...)
		warns = append(warns, warnsBy[i]...)
	}
	return recs, warns, nil
}

// normalizeFine derives canonical area ids for fine records.
// Records with no usable identifier are excluded and warned, never dropped silently
func (s *Service) normalizeFine(recs []boundary.Record) ([]*domain.AdminArea, []error) {
	var areas []*domain.AdminArea
	var warns []error
	for _, r := range recs {
		cands := s.Keys.Candidates(r.Attrs)
		if len(cands) == 0 {
			warns = append(warns, perr.WithRef(
				perr.MissingIdentifierf("source %s record %q has no identifier field", r.Source, r.Name),
				r.Source,
			))
			continue
		}
		areas = append(areas, &domain.AdminArea{
			AreaID:       cands[0].ID,
			AreaName:     r.Name,
			Municipality: r.Municipality,
			Geometry:     r.Geometry,
			Granularity:  domain.GranularityFine,
			Key:          cands[0],
			Keys:         cands,
		})
	}
	return areas, warns
}

// checkDuplicates is fatal: two features sharing an area id means
// overlapping delivery responsibility in the output
func checkDuplicates(areas []*domain.AdminArea) error {
	for i := 1; i < len(areas); i++ {
		if areas[i].AreaID == areas[i-1].AreaID {
			return perr.WithRef(
				perr.DuplicateAreaIDf("area id %q produced by %q and %q", areas[i].AreaID, areas[i-1].AreaName, areas[i].AreaName),
				areas[i].AreaID,
			)
		}
	}
	return nil
}

// checkCoverage is fatal: every reference unit must correspond to at least
// one output feature after fallback resolution
func checkCoverage(units []*refUnit, areas []*domain.AdminArea, parents map[string]*refUnit) error {
	covered := make(map[string]bool, len(units))
	for _, a := range areas {
		if u := parents[a.AreaID]; u != nil {
			covered[u.key.ID] = true
		}
	}
	for _, u := range units {
		if !covered[u.key.ID] {
			return perr.WithRef(
				perr.CoverageGapf("reference unit %q (%s) has no output feature", u.key.ID, u.municipality),
				u.key.ID,
			)
		}
	}
	return nil
}
