// Package service holds the in-memory assignment state for one operator session
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/paulmach/orb/geojson"

	"depotmap/internal/core/depot"
	perr "depotmap/internal/platform/errors"
	"depotmap/internal/platform/logger"
	"depotmap/internal/services/assign/domain"
	recdom "depotmap/internal/services/reconcile/domain"
)

// Service serves and mutates the reconciled collection.
// One operator, one session: mutations are last-write-wins, the lock only
// guards against the server's own concurrent requests
type Service struct {
	mu   sync.RWMutex
	res  *recdom.Result
	pack *depot.Pack
	byID map[string]*recdom.AdminArea
}

// New constructs the service over a reconciled result
func New(pack *depot.Pack, res *recdom.Result) *Service {
	s := &Service{
		res:  res,
		pack: pack,
		byID: make(map[string]*recdom.AdminArea, len(res.Areas)),
	}
	for _, a := range res.Areas {
		s.byID[a.AreaID] = a
	}
	return s
}

// Collection returns the annotated FeatureCollection in input order
func (s *Service) Collection() *geojson.FeatureCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res.Collection()
}

// Summary returns the per-depot breakdown
func (s *Service) Summary() domain.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := domain.Summary{Total: len(s.res.Areas)}
	counts := map[string]int{}
	for _, a := range s.res.Areas {
		if a.InScope {
			sum.InScope++
		} else {
			sum.OutOfScope++
		}
		if a.DepotCode == "" {
			sum.Unassigned++
			continue
		}
		counts[a.DepotCode]++
	}
	for _, d := range s.pack.Depots {
		sum.ByDepot = append(sum.ByDepot, domain.DepotCount{
			Code:  d.Code,
			Name:  d.Name,
			Count: counts[d.Code],
		})
	}
	return sum
}

// Reassign sets the depot on one area.
// Out-of-scope areas are immutable, their baseline value is frozen
func (s *Service) Reassign(ctx context.Context, areaID, depotCode string) (domain.AreaRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[areaID]
	if !ok {
		return domain.AreaRow{}, perr.WithRef(perr.Newf(perr.ErrorCodeNotFound, "area %q not found", areaID), areaID)
	}
	if !a.InScope {
		return domain.AreaRow{}, perr.WithRef(
			perr.ImmutableAreaf("area %q is out of scope, assignment is frozen", areaID),
			areaID,
		)
	}
	d, ok := s.pack.ByCode(depotCode)
	if !ok {
		return domain.AreaRow{}, perr.WithRef(
			perr.Newf(perr.ErrorCodeInvalidArgument, "depot code %q is not canonical", depotCode),
			"depot_code",
		)
	}

	a.DepotCode = d.Code
	a.DepotName = d.Name

	logger.C(ctx).Info().
		Str("area_id", areaID).
		Str("depot_code", d.Code).
		Msg("area reassigned")

	return rowOf(a), nil
}

// Depots returns the canonical depot set with pins
func (s *Service) Depots() []domain.DepotInfo {
	out := make([]domain.DepotInfo, 0, len(s.pack.Depots))
	for _, d := range s.pack.Depots {
		out = append(out, domain.DepotInfo{Code: d.Code, Name: d.Name, Lat: d.Lat, Lon: d.Lon})
	}
	return out
}

// Report returns the warning report from the last regeneration
func (s *Service) Report() recdom.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res.Report
}

// ExportCSV writes one row per feature, input collection order, reflecting
// current in-memory assignments
func (s *Service) ExportCSV(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"area_id", "area_name", "municipality", "depot_code", "depot_name"}); err != nil {
		return fmt.Errorf("assign: write csv header: %w", err)
	}
	for _, a := range s.res.Areas {
		row := []string{a.AreaID, a.AreaName, a.Municipality, a.DepotCode, a.DepotName}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("assign: write csv row %s: %w", a.AreaID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func rowOf(a *recdom.AdminArea) domain.AreaRow {
	return domain.AreaRow{
		AreaID:       a.AreaID,
		AreaName:     a.AreaName,
		Municipality: a.Municipality,
		DepotCode:    a.DepotCode,
		DepotName:    a.DepotName,
		InScope:      a.InScope,
		Granularity:  string(a.Granularity),
	}
}
