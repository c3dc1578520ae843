package service

import (
	"time"

	perr "depotmap/internal/platform/errors"
	"depotmap/internal/services/reconcile/domain"
)

// buildReport folds the collected warnings and area stats into the report
// emitted beside the collection
func buildReport(runID string, sources []string, areas []*domain.AdminArea, warns []error) domain.Report {
	rep := domain.Report{
		RunID:         runID,
		GeneratedAt:   time.Now().UTC(),
		Sources:       sources,
		AreaCount:     len(areas),
		WarningCounts: map[string]int{},
		Warnings:      make([]domain.Warning, 0, len(warns)),
	}

	for _, a := range areas {
		if a.Granularity == domain.GranularityFallbackCity {
			rep.FallbackCount++
		}
		if !a.InScope {
			rep.OutOfScopeCount++
		}
		if a.DepotCode == "" {
			rep.UnassignedCount++
		}
	}

	for _, w := range warns {
		wire := perr.WireFrom(w)
		name := wire.Code.String()
		rep.WarningCounts[name]++
		rep.Warnings = append(rep.Warnings, domain.Warning{
			Code:    name,
			Message: wire.Message,
			Ref:     wire.Ref,
		})
	}

	return rep
}
