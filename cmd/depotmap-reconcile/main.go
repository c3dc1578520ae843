package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"depotmap/internal/modkit"
	"depotmap/internal/modkit/module"
	"depotmap/internal/platform/config"
	"depotmap/internal/platform/logger"

	recmod "depotmap/internal/services/reconcile/module"
	recsvc "depotmap/internal/services/reconcile/service"
)

// sourceList accumulates repeatable -source flags.
// Accepted forms: name=path (estat-town schema) or name=schema=path
type sourceList []recmod.SourceSpec

func (s *sourceList) String() string {
	parts := make([]string, 0, len(*s))
	for _, spec := range *s {
		parts = append(parts, fmt.Sprintf("%s=%s=%s", spec.Name, spec.Schema, spec.Path))
	}
	return strings.Join(parts, ",")
}

func (s *sourceList) Set(v string) error {
	parts := strings.SplitN(v, "=", 3)
	switch len(parts) {
	case 2:
		*s = append(*s, recmod.SourceSpec{Name: parts[0], Schema: "estat-town", Path: parts[1]})
	case 3:
		*s = append(*s, recmod.SourceSpec{Name: parts[0], Schema: parts[1], Path: parts[2]})
	default:
		return fmt.Errorf("want name=path or name=schema=path, got %q", v)
	}
	return nil
}

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	var sources sourceList
	var (
		reference = flag.String("reference", "", "reference boundary GeoJSON (required)")
		baselinep = flag.String("baseline", "", "baseline assignment CSV (required)")
		out       = flag.String("out", "", "output FeatureCollection path")
		report    = flag.String("report", "", "warning report path")
		workers   = flag.Int("workers", 4, "parallel source loads (>=1)")
		dryRun    = flag.Bool("dry-run", false, "reconcile but do not write outputs")
	)
	flag.Var(&sources, "source", "fine boundary source, name=path or name=schema=path (repeatable)")
	flag.Parse()

	if *reference == "" || *baselinep == "" {
		log.Fatal("-reference and -baseline are required")
	}

	// Pass CLI flags into DEPOT_RECONCILE_* so the module reads its own config
	mustSetEnv("DEPOT_RECONCILE_REFERENCE", *reference)
	mustSetEnv("DEPOT_RECONCILE_BASELINE", *baselinep)
	mustSetEnv("DEPOT_RECONCILE_OUT", *out)
	mustSetEnv("DEPOT_RECONCILE_REPORT", *report)
	mustSetEnv("DEPOT_RECONCILE_WORKERS", strconv.Itoa(*workers))

	root := config.New()
	rc := root.Prefix("DEPOT_RECONCILE_")
	l := logger.Get()

	deps := modkit.Deps{
		Log: l,
		Cfg: root,
	}

	// MustPath fails loudly with the offending path before any work starts
	rm, err := recmod.New(deps, recmod.Inputs{
		ReferencePath: rc.MustPath("REFERENCE"),
		Sources:       sources,
		BaselinePath:  rc.MustPath("BASELINE"),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("reconcile wiring failed")
	}
	module.Register(rm.Name(), rm.Ports())

	res, err := rm.Runner().Run(context.Background())
	if err != nil {
		l.Fatal().Err(err).Msg("reconciliation aborted")
	}

	opts := recmod.FromConfig(root)
	if *dryRun {
		l.Info().
			Str("run_id", res.RunID).
			Int("areas", res.Report.AreaCount).
			Int("warnings", len(res.Report.Warnings)).
			Msg("dry run, outputs not written")
		return
	}

	if err := recsvc.WriteOutputs(res, opts.OutPath, opts.ReportPath); err != nil {
		l.Fatal().Err(err).Msg("writing outputs failed")
	}
	l.Info().
		Str("run_id", res.RunID).
		Str("out", opts.OutPath).
		Str("report", opts.ReportPath).
		Msg("reconciliation written")
}
