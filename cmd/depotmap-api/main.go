// Package main is the depotmap API server entrypoint
//
// @title Depotmap Assignment API
// @version 1.0
// @description Serves reconciled administrative areas and depot assignments
// @BasePath /api/v1
package main

import (
	"context"

	"depotmap/internal/platform/config"
	"depotmap/internal/platform/logger"
	phttp "depotmap/internal/platform/net/http"

	"depotmap/internal/core/depot"
	"depotmap/internal/services/api"
	"depotmap/internal/services/assign/repo"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("DEPOTMAP_API_")
	l := logger.Get()

	collection := apiCfg.MayString("COLLECTION", "out/admin_areas.geojson")
	report := apiCfg.MayString("REPORT", "out/report.json")

	res, err := repo.Load(collection, report)
	if err != nil {
		l.Fatal().Err(err).Str("collection", collection).Msg("loading reconciled outputs failed")
	}
	l.Info().
		Str("run_id", res.RunID).
		Int("areas", len(res.Areas)).
		Msg("collection loaded")

	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config:        apiCfg,
		Logger:        l,
		Pack:          depot.MustLoad(),
		Result:        res,
		EnableSwagger: apiCfg.MayBool("SWAGGER", true),
	})

	l.Info().Str("addr", srv.Addr()).Msg("depotmap api listening")
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("api server failed")
	}
}
