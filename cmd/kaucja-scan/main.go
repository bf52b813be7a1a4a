// Command kaucja-scan walks an archive of journal files, extracts packaging
// transactions and prints (or persists) the detail and aggregate reports.
package main

import (
	"context"
	"flag"
	"os"

	"kaucja/internal/core/normalize"
	"kaucja/internal/core/packaging"
	"kaucja/internal/platform/config"
	"kaucja/internal/platform/logger"
	"kaucja/internal/platform/store"
	"kaucja/internal/report"

	scandom "kaucja/internal/services/scan/domain"
	scanrepo "kaucja/internal/services/scan/repo"
	scansvc "kaucja/internal/services/scan/service"
)

func main() {
	var (
		fRoot      = flag.String("root", ".", "archive root to scan for .BIN journals")
		fAggregate = flag.Bool("aggregate", false, "print the aggregate report instead of the detail rows")
		fAll       = flag.Bool("all", false, "include unmatched candidate lines in the detail output")
		fCSV       = flag.Bool("csv", false, "emit CSV instead of an aligned table")
		fXLSX      = flag.String("xlsx", "", "write an XLSX workbook (Detail + Aggregate sheets) to this path")
		fWorkers   = flag.Int("workers", 4, "parallel file workers")
		fPersist   = flag.Bool("persist", false, "record the run and its detail rows in the datastore")
	)
	flag.Parse()

	l := logger.Get()

	vocab, err := packaging.LoadVocab()
	if err != nil {
		l.Panic().Err(err).Msg("vocab load failed")
	}
	ext := packaging.NewExtractor(vocab, normalize.New())

	var recorder scandom.RecorderPort
	if *fPersist {
		root := config.New()
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

		st, err := store.Open(context.Background(), store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayBool("ENABLED", false),
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "kaucja",
				ClientTag:  "scan",
			},
		}, store.WithLogger(*l))
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		recorder = scanrepo.NewRecorder(st.PG, st.CH)
	}

	svc := scansvc.New(ext, recorder, scansvc.Config{Workers: *fWorkers})

	res, err := svc.Run(context.Background(), scandom.Input{
		Root:    *fRoot,
		Workers: *fWorkers,
		All:     *fAll,
		Persist: *fPersist,
	})
	if err != nil {
		l.Panic().Err(err).Msg("scan failed")
	}

	if *fXLSX != "" {
		if err := report.WriteXLSX(*fXLSX, res.Details, res.Aggregates); err != nil {
			l.Panic().Err(err).Str("path", *fXLSX).Msg("xlsx export failed")
		}
	}

	switch {
	case *fAggregate && *fCSV:
		err = report.WriteAggregateCSV(os.Stdout, res.Aggregates)
	case *fAggregate:
		err = report.WriteAggregateTable(os.Stdout, res.Aggregates)
	case *fCSV:
		err = report.WriteDetailCSV(os.Stdout, res.Details)
	default:
		err = report.WriteDetailTable(os.Stdout, res.Details)
	}
	if err != nil {
		l.Panic().Err(err).Msg("report write failed")
	}

	l.Info().
		Int("files_scanned", res.FilesScanned).
		Int("files_failed", res.FilesFailed).
		Int("details", len(res.Details)).
		Int("aggregates", len(res.Aggregates)).
		Msg("scan complete")
}
