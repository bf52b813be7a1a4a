// Command kaucja-fetch mirrors a fiscal printer's journal directory into the
// local archive over FSP, optionally resuming from the Postgres fetch ledger.
package main

import (
	"context"
	"flag"
	"time"

	"kaucja/internal/adapters/fsp"
	"kaucja/internal/platform/config"
	"kaucja/internal/platform/logger"
	"kaucja/internal/platform/store"

	fetchdom "kaucja/internal/services/fetch/domain"
	fetchrepo "kaucja/internal/services/fetch/repo"
	fetchsvc "kaucja/internal/services/fetch/service"
)

func main() {
	var (
		fAddr       = flag.String("addr", "", "printer address, host:port (FSP over UDP)")
		fLocation   = flag.String("location", "", "location label for the archive tree")
		fRoot       = flag.String("root", ".", "archive root to save journals under")
		fStartDir   = flag.String("start-dir", "EJ0", "journal directory on the device")
		fStartIndex = flag.Int("start-index", -1, "first document index to fetch; -1 walks everything (or resumes from the ledger)")
		fTimeout    = flag.Duration("timeout", 5*time.Second, "per-request device timeout")
		fLedger     = flag.Bool("ledger", false, "record the run in Postgres and resume from the last fetched index")
	)
	flag.Parse()

	l := logger.Get()
	if *fAddr == "" || *fLocation == "" {
		l.Panic().Msg("must provide -addr and -location")
	}

	client, err := fsp.Dial(fsp.Config{Addr: *fAddr, Timeout: *fTimeout})
	if err != nil {
		l.Panic().Err(err).Str("addr", *fAddr).Msg("device dial failed")
	}
	defer func() {
		if err := client.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close device session")
		}
	}()

	var ledger fetchdom.LedgerPort
	if *fLedger {
		root := config.New()
		pgCfg := root.Prefix("SERVICE_PGSQL_")

		st, err := store.Open(context.Background(), store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
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
		ledger = fetchrepo.NewPG(st.PG)
	}

	svc := fetchsvc.New(fetchsvc.NewDevice(client), ledger)

	res, err := svc.Run(context.Background(), fetchdom.Input{
		Addr:       *fAddr,
		Location:   *fLocation,
		Root:       *fRoot,
		StartDir:   *fStartDir,
		StartIndex: *fStartIndex,
	})
	if err != nil {
		l.Panic().Err(err).Msg("fetch failed")
	}

	l.Info().
		Str("model", res.Medium.Model).
		Str("prefix", res.Medium.Prefix).
		Int("found", res.Found).
		Int("saved", res.Saved).
		Int("skipped", res.Skipped).
		Int("last_index", res.LastIndex).
		Msg("fetch complete")
}
