//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"kaucja/internal/platform/store"
	"kaucja/internal/services/scan/domain"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

const testSchema = `
	CREATE TABLE scan_runs (
		id                UUID PRIMARY KEY,
		root              TEXT NOT NULL,
		include_unmatched BOOLEAN NOT NULL DEFAULT FALSE,
		files_scanned     INT NOT NULL,
		files_failed      INT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE packaging_rows (
		run_id     UUID NOT NULL REFERENCES scan_runs(id),
		location   TEXT NOT NULL,
		printer    TEXT NOT NULL,
		file       TEXT NOT NULL,
		doc_number BIGINT NOT NULL,
		doc_ts     TIMESTAMPTZ,
		name       TEXT NOT NULL,
		quantity   NUMERIC NOT NULL,
		unit_value NUMERIC NOT NULL,
		total      NUMERIC NOT NULL,
		source     TEXT NOT NULL,
		UNIQUE (run_id, file, doc_number, name, total)
	);
`

func TestRecorder_Integration_RunAndRows(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	if _, err := s.PG.Exec(ctx, testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	rec := NewRecorder(s.PG, nil)

	in := domain.Input{Root: "/archive", All: true}
	res := domain.Result{FilesScanned: 3, FilesFailed: 1}
	runID, err := rec.RecordRun(ctx, in, res)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == uuid.Nil {
		t.Fatal("run id not returned")
	}

	rows := []domain.DetailRow{
		{
			Location: "LODZ", Printer: "P01", File: "LODZ/P01/0001.bin",
			DocNumber: 101, Timestamp: time.Now().UTC(),
			Name:     "kaucja szkło",
			Quantity: decimal.RequireFromString("1"), UnitValue: decimal.RequireFromString("1.00"),
			Total: decimal.RequireFromString("1.00"), Source: "structured",
		},
		{
			Location: "LODZ", Printer: "P01", File: "LODZ/P01/0002.bin",
			DocNumber: 102, Timestamp: time.Now().UTC(),
			Name:     "kaucja szkło",
			Quantity: decimal.RequireFromString("1"), UnitValue: decimal.RequireFromString("1.00"),
			Total: decimal.RequireFromString("-1.00"), Source: "structured",
		},
	}

	n, err := rec.RecordRows(ctx, runID, rows)
	if err != nil {
		t.Fatalf("RecordRows: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}

	// re-running the same rows is a no-op under ON CONFLICT DO NOTHING
	n, err = rec.RecordRows(ctx, runID, rows)
	if err != nil {
		t.Fatalf("RecordRows (rerun): %v", err)
	}
	if n != 0 {
		t.Fatalf("rerun wrote %d rows, want 0", n)
	}

	var count int
	if err := s.PG.QueryRow(ctx,
		`SELECT count(*) FROM packaging_rows WHERE run_id = $1`, runID).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("stored rows = %d, want 2", count)
	}

	var sum string
	if err := s.PG.QueryRow(ctx,
		`SELECT COALESCE(sum(total), 0)::text FROM packaging_rows WHERE run_id = $1`, runID).Scan(&sum); err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != "0.00" && sum != "0" {
		t.Fatalf("sum = %s, want zero", sum)
	}
}
