// Package repo provides the scan run repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	perr "kaucja/internal/platform/errors"
	"kaucja/internal/platform/logger"
	"kaucja/internal/platform/store"
	"kaucja/internal/services/scan/domain"
)

// rowChunk keeps a single INSERT comfortably under the wire limit on
// bind parameters
const rowChunk = 1000

// PG persists scan runs to postgres
type PG struct {
	q store.RowQuerier
}

// NewPG constructs a postgres-backed recorder
func NewPG(q store.RowQuerier) *PG { return &PG{q: q} }

// RecordRun writes the run header into scan_runs and returns its id
func (r *PG) RecordRun(ctx context.Context, in domain.Input, res domain.Result) (uuid.UUID, error) {
	const q = `
		INSERT INTO scan_runs (id, root, include_unmatched, files_scanned, files_failed)
		VALUES ($1, $2, $3, $4, $5)`

	id := uuid.New()
	if _, err := r.q.Exec(ctx, q, id, in.Root, in.All, res.FilesScanned, res.FilesFailed); err != nil {
		return uuid.Nil, perr.FromPostgres(err, "insert scan run")
	}
	return id, nil
}

// RecordRows writes detail rows into packaging_rows in chunks.
// Returns number of rows written (after ON CONFLICT DO NOTHING)
func (r *PG) RecordRows(ctx context.Context, runID uuid.UUID, rows []domain.DetailRow) (int, error) {
	written := 0
	for len(rows) > 0 {
		n := len(rows)
		if n > rowChunk {
			n = rowChunk
		}
		w, err := r.insertChunk(ctx, runID, rows[:n])
		if err != nil {
			return written, err
		}
		written += w
		rows = rows[n:]
	}
	return written, nil
}

func (r *PG) insertChunk(ctx context.Context, runID uuid.UUID, rows []domain.DetailRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO packaging_rows
		(run_id, location, printer, file, doc_number, doc_ts,
		name, quantity, unit_value, total, source) VALUES `)

	args := make([]any, 0, len(rows)*11)
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*11 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9, base+10)

		args = append(args,
			runID, row.Location, row.Printer, row.File, int64(row.DocNumber), row.Timestamp,
			row.Name, row.Quantity.String(), row.UnitValue.String(), row.Total.String(), row.Source,
		)
	}
	// Idempotent for re-runs over the same archive
	sb.WriteString(` ON CONFLICT DO NOTHING`)

	tag, err := r.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "insert packaging rows")
	}
	return int(tag.RowsAffected()), nil
}

// chColumns is the column order of the analytics mirror table
var chColumns = []string{
	"run_id", "location", "printer", "file", "doc_number", "doc_ts",
	"name", "quantity", "unit_value", "total", "source",
}

// Recorder is the composite recorder: postgres is the system of record,
// clickhouse an optional analytics mirror whose failures never fail the run
type Recorder struct {
	pg  *PG
	ch  store.Clickhouse
	log *logger.Logger
}

// NewRecorder constructs a Recorder; ch may be nil
func NewRecorder(q store.RowQuerier, ch store.Clickhouse) *Recorder {
	return &Recorder{
		pg:  NewPG(q),
		ch:  ch,
		log: logger.Named("scan.repo"),
	}
}

// RecordRun implements domain.RecorderPort
func (r *Recorder) RecordRun(ctx context.Context, in domain.Input, res domain.Result) (uuid.UUID, error) {
	return r.pg.RecordRun(ctx, in, res)
}

// RecordRows implements domain.RecorderPort
func (r *Recorder) RecordRows(ctx context.Context, runID uuid.UUID, rows []domain.DetailRow) (int, error) {
	written, err := r.pg.RecordRows(ctx, runID, rows)
	if err != nil {
		return written, err
	}

	if r.ch != nil && len(rows) > 0 {
		batch := make([][]any, 0, len(rows))
		for _, row := range rows {
			batch = append(batch, []any{
				runID.String(), row.Location, row.Printer, row.File, int64(row.DocNumber), row.Timestamp,
				row.Name, row.Quantity.String(), row.UnitValue.String(), row.Total.String(), row.Source,
			})
		}
		if err := r.ch.Insert(ctx, "packaging_rows", chColumns, batch); err != nil {
			r.log.Warn().Err(err).Str("run_id", runID.String()).Msg("clickhouse mirror failed")
		}
	}
	return written, nil
}

var _ domain.RecorderPort = (*Recorder)(nil)
