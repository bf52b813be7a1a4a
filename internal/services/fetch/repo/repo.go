// Package repo provides the fetch run ledger implementation
package repo

import (
	"context"

	"github.com/google/uuid"

	perr "kaucja/internal/platform/errors"
	"kaucja/internal/platform/store"
	"kaucja/internal/services/fetch/domain"
)

// PG persists fetch runs to postgres
type PG struct {
	q store.RowQuerier
}

// NewPG constructs a postgres-backed ledger
func NewPG(q store.RowQuerier) *PG { return &PG{q: q} }

// LastIndex implements domain.LedgerPort
func (r *PG) LastIndex(ctx context.Context, location, prefix string) (int, error) {
	const q = `
		SELECT COALESCE(MAX(last_index), -1)
		FROM fetch_runs
		WHERE location = $1 AND prefix = $2`

	var last int
	if err := r.q.QueryRow(ctx, q, location, prefix).Scan(&last); err != nil {
		return -1, perr.FromPostgres(err, "query fetch ledger")
	}
	return last, nil
}

// RecordRun implements domain.LedgerPort
func (r *PG) RecordRun(ctx context.Context, in domain.Input, res domain.Result) error {
	const q = `
		INSERT INTO fetch_runs
			(id, location, prefix, addr, start_index, found, saved, skipped, last_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q.Exec(ctx, q,
		uuid.New(), in.Location, res.Medium.Prefix, in.Addr,
		in.StartIndex, res.Found, res.Saved, res.Skipped, res.LastIndex,
	)
	return perr.FromPostgres(err, "insert fetch run")
}

var _ domain.LedgerPort = (*PG)(nil)
