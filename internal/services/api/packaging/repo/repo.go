// Package repo provides the packaging read repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	perr "kaucja/internal/platform/errors"
	"kaucja/internal/platform/store"
	"kaucja/internal/services/api/packaging/domain"
)

// PG reads persisted packaging rows from postgres
type PG struct {
	q store.RowQuerier
}

// NewPG constructs a postgres-backed reader
func NewPG(q store.RowQuerier) *PG { return &PG{q: q} }

// detailFilters appends WHERE clauses shared by the detail and count queries
func detailFilters(sb *strings.Builder, args *[]any, in domain.DetailInput) {
	arg := func(v any) string { *args = append(*args, v); return fmt.Sprintf("$%d", len(*args)) }

	sb.WriteString(" WHERE TRUE")
	if in.Location != "" {
		sb.WriteString(" AND location = " + arg(in.Location))
	}
	if in.Printer != "" {
		sb.WriteString(" AND printer = " + arg(in.Printer))
	}
	if in.Name != "" {
		sb.WriteString(" AND name = " + arg(in.Name))
	}
	if in.Source != "" {
		sb.WriteString(" AND source = " + arg(in.Source))
	}
	if in.Since != nil {
		sb.WriteString(" AND doc_ts >= " + arg(*in.Since))
	}
	if in.Until != nil {
		sb.WriteString(" AND doc_ts < " + arg(*in.Until))
	}
}

// Detail implements domain.ReaderPort
func (r *PG) Detail(ctx context.Context, in domain.DetailInput) ([]domain.DetailRow, int, error) {
	var count strings.Builder
	var countArgs []any
	count.WriteString(`SELECT count(*) FROM packaging_rows`)
	detailFilters(&count, &countArgs, in)

	var total int
	if err := r.q.QueryRow(ctx, count.String(), countArgs...).Scan(&total); err != nil {
		return nil, 0, perr.FromPostgres(err, "count packaging rows")
	}

	var sb strings.Builder
	var args []any
	sb.WriteString(`
		SELECT location, printer, file, doc_number, doc_ts,
			name, quantity::text, unit_value::text, total::text, source
		FROM packaging_rows`)
	detailFilters(&sb, &args, in)
	sb.WriteString(" ORDER BY location, printer, file, doc_number, name")
	args = append(args, in.PageSize, (in.Page-1)*in.PageSize)
	fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "list packaging rows")
	}
	defer rows.Close()

	var out []domain.DetailRow
	for rows.Next() {
		var d domain.DetailRow
		if err := rows.Scan(
			&d.Location, &d.Printer, &d.File, &d.DocNumber, &d.Timestamp,
			&d.Name, &d.Quantity, &d.UnitValue, &d.Total, &d.Source,
		); err != nil {
			return nil, 0, perr.FromPostgres(err, "scan packaging row")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, perr.FromPostgres(err, "iterate packaging rows")
	}
	return out, total, nil
}

// Aggregate implements domain.ReaderPort. The buckets mirror the scan
// aggregator: zero totals count in rows only
func (r *PG) Aggregate(ctx context.Context, in domain.AggregateInput) ([]domain.AggregateRow, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT location, printer, name,
			count(*) AS rows,
			count(*) FILTER (WHERE total > 0) AS issued,
			count(*) FILTER (WHERE total < 0) AS returns,
			COALESCE(sum(total), 0)::text AS sum_total
		FROM packaging_rows
		WHERE source <> 'unmatched'`)
	if in.Location != "" {
		sb.WriteString(" AND location = " + arg(in.Location))
	}
	if in.Printer != "" {
		sb.WriteString(" AND printer = " + arg(in.Printer))
	}
	if in.Name != "" {
		sb.WriteString(" AND name = " + arg(in.Name))
	}
	if in.Since != nil {
		sb.WriteString(" AND doc_ts >= " + arg(*in.Since))
	}
	if in.Until != nil {
		sb.WriteString(" AND doc_ts < " + arg(*in.Until))
	}
	sb.WriteString(" GROUP BY location, printer, name ORDER BY location, printer, name")

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "aggregate packaging rows")
	}
	defer rows.Close()

	var out []domain.AggregateRow
	for rows.Next() {
		var a domain.AggregateRow
		if err := rows.Scan(&a.Location, &a.Printer, &a.Name, &a.Rows, &a.Issued, &a.Returns, &a.SumTotal); err != nil {
			return nil, perr.FromPostgres(err, "scan aggregate row")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "iterate aggregate rows")
	}
	return out, nil
}

var _ domain.ReaderPort = (*PG)(nil)
