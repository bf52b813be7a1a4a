package domain

import "context"

// ReaderPort reads persisted packaging rows
type ReaderPort interface {
	// Detail returns one page of rows plus the total row count for the filter
	Detail(ctx context.Context, in DetailInput) ([]DetailRow, int, error)

	// Aggregate returns the summary buckets for the filter
	Aggregate(ctx context.Context, in AggregateInput) ([]AggregateRow, error)
}
