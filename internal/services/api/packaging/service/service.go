// Package service implements the packaging read service
package service

import (
	"context"
	"time"

	perr "kaucja/internal/platform/errors"
	"kaucja/internal/services/api/packaging/domain"
)

const defaultPageSize = 50

// Service validates inputs and delegates to the reader
type Service struct {
	Reader domain.ReaderPort
}

// New constructs a new packaging service
func New(reader domain.ReaderPort) *Service { return &Service{Reader: reader} }

// Detail returns one page of detail rows plus the total count
func (s *Service) Detail(ctx context.Context, in domain.DetailInput) ([]domain.DetailRow, int, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 {
		in.PageSize = defaultPageSize
	}
	if err := checkWindow(in.Since, in.Until); err != nil {
		return nil, 0, err
	}
	return s.Reader.Detail(ctx, in)
}

// Aggregate returns the summary buckets
func (s *Service) Aggregate(ctx context.Context, in domain.AggregateInput) ([]domain.AggregateRow, error) {
	if err := checkWindow(in.Since, in.Until); err != nil {
		return nil, err
	}
	return s.Reader.Aggregate(ctx, in)
}

func checkWindow(since, until *time.Time) error {
	if since != nil && until != nil && until.Before(*since) {
		return perr.InvalidArgf("until precedes since")
	}
	return nil
}
