// Package http provides http transport for packaging queries
package http

import (
	stdhttp "net/http"

	httpx "kaucja/internal/platform/net/http"
	"kaucja/internal/platform/net/http/bind"
	"kaucja/internal/services/api/packaging/domain"
	svc "kaucja/internal/services/api/packaging/service"
)

// Register mounts packaging endpoints on the given router
func Register(r httpx.Router, s *svc.Service) {
	h := &handlers{svc: s}
	r.Post("/detail", httpx.Handle(h.detail))
	httpx.PostJSON[domain.AggregateInput](r, "/aggregate", h.aggregate)
}

type handlers struct{ svc *svc.Service }

// detail returns a paginated window of persisted deposit transactions
func (h *handlers) detail(r *stdhttp.Request) httpx.Response {
	in, err := bind.ParseJSON[domain.DetailInput](r)
	if err != nil {
		return httpx.Error(err)
	}
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 {
		in.PageSize = 50
	}
	rows, total, err := h.svc.Detail(r.Context(), in)
	if err != nil {
		return httpx.Error(err)
	}
	if rows == nil {
		rows = []domain.DetailRow{}
	}
	return httpx.List(rows, total, in.Page, in.PageSize)
}

// aggregate returns the summary buckets for the filter
func (h *handlers) aggregate(r *stdhttp.Request, in domain.AggregateInput) (any, error) {
	rows, err := h.svc.Aggregate(r.Context(), in)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.AggregateRow{}
	}
	return rows, nil
}
