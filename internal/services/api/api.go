// Package api provides the HTTP API over persisted packaging rows
package api

import (
	stdhttp "net/http"
	"time"

	"kaucja/internal/platform/config"
	perr "kaucja/internal/platform/errors"
	httpx "kaucja/internal/platform/net/http"
	"kaucja/internal/platform/net/middleware"
	"kaucja/internal/platform/store"

	metahttp "kaucja/internal/services/api/meta/http"
	pkghttp "kaucja/internal/services/api/packaging/http"
	pkgrepo "kaucja/internal/services/api/packaging/repo"
	pkgsvc "kaucja/internal/services/api/packaging/service"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableProfiler bool
}

// Mount mounts the API routes onto the given router
func Mount(r httpx.Router, opt Options) {
	r.Use(middleware.Defaults()...)
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}))
	r.Use(middleware.RecoverJSON)

	httpx.MountProfiler(r, "/debug", opt.EnableProfiler)

	packaging := pkgsvc.New(pkgrepo.NewPG(opt.Store.PG))

	r.Route("/packaging", func(sub httpx.Router) {
		pkghttp.Register(sub, packaging)
	})
	r.Route("/meta", func(sub httpx.Router) {
		metahttp.Register(sub, metahttp.Deps{
			ServiceName: "kaucja-api",
			StartedAt:   time.Now().UTC(),
			PG:          opt.Store.PG,
			CH:          opt.Store.CH,
		})
	})

	// healthz is the flat probe the deploy tooling hits
	r.Get("/healthz", httpx.Handle(func(req *stdhttp.Request) httpx.Response {
		if err := opt.Store.Guard(req.Context()); err != nil {
			return httpx.Error(perr.Unavailablef("store not ready: %s", err))
		}
		return httpx.OK(map[string]string{"status": "ok"})
	}))
}
