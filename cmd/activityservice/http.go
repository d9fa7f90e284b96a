package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"goa.design/clue/debug"
	"goa.design/clue/health"
	"goa.design/clue/log"
	goahttp "goa.design/goa/v3/http"

	"github.com/fitness-app/activityservice/activity"
)

func handleHTTPServer(ctx context.Context, addr string, repo activity.Repository, checker health.Checker, wg *sync.WaitGroup, errc chan error, dbg bool) {
	handler := newHandler(ctx, repo, checker, dbg)

	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: time.Second * 60}

	wg.Add(1)
	go func() {
		defer wg.Done()

		go func() {
			log.Printf(ctx, "HTTP server listening on %q", addr)
			errc <- srv.ListenAndServe()
		}()

		<-ctx.Done()
		log.Printf(ctx, "shutting down HTTP server at %q", addr)

		// Shutdown gracefully with a 30s timeout.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf(ctx, "failed to shutdown: %v", err)
		}
	}()
}

// newHandler builds the service mux: activity endpoints, health checks and,
// in debug mode, the runtime log level toggle.
func newHandler(ctx context.Context, repo activity.Repository, checker health.Checker, dbg bool) http.Handler {
	mux := goahttp.NewMuxer()
	if dbg {
		// Mount /debug endpoint to enable or disable debug logs at runtime.
		debug.MountDebugLogEnabler(debug.Adapt(mux))
	}
	mountActivityHandlers(mux, repo)
	healthHandler := health.Handler(checker)
	mux.Handle(http.MethodGet, "/healthz", healthHandler.ServeHTTP)
	mux.Handle(http.MethodGet, "/livez", healthHandler.ServeHTTP)

	for _, m := range activityMounts {
		log.Printf(ctx, "HTTP %q mounted on %s %s", m.name, m.verb, m.pattern)
	}

	var handler http.Handler = mux
	if dbg {
		// Log query and response bodies if debug logs are enabled.
		handler = debug.HTTP()(handler)
	}
	return log.HTTP(ctx)(handler)
}
