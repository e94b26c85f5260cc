package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter serves the metrics registry on /metrics and the run status as JSON on /status
func NewRouter(m *Metrics, s *Status) http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Report()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return r
}

/*
Serve listens on addr until ctx is done, then shuts the server down. The
listener is bound before Serve returns, so the actual address is known even
for port 0.
*/
func Serve(ctx context.Context, addr string, h http.Handler, log *logrus.Entry) (bound net.Addr, done <-chan error, err error) {
	var (
		ln  net.Listener
		srv = &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
		ch  = make(chan error, 1)
	)
	if ln, err = net.Listen("tcp", addr); err != nil {
		return
	}
	bound = ln.Addr()
	log.WithField("addr", bound.String()).Info("monitor listening")
	go func() {
		serr := srv.Serve(ln)
		if errors.Is(serr, http.ErrServerClosed) {
			serr = nil
		}
		ch <- serr
	}()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	done = ch
	return
}
