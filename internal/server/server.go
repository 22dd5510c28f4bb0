// Package server exposes the loaded table and the conversion table over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/litescript/ls-epoch/internal/metrics"
	"github.com/litescript/ls-epoch/internal/state"
	"github.com/litescript/ls-epoch/internal/timescale"
)

// Server serves the HTTP API.
type Server struct {
	mgr      *state.Manager
	provider timescale.RotationProvider
	log      *zap.Logger
	mux      *chi.Mux
	srv      *http.Server
}

// New builds a server listening on addr. Conversions read offsets from mgr
// through a counting provider registered with reg.
func New(addr string, mgr *state.Manager, reg *prometheus.Registry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		mgr:      mgr,
		provider: metrics.NewProvider(mgr, reg),
		log:      log,
		mux:      chi.NewRouter(),
	}

	s.mux.Use(chimw.RequestID)
	s.mux.Use(chimw.Recoverer)
	s.mux.Use(s.accessLog)

	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Get("/v1/eop", s.handleEOP)
	s.mux.Get("/v1/convert", s.handleConvert)
	s.mux.Get("/v1/table", s.handleTable)
	s.mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the listening address.
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("http listening", zap.String("addr", s.srv.Addr))
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleEOP(w http.ResponseWriter, r *http.Request) {
	mjd, err := queryMJD(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	scale := strings.ToUpper(r.URL.Query().Get("scale"))
	if scale == "" {
		scale = timescale.UTC{}.Name()
	}

	table := s.mgr.Table()
	if table == nil {
		writeError(w, http.StatusNotFound, "no table loaded")
		return
	}

	rec, ok, err := table.LookupMJD(scale, mjd)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no data for MJD %v %s", mjd, scale))
		return
	}
	writeJSON(w, http.StatusOK, ExportRecord(rec))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	conv, ok := timescale.Lookup(from, to)
	if !ok {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("no conversion from %q to %q (scales: %s)", from, to, strings.Join(timescale.Scales(), ", ")))
		return
	}
	mjd, err := queryMJD(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, cal, ok := conv.ApplyMJD(mjd, s.provider)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no leap second data for MJD %v", mjd))
		return
	}
	writeJSON(w, http.StatusOK, ConvertExport{
		From:     conv.From,
		To:       conv.To,
		Fixed:    conv.Fixed,
		MJDIn:    mjd,
		MJD:      out,
		Calendar: cal.Format(time.RFC3339Nano),
	})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ExportTable(s.mgr.Snapshot()))
}

func queryMJD(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("mjd")
	if raw == "" {
		return 0, errors.New("missing mjd parameter")
	}
	mjd, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(mjd) || math.IsInf(mjd, 0) {
		return 0, fmt.Errorf("invalid mjd %q", raw)
	}
	return mjd, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = WriteJSON(w, v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
