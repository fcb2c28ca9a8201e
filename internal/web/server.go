// Package web serves the launch dashboard over HTTP.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/figure"
	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/reactive"
	"github.com/verte-zerg/launchdash/internal/view"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8050"

const shutdownTimeout = 5 * time.Second

var errBadRange = errors.New("invalid range parameter")

// Server renders the dashboard for one dataset.
type Server struct {
	ds      *dataset.Dataset
	layout  view.Layout
	logger  *slog.Logger
	figOpts figure.Options
}

// New returns a Server for ds. A nil logger uses slog.Default.
func New(ds *dataset.Dataset, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ds:      ds,
		layout:  view.NewLayout(ds),
		logger:  logger,
		figOpts: figure.DefaultOptions,
	}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart/pie.svg", s.handlePieSVG)
	mux.HandleFunc("GET /chart/scatter.svg", s.handleScatterSVG)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/pie", s.handlePie)
	mux.HandleFunc("GET /api/scatter", s.handleScatter)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return withRequestLog(s.logger, mux)
}

// Run serves the dashboard on addr until ctx is cancelled, then shuts the
// listener down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("dashboard listening", "addr", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down dashboard")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// evaluate applies the query's controls to a fresh dashboard and returns
// the resulting charts.
func (s *Server) evaluate(q url.Values) (reactive.State, model.PieChart, model.ScatterChart, error) {
	d := reactive.New(s.ds)
	if site := q.Get("site"); site != "" {
		if err := d.SetSite(site); err != nil {
			return reactive.State{}, model.PieChart{}, model.ScatterChart{}, err
		}
	}
	r, err := parseRange(q, d.State().Range)
	if err != nil {
		return reactive.State{}, model.PieChart{}, model.ScatterChart{}, err
	}
	if err := d.SetRange(r); err != nil {
		return reactive.State{}, model.PieChart{}, model.ScatterChart{}, err
	}

	var pie model.PieChart
	var scatter model.ScatterChart
	reactive.Wire(d,
		func(p model.PieChart) { pie = p },
		func(sc model.ScatterChart) { scatter = sc },
	)
	d.Refresh()
	return d.State(), pie, scatter, nil
}

func parseRange(q url.Values, def model.PayloadRange) (model.PayloadRange, error) {
	r := def
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"low", &r.Low}, {"high", &r.High}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return model.PayloadRange{}, fmt.Errorf("%w: %s=%q", errBadRange, p.name, raw)
		}
		*p.dst = v
	}
	return r, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := renderPage(&buf, s.layout); err != nil {
		s.logger.Error("render page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePieSVG(w http.ResponseWriter, r *http.Request) {
	_, pie, _, err := s.evaluate(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := figure.Pie(&buf, pie, s.figOpts); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSVG(w, buf.Bytes())
}

func (s *Server) handleScatterSVG(w http.ResponseWriter, r *http.Request) {
	st, _, scatter, err := s.evaluate(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := figure.Scatter(&buf, scatter, st.Range, s.figOpts); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSVG(w, buf.Bytes())
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.layout)
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	_, pie, _, err := s.evaluate(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pie)
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	_, _, scatter, err := s.evaluate(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scatter)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, reactive.ErrInvalidSite),
		errors.Is(err, reactive.ErrInvalidRange),
		errors.Is(err, errBadRange):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func writeSVG(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}
