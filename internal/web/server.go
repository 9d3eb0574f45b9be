// Package web serves the portfolio history over HTTP: the latest report
// as JSON, a live SSE stream of persisted snapshots, and a minimal HTML
// page consuming both.
package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vadiminshakov/folio/internal/entity"
	"github.com/vadiminshakov/folio/internal/services/report"
	"golang.org/x/crypto/acme/autocert"
)

const snapshotPollInterval = 2 * time.Second

type snapshotReader interface {
	SnapshotsAfter(index uint64) ([]entity.SnapshotRecord, error)
	History(limit int) ([]entity.PortfolioSnapshot, error)
}

// Server exposes HTTP endpoints serving the HTML UI, snapshot JSON and
// an SSE stream.
type Server struct {
	Addr      string
	Store     snapshotReader
	TrendDays int
	SMAPeriod int
}

// NewServer creates a new web server instance.
func NewServer(addr string, store snapshotReader, trendDays, smaPeriod int) *Server {
	return &Server{Addr: addr, Store: store, TrendDays: trendDays, SMAPeriod: smaPeriod}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/snapshots/latest", s.handleLatest)
	mux.HandleFunc("/snapshots/history", s.handleHistory)
	mux.HandleFunc("/snapshots/trend", s.handleTrend)
	mux.HandleFunc("/snapshots/stream", s.handleStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates
// via ACME. It also starts an HTTP server on port 80 to handle ACME
// HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http (acme) server shutdown error: %v", err)
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("https server shutdown error: %v", err)
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http (acme) server error: %v", err)
		}
	}()

	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	if s.Store == nil {
		http.Error(w, "snapshot store not available", http.StatusServiceUnavailable)
		return
	}
	history, err := s.Store.History(1)
	if err != nil {
		http.Error(w, "failed to load snapshot", http.StatusInternalServerError)
		log.Printf("latest snapshot load: %v", err)
		return
	}
	if len(history) == 0 {
		http.Error(w, "no snapshots yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(history[0])
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	if s.Store == nil {
		http.Error(w, "snapshot store not available", http.StatusServiceUnavailable)
		return
	}
	history, err := s.Store.History(0)
	if err != nil {
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		log.Printf("history load: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(history)
}

func (s *Server) handleTrend(w http.ResponseWriter, _ *http.Request) {
	if s.Store == nil {
		http.Error(w, "snapshot store not available", http.StatusServiceUnavailable)
		return
	}
	history, err := s.Store.History(s.TrendDays)
	if err != nil {
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		log.Printf("trend history load: %v", err)
		return
	}
	trend, err := report.BuildTrend(history, s.SMAPeriod)
	if err != nil {
		http.Error(w, "not enough history for a trend", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(trend)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "snapshot store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send a comment heartbeat every 30s so proxies keep connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(snapshotPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendSnapshots := func() error {
		records, err := s.Store.SnapshotsAfter(lastIndex)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: snapshot\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendSnapshots(); err != nil {
		http.Error(w, "failed to load snapshots", http.StatusInternalServerError)
		log.Printf("snapshot stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendSnapshots(); err != nil {
				log.Printf("snapshot stream poll err: %v", err)
			}
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>folio</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
h1 { color: #7D56F4; }
table { border-collapse: collapse; margin-top: 1em; }
td, th { padding: 4px 12px; border-bottom: 1px solid #333; text-align: right; }
th { color: #888; }
.gain { color: #73F59F; }
.loss { color: #F56; }
</style>
</head>
<body>
<h1>folio</h1>
<div id="summary">waiting for snapshots…</div>
<table id="rows"></table>
<script>
const fmt = (v) => v == null ? "–" : Number(v).toFixed(2);
const es = new EventSource("/snapshots/stream");
es.addEventListener("snapshot", (e) => {
  const s = JSON.parse(e.data);
  const cls = Number(s.total_pnl) < 0 ? "loss" : "gain";
  document.getElementById("summary").innerHTML =
    s.date + " · invested " + fmt(s.total_investment) +
    " · value " + fmt(s.total_value) +
    " · P&L <span class='" + cls + "'>" + fmt(s.total_pnl) + " (" + fmt(s.total_pnl_percent) + "%)</span>";
  const rows = ["<tr><th>symbol</th><th>qty</th><th>price</th><th>P&L</th><th>P&L %</th></tr>"];
  for (const h of s.holdings) {
    if (h.current_price == null) {
      rows.push("<tr><td>" + h.symbol + "</td><td>" + h.quantity + "</td><td colspan=3>unpriced</td></tr>");
      continue;
    }
    const c = Number(h.pnl) < 0 ? "loss" : "gain";
    rows.push("<tr class='" + c + "'><td>" + h.symbol + "</td><td>" + h.quantity + "</td><td>" +
      fmt(h.current_price) + "</td><td>" + fmt(h.pnl) + "</td><td>" + fmt(h.pnl_percent) + "</td></tr>");
  }
  document.getElementById("rows").innerHTML = rows.join("");
});
</script>
</body>
</html>`
