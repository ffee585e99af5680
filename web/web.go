package web

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/mcastillo/saberpro_db/config"
	"github.com/mcastillo/saberpro_db/store"
)

//go:embed index.html
var indexHTML []byte

// NewRouter wires the dashboard page and the JSON API.
func NewRouter(st *store.Store, cfg config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	h := NewDashboardHandler(st, cfg)

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /api/overview", WithLogging(h.Overview))
	mux.HandleFunc("GET /api/yearly-performance", WithLogging(h.YearlyPerformance))
	mux.HandleFunc("GET /api/gender-distribution", WithLogging(h.GenderDistribution))
	mux.HandleFunc("GET /api/socioeconomic", WithLogging(h.Socioeconomic))
	mux.HandleFunc("GET /api/technology-impact", WithLogging(h.TechnologyImpact))
	mux.HandleFunc("GET /api/score-distribution", WithLogging(h.ScoreDistribution))
	mux.HandleFunc("GET /api/correlation", WithLogging(h.Correlation))
	mux.HandleFunc("GET /api/performance-levels", WithLogging(h.PerformanceLevels))
	mux.HandleFunc("GET /api/gap-analysis", WithLogging(h.GapAnalysis))
	mux.HandleFunc("GET /api/background", WithLogging(h.Background))
	mux.HandleFunc("GET /api/tuition", WithLogging(h.Tuition))
	mux.HandleFunc("GET /api/work-hours", WithLogging(h.WorkHours))
	mux.HandleFunc("GET /api/periods", WithLogging(h.Periods))
	mux.HandleFunc("GET /api/temporal-patterns", WithLogging(h.TemporalPatterns))

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})

	return mux
}

// NewServer builds the HTTP server for the dashboard on the configured port.
func NewServer(st *store.Store, cfg config.Config) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(st, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.QueryTimeout + 5*time.Second,
	}
}
