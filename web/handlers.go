package web

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/mcastillo/saberpro_db/analytics"
	"github.com/mcastillo/saberpro_db/config"
	"github.com/mcastillo/saberpro_db/models"
	"github.com/mcastillo/saberpro_db/store"
)

// DashboardHandler answers the JSON API behind the dashboard tabs.
type DashboardHandler struct {
	svc *analytics.Service
	cfg config.Config
}

func NewDashboardHandler(st *store.Store, cfg config.Config) *DashboardHandler {
	return &DashboardHandler{svc: analytics.New(st), cfg: cfg}
}

// Health handles GET /health.
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// scoreParam resolves the ?score= query parameter, defaulting to quantitative
// reasoning. It reports false after writing a 400 if the value is not one of
// the four module scores.
func scoreParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	score := r.URL.Query().Get("score")
	if score == "" {
		return models.ScoreColumns[0], true
	}
	if !models.IsScoreColumn(score) {
		ErrorResponse(w, http.StatusBadRequest, "unknown score column")
		return "", false
	}
	return score, true
}

// degrade logs a store failure and answers with an empty payload. The page
// renders an empty chart instead of breaking the whole tab.
func degrade(w http.ResponseWriter, r *http.Request, err error, empty any) {
	slog.Error("dashboard query failed", "path", r.URL.Path, "error", err)
	JSONResponse(w, http.StatusOK, empty)
}

// Overview handles GET /api/overview.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.DatasetOverview(r.Context())
	if err != nil {
		degrade(w, r, err, analytics.Overview{Averages: map[string]float64{}})
		return
	}
	JSONResponse(w, http.StatusOK, ov)
}

// YearlyPerformance handles GET /api/yearly-performance?score=.
func (h *DashboardHandler) YearlyPerformance(w http.ResponseWriter, r *http.Request) {
	score, ok := scoreParam(w, r)
	if !ok {
		return
	}
	report, err := h.svc.YearlyReport(r.Context(), score)
	if err != nil {
		degrade(w, r, err, analytics.YearlyReport{Score: score, Points: []analytics.YearlyPoint{}})
		return
	}
	JSONResponse(w, http.StatusOK, report)
}

// GenderDistribution handles GET /api/gender-distribution.
func (h *DashboardHandler) GenderDistribution(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GenderReport(r.Context())
	if err != nil {
		degrade(w, r, err, analytics.GenderReport{Groups: []analytics.GenderBreakdown{}})
		return
	}
	JSONResponse(w, http.StatusOK, report)
}

// Socioeconomic handles GET /api/socioeconomic.
func (h *DashboardHandler) Socioeconomic(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.SocioeconomicReport(r.Context())
	if err != nil {
		degrade(w, r, err, analytics.GroupReport{Groups: []analytics.GroupAverage{}})
		return
	}
	JSONResponse(w, http.StatusOK, report)
}

// TechnologyImpact handles GET /api/technology-impact.
func (h *DashboardHandler) TechnologyImpact(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.TechnologyReport(r.Context())
	if err != nil {
		degrade(w, r, err, analytics.TechnologyReport{Groups: []analytics.TechnologyGroup{}})
		return
	}
	JSONResponse(w, http.StatusOK, report)
}

// ScoreDistribution handles GET /api/score-distribution?score=.
func (h *DashboardHandler) ScoreDistribution(w http.ResponseWriter, r *http.Request) {
	score, ok := scoreParam(w, r)
	if !ok {
		return
	}
	dist, err := h.svc.ScoreDistribution(r.Context(), score)
	if err != nil {
		degrade(w, r, err, analytics.Distribution{Score: score})
		return
	}
	JSONResponse(w, http.StatusOK, dist)
}

// Correlation handles GET /api/correlation. With x and y parameters it
// answers a single pair; without them it answers the full matrix.
func (h *DashboardHandler) Correlation(w http.ResponseWriter, r *http.Request) {
	x := r.URL.Query().Get("x")
	y := r.URL.Query().Get("y")
	if x != "" || y != "" {
		if !models.IsScoreColumn(x) || !models.IsScoreColumn(y) {
			ErrorResponse(w, http.StatusBadRequest, "unknown score column")
			return
		}
		c, err := h.svc.Correlate(r.Context(), x, y)
		if err != nil {
			degrade(w, r, err, analytics.Correlation{X: x, Y: y})
			return
		}
		JSONResponse(w, http.StatusOK, c)
		return
	}

	m, err := h.svc.CorrelationMatrix(r.Context())
	if err != nil {
		degrade(w, r, err, analytics.Matrix{Scores: models.ScoreColumns})
		return
	}
	JSONResponse(w, http.StatusOK, m)
}

// PerformanceLevels handles GET /api/performance-levels.
func (h *DashboardHandler) PerformanceLevels(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.PerformanceLevels(r.Context())
	if err != nil {
		degrade(w, r, err, []analytics.PerformanceLevel{})
		return
	}
	JSONResponse(w, http.StatusOK, out)
}

// GapAnalysis handles GET /api/gap-analysis?factor=.
func (h *DashboardHandler) GapAnalysis(w http.ResponseWriter, r *http.Request) {
	factor := r.URL.Query().Get("factor")
	if factor == "" {
		factor = analytics.FactorParentsEducation
	}
	if !slices.Contains(analytics.GapFactors, factor) {
		ErrorResponse(w, http.StatusBadRequest, "unknown gap factor")
		return
	}
	gap, err := h.svc.GapAnalysis(r.Context(), factor)
	if err != nil {
		degrade(w, r, err, analytics.Gap{Factor: factor})
		return
	}
	JSONResponse(w, http.StatusOK, gap)
}

// Background handles GET /api/background?score=.
func (h *DashboardHandler) Background(w http.ResponseWriter, r *http.Request) {
	score, ok := scoreParam(w, r)
	if !ok {
		return
	}
	cells, err := h.svc.EducationalBackground(r.Context(), score)
	if err != nil {
		degrade(w, r, err, []analytics.BackgroundCell{})
		return
	}
	JSONResponse(w, http.StatusOK, cells)
}

// Tuition handles GET /api/tuition.
func (h *DashboardHandler) Tuition(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.TuitionAnalysis(r.Context())
	if err != nil {
		degrade(w, r, err, []analytics.GroupAverage{})
		return
	}
	JSONResponse(w, http.StatusOK, out)
}

// WorkHours handles GET /api/work-hours.
func (h *DashboardHandler) WorkHours(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.WorkHoursAnalysis(r.Context())
	if err != nil {
		degrade(w, r, err, []analytics.GroupAverage{})
		return
	}
	JSONResponse(w, http.StatusOK, out)
}

// TemporalPatterns handles GET /api/temporal-patterns.
func (h *DashboardHandler) TemporalPatterns(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.TemporalPatterns(r.Context())
	if err != nil {
		degrade(w, r, err, analytics.TemporalReport{Periods: []analytics.PeriodAverages{}})
		return
	}
	JSONResponse(w, http.StatusOK, report)
}

// Periods handles GET /api/periods.
func (h *DashboardHandler) Periods(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.PeriodDistribution(r.Context())
	if err != nil {
		degrade(w, r, err, []analytics.PeriodCount{})
		return
	}
	JSONResponse(w, http.StatusOK, out)
}
