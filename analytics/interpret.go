package analytics

import (
	"context"
	"fmt"

	"github.com/mcastillo/saberpro_db/models"
)

// Report types pair a section's data with the sentence the dashboard prints
// under the chart.

// YearlyReport is the yearly trend of one score plus its reading.
type YearlyReport struct {
	Score          string        `json:"score"`
	Label          string        `json:"label"`
	Points         []YearlyPoint `json:"points"`
	Interpretation string        `json:"interpretation"`
}

// YearlyReport builds the yearly-performance section for one score.
func (s *Service) YearlyReport(ctx context.Context, scoreCol string) (YearlyReport, error) {
	points, err := s.YearlyPerformance(ctx, scoreCol)
	if err != nil {
		return YearlyReport{}, err
	}
	return YearlyReport{
		Score:          scoreCol,
		Label:          models.ScoreLabels[scoreCol],
		Points:         points,
		Interpretation: interpretYearly(models.ScoreLabels[scoreCol], points),
	}, nil
}

func interpretYearly(label string, points []YearlyPoint) string {
	if len(points) < 2 {
		return ""
	}
	first, last := points[0], points[len(points)-1]
	change := 0.0
	if first.Average != 0 {
		change = (last.Average - first.Average) / first.Average * 100
	}

	best, worst := points[0], points[0]
	for _, p := range points[1:] {
		if p.Average > best.Average {
			best = p
		}
		if p.Average < worst.Average {
			worst = p
		}
	}

	direction := "rose"
	if change < 0 {
		direction = "fell"
		change = -change
	}
	return fmt.Sprintf("%s %s %.1f%% between %d and %d; the best year was %d (%.1f) and the worst %d (%.1f).",
		label, direction, change, first.Year, last.Year,
		best.Year, best.Average, worst.Year, worst.Average)
}

// GenderReport is the per-gender breakdown plus its reading.
type GenderReport struct {
	Groups         []GenderBreakdown `json:"groups"`
	Interpretation string            `json:"interpretation"`
}

// GenderReport builds the gender-distribution section.
func (s *Service) GenderReport(ctx context.Context) (GenderReport, error) {
	groups, err := s.GenderDistribution(ctx)
	if err != nil {
		return GenderReport{}, err
	}
	return GenderReport{Groups: groups, Interpretation: interpretGender(groups)}, nil
}

func interpretGender(groups []GenderBreakdown) string {
	if len(groups) < 2 {
		return ""
	}
	a, b := groups[0], groups[1]
	diff := a.Composite - b.Composite
	lead, trail := a, b
	if diff < 0 {
		lead, trail = b, a
		diff = -diff
	}
	return fmt.Sprintf("Gender %s averages %.1f composite points more than gender %s (%.1f vs %.1f).",
		lead.Gender, diff, trail.Gender, lead.Composite, trail.Composite)
}

// GroupReport is a labelled-group section plus its reading.
type GroupReport struct {
	Groups         []GroupAverage `json:"groups"`
	Interpretation string         `json:"interpretation"`
}

// SocioeconomicReport builds the stratum section. The reading compares the
// highest and lowest strata present.
func (s *Service) SocioeconomicReport(ctx context.Context) (GroupReport, error) {
	groups, err := s.SocioeconomicAverages(ctx)
	if err != nil {
		return GroupReport{}, err
	}
	report := GroupReport{Groups: groups}
	if len(groups) >= 2 {
		lowest, highest := groups[0], groups[len(groups)-1]
		report.Interpretation = fmt.Sprintf(
			"Students in %s average %.1f composite points; those in %s average %.1f, a gap of %.1f.",
			highest.Group, highest.Composite, lowest.Group, lowest.Composite,
			highest.Composite-lowest.Composite)
	}
	return report, nil
}

// TechnologyReport is the technology-access section plus its reading.
type TechnologyReport struct {
	Groups         []TechnologyGroup `json:"groups"`
	Interpretation string            `json:"interpretation"`
}

// TechnologyReport builds the technology-impact section. The reading compares
// full access against no access.
func (s *Service) TechnologyReport(ctx context.Context) (TechnologyReport, error) {
	groups, err := s.TechnologyImpact(ctx)
	if err != nil {
		return TechnologyReport{}, err
	}

	report := TechnologyReport{Groups: groups}
	var full, none *TechnologyGroup
	for i := range groups {
		g := &groups[i]
		if g.HasInternet == "Si" && g.HasComputer == "Si" {
			full = g
		}
		if g.HasInternet == "No" && g.HasComputer == "No" {
			none = g
		}
	}
	if full != nil && none != nil {
		report.Interpretation = fmt.Sprintf(
			"Students with internet and a computer at home average %.1f composite points, %.1f more than students with neither (%.1f).",
			full.Composite, full.Composite-none.Composite, none.Composite)
	}
	return report, nil
}
