package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretYearly(t *testing.T) {
	points := []YearlyPoint{
		{Year: 2018, Average: 100},
		{Year: 2019, Average: 90},
		{Year: 2020, Average: 120},
	}
	text := interpretYearly("English", points)
	assert.Contains(t, text, "rose 20.0%")
	assert.Contains(t, text, "between 2018 and 2020")
	assert.Contains(t, text, "best year was 2020")
	assert.Contains(t, text, "worst 2019")

	falling := []YearlyPoint{{Year: 2018, Average: 100}, {Year: 2019, Average: 80}}
	assert.Contains(t, interpretYearly("English", falling), "fell 20.0%")

	assert.Empty(t, interpretYearly("English", points[:1]))
}

func TestInterpretGender(t *testing.T) {
	text := interpretGender([]GenderBreakdown{
		{Gender: "F", Composite: 155},
		{Gender: "M", Composite: 150},
	})
	assert.Contains(t, text, "Gender F")
	assert.Contains(t, text, "5.0")

	assert.Empty(t, interpretGender([]GenderBreakdown{{Gender: "F"}}))
}

func TestSocioeconomicReportInterpretation(t *testing.T) {
	low := scoredRow(2018, 130)
	low.stratum = "Estrato 1"
	high := scoredRow(2018, 190)
	high.stratum = "Estrato 6"

	svc := newTestService(t, []testRow{low, high})
	report, err := svc.SocioeconomicReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "Estrato 1", report.Groups[0].Group)
	assert.Contains(t, report.Interpretation, "Estrato 6")
	assert.Contains(t, report.Interpretation, "gap of 60.0")
}

func TestTechnologyReportInterpretation(t *testing.T) {
	with := scoredRow(2018, 180)
	without := scoredRow(2018, 140)
	without.internet = "No"
	without.computer = "No"

	svc := newTestService(t, []testRow{with, without})
	report, err := svc.TechnologyReport(context.Background())
	require.NoError(t, err)
	assert.Contains(t, report.Interpretation, "40.0 more")
}

func TestYearlyReport(t *testing.T) {
	svc := newTestService(t, []testRow{
		scoredRow(2018, 100),
		scoredRow(2019, 150),
	})
	report, err := svc.YearlyReport(context.Background(), "mod_ingles_punt")
	require.NoError(t, err)
	assert.Equal(t, "English", report.Label)
	assert.Len(t, report.Points, 2)
	assert.Contains(t, report.Interpretation, "rose 50.0%")
}
