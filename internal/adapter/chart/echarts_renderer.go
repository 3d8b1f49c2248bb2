package chart

import (
	"bytes"
	"fmt"

	"studypulse/internal/domain"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const dateLabelLayout = "2006-01-02 15:04"

// EchartsRenderer implements domain.ChartRenderer using go-echarts. The
// rendered output is a self-contained HTML snippet clients can embed.
type EchartsRenderer struct{}

// NewEchartsRenderer creates a new EchartsRenderer.
func NewEchartsRenderer() *EchartsRenderer {
	return &EchartsRenderer{}
}

// RenderScoreProgression renders a line chart of scores over time.
// Points are expected oldest first.
func (r *EchartsRenderer) RenderScoreProgression(points []domain.TrendPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no points to render")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Test Score Progression"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score (%)", Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	dates := make([]string, 0, len(points))
	scores := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date.Format(dateLabelLayout))
		scores = append(scores, opts.LineData{Value: p.Score})
	}

	line.SetXAxis(dates).
		AddSeries("score", scores).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render score progression chart: %w", err)
	}
	return buf.Bytes(), nil
}
