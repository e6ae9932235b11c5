// Package gochart rasterizes dashboard aggregates with go-chart.
package gochart

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/banguela/school-admin/internal/core/domain"
)

const (
	barChartTitle = "Média Individual dos Estudantes"
	pieChartTitle = "Distribuição das Médias"
)

// Renderer draws bar and pie charts into in-memory PNG buffers sized for
// report embedding.
type Renderer struct {
	width  int
	height int
}

// New builds a renderer with logical dimensions scaled for raster quality.
// Zero or negative arguments fall back to 400x300 at 2x.
func New(width, height, scale int) *Renderer {
	if width <= 0 {
		width = 400
	}
	if height <= 0 {
		height = 300
	}
	if scale <= 0 {
		scale = 2
	}
	return &Renderer{width: width * scale, height: height * scale}
}

func (r *Renderer) RenderBar(entries []domain.ScoreEntry) (domain.ChartArtifact, error) {
	if len(entries) == 0 {
		return domain.ChartArtifact{}, domain.WrapError(domain.ErrValidation, "render bar chart", fmt.Errorf("no students registered"))
	}

	bars := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, chart.Value{Label: e.Label, Value: e.Value})
	}

	graph := chart.BarChart{
		Title:    barChartTitle,
		Width:    r.width,
		Height:   r.height,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 10},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return domain.ChartArtifact{}, domain.WrapError(domain.ErrComposition, "render bar chart", err)
	}

	return domain.ChartArtifact{
		Kind:  domain.ChartBar,
		Title: barChartTitle,
		Data:  append([]domain.ScoreEntry(nil), entries...),
		PNG:   buf.Bytes(),
	}, nil
}

func (r *Renderer) RenderPie(dist domain.BandDistribution) (domain.ChartArtifact, error) {
	data := []domain.ScoreEntry{
		{Label: string(domain.BandBelow), Value: float64(dist.Below)},
		{Label: string(domain.BandMiddle), Value: float64(dist.Middle)},
		{Label: string(domain.BandAbove), Value: float64(dist.Above)},
	}

	// go-chart refuses zero-valued slices; only draw the populated bands but
	// keep the full distribution as the artifact data.
	values := make([]chart.Value, 0, len(data))
	for _, d := range data {
		if d.Value > 0 {
			values = append(values, chart.Value{Label: d.Label, Value: d.Value})
		}
	}
	if len(values) == 0 {
		return domain.ChartArtifact{}, domain.WrapError(domain.ErrValidation, "render pie chart", fmt.Errorf("no students registered"))
	}

	graph := chart.PieChart{
		Title:  pieChartTitle,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return domain.ChartArtifact{}, domain.WrapError(domain.ErrComposition, "render pie chart", err)
	}

	return domain.ChartArtifact{
		Kind:  domain.ChartPie,
		Title: pieChartTitle,
		Data:  data,
		PNG:   buf.Bytes(),
	}, nil
}
