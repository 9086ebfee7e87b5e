package fund

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/SynTaxOp/Stonks/internal/models"
)

// RenderPerformanceChart renders the monthly performance series as a PNG line
// chart. Three series: current value (blue solid), invested amount (gray
// dashed) and benchmark value (amber solid).
func (s *Service) RenderPerformanceChart(ctx context.Context, userID string, fundID int) ([]byte, error) {
	series, err := s.PerformanceSeries(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}
	return renderMonthlyChart(series)
}

func renderMonthlyChart(points []models.MonthlyPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	valueY := make([]float64, len(points))
	investedY := make([]float64, len(points))
	benchmarkY := make([]float64, len(points))

	for i, p := range points {
		t, err := time.Parse("January 2006", p.Month)
		if err != nil {
			return nil, fmt.Errorf("bad month label %q: %w", p.Month, err)
		}
		xValues[i] = t
		valueY[i] = p.TotalValue
		investedY[i] = p.TotalInvested
		benchmarkY[i] = p.ValueBenchmark
	}

	valueSeries := chart.TimeSeries{
		Name: "Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	}

	investedSeries := chart.TimeSeries{
		Name: "Invested",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: investedY,
	}

	benchmarkSeries := chart.TimeSeries{
		Name: "Benchmark",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("f59e0b"), // amber-500
			StrokeWidth: 1.5,
		},
		XValues: xValues,
		YValues: benchmarkY,
	}

	graph := chart.Chart{
		Title:  "Fund Performance",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			valueSeries,
			investedSeries,
			benchmarkSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
