// Package chart renders dashboard charts as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
)

var (
	colorPositive = drawing.ColorFromHex("16a34a") // green-600
	colorNegative = drawing.ColorFromHex("dc2626") // red-600
	colorValue    = drawing.ColorFromHex("2563eb") // blue-600
	colorCost     = drawing.ColorFromHex("9ca3af") // gray-400

	sliceColors = map[model.AssetType]drawing.Color{
		model.AssetTypeStock:      drawing.ColorFromHex("3b82f6"),
		model.AssetTypeMutualFund: drawing.ColorFromHex("10b981"),
		model.AssetTypeGold:       drawing.ColorFromHex("f59e0b"),
		model.AssetTypeEquity:     drawing.ColorFromHex("8b5cf6"),
		model.AssetTypeDebt:       drawing.ColorFromHex("64748b"),
		model.AssetTypeBonds:      drawing.ColorFromHex("ec4899"),
	}
)

// Size is the pixel size of a rendered chart.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used for zero sizes.
var DefaultSize = Size{Width: 800, Height: 400}

func (s Size) orDefault() Size {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSize
	}
	return s
}

// AllocationPie renders the allocation slices as a pie chart.
// Empty slices are left out. Returns apperrors.ErrNoChartData when all are empty.
func AllocationPie(slices []presentation.AllocationSlice, size Size) ([]byte, error) {
	size = size.orDefault()

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Amount <= 0 {
			continue
		}
		style := chart.Style{}
		if c, ok := sliceColors[s.AssetType]; ok {
			style.FillColor = c
			style.StrokeColor = drawing.ColorWhite
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", s.Label, s.Percent),
			Value: s.Amount,
			Style: style,
		})
	}
	if len(values) == 0 {
		return nil, apperrors.ErrNoChartData
	}

	pie := chart.PieChart{
		Title:  "Asset Allocation",
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	return render(pie)
}

// PnLBar renders one bar per holding with its profit or loss, green for
// gains and red for losses. Returns apperrors.ErrNoChartData without holdings.
func PnLBar(results []model.ValuationResult, size Size) ([]byte, error) {
	size = size.orDefault()
	if len(results) == 0 {
		return nil, apperrors.ErrNoChartData
	}

	bars := make([]chart.Value, len(results))
	lo, hi := 0.0, 0.0
	for i, r := range results {
		color := colorPositive
		if r.PnL < 0 {
			color = colorNegative
		}
		bars[i] = chart.Value{
			Label: r.Symbol,
			Value: r.PnL,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
		lo = math.Min(lo, r.PnL)
		hi = math.Max(hi, r.PnL)
	}
	if lo == hi {
		hi = lo + 1
	}

	barWidth := size.Width / (2 * len(results))
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bar := chart.BarChart{
		Title:        "Profit / Loss",
		Width:        size.Width,
		Height:       size.Height,
		BarWidth:     barWidth,
		UseBaseValue: true,
		BaseValue:    0,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	return render(bar)
}

// History renders total value and total cost over time from journal entries.
// At least two entries are needed; fewer yield apperrors.ErrNoChartData.
func History(records []model.SnapshotRecord, size Size) ([]byte, error) {
	size = size.orDefault()
	if len(records) < 2 {
		return nil, apperrors.ErrNoChartData
	}

	xValues := make([]time.Time, len(records))
	valueY := make([]float64, len(records))
	costY := make([]float64, len(records))
	for i, r := range records {
		xValues[i] = r.TakenAt
		valueY[i] = r.TotalValue
		costY[i] = r.TotalCost
	}

	graph := chart.Chart{
		Title:  "Portfolio Value",
		Width:  size.Width,
		Height: size.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 02 15:04"),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Value",
				Style:   chart.Style{StrokeColor: colorValue, StrokeWidth: 2.5},
				XValues: xValues,
				YValues: valueY,
			},
			chart.TimeSeries{
				Name: "Cost",
				Style: chart.Style{
					StrokeColor:     colorCost,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xValues,
				YValues: costY,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return render(graph)
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(c renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRenderChart, err)
	}
	return buf.Bytes(), nil
}
