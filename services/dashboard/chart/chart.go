// Package chart renders dashboard series as a PNG line chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/monai/airquality-dashboard/services/dashboard/series"
)

// ErrNoData is returned when no key has a single plottable value.
var ErrNoData = errors.New("chart: no data to plot")

const dateLayout = "2006-01-02"

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  int
	Height int
}

// forecastDash is the stroke pattern of forecast lines.
var forecastDash = []float64{6, 4}

func lineStyle(hex string, forecast bool) chart.Style {
	col := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
	if forecast {
		st.StrokeDashArray = forecastDash
		st.DotWidth = 0
	}
	return st
}

// buildSeries turns rows into one time series per key. Rows without a value for
// a key leave a gap; rows with an unparsable date are skipped. It also returns
// the largest plotted value.
func buildSeries(rows []series.Row, keys []series.Key) ([]chart.Series, float64) {
	var (
		out  []chart.Series
		yMax float64
	)
	for _, key := range keys {
		var (
			xs []time.Time
			ys []float64
		)
		for _, r := range rows {
			v, ok := r.Value(key)
			if !ok {
				continue
			}
			t, err := time.Parse(dateLayout, r.Date)
			if err != nil {
				continue
			}
			xs = append(xs, t)
			ys = append(ys, v)
			if v > yMax {
				yMax = v
			}
		}
		if len(xs) == 0 {
			continue
		}
		// A single point has no x-range; pad it.
		if len(xs) == 1 {
			xs = append(xs, xs[0].Add(time.Second))
			ys = append(ys, ys[0])
		}
		out = append(out, chart.TimeSeries{
			Name:    key.Label(),
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(series.ColorForKey(key), key.Forecast),
		})
	}
	return out, yMax
}

// Render draws one line per key over rows and writes the PNG to w. The y-axis
// runs from zero to the largest value.
func Render(w io.Writer, rows []series.Row, keys []series.Key, opts Options) error {
	lines, yMax := buildSeries(rows, keys)
	if len(lines) == 0 {
		return ErrNoData
	}
	if yMax <= 0 {
		yMax = 1
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Date", ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Name: "Value", Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.05}},
		Series:     lines,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
