// Package series turns measurement and forecast records into chart-ready rows.
package series

import "sort"

// Record is a single daily value for one pollutant.
type Record struct {
	Date      string  `json:"date"`
	Pollutant string  `json:"pollutant"`
	Value     float64 `json:"value"`
}

// Key identifies one chart line: the observed or the forecast values of a
// pollutant. Codes are kept verbatim, so no code can pose as a forecast.
type Key struct {
	Code     string `json:"code"`
	Forecast bool   `json:"forecast,omitempty"`
}

// ObservedKey returns the key of the measured values of code.
func ObservedKey(code string) Key {
	return Key{Code: code}
}

// ForecastKey returns the key of the forecast values of code.
func ForecastKey(code string) Key {
	return Key{Code: code, Forecast: true}
}

// Label is the human-readable name of the series.
func (k Key) Label() string {
	if k.Forecast {
		return k.Code + " (forecast)"
	}
	return k.Code
}

func (k Key) less(o Key) bool {
	if k.Code != o.Code {
		return k.Code < o.Code
	}
	return !k.Forecast && o.Forecast
}

// Row holds every series value reported for one date. Observed values live in
// Values and forecast values in Forecast, both keyed by pollutant code. Series
// without a value on that date have no entry.
type Row struct {
	Date     string             `json:"date"`
	Values   map[string]float64 `json:"values"`
	Forecast map[string]float64 `json:"forecast,omitempty"`
}

// Value returns the value of key on this row and whether it was reported.
func (r Row) Value(key Key) (float64, bool) {
	m := r.Values
	if key.Forecast {
		m = r.Forecast
	}
	v, ok := m[key.Code]
	return v, ok
}

// BuildSeries groups records by date. Observed values go to Row.Values and
// forecast values to Row.Forecast. A later record for the same date and key
// replaces the earlier one. Rows are ordered by ascending date string.
func BuildSeries(measurements, forecasts []Record) []Row {
	byDate := make(map[string]*Row)
	order := make([]string, 0)

	rowOf := func(date string) *Row {
		row, ok := byDate[date]
		if !ok {
			row = &Row{Date: date, Values: make(map[string]float64)}
			byDate[date] = row
			order = append(order, date)
		}
		return row
	}

	for _, m := range measurements {
		rowOf(m.Date).Values[m.Pollutant] = m.Value
	}
	for _, f := range forecasts {
		row := rowOf(f.Date)
		if row.Forecast == nil {
			row.Forecast = make(map[string]float64)
		}
		row.Forecast[f.Pollutant] = f.Value
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i] < order[j] })

	rows := make([]Row, 0, len(order))
	for _, date := range order {
		rows = append(rows, *byDate[date])
	}
	return rows
}

// ActiveSeriesKeys returns the distinct series keys BuildSeries produces for the
// same inputs, sorted by code with the observed series before the forecast.
func ActiveSeriesKeys(measurements, forecasts []Record) []Key {
	seen := make(map[Key]struct{})
	for _, m := range measurements {
		seen[ObservedKey(m.Pollutant)] = struct{}{}
	}
	for _, f := range forecasts {
		seen[ForecastKey(f.Pollutant)] = struct{}{}
	}

	keys := make([]Key, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Pollutants returns the distinct pollutant codes behind keys, sorted.
func Pollutants(keys []Key) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k.Code]; ok {
			continue
		}
		seen[k.Code] = struct{}{}
		out = append(out, k.Code)
	}
	sort.Strings(out)
	return out
}
