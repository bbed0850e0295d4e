package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/monai/airquality-dashboard/services/importer/internal/models"
)

// Dedupe keeps the last reading per (city, station, pollutant, date), in first
// occurrence order. Later rows in a file overwrite earlier ones.
func Dedupe(readings []models.Reading) []models.Reading {
	index := make(map[models.Key]int, len(readings))
	out := make([]models.Reading, 0, len(readings))
	for _, r := range readings {
		k := r.Key()
		if i, ok := index[k]; ok {
			out[i] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

// Names collects the distinct cities, (city, station) pairs and pollutants of
// readings, in first occurrence order.
func Names(readings []models.Reading) (cities []string, stations [][2]string, pollutants []string) {
	seenCity := map[string]bool{}
	seenStation := map[[2]string]bool{}
	seenPollutant := map[string]bool{}
	for _, r := range readings {
		if !seenCity[r.City] {
			seenCity[r.City] = true
			cities = append(cities, r.City)
		}
		st := [2]string{r.City, r.Station}
		if !seenStation[st] {
			seenStation[st] = true
			stations = append(stations, st)
		}
		if !seenPollutant[r.Pollutant] {
			seenPollutant[r.Pollutant] = true
			pollutants = append(pollutants, r.Pollutant)
		}
	}
	return cities, stations, pollutants
}

// ParseValue cleans a raw UHMC cell: decimal commas become points and the
// detection-limit markers < and > are dropped. Blank cells, "-" and "nan" are
// not values.
func ParseValue(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	switch strings.ToLower(s) {
	case "", "-", "nan":
		return 0, false
	}
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ValueString prints values for dry-run logging.
func ValueString(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
