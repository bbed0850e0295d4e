// Package dashboard derives what the dashboard shows from its filter state.
package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

const dateLayout = "2006-01-02"

// Filters is the user's current selection. Zero values mean "any".
type Filters struct {
	CityID      int    `json:"city_id,omitempty"`
	StationID   int    `json:"station_id,omitempty"`
	PollutantID int    `json:"pollutant_id,omitempty"`
	DateFrom    string `json:"date_from,omitempty"`
	DateTo      string `json:"date_to,omitempty"`
}

// WithCity selects a city. Stations belong to a city, so the station is cleared.
func (f Filters) WithCity(id int) Filters {
	if id != f.CityID {
		f.StationID = 0
	}
	f.CityID = id
	return f
}

// WithStation selects a station of the current city.
func (f Filters) WithStation(id int) Filters {
	f.StationID = id
	return f
}

// WithPollutant selects a pollutant.
func (f Filters) WithPollutant(id int) Filters {
	f.PollutantID = id
	return f
}

// WithRange sets the inclusive date range. Empty strings clear a bound.
func (f Filters) WithRange(from, to string) Filters {
	f.DateFrom = from
	f.DateTo = to
	return f
}

// Reset clears every filter.
func (f Filters) Reset() Filters {
	return Filters{}
}

// Values encodes f as the query string ParseFilters reads.
func (f Filters) Values() url.Values {
	v := url.Values{}
	setID := func(k string, id int) {
		if id > 0 {
			v.Set(k, strconv.Itoa(id))
		}
	}
	setID("city_id", f.CityID)
	setID("station_id", f.StationID)
	setID("pollutant_id", f.PollutantID)
	if f.DateFrom != "" {
		v.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		v.Set("date_to", f.DateTo)
	}
	return v
}

// ParseFilters reads filters from query parameters.
func ParseFilters(q url.Values) (Filters, error) {
	var f Filters
	var err error

	if f.CityID, err = parseID(q, "city_id"); err != nil {
		return Filters{}, err
	}
	if f.StationID, err = parseID(q, "station_id"); err != nil {
		return Filters{}, err
	}
	if f.PollutantID, err = parseID(q, "pollutant_id"); err != nil {
		return Filters{}, err
	}
	if f.DateFrom, err = parseDate(q, "date_from"); err != nil {
		return Filters{}, err
	}
	if f.DateTo, err = parseDate(q, "date_to"); err != nil {
		return Filters{}, err
	}
	if f.DateFrom != "" && f.DateTo != "" && f.DateFrom > f.DateTo {
		return Filters{}, fmt.Errorf("date_from must be <= date_to")
	}
	return f, nil
}

func parseID(q url.Values, key string) (int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseDate(q url.Values, key string) (string, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid %s (expected YYYY-MM-DD): %q", key, s)
	}
	return s, nil
}

// Query is everything the dashboard must fetch for a filter state. Nil members
// are not fetched.
type Query struct {
	Measurements models.MeasurementQuery
	Stats        *models.StatsQuery
	Forecast     *models.ForecastQuery
	StationsOf   int
}

// Derive maps filters to the fetches they require: statistics need a pollutant,
// a forecast needs a city and both dates, stations need a city.
func Derive(f Filters) Query {
	q := Query{
		Measurements: models.MeasurementQuery{
			CityID:      f.CityID,
			StationID:   f.StationID,
			PollutantID: f.PollutantID,
			DateFrom:    f.DateFrom,
			DateTo:      f.DateTo,
		},
		StationsOf: f.CityID,
	}
	if f.PollutantID > 0 {
		q.Stats = &models.StatsQuery{
			PollutantID: f.PollutantID,
			CityID:      f.CityID,
			DateFrom:    f.DateFrom,
			DateTo:      f.DateTo,
		}
	}
	if f.CityID > 0 && f.DateFrom != "" && f.DateTo != "" {
		q.Forecast = &models.ForecastQuery{
			CityID:   f.CityID,
			DateFrom: f.DateFrom,
			DateTo:   f.DateTo,
		}
	}
	return q
}
