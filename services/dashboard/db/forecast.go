package db

import (
	"context"
	"fmt"
	"time"

	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

// ForecastLags is the number of past daily values a projection starts from.
const ForecastLags = 3

// ForecastStation is the station name carried by forecast rows.
const ForecastStation = "Forecast"

const cityPollutantsSQL = `
    SELECT DISTINCT p.id, p.code
    FROM pollutants p
    JOIN measurements m ON m.pollutant_id = p.id
    JOIN stations s ON s.id = m.station_id
    WHERE s.city_id = $1
    ORDER BY p.code
`

const historySQL = `
    SELECT m.value
    FROM measurements m
    JOIN stations s ON s.id = m.station_id
    WHERE s.city_id = $1 AND m.pollutant_id = $2 AND m.date < $3::date
    ORDER BY m.date DESC
    LIMIT $4
`

// Forecast projects every pollutant measured in the city from the last
// ForecastLags values before DateFrom up to DateTo. Pollutants without enough
// history are skipped.
func (s *Store) Forecast(ctx context.Context, q models.ForecastQuery) ([]models.Measurement, error) {
	from, err := time.Parse(dateLayout, q.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid date_from: %w", err)
	}
	to, err := time.Parse(dateLayout, q.DateTo)
	if err != nil {
		return nil, fmt.Errorf("invalid date_to: %w", err)
	}

	type pollutant struct {
		id   int
		code string
	}
	rows, err := s.pool.Query(ctx, cityPollutantsSQL, q.CityID)
	if err != nil {
		return nil, err
	}
	var pollutants []pollutant
	for rows.Next() {
		var p pollutant
		if err := rows.Scan(&p.id, &p.code); err != nil {
			rows.Close()
			return nil, err
		}
		pollutants = append(pollutants, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Measurement, 0)
	for _, p := range pollutants {
		lags, err := s.history(ctx, q.CityID, p.id, q.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("history of %s: %w", p.code, err)
		}
		if len(lags) < ForecastLags {
			continue
		}
		out = append(out, Project(p.code, lags, from, to)...)
	}
	return out, nil
}

func (s *Store) history(ctx context.Context, cityID, pollutantID int, before string) ([]float64, error) {
	rows, err := s.pool.Query(ctx, historySQL, cityID, pollutantID, before, ForecastLags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]float64, 0, ForecastLags)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Project forecasts one value per day in [from, to]. lags holds the most recent
// values first; each day's prediction is their mean and becomes the newest lag.
func Project(code string, lags []float64, from, to time.Time) []models.Measurement {
	if len(lags) == 0 {
		return nil
	}
	window := append([]float64(nil), lags...)

	var out []models.Measurement
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		var sum float64
		for _, v := range window {
			sum += v
		}
		pred := sum / float64(len(window))
		out = append(out, models.Measurement{
			Station:   ForecastStation,
			Pollutant: code,
			Date:      day.Format(dateLayout),
			Value:     pred,
		})
		copy(window[1:], window[:len(window)-1])
		window[0] = pred
	}
	return out
}
