// Package db serves the dashboard directly from the Postgres database the
// importer fills, as an alternative to the REST backend.
package db

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monai/airquality-dashboard/internal/schema"
	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a row with the same natural key already exists.
var ErrConflict = errors.New("already exists")

const dateLayout = "2006-01-02"

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies the shared schema.
func (s *Store) Migrate(ctx context.Context) error {
	return schema.Apply(ctx, s.pool)
}

const listCitiesSQL = `
    SELECT id, name, COALESCE(lat, 0), COALESCE(lng, 0)
    FROM cities
    ORDER BY name
`

// Cities lists all cities by name.
func (s *Store) Cities(ctx context.Context) ([]models.City, error) {
	rows, err := s.pool.Query(ctx, listCitiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]models.City, 0)
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Lat, &c.Lng); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

const listStationsSQL = `
    SELECT id, city_id, name, owner_id
    FROM stations
    WHERE city_id = $1
    ORDER BY name
`

// Stations lists the stations of a city.
func (s *Store) Stations(ctx context.Context, cityID int) ([]models.Station, error) {
	rows, err := s.pool.Query(ctx, listStationsSQL, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ID, &st.CityID, &st.Name, &st.OwnerID); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

const listPollutantsSQL = `
    SELECT id, code, description
    FROM pollutants
    ORDER BY code
`

// Pollutants lists all pollutants by code.
func (s *Store) Pollutants(ctx context.Context) ([]models.Pollutant, error) {
	rows, err := s.pool.Query(ctx, listPollutantsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pollutants := make([]models.Pollutant, 0)
	for rows.Next() {
		var p models.Pollutant
		if err := rows.Scan(&p.ID, &p.Code, &p.Description); err != nil {
			return nil, err
		}
		pollutants = append(pollutants, p)
	}
	return pollutants, rows.Err()
}

// where accumulates positional SQL conditions.
type where struct {
	conditions []string
	args       []any
}

func (w *where) add(expr string, arg any) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, strings.ReplaceAll(expr, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *where) addID(expr string, id int) {
	if id > 0 {
		w.add(expr, id)
	}
}

func (w *where) addDate(expr, date string) {
	if date != "" {
		w.add(expr, date)
	}
}

func (w *where) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

const measurementsBase = `
    SELECT c.name, s.name, p.code, m.date, m.value
    FROM measurements m
    JOIN stations s ON s.id = m.station_id
    JOIN cities c ON c.id = s.city_id
    JOIN pollutants p ON p.id = m.pollutant_id
`

// Measurements returns the measurements matching q, ordered by date.
func (s *Store) Measurements(ctx context.Context, q models.MeasurementQuery) ([]models.Measurement, error) {
	var w where
	w.addID("c.id = ?", q.CityID)
	w.addID("s.id = ?", q.StationID)
	w.addID("p.id = ?", q.PollutantID)
	w.addDate("m.date >= ?::date", q.DateFrom)
	w.addDate("m.date <= ?::date", q.DateTo)

	sql := measurementsBase + w.String() + " ORDER BY m.date, p.code, s.name"

	rows, err := s.pool.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]models.Measurement, 0)
	for rows.Next() {
		var m models.Measurement
		var day time.Time
		if err := rows.Scan(&m.City, &m.Station, &m.Pollutant, &day, &m.Value); err != nil {
			return nil, err
		}
		m.Date = day.Format(dateLayout)
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

const statsBase = `
    SELECT AVG(m.value), MIN(m.value), MAX(m.value)
    FROM measurements m
    JOIN stations s ON s.id = m.station_id
`

// Stats computes avg/min/max of a pollutant over the filtered measurements.
// All fields are nil when nothing matched.
func (s *Store) Stats(ctx context.Context, q models.StatsQuery) (models.Stats, error) {
	var w where
	w.add("m.pollutant_id = ?", q.PollutantID)
	w.addID("s.city_id = ?", q.CityID)
	w.addDate("m.date >= ?::date", q.DateFrom)
	w.addDate("m.date <= ?::date", q.DateTo)

	var st models.Stats
	if err := s.pool.QueryRow(ctx, statsBase+w.String(), w.args...).Scan(&st.Avg, &st.Min, &st.Max); err != nil {
		return models.Stats{}, err
	}
	return st, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
