package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monai/airquality-dashboard/services/importer/internal/models"
	"github.com/monai/airquality-dashboard/services/importer/internal/utils"
)

// EnsureCities returns the ids of the named cities, creating missing ones.
func EnsureCities(ctx context.Context, pool *pgxpool.Pool, names []string) (map[string]int64, error) {
	query := `INSERT INTO cities (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`

	return ensure(ctx, pool, len(names), func(b *pgx.Batch) {
		for _, n := range names {
			b.Queue(query, n)
		}
	}, func(i int) string { return names[i] })
}

// EnsurePollutants returns the ids of the pollutant codes, creating missing ones.
func EnsurePollutants(ctx context.Context, pool *pgxpool.Pool, codes []string) (map[string]int64, error) {
	query := `INSERT INTO pollutants (code) VALUES ($1)
ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
RETURNING id`

	return ensure(ctx, pool, len(codes), func(b *pgx.Batch) {
		for _, c := range codes {
			b.Queue(query, c)
		}
	}, func(i int) string { return codes[i] })
}

// EnsureStations returns station ids keyed by stationKey(city, name). Cities
// must already be present in cityIDs.
func EnsureStations(ctx context.Context, pool *pgxpool.Pool, stations [][2]string, cityIDs map[string]int64) (map[string]int64, error) {
	query := `INSERT INTO stations (city_id, name) VALUES ($1,$2)
ON CONFLICT (city_id, name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`

	for _, st := range stations {
		if _, ok := cityIDs[st[0]]; !ok {
			return nil, fmt.Errorf("station %q: unknown city %q", st[1], st[0])
		}
	}

	return ensure(ctx, pool, len(stations), func(b *pgx.Batch) {
		for _, st := range stations {
			b.Queue(query, cityIDs[st[0]], st[1])
		}
	}, func(i int) string { return stationKey(stations[i][0], stations[i][1]) })
}

func ensure(ctx context.Context, pool *pgxpool.Pool, n int, queue func(*pgx.Batch), key func(int) string) (map[string]int64, error) {
	ids := make(map[string]int64, n)
	if n == 0 {
		return ids, nil
	}

	batch := &pgx.Batch{}
	queue(batch)

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < n; i++ {
		var id int64
		if err := res.QueryRow().Scan(&id); err != nil {
			return nil, fmt.Errorf("ensure %q: %w", key(i), err)
		}
		ids[key(i)] = id
	}

	return ids, nil
}

func stationKey(city, name string) string {
	return city + "\x00" + name
}

// UpsertMeasurements writes readings, replacing the value of an existing
// (station, pollutant, date) row.
func UpsertMeasurements(ctx context.Context, pool *pgxpool.Pool, readings []models.Reading, stationIDs, pollutantIDs map[string]int64) error {
	if len(readings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO measurements (station_id, pollutant_id, date, value)
VALUES ($1,$2,$3,$4)
ON CONFLICT (station_id, pollutant_id, date) DO UPDATE
SET value = EXCLUDED.value`

	for _, r := range readings {
		stationID, ok := stationIDs[stationKey(r.City, r.Station)]
		if !ok {
			return fmt.Errorf("no id for station %q in %q", r.Station, r.City)
		}
		pollutantID, ok := pollutantIDs[r.Pollutant]
		if !ok {
			return fmt.Errorf("no id for pollutant %q", r.Pollutant)
		}
		batch.Queue(query, stationID, pollutantID, r.Date, r.Value)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range readings {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// Store creates any missing cities, stations and pollutants referenced by
// readings and upserts the readings. It returns the number of rows written.
func Store(ctx context.Context, pool *pgxpool.Pool, readings []models.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}
	readings = utils.Dedupe(readings)
	cities, stations, pollutants := utils.Names(readings)

	cityIDs, err := EnsureCities(ctx, pool, cities)
	if err != nil {
		return 0, err
	}
	stationIDs, err := EnsureStations(ctx, pool, stations, cityIDs)
	if err != nil {
		return 0, err
	}
	pollutantIDs, err := EnsurePollutants(ctx, pool, pollutants)
	if err != nil {
		return 0, err
	}

	if err := UpsertMeasurements(ctx, pool, readings, stationIDs, pollutantIDs); err != nil {
		return 0, err
	}
	return len(readings), nil
}
