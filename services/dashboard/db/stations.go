package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

const uniqueViolation = "23505"

const createStationSQL = `
    INSERT INTO stations (city_id, name)
    SELECT id, $2 FROM cities WHERE id = $1
    RETURNING id, city_id, name, owner_id
`

// CreateStation adds a station to an existing city. It returns ErrNotFound for
// an unknown city and ErrConflict when the city already has a station of that name.
func (s *Store) CreateStation(ctx context.Context, in models.StationCreate) (models.Station, error) {
	name := strings.TrimSpace(in.Name)
	var st models.Station
	err := s.pool.QueryRow(ctx, createStationSQL, in.CityID, name).Scan(&st.ID, &st.CityID, &st.Name, &st.OwnerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Station{}, ErrConflict
		}
		return models.Station{}, notFound(err)
	}
	return st, nil
}

// DeleteStation removes a station and its measurements.
func (s *Store) DeleteStation(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
