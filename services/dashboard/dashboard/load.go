package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/monai/airquality-dashboard/services/dashboard/models"
	"github.com/monai/airquality-dashboard/services/dashboard/series"
)

// Fetcher is the data source behind the dashboard. backend.Client and db.Store
// both implement it; tests use fakes.
type Fetcher interface {
	Cities(ctx context.Context) ([]models.City, error)
	Stations(ctx context.Context, cityID int) ([]models.Station, error)
	Pollutants(ctx context.Context) ([]models.Pollutant, error)
	Measurements(ctx context.Context, q models.MeasurementQuery) ([]models.Measurement, error)
	Stats(ctx context.Context, q models.StatsQuery) (models.Stats, error)
	Forecast(ctx context.Context, q models.ForecastQuery) ([]models.Measurement, error)
}

// View is the fully derived dashboard state.
type View struct {
	Filters      Filters              `json:"filters"`
	Cities       []models.City        `json:"cities"`
	Stations     []models.Station     `json:"stations"`
	Pollutants   []models.Pollutant   `json:"pollutants"`
	SelectedCity *models.City         `json:"selected_city,omitempty"`
	Measurements []models.Measurement `json:"measurements"`
	Forecast     []models.Measurement `json:"forecast"`
	Stats        *models.Stats        `json:"stats"`
	Rows         []series.Row         `json:"rows"`
	Keys         []series.Key         `json:"keys"`
	Colors       map[string]string    `json:"colors"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// Load fetches everything f requires and derives the chart rows. Only a
// measurement failure fails the view; the other fetches degrade to empty values
// and a warning.
func Load(ctx context.Context, src Fetcher, f Filters) (View, error) {
	q := Derive(f)
	v := View{Filters: f}

	var (
		citiesErr, stationsErr, pollutantsErr error
		statsErr, forecastErr                 error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ms, err := src.Measurements(gctx, q.Measurements)
		if err != nil {
			return fmt.Errorf("load measurements: %w", err)
		}
		v.Measurements = ms
		return nil
	})
	g.Go(func() error {
		v.Cities, citiesErr = src.Cities(gctx)
		return nil
	})
	g.Go(func() error {
		v.Pollutants, pollutantsErr = src.Pollutants(gctx)
		return nil
	})
	if q.StationsOf > 0 {
		g.Go(func() error {
			v.Stations, stationsErr = src.Stations(gctx, q.StationsOf)
			return nil
		})
	}
	if q.Stats != nil {
		g.Go(func() error {
			s, err := src.Stats(gctx, *q.Stats)
			if err != nil {
				statsErr = err
				return nil
			}
			v.Stats = &s
			return nil
		})
	}
	if q.Forecast != nil {
		g.Go(func() error {
			v.Forecast, forecastErr = src.Forecast(gctx, *q.Forecast)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return View{}, err
	}

	v.warn("cities", citiesErr)
	v.warn("stations", stationsErr)
	v.warn("pollutants", pollutantsErr)
	v.warn("stats", statsErr)
	v.warn("forecast", forecastErr)

	v.normalize()

	for i := range v.Cities {
		if v.Cities[i].ID == f.CityID {
			c := v.Cities[i]
			v.SelectedCity = &c
			break
		}
	}

	observed := models.Records(v.Measurements)
	forecast := models.Records(v.Forecast)
	v.Rows = series.BuildSeries(observed, forecast)
	v.Keys = series.ActiveSeriesKeys(observed, forecast)
	v.Colors = series.Palette(series.Pollutants(v.Keys))
	return v, nil
}

func (v *View) warn(what string, err error) {
	if err == nil {
		return
	}
	slog.Warn("dashboard fetch degraded", "what", what, "error", err)
	v.Warnings = append(v.Warnings, fmt.Sprintf("failed to load %s", what))
}

// normalize replaces nil lists (failed or skipped fetches) with empty ones so
// JSON clients always see arrays.
func (v *View) normalize() {
	if v.Cities == nil {
		v.Cities = []models.City{}
	}
	if v.Stations == nil {
		v.Stations = []models.Station{}
	}
	if v.Pollutants == nil {
		v.Pollutants = []models.Pollutant{}
	}
	if v.Measurements == nil {
		v.Measurements = []models.Measurement{}
	}
	if v.Forecast == nil {
		v.Forecast = []models.Measurement{}
	}
}
