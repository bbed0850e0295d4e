package models

import "github.com/monai/airquality-dashboard/services/dashboard/series"

// City is a monitored city with map coordinates.
type City struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Station is a monitoring station inside a city.
type Station struct {
	ID      int    `json:"id"`
	CityID  int    `json:"city_id"`
	Name    string `json:"name"`
	OwnerID *int   `json:"owner_id,omitempty"`
}

// StationCreate is the payload for creating a station.
type StationCreate struct {
	Name   string `json:"name"`
	CityID int    `json:"city_id"`
}

// Pollutant is a measured substance.
type Pollutant struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Measurement is one daily value as served by the backend. Forecast rows share
// the shape, with Station set to "Forecast".
type Measurement struct {
	City      string  `json:"city"`
	Station   string  `json:"station"`
	Pollutant string  `json:"pollutant"`
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
}

// Record converts m into the aggregator's input shape.
func (m Measurement) Record() series.Record {
	return series.Record{Date: m.Date, Pollutant: m.Pollutant, Value: m.Value}
}

// Records converts a measurement list for the aggregator.
func Records(ms []Measurement) []series.Record {
	out := make([]series.Record, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Record())
	}
	return out
}

// Stats summarises a pollutant over the filtered measurements. Fields are nil
// when no measurement matched.
type Stats struct {
	Avg *float64 `json:"avg"`
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// User is an account known to the backend.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive int    `json:"is_active"`
}

// RoleAdmin is the role allowed to manage users.
const RoleAdmin = "admin"

// IsAdmin reports whether u may use the admin endpoints.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials are sent to register or log in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the backend's authentication response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// MeasurementQuery filters measurements. Zero values mean "no filter".
type MeasurementQuery struct {
	CityID      int
	StationID   int
	PollutantID int
	DateFrom    string
	DateTo      string
}

// StatsQuery selects the measurements summarised by Stats.
type StatsQuery struct {
	PollutantID int
	CityID      int
	DateFrom    string
	DateTo      string
}

// ForecastQuery asks for daily predictions for a city over [DateFrom, DateTo].
type ForecastQuery struct {
	CityID   int
	DateFrom string
	DateTo   string
}
