package models

import "time"

// Reading is one daily pollutant value at a station, ready for storage.
type Reading struct {
	City      string
	Station   string
	Pollutant string
	Date      time.Time
	Value     float64
}

// Key identifies the stored measurement a reading writes to.
type Key struct {
	City      string
	Station   string
	Pollutant string
	Date      string
}

// Key returns the natural key of r.
func (r Reading) Key() Key {
	return Key{City: r.City, Station: r.Station, Pollutant: r.Pollutant, Date: r.Date.Format("2006-01-02")}
}

// Telemetry is the JSON payload a station publishes over MQTT.
type Telemetry struct {
	City      string   `json:"city"`
	Station   string   `json:"station"`
	Pollutant string   `json:"pollutant"`
	Date      string   `json:"date"`
	Value     *float64 `json:"value"`
}

// ImportResult summarises one import run.
type ImportResult struct {
	Source   string
	Lines    int
	Readings int
	Stored   int
	Errors   []string
}
