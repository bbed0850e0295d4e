// Package backend is the HTTP client for the air-quality REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

// ErrUnsupported is returned by data sources that cannot serve an operation.
var ErrUnsupported = errors.New("operation not supported by this data source")

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend responded %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("backend responded %d", e.Code)
}

// Client talks to the backend under a base URL such as http://backend:8000/api.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Cities lists all cities.
func (c *Client) Cities(ctx context.Context) ([]models.City, error) {
	var out []models.City
	if err := c.get(ctx, "/cities/", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stations lists the stations of a city.
func (c *Client) Stations(ctx context.Context, cityID int) ([]models.Station, error) {
	var out []models.Station
	if err := c.get(ctx, "/cities/"+strconv.Itoa(cityID)+"/stations/", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pollutants lists all pollutants.
func (c *Client) Pollutants(ctx context.Context) ([]models.Pollutant, error) {
	var out []models.Pollutant
	if err := c.get(ctx, "/pollutants/", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Measurements returns measurements matching q.
func (c *Client) Measurements(ctx context.Context, q models.MeasurementQuery) ([]models.Measurement, error) {
	params := buildQuery(map[string]string{
		"city_id":      idParam(q.CityID),
		"station_id":   idParam(q.StationID),
		"pollutant_id": idParam(q.PollutantID),
		"date_from":    q.DateFrom,
		"date_to":      q.DateTo,
	})
	var out []models.Measurement
	if err := c.get(ctx, "/measurements/", params, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns avg/min/max for a pollutant.
func (c *Client) Stats(ctx context.Context, q models.StatsQuery) (models.Stats, error) {
	params := buildQuery(map[string]string{
		"pollutant_id": idParam(q.PollutantID),
		"city_id":      idParam(q.CityID),
		"date_from":    q.DateFrom,
		"date_to":      q.DateTo,
	})
	var out models.Stats
	if err := c.get(ctx, "/stats/", params, "", &out); err != nil {
		return models.Stats{}, err
	}
	return out, nil
}

// Forecast returns predicted daily values for a city.
func (c *Client) Forecast(ctx context.Context, q models.ForecastQuery) ([]models.Measurement, error) {
	params := buildQuery(map[string]string{
		"city_id":   idParam(q.CityID),
		"date_from": q.DateFrom,
		"date_to":   q.DateTo,
	})
	var out []models.Measurement
	if err := c.get(ctx, "/forecast/", params, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, creds models.Credentials) (models.Token, error) {
	var out models.Token
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, "", creds, &out); err != nil {
		return models.Token{}, err
	}
	return out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.Token, error) {
	var out models.Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", creds, &out); err != nil {
		return models.Token{}, err
	}
	return out, nil
}

// Me resolves the user behind token.
func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	var out models.User
	if err := c.get(ctx, "/users/me", nil, token, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

// Users lists accounts. Requires an admin token.
func (c *Client) Users(ctx context.Context, token string) ([]models.User, error) {
	var out []models.User
	if err := c.get(ctx, "/users/", nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes an account. Requires an admin token.
func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, token, nil, nil)
}

// CreateStation adds a station owned by the token's user.
func (c *Client) CreateStation(ctx context.Context, token string, in models.StationCreate) (models.Station, error) {
	var out models.Station
	if err := c.do(ctx, http.MethodPost, "/stations/", nil, token, in, &out); err != nil {
		return models.Station{}, err
	}
	return out, nil
}

// DeleteStation removes a station.
func (c *Client) DeleteStation(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, "/stations/"+strconv.Itoa(id), nil, token, nil, nil)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, params, token, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, token string, body, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// readDetail extracts FastAPI's {"detail": ...} message, falling back to the raw body.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(raw))
}

// buildQuery drops empty values so the backend sees only active filters.
func buildQuery(params map[string]string) url.Values {
	q := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	return q
}

func idParam(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}
