package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/monai/airquality-dashboard/services/dashboard/backend"
	"github.com/monai/airquality-dashboard/services/dashboard/config"
	"github.com/monai/airquality-dashboard/services/dashboard/db"
	"github.com/monai/airquality-dashboard/services/dashboard/models"
	"github.com/monai/airquality-dashboard/services/dashboard/views"
)

type fakeData struct {
	mu        sync.Mutex
	lastQuery models.MeasurementQuery

	measurements []models.Measurement
	forecast     []models.Measurement
	err          error
}

func (f *fakeData) Cities(context.Context) ([]models.City, error) {
	return []models.City{{ID: 1, Name: "Kyiv"}, {ID: 2, Name: "Lviv"}}, nil
}

func (f *fakeData) Stations(_ context.Context, cityID int) ([]models.Station, error) {
	return []models.Station{{ID: 10, CityID: cityID, Name: "Obolon"}}, nil
}

func (f *fakeData) Pollutants(context.Context) ([]models.Pollutant, error) {
	return []models.Pollutant{{ID: 1, Code: "PM10"}, {ID: 2, Code: "NO2"}}, nil
}

func (f *fakeData) Measurements(_ context.Context, q models.MeasurementQuery) ([]models.Measurement, error) {
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.measurements, nil
}

func (f *fakeData) Stats(context.Context, models.StatsQuery) (models.Stats, error) {
	avg := 11.0
	return models.Stats{Avg: &avg, Min: &avg, Max: &avg}, nil
}

func (f *fakeData) Forecast(context.Context, models.ForecastQuery) ([]models.Measurement, error) {
	return f.forecast, nil
}

func (f *fakeData) query() models.MeasurementQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

type fakeAccounts struct {
	users   map[string]models.User
	deleted []int
}

func (a *fakeAccounts) Register(_ context.Context, creds models.Credentials) (models.Token, error) {
	if creds.Email == "taken@example.com" {
		return models.Token{}, &backend.StatusError{Code: http.StatusBadRequest, Detail: "Email already registered"}
	}
	return models.Token{AccessToken: "new-token", TokenType: "bearer"}, nil
}

func (a *fakeAccounts) Login(context.Context, models.Credentials) (models.Token, error) {
	return models.Token{AccessToken: "login-token", TokenType: "bearer"}, nil
}

func (a *fakeAccounts) Me(_ context.Context, token string) (models.User, error) {
	u, ok := a.users[token]
	if !ok {
		return models.User{}, &backend.StatusError{Code: http.StatusUnauthorized, Detail: "Could not validate credentials"}
	}
	return u, nil
}

func (a *fakeAccounts) Users(context.Context, string) ([]models.User, error) {
	out := make([]models.User, 0, len(a.users))
	for _, u := range a.users {
		out = append(out, u)
	}
	return out, nil
}

func (a *fakeAccounts) DeleteUser(_ context.Context, _ string, id int) error {
	a.deleted = append(a.deleted, id)
	return nil
}

type fakeStations struct {
	created []models.StationCreate
}

func (s *fakeStations) CreateStation(_ context.Context, _ string, in models.StationCreate) (models.Station, error) {
	if in.CityID == 404 {
		return models.Station{}, db.ErrNotFound
	}
	s.created = append(s.created, in)
	return models.Station{ID: 99, CityID: in.CityID, Name: in.Name}, nil
}

func (s *fakeStations) DeleteStation(_ context.Context, _ string, id int) error {
	if id == 404 {
		return &backend.StatusError{Code: http.StatusNotFound, Detail: "Station not found"}
	}
	return nil
}

type testEnv struct {
	srv      *Server
	data     *fakeData
	accounts *fakeAccounts
	stations *fakeStations
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}

	env := &testEnv{
		data: &fakeData{
			measurements: []models.Measurement{
				{City: "Kyiv", Station: "Obolon", Pollutant: "PM10", Date: "2024-05-02", Value: 12},
				{City: "Kyiv", Station: "Obolon", Pollutant: "PM10", Date: "2024-05-01", Value: 10},
			},
		},
		accounts: &fakeAccounts{users: map[string]models.User{
			"user-token":  {ID: 1, Email: "user@example.com", Role: "user", IsActive: 1},
			"admin-token": {ID: 2, Email: "admin@example.com", Role: models.RoleAdmin, IsActive: 1},
		}},
		stations: &fakeStations{},
	}
	cfg := config.Config{BackendTimeout: 5 * time.Second, ChartWidth: 320, ChartHeight: 200}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.srv = New(cfg, Deps{
		Data:     env.data,
		Accounts: env.accounts,
		Stations: env.stations,
	}, logger)
	return env
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode json: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	if body := decode(t, rec); body["status"] != "ok" {
		t.Fatalf("body=%v", body)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("missing X-Request-ID header")
	}

	env.srv.deps.Health = func(context.Context) error { return errors.New("db down") }
	if rec := env.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	env := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	env.srv.Engine().ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("X-Request-ID=%q want=abc-123", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodOptions, "/api/v1/cities", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusNoContent)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestV1Cities(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/api/v1/cities", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("X-API-Version") != "v1" {
		t.Error("missing X-API-Version header")
	}
	body := decode(t, rec)
	if meta := body["meta"].(map[string]any); meta["count"] != float64(2) {
		t.Fatalf("meta=%v", meta)
	}
}

func TestV1CityStations_badID(t *testing.T) {
	env := newTestServer(t)
	if rec := env.do(t, http.MethodGet, "/api/v1/cities/abc/stations", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/cities/3/stations", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestV1Measurements_filters(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/api/v1/measurements?city_id=1&pollutant_id=2&date_from=2024-05-01", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	q := env.data.query()
	if q.CityID != 1 || q.PollutantID != 2 || q.DateFrom != "2024-05-01" {
		t.Fatalf("query=%+v", q)
	}

	if rec := env.do(t, http.MethodGet, "/api/v1/measurements?date_from=May", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestV1Stats_requiresPollutant(t *testing.T) {
	env := newTestServer(t)
	if rec := env.do(t, http.MethodGet, "/api/v1/stats", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/stats?pollutant_id=1", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestV1Forecast_requiresCityAndRange(t *testing.T) {
	env := newTestServer(t)
	if rec := env.do(t, http.MethodGet, "/api/v1/forecast?city_id=1&date_from=2024-05-01", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	rec := env.do(t, http.MethodGet, "/api/v1/forecast?city_id=1&date_from=2024-05-01&date_to=2024-05-03", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	if data, ok := decode(t, rec)["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("data=%v; want empty array", decode(t, rec)["data"])
	}
}

func TestV1Dashboard(t *testing.T) {
	env := newTestServer(t)
	env.data.forecast = []models.Measurement{{Station: "Forecast", Pollutant: "PM10", Date: "2024-05-03", Value: 11}}

	rec := env.do(t, http.MethodGet, "/api/v1/dashboard?city_id=1&date_from=2024-05-01&date_to=2024-05-03", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	body := decode(t, rec)
	data := body["data"].(map[string]any)

	rows := data["rows"].([]any)
	if len(rows) != 3 {
		t.Fatalf("rows=%v", rows)
	}
	first := rows[0].(map[string]any)
	if first["date"] != "2024-05-01" {
		t.Errorf("first row=%v", first)
	}
	keys := data["keys"].([]any)
	if len(keys) != 2 {
		t.Fatalf("keys=%v", keys)
	}
	observed, forecast := keys[0].(map[string]any), keys[1].(map[string]any)
	if observed["code"] != "PM10" || observed["forecast"] != nil {
		t.Errorf("keys[0]=%v", observed)
	}
	if forecast["code"] != "PM10" || forecast["forecast"] != true {
		t.Errorf("keys[1]=%v", forecast)
	}
	if last := rows[2].(map[string]any)["forecast"].(map[string]any); last["PM10"] != 11.0 {
		t.Errorf("forecast row=%v", rows[2])
	}
	colors := data["colors"].(map[string]any)
	if colors["PM10"] != "#f97316" || len(colors) != 1 {
		t.Errorf("colors=%v", colors)
	}
	if city := data["selected_city"].(map[string]any); city["name"] != "Kyiv" {
		t.Errorf("selected_city=%v", city)
	}
	meta := body["meta"].(map[string]any)
	if p := meta["pollutants"].([]any); len(p) != 1 || p[0] != "PM10" {
		t.Errorf("meta.pollutants=%v", p)
	}
}

func TestSeriesTablePartial(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/partials/series-table?city_id=1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2024-05-01") || strings.Contains(body, "<form") {
		t.Fatalf("body=%s", body)
	}

	if rec := env.do(t, http.MethodGet, "/partials/series-table?city_id=x", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestV1Dashboard_measurementFailure(t *testing.T) {
	env := newTestServer(t)
	env.data.err = &backend.StatusError{Code: http.StatusInternalServerError, Detail: "boom"}
	if rec := env.do(t, http.MethodGet, "/api/v1/dashboard", "", nil); rec.Code != http.StatusBadGateway {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadGateway)
	}
}

func TestV1Chart(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/api/v1/chart.png?city_id=1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type=%q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatal("body is not a PNG")
	}

	env.data.measurements = nil
	if rec := env.do(t, http.MethodGet, "/api/v1/chart.png", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestV1Colors(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/api/v1/colors?codes=PM10,%20benzene,,", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	data := decode(t, rec)["data"].(map[string]any)
	if data["PM10"] != "#f97316" || data["benzene"] != "#2d3dc3" || len(data) != 2 {
		t.Fatalf("data=%v", data)
	}

	// Codes are colored as given, even when they look like a forecast series.
	rec = env.do(t, http.MethodGet, "/api/v1/colors?codes=pm10~forecast,pm10", "", nil)
	data = decode(t, rec)["data"].(map[string]any)
	if data["pm10~forecast"] != "#1d1b02" || data["pm10"] != "#f97316" {
		t.Fatalf("data=%v", data)
	}

	if rec := env.do(t, http.MethodGet, "/api/v1/colors", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestDashboardPage(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/?city_id=1&station_id=10", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	out := rec.Body.String()
	if !strings.Contains(out, "/api/v1/chart.png?city_id=1&amp;station_id=10") {
		t.Errorf("chart url missing:\n%s", out)
	}
	if q := env.data.query(); q.StationID != 10 {
		t.Errorf("station filter lost: %+v", q)
	}
}

func TestDashboardPage_cityChangeClearsStation(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/?prev_city_id=1&city_id=2&station_id=10&pollutant_id=1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	q := env.data.query()
	if q.CityID != 2 || q.StationID != 0 || q.PollutantID != 1 {
		t.Fatalf("query=%+v; want city 2 without station", q)
	}

	env.do(t, http.MethodGet, "/?prev_city_id=2&city_id=2&station_id=10", "", nil)
	if q := env.data.query(); q.StationID != 10 {
		t.Fatalf("query=%+v; same city must keep station", q)
	}
}

func TestAdminPage(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/admin", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "localStorage") {
		t.Error("admin page missing token storage script")
	}
}

func TestAuth(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", models.Credentials{Email: "a@b.c", Password: "pw"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status=%d want=%d", rec.Code, http.StatusCreated)
	}
	if tok := decode(t, rec)["data"].(map[string]any); tok["access_token"] != "new-token" {
		t.Fatalf("token=%v", tok)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/auth/register", "", models.Credentials{Email: "taken@example.com", Password: "pw"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	if msg := decode(t, rec)["error"]; msg != "Email already registered" {
		t.Fatalf("error=%v", msg)
	}

	if rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", models.Credentials{Email: "a@b.c"}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusUnprocessableEntity)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", models.Credentials{Email: "a@b.c", Password: "pw"}); rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestUsersMe(t *testing.T) {
	env := newTestServer(t)
	if rec := env.do(t, http.MethodGet, "/api/v1/users/me", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/users/me", "bogus", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	rec := env.do(t, http.MethodGet, "/api/v1/users/me", "user-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	if u := decode(t, rec)["data"].(map[string]any); u["email"] != "user@example.com" {
		t.Fatalf("user=%v", u)
	}
}

func TestStations(t *testing.T) {
	env := newTestServer(t)

	if rec := env.do(t, http.MethodPost, "/api/v1/stations", "", models.StationCreate{Name: "X", CityID: 1}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/stations", "user-token", models.StationCreate{Name: "  ", CityID: 1}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusUnprocessableEntity)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/stations", "user-token", models.StationCreate{Name: " Podil ", CityID: 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusCreated)
	}
	if len(env.stations.created) != 1 || env.stations.created[0].Name != "Podil" {
		t.Fatalf("created=%+v", env.stations.created)
	}

	if rec := env.do(t, http.MethodPost, "/api/v1/stations", "user-token", models.StationCreate{Name: "Y", CityID: 404}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown city status=%d want=%d", rec.Code, http.StatusNotFound)
	}

	if rec := env.do(t, http.MethodDelete, "/api/v1/stations/7", "user-token", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d want=%d", rec.Code, http.StatusNoContent)
	}
	if rec := env.do(t, http.MethodDelete, "/api/v1/stations/404", "user-token", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing status=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestUsers_adminOnly(t *testing.T) {
	env := newTestServer(t)

	if rec := env.do(t, http.MethodGet, "/api/v1/users", "user-token", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusForbidden)
	}
	rec := env.do(t, http.MethodGet, "/api/v1/users", "admin-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	if meta := decode(t, rec)["meta"].(map[string]any); meta["count"] != float64(2) {
		t.Fatalf("meta=%v", meta)
	}

	if rec := env.do(t, http.MethodDelete, "/api/v1/users/2", "admin-token", nil); rec.Code != http.StatusConflict {
		t.Fatalf("self delete status=%d want=%d", rec.Code, http.StatusConflict)
	}
	if rec := env.do(t, http.MethodDelete, "/api/v1/users/1", "admin-token", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusNoContent)
	}
	if len(env.accounts.deleted) != 1 || env.accounts.deleted[0] != 1 {
		t.Fatalf("deleted=%v", env.accounts.deleted)
	}
}

func TestOperatorMode(t *testing.T) {
	env := newTestServer(t)
	env.srv.deps.Accounts = OperatorAccounts{Token: "op-secret"}

	rec := env.do(t, http.MethodGet, "/api/v1/users/me", "op-secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusOK)
	}
	if u := decode(t, rec)["data"].(map[string]any); u["role"] != models.RoleAdmin {
		t.Fatalf("user=%v", u)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/users/me", "guess", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/users", "op-secret", nil); rec.Code != http.StatusNotImplemented {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusNotImplemented)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", models.Credentials{Email: "a@b.c", Password: "pw"}); rec.Code != http.StatusNotImplemented {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusNotImplemented)
	}
}

func TestOperatorAccounts_emptyTokenRejectsAll(t *testing.T) {
	if _, err := (OperatorAccounts{}).Me(context.Background(), ""); err == nil {
		t.Fatal("empty operator token authenticated an empty bearer")
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&backend.StatusError{Code: 401}, http.StatusUnauthorized},
		{&backend.StatusError{Code: 409, Detail: "dup"}, http.StatusConflict},
		{&backend.StatusError{Code: 500}, http.StatusBadGateway},
		{backend.ErrUnsupported, http.StatusNotImplemented},
		{db.ErrNotFound, http.StatusNotFound},
		{db.ErrConflict, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v)=%d want=%d", tt.err, got, tt.want)
		}
	}
}
