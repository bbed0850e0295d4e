package http

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/monai/airquality-dashboard/services/dashboard/chart"
	"github.com/monai/airquality-dashboard/services/dashboard/dashboard"
	"github.com/monai/airquality-dashboard/services/dashboard/series"
	"github.com/monai/airquality-dashboard/services/dashboard/views"
)

const pageTitle = "Air quality"

// pageFilters reads the dashboard form. The form echoes the previously selected
// city so that switching city drops a station of the old one.
func pageFilters(c *gin.Context) (dashboard.Filters, error) {
	q := c.Request.URL.Query()
	f, err := dashboard.ParseFilters(q)
	if err != nil {
		return dashboard.Filters{}, err
	}
	prev := q.Get("prev_city_id")
	if prev == "" {
		return f, nil
	}
	prevFilters, err := dashboard.ParseFilters(map[string][]string{"city_id": {prev}})
	if err != nil {
		return f, nil
	}
	return prevFilters.
		WithStation(f.StationID).
		WithPollutant(f.PollutantID).
		WithRange(f.DateFrom, f.DateTo).
		WithCity(f.CityID), nil
}

func chartURL(f dashboard.Filters) string {
	if q := f.Values().Encode(); q != "" {
		return "/api/v1/chart.png?" + q
	}
	return "/api/v1/chart.png"
}

// handleDashboardPage renders the HTML dashboard
// GET /
func (s *Server) handleDashboardPage(c *gin.Context) {
	f, err := pageFilters(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	view, err := dashboard.Load(ctx, s.deps.Data, f)
	if err != nil {
		status, msg := statusOf(err)
		c.String(status, msg)
		return
	}

	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, &views.DashboardData{
		Title:    pageTitle,
		ChartURL: chartURL(f),
		APIBase:  "/api/v1",
		View:     view,
	}); err != nil {
		s.log.Error("render dashboard", "error", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleSeriesTablePartial renders only the series table, for in-place refreshes
// GET /partials/series-table
func (s *Server) handleSeriesTablePartial(c *gin.Context) {
	f, err := pageFilters(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	view, err := dashboard.Load(ctx, s.deps.Data, f)
	if err != nil {
		status, msg := statusOf(err)
		c.String(status, msg)
		return
	}

	var buf bytes.Buffer
	if err := views.RenderSeriesTable(&buf, view); err != nil {
		s.log.Error("render series table", "error", err)
		c.String(http.StatusInternalServerError, "failed to render table")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleAdminPage renders the user management page
// GET /admin
func (s *Server) handleAdminPage(c *gin.Context) {
	var buf bytes.Buffer
	if err := views.RenderAdmin(&buf, &views.AdminData{Title: pageTitle, APIBase: "/api/v1"}); err != nil {
		s.log.Error("render admin", "error", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleV1Dashboard returns the derived dashboard state
// GET /api/v1/dashboard?city_id=&station_id=&pollutant_id=&date_from=&date_to=
func (s *Server) handleV1Dashboard(c *gin.Context) {
	f, ok := queryFilters(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	view, err := dashboard.Load(ctx, s.deps.Data, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": view,
		"meta": gin.H{
			"rows":       len(view.Rows),
			"keys":       len(view.Keys),
			"pollutants": series.Pollutants(view.Keys),
			"degraded":   len(view.Warnings) > 0,
		},
	})
}

// handleV1Chart renders the filtered series as PNG
// GET /api/v1/chart.png?city_id=&station_id=&pollutant_id=&date_from=&date_to=
func (s *Server) handleV1Chart(c *gin.Context) {
	f, ok := queryFilters(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	view, err := dashboard.Load(ctx, s.deps.Data, f)
	if err != nil {
		writeError(c, err)
		return
	}

	title := ""
	if view.SelectedCity != nil {
		title = view.SelectedCity.Name
	}

	var buf bytes.Buffer
	err = chart.Render(&buf, view.Rows, view.Keys, chart.Options{
		Title:  title,
		Width:  s.cfg.ChartWidth,
		Height: s.cfg.ChartHeight,
	})
	if errors.Is(err, chart.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for the selected filters"})
		return
	}
	if err != nil {
		s.log.Error("render chart", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// handleV1Colors returns display colors for pollutant codes
// GET /api/v1/colors?codes=PM10,NO2
func (s *Server) handleV1Colors(c *gin.Context) {
	var codes []string
	for _, code := range strings.Split(c.Query("codes"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codes is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": series.Palette(codes),
		"meta": gin.H{"count": len(codes)},
	})
}
