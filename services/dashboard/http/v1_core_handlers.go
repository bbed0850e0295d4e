package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/monai/airquality-dashboard/services/dashboard/dashboard"
	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// queryFilters parses the filter parameters, replying 400 when they are invalid.
func queryFilters(c *gin.Context) (dashboard.Filters, bool) {
	f, err := dashboard.ParseFilters(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return dashboard.Filters{}, false
	}
	return f, true
}

// handleV1Cities lists cities
// GET /api/v1/cities
func (s *Server) handleV1Cities(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	cities, err := s.deps.Data.Cities(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cities,
		"meta": gin.H{"count": len(cities)},
	})
}

// handleV1CityStations lists the stations of a city
// GET /api/v1/cities/:id/stations
func (s *Server) handleV1CityStations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	stations, err := s.deps.Data.Stations(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stations,
		"meta": gin.H{"count": len(stations), "city_id": id},
	})
}

// handleV1Pollutants lists pollutants
// GET /api/v1/pollutants
func (s *Server) handleV1Pollutants(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	pollutants, err := s.deps.Data.Pollutants(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": pollutants,
		"meta": gin.H{"count": len(pollutants)},
	})
}

// handleV1Measurements returns raw measurements for the filters
// GET /api/v1/measurements?city_id=&station_id=&pollutant_id=&date_from=&date_to=
func (s *Server) handleV1Measurements(c *gin.Context) {
	f, ok := queryFilters(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	ms, err := s.deps.Data.Measurements(ctx, dashboard.Derive(f).Measurements)
	if err != nil {
		writeError(c, err)
		return
	}
	if ms == nil {
		ms = []models.Measurement{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ms,
		"meta": gin.H{"count": len(ms), "filters": f},
	})
}

// handleV1Stats summarises one pollutant
// GET /api/v1/stats?pollutant_id=&city_id=&date_from=&date_to=
func (s *Server) handleV1Stats(c *gin.Context) {
	f, ok := queryFilters(c)
	if !ok {
		return
	}
	q := dashboard.Derive(f).Stats
	if q == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pollutant_id is required"})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	stats, err := s.deps.Data.Stats(ctx, *q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
		"meta": gin.H{"filters": f},
	})
}

// handleV1Forecast returns predicted daily values for a city
// GET /api/v1/forecast?city_id=&date_from=&date_to=
func (s *Server) handleV1Forecast(c *gin.Context) {
	f, ok := queryFilters(c)
	if !ok {
		return
	}
	q := dashboard.Derive(f).Forecast
	if q == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city_id, date_from and date_to are required"})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	forecast, err := s.deps.Data.Forecast(ctx, *q)
	if err != nil {
		writeError(c, err)
		return
	}
	if forecast == nil {
		forecast = []models.Measurement{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": forecast,
		"meta": gin.H{"count": len(forecast), "filters": f},
	})
}
