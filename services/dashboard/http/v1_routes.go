package http

// registerV1Routes sets up the /api/v1 group: reference data, filtered series,
// rendered chart, accounts and station management.
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	v1.GET("/cities", s.handleV1Cities)
	v1.GET("/cities/:id/stations", s.handleV1CityStations)
	v1.GET("/pollutants", s.handleV1Pollutants)
	v1.GET("/measurements", s.handleV1Measurements)
	v1.GET("/stats", s.handleV1Stats)
	v1.GET("/forecast", s.handleV1Forecast)

	v1.GET("/dashboard", s.handleV1Dashboard)
	v1.GET("/chart.png", s.handleV1Chart)
	v1.GET("/colors", s.handleV1Colors)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", s.handleV1Register)
		auth.POST("/login", s.handleV1Login)
	}

	user := v1.Group("")
	user.Use(s.authMiddleware(false))
	{
		user.GET("/users/me", s.handleV1Me)
		user.POST("/stations", s.handleV1CreateStation)
		user.DELETE("/stations/:id", s.handleV1DeleteStation)
	}

	admin := v1.Group("/users")
	admin.Use(s.authMiddleware(true))
	{
		admin.GET("", s.handleV1Users)
		admin.DELETE("/:id", s.handleV1DeleteUser)
	}
}
