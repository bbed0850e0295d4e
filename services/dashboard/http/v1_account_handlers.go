package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

func bindCredentials(c *gin.Context) (models.Credentials, bool) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return models.Credentials{}, false
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "email and password are required"})
		return models.Credentials{}, false
	}
	return creds, true
}

// handleV1Register creates an account and returns its token
// POST /api/v1/auth/register
func (s *Server) handleV1Register(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	token, err := s.deps.Accounts.Register(ctx, creds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": token})
}

// handleV1Login exchanges credentials for a token
// POST /api/v1/auth/login
func (s *Server) handleV1Login(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	token, err := s.deps.Accounts.Login(ctx, creds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": token})
}

// handleV1Me returns the authenticated user
// GET /api/v1/users/me
func (s *Server) handleV1Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": currentUser(c)})
}

// handleV1CreateStation adds a station to a city
// POST /api/v1/stations
func (s *Server) handleV1CreateStation(c *gin.Context) {
	var in models.StationCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.CityID <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name and city_id are required"})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	station, err := s.deps.Stations.CreateStation(ctx, currentToken(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	s.log.Info("station created", "station_id", station.ID, "city_id", station.CityID, "by", currentUser(c).Email)
	c.JSON(http.StatusCreated, gin.H{"data": station})
}

// handleV1DeleteStation removes a station
// DELETE /api/v1/stations/:id
func (s *Server) handleV1DeleteStation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.deps.Stations.DeleteStation(ctx, currentToken(c), id); err != nil {
		writeError(c, err)
		return
	}
	s.log.Info("station deleted", "station_id", id, "by", currentUser(c).Email)
	c.Status(http.StatusNoContent)
}

// handleV1Users lists accounts (admin)
// GET /api/v1/users
func (s *Server) handleV1Users(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	users, err := s.deps.Accounts.Users(ctx, currentToken(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": users,
		"meta": gin.H{"count": len(users)},
	})
}

// handleV1DeleteUser removes an account (admin)
// DELETE /api/v1/users/:id
func (s *Server) handleV1DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if id == currentUser(c).ID {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete your own account"})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.deps.Accounts.DeleteUser(ctx, currentToken(c), id); err != nil {
		writeError(c, err)
		return
	}
	s.log.Info("user deleted", "user_id", id, "by", currentUser(c).Email)
	c.Status(http.StatusNoContent)
}
