package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/monai/airquality-dashboard/services/dashboard/backend"
	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

// OperatorAccounts authenticates a single static token as an admin. It backs
// the server when it reads the database directly and has no account service;
// every other account operation is unsupported.
type OperatorAccounts struct {
	Token string
}

// OperatorEmail names the static operator in logs and /users/me.
const OperatorEmail = "operator@localhost"

func (o OperatorAccounts) Me(ctx context.Context, token string) (models.User, error) {
	if o.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(o.Token)) != 1 {
		return models.User{}, &backend.StatusError{Code: http.StatusUnauthorized, Detail: "invalid token"}
	}
	return models.User{Email: OperatorEmail, Role: models.RoleAdmin, IsActive: 1}, nil
}

func (OperatorAccounts) Register(context.Context, models.Credentials) (models.Token, error) {
	return models.Token{}, backend.ErrUnsupported
}

func (OperatorAccounts) Login(context.Context, models.Credentials) (models.Token, error) {
	return models.Token{}, backend.ErrUnsupported
}

func (OperatorAccounts) Users(context.Context, string) ([]models.User, error) {
	return nil, backend.ErrUnsupported
}

func (OperatorAccounts) DeleteUser(context.Context, string, int) error {
	return backend.ErrUnsupported
}

// StationStore is the database side of station management.
type StationStore interface {
	CreateStation(ctx context.Context, in models.StationCreate) (models.Station, error)
	DeleteStation(ctx context.Context, id int) error
}

// StoreStations adapts a StationStore to Stations. The token was already
// checked by the auth middleware.
type StoreStations struct {
	Store StationStore
}

func (s StoreStations) CreateStation(ctx context.Context, _ string, in models.StationCreate) (models.Station, error) {
	return s.Store.CreateStation(ctx, in)
}

func (s StoreStations) DeleteStation(ctx context.Context, _ string, id int) error {
	return s.Store.DeleteStation(ctx, id)
}
