package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

type AccountRepository interface {
	// CreateAccount fails with ErrDuplicateEmail when the email is taken.
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

type WatchRepository interface {
	AddWatch(ctx context.Context, w *models.WatchedLocation) error
	GetWatch(ctx context.Context, id string) (*models.WatchedLocation, error)
	ListWatches(ctx context.Context) ([]models.WatchedLocation, error)
	RemoveWatch(ctx context.Context, id string) error
}
