// Package accounts registers responder accounts.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/repository"
)

const MinPasswordLength = 8

var ErrInvalidCredentials = errors.New("invalid email or password")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
	Organization    string `json:"organization"`
}

// Validate reports the first invalid field.
func (r RegisterRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.FirstName) == "":
		return &models.ValidationError{Field: "first_name", Message: "first name is required"}
	case strings.TrimSpace(r.LastName) == "":
		return &models.ValidationError{Field: "last_name", Message: "last name is required"}
	case !emailPattern.MatchString(strings.TrimSpace(r.Email)):
		return &models.ValidationError{Field: "email", Message: "please enter a valid email address"}
	case len(r.Password) < MinPasswordLength:
		return &models.ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	case r.Password != r.ConfirmPassword:
		return &models.ValidationError{Field: "confirm_password", Message: "passwords do not match"}
	case strings.TrimSpace(r.Role) == "":
		return &models.ValidationError{Field: "role", Message: "role is required"}
	case strings.TrimSpace(r.Organization) == "":
		return &models.ValidationError{Field: "organization", Message: "organization is required"}
	}
	return nil
}

type Service struct {
	repo  repository.AccountRepository
	clock clockwork.Clock
	cost  int
}

// NewService creates a Service. A zero cost uses bcrypt.DefaultCost.
func NewService(repo repository.AccountRepository, clock clockwork.Clock, cost int) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, clock: clock, cost: cost}
}

// Register validates req, hashes the password and stores the account.
// A taken email yields repository.ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	a := &models.Account{
		ID:           "acc_" + uuid.New().String()[:22],
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         strings.TrimSpace(req.Role),
		Organization: strings.TrimSpace(req.Organization),
		CreatedAt:    s.clock.Now().UTC(),
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	slog.Info("account registered", "id", a.ID, "role", a.Role)
	return a, nil
}

func (s *Service) Lookup(ctx context.Context, email string) (*models.Account, error) {
	return s.repo.GetAccountByEmail(ctx, email)
}

// Authenticate returns the account when password matches. Unknown emails
// and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.repo.GetAccountByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}
