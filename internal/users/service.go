// Package users manages operator accounts and credential checks.
package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/security"
)

// Service exposes user management and authentication operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// CreateInput holds the payload to create a user account.
type CreateInput struct {
	Name     string
	Username string
	Password string
	Email    string
	Role     enums.UserRole
	Active   bool
}

// UpdateInput holds optional mutation values. A nil Password leaves the
// stored hash untouched.
type UpdateInput struct {
	Name     *string
	Username *string
	Password *string
	Email    *string
	Role     *enums.UserRole
	Active   *bool
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs a user service instance.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	if details := validateCreate(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user").WithDetails(details)
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: hash,
		Email:        strings.TrimSpace(input.Email),
		Role:         input.Role,
		Active:       input.Active,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "users.username") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username already taken").
				WithDetails(map[string]string{"username": "already taken"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: insert user")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name cannot be empty").
				WithDetails(map[string]string{"name": "cannot be empty"})
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Username != nil {
		if strings.TrimSpace(*input.Username) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username cannot be empty").
				WithDetails(map[string]string{"username": "cannot be empty"})
		}
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role").
				WithDetails(map[string]string{"role": "must be admin, manager or cashier"})
		}
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	user.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "users.username") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username already taken").
				WithDetails(map[string]string{"username": "already taken"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: update user")
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load user")
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: delete user")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: list users")
	}
	return out, nil
}

// Authenticate checks the credentials against the stored argon2id hash and
// refreshes last_login on success. Unknown usernames and wrong passwords
// produce the same error so callers cannot probe for accounts.
func (s *service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account disabled")
	}

	at := s.now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, at); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "db: stamp last login")
	}
	user.LastLogin = &at
	return user, nil
}

func validateCreate(input CreateInput) map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.Username) == "" {
		details["username"] = "is required"
	}
	if len(input.Password) < 6 {
		details["password"] = "must be at least 6 characters"
	}
	if !input.Role.IsValid() {
		details["role"] = "must be admin, manager or cashier"
	}
	return details
}
