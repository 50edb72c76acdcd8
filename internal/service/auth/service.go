// Package auth implements the account subsystem: registration, login,
// profile management and the admin user listing, backed by Postgres with
// bcrypt password hashing and a JWT access/refresh pair.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/chiyaghar/pos-go/internal/repository"
	postgresrepo "github.com/chiyaghar/pos-go/internal/repository/postgres"
	"github.com/chiyaghar/pos-go/internal/uow"
)

type Config struct {
	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	BcryptCost       int
}

type Service struct {
	store      *postgresrepo.Store
	uow        *uow.UoW
	tokens     *TokenManager
	bcryptCost int
}

func New(store *postgresrepo.Store, cfg Config) *Service {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}

	return &Service{
		store:      store,
		uow:        uow.NewUoW(store),
		tokens:     NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		bcryptCost: cost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.UserRole
	Profile  domain.UserProfile
}

// Register creates a new account and logs it in.
//
// Returns:
//   - error: auth.ErrUserExists when the username or email is taken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, TokenPair, error) {
	const op = "service.auth.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%s:%w", op, err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleStaff
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Profile:      in.Profile,
		Active:       true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		exists, err := s.store.Users().With(tx).ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		if exists {
			return fmt.Errorf("%s:%w", op, ErrUserExists)
		}

		if err := s.store.Users().With(tx).Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrUserExists)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%s:%w", op, err)
	}

	return user, pair, nil
}

// Login authenticates by username or email.
//
// Returns:
//   - error: auth.ErrInvalidCredentials for an unknown login or wrong
//     password.
//   - error: auth.ErrAccountDisabled for a deactivated account.
func (s *Service) Login(ctx context.Context, login, password string) (*domain.User, TokenPair, error) {
	const op = "service.auth.Login"

	user, err := s.store.Users().ByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
		}
		return nil, TokenPair{}, fmt.Errorf("%s:%w", op, err)
	}

	if !user.Active {
		return nil, TokenPair{}, fmt.Errorf("%s:%w", op, ErrAccountDisabled)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, TokenPair{}, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%s:%w", op, err)
	}

	now := time.Now()
	if err := s.store.Users().UpdateLastLogin(ctx, user.ID, now); err == nil {
		user.LastLogin = &now
	}

	return user, pair, nil
}

// Profile fetches the account of the given user.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	const op = "service.auth.Profile"

	user, err := s.store.Users().ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return user, nil
}

// ProfilePatch carries a partial profile edit; nil fields keep their
// current value.
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Position    *string
	Permissions *[]string
}

// UpdateProfile applies a partial profile edit and optionally changes the
// account email.
//
// Returns:
//   - error: auth.ErrEmailTaken when the new email belongs to another user.
//   - error: auth.ErrUserNotFound.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, email string, patch ProfilePatch) (*domain.User, error) {
	const op = "service.auth.UpdateProfile"

	var updated *domain.User

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		user, err := s.store.Users().With(tx).ByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrUserNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		if email != "" && email != user.Email {
			taken, err := s.store.Users().With(tx).ExistsByEmail(ctx, email, userID)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
			if taken {
				return fmt.Errorf("%s:%w", op, ErrEmailTaken)
			}
		} else {
			email = ""
		}

		profile := user.Profile
		if patch.FirstName != nil {
			profile.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			profile.LastName = *patch.LastName
		}
		if patch.Phone != nil {
			profile.Phone = *patch.Phone
		}
		if patch.Position != nil {
			profile.Position = *patch.Position
		}
		if patch.Permissions != nil {
			profile.Permissions = *patch.Permissions
		}

		updated, err = s.store.Users().With(tx).UpdateProfile(ctx, userID, email, profile)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrEmailTaken)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		return nil
	})

	return updated, err
}

// ChangePassword replaces the password after verifying the current one.
//
// Returns:
//   - error: auth.ErrWrongPassword when the current password does not
//     match.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	const op = "service.auth.ChangePassword"

	user, err := s.store.Users().ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return fmt.Errorf("%s:%w", op, ErrWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.store.Users().UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Refresh exchanges a valid refresh token for a new token pair.
//
// Returns:
//   - error: auth.ErrInvalidToken when the token is invalid or the account
//     no longer exists or is deactivated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	const op = "service.auth.Refresh"

	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	user, err := s.store.Users().ByID(ctx, userID)
	if err != nil || !user.Active {
		return TokenPair{}, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s:%w", op, err)
	}

	return pair, nil
}

// UserByAccessToken resolves the bearer of an access token; used by the
// request middleware.
//
// Returns:
//   - error: auth.ErrInvalidToken, auth.ErrAccountDisabled.
func (s *Service) UserByAccessToken(ctx context.Context, token string) (*domain.User, error) {
	const op = "service.auth.UserByAccessToken"

	userID, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	user, err := s.store.Users().ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	if !user.Active {
		return nil, fmt.Errorf("%s:%w", op, ErrAccountDisabled)
	}

	return user, nil
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// ListUsers returns one page of accounts, newest first.
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]domain.User, Pagination, error) {
	const op = "service.auth.ListUsers"

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.store.Users().Count(ctx)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("%s:%w", op, err)
	}

	users, err := s.store.Users().List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("%s:%w", op, err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return users, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalUsers:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

// SetUserStatus activates or deactivates an account.
func (s *Service) SetUserStatus(ctx context.Context, userID uuid.UUID, active bool) (*domain.User, error) {
	const op = "service.auth.SetUserStatus"

	user, err := s.store.Users().SetActive(ctx, userID, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return user, nil
}
