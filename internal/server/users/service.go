// Package users implements the dev backend's accounts: registration, login,
// token rotation and profile reads and writes.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fyndrai/fyndr/internal/common"
	"github.com/fyndrai/fyndr/internal/server/auth"
	"github.com/fyndrai/fyndr/internal/server/config"
	"github.com/fyndrai/fyndr/internal/server/refreshtokens"
	"golang.org/x/crypto/bcrypt"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Registration is the sign-up form as received from the client.
type Registration struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
	Role      string
}

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	cost                         int

	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*Service)

// WithBcryptCost overrides the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		cost:                         bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, reg Registration) (*User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)

	if err := validateRegistration(reg); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		UserName:     reg.Username,
		Email:        reg.Email,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		Role:         reg.Role,
		PasswordHash: hash,
		Profile:      map[string]any{},
	})
	if err != nil {
		var dup *DuplicateError
		if errors.As(err, &dup) {
			return nil, fieldError(dup.Field, duplicateMessage(dup.Field))
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the password of the user whose username or email is login.
// Unknown users cost a hash comparison too, so both failures look alike.
func (s *Service) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	user, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user)
}

// RefreshToken rotates refreshToken: the presented token is consumed and a new
// pair is issued. Unknown, expired and already-rotated tokens all fail with
// common.ErrRefreshTokenExpired.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, fmt.Errorf("error deleting refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, err
	}

	return s.generateTokenPair(ctx, user)
}

// Authenticate resolves a bearer access token to its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update. Known account fields are validated
// and set; "profile" objects are merged into the free-form details and any
// other key is stored there directly. A null value removes a detail.
func (s *Service) UpdateProfile(ctx context.Context, userID string, changes map[string]any) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		user.Profile = map[string]any{}
	}

	v := &ValidationError{}
	for key, value := range changes {
		switch key {
		case "id", "username", "role", "password", "date_joined":
			v.add(key, msgReadOnly)
		case "email":
			email, ok := value.(string)
			switch {
			case !ok:
				v.add(key, msgNotString)
			case !validEmail(strings.TrimSpace(email)):
				v.add(key, msgInvalidEmail)
			default:
				user.Email = strings.TrimSpace(email)
			}
		case "first_name", "last_name":
			str, ok := value.(string)
			if !ok {
				v.add(key, msgNotString)
				continue
			}
			if key == "first_name" {
				user.FirstName = strings.TrimSpace(str)
			} else {
				user.LastName = strings.TrimSpace(str)
			}
		case "onboarding_complete":
			b, ok := value.(bool)
			if !ok {
				v.add(key, msgNotBoolean)
				continue
			}
			user.OnboardingComplete = b
		case "profile":
			nested, ok := value.(map[string]any)
			if !ok {
				v.add(key, "Expected a dictionary of items.")
				continue
			}
			mergeDetails(user.Profile, nested)
		default:
			mergeDetails(user.Profile, map[string]any{key: value})
		}
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		var dup *DuplicateError
		if errors.As(err, &dup) {
			return nil, fieldError(dup.Field, duplicateMessage(dup.Field))
		}
		return nil, err
	}
	return updated, nil
}

func mergeDetails(dst, src map[string]any) {
	for k, val := range src {
		if val == nil {
			delete(dst, k)
			continue
		}
		dst[k] = val
	}
}

func (s *Service) generateTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), s.cost)
	})
	return s.dummyHash
}
