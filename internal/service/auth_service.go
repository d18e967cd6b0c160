package service

import (
	stderrors "errors"
	"fmt"
	"time"

	"noleggio/internal/config"
	"noleggio/internal/db"
	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// AuthService handles staff accounts and JWT issuance. Tokens are HS256
// signed with the configured secret and carry the user's role for the
// route-level checks.
type AuthService struct {
	store repository.Store
	cfg   config.Config
}

func NewAuthService(store repository.Store, cfg config.Config) *AuthService {
	return &AuthService{store: store, cfg: cfg}
}

func (s *AuthService) Register(req entities.RegisterRequest) (*db.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.BadRequest("email and password are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.BadRequest("password must be at least 8 characters")
	}
	role := req.Role
	if role == "" {
		role = db.RoleStaff
	}
	if role != db.RoleAdmin && role != db.RoleStaff {
		return nil, errors.BadRequest("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &db.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.CreateUser(user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.Conflict("Email %s is already registered", req.Email)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(req entities.LoginRequest) (*entities.TokenResponse, error) {
	user, err := s.store.GetUserByEmail(req.Email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.Unauthorized("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &entities.TokenResponse{Token: token, Role: user.Role}, nil
}

func (s *AuthService) issueToken(user *db.User) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT_SECRET is not configured")
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.Email,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
