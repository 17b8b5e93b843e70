// Package service holds the auth collaborator: registration, login and
// profile lookup. The ledger core never sees credentials, only the user id
// this layer authenticates.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/numanubhani/finance2/internal/dto"
	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/models"
	"github.com/numanubhani/finance2/internal/utils"
)

// UserStore is the user persistence surface the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	users  UserStore
	tokens *utils.TokenManager
}

func NewAuthService(users UserStore, tokens *utils.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user and returns a signed token for it.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" {
		return nil, errors.New("username and email are required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ledger.ErrDuplicateKey) {
			return nil, errors.New("username or email already exists")
		}
		return nil, err
	}

	return s.respond(user)
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := utils.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(user)
}

// Profile returns the authenticated user's profile.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*dto.UserDTO, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserDTO(user), nil
}

func (s *AuthService) respond(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: dto.ToUserDTO(user)}, nil
}
