package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vishalm342/ShelfSense/cmd/api/auth"
	"github.com/vishalm342/ShelfSense/cmd/api/dto"
	"github.com/vishalm342/ShelfSense/models"
	"github.com/vishalm342/ShelfSense/repositories"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	users      *repositories.UserRepository
	jwtManager *auth.JWTManager
}

func NewAuthService(users *repositories.UserRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwtManager: jwtManager}
}

func NewAuthServiceFromEnv(users *repositories.UserRepository) (*AuthService, error) {
	jwtManager, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to init JWTManager: %w", err)
	}
	return NewAuthService(users, jwtManager), nil
}

// Register creates an account and signs an access token for it.
func (s *AuthService) Register(ctx context.Context, in dto.RegisterRequestDTO) (dto.AuthResponseDTO, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return dto.AuthResponseDTO{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on email is the authority on duplicates; a prior
	// FindByEmail check would still race with concurrent signups.
	id, err := s.users.Insert(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dto.AuthResponseDTO{}, ErrEmailTaken
		}
		return dto.AuthResponseDTO{}, fmt.Errorf("insert user: %w", err)
	}
	user.ID = id

	token, err := s.jwtManager.Sign(id.Hex())
	if err != nil {
		return dto.AuthResponseDTO{}, fmt.Errorf("jwt sign: %w", err)
	}

	return dto.AuthResponseDTO{Token: token, User: userToDTO(user)}, nil
}

// Login verifies credentials and signs an access token.
func (s *AuthService) Login(ctx context.Context, in dto.LoginRequestDTO) (dto.AuthResponseDTO, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return dto.AuthResponseDTO{}, ErrInvalidCredentials
		}
		return dto.AuthResponseDTO{}, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return dto.AuthResponseDTO{}, ErrInvalidCredentials
	}

	token, err := s.jwtManager.Sign(user.ID.Hex())
	if err != nil {
		return dto.AuthResponseDTO{}, fmt.Errorf("jwt sign: %w", err)
	}

	return dto.AuthResponseDTO{Token: token, User: userToDTO(user)}, nil
}

func (s *AuthService) ParseAccessToken(token string) (string, error) {
	return s.jwtManager.Parse(token)
}

// GetUserProfile loads the public profile for an authenticated user.
func (s *AuthService) GetUserProfile(ctx context.Context, userID string) (dto.UserDTO, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return dto.UserDTO{}, ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return dto.UserDTO{}, ErrUserNotFound
		}
		return dto.UserDTO{}, err
	}
	return userToDTO(user), nil
}

func userToDTO(u *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
