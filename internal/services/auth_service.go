package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mkurosawa/task-manager-api/internal/dto"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/models"
	"github.com/mkurosawa/task-manager-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accessTokenTTL = 24 * time.Hour

// AuthService handles registration, login and token issuance.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(jwtSecret),
		logger: logger,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Register creates a new user and returns a token response for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*dto.TokenResponse, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		s.logger.Warn("registration failed: email already registered", zap.String("email", input.Email))
		return nil, apperrors.InvalidOperation("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Email:          input.Email,
		Name:           input.Name,
		Role:           role,
		HashedPassword: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	return s.tokenResponse(user)
}

type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns a token response.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*dto.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("login failed: user not found", zap.String("email", input.Email))
			return nil, apperrors.Unauthenticated("Invalid email or password")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		s.logger.Warn("login failed: invalid password", zap.String("email", input.Email))
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role))

	return s.tokenResponse(user)
}

// CurrentUser resolves the principal to its stored user record.
func (s *AuthService) CurrentUser(ctx context.Context, p Principal) (*dto.UserResponse, error) {
	if !p.Authenticated() {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}

	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// CreateAccessToken issues a signed HS256 token for the user.
func (s *AuthService) CreateAccessToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) tokenResponse(user *models.User) (*dto.TokenResponse, error) {
	token, err := s.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	}, nil
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
