package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/models"
	"github.com/mkurosawa/task-manager-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// AuthServiceTestSuite defines the test suite for AuthService
type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

// SetupTest runs before each test
func (suite *AuthServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	suite.service = NewAuthService(repository.NewUserRepository(suite.db), testJWTSecret, zap.NewNop())
}

// TearDownTest runs after each test
func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// TestRegister_Success tests registration and the issued token claims
func (suite *AuthServiceTestSuite) TestRegister_Success() {
	resp, err := suite.service.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "bearer", resp.TokenType)
	assert.Equal(suite.T(), "new@example.com", resp.User.Email)
	assert.Equal(suite.T(), models.RoleUser, resp.User.Role)
	assert.NotEmpty(suite.T(), resp.User.ID)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.Require().True(token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(suite.T(), resp.User.ID, claims["sub"])
	assert.Equal(suite.T(), models.RoleUser, claims["role"])
	assert.NotEmpty(suite.T(), claims["jti"])
}

// TestRegister_DuplicateEmail tests rejecting an already registered email
func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	_, err := suite.service.Register(context.Background(), RegisterInput{
		Email:    "dup@example.com",
		Password: "password123",
		Name:     "First",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Register(context.Background(), RegisterInput{
		Email:    "dup@example.com",
		Password: "password456",
		Name:     "Second",
	})
	assert.Equal(suite.T(), apperrors.KindInvalidOperation, apperrors.KindOf(err))
	assert.EqualError(suite.T(), err, "Email already registered")
}

// TestRegister_HashesPassword tests that the plaintext is never stored
func (suite *AuthServiceTestSuite) TestRegister_HashesPassword() {
	resp, err := suite.service.Register(context.Background(), RegisterInput{
		Email:    "hash@example.com",
		Password: "password123",
		Name:     "Hash",
	})
	suite.Require().NoError(err)

	var stored models.User
	suite.Require().NoError(suite.db.First(&stored, "id = ?", resp.User.ID).Error)
	assert.NotEqual(suite.T(), "password123", stored.HashedPassword)
	assert.NotEmpty(suite.T(), stored.HashedPassword)
}

// TestLogin_Success tests a valid login
func (suite *AuthServiceTestSuite) TestLogin_Success() {
	_, err := suite.service.Register(context.Background(), RegisterInput{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login",
	})
	suite.Require().NoError(err)

	resp, err := suite.service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), resp.AccessToken)
	assert.Equal(suite.T(), "login@example.com", resp.User.Email)
}

// TestLogin_InvalidCredentials tests that wrong password and unknown
// email fail identically.
func (suite *AuthServiceTestSuite) TestLogin_InvalidCredentials() {
	_, err := suite.service.Register(context.Background(), RegisterInput{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "wrong",
	})
	assert.Equal(suite.T(), apperrors.KindUnauthenticated, apperrors.KindOf(err))
	assert.EqualError(suite.T(), err, "Invalid email or password")

	_, err = suite.service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.Equal(suite.T(), apperrors.KindUnauthenticated, apperrors.KindOf(err))
	assert.EqualError(suite.T(), err, "Invalid email or password")
}

// TestCurrentUser tests resolving the authenticated principal
func (suite *AuthServiceTestSuite) TestCurrentUser() {
	resp, err := suite.service.Register(context.Background(), RegisterInput{
		Email:    "me@example.com",
		Password: "password123",
		Name:     "Me",
	})
	suite.Require().NoError(err)

	user, err := suite.service.CurrentUser(context.Background(), Principal{
		UserID: resp.User.ID,
		Role:   resp.User.Role,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "me@example.com", user.Email)

	_, err = suite.service.CurrentUser(context.Background(), Principal{})
	assert.Equal(suite.T(), apperrors.KindUnauthenticated, apperrors.KindOf(err))

	_, err = suite.service.CurrentUser(context.Background(), Principal{UserID: "ghost"})
	assert.Equal(suite.T(), apperrors.KindUnauthenticated, apperrors.KindOf(err))
	assert.EqualError(suite.T(), err, "User not found")
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
