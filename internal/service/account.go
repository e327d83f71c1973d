package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rookgm/storefront/internal/models"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -destination=mocks/user_repository.go -package=mocks . UserRepository

// UserRepository stores accounts of the stub backend
type UserRepository interface {
	// CreateUser stores new user with password hash
	CreateUser(ctx context.Context, profile models.UserProfile, hash []byte) (*models.UserProfile, error)
	// GetUserByEmail returns user and password hash
	GetUserByEmail(ctx context.Context, email string) (*models.UserProfile, []byte, error)
}

// TokenService issues and verifies bearer tokens
type TokenService interface {
	// CreateToken returns signed token carrying user id, email and role
	CreateToken(user *models.User) (string, error)
	// VerifyToken checks signature and expiry and returns token payload
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}

// AccountService registers users and signs them in
type AccountService struct {
	users  UserRepository
	tokens TokenService
	cost   int
}

// NewAccountService creates new AccountService instance
func NewAccountService(users UserRepository, tokens TokenService) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
	}
}

// Register hashes the password and stores a new user. New accounts get
// models.RoleUser unless a role is given.
func (as *AccountService) Register(ctx context.Context, user models.User) (*models.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), as.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	profile := models.UserProfile{
		Name:  strings.TrimSpace(user.Name),
		Email: strings.TrimSpace(user.Email),
		Role:  role,
	}

	return as.users.CreateUser(ctx, profile, hash)
}

// SignIn checks credentials and returns a bearer token.
// Unknown email and wrong password both give models.ErrInvalidCredentials.
func (as *AccountService) SignIn(ctx context.Context, req models.LoginRequest) (string, error) {
	profile, hash, err := as.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return as.tokens.CreateToken(&models.User{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Role:  profile.Role,
	})
}
