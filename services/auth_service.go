package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/repositories"
	"golang.org/x/crypto/bcrypt"
)

type SignUpInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	// AdminKey требуется только при регистрации администратора.
	AdminKey string `json:"admin_key,omitempty"`
}

type SignInInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthService — тонкий коллаборатор идентичности. Ядро бронирования и
// турниров ему не доверяет ничего, кроме выдачи (userID, isAdmin).
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, input SignInInput) (*models.User, error)
}

type authService struct {
	users    repositories.UserRepository
	adminKey string
}

func NewAuthService(userRepo repositories.UserRepository, adminKey string) AuthService {
	return &authService{
		users:    userRepo,
		adminKey: adminKey,
	}
}

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*models.User, error) {
	if input.Username == "" || len(input.Password) < 4 {
		return nil, ErrAuthInvalidCredentials
	}

	role := models.RolePlayer
	if input.Role == string(models.RoleAdmin) {
		if s.adminKey == "" || input.AdminKey != s.adminKey {
			return nil, ErrAdminKeyInvalid
		}
		role = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUsernameConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, input SignInInput) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}
