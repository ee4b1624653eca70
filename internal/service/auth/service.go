package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cardealer/internal/domain"
	userrepo "cardealer/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Service handles registration, login and password changes.
type Service struct {
	users       userRepo
	tokens      *TokenManager
	passwordMin int
}

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// New creates a Service with sane defaults.
func New(users userrepo.Repository, tokens *TokenManager) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		passwordMin: 6,
	}
}

// Register creates a user and signs a token for it.
func (s *Service) Register(ctx context.Context, email, password string, fullName *string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", errors.New("email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, "", errors.New("invalid email")
	}
	if len(password) < s.passwordMin {
		return nil, "", fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     fullName,
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.UserID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login validates credentials and returns the user plus a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", errors.New("email and password are required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the account behind an authenticated user id.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ChangePassword verifies the old password, stores the new hash and
// returns a freshly signed token.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (string, error) {
	if oldPassword == "" || newPassword == "" {
		return "", errors.New("old and new password are required")
	}
	if len(newPassword) < s.passwordMin {
		return "", fmt.Errorf("new password must be at least %d characters", s.passwordMin)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return "", ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return "", err
	}
	return s.tokens.Issue(user.UserID, user.Role)
}
