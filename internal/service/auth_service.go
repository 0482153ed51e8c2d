package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username_taken")
	ErrEmailTaken         = errors.New("email_taken")
	ErrPasswordMismatch   = errors.New("password_mismatch")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
}

type SignupInput struct {
	Name            string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Address         string
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, errors.New("name is required")
	}
	if len(username) < 4 || len(username) > 15 {
		return nil, errors.New("username must be 4-15 characters")
	}
	if email == "" || len(email) > 50 {
		return nil, errors.New("invalid email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New("invalid email")
	}
	if len(in.Password) < 6 || len(in.Password) > 80 {
		return nil, errors.New("password must be 6-80 characters")
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Address:      strings.TrimSpace(in.Address),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the unique indexes backstop the lookups above
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
