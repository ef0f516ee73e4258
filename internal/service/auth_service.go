package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mealplan/internal/auth"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
	"mealplan/internal/repository"
)

const bcryptCost = 10

// SignupInput carries the fields of a new account.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Email     string
}

// ProfileUpdate carries optional profile changes. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Location  *string
	Username  *string
}

// AuthService handles signup, login and profile operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (token string, user *model.User, err error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	validator  *ProfileValidator
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		validator:  NewProfileValidator(),
	}
}

// Signup creates a user with a hashed password and issues an access token.
func (s *authService) Signup(ctx context.Context, in SignupInput) (string, *model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)

	if err := s.validateSignup(in); err != nil {
		return "", nil, err
	}
	if err := s.ensureUsernameFree(ctx, in.Username); err != nil {
		return "", nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent signup
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, apperrors.NewValidationError("username or email already exists")
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}

// Login verifies the password and issues an access token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}

// Profile returns the user behind a verified token.
func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of upd. The password is never
// changed here.
func (s *authService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		name := strings.TrimSpace(*upd.FirstName)
		if err := s.validator.ValidateName("firstName", name); err != nil {
			return nil, err
		}
		user.FirstName = name
	}
	if upd.LastName != nil {
		name := strings.TrimSpace(*upd.LastName)
		if err := s.validator.ValidateName("lastName", name); err != nil {
			return nil, err
		}
		user.LastName = name
	}
	if upd.Location != nil {
		user.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if username != user.Username {
			if err := s.validator.ValidateUsername(username); err != nil {
				return nil, err
			}
			if err := s.ensureUsernameFree(ctx, username); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}
	if upd.Email != nil {
		email := NormalizeEmail(*upd.Email)
		if email != user.Email {
			if err := s.validator.ValidateEmail(email); err != nil {
				return nil, err
			}
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewValidationError("username or email already exists")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *authService) validateSignup(in SignupInput) error {
	if err := s.validator.ValidateUsername(in.Username); err != nil {
		return err
	}
	if err := s.validator.ValidatePassword(in.Password); err != nil {
		return err
	}
	if err := s.validator.ValidateName("firstName", in.FirstName); err != nil {
		return err
	}
	if err := s.validator.ValidateName("lastName", in.LastName); err != nil {
		return err
	}
	return s.validator.ValidateEmail(in.Email)
}

func (s *authService) ensureUsernameFree(ctx context.Context, username string) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return apperrors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	return nil
}

func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}
