package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mealplan/internal/auth"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
)

func validSignup() SignupInput {
	return SignupInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Username:  "janedoe",
		Password:  "hunter22",
		Email:     "Jane@Example.com",
	}
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		input         func() SignupInput
		setupMock     func(*MockUserRepository)
		expectedError error
		wantValidate  bool
	}{
		{
			name:  "successful signup",
			input: validSignup,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "janedoe").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "duplicate username",
			input: validSignup,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "janedoe").Return(&model.User{Username: "janedoe"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:  "duplicate email",
			input: validSignup,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "janedoe").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name: "username too short",
			input: func() SignupInput {
				in := validSignup()
				in.Username = "jd"
				return in
			},
			setupMock:    func(m *MockUserRepository) {},
			wantValidate: true,
		},
		{
			name: "password too short",
			input: func() SignupInput {
				in := validSignup()
				in.Password = "1234"
				return in
			},
			setupMock:    func(m *MockUserRepository) {},
			wantValidate: true,
		},
		{
			name: "non alphabetic first name",
			input: func() SignupInput {
				in := validSignup()
				in.FirstName = "J4ne"
				return in
			},
			setupMock:    func(m *MockUserRepository) {},
			wantValidate: true,
		},
		{
			name: "malformed email",
			input: func() SignupInput {
				in := validSignup()
				in.Email = "not-an-email"
				return in
			},
			setupMock:    func(m *MockUserRepository) {},
			wantValidate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", 0)
			service := NewAuthService(mockRepo, jwtService)
			token, user, err := service.Signup(context.Background(), tt.input())

			switch {
			case tt.wantValidate:
				var verr *apperrors.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Empty(t, token)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			default:
				require.NoError(t, err)
				assert.Equal(t, "jane@example.com", user.Email)
				assert.NotEqual(t, "hunter22", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))

				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, "janedoe", claims.Username)
				assert.Equal(t, user.ID.String(), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{
		ID:           uuid.New(),
		Username:     "janedoe",
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdmin,
	}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "janedoe",
			password: "hunter22",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "janedoe").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			username: "janedoe",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "janedoe").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "hunter22",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", 0)
			service := NewAuthService(mockRepo, jwtService)

			token, user, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.True(t, claims.IsAdmin())
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	id := uuid.New()
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0))

	_, err := service.Profile(context.Background(), id.String())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = service.Profile(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	newUser := func() *model.User {
		return &model.User{
			ID:        uuid.MustParse("5f0c6a1e-8c84-4a53-9d3c-1b2e4f6a7b8c"),
			Username:  "janedoe",
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
		}
	}

	t.Run("updates given fields", func(t *testing.T) {
		user := newUser()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("FindByUsername", mock.Anything, "jdoe").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Update", mock.Anything, user).Return(nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0))
		updated, err := service.UpdateProfile(context.Background(), user.ID.String(), ProfileUpdate{
			FirstName: strPtr("Janet"),
			Location:  strPtr(" Boston "),
			Username:  strPtr("jdoe"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Janet", updated.FirstName)
		assert.Equal(t, "Doe", updated.LastName)
		assert.Equal(t, "Boston", updated.Location)
		assert.Equal(t, "jdoe", updated.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects taken email", func(t *testing.T) {
		user := newUser()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{}, nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0))
		_, err := service.UpdateProfile(context.Background(), user.ID.String(), ProfileUpdate{
			Email: strPtr("Taken@example.com"),
		})

		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects non alphabetic last name", func(t *testing.T) {
		user := newUser()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0))
		_, err := service.UpdateProfile(context.Background(), user.ID.String(), ProfileUpdate{
			LastName: strPtr("D0e"),
		})

		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
