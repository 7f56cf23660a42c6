package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
	"github.com/isengartz/SinExpressBlogApi/internal/auth"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/query"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindMany(ctx context.Context, features *query.Features, excluded ...string) ([]model.User, error) {
	args := m.Called(ctx, features, excluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockEmailSender is a mock implementation of EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func newTestAuthService(repo *MockUserRepository, email *MockEmailSender) AuthService {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return NewAuthService(repo, jwtService, email, "http://localhost:8080")
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name            string
		email           string
		password        string
		passwordConfirm string
		setupMock       func(*MockUserRepository)
		expectedError   error
	}{
		{
			name:            "successful registration",
			email:           "test@example.com",
			password:        "password123",
			passwordConfirm: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:            "passwords dont match",
			email:           "test@example.com",
			password:        "password123",
			passwordConfirm: "password456",
			setupMock:       func(m *MockUserRepository) {},
			expectedError:   ErrPasswordsDontMatch,
		},
		{
			name:            "password too short",
			email:           "test@example.com",
			password:        "short",
			passwordConfirm: "short",
			setupMock:       func(m *MockUserRepository) {},
			expectedError:   ErrPasswordTooShort,
		},
		{
			name:            "email already in use",
			email:           "existing@example.com",
			password:        "password123",
			passwordConfirm: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: ErrEmailInUse,
		},
		{
			// two registrations racing past the pre-check resolve at the
			// unique index; the loser must fail like the pre-check did
			name:            "duplicate email at the store",
			email:           "racer@example.com",
			password:        "password123",
			passwordConfirm: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "racer@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: ErrEmailInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockEmailSender))
			user, err := service.Register(context.Background(), tt.email, tt.password, tt.passwordConfirm)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_DuplicateEmailIsOperational(t *testing.T) {
	// a duplicate email renders as a client error, never an opaque 500
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(ErrEmailInUse))
	assert.Equal(t, http.StatusBadRequest, apperrors.KindOf(ErrEmailInUse).HTTPStatus())
}

func TestAuthService_Authenticate(t *testing.T) {
	hash := mustHash(t, "password123")

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					PasswordHash: hash,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					PasswordHash: hash,
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockEmailSender))
			user, err := service.Authenticate(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				require.Error(t, err)
				// unknown email and wrong password must be indistinguishable
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo, new(MockEmailSender))

	user := &model.User{ID: uuid.New(), Email: "test@example.com", Role: model.RoleUser}
	mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	token, err := service.IssueToken(user)
	require.NoError(t, err)

	verified, err := service.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestAuthService_VerifyToken_StaleAfterPasswordChange(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo, new(MockEmailSender))

	user := &model.User{ID: uuid.New(), Email: "test@example.com"}
	token, err := service.IssueToken(user)
	require.NoError(t, err)

	// password changes after the token was issued
	changedAt := time.Now().Add(time.Minute)
	user.PasswordChangedAt = &changedAt
	mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err = service.VerifyToken(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestAuthService_VerifyToken_UserGone(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo, new(MockEmailSender))

	user := &model.User{ID: uuid.New()}
	token, err := service.IssueToken(user)
	require.NoError(t, err)

	mockRepo.On("FindByID", mock.Anything, user.ID).Return(nil, gorm.ErrRecordNotFound)

	_, err = service.VerifyToken(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestAuthService_Authorize(t *testing.T) {
	service := newTestAuthService(new(MockUserRepository), new(MockEmailSender))

	admin := &model.User{Role: model.RoleAdmin}
	regular := &model.User{Role: model.RoleUser}

	assert.NoError(t, service.Authorize(admin, model.RoleAdmin))
	assert.NoError(t, service.Authorize(regular, model.RoleUser, model.RoleAdmin))

	err := service.Authorize(regular, model.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestAuthService_ForgotPassword(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "test@example.com"}

	mockRepo := new(MockUserRepository)
	mockEmail := new(MockEmailSender)
	service := newTestAuthService(mockRepo, mockEmail)

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
	mockRepo.On("Update", mock.Anything, user).Return(nil)

	var emailedToken string
	mockEmail.On("SendEmail", mock.Anything, "test@example.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			body := args.String(3)
			// the plaintext token is the last path segment of the reset URL
			emailedToken = body[len(body)-64:]
		}).
		Return(nil)

	err := service.ForgotPassword(context.Background(), "test@example.com")
	require.NoError(t, err)

	// only the hash persists, matching the emailed plaintext
	require.NotNil(t, user.PasswordResetToken)
	require.NotNil(t, user.PasswordResetExpires)
	assert.Equal(t, *user.PasswordResetToken, auth.HashResetToken(emailedToken))
	assert.WithinDuration(t, time.Now().Add(auth.ResetTokenValidity), *user.PasswordResetExpires, 5*time.Second)

	mockRepo.AssertExpectations(t)
	mockEmail.AssertExpectations(t)
}

func TestAuthService_ForgotPassword_RollbackOnSendFailure(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "test@example.com"}

	mockRepo := new(MockUserRepository)
	mockEmail := new(MockEmailSender)
	service := newTestAuthService(mockRepo, mockEmail)

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
	mockRepo.On("Update", mock.Anything, user).Return(nil).Twice()
	mockEmail.On("SendEmail", mock.Anything, "test@example.com", mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))

	err := service.ForgotPassword(context.Background(), "test@example.com")
	require.Error(t, err)
	assert.Equal(t, ErrEmailSendFailed, err)

	// an undeliverable token must never stay redeemable
	assert.Nil(t, user.PasswordResetToken)
	assert.Nil(t, user.PasswordResetExpires)

	mockRepo.AssertExpectations(t)
	mockEmail.AssertExpectations(t)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo, new(MockEmailSender))

	mockRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	err := service.ForgotPassword(context.Background(), "ghost@example.com")
	assert.Equal(t, ErrNoUserWithEmail, err)
}

func TestAuthService_ResetPassword(t *testing.T) {
	plaintext, hash, err := auth.NewResetToken()
	require.NoError(t, err)

	expires := time.Now().Add(auth.ResetTokenValidity)
	user := &model.User{
		ID:                   uuid.New(),
		Email:                "test@example.com",
		PasswordHash:         mustHash(t, "old-password"),
		PasswordResetToken:   &hash,
		PasswordResetExpires: &expires,
	}

	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo, new(MockEmailSender))

	mockRepo.On("FindByResetToken", mock.Anything, hash, mock.AnythingOfType("time.Time")).Return(user, nil)
	mockRepo.On("Update", mock.Anything, user).Return(nil)

	updated, err := service.ResetPassword(context.Background(), plaintext, "new-password-1", "new-password-1")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword("new-password-1", updated.PasswordHash))
	assert.Nil(t, updated.PasswordResetToken)
	assert.Nil(t, updated.PasswordResetExpires)
	require.NotNil(t, updated.PasswordChangedAt)

	// a token issued before the reset reads as stale
	assert.True(t, updated.ChangedPasswordAfter(time.Now().Add(-time.Minute)))

	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo, new(MockEmailSender))

	// covers unknown, expired and already redeemed tokens alike
	mockRepo.On("FindByResetToken", mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := service.ResetPassword(context.Background(), "bogus-token", "new-password-1", "new-password-1")
	require.Error(t, err)
	assert.Equal(t, ErrResetTokenInvalid, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAuthService_UpdatePassword(t *testing.T) {
	user := &model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: mustHash(t, "current-password"),
	}

	mockRepo := new(MockUserRepository)
	service := newTestAuthService(mockRepo, new(MockEmailSender))

	t.Run("wrong current password", func(t *testing.T) {
		_, err := service.UpdatePassword(context.Background(), user, "not-the-password", "new-password-1")
		assert.Equal(t, ErrWrongCurrentPassword, err)
	})

	t.Run("successful change", func(t *testing.T) {
		mockRepo.On("Update", mock.Anything, user).Return(nil)

		updated, err := service.UpdatePassword(context.Background(), user, "current-password", "new-password-1")
		require.NoError(t, err)
		assert.True(t, auth.CheckPassword("new-password-1", updated.PasswordHash))
		require.NotNil(t, updated.PasswordChangedAt)
	})
}
