package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
	"github.com/isengartz/SinExpressBlogApi/internal/auth"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
)

const minPasswordLength = 8

var (
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so responses carry no account-enumeration signal.
	ErrInvalidCredentials = apperrors.Auth("incorrect email or password")
	// ErrEmailInUse is returned when registering an already taken email,
	// whether caught by the pre-check or by the unique index.
	ErrEmailInUse = apperrors.Validation("email already in use. use a different one")
	// ErrPasswordsDontMatch is returned when password and confirmation differ.
	ErrPasswordsDontMatch = apperrors.New(apperrors.KindValidation, "passwords dont match")
	// ErrPasswordTooShort is returned when the password misses the minimum length.
	ErrPasswordTooShort = apperrors.New(apperrors.KindValidation, "password must be at least 8 characters")
	// ErrResetTokenInvalid is returned when a reset token is unknown, used or expired.
	ErrResetTokenInvalid = apperrors.NotFound("cant find user or token expired")
	// ErrWrongCurrentPassword is returned when the current password check fails.
	ErrWrongCurrentPassword = apperrors.Auth("current password isnt valid")
	// ErrNoUserWithEmail is returned by ForgotPassword for unknown addresses.
	ErrNoUserWithEmail = apperrors.NotFound("there is no user with that email")
	// ErrEmailSendFailed is returned when reset-token delivery fails.
	ErrEmailSendFailed = apperrors.New(apperrors.KindInternal, "there was an error sending the email")
)

// EmailSender delivers out-of-band messages. Failure during a password
// reset triggers rollback of the persisted token.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// AuthService owns credentials and session tokens: registration, login,
// token verification with the password-staleness check, role checks and the
// password reset lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password, passwordConfirm string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	IssueToken(user *model.User) (string, error)
	VerifyToken(ctx context.Context, token string) (*model.User, error)
	Authorize(user *model.User, roles ...model.Role) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, passwordConfirm string) (*model.User, error)
	UpdatePassword(ctx context.Context, user *model.User, current, newPassword string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	email      EmailSender
	baseURL    string
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, email EmailSender, baseURL string) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		email:      email,
		baseURL:    baseURL,
	}
}

// Register creates a new user with a salted password hash. The confirmation
// field never persists.
func (s *authService) Register(ctx context.Context, email, password, passwordConfirm string) (*model.User, error) {
	if password != passwordConfirm {
		return nil, ErrPasswordsDontMatch
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailInUse
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Role:         model.RoleUser,
		PasswordHash: hash,
	}
	// Two racing registrations for one email resolve at the unique index;
	// exactly one insert fails and must render like the pre-check did.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks email and password. Unknown emails and hash mismatches
// fail identically.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for the user.
func (s *authService) IssueToken(user *model.User) (string, error) {
	return s.jwtService.Sign(user.ID)
}

// VerifyToken validates a session token, loads its user and rejects tokens
// issued before the user's last password change.
func (s *authService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Auth("the user belonging to this token no longer exists")
		}
		return nil, fmt.Errorf("load token user: %w", err)
	}

	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, apperrors.Auth("user recently changed password. please log in again")
	}
	return user, nil
}

// Authorize checks the user's role against the allowed set.
func (s *authService) Authorize(user *model.User, roles ...model.Role) error {
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return apperrors.Forbidden("you dont have access here")
}

// ForgotPassword persists a hashed one-shot reset token valid for ten
// minutes and emails the plaintext. A failed send rolls the token back so
// an undeliverable token can never be redeemed.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoUserWithEmail
		}
		return fmt.Errorf("find user: %w", err)
	}

	plaintext, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(auth.ResetTokenValidity)
	user.PasswordResetToken = &hash
	user.PasswordResetExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("persist reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetPassword/%s", s.baseURL, plaintext)
	body := fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password and passwordConfirm to %s", resetURL)
	if err := s.email.SendEmail(ctx, user.Email, "Password Reset (Valid for 10 mins)", body); err != nil {
		user.PasswordResetToken = nil
		user.PasswordResetExpires = nil
		if rbErr := s.userRepo.Update(ctx, user); rbErr != nil {
			return fmt.Errorf("rollback reset token: %w", rbErr)
		}
		return ErrEmailSendFailed
	}
	return nil
}

// ResetPassword redeems a reset token, replaces the password and clears the
// token so a second redemption fails. Prior session tokens go stale through
// the password-changed timestamp.
func (s *authService) ResetPassword(ctx context.Context, token, password, passwordConfirm string) (*model.User, error) {
	if password != passwordConfirm {
		return nil, ErrPasswordsDontMatch
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByResetToken(ctx, auth.HashResetToken(token), time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}

	if err := s.setPassword(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one.
func (s *authService) UpdatePassword(ctx context.Context, user *model.User, current, newPassword string) (*model.User, error) {
	if !auth.CheckPassword(current, user.PasswordHash) {
		return nil, ErrWrongCurrentPassword
	}
	if len(newPassword) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return nil, err
	}
	return user, nil
}

// setPassword stores a new hash, bumps the password-changed timestamp and
// clears any pending reset token. The timestamp is backdated one second so
// a token issued in the same instant still reads as stale.
func (s *authService) setPassword(ctx context.Context, user *model.User, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	changedAt := time.Now().Add(-time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
