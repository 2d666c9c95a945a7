package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/stockroomlabs/stockroom-backend/pkg/auth"
	"github.com/stockroomlabs/stockroom-backend/pkg/config"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/redis"
	"github.com/stockroomlabs/stockroom-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OTPKey(email string) string
}

// Service exposes the admin authentication flows. One-time codes live in
// the TTL key-value store, never in process memory, so they survive
// restarts and multi-instance deployments.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RequestOTP(ctx context.Context, req OTPRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type service struct {
	repo   *Repository
	otp    otpStore
	mailer Mailer
	logg   *logger.Logger
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	otpCfg config.OTPConfig
}

// ServiceParams bundles the auth service dependencies.
type ServiceParams struct {
	Repo     *Repository
	OTPStore otpStore
	Mailer   Mailer
	Logger   *logger.Logger
	JWT      config.JWTConfig
	Password config.PasswordConfig
	OTP      config.OTPConfig
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth repository required")
	}
	if params.OTPStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "otp store required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailer required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		repo:   params.Repo,
		otp:    params.OTPStore,
		mailer: params.Mailer,
		logg:   params.Logger,
		jwtCfg: params.JWT,
		pwCfg:  params.Password,
		otpCfg: params.OTP,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueToken(admin)
}

// RequestOTP mails a fresh code for the admin. An unknown email is treated
// as success so the endpoint cannot be used to probe for accounts.
func (s *service) RequestOTP(ctx context.Context, req OTPRequest) error {
	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Debug(s.logg.WithField(ctx, "email", req.Email), "otp requested for unknown email")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	code, err := security.GenerateOTP(s.otpCfg.Digits)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := s.otp.Set(ctx, s.otp.OTPKey(admin.Email), code, s.otpCfg.TTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	if err := s.mailer.SendOTP(ctx, admin.Email, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp")
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error) {
	admin, err := s.consumeOTP(ctx, req.Email, req.Code)
	if err != nil {
		return nil, err
	}
	return s.issueToken(admin)
}

// ResetPassword exchanges a valid code for a new credential.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	admin, err := s.consumeOTP(ctx, req.Email, req.Code)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(req.NewPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.AdminUser, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	valid, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return admin, nil
}

// consumeOTP validates a code and deletes it, so each code works once.
func (s *service) consumeOTP(ctx context.Context, email, code string) (*models.AdminUser, error) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	key := s.otp.OTPKey(admin.Email)
	stored, err := s.otp.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read otp")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}

	if err := s.otp.Del(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "email", admin.Email), "deleting consumed otp failed")
	}
	return admin, nil
}

func (s *service) issueToken(admin *models.AdminUser) (*LoginResponse, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &LoginResponse{AccessToken: token, Admin: fromModel(admin)}, nil
}
