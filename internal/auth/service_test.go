package auth

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgauth "github.com/stockroomlabs/stockroom-backend/pkg/auth"
	"github.com/stockroomlabs/stockroom-backend/pkg/config"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/redis"
	"github.com/stockroomlabs/stockroom-backend/pkg/security"
)

type fakeOTPStore struct {
	values map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{values: map[string]string{}}
}

func (f *fakeOTPStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeOTPStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return value, nil
}

func (f *fakeOTPStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeOTPStore) OTPKey(email string) string {
	return "otp:" + strings.ToLower(email)
}

type capturedMail struct {
	to   string
	code string
}

type fakeMailer struct {
	sent []capturedMail
}

func (m *fakeMailer) SendOTP(_ context.Context, to, code string) error {
	m.sent = append(m.sent, capturedMail{to: to, code: code})
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "stockroom", ExpirationMinutes: 15}
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS admin_users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newAuthService(t *testing.T, conn *gorm.DB) (Service, *fakeOTPStore, *fakeMailer) {
	t.Helper()

	store := newFakeOTPStore()
	mailer := &fakeMailer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		OTPStore: store,
		Mailer:   mailer,
		Logger:   logg,
		JWT:      testJWTConfig(),
		Password: config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16},
		OTP:      config.OTPConfig{TTL: 5 * time.Minute, Digits: 6},
	})
	require.NoError(t, err)
	return svc, store, mailer
}

func seedAdmin(t *testing.T, conn *gorm.DB, email, password string) *models.AdminUser {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16,
	})
	require.NoError(t, err)

	admin := &models.AdminUser{Email: email, PasswordHash: hash}
	_, err = NewRepository(conn).Create(context.Background(), admin)
	require.NoError(t, err)
	return admin
}

func TestLoginIssuesToken(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, _, _ := newAuthService(t, conn)
	admin := seedAdmin(t, conn, "owner@example.com", "swordfish1")

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Owner@Example.com", Password: "swordfish1"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resp.Admin.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, _, _ := newAuthService(t, conn)
	seedAdmin(t, conn, "owner@example.com", "swordfish1")

	_, err := svc.Login(context.Background(), LoginRequest{Email: "owner@example.com", Password: "wrong"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "swordfish1"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestOTPFlow(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, store, mailer := newAuthService(t, conn)
	admin := seedAdmin(t, conn, "owner@example.com", "swordfish1")
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, OTPRequest{Email: "owner@example.com"}))
	require.Len(t, mailer.sent, 1)
	code := mailer.sent[0].code
	assert.Len(t, code, 6)

	resp, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "owner@example.com", Code: code})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resp.Admin.ID)

	// Codes are single use.
	_, err = svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "owner@example.com", Code: code})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
	assert.Empty(t, store.values)
}

func TestRequestOTPUnknownEmailIsSilent(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, store, mailer := newAuthService(t, conn)

	require.NoError(t, svc.RequestOTP(context.Background(), OTPRequest{Email: "ghost@example.com"}))
	assert.Empty(t, mailer.sent)
	assert.Empty(t, store.values)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, _, mailer := newAuthService(t, conn)
	seedAdmin(t, conn, "owner@example.com", "swordfish1")
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, OTPRequest{Email: "owner@example.com"}))
	require.Len(t, mailer.sent, 1)

	_, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "owner@example.com", Code: "000000x"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestResetPassword(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, _, mailer := newAuthService(t, conn)
	seedAdmin(t, conn, "owner@example.com", "swordfish1")
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, OTPRequest{Email: "owner@example.com"}))
	require.Len(t, mailer.sent, 1)
	code := mailer.sent[0].code

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordRequest{
		Email:       "owner@example.com",
		Code:        code,
		NewPassword: "new-password-1",
	}))

	_, err := svc.Login(ctx, LoginRequest{Email: "owner@example.com", Password: "swordfish1"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@example.com", Password: "new-password-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}
