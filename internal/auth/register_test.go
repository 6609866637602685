package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgAuth "github.com/rafaeldtavares/juristrack-backend/pkg/auth"
	pkgdb "github.com/rafaeldtavares/juristrack-backend/pkg/db"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/security"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  oab_number TEXT,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  is_tester BOOLEAN NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)

	return db
}

func newTestRegisterService(t *testing.T, conn *gorm.DB) (RegisterService, *stubSessionManager) {
	t.Helper()
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             pkgdb.NewFromConn(conn),
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)
	return svc, sessionMgr
}

func TestRegister(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, _ := newTestRegisterService(t, conn)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     " Joao@Example.com ",
		Password:  "long-enough-password",
		FirstName: "João",
		LastName:  "Pereira",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "joao@example.com", resp.User.Email)
	assert.True(t, resp.User.IsActive)
	assert.Equal(t, "refresh-token", resp.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "joao@example.com", claims.Email)

	// The stored hash must verify against the original password.
	var storedHash string
	require.NoError(t, conn.Raw("SELECT password_hash FROM users WHERE email = ?", "joao@example.com").Scan(&storedHash).Error)
	ok, err := security.VerifyPassword("long-enough-password", storedHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, _ := newTestRegisterService(t, conn)

	req := RegisterRequest{
		Email:     "dup@example.com",
		Password:  "long-enough-password",
		FirstName: "Primeira",
		LastName:  "Conta",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, conn.Raw("SELECT COUNT(*) FROM users WHERE email = ?", "dup@example.com").Scan(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_Validation(t *testing.T) {
	conn := setupAuthTestDB(t)
	svc, _ := newTestRegisterService(t, conn)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "   ",
		Password:  "long-enough-password",
		FirstName: "Sem",
		LastName:  "Email",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:     "curta@example.com",
		Password:  "short",
		FirstName: "Senha",
		LastName:  "Curta",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
