package auth

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GGuiilhem/Biblioteca/internal/config"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

func setupTestService(t *testing.T) (*gorm.DB, *Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.Account{}))

	service := NewService(db, config.Auth{
		TokenExpiry: time.Hour,
		BcryptCost:  4, // minimum cost keeps tests fast
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, service, cleanup
}

func TestService_Register(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.Register("Ana Souza", "Ana@Example.com", "secret1", "secret1")
	require.NoError(t, err)

	assert.NotZero(t, account.ID)
	assert.Equal(t, "ana@example.com", account.Email)
	assert.False(t, account.Admin)
	assert.NotEqual(t, "secret1", account.PasswordHash)

	year := fmt.Sprintf("%d", time.Now().Year())
	assert.Equal(t, year+"001", account.RegistrationNumber)
}

func TestService_Register_Validation(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("", "ana@example.com", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = service.Register("Ana", "not-an-email", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = service.Register("Ana", "ana@example.com", "secret1", "different")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = service.Register("Ana", "ana@example.com", "", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = service.Register("Ana", "ana@example.com", "short", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Ana", "ana@example.com", "secret1", "secret1")
	require.NoError(t, err)

	// Email comparison is case-insensitive
	_, err = service.Register("Other", "ANA@example.com", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_RegistrationNumbers_Sequential(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	year := fmt.Sprintf("%d", time.Now().Year())

	for i := 1; i <= 3; i++ {
		account, err := service.Register("Reader", fmt.Sprintf("reader%d@example.com", i), "secret1", "secret1")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%s%03d", year, i), account.RegistrationNumber)
	}
}

func TestService_CreateAdmin(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	account, err := service.CreateAdmin("Admin", "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, account.Admin)
	assert.Equal(t, entities.RoleAdmin, account.Role())
}

func TestService_Login(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Ana", "ana@example.com", "secret1", "secret1")
	require.NoError(t, err)

	account, token, err := service.Login("ana@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, account.LastLoginAt)

	// The plaintext token is never stored
	assert.NotEqual(t, token, account.TokenHash)
}

func TestService_Login_BadCredentials(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Ana", "ana@example.com", "secret1", "secret1")
	require.NoError(t, err)

	_, _, err = service.Login("ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = service.Login("nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestService_ValidateToken(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	registered, err := service.Register("Ana", "ana@example.com", "secret1", "secret1")
	require.NoError(t, err)

	_, token, err := service.Login("ana@example.com", "secret1")
	require.NoError(t, err)

	account, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)

	_, err = service.ValidateToken("deadbeef")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	db, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Ana", "ana@example.com", "secret1", "secret1")
	require.NoError(t, err)

	_, token, err := service.Login("ana@example.com", "secret1")
	require.NoError(t, err)

	// Age the token past the expiry window
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&entities.Account{}).
		Where("email = ?", "ana@example.com").
		Update("token_created_at", stale).Error)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_Login_ReplacesToken(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("Ana", "ana@example.com", "secret1", "secret1")
	require.NoError(t, err)

	_, first, err := service.Login("ana@example.com", "secret1")
	require.NoError(t, err)
	_, second, err := service.Login("ana@example.com", "secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Only the latest token resolves
	_, err = service.ValidateToken(first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = service.ValidateToken(second)
	require.NoError(t, err)
}

func TestService_TokenExpirySeconds(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	assert.Equal(t, 3600, service.TokenExpirySeconds())
}
