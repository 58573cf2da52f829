package borrowers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_borrowers_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Borrower{},
		&entities.Account{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func testBorrower(registration string) *entities.Borrower {
	return &entities.Borrower{
		Name:               "Ana Souza",
		Email:              registration + "@example.com",
		RegistrationNumber: registration,
		Active:             true,
	}
}

func TestRepository_Create(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	borrower := testBorrower("2026001")
	borrower.NationalID = "12345678901"
	require.NoError(t, repo.Create(borrower))
	assert.NotZero(t, borrower.ID)
	assert.Equal(t, entities.BorrowerTypeStudent, borrower.Type)
}

func TestRepository_Create_Validation(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Create(&entities.Borrower{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrNameRequired)

	bad := testBorrower("2026001")
	bad.NationalID = "123"
	err = repo.Create(bad)
	assert.ErrorIs(t, err, ErrNationalIDInvalid)
}

func TestRepository_Create_Uniqueness(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := testBorrower("2026001")
	first.NationalID = "12345678901"
	require.NoError(t, repo.Create(first))

	dupEmail := testBorrower("2026002")
	dupEmail.Email = first.Email
	assert.ErrorIs(t, repo.Create(dupEmail), ErrEmailTaken)

	dupNationalID := testBorrower("2026003")
	dupNationalID.NationalID = "12345678901"
	assert.ErrorIs(t, repo.Create(dupNationalID), ErrNationalIDTaken)

	dupRegistration := testBorrower("2026001")
	dupRegistration.Email = "other@example.com"
	assert.ErrorIs(t, repo.Create(dupRegistration), ErrRegistrationTaken)
}

func TestRepository_GetOrCreateForAccount(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	account := &entities.Account{
		RegistrationNumber: "2026042",
		Name:               "Ana Souza",
		Email:              "ana@example.com",
	}

	// First call creates a student profile from the account
	created, err := repo.GetOrCreateForAccount(account)
	require.NoError(t, err)
	assert.Equal(t, "2026042", created.RegistrationNumber)
	assert.Equal(t, entities.BorrowerTypeStudent, created.Type)
	assert.True(t, created.Active)

	// Second call finds the same profile
	found, err := repo.GetOrCreateForAccount(account)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRepository_List(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	active := testBorrower("2026001")
	require.NoError(t, repo.Create(active))
	inactive := testBorrower("2026002")
	inactive.Active = false
	require.NoError(t, repo.Create(inactive))

	all, err := repo.List(false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := repo.List(true, 0, 0)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)
}

func TestRepository_Deactivate(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	borrower := testBorrower("2026001")
	require.NoError(t, repo.Create(borrower))

	require.NoError(t, repo.Deactivate(borrower.ID))

	// The row survives with the flag off
	kept, err := repo.GetByID(borrower.ID)
	require.NoError(t, err)
	assert.False(t, kept.Active)

	assert.ErrorIs(t, repo.Deactivate(999), ErrNotFound)
}
