package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/database"
	"github.com/GGuiilhem/Biblioteca/internal/database/borrowers"
	"github.com/GGuiilhem/Biblioteca/internal/database/loans"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

type loansFixture struct {
	db         *database.Database
	controller *LoansController
	account    *entities.Account
	adminAcct  *entities.Account
	book       *entities.Book
	borrower   *entities.Borrower
}

// stubAccountLookup serves accounts from memory so the controller tests do
// not need the full auth service.
type stubAccountLookup struct {
	accounts map[uint]*entities.Account
}

func (s *stubAccountLookup) GetAccountByID(id uint) (*entities.Account, error) {
	if account, ok := s.accounts[id]; ok {
		return account, nil
	}
	return nil, auth.ErrAccountNotFound
}

func setupLoansTest(t *testing.T) (*loansFixture, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_loans_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	author := &entities.Author{Name: "Test Author"}
	require.NoError(t, db.DB.Create(author).Error)
	book := &entities.Book{
		Title:    "Test Book",
		AuthorID: author.ID,
		ISBN:     "9780132350884",
		Status:   entities.BookStatusAvailable,
	}
	require.NoError(t, db.DB.Create(book).Error)

	account := &entities.Account{
		RegistrationNumber: "2026007",
		Name:               "Regular Reader",
		Email:              "reader@example.com",
	}
	require.NoError(t, db.DB.Create(account).Error)

	adminAcct := &entities.Account{
		RegistrationNumber: "2026001",
		Name:               "Librarian",
		Email:              "librarian@example.com",
		Admin:              true,
	}
	require.NoError(t, db.DB.Create(adminAcct).Error)

	borrower := &entities.Borrower{
		Name:               "Walk-in Borrower",
		Email:              "walkin@example.com",
		RegistrationNumber: "2025050",
		Active:             true,
	}
	require.NoError(t, db.DB.Create(borrower).Error)

	borrowerRepo := borrowers.NewRepository(db.DB)
	lookup := &stubAccountLookup{accounts: map[uint]*entities.Account{
		account.ID:   account,
		adminAcct.ID: adminAcct,
	}}
	controller := NewLoansController(
		loans.NewRepository(db.DB, loans.DefaultPolicy),
		borrowerRepo,
		lookup,
	)

	fixture := &loansFixture{
		db:         db,
		controller: controller,
		account:    account,
		adminAcct:  adminAcct,
		book:       book,
		borrower:   borrower,
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return fixture, cleanup
}

// actAs injects the account identity the way the bearer middleware would.
func actAs(account *entities.Account) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextKeyAccountID, account.ID)
		c.Set(auth.ContextKeyAccountName, account.Name)
		c.Set(auth.ContextKeyRegistration, account.RegistrationNumber)
		c.Set(auth.ContextKeyRole, account.Role())
		c.Next()
	}
}

func TestLoansController_Create(t *testing.T) {
	t.Run("regular account borrows for itself", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		router := gin.New()
		router.POST("/api/loans", actAs(fixture.account), fixture.controller.Create)

		// borrower_id pointing elsewhere is ignored for regular accounts
		body := bytes.NewBufferString(`{
			"book_id": ` + jsonUint(fixture.book.ID) + `,
			"borrower_id": ` + jsonUint(fixture.borrower.ID) + `
		}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/loans", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var loan entities.Loan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
		assert.NotEqual(t, fixture.borrower.ID, loan.BorrowerID)

		// The profile was auto-created from the account
		var profile entities.Borrower
		require.NoError(t, fixture.db.DB.First(&profile, loan.BorrowerID).Error)
		assert.Equal(t, fixture.account.RegistrationNumber, profile.RegistrationNumber)
	})

	t.Run("admin loans to any borrower", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		router := gin.New()
		router.POST("/api/loans", actAs(fixture.adminAcct), fixture.controller.Create)

		body := bytes.NewBufferString(`{
			"book_id": ` + jsonUint(fixture.book.ID) + `,
			"borrower_id": ` + jsonUint(fixture.borrower.ID) + `
		}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/loans", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var loan entities.Loan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
		assert.Equal(t, fixture.borrower.ID, loan.BorrowerID)
	})

	t.Run("admin must name a borrower", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		router := gin.New()
		router.POST("/api/loans", actAs(fixture.adminAcct), fixture.controller.Create)

		body := bytes.NewBufferString(`{"book_id": ` + jsonUint(fixture.book.ID) + `}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/loans", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unavailable book is refused", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		require.NoError(t, fixture.db.DB.Model(fixture.book).
			Update("status", entities.BookStatusBorrowed).Error)

		router := gin.New()
		router.POST("/api/loans", actAs(fixture.adminAcct), fixture.controller.Create)

		body := bytes.NewBufferString(`{
			"book_id": ` + jsonUint(fixture.book.ID) + `,
			"borrower_id": ` + jsonUint(fixture.borrower.ID) + `
		}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/loans", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoansController_Return(t *testing.T) {
	t.Run("computes the late fine", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		repo := loans.NewRepository(fixture.db.DB, loans.DefaultPolicy)
		loan, err := repo.Create(fixture.borrower.ID, fixture.book.ID, "")
		require.NoError(t, err)

		router := gin.New()
		router.PUT("/api/loans/:id/return", actAs(fixture.adminAcct), fixture.controller.Return)

		// Two days past due
		returnedAt := loan.DueAt.AddDate(0, 0, 2).Format(time.RFC3339)
		body := bytes.NewBufferString(`{"returned_at": "` + returnedAt + `"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/loans/"+jsonUint(loan.ID)+"/return", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var returned entities.Loan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &returned))
		assert.Equal(t, entities.LoanStatusReturned, returned.Status)
		assert.InDelta(t, 2*loans.DefaultPolicy.DailyFine, returned.Fine, 0.001)
	})

	t.Run("honours the fine override", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		repo := loans.NewRepository(fixture.db.DB, loans.DefaultPolicy)
		loan, err := repo.Create(fixture.borrower.ID, fixture.book.ID, "")
		require.NoError(t, err)

		router := gin.New()
		router.PUT("/api/loans/:id/return", actAs(fixture.adminAcct), fixture.controller.Return)

		returnedAt := loan.DueAt.AddDate(0, 0, 5).Format(time.RFC3339)
		body := bytes.NewBufferString(`{"returned_at": "` + returnedAt + `", "fine": 0, "notes": "damaged cover waived"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/loans/"+jsonUint(loan.ID)+"/return", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var returned entities.Loan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &returned))
		assert.Zero(t, returned.Fine)
	})

	t.Run("rejects a negative fine", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		repo := loans.NewRepository(fixture.db.DB, loans.DefaultPolicy)
		loan, err := repo.Create(fixture.borrower.ID, fixture.book.ID, "")
		require.NoError(t, err)

		router := gin.New()
		router.PUT("/api/loans/:id/return", actAs(fixture.adminAcct), fixture.controller.Return)

		body := bytes.NewBufferString(`{"fine": -5}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/loans/"+jsonUint(loan.ID)+"/return", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returning twice fails", func(t *testing.T) {
		fixture, cleanup := setupLoansTest(t)
		defer cleanup()

		repo := loans.NewRepository(fixture.db.DB, loans.DefaultPolicy)
		loan, err := repo.Create(fixture.borrower.ID, fixture.book.ID, "")
		require.NoError(t, err)
		_, err = repo.Return(loan.ID, time.Now(), nil, "")
		require.NoError(t, err)

		router := gin.New()
		router.PUT("/api/loans/:id/return", actAs(fixture.adminAcct), fixture.controller.Return)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/loans/"+jsonUint(loan.ID)+"/return", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
