package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GGuiilhem/Biblioteca/internal/database"
	"github.com/GGuiilhem/Biblioteca/internal/database/books"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

func setupBooksTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func createAuthorRow(t *testing.T, db *database.Database, name string) *entities.Author {
	author := &entities.Author{Name: name}
	require.NoError(t, db.DB.Create(author).Error)
	return author
}

func TestBooksController_Create(t *testing.T) {
	t.Run("creates a book", func(t *testing.T) {
		db, cleanup := setupBooksTestDB(t)
		defer cleanup()

		author := createAuthorRow(t, db, "Robert C. Martin")

		controller := NewBooksController(books.NewRepository(db.DB))
		router := gin.New()
		router.POST("/api/books", controller.Create)

		body := bytes.NewBufferString(`{
			"title": "Clean Code",
			"author_id": ` + jsonUint(author.ID) + `,
			"isbn": "978-0-13-235088-4"
		}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "9780132350884", created.ISBN)
		assert.Equal(t, entities.BookStatusAvailable, created.Status)
		assert.Equal(t, 1, created.Edition)
	})

	t.Run("rejects a missing author", func(t *testing.T) {
		db, cleanup := setupBooksTestDB(t)
		defer cleanup()

		controller := NewBooksController(books.NewRepository(db.DB))
		router := gin.New()
		router.POST("/api/books", controller.Create)

		body := bytes.NewBufferString(`{"title": "Orphan", "author_id": 999, "isbn": "9780132350884"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a malformed isbn", func(t *testing.T) {
		db, cleanup := setupBooksTestDB(t)
		defer cleanup()

		author := createAuthorRow(t, db, "Robert C. Martin")

		controller := NewBooksController(books.NewRepository(db.DB))
		router := gin.New()
		router.POST("/api/books", controller.Create)

		body := bytes.NewBufferString(`{
			"title": "Clean Code",
			"author_id": ` + jsonUint(author.ID) + `,
			"isbn": "not-an-isbn"
		}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_List(t *testing.T) {
	t.Run("looks up by isbn", func(t *testing.T) {
		db, cleanup := setupBooksTestDB(t)
		defer cleanup()

		author := createAuthorRow(t, db, "Robert C. Martin")
		repo := books.NewRepository(db.DB)
		require.NoError(t, repo.Create(&entities.Book{
			Title: "Clean Code", AuthorID: author.ID, ISBN: "9780132350884",
		}))

		controller := NewBooksController(repo)
		router := gin.New()
		router.GET("/api/books", controller.List)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books?isbn=978-0-13-235088-4", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var found []entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
		require.Len(t, found, 1)
		assert.Equal(t, "Clean Code", found[0].Title)
	})

	t.Run("filters by status", func(t *testing.T) {
		db, cleanup := setupBooksTestDB(t)
		defer cleanup()

		author := createAuthorRow(t, db, "Robert C. Martin")
		repo := books.NewRepository(db.DB)
		require.NoError(t, repo.Create(&entities.Book{
			Title: "Clean Code", AuthorID: author.ID, ISBN: "9780132350884",
		}))
		borrowed := &entities.Book{
			Title: "Refactoring", AuthorID: author.ID, ISBN: "9780201485677",
		}
		require.NoError(t, repo.Create(borrowed))
		require.NoError(t, db.DB.Model(borrowed).
			Update("status", entities.BookStatusBorrowed).Error)

		controller := NewBooksController(repo)
		router := gin.New()
		router.GET("/api/books", controller.List)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books?status=available", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var list []entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "Clean Code", list[0].Title)
	})
}

func TestBooksController_Delete(t *testing.T) {
	t.Run("refuses a book with an active loan", func(t *testing.T) {
		db, cleanup := setupBooksTestDB(t)
		defer cleanup()

		author := createAuthorRow(t, db, "Robert C. Martin")
		repo := books.NewRepository(db.DB)
		book := &entities.Book{Title: "Clean Code", AuthorID: author.ID, ISBN: "9780132350884"}
		require.NoError(t, repo.Create(book))

		borrower := &entities.Borrower{
			Name:               "Reader",
			Email:              "reader@example.com",
			RegistrationNumber: "2026001",
			Active:             true,
		}
		require.NoError(t, db.DB.Create(borrower).Error)
		require.NoError(t, db.DB.Create(&entities.Loan{
			BorrowerID: borrower.ID,
			BookID:     book.ID,
			Status:     entities.LoanStatusActive,
		}).Error)

		controller := NewBooksController(repo)
		router := gin.New()
		router.DELETE("/api/books/:id", controller.Delete)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/books/"+jsonUint(book.ID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
