package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/database/books"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// BookStore defines database operations for the book catalog.
type BookStore interface {
	Create(book *entities.Book) error
	GetByID(id uint) (*entities.Book, error)
	GetByISBN(isbn string) (*entities.Book, error)
	List(filter books.ListFilter) ([]entities.Book, error)
	Update(book *entities.Book) error
	SetMaintenance(id uint, maintenance bool) error
	Delete(id uint) error
	AddCategory(bookID, categoryID uint) error
	RemoveCategory(bookID, categoryID uint) error
	CreateCategory(category *entities.Category) error
	ListCategories() ([]entities.Category, error)
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type bookRequest struct {
	Title           string `json:"title" binding:"required"`
	Subtitle        string `json:"subtitle"`
	AuthorID        uint   `json:"author_id" binding:"required"`
	PublisherID     *uint  `json:"publisher_id"`
	ISBN            string `json:"isbn" binding:"required"`
	Edition         int    `json:"edition"`
	PublicationYear int    `json:"publication_year"`
	Pages           int    `json:"pages"`
	Synopsis        string `json:"synopsis"`
	Language        string `json:"language"`
	CoverURL        string `json:"cover_url"`
}

func (req *bookRequest) toEntity() *entities.Book {
	edition := req.Edition
	if edition == 0 {
		edition = 1
	}
	return &entities.Book{
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		AuthorID:        req.AuthorID,
		PublisherID:     req.PublisherID,
		ISBN:            req.ISBN,
		Edition:         edition,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		Synopsis:        req.Synopsis,
		Language:        req.Language,
		CoverURL:        req.CoverURL,
	}
}

func respondBookError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, books.ErrNotFound):
		respondNotFound(c, "book not found")
	case errors.Is(err, books.ErrAuthorNotFound):
		respondNotFound(c, "author not found")
	case errors.Is(err, books.ErrPublisherNotFound):
		respondNotFound(c, "publisher not found")
	case errors.Is(err, books.ErrCategoryNotFound):
		respondNotFound(c, "category not found")
	case errors.Is(err, books.ErrTitleRequired),
		errors.Is(err, books.ErrInvalidISBN),
		errors.Is(err, books.ErrISBNTaken),
		errors.Is(err, books.ErrHasActiveLoan):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// Create registers a new book
// POST /api/books
func (bc *BooksController) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author_id and isbn are required")
		return
	}

	book := req.toEntity()
	if err := bc.store.Create(book); err != nil {
		respondBookError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// Get returns a single book with its relations
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		respondBookError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// List returns books with optional filters
// GET /api/books?status=&author_id=&publisher_id=&title=&limit=&offset=
func (bc *BooksController) List(c *gin.Context) {
	if isbn := c.Query("isbn"); isbn != "" {
		book, err := bc.store.GetByISBN(isbn)
		if err != nil {
			respondBookError(c, err, "get book by isbn")
			return
		}
		c.JSON(http.StatusOK, []entities.Book{*book})
		return
	}

	limit, offset := parsePagination(c)
	filter := books.ListFilter{
		Status:      entities.BookStatus(c.Query("status")),
		AuthorID:    parseQueryUint(c, "author_id"),
		PublisherID: parseQueryUint(c, "publisher_id"),
		Title:       c.Query("title"),
		Limit:       limit,
		Offset:      offset,
	}

	list, err := bc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Update modifies a book's descriptive fields
// PUT /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author_id and isbn are required")
		return
	}

	book := req.toEntity()
	book.ID = id
	if err := bc.store.Update(book); err != nil {
		respondBookError(c, err, "update book")
		return
	}

	updated, err := bc.store.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "reload book")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetMaintenance moves a book in or out of maintenance
// PUT /api/books/:id/maintenance
func (bc *BooksController) SetMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Maintenance bool `json:"maintenance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "maintenance flag is required")
		return
	}

	if err := bc.store.SetMaintenance(id, req.Maintenance); err != nil {
		respondBookError(c, err, "set maintenance")
		return
	}

	respondSuccess(c, "book status updated")
}

// Delete removes a book with no active loan
// DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(id); err != nil {
		respondBookError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

// AddCategory attaches a category to a book
// POST /api/books/:id/categories
func (bc *BooksController) AddCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		CategoryID uint `json:"category_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "category_id is required")
		return
	}

	if err := bc.store.AddCategory(bookID, req.CategoryID); err != nil {
		respondBookError(c, err, "add category")
		return
	}

	respondSuccess(c, "category added")
}

// RemoveCategory detaches a category from a book
// DELETE /api/books/:id/categories/:categoryId
func (bc *BooksController) RemoveCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}

	if err := bc.store.RemoveCategory(bookID, categoryID); err != nil {
		respondBookError(c, err, "remove category")
		return
	}

	respondSuccess(c, "category removed")
}

// CreateCategory registers a new category
// POST /api/categories
func (bc *BooksController) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category := &entities.Category{Name: req.Name, Description: req.Description}
	if err := bc.store.CreateCategory(category); err != nil {
		respondInternalError(c, err, "create category")
		return
	}

	respondCreated(c, category)
}

// ListCategories returns all categories
// GET /api/categories
func (bc *BooksController) ListCategories(c *gin.Context) {
	list, err := bc.store.ListCategories()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, list)
}
