package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/database/authors"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// AuthorStore defines database operations for author management.
type AuthorStore interface {
	Create(author *entities.Author) error
	GetByID(id uint) (*entities.Author, error)
	List(limit, offset int) ([]entities.Author, error)
	Search(name string) ([]entities.Author, error)
	Update(author *entities.Author) error
	Delete(id uint) error
}

type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

type authorRequest struct {
	Name        string `json:"name" binding:"required"`
	Nationality string `json:"nationality"`
	BirthDate   string `json:"birth_date"` // YYYY-MM-DD
	Biography   string `json:"biography"`
}

func (req *authorRequest) toEntity() (*entities.Author, error) {
	author := &entities.Author{
		Name:        req.Name,
		Nationality: req.Nationality,
		Biography:   req.Biography,
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, err
		}
		author.BirthDate = &birthDate
	}
	return author, nil
}

// Create adds a new author to the catalog
// POST /api/authors
func (ac *AuthorsController) Create(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	author, err := req.toEntity()
	if err != nil {
		respondBadRequest(c, "birth_date must be YYYY-MM-DD")
		return
	}

	if err := ac.store.Create(author); err != nil {
		if errors.Is(err, authors.ErrNameRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create author")
		return
	}

	respondCreated(c, author)
}

// Get returns a single author
// GET /api/authors/:id
func (ac *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, authors.ErrNotFound) {
			respondNotFound(c, "author not found")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	c.JSON(http.StatusOK, author)
}

// List returns authors, optionally filtered by name
// GET /api/authors?name=&limit=&offset=
func (ac *AuthorsController) List(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		found, err := ac.store.Search(name)
		if err != nil {
			respondInternalError(c, err, "search authors")
			return
		}
		c.JSON(http.StatusOK, found)
		return
	}

	limit, offset := parsePagination(c)
	list, err := ac.store.List(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Update modifies an author
// PUT /api/authors/:id
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	author, err := req.toEntity()
	if err != nil {
		respondBadRequest(c, "birth_date must be YYYY-MM-DD")
		return
	}
	author.ID = id

	if err := ac.store.Update(author); err != nil {
		switch {
		case errors.Is(err, authors.ErrNotFound):
			respondNotFound(c, "author not found")
		case errors.Is(err, authors.ErrNameRequired):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update author")
		}
		return
	}

	updated, err := ac.store.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "reload author")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes an author without books
// DELETE /api/authors/:id
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.store.Delete(id); err != nil {
		switch {
		case errors.Is(err, authors.ErrNotFound):
			respondNotFound(c, "author not found")
		case errors.Is(err, authors.ErrHasBooks):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "delete author")
		}
		return
	}

	respondSuccess(c, "author deleted")
}
