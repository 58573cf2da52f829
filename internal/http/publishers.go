package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/database/publishers"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// PublisherStore defines database operations for publisher management.
type PublisherStore interface {
	Create(publisher *entities.Publisher) error
	GetByID(id uint) (*entities.Publisher, error)
	List() ([]entities.Publisher, error)
	Update(publisher *entities.Publisher) error
	Delete(id uint) error
}

type PublishersController struct {
	store PublisherStore
}

func NewPublishersController(store PublisherStore) *PublishersController {
	return &PublishersController{store: store}
}

type publisherRequest struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Create adds a new publisher
// POST /api/publishers
func (pc *PublishersController) Create(c *gin.Context) {
	var req publisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	publisher := &entities.Publisher{Name: req.Name, City: req.City, Country: req.Country}
	if err := pc.store.Create(publisher); err != nil {
		switch {
		case errors.Is(err, publishers.ErrNameRequired), errors.Is(err, publishers.ErrNameTaken):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create publisher")
		}
		return
	}

	respondCreated(c, publisher)
}

// Get returns a single publisher
// GET /api/publishers/:id
func (pc *PublishersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	publisher, err := pc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, publishers.ErrNotFound) {
			respondNotFound(c, "publisher not found")
			return
		}
		respondInternalError(c, err, "get publisher")
		return
	}

	c.JSON(http.StatusOK, publisher)
}

// List returns all publishers
// GET /api/publishers
func (pc *PublishersController) List(c *gin.Context) {
	list, err := pc.store.List()
	if err != nil {
		respondInternalError(c, err, "list publishers")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Update modifies a publisher
// PUT /api/publishers/:id
func (pc *PublishersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req publisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	publisher := &entities.Publisher{ID: id, Name: req.Name, City: req.City, Country: req.Country}
	if err := pc.store.Update(publisher); err != nil {
		switch {
		case errors.Is(err, publishers.ErrNotFound):
			respondNotFound(c, "publisher not found")
		case errors.Is(err, publishers.ErrNameRequired), errors.Is(err, publishers.ErrNameTaken):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update publisher")
		}
		return
	}

	updated, err := pc.store.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "reload publisher")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a publisher that owns no books
// DELETE /api/publishers/:id
func (pc *PublishersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := pc.store.Delete(id); err != nil {
		switch {
		case errors.Is(err, publishers.ErrNotFound):
			respondNotFound(c, "publisher not found")
		case errors.Is(err, publishers.ErrHasBooks):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "delete publisher")
		}
		return
	}

	respondSuccess(c, "publisher deleted")
}
