package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/database/authorrequests"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// AuthorRequestStore defines database operations for the author moderation
// queue.
type AuthorRequestStore interface {
	Create(request *entities.AuthorRequest) error
	Approve(requestID, reviewerID uint) (*entities.Author, error)
	Reject(requestID, reviewerID uint, notes string) error
	GetByID(id uint) (*entities.AuthorRequest, error)
	List(status entities.RequestStatus, limit, offset int) ([]entities.AuthorRequest, error)
	ListByRequester(requesterID uint) ([]entities.AuthorRequest, error)
}

type AuthorRequestsController struct {
	store AuthorRequestStore
}

func NewAuthorRequestsController(store AuthorRequestStore) *AuthorRequestsController {
	return &AuthorRequestsController{store: store}
}

func respondAuthorRequestError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, authorrequests.ErrNotFound):
		respondNotFound(c, "author request not found")
	case errors.Is(err, authorrequests.ErrNameRequired),
		errors.Is(err, authorrequests.ErrAuthorExists),
		errors.Is(err, authorrequests.ErrDuplicateRequest),
		errors.Is(err, authorrequests.ErrNotPending),
		errors.Is(err, authorrequests.ErrNotesRequired):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// Create submits a new author proposal for review
// POST /api/author-requests
func (arc *AuthorRequestsController) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Nationality string `json:"nationality"`
		BirthDate   string `json:"birth_date"` // YYYY-MM-DD
		Biography   string `json:"biography"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	request := &entities.AuthorRequest{
		RequesterID: auth.GetAccountID(c),
		Name:        req.Name,
		Nationality: req.Nationality,
		Biography:   req.Biography,
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			respondBadRequest(c, "birth_date must be YYYY-MM-DD")
			return
		}
		request.BirthDate = &birthDate
	}

	if err := arc.store.Create(request); err != nil {
		respondAuthorRequestError(c, err, "create author request")
		return
	}

	respondCreated(c, request)
}

// List returns requests for moderation, optionally filtered by status
// GET /api/author-requests?status=&limit=&offset=
func (arc *AuthorRequestsController) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	list, err := arc.store.List(entities.RequestStatus(c.Query("status")), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list author requests")
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListMine returns the requests submitted by the calling account
// GET /api/author-requests/mine
func (arc *AuthorRequestsController) ListMine(c *gin.Context) {
	list, err := arc.store.ListByRequester(auth.GetAccountID(c))
	if err != nil {
		respondInternalError(c, err, "list own author requests")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns a single request
// GET /api/author-requests/:id
func (arc *AuthorRequestsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := arc.store.GetByID(id)
	if err != nil {
		respondAuthorRequestError(c, err, "get author request")
		return
	}

	c.JSON(http.StatusOK, request)
}

// Approve resolves a pending request and registers the author
// PUT /api/author-requests/:id/approve
func (arc *AuthorRequestsController) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := arc.store.Approve(id, auth.GetAccountID(c))
	if err != nil {
		respondAuthorRequestError(c, err, "approve author request")
		return
	}

	respondCreated(c, author)
}

// Reject resolves a pending request with a mandatory note
// PUT /api/author-requests/:id/reject
func (arc *AuthorRequestsController) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "notes is required")
		return
	}

	if err := arc.store.Reject(id, auth.GetAccountID(c), req.Notes); err != nil {
		respondAuthorRequestError(c, err, "reject author request")
		return
	}

	respondSuccess(c, "author request rejected")
}
