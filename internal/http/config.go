package http

import (
	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/database"
)

// RouterConfig carries every dependency the router needs. A single struct
// keeps NewRouter's signature stable as controllers are added.
type RouterConfig struct {
	Database *database.Database

	AuthService    AuthService
	AuthMiddleware *auth.Middleware

	AuthorStore        AuthorStore
	PublisherStore     PublisherStore
	BookStore          BookStore
	BorrowerStore      BorrowerStore
	BorrowerResolver   BorrowerResolver
	AccountLookup      AccountLookup
	LoanStore          LoanStore
	ReservationStore   ReservationStore
	AuthorRequestStore AuthorRequestStore

	TemplatesPath string
	StaticPath    string
	Version       string
}
