package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// Context keys for account data
const (
	ContextKeyAccountID    = "auth_account_id"
	ContextKeyAccountName  = "auth_account_name"
	ContextKeyRegistration = "auth_registration"
	ContextKeyRole         = "auth_role"
)

// Middleware resolves bearer tokens into accounts for HTTP requests.
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// Handler authenticates requests that carry a bearer token. Requests without
// one pass through anonymously; the Require gates decide whether that is
// acceptable for a given route.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if account := m.tryBearerAuth(c); account != nil {
			setAccountContext(c, account)
		}
		c.Next()
	}
}

// RequireAuth refuses requests that did not resolve to an account.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAccountID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin refuses requests whose account lacks the admin capability.
// Runs after RequireAuth so an anonymous request gets 401, not 403.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAccountID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if GetRole(c) != entities.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "administrator access required",
			})
			return
		}
		c.Next()
	}
}

func (m *Middleware) tryBearerAuth(c *gin.Context) *entities.Account {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}

	account, err := m.service.ValidateToken(parts[1])
	if err != nil {
		return nil
	}
	return account
}

func setAccountContext(c *gin.Context, account *entities.Account) {
	c.Set(ContextKeyAccountID, account.ID)
	c.Set(ContextKeyAccountName, account.Name)
	c.Set(ContextKeyRegistration, account.RegistrationNumber)
	c.Set(ContextKeyRole, account.Role())
}

// GetAccountID retrieves the authenticated account's ID from the context.
// Returns 0 for anonymous requests.
func GetAccountID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyAccountID); exists {
		if accountID, ok := id.(uint); ok {
			return accountID
		}
	}
	return 0
}

// GetAccountName retrieves the authenticated account's name from the context.
func GetAccountName(c *gin.Context) string {
	if n, exists := c.Get(ContextKeyAccountName); exists {
		if name, ok := n.(string); ok {
			return name
		}
	}
	return ""
}

// GetRegistration retrieves the account's registration number from the context.
func GetRegistration(c *gin.Context) string {
	if r, exists := c.Get(ContextKeyRegistration); exists {
		if registration, ok := r.(string); ok {
			return registration
		}
	}
	return ""
}

// GetRole retrieves the account's capability from the context. Anonymous
// requests report the regular role.
func GetRole(c *gin.Context) entities.Role {
	if r, exists := c.Get(ContextKeyRole); exists {
		if role, ok := r.(entities.Role); ok {
			return role
		}
	}
	return entities.RoleRegular
}
