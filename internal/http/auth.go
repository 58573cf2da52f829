package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/entities"
)

// AuthService defines the account operations exposed over HTTP.
type AuthService interface {
	Register(name, email, password, confirmation string) (*entities.Account, error)
	Login(email, password string) (*entities.Account, string, error)
	GetAccountByID(id uint) (*entities.Account, error)
	TokenExpirySeconds() int
}

type AuthController struct {
	service AuthService
}

func NewAuthController(service AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Name                 string `json:"name" form:"name" binding:"required"`
	Email                string `json:"email" form:"email" binding:"required"`
	Password             string `json:"password" form:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func respondAuthError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrEmailInvalid),
		errors.Is(err, auth.ErrNameRequired),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// Register creates an account with a generated registration number
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email, password and password_confirmation are required")
		return
	}

	account, err := ac.service.Register(req.Name, req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		respondAuthError(c, err, "register account")
		return
	}

	respondCreated(c, account)
}

// Login validates credentials and issues a bearer token
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	_, token, err := ac.service.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   ac.service.TokenExpirySeconds(),
	})
}

// Me returns the calling account
// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	account, err := ac.service.GetAccountByID(auth.GetAccountID(c))
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			respondNotFound(c, "account not found")
			return
		}
		respondInternalError(c, err, "load account")
		return
	}

	c.JSON(http.StatusOK, account)
}

// Logout acknowledges the client discarding its token. Tokens are replaced on
// the next login and age out via the configured expiry.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	respondSuccess(c, "logged out")
}

// LoginForm handles the HTML login form, handing the token back to the page
// POST /login
func (ac *AuthController) LoginForm(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "email and password are required",
		})
		return
	}

	account, token, err := ac.service.Login(req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrBadCredentials) {
			status = http.StatusUnauthorized
		}
		c.HTML(status, "login.html", gin.H{"Error": "incorrect email or password"})
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Account": account,
		"Token":   token,
	})
}

// RegisterForm handles the HTML registration form
// POST /register
func (ac *AuthController) RegisterForm(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": "all fields are required",
		})
		return
	}

	if _, err := ac.service.Register(req.Name, req.Email, req.Password, req.PasswordConfirmation); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/login")
}

// LogoutForm sends the browser back to the dashboard. The token lives in the
// page, not a cookie, so there is nothing server-side to clear.
// POST /logout
func (ac *AuthController) LogoutForm(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
