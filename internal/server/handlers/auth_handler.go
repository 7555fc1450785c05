package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/server/middleware"
)

// AuthHandler exposes sign-up, sign-in and session endpoints.
type AuthHandler struct {
	svc    AuthService
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var creds models.Credentials
	if err := bindJSON(c, &creds); err != nil {
		fail(c, err)
		return
	}

	session, err := h.svc.SignUp(c.Request.Context(), creds)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var creds models.Credentials
	if err := bindJSON(c, &creds); err != nil {
		fail(c, err)
		return
	}

	session, err := h.svc.SignIn(c.Request.Context(), creds)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) SignInFederated(c *gin.Context) {
	var creds models.FederatedCredentials
	if err := bindJSON(c, &creds); err != nil {
		fail(c, err)
		return
	}

	session, err := h.svc.SignInFederated(c.Request.Context(), creds)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		fail(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	if err := h.svc.SignOut(c.Request.Context(), principal); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session reports the signed-in account.
func (h *AuthHandler) Session(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		fail(c, apperror.NewUnauthorized("authentication required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      principal.Identity,
		"expiresAt": principal.ExpiresAt,
	})
}

// fail hands err to the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
