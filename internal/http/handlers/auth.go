package handlers

import (
	"errors"
	"net/http"

	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := services.AuthService{
		Users:     repositories.UserRepository{},
		Tokens:    current().Tokens,
		RequestID: middleware.GetRequestID(c),
	}
	out, err := svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			RespondError(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/auth/me
func Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
