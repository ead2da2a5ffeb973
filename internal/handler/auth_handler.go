package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/naconsulta/internal/dto"
)

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var in dto.Login
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}
