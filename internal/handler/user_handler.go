package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/middleware"
)

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /users. Anonymous callers register as patients.
func (h *UserHandler) Create(c *gin.Context) {
	var in dto.UserInsert
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.users.Register(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// List handles GET /users?name=&page=&size=.
func (h *UserHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		_ = c.Error(err)
		return
	}
	size, err := queryInt(c, "size")
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := h.users.FindPage(c.Request.Context(), c.Query("name"), page, size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Me(c *gin.Context) {
	out, err := h.users.UserLogged(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.users.FindByID(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var in dto.UserUpdate
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.users.Update(c.Request.Context(), middleware.CallerFrom(c), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
