package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/middleware"
)

type AppointmentHandler struct {
	appointments AppointmentService
}

func NewAppointmentHandler(appointments AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.appointments.FindByID(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var in dto.AppointmentUpdate
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.appointments.Update(c.Request.Context(), middleware.CallerFrom(c), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}
