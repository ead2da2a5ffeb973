package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	addresses AddressService
}

func NewAddressHandler(addresses AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

func (h *AddressHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.addresses.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Search handles GET /addresses?neighborhood=.
func (h *AddressHandler) Search(c *gin.Context) {
	out, err := h.addresses.FindByNeighborhood(c.Request.Context(), c.Query("neighborhood"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}
