// Package handler exposes the services over HTTP with gin.
package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/pagination"
)

type UserService interface {
	Delete(ctx context.Context, id int64) error
	FindPage(ctx context.Context, name string, page, size int) (pagination.Page[dto.UserMin], error)
	Register(ctx context.Context, caller auth.Caller, in dto.UserInsert) (dto.UserForm, error)
	Update(ctx context.Context, caller auth.Caller, id int64, in dto.UserUpdate) (dto.UserForm, error)
	UserLogged(ctx context.Context, caller auth.Caller) (dto.UserMax, error)
	FindByID(ctx context.Context, caller auth.Caller, id int64) (dto.UserMax, error)
}

type AuthService interface {
	Login(ctx context.Context, in dto.Login) (dto.Token, error)
}

type AddressService interface {
	FindByID(ctx context.Context, id int64) (dto.AddressMin, error)
	FindByNeighborhood(ctx context.Context, name string) ([]dto.AddressMin, error)
}

type AppointmentService interface {
	FindByID(ctx context.Context, caller auth.Caller, id int64) (dto.AppointmentDTO, error)
	Update(ctx context.Context, caller auth.Caller, id int64, in dto.AppointmentUpdate) (dto.AppointmentDTO, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.BadRequest("Invalid id", []errs.FieldError{{Field: "id", Error: "must be a positive integer"}})
	}
	return id, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.BadRequest("Invalid query parameter", []errs.FieldError{{Field: name, Error: "must be an integer"}})
	}
	return n, nil
}

// bindJSON decodes the body; validation is left to the service.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errs.BadRequest("Invalid request body", nil).Wrap(err)
	}
	return nil
}
