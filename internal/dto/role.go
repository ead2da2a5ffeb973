package dto

import "github.com/Leganyst/naconsulta/internal/model"

type RoleDTO struct {
	ID        int64  `json:"id"`
	Authority string `json:"authority"`
}

type TelephoneDTO struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

func NewRoles(roles []model.Role) []RoleDTO {
	out := make([]RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleDTO{ID: r.ID, Authority: r.Authority})
	}
	return out
}

func NewTelephones(phones []model.Telephone) []TelephoneDTO {
	out := make([]TelephoneDTO, 0, len(phones))
	for _, p := range phones {
		out = append(out, TelephoneDTO{ID: p.ID, Number: p.Number})
	}
	return out
}
