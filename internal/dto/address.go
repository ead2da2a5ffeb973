package dto

import (
	"slices"

	"github.com/Leganyst/naconsulta/internal/model"
)

// AddressMin is an address together with the doctors attending there.
type AddressMin struct {
	ID           int64       `json:"id"`
	Street       string      `json:"street"`
	Number       string      `json:"number"`
	Complement   string      `json:"complement"`
	Neighborhood string      `json:"neighborhood"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	ZipCode      string      `json:"zipCode"`
	Doctors      []DoctorDTO `json:"doctors"`
}

type DoctorDTO struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Registration string   `json:"registration"`
	Specialties  []string `json:"specialties"`
}

func NewAddressMin(a *model.Address) AddressMin {
	return AddressMin{
		ID:           a.ID,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		Doctors:      NewDoctors(a.Doctors),
	}
}

func NewAddressMins(addresses []model.Address) []AddressMin {
	out := make([]AddressMin, 0, len(addresses))
	for i := range addresses {
		out = append(out, NewAddressMin(&addresses[i]))
	}
	return out
}

func NewDoctor(d *model.Doctor) DoctorDTO {
	specialties := slices.Clone([]string(d.Specialties))
	if specialties == nil {
		specialties = []string{}
	}
	return DoctorDTO{
		ID:           d.ID,
		Name:         d.Name,
		Registration: d.Registration,
		Specialties:  specialties,
	}
}

func NewDoctors(doctors []model.Doctor) []DoctorDTO {
	out := make([]DoctorDTO, 0, len(doctors))
	for i := range doctors {
		out = append(out, NewDoctor(&doctors[i]))
	}
	return out
}
