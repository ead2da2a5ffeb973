// Package service implements the use cases on top of the repositories.
//
// Reads go straight through the repositories. Writes run inside
// gorm.DB.Transaction with repositories bound to the transaction handle.
package service

import (
	"errors"
	"slices"

	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/repository"
	"github.com/Leganyst/naconsulta/internal/sqlerr"
)

// repos bundles the repositories over one handle (pool or transaction).
type repos struct {
	users        repository.UserRepository
	roles        repository.RoleRepository
	phones       repository.TelephoneRepository
	addresses    repository.AddressRepository
	appointments repository.AppointmentRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		users:        repository.NewGormUserRepository(db),
		roles:        repository.NewGormRoleRepository(db),
		phones:       repository.NewGormTelephoneRepository(db),
		addresses:    repository.NewGormAddressRepository(db),
		appointments: repository.NewGormAppointmentRepository(db),
	}
}

// storeErr converts a repository error. A missing row is reported with its id.
func storeErr(err error, entity string, id int64) error {
	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("%s %d not found", entity, id).Wrap(err)
	}
	return sqlerr.Translate(err, entity)
}

// uniqueIDs drops duplicates keeping the first occurrence.
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// firstMissing returns the first id in want that has no match in found.
func firstMissing[T any](want []int64, found []T, id func(T) int64) (int64, bool) {
	for _, w := range want {
		if !slices.ContainsFunc(found, func(f T) bool { return id(f) == w }) {
			return w, true
		}
	}
	return 0, false
}
