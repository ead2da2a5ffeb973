package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/sqlerr"
)

// AddressService отдаёт адреса клиник вместе с врачами. Только чтение.
type AddressService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAddressService(db *gorm.DB, log zerolog.Logger) *AddressService {
	return &AddressService{db: db, log: log.With().Str("component", "address_service").Logger()}
}

func (s *AddressService) FindByID(ctx context.Context, id int64) (dto.AddressMin, error) {
	a, err := newRepos(s.db).addresses.FindByID(ctx, id)
	if err != nil {
		return dto.AddressMin{}, storeErr(err, "Address", id)
	}
	return dto.NewAddressMin(a), nil
}

// FindByNeighborhood matches name as a case-insensitive substring of the
// neighborhood. No match is an empty list, not an error.
func (s *AddressService) FindByNeighborhood(ctx context.Context, name string) ([]dto.AddressMin, error) {
	addresses, err := newRepos(s.db).addresses.SearchByNeighborhood(ctx, name)
	if err != nil {
		return nil, sqlerr.Translate(err, "address")
	}
	s.log.Debug().Str("neighborhood", name).Int("found", len(addresses)).Msg("address search")
	return dto.NewAddressMins(addresses), nil
}
