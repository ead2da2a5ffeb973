package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/model"
	"github.com/Leganyst/naconsulta/internal/pagination"
	"github.com/Leganyst/naconsulta/internal/sqlerr"
	"github.com/Leganyst/naconsulta/internal/validation"
)

// Authenticator resolves and checks the caller of a request.
type Authenticator interface {
	Authenticated(ctx context.Context, caller auth.Caller) (*model.User, error)
	ValidateSelfOrAdmin(caller auth.Caller, userID int64) error
}

// UserService реализует управление пользователями: регистрация, профиль, поиск, удаление.
type UserService struct {
	db     *gorm.DB
	hasher auth.Hasher
	auth   Authenticator
	log    zerolog.Logger
}

func NewUserService(db *gorm.DB, hasher auth.Hasher, authn Authenticator, log zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		hasher: hasher,
		auth:   authn,
		log:    log.With().Str("component", "user_service").Logger(),
	}
}

// Delete removes the user with its role links and phones. A user still
// referenced by appointments is not removed.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return newRepos(tx).users.Delete(ctx, id)
	})
	if err != nil {
		err = storeErr(err, "User", id)
		if errors.Is(err, errs.ErrConflict) {
			s.log.Warn().Err(errors.Unwrap(err)).Int64("user_id", id).Msg("delete rejected by integrity constraint")
		}
		return err
	}

	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// FindAllOrByName lists users whose first or last name contains name.
// An empty name lists everybody.
func (s *UserService) FindAllOrByName(ctx context.Context, name string) ([]dto.UserMin, error) {
	users, err := newRepos(s.db).users.SearchByName(ctx, name)
	if err != nil {
		return nil, sqlerr.Translate(err, "user")
	}
	return dto.NewUserMins(users), nil
}

// FindPage is FindAllOrByName cut to one page.
func (s *UserService) FindPage(ctx context.Context, name string, page, size int) (pagination.Page[dto.UserMin], error) {
	users, err := newRepos(s.db).users.SearchByName(ctx, name)
	if err != nil {
		return pagination.Page[dto.UserMin]{}, sqlerr.Translate(err, "user")
	}
	return pagination.Map(pagination.Paginate(users, page, size), func(u model.User) dto.UserMin {
		return dto.NewUserMin(&u)
	}), nil
}

// Insert creates a user attached to existing roles and phones.
func (s *UserService) Insert(ctx context.Context, in dto.UserInsert) (dto.UserForm, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return dto.UserForm{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return dto.UserForm{}, errs.Internal(err)
	}

	u := &model.User{Password: hash}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newRepos(tx)
		if err := copyDtoToEntity(ctx, r, userInput{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Gender:    in.Gender,
			Email:     in.Email,
			Roles:     in.Roles,
			Phones:    in.Phones,
		}, u); err != nil {
			return err
		}
		return r.users.Create(ctx, u)
	})
	if err != nil {
		return dto.UserForm{}, sqlerr.Translate(err, "user")
	}

	s.log.Info().Int64("user_id", u.ID).Strs("roles", u.Authorities()).Msg("user created")
	return dto.NewUserForm(u), nil
}

// Register is the public sign-up path. Anonymous callers cannot pick roles
// and get ROLE_PATIENT; administrators go through Insert unchanged.
func (s *UserService) Register(ctx context.Context, caller auth.Caller, in dto.UserInsert) (dto.UserForm, error) {
	if caller.IsAdmin() {
		return s.Insert(ctx, in)
	}
	if len(in.Roles) > 0 {
		return dto.UserForm{}, errs.Forbidden("Only administrators can assign roles")
	}

	role, err := newRepos(s.db).roles.FindByAuthority(ctx, model.RolePatient)
	if err != nil {
		return dto.UserForm{}, sqlerr.Translate(err, "role")
	}
	in.Roles = []int64{role.ID}
	return s.Insert(ctx, in)
}

// Update overwrites the profile of id and replaces its roles and phones.
// The password is kept. Only administrators may change the role set.
func (s *UserService) Update(ctx context.Context, caller auth.Caller, id int64, in dto.UserUpdate) (dto.UserForm, error) {
	if err := s.auth.ValidateSelfOrAdmin(caller, id); err != nil {
		return dto.UserForm{}, err
	}
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return dto.UserForm{}, err
	}

	var u *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newRepos(tx)

		var err error
		if u, err = r.users.FindByID(ctx, id); err != nil {
			return err
		}
		// не-админ: набор ролей сверяется до поиска по id
		if !caller.IsAdmin() {
			want := uniqueIDs(in.Roles)
			slices.Sort(want)
			if !slices.Equal(roleIDs(u.Roles), want) {
				return errs.Forbidden("Only administrators can change roles")
			}
		}

		if err := copyDtoToEntity(ctx, r, userInput{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Gender:    in.Gender,
			Email:     in.Email,
			Roles:     in.Roles,
			Phones:    in.Phones,
		}, u); err != nil {
			return err
		}
		if err := r.users.Update(ctx, u); err != nil {
			return err
		}
		if err := r.users.ReplaceRoles(ctx, u, u.Roles); err != nil {
			return err
		}
		return r.users.ReplacePhones(ctx, u, u.Phones)
	})
	if err != nil {
		return dto.UserForm{}, storeErr(err, "User", id)
	}

	s.log.Info().Int64("user_id", id).Int64("by", caller.UserID).Msg("user updated")
	return dto.NewUserForm(u), nil
}

// UserLogged returns the full profile of the caller.
func (s *UserService) UserLogged(ctx context.Context, caller auth.Caller) (dto.UserMax, error) {
	u, err := s.auth.Authenticated(ctx, caller)
	if err != nil {
		return dto.UserMax{}, err
	}
	return dto.NewUserMax(u), nil
}

// FindByID returns the full profile of id. The access check runs before
// the store is touched.
func (s *UserService) FindByID(ctx context.Context, caller auth.Caller, id int64) (dto.UserMax, error) {
	if err := s.auth.ValidateSelfOrAdmin(caller, id); err != nil {
		return dto.UserMax{}, err
	}

	u, err := newRepos(s.db).users.FindByID(ctx, id)
	if err != nil {
		return dto.UserMax{}, storeErr(err, "User", id)
	}
	return dto.NewUserMax(u), nil
}

// LoadUserByUsername is the identity lookup used by login.
func (s *UserService) LoadUserByUsername(ctx context.Context, username string) (*auth.Identity, error) {
	return loadIdentity(ctx, newRepos(s.db), s.log, username)
}

func loadIdentity(ctx context.Context, r repos, log zerolog.Logger, username string) (*auth.Identity, error) {
	email := normalizeEmail(username)

	u, err := r.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Str("username", email).Msg("user not found")
		return nil, errs.Unauthorized("Email not found").Wrap(err)
	}
	if err != nil {
		return nil, sqlerr.Translate(err, "user")
	}

	log.Info().Str("username", email).Msg("user found")
	return &auth.Identity{
		UserID:       u.ID,
		Username:     u.Email,
		PasswordHash: u.Password,
		Authorities:  u.Authorities(),
	}, nil
}

type userInput struct {
	FirstName string
	LastName  string
	Gender    string
	Email     string
	Roles     []int64
	Phones    []int64
}

// copyDtoToEntity copies the scalar fields and replaces the role and phone
// sets with the referenced rows. Every referenced id must exist.
func copyDtoToEntity(ctx context.Context, r repos, in userInput, u *model.User) error {
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)
	u.Gender = strings.TrimSpace(in.Gender)
	u.Email = normalizeEmail(in.Email)

	wantRoles := uniqueIDs(in.Roles)
	roles, err := r.roles.FindByIDs(ctx, wantRoles)
	if err != nil {
		return err
	}
	if id, missing := firstMissing(wantRoles, roles, func(r model.Role) int64 { return r.ID }); missing {
		return errs.NotFound("Role %d not found", id)
	}

	wantPhones := uniqueIDs(in.Phones)
	phones, err := r.phones.FindByIDs(ctx, wantPhones)
	if err != nil {
		return err
	}
	if id, missing := firstMissing(wantPhones, phones, func(p model.Telephone) int64 { return p.ID }); missing {
		return errs.NotFound("Telephone %d not found", id)
	}

	u.Roles = roles
	u.Phones = phones
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// roleIDs returns the sorted ids of roles.
func roleIDs(roles []model.Role) []int64 {
	ids := make([]int64, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	return ids
}
