package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/dto"
	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/model"
	"github.com/Leganyst/naconsulta/internal/sqlerr"
	"github.com/Leganyst/naconsulta/internal/validation"
)

// AuthService resolves callers and issues access tokens.
type AuthService struct {
	db     *gorm.DB
	hasher auth.Hasher
	tokens *auth.Tokens
	log    zerolog.Logger
}

func NewAuthService(db *gorm.DB, hasher auth.Hasher, tokens *auth.Tokens, log zerolog.Logger) *AuthService {
	return &AuthService{
		db:     db,
		hasher: hasher,
		tokens: tokens,
		log:    log.With().Str("component", "auth_service").Logger(),
	}
}

// Authenticated loads the caller's user with phones, roles and appointments.
func (s *AuthService) Authenticated(ctx context.Context, caller auth.Caller) (*model.User, error) {
	if !caller.Authenticated() {
		return nil, errs.Unauthorized("Authentication required")
	}

	u, err := newRepos(s.db).users.FindByID(ctx, caller.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// token outlived the account
		return nil, errs.Unauthorized("Invalid user").Wrap(err)
	}
	if err != nil {
		return nil, sqlerr.Translate(err, "user")
	}
	return u, nil
}

func (s *AuthService) ValidateSelfOrAdmin(caller auth.Caller, userID int64) error {
	return auth.ValidateSelfOrAdmin(caller, userID)
}

// Login verifies the credentials and signs an access token. Unknown email
// and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, in dto.Login) (dto.Token, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return dto.Token{}, err
	}

	id, err := loadIdentity(ctx, newRepos(s.db), s.log, in.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			return dto.Token{}, errs.Unauthorized("Bad credentials").Wrap(err)
		}
		return dto.Token{}, err
	}
	if !s.hasher.Verify(id.PasswordHash, in.Password) {
		s.log.Warn().Int64("user_id", id.UserID).Msg("password mismatch")
		return dto.Token{}, errs.Unauthorized("Bad credentials")
	}

	raw, err := s.tokens.Issue(id)
	if err != nil {
		return dto.Token{}, errs.Internal(err)
	}
	return dto.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}
