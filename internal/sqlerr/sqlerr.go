// Package sqlerr converts store errors into domain errors.
//
// GORM runs with TranslateError enabled, so most driver failures arrive as
// gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey or gorm.ErrForeignKeyViolated.
// Raw *pgconn.PgError values are handled as well, by SQLSTATE, for callers
// that bypass translation (raw Exec, other sessions).
package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/errs"
)

// Postgres SQLSTATE codes we map explicitly.
const (
	ForeignKeyViolation = "23503"
	UniqueViolation     = "23505"
	NotNullViolation    = "23502"
	CheckViolation      = "23514"
)

// IntegrityMessage is what clients see for any integrity violation on delete/update.
const IntegrityMessage = "Integrity violation"

// Translate maps err to an *errs.Error. entity names the resource for
// not-found and duplicate messages ("user", "address").
//
//   - *errs.Error: returned unchanged
//   - record not found: NotFound "<Entity> not found"
//   - foreign key violation: Conflict "Integrity violation"
//   - unique violation: Conflict "A <entity> with this <Field> already exists"
//   - anything else: Internal, cause kept for logs
func Translate(err error, entity string) error {
	if err == nil {
		return nil
	}

	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		return err
	}

	if entity == "" {
		entity = "record"
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("%s not found", humanize(entity)).Wrap(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPgError(pgErr, entity)
	}

	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated), isSQLiteForeignKey(err):
		return errs.Conflict(IntegrityMessage, errorCode(entity, "IN_USE"), err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict(fmt.Sprintf("A %s with this identifier already exists", entity), errorCode(entity, "ALREADY_EXISTS"), err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return errs.Conflict("One or more values do not meet required conditions", errorCode(entity, "INVALID"), err)
	}

	return errs.Internal(err)
}

func fromPgError(pgErr *pgconn.PgError, entity string) error {
	switch pgErr.Code {
	case ForeignKeyViolation:
		return errs.Conflict(IntegrityMessage, errorCode(entity, "IN_USE"), pgErr)
	case UniqueViolation:
		field := "identifier"
		if col := extractColumnForUniqueViolation(pgErr.ConstraintName); col != "" {
			field = humanize(col)
		}
		return errs.Conflict(fmt.Sprintf("A %s with this %s already exists", entity, field), errorCode(entity, "ALREADY_EXISTS"), pgErr)
	case NotNullViolation:
		return errs.BadRequest(fmt.Sprintf("The %s is required", humanize(pgErr.ColumnName)), []errs.FieldError{
			{Field: strings.ToLower(pgErr.ColumnName), Error: "is required"},
		}).Wrap(pgErr)
	case CheckViolation:
		return errs.Conflict("One or more values do not meet required conditions", errorCode(entity, "INVALID"), pgErr)
	default:
		return errs.Internal(pgErr)
	}
}

// The sqlite driver reports FK failures as plain text when translation is off.
func isSQLiteForeignKey(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// errorCode builds USER_IN_USE style codes.
func errorCode(entity, action string) string {
	return strings.ToUpper(strings.ReplaceAll(entity, " ", "_")) + "_" + action
}

func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeyRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation reads the column out of constraint names
// like "users_email_key" or "idx_users_email".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}
	if strings.HasPrefix(constraintName, "idx_") || strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}
	if m := uniqueKeyRe.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}
	return ""
}
