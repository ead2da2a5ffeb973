package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching s anywhere.
// Wildcards typed by the user are matched literally (ESCAPE '\').
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func orderByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func orderByName(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }
