package repository

import (
	"strings"

	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"gorm.io/gorm"
)

// searchColumns maps search fields to columns. Only listed fields may be
// interpolated into a query.
var searchColumns = map[domainRepo.SearchField]string{
	domainRepo.SearchByPrescriptionNo: "prescription_no",
	domainRepo.SearchByReferenceNo:    "reference_no",
	domainRepo.SearchByName:           "name",
	domainRepo.SearchByMobile:         "mobile_no",
}

// MatchScope returns a GORM scope that filters on a search field.
// Contains matching lowers both sides so it behaves the same on Postgres
// and SQLite. An unknown field matches nothing.
func MatchScope(field domainRepo.SearchField, query string, mode domainRepo.MatchMode) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column, ok := searchColumns[field]
		if !ok {
			return db.Where("1 = 0")
		}
		if mode == domainRepo.MatchContains {
			return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(query))+"%")
		}
		return db.Where(column+" = ?", query)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// LimitScope caps the number of rows; a non-positive limit is ignored
func LimitScope(limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}

// orderedBySI preloads line items in entry order
func orderedBySI(db *gorm.DB) *gorm.DB {
	return db.Order("si ASC")
}
