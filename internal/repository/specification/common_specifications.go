package specification

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ByNumericID filters by an integer primary key
type ByNumericID struct {
	ID int64
}

func (s ByNumericID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// Pagination limits a listing to one page.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Scoped applies plain gorm scopes as a specification.
type Scoped struct {
	Scopes []func(*gorm.DB) *gorm.DB
}

func (s Scoped) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(s.Scopes...)
}

func WithScopes(scopes ...func(*gorm.DB) *gorm.DB) Specification {
	return Scoped{Scopes: scopes}
}

// FilterBy Generic Filter
type FilterBy struct {
	Field string
	Value interface{}
}

func (s FilterBy) Apply(db *gorm.DB) *gorm.DB {
	query := fmt.Sprintf("%s = ?", s.Field)
	return db.Where(query, s.Value)
}

func Filter(field string, value interface{}) Specification {
	return FilterBy{Field: field, Value: value}
}
