// Package models defines the row models scanned from the database.
// Row models are plain values, immutable once scanned.
package models

import (
	"database/sql"

	"github.com/jinzhu/inflection"
)

// tableName maps an entity name to its plural table name.
func tableName(entity string) string {
	return inflection.Plural(entity)
}

// User is one row of the users table.
type User struct {
	ID        int64
	Name      string
	CountryID sql.NullInt64
}

func (User) TableName() string { return tableName("user") }
func (User) PrimaryKey() string { return "id" }
func (User) Columns() []string { return []string{"id", "name", "country_id"} }
func (u *User) ScanDest() []any { return []any{&u.ID, &u.Name, &u.CountryID} }

// CountryKey returns the referenced country id, false when the user has none.
func (u User) CountryKey() (int64, bool) { return u.CountryID.Int64, u.CountryID.Valid }

// Country is one row of the countries table.
type Country struct {
	ID   int64
	Name string
}

func (Country) TableName() string { return tableName("country") }
func (Country) PrimaryKey() string { return "id" }
func (Country) Columns() []string { return []string{"id", "name"} }
func (c *Country) ScanDest() []any { return []any{&c.ID, &c.Name} }

// Key is the value users.country_id refers to.
func (c Country) Key() int64 { return c.ID }

// UserCountryColumn is the users column referencing countries.id.
const UserCountryColumn = "country_id"
