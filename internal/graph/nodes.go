// Package graph holds the request-scoped graph nodes served by the GraphQL
// schema and the loaders that build them from row models.
package graph

import (
	"strconv"

	"eager-graphql/internal/eager"
	"eager-graphql/internal/models"
)

// User wraps one users row and its eager-loaded associations.
type User struct {
	row     models.User
	country eager.One[*Country]
}

// NewUser wraps a row model.
func NewUser(row models.User) *User {
	return &User{row: row}
}

func (u *User) ID() string { return formatID(u.row.ID) }
func (u *User) Name() string { return u.row.Name }
func (u *User) Row() models.User { return u.row }

// Country returns the user's country, nil when the user has none.
func (u *User) Country() (*Country, error) {
	return u.country.Get()
}

// Country wraps one countries row and its eager-loaded associations.
type Country struct {
	row   models.Country
	users eager.Many[*User]
}

// NewCountry wraps a row model.
func NewCountry(row models.Country) *Country {
	return &Country{row: row}
}

func (c *Country) ID() string { return formatID(c.row.ID) }
func (c *Country) Name() string { return c.row.Name }
func (c *Country) Row() models.Country { return c.row }

// Users returns the users living in the country in primary key order.
func (c *Country) Users() ([]*User, error) {
	return c.users.Get()
}

// UserEdge is one user in a page together with its cursor.
type UserEdge struct {
	Node   *User
	Cursor string
}

// PageInfo describes the position of a page.
type PageInfo struct {
	StartCursor *string
	EndCursor   *string
	HasNextPage bool
}

// UserConnection is one page of users.
type UserConnection struct {
	Edges      []UserEdge
	PageInfo   PageInfo
	TotalCount int
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func wrapUsers(rows []models.User) []*User {
	nodes := make([]*User, len(rows))
	for i, row := range rows {
		nodes[i] = NewUser(row)
	}
	return nodes
}

func wrapCountries(rows []models.Country) []*Country {
	nodes := make([]*Country, len(rows))
	for i, row := range rows {
		nodes[i] = NewCountry(row)
	}
	return nodes
}
