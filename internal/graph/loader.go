package graph

import (
	"context"
	"errors"

	"eager-graphql/internal/eager"
	"eager-graphql/internal/models"
	"eager-graphql/internal/store"
	"eager-graphql/internal/trail"
)

// ErrNegativePageSize is returned when a page size below zero is requested.
var ErrNegativePageSize = errors.New("first must be non-negative")

// Loader builds graph nodes for one request.
type Loader struct {
	rows        *store.Loader
	maxPageSize int
}

// NewLoader returns a loader reading through rows. A positive maxPageSize caps page sizes.
func NewLoader(rows *store.Loader, maxPageSize int) *Loader {
	return &Loader{rows: rows, maxPageSize: maxPageSize}
}

// Users loads every user and the associations tr walks.
func (l *Loader) Users(ctx context.Context, tr trail.Trail) ([]*User, error) {
	rows, err := store.LoadAll[models.User](ctx, l.rows)
	if err != nil {
		return nil, err
	}
	users := wrapUsers(rows)
	if err := l.EagerLoadUsers(ctx, users, tr); err != nil {
		return nil, err
	}
	return users, nil
}

// Countries loads every country and the associations tr walks.
func (l *Loader) Countries(ctx context.Context, tr trail.Trail) ([]*Country, error) {
	rows, err := store.LoadAll[models.Country](ctx, l.rows)
	if err != nil {
		return nil, err
	}
	countries := wrapCountries(rows)
	if err := l.EagerLoadCountries(ctx, countries, tr); err != nil {
		return nil, err
	}
	return countries, nil
}

// EagerLoadUsers loads the walked associations of users.
func (l *Loader) EagerLoadUsers(ctx context.Context, users []*User, tr trail.Trail) error {
	return eager.LoadToOne(ctx, users, tr, l.userCountry())
}

// EagerLoadCountries loads the walked associations of countries.
func (l *Loader) EagerLoadCountries(ctx context.Context, countries []*Country, tr trail.Trail) error {
	return eager.LoadToMany(ctx, countries, tr, l.countryUsers())
}

func (l *Loader) userCountry() eager.ToOne[*User, *Country, int64] {
	return eager.ToOne[*User, *Country, int64]{
		Field:      "country",
		ForeignKey: func(u *User) (int64, bool) { return u.row.CountryKey() },
		Load: func(ctx context.Context, ids []int64) ([]*Country, error) {
			rows, err := store.LoadByKeys[models.Country](ctx, l.rows, models.Country{}.PrimaryKey(), ids)
			if err != nil {
				return nil, err
			}
			return wrapCountries(rows), nil
		},
		Key:    func(c *Country) int64 { return c.row.Key() },
		Slot:   func(u *User) *eager.One[*Country] { return &u.country },
		Nested: l.EagerLoadCountries,
	}
}

func (l *Loader) countryUsers() eager.ToMany[*Country, *User, int64] {
	return eager.ToMany[*Country, *User, int64]{
		Field:     "users",
		ParentKey: func(c *Country) int64 { return c.row.Key() },
		Load: func(ctx context.Context, ids []int64) ([]*User, error) {
			rows, err := store.LoadByKeys[models.User](ctx, l.rows, models.UserCountryColumn, ids)
			if err != nil {
				return nil, err
			}
			return wrapUsers(rows), nil
		},
		ForeignKey: func(u *User) (int64, bool) { return u.row.CountryKey() },
		Slot:       func(c *Country) *eager.Many[*User] { return &c.users },
		Nested:     l.EagerLoadUsers,
	}
}
