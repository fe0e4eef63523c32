package resolver

import (
	"context"
	"errors"

	"eager-graphql/internal/cursor"
	"eager-graphql/internal/eager"
	"eager-graphql/internal/graph"
	"eager-graphql/internal/logging"

	"github.com/go-sql-driver/mysql"
)

var errAccessDenied = errors.New("access denied")

// MySQL/TiDB error codes for access control violations.
// See: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	mysqlErrDBAccessDenied     = 1044 // Access denied for user to database
	mysqlErrTableAccessDenied  = 1142 // SELECT command denied to user for table
	mysqlErrColumnAccessDenied = 1143 // SELECT command denied to user for column
)

// clientError is a field error caused by the request's input. Its code is
// reported in the GraphQL error extensions.
type clientError struct {
	err  error
	code string
}

func (e *clientError) Error() string {
	return e.err.Error()
}

func (e *clientError) Unwrap() error {
	return e.err
}

func (e *clientError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// normalizeQueryError maps resolver errors to what the client sees.
func normalizeQueryError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, cursor.ErrInvalidCursor):
		return &clientError{err: err, code: "INVALID_CURSOR"}
	case errors.Is(err, graph.ErrNegativePageSize):
		return &clientError{err: err, code: "BAD_USER_INPUT"}
	case errors.Is(err, eager.ErrAssociationNotLoaded):
		logging.FromContext(ctx).Error("association read before it was loaded", "error", err)
		return err
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDBAccessDenied, mysqlErrTableAccessDenied, mysqlErrColumnAccessDenied:
			return errAccessDenied
		}
	}
	return err
}

// outcomeFor classifies an error for span attributes.
func outcomeFor(err error) string {
	var clientErr *clientError
	if errors.As(err, &clientErr) {
		return "invalid_input"
	}
	return ""
}
