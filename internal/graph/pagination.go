package graph

import (
	"context"
	"fmt"

	"eager-graphql/internal/cursor"
	"eager-graphql/internal/models"
	"eager-graphql/internal/store"
	"eager-graphql/internal/trail"
)

// PaginateUsers returns one page of users. The page comes from the after
// cursor, defaulting to the first page. Nodes are only built when the trail
// walks edges.node; otherwise only the count and lookahead run. Pages whose
// offset does not fit in an int are rejected as invalid cursors.
//
// Every edge carries the cursor of the following page, so start and end
// cursors are equal. Clients pass any of them as after to advance.
func (l *Loader) PaginateUsers(ctx context.Context, after *string, first int, tr trail.Trail) (*UserConnection, error) {
	page, err := cursor.PageFromAfter(after)
	if err != nil {
		return nil, err
	}
	if first < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrNegativePageSize, first)
	}
	pageSize := first
	if l.maxPageSize > 0 && pageSize > l.maxPageSize {
		pageSize = l.maxPageSize
	}

	conn := &UserConnection{Edges: []UserEdge{}}
	if pageSize == 0 {
		total, err := store.Count[models.User](ctx, l.rows)
		if err != nil {
			return nil, err
		}
		conn.TotalCount = total
		return conn, nil
	}

	if err := cursor.CheckRange(page, pageSize); err != nil {
		return nil, err
	}

	nodeTrail := tr.Path("edges", "node")
	if nodeTrail.Walked() {
		rows, total, err := store.LoadPage[models.User](ctx, l.rows, page, pageSize)
		if err != nil {
			return nil, err
		}
		conn.TotalCount = total

		users := wrapUsers(rows)
		if err := l.EagerLoadUsers(ctx, users, nodeTrail); err != nil {
			return nil, err
		}
		next := cursor.Encode(page + 1)
		conn.Edges = make([]UserEdge, len(users))
		for i, user := range users {
			conn.Edges[i] = UserEdge{Node: user, Cursor: next}
		}
	} else {
		total, err := store.Count[models.User](ctx, l.rows)
		if err != nil {
			return nil, err
		}
		conn.TotalCount = total
	}

	hasNext, err := store.ExistsAt[models.User](ctx, l.rows, page*pageSize)
	if err != nil {
		return nil, err
	}
	conn.PageInfo.HasNextPage = hasNext

	if len(conn.Edges) > 0 {
		start := conn.Edges[0].Cursor
		end := conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.StartCursor = &start
		conn.PageInfo.EndCursor = &end
	}
	return conn, nil
}
