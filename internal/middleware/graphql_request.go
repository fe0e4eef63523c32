package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	operationCacheSize   = 512
	unknownOperationType = "unknown"
)

type graphQLRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

// operationInfo describes the operation a request asks to execute.
type operationInfo struct {
	Type string
	Name string
}

// operationParser parses request documents just far enough to find the
// selected operation. Clients repeat the same documents, so results are
// kept in an LRU keyed by document and operation name.
type operationParser struct {
	cache *lru.Cache[string, operationInfo]
}

func newOperationParser(size int) *operationParser {
	cache, err := lru.New[string, operationInfo](size)
	if err != nil {
		// Only a non-positive size fails.
		cache, _ = lru.New[string, operationInfo](operationCacheSize)
	}
	return &operationParser{cache: cache}
}

var sharedOperationParser = newOperationParser(operationCacheSize)

type operationKey struct{}

func withOperation(ctx context.Context, info operationInfo) context.Context {
	return context.WithValue(ctx, operationKey{}, info)
}

// operationFromRequest returns the operation recorded by an outer middleware,
// parsing the request body when none was recorded.
func operationFromRequest(r *http.Request) operationInfo {
	if info, ok := r.Context().Value(operationKey{}).(operationInfo); ok {
		return info
	}
	query, operationName := extractGraphQLRequest(r)
	return sharedOperationParser.parse(query, operationName)
}

func extractGraphQLRequest(r *http.Request) (string, string) {
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("query"), r.URL.Query().Get("operationName")
	}
	if r.Method != http.MethodPost || r.Body == nil {
		return "", ""
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", ""
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if strings.Contains(r.Header.Get("Content-Type"), "application/graphql") {
		return string(body), ""
	}

	var payload graphQLRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", ""
	}
	return payload.Query, payload.OperationName
}

func (p *operationParser) parse(query, operationName string) operationInfo {
	if strings.TrimSpace(query) == "" {
		return operationInfo{Type: unknownOperationType, Name: operationName}
	}
	key := operationName + "\x00" + query
	if info, ok := p.cache.Get(key); ok {
		return info
	}
	info := parseOperation(query, operationName)
	p.cache.Add(key, info)
	return info
}

func parseOperation(query, operationName string) operationInfo {
	info := operationInfo{Type: unknownOperationType, Name: operationName}

	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{
			Body: []byte(query),
			Name: "graphql",
		}),
	})
	if err != nil {
		return info
	}

	var selected *ast.OperationDefinition
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName == "" {
			selected = op
			break
		}
		if op.Name != nil && op.Name.Value == operationName {
			selected = op
			break
		}
	}
	if selected == nil {
		return info
	}

	info.Type = string(selected.Operation)
	if selected.Name != nil {
		info.Name = selected.Name.Value
	}
	return info
}
