package timelock

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Query modifiers understood by the query handlers. The modifier is the part
// of the ABCI query path following the "?" character.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler is anything that can process ABCI queries. Mod selects the
// interpretation of data, usually KeyQueryMod or PrefixQueryMod.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is a function that adds some handlers
// to this router
type QueryRegister func(QueryRouter)

var isQueryPath = regexp.MustCompile(`^/[a-zA-Z0-9_/]*$`).MatchString

// QueryRouter directs each query to the handler registered for its path.
// Paths are always absolute; a missing leading slash is added on both
// registration and lookup.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler),
	}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new Handler for the given path. It panics on a malformed
// path or if another Handler was already registered for it.
func (r QueryRouter) Register(path string, h QueryHandler) {
	path = queryPath(path)
	if !isQueryPath(path) {
		panic(fmt.Sprintf("invalid query path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns nil
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[queryPath(path)]
}

// Paths returns all registered paths in lexicographical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func queryPath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
