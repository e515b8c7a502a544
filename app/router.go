package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]timelock.Handler
}

var _ timelock.Registry = (*Router)(nil)
var _ timelock.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]timelock.Handler, 10),
	}
}

// Handle adds a new Handler for the given message type. Registering a path
// twice or a malformed path panics.
func (r *Router) Handle(msg timelock.Msg, h timelock.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPath Handler.
// Always returns a non-nil Handler
func (r *Router) handler(m timelock.Msg) timelock.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no msg")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no msg")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
