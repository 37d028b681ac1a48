// ABOUTME: Error taxonomy for route resolution and content writes.
// ABOUTME: Route failures wrap sentinels; serialization and I/O failures are typed.
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrRouteNotFound indicates no route in the index has the requested name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrNoContentPath indicates the matched route has an empty blockIds list.
	ErrNoContentPath = errors.New("route has no blockIds")
)

// RouteError reports a failed route lookup. Err is ErrRouteNotFound or
// ErrNoContentPath.
type RouteError struct {
	Route string
	Err   error
}

func (e *RouteError) Error() string {
	switch {
	case errors.Is(e.Err, ErrRouteNotFound):
		return fmt.Sprintf("route %q not found in routes index", e.Route)
	case errors.Is(e.Err, ErrNoContentPath):
		return fmt.Sprintf("route %q has no blockIds", e.Route)
	default:
		return fmt.Sprintf("route %q: %v", e.Route, e.Err)
	}
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// SerializationError indicates content could not be encoded as JSON.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize content: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// IOError indicates a filesystem write failed.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsRouteError reports whether err is a route lookup failure, which HTTP
// callers map to 404.
func IsRouteError(err error) bool {
	return errors.Is(err, ErrRouteNotFound) || errors.Is(err, ErrNoContentPath)
}
