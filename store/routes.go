// ABOUTME: Route index entries and their load/save path with default fallback.
// ABOUTME: The index is a JSON array of {path, name, blockIds}; blockIds stays camelCase.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Route maps a URL path and a name to the content files for that route.
// Only the first BlockIDs entry is read; the rest are preserved on save.
type Route struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	BlockIDs []string `json:"blockIds"`
}

type routeJSON struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	BlockIDs []string `json:"blockIds"`
}

// MarshalJSON writes a nil BlockIDs as [].
func (r Route) MarshalJSON() ([]byte, error) {
	ids := r.BlockIDs
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(routeJSON{Path: r.Path, Name: r.Name, BlockIDs: ids})
}

// UnmarshalJSON requires path, name and blockIds to be present, spelled
// exactly as written by MarshalJSON.
func (r *Route) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		return errors.New("route must be a JSON object")
	}

	var out Route
	for _, f := range []struct {
		key string
		dst any
	}{
		{"path", &out.Path},
		{"name", &out.Name},
		{"blockIds", &out.BlockIDs},
	} {
		raw, ok := m[f.key]
		if !ok || string(raw) == "null" {
			return fmt.Errorf("missing field %q", f.key)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("field %q: %w", f.key, err)
		}
	}
	*r = out
	return nil
}

// DefaultRoutes is the index used whenever the routes file is missing,
// empty, or unparseable. It is never written automatically.
func DefaultRoutes() []Route {
	return []Route{
		{
			Path:     "/",
			Name:     HomepageRoute,
			BlockIDs: []string{"data/content/homepage.json"},
		},
	}
}

// LoadRoutes reads the routes index, falling back to DefaultRoutes. A
// missing file is expected on first run and is not logged.
func (s *Store) LoadRoutes() []Route {
	path := s.RoutesPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("failed to read routes index", zap.String("path", path), zap.Error(err))
		}
		return DefaultRoutes()
	}

	if strings.TrimSpace(string(data)) == "" {
		return DefaultRoutes()
	}

	var routes []Route
	if err := json.Unmarshal(data, &routes); err != nil {
		s.logger.Error("failed to parse routes index", zap.String("path", path), zap.Error(err))
		return DefaultRoutes()
	}
	if routes == nil {
		routes = []Route{}
	}
	return routes
}

// SaveRoutes replaces the routes index with a pretty-printed JSON array.
func (s *Store) SaveRoutes(routes []Route) error {
	if routes == nil {
		routes = []Route{}
	}
	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return &SerializationError{Err: err}
	}
	return writeFileAtomic(s.RoutesPath(), data)
}

// FindRoute returns the first route whose name matches.
func (s *Store) FindRoute(name string) (Route, bool) {
	for _, r := range s.LoadRoutes() {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// FindRouteByPath returns the first route whose URL path matches.
func (s *Store) FindRouteByPath(path string) (Route, bool) {
	for _, r := range s.LoadRoutes() {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// ValidateRoutes reports duplicate names, duplicate paths and routes with no
// content file. Load and save do not enforce any of these.
func ValidateRoutes(routes []Route) []string {
	var problems []string
	names := make(map[string]int)
	paths := make(map[string]int)

	for i, r := range routes {
		if first, ok := names[r.Name]; ok {
			problems = append(problems, fmt.Sprintf("route %d: name %q already used by route %d", i, r.Name, first))
		} else {
			names[r.Name] = i
		}
		if first, ok := paths[r.Path]; ok {
			problems = append(problems, fmt.Sprintf("route %d: path %q already used by route %d", i, r.Path, first))
		} else {
			paths[r.Path] = i
		}
		if len(r.BlockIDs) == 0 {
			problems = append(problems, fmt.Sprintf("route %d (%q): blockIds is empty", i, r.Name))
		}
	}
	return problems
}
