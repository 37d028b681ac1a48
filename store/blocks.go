// ABOUTME: Loads and saves a route's block list through the routes index.
// ABOUTME: Reads never fail (empty or default content); writes return typed errors.
package store

import (
	"errors"
	"io/fs"
	"os"

	"github.com/2389-research/blocksite/content"
	"github.com/2389-research/blocksite/metrics"
	"go.uber.org/zap"
)

// ResolveContentPath looks the route up in a freshly read routes index and
// returns the resolved path of its first content file.
func (s *Store) ResolveContentPath(name string) (string, error) {
	route, ok := s.FindRoute(name)
	if !ok {
		return "", &RouteError{Route: name, Err: ErrRouteNotFound}
	}
	return s.contentPath(route)
}

func (s *Store) contentPath(route Route) (string, error) {
	if len(route.BlockIDs) == 0 {
		return "", &RouteError{Route: route.Name, Err: ErrNoContentPath}
	}
	return s.resolve(route.BlockIDs[0]), nil
}

// LoadBlocks returns the blocks stored for a route. Every failure yields an
// empty, non-nil slice; all except a missing file are logged.
func (s *Store) LoadBlocks(name string) []content.BlockWithID {
	blocks, err := s.LoadRouteBlocks(name)
	if err != nil {
		s.logger.Warn("cannot load blocks", zap.String("route", name), zap.Error(err))
	}
	return blocks
}

// LoadRouteBlocks is LoadBlocks for callers that report route failures
// themselves: a *RouteError is returned instead of logged. File failures
// still fall back to an empty list.
func (s *Store) LoadRouteBlocks(name string) ([]content.BlockWithID, error) {
	route, ok := s.FindRoute(name)
	if !ok {
		s.metrics.RecordLoad(name, metrics.OutcomeRouteNotFound)
		return []content.BlockWithID{}, &RouteError{Route: name, Err: ErrRouteNotFound}
	}
	return s.LoadRoute(route)
}

// LoadRoute loads the content of a route already taken from the index, so
// the index is not read again.
func (s *Store) LoadRoute(route Route) ([]content.BlockWithID, error) {
	name := route.Name
	path, err := s.contentPath(route)
	if err != nil {
		s.metrics.RecordLoad(name, metrics.OutcomeNoContentPath)
		return []content.BlockWithID{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.metrics.RecordLoad(name, metrics.OutcomeMissing)
			return []content.BlockWithID{}, nil
		}
		s.logger.Error("failed to read content file",
			zap.String("route", name),
			zap.String("path", path),
			zap.Error(err),
		)
		s.metrics.RecordLoad(name, metrics.OutcomeReadError)
		return []content.BlockWithID{}, nil
	}

	doc, err := content.ParseDocument(data)
	if err != nil {
		s.logger.Error("failed to parse content file",
			zap.String("route", name),
			zap.String("path", path),
			zap.Error(err),
		)
		s.metrics.RecordLoad(name, metrics.OutcomeParseError)
		return []content.BlockWithID{}, nil
	}

	s.metrics.RecordLoad(name, metrics.OutcomeOK)
	return doc.Blocks, nil
}

// LoadOrDefault is LoadBlocks with DefaultBlocks substituted for an empty
// result. A document that was deliberately emptied is therefore rendered
// with the seed content, the same as a missing one.
func (s *Store) LoadOrDefault(name string) []content.BlockWithID {
	return s.DefaultIfEmpty(name, s.LoadBlocks(name))
}

// DefaultIfEmpty returns blocks, or DefaultBlocks when blocks is empty.
func (s *Store) DefaultIfEmpty(name string, blocks []content.BlockWithID) []content.BlockWithID {
	if len(blocks) == 0 {
		s.metrics.RecordLoad(name, metrics.OutcomeDefault)
		return content.DefaultBlocks()
	}
	return blocks
}

// SaveBlocks replaces the route's content file with blocks, verbatim. Route
// lookup failures are returned before anything is written.
func (s *Store) SaveBlocks(name string, blocks []content.BlockWithID) error {
	path, err := s.ResolveContentPath(name)
	if err != nil {
		outcome := metrics.OutcomeRouteNotFound
		if errors.Is(err, ErrNoContentPath) {
			outcome = metrics.OutcomeNoContentPath
		}
		s.metrics.RecordSave(name, outcome)
		return err
	}

	data, err := content.MarshalDocument(content.NewDocument(blocks))
	if err != nil {
		s.metrics.RecordSave(name, metrics.OutcomeEncodeError)
		return &SerializationError{Err: err}
	}

	if err := writeFileAtomic(path, data); err != nil {
		s.metrics.RecordSave(name, metrics.OutcomeWriteError)
		return err
	}

	s.logger.Debug("saved blocks", zap.String("route", name), zap.String("path", path), zap.Int("blocks", len(blocks)))
	s.metrics.RecordSave(name, metrics.OutcomeOK)
	return nil
}

// ContentPaths returns the resolved first content file of every route, in
// index order, skipping routes without one.
func (s *Store) ContentPaths() []string {
	var paths []string
	for _, r := range s.LoadRoutes() {
		if len(r.BlockIDs) == 0 {
			continue
		}
		paths = append(paths, s.resolve(r.BlockIDs[0]))
	}
	return paths
}
