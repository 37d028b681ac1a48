// ABOUTME: Store maps route names to JSON content files through the routes index.
// ABOUTME: Configuration is explicit so tests can root a store in a temporary directory.
package store

import (
	"path/filepath"

	"github.com/2389-research/blocksite/logging"
	"github.com/2389-research/blocksite/metrics"
	"go.uber.org/zap"
)

const (
	// DefaultRoutesFile is the routes index location relative to the root.
	DefaultRoutesFile = "data/routes.json"

	// HomepageRoute is the route name served at "/".
	HomepageRoute = "homepage"
)

// Config locates the routes index. Relative paths, including every
// blockIds entry inside the index, resolve against Root.
type Config struct {
	Root       string
	RoutesFile string
}

// Option configures optional Store behavior.
type Option func(*Store)

// WithLogger sets the logger used for read-path diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logging.OrNop(l)
	}
}

// WithMetrics records load and save outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// Store reads and writes route content. It holds no cache and no lock: the
// routes index is re-read on every lookup and concurrent saves to the same
// file are last-writer-wins.
type Store struct {
	root       string
	routesFile string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// New creates a Store for cfg, filling in defaults for empty fields.
func New(cfg Config, opts ...Option) *Store {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.RoutesFile == "" {
		cfg.RoutesFile = DefaultRoutesFile
	}

	s := &Store{
		root:       cfg.Root,
		routesFile: cfg.RoutesFile,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory relative paths resolve against.
func (s *Store) Root() string {
	return s.root
}

// RoutesPath returns the resolved location of the routes index.
func (s *Store) RoutesPath() string {
	return s.resolve(s.routesFile)
}

func (s *Store) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, p)
}
