package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/account-ranking/pkg/models/store"
)

var ErrUnknownSource = errors.New("unknown record source")

// Source loads one batch of raw sales records.
type Source interface {
	Type() string
	LoadRecords(ctx context.Context) ([]store.SalesRecord, error)
}

// SourceConfig describes where a batch comes from. Which fields matter
// depends on the source type.
type SourceConfig struct {
	Type string `mapstructure:"type"`
	// Path is the payload file for json ("-" reads stdin), the CSV or Parquet
	// extract for duckdb and the connection file for snowflake.
	Path string `mapstructure:"path"`
	// Query overrides DefaultQuery for the SQL sources.
	Query string `mapstructure:"query"`
	// DSN is the postgres connection URL.
	DSN string `mapstructure:"dsn"`
	// ConfigPath is the .databrickscfg file and Profile the section in it.
	ConfigPath string `mapstructure:"config_path"`
	Profile    string `mapstructure:"profile"`
	// HTTPPath is the SQL warehouse endpoint, e.g. /sql/1.0/warehouses/abc.
	HTTPPath string `mapstructure:"http_path"`
}

// SourceFactory creates a Source from its configuration
type SourceFactory func(cfg SourceConfig) (Source, error)

// Registry manages record source factories
type Registry interface {
	// Register adds a new source factory
	Register(sourceType string, factory SourceFactory) error
	// Create instantiates the source named by cfg.Type
	Create(cfg SourceConfig) (Source, error)
	// ListTypes returns the registered source types, sorted
	ListTypes() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]SourceFactory
}

// NewRegistry creates an empty source registry
func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]SourceFactory),
	}
}

// DefaultRegistry has every built-in source registered.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(TypeJSON, NewJSONSource)
	_ = r.Register(TypeDuckDB, NewDuckDBSource)
	_ = r.Register(TypeSnowflake, NewSnowflakeSource)
	_ = r.Register(TypeDatabricks, NewDatabricksSource)
	_ = r.Register(TypePostgres, NewPostgresSource)
	return r
}

func (r *registry) Register(sourceType string, factory SourceFactory) error {
	if sourceType == "" {
		return fmt.Errorf("source type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[sourceType]; exists {
		return fmt.Errorf("source %q is already registered", sourceType)
	}

	r.factories[sourceType] = factory
	return nil
}

func (r *registry) Create(cfg SourceConfig) (Source, error) {
	r.mu.RLock()
	factory, exists := r.factories[cfg.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Type)
	}

	return factory(cfg)
}

func (r *registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
