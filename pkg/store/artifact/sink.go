package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Sink stores an export artifact and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type SinkConfig struct {
	Type string `mapstructure:"type"`
	// Dir is the output directory of the local sink.
	Dir     string `mapstructure:"dir"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

// NewSink builds the sink named by cfg.Type; empty means local.
func NewSink(ctx context.Context, cfg SinkConfig) (Sink, error) {
	switch cfg.Type {
	case "", TypeLocal:
		return NewLocalSink(cfg.Dir), nil
	case TypeS3:
		return NewS3SinkFromConfig(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported sink type %q", cfg.Type)
}

type LocalSink struct {
	dir string
}

func NewLocalSink(dir string) *LocalSink {
	if dir == "" {
		dir = "."
	}
	return &LocalSink{dir: dir}
}

func (s *LocalSink) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
