package sales

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/account-ranking/pkg/models/store"
	"github.com/de-tools/account-ranking/pkg/services/payload"
)

const TypeJSON = "json"

// JSONSource reads a host payload from a file or stdin.
type JSONSource struct {
	path  string
	stdin io.Reader
}

func NewJSONSource(cfg SourceConfig) (Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("json source requires a path")
	}
	return &JSONSource{path: cfg.Path, stdin: os.Stdin}, nil
}

func (s *JSONSource) Type() string {
	return TypeJSON
}

func (s *JSONSource) LoadRecords(_ context.Context) ([]store.SalesRecord, error) {
	if s.path == "-" {
		return payload.Read(s.stdin)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}
	defer f.Close()

	return payload.Read(f)
}
