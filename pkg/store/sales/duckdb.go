package sales

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/de-tools/account-ranking/pkg/store/duckdb"
)

const TypeDuckDB = "duckdb"

// NewDuckDBSource reads a CSV or Parquet extract through an in-memory
// DuckDB, or queries the sales_records table of a DuckDB database file.
func NewDuckDBSource(cfg SourceConfig) (Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("duckdb source requires a path")
	}

	query := cfg.Query
	dbPath := ""
	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".csv", ".tsv", ".txt":
		query = fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)", quoteLiteral(cfg.Path))
	case ".parquet":
		query = fmt.Sprintf("SELECT * FROM read_parquet(%s)", quoteLiteral(cfg.Path))
	default:
		dbPath = cfg.Path
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return NewSQLSource(db, query, TypeDuckDB), nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
