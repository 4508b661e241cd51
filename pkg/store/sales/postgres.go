package sales

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const TypePostgres = "postgres"

func NewPostgresSource(cfg SourceConfig) (Source, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres source requires a dsn")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return NewSQLSource(db, cfg.Query, TypePostgres), nil
}
