package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SalesTableSchema = `
	CREATE TABLE IF NOT EXISTS sales_records (
		account VARCHAR NOT NULL,
		sale_date VARCHAR,
		total DOUBLE,
		profit DOUBLE,
		user_name VARCHAR,
		status VARCHAR
	);
`

var bootQueries = []string{
	SalesTableSchema,
}

type Settings struct {
	// DbPath is the database file; empty opens an in-memory database.
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
