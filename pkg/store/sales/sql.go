package sales

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/account-ranking/pkg/models/store"
	"github.com/rs/zerolog"
)

// DefaultQuery reads the sales_records table every SQL source expects
// unless a query is configured.
const DefaultQuery = `
	SELECT
		account,
		sale_date,
		total,
		profit,
		user_name,
		status
	FROM sales_records
`

type field int

const (
	fieldAccount field = iota
	fieldDate
	fieldTotal
	fieldProfit
	fieldUser
	fieldStatus
	fieldIgnored
)

// columnFields maps lower-cased result column names onto record fields.
var columnFields = map[string]field{
	"account":      fieldAccount,
	"account_name": fieldAccount,
	"date":         fieldDate,
	"sale_date":    fieldDate,
	"order_date":   fieldDate,
	"total":        fieldTotal,
	"amount":       fieldTotal,
	"profit":       fieldProfit,
	"margin":       fieldProfit,
	"user":         fieldUser,
	"user_name":    fieldUser,
	"salesperson":  fieldUser,
	"status":       fieldStatus,
}

// SQLSource runs one query and maps the result columns by name.
// Columns it does not know are ignored; account and date are required.
type SQLSource struct {
	db         *sql.DB
	query      string
	sourceType string
}

func NewSQLSource(db *sql.DB, query string, sourceType string) *SQLSource {
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}
	return &SQLSource{
		db:         db,
		query:      query,
		sourceType: sourceType,
	}
}

func (s *SQLSource) Type() string {
	return s.sourceType
}

// Close releases the underlying connection pool.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

func (s *SQLSource) LoadRecords(ctx context.Context) ([]store.SalesRecord, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("%s sales query failed: %w", s.sourceType, err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close sales query rows")
		}
	}(rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s sales columns: %w", s.sourceType, err)
	}
	fields, err := mapColumns(columns)
	if err != nil {
		return nil, fmt.Errorf("%s sales query: %w", s.sourceType, err)
	}

	var records []store.SalesRecord
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s sales scan: %w", s.sourceType, err)
		}

		var rec store.SalesRecord
		for i, f := range fields {
			v := plain(values[i])
			switch f {
			case fieldAccount:
				rec.Account = text(v)
			case fieldDate:
				rec.Date = text(v)
			case fieldTotal:
				rec.Total = v
			case fieldProfit:
				rec.Profit = v
			case fieldUser:
				rec.User = text(v)
			case fieldStatus:
				rec.Status = text(v)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s sales rows: %w", s.sourceType, err)
	}

	logger.Debug().
		Str("source", s.sourceType).
		Int("records", len(records)).
		Msg("loaded sales records")

	return records, nil
}

func mapColumns(columns []string) ([]field, error) {
	fields := make([]field, len(columns))
	var hasAccount, hasDate bool
	for i, name := range columns {
		f, ok := columnFields[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			fields[i] = fieldIgnored
			continue
		}
		fields[i] = f
		hasAccount = hasAccount || f == fieldAccount
		hasDate = hasDate || f == fieldDate
	}
	if !hasAccount || !hasDate {
		return nil, fmt.Errorf("result needs account and date columns, got %v", columns)
	}
	return fields, nil
}

// plain converts driver values into the shapes the normalizer reads.
func plain(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339Nano)
	}
	return v
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return fmt.Sprint(v)
}
