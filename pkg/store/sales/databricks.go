package sales

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/account-ranking/pkg/services/config"
)

const TypeDatabricks = "databricks"

// NewDatabricksSource queries a SQL warehouse with the host and token of a
// .databrickscfg profile. The source http_path wins over the profile's.
func NewDatabricksSource(cfg SourceConfig) (Source, error) {
	profiles, err := config.OpenProfiles(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read databricks config: %w", err)
	}
	ws, err := profiles.Resolve(context.Background(), cfg.Profile)
	if err != nil {
		return nil, err
	}

	httpPath := cfg.HTTPPath
	if httpPath == "" {
		httpPath = ws.HTTPPath
	}
	if httpPath == "" {
		return nil, fmt.Errorf("databricks source requires a warehouse http path")
	}

	dsn, err := DatabricksDSN(ws.Host, ws.Token, httpPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("databricks", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return NewSQLSource(db, cfg.Query, TypeDatabricks), nil
}

// DatabricksDSN builds token:<token>@<host><httpPath>.
func DatabricksDSN(host, token, httpPath string) (string, error) {
	host = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://"), "/")
	if host == "" || token == "" {
		return "", fmt.Errorf("databricks profile needs host and token")
	}
	if !strings.HasPrefix(httpPath, "/") {
		httpPath = "/" + httpPath
	}
	return fmt.Sprintf("token:%s@%s%s", token, host, httpPath), nil
}
