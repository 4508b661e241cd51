package sales

import (
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"
)

const TypeSnowflake = "snowflake"

// LoadSnowflakeConfig loads connection settings from a YAML, TOML or JSON file
func LoadSnowflakeConfig(path string) (*sf.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config sf.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse snowflake config: %w", err)
	}
	return &config, nil
}

func NewSnowflakeSource(cfg SourceConfig) (Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("snowflake source requires a connection file path")
	}

	sfCfg, err := LoadSnowflakeConfig(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dsn, err := sf.DSN(sfCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return NewSQLSource(db, cfg.Query, TypeSnowflake), nil
}
