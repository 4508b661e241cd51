package appconfig

import (
	"fmt"
	"strings"

	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/de-tools/account-ranking/pkg/store/artifact"
	"github.com/de-tools/account-ranking/pkg/store/sales"
	"github.com/spf13/viper"
)

const EnvPrefix = "RANKING"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Config is the application configuration shared by the cli and web binaries
type Config struct {
	LogLevel string              `mapstructure:"log_level"`
	Ranking  ranking.Settings    `mapstructure:"ranking"`
	Source   sales.SourceConfig  `mapstructure:"source"`
	Sink     artifact.SinkConfig `mapstructure:"sink"`
	Server   ServerConfig        `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	defaults := ranking.DefaultSettings()

	v.SetDefault("log_level", "info")
	v.SetDefault("ranking.excluded_accounts", defaults.ExcludedAccounts)
	v.SetDefault("ranking.canceled_marker", defaults.CanceledMarker)
	v.SetDefault("ranking.upper_threshold", defaults.UpperThreshold)
	v.SetDefault("ranking.lower_threshold", defaults.LowerThreshold)
	v.SetDefault("ranking.rank_basis", string(defaults.RankBasis))
	v.SetDefault("ranking.default_order", string(defaults.DefaultOrder))
	v.SetDefault("ranking.stable_ties", defaults.StableTies)
	v.SetDefault("source.type", sales.TypeJSON)
	v.SetDefault("source.path", "-")
	v.SetDefault("source.query", "")
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.config_path", "")
	v.SetDefault("source.profile", "")
	v.SetDefault("source.http_path", "")
	v.SetDefault("sink.type", artifact.TypeLocal)
	v.SetDefault("sink.dir", ".")
	v.SetDefault("sink.bucket", "")
	v.SetDefault("sink.prefix", "")
	v.SetDefault("sink.profile", "")
	v.SetDefault("sink.region", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
}

// LoadConfig reads the config file at path, when given, over the defaults.
// Any key can be overridden from the environment, e.g.
// RANKING_RANKING_UPPER_THRESHOLD or RANKING_SOURCE_TYPE.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Ranking.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking settings: %w", err)
	}
	cfg.Ranking = cfg.Ranking.Canonical()
	return &cfg, nil
}
