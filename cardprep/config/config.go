package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/xremming/cardprep/cardprep"

	"github.com/spf13/viper"
)

// Config stores all configuration of the preprocessing pipeline.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Tokens   TokensConfig   `mapstructure:"tokens"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DataConfig stores bulk-data source and local cache settings.
type DataConfig struct {
	BulkDataURL     string `mapstructure:"bulkDataUrl"`
	BulkType        string `mapstructure:"bulkType"`
	Dir             string `mapstructure:"dir"`
	ImageDir        string `mapstructure:"imageDir"`
	DownloadWorkers int    `mapstructure:"downloadWorkers"`
}

// DatasetConfig stores batching defaults.
type DatasetConfig struct {
	BatchSize      int   `mapstructure:"batchSize"`
	ShuffleSeed    int64 `mapstructure:"shuffleSeed"`
	PrefetchBuffer int   `mapstructure:"prefetchBuffer"`
}

// TokensConfig stores tokenizer settings.
type TokensConfig struct {
	UnknownToken bool `mapstructure:"unknownToken"`
	MaxSeqLen    int  `mapstructure:"maxSeqLen"`
}

// DatabaseConfig stores database connection details.
type DatabaseConfig struct {
	DSN  string `mapstructure:"dsn"`
	Type string `mapstructure:"type"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("data.bulkDataUrl", internal.DefaultBulkDataURL)
	viper.SetDefault("data.bulkType", "oracle_cards")
	viper.SetDefault("data.dir", internal.DefaultDataDir)
	viper.SetDefault("data.imageDir", filepath.Join(internal.DefaultDataDir, "cards"))
	viper.SetDefault("data.downloadWorkers", 4)

	viper.SetDefault("dataset.batchSize", 32)
	viper.SetDefault("dataset.shuffleSeed", 0)
	viper.SetDefault("dataset.prefetchBuffer", 2)

	viper.SetDefault("tokens.unknownToken", false)
	viper.SetDefault("tokens.maxSeqLen", 128)

	viper.SetDefault("database.dsn", internal.DefaultDatabaseDSN)
	viper.SetDefault("database.type", internal.DefaultDatabaseType)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. database.dsn becomes DATABASE_DSN

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
