package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	MappingPath         string        `mapstructure:"mapping_path"`
	HashAlgorithm       string        `mapstructure:"hash_algorithm"`
	HashSalt            string        `mapstructure:"hash_salt"`
	NullValue           string        `mapstructure:"null_value"`
	Workers             int           `mapstructure:"workers"`
	LoadRetryMaxElapsed time.Duration `mapstructure:"load_retry_max_elapsed"`
	ShowProgress        bool          `mapstructure:"show_progress"`
	LogLevel            string        `mapstructure:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		MappingPath:         "",
		HashAlgorithm:       "sha256",
		HashSalt:            "",
		NullValue:           `\N`,
		Workers:             4,
		LoadRetryMaxElapsed: 30 * time.Second,
		ShowProgress:        true,
		LogLevel:            "info",
	}
}

// ConfigDir retorna o diretório de configuração.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "regex-classifier")
}

func Load(cfgFile string) (*Config, error) {
	cfg := DefaultConfig()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("erro ao obter diretório home: %w", err)
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "regex-classifier"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("rclassifier")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("mapping_path", cfg.MappingPath)
	viper.SetDefault("hash_algorithm", cfg.HashAlgorithm)
	viper.SetDefault("hash_salt", cfg.HashSalt)
	viper.SetDefault("null_value", cfg.NullValue)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("load_retry_max_elapsed", cfg.LoadRetryMaxElapsed)
	viper.SetDefault("show_progress", cfg.ShowProgress)
	viper.SetDefault("log_level", cfg.LogLevel)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("erro ao ler config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("erro ao decodificar config: %w", err)
	}

	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workers deve ser maior que zero (recebido %d)", cfg.Workers)
	}

	return cfg, nil
}
