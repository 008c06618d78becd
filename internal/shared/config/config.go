package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rdl-tech/coupon-radar/internal/modules/channel/domain"
	"github.com/rdl-tech/coupon-radar/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	TelegramAPIID   int    `koanf:"telegram_api_id"`
	TelegramAPIHash string `koanf:"telegram_api_hash"`
	TelegramPhone   string `koanf:"telegram_phone"`
	SessionPath     string `koanf:"session_path"`

	DatabaseDSN string `koanf:"database_dsn"`
	StoragePath string `koanf:"storage_path"`
	HTTPPort    string `koanf:"http_port"`

	NotifyBotToken string `koanf:"notify_bot_token"`
	NotifyChatID   string `koanf:"notify_chat_id"`

	AIEnabled  bool   `koanf:"ai_enabled"`
	AIEndpoint string `koanf:"ai_endpoint"`
	AIAPIKey   string `koanf:"ai_api_key"`
	AIModel    string `koanf:"ai_model"`

	AppEnv domain.AppEnv `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("session_path") {
		k.Set("session_path", "./data/session.json")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("ai_endpoint") {
		k.Set("ai_endpoint", "https://openrouter.ai/api/v1")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := domain.ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = domain.AppEnvProduction
		}
	} else {
		cfg.AppEnv = domain.AppEnvProduction
	}

	// Validate required fields
	if cfg.TelegramAPIID == 0 || cfg.TelegramAPIHash == "" || cfg.TelegramPhone == "" {
		return nil, errors.ErrMissingCredentials
	}
	if cfg.DatabaseDSN == "" {
		return nil, errors.ErrMissingDatabaseDSN
	}
	if cfg.AIEnabled && cfg.AIAPIKey == "" {
		return nil, oops.Errorf("ai_enabled requires ai_api_key")
	}

	return &cfg, nil
}
