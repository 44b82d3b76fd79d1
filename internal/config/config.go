package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"djp.chapter42.de/printerbridge/internal/auth"
	"djp.chapter42.de/printerbridge/internal/data"
	"djp.chapter42.de/printerbridge/internal/processor"
	"djp.chapter42.de/printerbridge/internal/tmpl"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DefaultPort      string = "4224"
	DefaultDomain    string = "esphome"
	DefaultConfigDir string = "/app/config"

	ConfigName = "printerbridge.cfg"
	EnvPrefix  = "PRINTERBRIDGE"

	TransportREST      = "rest"
	TransportWebSocket = "websocket"
)

var Config *data.BridgeConfig

// InitConfig loads the configuration into Config and exits when it is unusable.
func InitConfig(logger *zap.Logger) {
	cfg, err := Load(logger, DefaultConfigDir, ".")
	if err != nil {
		logger.Fatal("Error while loading configuration:", zap.Error(err))
	}
	Config = cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")

	v.SetDefault("home_assistant.base_url", "")
	v.SetDefault("home_assistant.ws_url", "")
	v.SetDefault("home_assistant.transport", TransportREST)
	v.SetDefault("home_assistant.domain", DefaultDomain)
	v.SetDefault("home_assistant.timeout", time.Duration(0))
	v.SetDefault("home_assistant.endpoints.call_service", tmpl.DefaultCallServiceEndpoint)
	v.SetDefault("home_assistant.endpoints.state", tmpl.DefaultStateEndpoint)
	v.SetDefault("home_assistant.auth.type", "token")
	v.SetDefault("home_assistant.auth.token", "")
	v.SetDefault("home_assistant.auth.username", "")
	v.SetDefault("home_assistant.auth.password", "")
	v.SetDefault("home_assistant.auth.client_id", "")
	v.SetDefault("home_assistant.auth.client_secret", "")
	v.SetDefault("home_assistant.auth.token_url", "")
	v.SetDefault("home_assistant.auth.refresh_token", "")
	v.SetDefault("home_assistant.reconnect.base", time.Second)
	v.SetDefault("home_assistant.reconnect.max", 30*time.Second)
	v.SetDefault("home_assistant.reconnect.attempts", 5)

	v.SetDefault("printer.entity", "")
	v.SetDefault("printer.title", "")
	v.SetDefault("printer.paper_sensor", "")
	v.SetDefault("printer.usage_sensor", "")

	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.delay", processor.DefaultDelay)
	v.SetDefault("queue.capacity", processor.DefaultCapacity)
	v.SetDefault("queue.history", 50)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 5*time.Second)

	v.SetDefault("cors.allow_origins", []string{"*"})
}

// Load reads .env, printerbridge.cfg.yaml from the given directories and PRINTERBRIDGE_* variables,
// in rising precedence, and returns the validated configuration.
func Load(logger *zap.Logger, paths ...string) (*data.BridgeConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Error while reading .env:", zap.Error(err))
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error while reading config file: %w", err)
		}
		logger.Warn("Config file not found, using defaults and environment")
	} else {
		logger.Info("Config file loaded", zap.String("file", v.ConfigFileUsed()))
	}

	var cfg data.BridgeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error while decoding config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	if err := tmpl.PrepareTemplates(&cfg.HomeAssistant); err != nil {
		return nil, fmt.Errorf("error while parsing endpoint templates: %w", err)
	}

	provider, err := auth.BuildAuthProvider(cfg.HomeAssistant.Auth)
	if err != nil {
		return nil, fmt.Errorf("error while building auth provider: %w", err)
	}
	cfg.HomeAssistant.AuthProvider = provider

	return &cfg, nil
}

func validate(cfg *data.BridgeConfig) error {
	if cfg.Printer.Entity == "" {
		return errors.New("printer.entity is required")
	}
	if cfg.HomeAssistant.BaseURL == "" {
		return errors.New("home_assistant.base_url is required")
	}
	switch cfg.HomeAssistant.Transport {
	case TransportREST, TransportWebSocket:
	default:
		return fmt.Errorf("home_assistant.transport must be %q or %q, got %q", TransportREST, TransportWebSocket, cfg.HomeAssistant.Transport)
	}
	if cfg.HomeAssistant.Domain == "" {
		return errors.New("home_assistant.domain must not be empty")
	}
	if cfg.Queue.Delay < 0 {
		return errors.New("queue.delay must not be negative")
	}
	if cfg.Queue.Capacity <= 0 {
		return errors.New("queue.capacity must be positive")
	}
	return nil
}
