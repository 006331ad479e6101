// Package config собирает настройки сервера из флагов, окружения и .env файла.
//
// Приоритет: флаги командной строки > переменные окружения > .env > значения по умолчанию.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/UkralStul/orion-graphql/internal/validation"
)

const defaultPort = "8080"

type Config struct {
	HTTPAddr           string        `json:"httpAddr" validate:"required"`
	LogLevel           string        `json:"logLevel" validate:"oneof=trace debug info warn error"`
	LogFormat          string        `json:"logFormat" validate:"oneof=json console"`
	SeedEnabled        bool          `json:"seedEnabled"`
	SeedPath           string        `json:"seedPath" validate:"omitempty,file"`
	PlaygroundEnabled  bool          `json:"playgroundEnabled"`
	MetricsEnabled     bool          `json:"metricsEnabled"`
	WebsocketKeepAlive time.Duration `json:"websocketKeepAlive" validate:"gte=0"`
	CORSOrigin         string        `json:"corsOrigin" validate:"required"`
	DataloaderWait     time.Duration `json:"dataloaderWait" validate:"gt=0"`
}

func Default() Config {
	return Config{
		HTTPAddr:           ":" + defaultPort,
		LogLevel:           "info",
		LogFormat:          "json",
		SeedEnabled:        true,
		PlaygroundEnabled:  true,
		MetricsEnabled:     true,
		WebsocketKeepAlive: 10 * time.Second,
		CORSOrigin:         "*",
		DataloaderWait:     time.Millisecond,
	}
}

// setting связывает поле конфигурации с переменной окружения и флагом.
type setting struct {
	env, flag, usage string
	str              *string
	boolean          *bool
	duration         *time.Duration
}

func settings(c *Config) []setting {
	return []setting{
		{env: "HTTP_ADDR", flag: "addr", usage: "HTTP listen address", str: &c.HTTPAddr},
		{env: "LOG_LEVEL", flag: "log-level", usage: "log level (trace, debug, info, warn, error)", str: &c.LogLevel},
		{env: "LOG_FORMAT", flag: "log-format", usage: "log format (json, console)", str: &c.LogFormat},
		{env: "SEED_ENABLED", flag: "seed", usage: "load seed data on start", boolean: &c.SeedEnabled},
		{env: "SEED_PATH", flag: "seed-path", usage: "YAML seed file (embedded data when empty)", str: &c.SeedPath},
		{env: "PLAYGROUND_ENABLED", flag: "playground", usage: "serve GraphQL playground on /", boolean: &c.PlaygroundEnabled},
		{env: "METRICS_ENABLED", flag: "metrics", usage: "serve Prometheus metrics on /metrics", boolean: &c.MetricsEnabled},
		{env: "WS_KEEPALIVE", flag: "ws-keepalive", usage: "websocket keep-alive ping interval", duration: &c.WebsocketKeepAlive},
		{env: "CORS_ORIGIN", flag: "cors-origin", usage: "allowed websocket origin (* for any)", str: &c.CORSOrigin},
		{env: "DATALOADER_WAIT", flag: "dataloader-wait", usage: "dataloader batch window", duration: &c.DataloaderWait},
	}
}

func (s setting) set(raw string) error {
	switch {
	case s.str != nil:
		*s.str = raw
	case s.boolean != nil:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", s.env, err)
		}
		*s.boolean = v
	case s.duration != nil:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", s.env, err)
		}
		*s.duration = v
	}
	return nil
}

// RegisterFlags объявляет флаги с значениями по умолчанию.
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	for _, s := range settings(&def) {
		switch {
		case s.str != nil:
			flags.String(s.flag, *s.str, s.usage)
		case s.boolean != nil:
			flags.Bool(s.flag, *s.boolean, s.usage)
		case s.duration != nil:
			flags.Duration(s.flag, *s.duration, s.usage)
		}
	}
	flags.String("env-file", ".env", "dotenv file to load before reading the environment")
}

// Load читает .env (если файл есть), окружение и явно заданные флаги.
// flags может быть nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	envFile := ".env"
	if flags != nil {
		if f := flags.Lookup("env-file"); f != nil {
			envFile = f.Value.String()
		}
	}
	// godotenv не перезаписывает уже выставленные переменные окружения.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return resolve(os.LookupEnv, flags)
}

func resolve(lookup func(string) (string, bool), flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	if port, ok := lookup("PORT"); ok && port != "" {
		cfg.HTTPAddr = ":" + port
	}
	for _, s := range settings(&cfg) {
		if raw, ok := lookup(s.env); ok {
			if err := s.set(raw); err != nil {
				return Config{}, err
			}
		}
		if flags != nil && flags.Changed(s.flag) {
			if err := s.set(flags.Lookup(s.flag).Value.String()); err != nil {
				return Config{}, err
			}
		}
	}
	if err := validation.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
