// Package config loads namecycler settings from defaults, an optional TOML
// file and the process environment, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/telegram"
)

// envKeys maps the supported environment variables onto config keys.
// Anything else in the environment is ignored.
var envKeys = map[string]string{
	"BOT_TOKEN":        "bot.token",
	"TELEGRAM_API_URL": "bot.api_url",
	"BASE_NICK":        "names.base",
	"LOG_LEVEL":        "logging.level",
	"STATUS_HTTP_ADDR": "status.http_addr",
	"STATUS_GRPC_ADDR": "status.grpc_addr",
}

type Config struct {
	Bot     BotConfig     `koanf:"bot"`
	Names   NamesConfig   `koanf:"names"`
	Logging LoggingConfig `koanf:"logging"`
	Status  StatusConfig  `koanf:"status"`
}

type BotConfig struct {
	Token       string        `koanf:"token"`
	APIURL      string        `koanf:"api_url"`
	PollTimeout time.Duration `koanf:"poll_timeout"`
}

type NamesConfig struct {
	Base string `koanf:"base"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `koanf:"level"`
}

type StatusConfig struct {
	HTTPAddr string `koanf:"http_addr"`
	GRPCAddr string `koanf:"grpc_addr"`
}

func defaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			APIURL:      telegram.DefaultBaseURL,
			PollTimeout: telegram.DefaultPollTimeout,
		},
		Names: NamesConfig{
			Base: common.DefaultBaseName,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. configPath may be empty.
func Load(configPath string) (*Config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, common.NewNamecyclerError(fmt.Sprintf("failed to load config file %q", configPath), common.ErrTypeConfig, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := envKeys[key]
		if !ok {
			return "", nil
		}
		return mapped, strings.TrimSpace(value)
	}), nil); err != nil {
		return nil, common.NewNamecyclerError("failed to load environment variables", common.ErrTypeConfig, err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           cfg,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, common.NewNamecyclerError("failed to unmarshal config", common.ErrTypeConfig, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize restores defaults that were overridden with blank values.
func (c *Config) normalize() {
	def := defaultConfig()
	if strings.TrimSpace(c.Names.Base) == "" {
		c.Names.Base = def.Names.Base
	}
	if strings.TrimSpace(c.Bot.APIURL) == "" {
		c.Bot.APIURL = def.Bot.APIURL
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return common.NewNamecyclerError("bot token is required", common.ErrTypeConfig, common.ErrMissingToken)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return common.NewNamecyclerError(fmt.Sprintf("unknown log level %q", c.Logging.Level), common.ErrTypeConfig, nil)
	}
	if c.Bot.PollTimeout < 0 {
		return common.NewNamecyclerError("bot.poll_timeout must not be negative", common.ErrTypeConfig, nil)
	}
	return nil
}
