package config

import (
	"errors"
	"flag"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	authservice "github.com/goserg/clubshub/auth/service"
)

type TgBot struct {
	Enabled          bool    `toml:"enabled"`
	TelegramApiToken string  `toml:"telegram_apitoken"`
	AdminChatIDs     []int64 `toml:"admin_chat_ids"`
}

type Server struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Debug   bool   `toml:"debug_mode"`
	Metrics bool   `toml:"metrics"`
}

type Log struct {
	Level string `toml:"level"`
}

type Config struct {
	Server Server             `toml:"server"`
	Log    Log                `toml:"log"`
	Auth   authservice.Config `toml:"auth"`
	TgBot  TgBot              `toml:"tg_bot"`
}

var configPath string

func init() {
	flag.StringVar(&configPath, "server-config", "configs/server.toml", "path to server config")
}

// New reads the config file given by the -server-config flag.
// Values from the environment (and .env, if present) take precedence.
func New() (Config, error) {
	if !flag.Parsed() {
		flag.Parse()
	}
	return Load(configPath)
}

func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func Default() Config {
	return Config{
		Server: Server{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Log: Log{
			Level: "info",
		},
		Auth: authservice.Config{
			Expiration:      "12h",
			JanitorInterval: "10m",
		},
	}
}

func applyEnv(cfg *Config) {
	if token := os.Getenv("CLUBSHUB_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		cfg.TgBot.TelegramApiToken = token
	}
}
