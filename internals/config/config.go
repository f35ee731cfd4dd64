package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server struct {
		Host string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
		Port int    `yaml:"port" env:"SERVER_PORT" env-default:"8000"`
	} `yaml:"server"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"notes.db"`
	} `yaml:"database"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
	} `yaml:"cors"`
}

func MustLoad() *Config {
	var configPath string
	configPath = os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configflag := flag.String("config", "", "Path to configuration file")
		flag.Parse()
		configPath = *configflag
	}

	var cfg Config
	if configPath == "" {
		// No config file: defaults plus environment overrides.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("Failed to read config from environment: %v", err)
		}
		return &cfg
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	return &cfg
}
