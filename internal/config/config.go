package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port       string        `env:"PORT" envDefault:"8080"`
	DBDSN      string        `env:"DB_DSN" envDefault:"petstore.db"`
	LogFile    string        `env:"LOG_FILE" envDefault:"./petstore.log"`
	SMSCodeTTL time.Duration `env:"SMS_CODE_TTL" envDefault:"10m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s SMS_CODE_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.SMSCodeTTL)
	return cfg, nil
}
