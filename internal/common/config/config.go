package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Storage struct {
		// Backend selects the durable storage implementation: redis or file.
		Backend  string `env:"STORAGE_BACKEND" envDefault:"redis"`
		FilePath string `env:"STORAGE_FILE_PATH" envDefault:"data/youguo.json"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Auth struct {
		// GoogleClientID, when set, is checked against the audience claim of
		// incoming identity assertions.
		GoogleClientID string `env:"GOOGLE_CLIENT_ID" envDefault:""`
		// AdminEmail grants the ADMIN role at account creation time.
		AdminEmail string `env:"ADMIN_EMAIL" envDefault:"melan0choly@gmail.com"`
	}

	Gemini struct {
		APIKey     string `env:"GEMINI_API_KEY" envDefault:""`
		Model      string `env:"GEMINI_MODEL" envDefault:"gemini-3-flash-preview"`
		TimeoutSec int    `env:"GEMINI_TIMEOUT_SEC" envDefault:"8"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine; in production the variables are set
		// directly in the environment.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
