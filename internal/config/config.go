package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string        `env:"ADDR" envDefault:":8080"`
	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
	Dev         bool          `env:"DEV" envDefault:"false"`
}

// Load reads an optional .env file, then the environment. A missing .env is
// fine in deployed environments.
func Load() (Config, error) {
	_ = godotenv.Load()
	return env.ParseAs[Config]()
}
