package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string `env:"APP_ADDR" env-default:":8080"`
	GinMode string `env:"GIN_MODE"`

	DBUser     string `env:"DB_USER" env-default:"root"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" env-default:"127.0.0.1:3306"`
	DBName     string `env:"DB_NAME" env-default:"horizontravels"`

	JWTSecret     string        `env:"JWT_SECRET" env-default:"change-me"`
	SessionCookie string        `env:"SESSION_COOKIE" env-default:"session"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"24h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`

	SeedData      bool   `env:"SEED_DATA" env-default:"false"`
	AdminName     string `env:"ADMIN_NAME" env-default:"Administrator"`
	AdminContact  string `env:"ADMIN_CONTACT" env-default:"0000000000"`
	AdminUsername string `env:"ADMIN_USERNAME" env-default:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" env-default:"admin@horizontravels.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" env-default:"admin12345"`
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("config error: %w", err)
	}
	env.AppAddr = strings.TrimSpace(env.AppAddr)
	env.GinMode = strings.TrimSpace(env.GinMode)
	origins := env.CORSAllowedOrigins[:0]
	for _, o := range env.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	env.CORSAllowedOrigins = origins
	return env, nil
}
