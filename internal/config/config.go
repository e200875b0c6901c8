package config

import (
	"os"
	"strconv"
)

// Defaults target a local development setup, every value can be
// overridden through the environment.
const (
	defaultPort     = "8080"
	defaultMySQLDSN = "learnhub:learnhub@tcp(localhost:3306)/learnhub?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedis    = "localhost:6379"
)

// Config carries everything the server needs at startup.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string
}

// Load reads the environment once at process start. Missing keys fall
// back to the development defaults above.
func Load() *Config {
	cfg := &Config{
		ServerPort:  defaultPort,
		MySQLDSN:    defaultMySQLDSN,
		RedisAddr:   defaultRedis,
		JWTSecret:   "change-me",
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
	overrideString(&cfg.ServerPort, "SERVER_PORT")
	overrideString(&cfg.MySQLDSN, "MYSQL_DSN")
	overrideString(&cfg.RedisAddr, "REDIS_ADDR")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideInt(&cfg.RedisDB, "REDIS_DB")
	return cfg
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
