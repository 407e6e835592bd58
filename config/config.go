// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configFile = pflag.StringP("config", "c", "", "Path to a config file (defaults to ./config.toml)")
	port       = pflag.IntP("port", "p", 0, "Port to listen on, overrides host.port")

	validLogLevels     = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers       = []string{"sqlite", "postgres"}
	validHashes        = []string{"argon2id", "bcrypt"}
	validCacheTypes    = []string{"none", "memory", "redis"}
	errMissingSecret   = errors.New("security.jwt_secret is not set")
	errInvalidLogLevel = errors.New("invalid log level provided")
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	// A missing .env file is fine, real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file, %w", err)
	}

	pflag.Parse()

	if *port != 0 {
		v.Set("host.port", *port)
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	bindEnvs()
	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || *configFile != "" {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		fmt.Println("[INFO]: No config.toml found, using defaults and environment variables")
	}

	err := validate()
	if errors.Is(err, errMissingSecret) {
		fmt.Println("WARNING: You haven't set a JWT secret. Please set SECURITY_JWT_SECRET or security.jwt_secret in the config.toml file.\nA random secret you can use:\n\n" + genSecret() + "\n")
	}

	return err
}

func bindEnvs() {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")
	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	v.BindEnv("security.jwt_secret", "SECURITY_JWT_SECRET")
	v.BindEnv("security.session_ttl", "SECURITY_SESSION_TTL")
	v.BindEnv("security.hash_algorithm", "SECURITY_HASH_ALGORITHM")
	v.BindEnv("security.bcrypt_cost", "SECURITY_BCRYPT_COST")
	v.BindEnv("security.password_max_length", "SECURITY_PASSWORD_MAX_LENGTH")
	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")
	v.BindEnv("security.reset_token_ttl", "SECURITY_RESET_TOKEN_TTL")

	v.BindEnv("mail.enabled", "MAIL_ENABLED")
	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.sender_address", "MAIL_SENDER_ADDRESS")
	v.BindEnv("mail.password", "MAIL_PASSWORD")
	v.BindEnv("mail.reset_url", "MAIL_RESET_URL")

	v.BindEnv("turnstile.enabled", "TURNSTILE_ENABLED")
	v.BindEnv("turnstile.secret_token", "TURNSTILE_SECRET_TOKEN")
	v.BindEnv("turnstile.verify_url", "TURNSTILE_VERIFY_URL")

	v.BindEnv("cache.type", "CACHE_TYPE")
	v.BindEnv("cache.ttl", "CACHE_TTL")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", "http://localhost:3000")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("security.session_ttl", 30*24*time.Hour)
	v.SetDefault("security.hash_algorithm", "argon2id")
	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("security.password_max_length", 255)
	v.SetDefault("security.rate_limit", 10)
	v.SetDefault("security.reset_token_ttl", time.Hour)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.reset_url", "http://localhost:8080/reset-password.html")

	v.SetDefault("turnstile.enabled", false)

	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.ttl", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errInvalidLogLevel
	}

	if p := v.GetInt("host.port"); p <= 0 || p > 65535 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database.dsn can't be empty")
	}

	if v.GetString("security.jwt_secret") == "" {
		return errMissingSecret
	}

	if v.GetDuration("security.session_ttl") <= 0 {
		return errors.New("security.session_ttl must be bigger than 0")
	}

	if !slices.Contains(validHashes, v.GetString("security.hash_algorithm")) {
		return errors.New("invalid hash algorithm provided")
	}

	if v.GetInt("security.password_max_length") <= 0 {
		return errors.New("security.password_max_length must be bigger than 0")
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if v.GetDuration("security.reset_token_ttl") <= 0 {
		return errors.New("security.reset_token_ttl must be bigger than 0")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail host is missing")
		}

		if v.GetString("mail.sender_address") == "" {
			return errors.New("mail sender address is missing")
		}
	} else {
		fmt.Println("[WARNING]: Mail is disabled. Password reset links will only be written to the log")
	}

	if v.GetString("mail.reset_url") == "" {
		return errors.New("mail.reset_url can't be empty")
	}

	if !v.GetBool("turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Some public endpoints won't be guarded against bots")
	} else if v.GetString("turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	if !slices.Contains(validCacheTypes, v.GetString("cache.type")) {
		return errors.New("invalid cache type provided")
	}

	if v.GetString("cache.type") == "redis" && v.GetString("redis.addr") == "" {
		return errors.New("redis address is missing")
	}

	return nil
}
