package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Security SecurityConfig
	Order    OrderConfig
}

type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type OrderConfig struct {
	// TxTimeout bounds the transaction that inserts an order batch.
	TxTimeout time.Duration
}

type LogConfig struct {
	Level string
}

type SecurityConfig struct {
	SessionKey   []byte
	CSRFKey      []byte
	CookieSecure bool
	// EphemeralKeys is set when a key was generated at startup because none
	// was configured; sessions will not survive a restart.
	EphemeralKeys bool
}

var envBindings = map[string]string{
	"server.port":                "SERVER_PORT",
	"server.request_timeout":     "REQUEST_TIMEOUT",
	"database.host":              "DB_HOST",
	"database.port":              "DB_PORT",
	"database.user":              "DB_USER",
	"database.password":          "DB_PASSWORD",
	"database.name":              "DB_NAME",
	"database.max_open_conns":    "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns":    "DB_MAX_IDLE_CONNS",
	"database.conn_max_lifetime": "DB_CONN_MAX_LIFETIME",
	"log.level":                  "LOG_LEVEL",
	"security.session_key":       "SESSION_KEY",
	"security.csrf_key":          "CSRF_KEY",
	"security.cookie_secure":     "COOKIE_SECURE",
	"order.tx_timeout":           "ORDER_TX_TIMEOUT",
}

// Load reads the YAML file at path when it exists and overlays the
// environment variables listed in envBindings.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "ordercrm")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.name", "ordercrm")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("security.cookie_secure", false)
	v.SetDefault("order.tx_timeout", "5s")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	requestTimeout, err := time.ParseDuration(v.GetString("server.request_timeout"))
	if err != nil {
		return nil, fmt.Errorf("parsing request timeout: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("database.conn_max_lifetime"))
	if err != nil {
		return nil, fmt.Errorf("parsing conn max lifetime: %w", err)
	}

	orderTxTimeout, err := time.ParseDuration(v.GetString("order.tx_timeout"))
	if err != nil {
		return nil, fmt.Errorf("parsing order tx timeout: %w", err)
	}

	sessionKey, sessionGenerated, err := loadKey(v.GetString("security.session_key"))
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	csrfKey, csrfGenerated, err := loadKey(v.GetString("security.csrf_key"))
	if err != nil {
		return nil, fmt.Errorf("csrf key: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			RequestTimeout: requestTimeout,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Security: SecurityConfig{
			SessionKey:    sessionKey,
			CSRFKey:       csrfKey,
			CookieSecure:  v.GetBool("security.cookie_secure"),
			EphemeralKeys: sessionGenerated || csrfGenerated,
		},
		Order: OrderConfig{
			TxTimeout: orderTxTimeout,
		},
	}

	return cfg, nil
}

// loadKey decodes a base64 key of at least 32 bytes. An empty value yields a
// random key and generated=true.
func loadKey(encoded string) (key []byte, generated bool, err error) {
	if encoded == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, false, fmt.Errorf("generating key: %w", err)
		}
		return key, true, nil
	}

	key, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("decoding key: %w", err)
	}
	if len(key) < 32 {
		return nil, false, fmt.Errorf("key must be at least 32 bytes, got %d", len(key))
	}
	return key, false, nil
}
