package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const postgresApplicationName = "facultysite"

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), gormConfig(cfg))
}

// buildPostgresDSN renders a libpq keyword/value string. Timestamps are read
// back in UTC so token expiry comparisons match the application clock.
func buildPostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	params := []string{
		"host=" + quoteLibpq(host),
		"port=" + strconv.Itoa(port),
		"user=" + quoteLibpq(cfg.User),
		"dbname=" + quoteLibpq(cfg.Name),
	}
	if cfg.Password != "" {
		params = append(params, "password="+quoteLibpq(cfg.Password))
	}

	keys, options := mergeOptions(map[string]string{
		"sslmode":          "disable",
		"TimeZone":         "UTC",
		"application_name": postgresApplicationName,
	}, cfg.Options)
	for _, key := range keys {
		params = append(params, fmt.Sprintf("%s=%s", key, quoteLibpq(options[key])))
	}

	return strings.Join(params, " "), nil
}
