package database

import (
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSNDefaults(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{User: "faculty", Name: "faculty"})
	require.NoError(t, err)
	require.Equal(t,
		"host=localhost port=5432 user=faculty dbname=faculty TimeZone=UTC application_name=facultysite sslmode=disable",
		dsn,
	)
}

func TestBuildPostgresDSNQuotesAndOverrides(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "site",
		Name:     "db",
		Host:     "db.example.com",
		Port:     6543,
		Password: "it's secret",
		Options: map[string]string{
			"sslmode":     "require",
			"search_path": "public",
		},
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=db.example.com port=6543 user=site dbname=db")
	require.Contains(t, dsn, `password='it\'s secret'`)
	require.Contains(t, dsn, "sslmode=require")
	require.Contains(t, dsn, "search_path=public")
	require.NotContains(t, dsn, "sslmode=disable")
}

func TestBuildPostgresDSNPassthrough(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "postgres://u:p@h/db"})
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@h/db", dsn)

	_, err = buildPostgresDSN(Config{})
	require.Error(t, err)
}

func TestBuildMySQLDSNDefaults(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{User: "faculty", Name: "faculty"})
	require.NoError(t, err)

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "faculty", parsed.User)
	require.Equal(t, "127.0.0.1:3306", parsed.Addr)
	require.Equal(t, "faculty", parsed.DBName)
	require.True(t, parsed.ParseTime)
	require.Equal(t, time.UTC, parsed.Loc)
	require.Equal(t, "utf8mb4", parsed.Params["charset"])
}

func TestBuildMySQLDSNWithOptions(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "user",
		Password: "secret",
		Name:     "db",
		Host:     "db.example.com",
		Port:     3307,
		Options:  map[string]string{"tls": "skip-verify", "timeout": "5s"},
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "user:secret@tcp(db.example.com:3307)/db?")

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "secret", parsed.Passwd)
	require.Equal(t, 5*time.Second, parsed.Timeout)
	require.NotNil(t, parsed.TLS)
}

func TestBuildMySQLDSNRequiresUserAndName(t *testing.T) {
	_, err := buildMySQLDSN(Config{Host: "localhost"})
	require.Error(t, err)
}

func TestMergeOptionsSortsKeys(t *testing.T) {
	keys, merged := mergeOptions(map[string]string{"b": "1", "a": "2"}, map[string]string{"b": "3", " ": "x"})
	require.Equal(t, []string{"a", "b"}, keys)
	require.Equal(t, "3", merged["b"])
}
