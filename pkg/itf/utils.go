package itf

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/actiontracker/tracker/pkg/configuration"
)

func NewPool(dbOpts string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	config, err := pgxpool.ParseConfig(dbOpts)
	if err != nil {
		panic(err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Minute * 5
	config.MaxConnIdleTime = time.Second * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		panic(fmt.Errorf("failed to create database pool: %w", err))
	}

	return pool
}

// CanDialPostgres reports whether DB_HOST:DB_PORT accepts TCP connections.
func CanDialPostgres() bool {
	db := configuration.Use().Database
	addr := net.JoinHostPort(db.Host, db.Port)

	conn, err := net.DialTimeout("tcp", addr, 250*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// RequirePostgres skips tb when Postgres is unreachable, and fails it in CI.
func RequirePostgres(tb testing.TB) {
	tb.Helper()
	if CanDialPostgres() {
		return
	}
	if strings.TrimSpace(os.Getenv("CI")) != "" || strings.EqualFold(strings.TrimSpace(os.Getenv("GITHUB_ACTIONS")), "true") {
		tb.Fatalf("postgres is not reachable (DB_HOST/DB_PORT)")
	}
	tb.Skip("postgres is not reachable; skipping integration test")
}

// Postgres identifiers are limited to 63 bytes.
const maxDBNameLength = 63

var dbNameReplacer = strings.NewReplacer("/", "_", " ", "_", "-", "_", ".", "_", "(", "_", ")", "_", "[", "_", "]", "_")

// sanitizeDBName turns a test name into a valid database name. Long names keep
// their head and get a short hash of the full name so they stay unique.
func sanitizeDBName(name string) string {
	sanitized := dbNameReplacer.Replace(strings.ToLower(name))
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "test_db"
	}
	if len(sanitized) <= maxDBNameLength {
		return sanitized
	}

	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(name)))[:8]
	head := strings.TrimRight(sanitized[:maxDBNameLength-len(hash)-1], "_")
	return head + "_" + hash
}

func adminConnString() string {
	db := configuration.Use().Database
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=postgres password=%s sslmode=disable",
		db.Host, db.Port, db.User, db.Password,
	)
}

// CreateDB drops and recreates a test database named after name.
func CreateDB(name string) {
	sanitizedName := sanitizeDBName(name)

	db, err := sql.Open("postgres", adminConnString())
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARNING] Error closing CreateDB connection: %v", err)
		}
	}()
	_, err = db.ExecContext(context.Background(), fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", sanitizedName))
	if err != nil {
		panic(err)
	}
	_, err = db.ExecContext(context.Background(), fmt.Sprintf("CREATE DATABASE %s", sanitizedName))
	if err != nil {
		panic(err)
	}
}

func DbOpts(name string) string {
	db := configuration.Use().Database
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		db.Host, db.Port, db.User, sanitizeDBName(name), db.Password,
	)
}
