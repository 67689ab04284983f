package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "TRACKER_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "cmd", "tracker-admin")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("TRACKER_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("TRACKER_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("TRACKER_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	d := DatabaseOptions{Host: "db", Port: "5433", User: "u", Password: "p", Name: "tracker"}
	require.Equal(t, "host=db port=5433 user=u dbname=tracker password=p sslmode=disable", d.ConnectionString())

	d.URL = "postgres://u:p@db:5433/tracker"
	require.Equal(t, "postgres://u:p@db:5433/tracker", d.ConnectionString())
}

func TestConfiguration_Validate(t *testing.T) {
	c := &Configuration{LogLevel: " DEBUG ", Database: DatabaseOptions{ConnectTimeout: time.Second}}
	require.NoError(t, c.validate())
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, logrus.DebugLevel, c.LogrusLogLevel())

	c = &Configuration{LogLevel: "verbose", Database: DatabaseOptions{ConnectTimeout: time.Second}}
	require.ErrorContains(t, c.validate(), "LOG_LEVEL")

	c = &Configuration{LogLevel: "info"}
	require.ErrorContains(t, c.validate(), "DB_CONNECT_TIMEOUT")
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
