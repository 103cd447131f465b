// Package dbtest seeds throwaway record files for tests of packages built on db.
package dbtest

import (
	"os"
	"testing"

	"github.com/tgienger/tasktrack/internal/config"
	"github.com/tgienger/tasktrack/internal/db"
)

// Seed holds the data rows, without headers, written to each record file.
type Seed struct {
	Users string
	Tasks string
	Logs  string
}

// CreateTestDB writes seed into a fresh temp data directory and opens it.
func CreateTestDB(t testing.TB, seed Seed) (*db.DB, config.Config) {
	t.Helper()
	cfg := config.Config{DataDir: t.TempDir()}

	for name, body := range map[string]string{
		config.UsersFile: withHeader(db.UsersHeader, seed.Users),
		config.TasksFile: withHeader(db.TasksHeader, seed.Tasks),
		config.LogsFile:  withHeader(db.LogsHeader, seed.Logs),
	} {
		if err := os.WriteFile(cfg.Path(name), []byte(body), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	d, err := db.New(cfg, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return d, cfg
}

func withHeader(header, body string) string {
	if body == "" {
		return header
	}
	return header + "\n" + body
}
