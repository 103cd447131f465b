// Package snapshot copies the record files into a SQLite database for
// ad-hoc querying. The record files stay the source of truth.
package snapshot

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tgienger/tasktrack/internal/db"
	"github.com/tgienger/tasktrack/internal/models"
)

//go:embed schema.sql
var schema string

// Source is where the exported records come from
type Source interface {
	Users() ([]models.User, error)
	Tasks() ([]models.Task, error)
	Logs() ([]models.Log, error)
}

// Counts reports how many records were exported
type Counts struct {
	Users int
	Tasks int
	Logs  int
}

// Export writes every record from src into a new SQLite database at path.
// Passwords are not exported.
func Export(src Source, path string) (Counts, error) {
	if _, err := os.Stat(path); err == nil {
		return Counts{}, fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return Counts{}, err
	}

	users, err := src.Users()
	if err != nil {
		return Counts{}, err
	}
	tasks, err := src.Tasks()
	if err != nil {
		return Counts{}, err
	}
	logs, err := src.Logs()
	if err != nil {
		return Counts{}, err
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return Counts{}, err
	}
	defer conn.Close()

	if _, err := conn.Exec(schema); err != nil {
		return Counts{}, fmt.Errorf("init schema: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return Counts{}, err
	}
	defer tx.Rollback()

	for _, u := range users {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO users (code, name, email) VALUES (?, ?, ?)
		`, u.Code, u.Name, u.Email); err != nil {
			return Counts{}, fmt.Errorf("insert user %d: %w", u.Code, err)
		}
	}

	for _, t := range tasks {
		if _, err := tx.Exec(`
			INSERT INTO tasks (code, name, status, rep_user_code) VALUES (?, ?, ?, ?)
		`, t.Code, t.Name, int(t.Status), t.RepUserCode); err != nil {
			return Counts{}, fmt.Errorf("insert task %d: %w", t.Code, err)
		}
	}

	for _, l := range logs {
		if _, err := tx.Exec(`
			INSERT INTO logs (task_code, status, user_code, change_date) VALUES (?, ?, ?, ?)
		`, l.TaskCode, int(l.Status), l.UserCode, l.ChangeDate.Format(db.DateLayout)); err != nil {
			return Counts{}, fmt.Errorf("insert log for task %d: %w", l.TaskCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, err
	}
	return Counts{Users: len(users), Tasks: len(tasks), Logs: len(logs)}, nil
}
