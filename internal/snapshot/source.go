package snapshot

import (
	"github.com/tgienger/tasktrack/internal/db"
	"github.com/tgienger/tasktrack/internal/models"
)

type dbSource struct {
	db *db.DB
}

// FromDB reads the records to export from the repositories
func FromDB(d *db.DB) Source {
	return dbSource{db: d}
}

func (s dbSource) Users() ([]models.User, error) { return s.db.Users.FindAll() }
func (s dbSource) Tasks() ([]models.Task, error) { return s.db.Tasks.FindAll() }
func (s dbSource) Logs() ([]models.Log, error)   { return s.db.Logs.FindAll() }
