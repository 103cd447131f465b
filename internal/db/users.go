package db

import (
	"fmt"
	"log/slog"

	"github.com/tgienger/tasktrack/internal/models"
	"github.com/tgienger/tasktrack/internal/store"
)

// UserRepository gives read-only access to the seeded users
type UserRepository struct {
	file   *store.File
	logger *slog.Logger
}

func NewUserRepository(file *store.File, logger *slog.Logger) *UserRepository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &UserRepository{file: file, logger: logger}
}

// FindAll returns every valid user in file order
func (r *UserRepository) FindAll() ([]models.User, error) {
	table, err := r.file.Read()
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	users := make([]models.User, 0, len(table.Rows))
	for _, row := range table.Rows {
		u, ok := r.parse(row)
		if !ok {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// FindByCode returns the first user with code, or nil if there is none
func (r *UserRepository) FindByCode(code int) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Code == code })
}

// FindByEmailAndPassword returns the user whose email and password both match exactly
func (r *UserRepository) FindByEmailAndPassword(email, password string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email && u.Password == password })
}

func (r *UserRepository) find(match func(models.User) bool) (*models.User, error) {
	table, err := r.file.Read()
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	for _, row := range table.Rows {
		u, ok := r.parse(row)
		if ok && match(u) {
			return &u, nil
		}
	}
	return nil, nil
}

// index maps every valid user by code, keeping the first of any duplicates
func (r *UserRepository) index() (map[int]models.User, error) {
	users, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	idx := make(map[int]models.User, len(users))
	for _, u := range users {
		if _, dup := idx[u.Code]; !dup {
			idx[u.Code] = u
		}
	}
	return idx, nil
}

func (r *UserRepository) parse(row store.Row) (models.User, bool) {
	n, err := parseInts(row[0])
	if err != nil {
		r.logger.Warn("skipping user row with bad code", "row", row[0])
		return models.User{}, false
	}
	return models.User{
		Code:     n[0],
		Name:     row[1],
		Email:    row[2],
		Password: row[3],
	}, true
}
