package models

import "time"

// Status is the lifecycle state of a task
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusDone
)

// Valid reports whether s is one of the known states
func (s Status) Valid() bool {
	return s >= StatusNotStarted && s <= StatusDone
}

// Next returns the only state s may move to, and false when s is done
func (s Status) Next() (Status, bool) {
	if s >= StatusDone || s < StatusNotStarted {
		return s, false
	}
	return s + 1, true
}

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusInProgress:
		return "in progress"
	case StatusDone:
		return "done"
	}
	return "unknown"
}

// User is a seeded account; never modified by the app
type User struct {
	Code     int
	Name     string
	Email    string
	Password string // stored in plaintext
}

// Task represents a single shared task
type Task struct {
	Code        int
	Name        string
	Status      Status
	RepUserCode int   // stored reference, kept even when it does not resolve
	RepUser     *User // nil if RepUserCode has no matching user
}

// Log is one status change of a task, including its creation
type Log struct {
	TaskCode   int
	Status     Status
	UserCode   int
	ChangeDate time.Time // calendar date only
}
