package logic

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tgienger/tasktrack/internal/models"
)

// MaxNameLength is the longest task name accepted from the user.
const MaxNameLength = 9

// ParseCode reads a positive integer code typed by the user.
func ParseCode(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, invalidf("code must be a whole number")
	}
	if n <= 0 {
		return 0, invalidf("code must be greater than zero")
	}
	return n, nil
}

// ValidateName checks a task name typed by the user. Names cannot hold the
// record delimiter since it is written to disk unescaped.
func ValidateName(s string) error {
	switch {
	case strings.TrimSpace(s) == "":
		return invalidf("task name is required")
	case utf8.RuneCountInString(s) > MaxNameLength:
		return invalidf("task name must be at most %d characters", MaxNameLength)
	case strings.ContainsAny(s, ",\r\n"):
		return invalidf("task name cannot contain commas or line breaks")
	}
	return nil
}

// ParseStatus reads a status number typed by the user.
func ParseStatus(s string) (models.Status, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, invalidf("status must be a number")
	}
	status := models.Status(n)
	if !status.Valid() {
		return 0, invalidf("status must be 0, 1 or 2")
	}
	return status, nil
}
