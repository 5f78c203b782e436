package db

import "strings"

// IsUniqueViolation reports whether err is a Postgres unique violation,
// optionally scoped to one constraint. Matching on the message keeps the
// check driver-agnostic, which the sqlite-backed tests rely on.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
