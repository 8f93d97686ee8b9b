// Package repository defines error values that are reused across multiple
// repositories.  These sentinels let handlers distinguish failure scenarios
// and translate them to HTTP status codes: a duplicate slug or email becomes
// a 409, a missing row a 404, and an empty partial update a 400.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrSlugExists is returned when an insert or update collides with the
// unique slug of an existing item of the same variant.
var ErrSlugExists = errors.New("slug already exists")

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrNoFieldsToUpdate is returned when a partial update carries no fields.
// The stored row is left untouched.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// isDuplicate reports whether err is the MySQL duplicate-entry violation
// (error 1062) surfaced by a unique constraint.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
