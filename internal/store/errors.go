package store

import (
	"errors"

	sqlite "github.com/mattn/go-sqlite3"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrConstraintViolation = errors.New("database constraint violation")
	ErrNestedTx            = errors.New("store is already in a transaction")
)

func isConstraintErr(err error) bool {
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite.ErrConstraint
	}
	return false
}
