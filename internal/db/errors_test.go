package db_test

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/oggyb/amigo-matching/internal/db"
)

func TestIsConflict(t *testing.T) {
	assert.True(t, db.IsConflict(fmt.Errorf("insert match: %w", &mysql.MySQLError{Number: 1213})))
	assert.True(t, db.IsConflict(&mysql.MySQLError{Number: 1205}))
	assert.False(t, db.IsConflict(&mysql.MySQLError{Number: 1062}))

	assert.True(t, db.IsConflict(&pgconn.PgError{Code: "40001"}))
	assert.True(t, db.IsConflict(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"})))
	assert.False(t, db.IsConflict(&pgconn.PgError{Code: "23505"}))

	assert.True(t, db.IsConflict(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, db.IsConflict(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.False(t, db.IsConflict(sqlite3.Error{Code: sqlite3.ErrConstraint}))

	assert.False(t, db.IsConflict(errors.New("boom")))
	assert.False(t, db.IsConflict(nil))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, db.IsUnavailable(fmt.Errorf("query: %w", driver.ErrBadConn)))
	assert.True(t, db.IsUnavailable(mysql.ErrInvalidConn))
	assert.True(t, db.IsUnavailable(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}))
	assert.False(t, db.IsUnavailable(errors.New("syntax error")))
	assert.False(t, db.IsUnavailable(nil))
}
