package persistence

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// sqliteDriverName is the database/sql driver every SQLite connection is opened with.
// It replaces SQLite's ASCII-only lower() with Unicode case folding so that
// text filters match the same rows as on PostgreSQL.
const sqliteDriverName = "sqlite3_bookstore"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower lower-cases text values and passes anything else (NULL, numbers) through
func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// isForeignKeyViolation reports whether err was raised by a foreign key constraint.
// SQLite reports ON DELETE RESTRICT with the trigger constraint code, which the
// GORM error translator does not map to gorm.ErrForeignKeyViolated.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		var ptr *sqlite3.Error
		if !errors.As(err, &ptr) || ptr == nil {
			return false
		}
		sqliteErr = *ptr
	}
	if sqliteErr.Code != sqlite3.ErrConstraint {
		return false
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintForeignKey:
		return true
	case sqlite3.ErrConstraintTrigger:
		return strings.Contains(sqliteErr.Error(), "FOREIGN KEY")
	default:
		return false
	}
}
