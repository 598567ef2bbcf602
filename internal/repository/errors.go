// Package repository contains data access logic separated from HTTP handlers.
// Repositories translate driver errors into the kinds defined in package errs:
// sql.ErrNoRows becomes errs.ErrNotFound, MySQL duplicate-key violations are
// reported through isDuplicateKey and foreign key violations become
// errs.ErrInvalidParameter.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/entityhub/internal/errs"
)

const (
	mysqlDuplicateEntry = 1062 // ER_DUP_ENTRY
	mysqlNoReferenced   = 1452 // ER_NO_REFERENCED_ROW_2
)

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// badReference maps a foreign key violation, such as an unknown activity
// type or an owner deleted while its token is still valid, to
// ErrInvalidParameter and returns any other error unchanged.
func badReference(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlNoReferenced {
		return errs.New(errs.ErrInvalidParameter, errs.MsgBadReference)
	}
	return err
}

// notFound maps sql.ErrNoRows to an errs.ErrNotFound carrying msg and
// returns any other error unchanged.
func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.New(errs.ErrNotFound, msg)
	}
	return err
}

// expectOne turns a zero row count of an UPDATE/DELETE into ErrNotFound. The
// connection is opened with clientFoundRows, so the count is rows matched.
func expectOne(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.New(errs.ErrNotFound, msg)
	}
	return nil
}
