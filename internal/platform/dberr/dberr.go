// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies storage errors from both library drivers into
// [apperr.AppError] values.
//
//   - Missing rows ([pgx.ErrNoRows], [sql.ErrNoRows]) become NOT_FOUND.
//   - Constraint violations (PostgreSQL class 23, SQLITE_CONSTRAINT) become
//     UNPROCESSABLE.
//   - Everything else becomes INTERNAL_ERROR with the action in its cause.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/taibuivan/mushaf/internal/platform/apperr"
)

// integrityClass is the SQLSTATE class of integrity constraint violations.
const integrityClass = "23"

// Wrap classifies err. resource names the entity in client messages; action
// is kept in the internal cause for logging.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	if isConstraintViolation(err) {
		appErr := apperr.Unprocessable(resource + " violates a storage constraint")
		appErr.Cause = fmt.Errorf("%s: %w", action, err)
		return appErr
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == integrityClass
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
