package postgres

import (
	"errors"
	"strings"

	"docspace/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the hierarchy repositories react to
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeSerialization       = "40001"
	codeDeadlock            = "40P01"
	classConnection         = "08"
)

// pgCode returns the SQLSTATE of err, or "" if err did not come from the server
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError reports a unique violation, e.g. a taken order slot
func IsPgDuplicateError(err error) bool { return pgCode(err) == codeUniqueViolation }

// IsPgNoRowsError reports an empty QueryRow result
func IsPgNoRowsError(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

// IsPgForeignKeyError reports a foreign key violation
func IsPgForeignKeyError(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// IsTransientError reports whether err is worth retrying in a new transaction:
// serialization failures, deadlocks, connection loss, or errors already marked
// with domain.ErrTransient
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrTransient) {
		return true
	}

	switch code := pgCode(err); {
	case code == codeSerialization, code == codeDeadlock:
		return true
	case strings.HasPrefix(code, classConnection):
		return true
	case code != "":
		return false
	}

	// Failed before anything reached the server
	return pgconn.SafeToRetry(err)
}
