package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"kaucja/internal/platform/testkit"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "sqlstate " + code}
}

func TestDBErrorCodeMapping(t *testing.T) {
	cases := map[string]ErrorCode{
		pgErrUniqueViolation:           ErrorCodeDuplicateKey,
		pgErrForeignKeyViolation:       ErrorCodeInvalidArgument,
		pgErrNotNullViolation:          ErrorCodeValidation,
		pgErrCheckViolation:            ErrorCodeValidation,
		pgErrStringDataRightTruncation: ErrorCodeInvalidArgument,
		pgErrInvalidTextRepresentation: ErrorCodeInvalidArgument,
		pgErrSerializationFailure:      ErrorCodeDB,
		pgErrDeadlockDetected:          ErrorCodeDB,
		pgErrReadOnlySQLTransaction:    ErrorCodeUnavailable,
		pgErrCannotConnectNow:          ErrorCodeUnavailable,
		"P0001":                        ErrorCodeDB, // unmapped state still counts as a DB error
	}
	for state, want := range cases {
		got, ok := DBErrorCode(pgErr(state))
		if !ok || got != want {
			t.Fatalf("DBErrorCode(%s) = %v, %v; want %v", state, got, ok, want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("not a pg error")); ok {
		t.Fatal("DBErrorCode claimed a plain error")
	}
}

func TestFromPostgres(t *testing.T) {
	err := FromPostgres(pgErr(pgErrUniqueViolation), "insert packaging rows")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("CodeOf = %v, want duplicate key", CodeOf(err))
	}
	if !IsDuplicateKey(err) {
		t.Fatal("IsDuplicateKey lost the cause through the wrap")
	}
	testkit.MustContain(t, err.Error(), "insert packaging rows")

	// wrapped deeper: classification still reaches the root cause
	deep := fmt.Errorf("exec: %w", pgErr(pgErrDeadlockDetected))
	if !IsDeadlock(FromPostgres(deep, "insert")) {
		t.Fatal("IsDeadlock lost the cause through fmt wrapping")
	}

	if FromPostgres(nil, "noop") != nil {
		t.Fatal("FromPostgres(nil) != nil")
	}

	// a non-pg failure (closed pool, bad conn string) stays a generic DB error
	plain := FromPostgres(stderrs.New("conn closed"), "query ledger")
	if !IsCode(plain, ErrorCodeDB) {
		t.Fatalf("CodeOf = %v, want db", CodeOf(plain))
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization", FromPostgres(pgErr(pgErrSerializationFailure), "tx"), true},
		{"deadlock", pgErr(pgErrDeadlockDetected), true},
		{"lock timeout", pgErr(pgErrLockNotAvailable), true},
		{"startup", pgErr(pgErrCannotConnectNow), true},
		{"duplicate key", pgErr(pgErrUniqueViolation), false},
		{"context canceled", context.Canceled, false},
		{"plain", stderrs.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Retryable(tc.err); got != tc.want {
				t.Fatalf("Retryable = %v, want %v", got, tc.want)
			}
		})
	}
}
