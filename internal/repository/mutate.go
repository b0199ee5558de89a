package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
)

// SQLSTATE codes for integrity constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ViolationKind classifies an integrity constraint failure.
type ViolationKind int

const (
	UniqueViolation ViolationKind = iota
	ForeignKeyViolation
)

// Violation describes an integrity constraint failure reported by the
// database while a unit of work ran or committed.
type Violation struct {
	Kind       ViolationKind
	Table      string
	Constraint string
}

// ConflictMapper turns a violation into the logical error for one call site.
// Returning nil leaves the original error untouched.
type ConflictMapper func(Violation) *apperr.LogicError

// MapAll maps every violation to code.
func MapAll(code apperr.LogicCode) ConflictMapper {
	return func(Violation) *apperr.LogicError {
		return apperr.NewLogicError(code)
	}
}

// MapKind maps violations of one kind to code and leaves the rest alone.
func MapKind(kind ViolationKind, code apperr.LogicCode) ConflictMapper {
	return func(v Violation) *apperr.LogicError {
		if v.Kind != kind {
			return nil
		}
		return apperr.NewLogicError(code)
	}
}

// AsViolation reports whether err carries a PostgreSQL integrity violation.
func AsViolation(err error) (Violation, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Violation{}, false
	}

	v := Violation{Table: pgErr.TableName, Constraint: pgErr.ConstraintName}
	switch pgErr.Code {
	case pgUniqueViolation:
		v.Kind = UniqueViolation
	case pgForeignKeyViolation:
		v.Kind = ForeignKeyViolation
	default:
		return Violation{}, false
	}
	return v, true
}

// Mutate runs fn inside a transaction on db and commits it. On error or panic
// the transaction is rolled back and panics are re-raised.
//
// Integrity violations raised by fn or by the commit are handed to onConflict,
// so the caller decides which logical error a lost race becomes.
func Mutate(ctx context.Context, db TxBeginner, fn func(ctx context.Context, tx DBTX) error, onConflict ConflictMapper) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			err = mapConflict(err, onConflict)
			return
		}
		if err = tx.Commit(); err != nil {
			err = mapConflict(err, onConflict)
		}
	}()

	err = fn(ctx, tx)
	return err
}

func mapConflict(err error, onConflict ConflictMapper) error {
	var logicErr *apperr.LogicError
	if onConflict == nil || errors.As(err, &logicErr) {
		return err
	}

	v, ok := AsViolation(err)
	if !ok {
		return err
	}
	if mapped := onConflict(v); mapped != nil {
		return mapped.WithCause(err)
	}
	return err
}
