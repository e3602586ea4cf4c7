package postgres

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"puntoventa/internal/core/apperror"
)

// Builder returns a squirrel builder with PostgreSQL placeholder format.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// mapNotFound converts pgx.ErrNoRows into a structured not-found error.
func mapNotFound(err error, entity string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(entity, id)
	}
	return err
}

// mapNotFoundResult reports a zero-rows-affected write as not found.
func mapNotFoundResult(entity string, id any) error {
	return apperror.NewNotFound(entity, id)
}
