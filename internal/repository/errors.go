package repository

import (
	"errors"

	"accessdash/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes that map to client errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
	pgCheckViolation      = "23514"
)

// translateError maps a store error onto an AppError. Errors that are
// already AppErrors pass through; anything unrecognised is reported as the
// store being unavailable.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.NewConflictError("Resource already exists", err)
		case pgForeignKeyViolation:
			return models.NewReferenceError("Invalid reference to related resource", err)
		case pgInvalidText:
			return &models.AppError{Code: models.CodeValidation, Message: "Invalid input format", Err: err}
		case pgCheckViolation:
			return &models.AppError{Code: models.CodeValidation, Message: "Value violates a data constraint", Err: err}
		}
	}

	return models.NewStoreUnavailableError(err)
}
