package main

import (
	"errors"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/modules/tracker/services"
	"github.com/actiontracker/tracker/modules/tracker/services/csvimport"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitDBWrite    = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classify picks an exit code for errors coming out of the services layer.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		ce   *cliError
		ve   *csvimport.ValidationError
		mve  *csvimport.MissingVendorError
		uue  *csvimport.UnresolvedUserError
		iie  *services.InvalidInputError
		mcat *csvimport.MissingCategoryError
	)
	switch {
	case errors.As(err, &ce):
		return err
	case errors.Is(err, csvimport.ErrRolledBack), errors.As(err, &mcat):
		return withCode(exitDBWrite, err)
	case errors.As(err, &ve), errors.As(err, &mve), errors.As(err, &uue), errors.As(err, &iie),
		errors.Is(err, csvimport.ErrNoUsers),
		errors.Is(err, csvimport.ErrInvalidSource),
		errors.Is(err, csvimport.ErrEmptyBatch),
		errors.Is(err, services.ErrSequenceTooLow):
		return withCode(exitValidation, err)
	case errors.Is(err, actionitem.ErrMalformedID):
		return withCode(exitUsage, err)
	case errors.Is(err, vendor.ErrNotFound), errors.Is(err, actionitem.ErrNotFound):
		return withCode(exitValidation, err)
	default:
		return withCode(exitDB, err)
	}
}
