/*
Copyright © 2026 toastfacek
*/

package main

import (
	"log"
	"time"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// Every rejected action falls into one of four buckets. All four surface to
// the acting client as a single scoped "error" event; the kind only matters
// for logging and tests.
type errorKind int

const (
	errValidation errorKind = iota
	errAuthorization
	errNotFound
	errStateConflict
)

func (k errorKind) String() string {
	switch k {
	case errValidation:
		return "validation"
	case errAuthorization:
		return "authorization"
	case errNotFound:
		return "not_found"
	case errStateConflict:
		return "state_conflict"
	}
	return "unknown"
}

type gameError struct {
	kind errorKind
	msg  string
}

func (e *gameError) Error() string {
	return e.msg
}

func validationError(msg string) *gameError {
	return &gameError{kind: errValidation, msg: msg}
}

func authorizationError(msg string) *gameError {
	return &gameError{kind: errAuthorization, msg: msg}
}

func notFoundError(msg string) *gameError {
	return &gameError{kind: errNotFound, msg: msg}
}

func stateConflictError(msg string) *gameError {
	return &gameError{kind: errStateConflict, msg: msg}
}
