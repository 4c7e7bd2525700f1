// Package repository holds the storage layer.  Document collections live in
// MongoDB; the payment ledger can alternatively live in MySQL.  Sentinel
// errors defined here let handlers pick a status code without inspecting
// driver errors.
package repository

import "errors"

// ErrInvalidID is returned when a path identifier is not a valid storage
// identifier.  Handlers translate it into HTTP 400.
var ErrInvalidID = errors.New("invalid id")

// ErrEmptyEmail is returned by operations keyed by email when none is given.
var ErrEmptyEmail = errors.New("email required")
