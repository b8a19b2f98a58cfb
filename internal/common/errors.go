// Package common defines shared sentinel errors used across the entry
// domain, repositories and service layers of entrypad. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors raised by the save pipeline. The specific values
	// wrap ErrValidation so callers can match either the family or the case.
	ErrValidation            = errors.New("validation failed")
	ErrCategoryUncategorized = fmt.Errorf("%w: category left uncategorized", ErrValidation)
	ErrTitleEmpty            = fmt.Errorf("%w: title empty after synthesis", ErrValidation)

	// Cryptography errors. A tampered ciphertext or a wrong key surfaces
	// as ErrDecryptionFailed, never as garbage plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Public identifier generation exhausted its retry budget. At five
	// bytes of entropy this means the random source or the store is broken,
	// not that the id space filled up.
	ErrIdentifierSpace = errors.New("public id retries exhausted")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
