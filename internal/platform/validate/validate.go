// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level failures and reports them as one
// VALIDATION_ERROR [apperr.AppError].
//
// Services validate their inputs with it; handlers use it for shape checks.
// Storage never does.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/mushaf/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures through a chainable API.
// It is single-use and not safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the value has more than max runes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Range fails if value is outside [lo, hi].
func (v *Validator) Range(field string, value, lo, hi int) *Validator {
	if value < lo || value > hi {
		v.add(field, fmt.Sprintf("Must be between %d and %d", lo, hi))
	}
	return v
}

// Token fails unless value consists of lowercase ASCII letters, digits, '_', '-' or '.'.
// Empty values pass; combine with [Validator.Required].
func (v *Validator) Token(field, value string) *Validator {
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			v.add(field, "Only lowercase letters, digits, '_', '-' and '.' are allowed")
			return v
		}
	}
	return v
}

// OneOf fails if value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom records message when failed is true.
//
//	v.Custom("value", n <= 0, "Must be a positive integer")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns the accumulated failures, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError builds a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
