// Package apperr defines the error taxonomy surfaced to API clients. Handlers
// translate these into HTTP status codes; anything else becomes a 500.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a class of client-visible failure.
type Code string

const (
	CodeNotFound            Code = "not_found"
	CodeValidation          Code = "validation"
	CodeInsufficientStock   Code = "insufficient_stock"
	CodeCouponExpired       Code = "coupon_expired"
	CodeCouponLimitReached  Code = "coupon_limit_reached"
	CodeCouponMinimumNotMet Code = "coupon_minimum_not_met"
	CodeCouponNotApplicable Code = "coupon_not_applicable"
	CodeUnauthorized        Code = "unauthorized"
	CodeForbidden           Code = "forbidden"
	CodeConflict            Code = "conflict"
)

// Error carries a taxonomy code and a human-readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two apperr values by code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

// Validation reports malformed or missing input.
func Validation(format string, args ...any) *Error {
	return newf(CodeValidation, format, args...)
}

// InsufficientStock reports a ship or reserve request exceeding availability.
func InsufficientStock(format string, args ...any) *Error {
	return newf(CodeInsufficientStock, format, args...)
}

// CouponExpired reports a coupon past its expiry date.
func CouponExpired(format string, args ...any) *Error {
	return newf(CodeCouponExpired, format, args...)
}

// CouponLimitReached reports a coupon at its usage limit.
func CouponLimitReached(format string, args ...any) *Error {
	return newf(CodeCouponLimitReached, format, args...)
}

// CouponMinimumNotMet reports a cart below the coupon's minimum purchase.
func CouponMinimumNotMet(format string, args ...any) *Error {
	return newf(CodeCouponMinimumNotMet, format, args...)
}

// CouponNotApplicable reports a coupon whose allow-lists match nothing in the cart.
func CouponNotApplicable(format string, args ...any) *Error {
	return newf(CodeCouponNotApplicable, format, args...)
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(format string, args ...any) *Error {
	return newf(CodeUnauthorized, format, args...)
}

// Forbidden reports an authenticated caller lacking permission.
func Forbidden(format string, args ...any) *Error {
	return newf(CodeForbidden, format, args...)
}

// Conflict reports a uniqueness violation such as a duplicate coupon code.
func Conflict(format string, args ...any) *Error {
	return newf(CodeConflict, format, args...)
}
