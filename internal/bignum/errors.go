// Package bignum implements unbounded naturals and signed integers over
// machine-word limbs, with rounding-controlled division and shifts and an
// infinite two's-complement view for bitwise logic.
//
// Contract violations, such as subtracting a larger Natural from a smaller
// one, panic. Data-dependent failures are returned as errors: ErrDivByZero,
// rounding.ErrInexact when Exact rounding meets an inexact result, and the
// parse and size errors below.
package bignum

import "errors"

// MaxLimbs bounds the number of words accepted from decoded or parsed input
// and produced by Pow.
var MaxLimbs = 1_000_000

var (
	// ErrMaxLimbs indicates the numeric size limit was exceeded.
	ErrMaxLimbs = errors.New("numeric size limit exceeded")
	// ErrDivByZero indicates an attempt to divide by zero.
	ErrDivByZero = errors.New("division by zero")
	// ErrUnderflow indicates a Natural subtraction with a larger subtrahend.
	ErrUnderflow = errors.New("natural underflow")
	// ErrParse indicates malformed numeric text or encoded words.
	ErrParse = errors.New("invalid numeric format")
)
