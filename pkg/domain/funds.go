package domain

import (
	dErrors "namemarket/pkg/domain-errors"
)

// Funds is a value of currency in base units. It mirrors the host payment
// primitive: values are created, split, merged, and finally paid out; they are
// never silently dropped.
//
// Invariant: Split conserves value exactly — for any f and amount a <= f.Value(),
// Split returns (a, f.Value()-a) and no other outcome.
type Funds struct {
	value uint64
}

// NewFunds wraps a raw base-unit amount.
func NewFunds(value uint64) Funds {
	return Funds{value: value}
}

// Value returns the amount in base units.
func (f Funds) Value() uint64 {
	return f.value
}

// IsZero reports whether the funds carry no value. Zero-value funds are legal
// artifacts of exact-price purchases and must still be explicitly accounted
// for by the caller.
func (f Funds) IsZero() bool {
	return f.value == 0
}

// Split divides the funds into a taken portion of exactly amount and the
// remainder.
//
// Errors: returns CodeInsufficientFunds when amount exceeds the held value;
// the receiver is unchanged on failure.
func (f Funds) Split(amount uint64) (taken Funds, remainder Funds, err error) {
	if amount > f.value {
		return Funds{}, Funds{}, dErrors.New(dErrors.CodeInsufficientFunds, "insufficient funds to split")
	}
	return Funds{value: amount}, Funds{value: f.value - amount}, nil
}

// Merge combines two funds values into one.
func (f Funds) Merge(other Funds) Funds {
	return Funds{value: f.value + other.value}
}
