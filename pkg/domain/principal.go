package domain

import (
	"strings"

	dErrors "namemarket/pkg/domain-errors"
)

// Principal is an authenticated caller/owner identity (an opaque address).
// The execution environment authenticates callers; this type only carries the
// identity through the registry.
//
// Usage: construct via ParsePrincipal at trust boundaries; direct casting
// bypasses validation.
type Principal string

// MaxPrincipalLen bounds principal addresses so keyed stores stay sane.
const MaxPrincipalLen = 128

// ParsePrincipal constructs a Principal from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, padded, or too
// long; no other errors are expected.
func ParsePrincipal(s string) (Principal, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	if strings.TrimSpace(s) != s {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot contain leading or trailing whitespace")
	}
	if len(s) > MaxPrincipalLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is too long")
	}
	return Principal(s), nil
}

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool {
	return p == ""
}

// String returns the string representation of the principal.
func (p Principal) String() string {
	return string(p)
}
