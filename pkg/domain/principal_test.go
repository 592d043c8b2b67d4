package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "namemarket/pkg/domain-errors"
)

func TestParsePrincipal(t *testing.T) {
	t.Run("accepts an opaque address", func(t *testing.T) {
		p, err := ParsePrincipal("acct:3f9c1d2e")
		require.NoError(t, err)
		assert.Equal(t, "acct:3f9c1d2e", p.String())
		assert.False(t, p.IsZero())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParsePrincipal("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects surrounding whitespace", func(t *testing.T) {
		for _, input := range []string{" padded", "padded ", "\tpadded"} {
			_, err := ParsePrincipal(input)
			require.Error(t, err, "input %q", input)
		}
	})

	t.Run("rejects overlong address", func(t *testing.T) {
		_, err := ParsePrincipal(strings.Repeat("a", MaxPrincipalLen+1))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts exactly the maximum length", func(t *testing.T) {
		_, err := ParsePrincipal(strings.Repeat("a", MaxPrincipalLen))
		require.NoError(t, err)
	})
}

func TestPrincipalIsZero(t *testing.T) {
	assert.True(t, Principal("").IsZero())
	assert.False(t, Principal("x").IsZero())
}
