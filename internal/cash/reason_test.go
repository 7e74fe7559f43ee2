package cash_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

func TestSanitizeReason(t *testing.T) {
	t.Run("plain text kept", func(t *testing.T) {
		got := cash.SanitizeReason("Troco para o cliente")
		require.NotNil(t, got)
		assert.Equal(t, "Troco para o cliente", *got)
	})

	t.Run("control characters stripped", func(t *testing.T) {
		got := cash.SanitizeReason("float\x00 top\u0007-up\r\n")
		require.NotNil(t, got)
		assert.Equal(t, "float top-up", *got)
	})

	t.Run("empty is nil", func(t *testing.T) {
		assert.Nil(t, cash.SanitizeReason(""))
		assert.Nil(t, cash.SanitizeReason(" \t\n"))
	})

	t.Run("truncated to 200 characters", func(t *testing.T) {
		got := cash.SanitizeReason(strings.Repeat("ç", 250))
		require.NotNil(t, got)
		assert.Equal(t, 200, utf8.RuneCountInString(*got))
	})

	t.Run("exactly 200 characters kept", func(t *testing.T) {
		in := strings.Repeat("a", 200)
		got := cash.SanitizeReason(in)
		require.NotNil(t, got)
		assert.Equal(t, in, *got)
	})
}
