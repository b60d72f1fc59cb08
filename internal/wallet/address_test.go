package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lexid/pkg/domain-errors"
)

func TestNormalize_CanonicalForm(t *testing.T) {
	t.Run("lower-cases mixed case input", func(t *testing.T) {
		got, err := Normalize("0xABCDEF0123456789ABCDEF0123456789ABCDEF01")
		require.NoError(t, err)
		assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		once, err := Normalize("0xAbCdEf0123456789aBcDeF0123456789AbCdEf01")
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		got, err := Normalize("  0xabcdef0123456789abcdef0123456789abcdef01\n")
		require.NoError(t, err)
		assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", got)
	})
}

func TestNormalize_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"missing prefix", "abcdef0123456789abcdef0123456789abcdef01"},
		{"too short", "0xabcdef"},
		{"too long", "0x" + strings.Repeat("a", 41)},
		{"non-hex characters", "0xzzcdef0123456789abcdef0123456789abcdef01"},
		{"prefix only", "0x"},
		{"embedded whitespace", "0xabcdef0123456789 bcdef0123456789abcdef01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("0xabcdef0123456789abcdef0123456789abcdef01"))
	assert.False(t, IsCanonical("0xABCDEF0123456789ABCDEF0123456789ABCDEF01"))
	assert.False(t, IsCanonical("not-an-address"))
}
