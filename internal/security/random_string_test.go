package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomStringUsesAlphabet(t *testing.T) {
	value, err := RandomString(64, "ab")
	require.NoError(t, err)
	assert.Len(t, value, 64)
	assert.Empty(t, strings.Trim(value, "ab"))
}

func TestRandomStringEdgeCases(t *testing.T) {
	value, err := RandomString(0, "")
	require.NoError(t, err)
	assert.Empty(t, value)

	_, err = RandomString(-1, "ab")
	assert.Error(t, err)

	_, err = RandomString(4, "")
	assert.Error(t, err)
}

func TestEphemeralSecretKeyIsLongAndUnique(t *testing.T) {
	first, err := EphemeralSecretKey()
	require.NoError(t, err)
	second, err := EphemeralSecretKey()
	require.NoError(t, err)

	assert.Len(t, first, EphemeralSecretLength)
	assert.NotEqual(t, first, second)
}
