package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrenchPhone(t *testing.T) {
	for _, ok := range []string{"0612345678", "06 12 34 56 78", "06.12.34.56.78", "+33 6 12 34 56 78", "01-23-45-67-89"} {
		assert.True(t, FrenchPhone(ok), ok)
	}
	for _, bad := range []string{"", "0012345678", "061234567", "+44 6 12 34 56 78", "06123456789", "abcdefghij"} {
		assert.False(t, FrenchPhone(bad), bad)
	}
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("claire@example.fr"))
	assert.False(t, Email("claire@"))
	assert.False(t, Email(""))
}

func TestMinLen_CountsRunes(t *testing.T) {
	assert.True(t, MinLen("Zoé", 3))
	assert.False(t, MinLen("é", 2))
}

func TestErrors(t *testing.T) {
	e := Errors{}
	require.NoError(t, e.Err())
	e.Set("name", "first")
	e.Set("name", "second")
	e.Set("email", "bad")
	require.Error(t, e.Err())
	assert.Equal(t, "first", e["name"])
	assert.Equal(t, "validation failed: email, name", e.Error())
}
