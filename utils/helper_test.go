package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCNIC(t *testing.T) {
	assert.True(t, ValidCNIC("3520212345671"))
	assert.True(t, ValidCNIC("0000000000000"))

	assert.False(t, ValidCNIC(""))
	assert.False(t, ValidCNIC("352021234567"))    // 12 digits
	assert.False(t, ValidCNIC("35202123456712"))  // 14 digits
	assert.False(t, ValidCNIC("35202-1234567-1")) // dashed format
	assert.False(t, ValidCNIC("35202123456a1"))
	assert.False(t, ValidCNIC(" 3520212345671"))
}

func TestStringToUUIDPtr(t *testing.T) {
	id := uuid.New()
	parsed := StringToUUIDPtr(id.String())
	require.NotNil(t, parsed)
	assert.Equal(t, id, *parsed)

	assert.Nil(t, StringToUUIDPtr(""))
	assert.Nil(t, StringToUUIDPtr("not-a-uuid"))
}

func TestGenerateTempPassword(t *testing.T) {
	first, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
