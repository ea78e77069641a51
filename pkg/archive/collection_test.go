package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringsAdd(t *testing.T) {
	var s Strings

	assert.NotNil(t, s.Items())
	assert.Empty(t, s.Items())

	assert.False(t, s.Add(""))
	assert.True(t, s.Add("12345"))
	assert.True(t, s.Add("12345\n12345"))
	assert.False(t, s.Add(""))
	assert.True(t, s.Add("12345"))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"12345", "12345\n12345", "12345"}, s.Items())
}
