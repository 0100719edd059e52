package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("all")
	require.NoError(t, err)
	assert.True(t, f.IsAll())
	assert.Equal(t, "all", f.String())

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter(" 12 ")
	require.NoError(t, err)
	id, ok := f.CategoryID()
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, "12", f.String())

	for _, bad := range []string{"0", "-3", "work"} {
		_, err := ParseFilter(bad)
		assert.Error(t, err, bad)
	}
}

func TestFilterEquality(t *testing.T) {
	assert.Equal(t, FilterCategory(4), FilterCategory(4))
	assert.NotEqual(t, FilterAll, FilterCategory(4))
	_, ok := FilterAll.CategoryID()
	assert.False(t, ok)
}

func TestFilterIncludes(t *testing.T) {
	assert.True(t, FilterAll.Includes(nil))
	assert.True(t, FilterAll.Includes(Int64(4)))

	f := FilterCategory(4)
	assert.True(t, f.Includes(Int64(4)))
	assert.False(t, f.Includes(Int64(5)))
	assert.False(t, f.Includes(nil))
}
