package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocKeyPlainAndHashed(t *testing.T) {
	assert.Equal(t, "doc:todo:42", DocKey("todo", "42"))

	long := strings.Repeat("x", maxPlainID+1)
	k := DocKey("todo", long)
	require.True(t, strings.HasPrefix(k, "doc:todo:#"))
	assert.Len(t, k, len("doc:todo:#")+16)
	assert.Equal(t, k, DocKey("todo", long), "hashing must be deterministic")
	assert.NotEqual(t, k, DocKey("todo", long+"y"))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 5, Coalesce(0, 5))
	assert.Equal(t, 3, Coalesce(3, 5))
	assert.Equal(t, "ns", Coalesce("", "ns"))
}
