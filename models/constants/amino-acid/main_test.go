package aminoacid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalOrder(t *testing.T) {
	assert.Len(t, CanonicalOrder, Count)
	assert.Equal(t, "A", CanonicalOrder[0])
	assert.Equal(t, "Y", CanonicalOrder[Count-1])
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("T"))
	assert.False(t, IsCanonical("*"))
	assert.False(t, IsCanonical("X"))
	assert.False(t, IsCanonical("t"))
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 0, IndexOf("A"))
	assert.Equal(t, 19, IndexOf("Y"))
	assert.Equal(t, -1, IndexOf("*"))
}
