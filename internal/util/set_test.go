package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeySetOf_NilSliceYieldsNil(t *testing.T) {
	s := KeySetOf[string](nil)
	assert.Nil(t, s)
}

func TestKeySetOf_BuildsFromElements(t *testing.T) {
	s := KeySetOf([]string{"a", "b", "a"})
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.Equal(t, 2, s.Len())
}

func TestKeySet_UnionIntersectionDifference(t *testing.T) {
	a := NewKeySet[int]()
	a.Add(1)
	a.Add(2)
	b := NewKeySet[int]()
	b.Add(2)
	b.Add(3)

	assert.True(t, a.Union(b).Equal(KeySetOf([]int{1, 2, 3})))
	assert.True(t, a.Intersection(b).Equal(KeySetOf([]int{2})))
	assert.True(t, a.Difference(b).Equal(KeySetOf([]int{1})))
	assert.False(t, a.DisjointWith(b))
	assert.True(t, a.DisjointWith(KeySetOf([]int{99})))
}

func TestKeySet_CopyIsIndependent(t *testing.T) {
	a := NewKeySet[int]()
	a.Add(1)
	b := a.Copy()
	b.Add(2)
	assert.False(t, a.Has(2))
	assert.True(t, b.Has(2))
}
