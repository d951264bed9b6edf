package provider_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/you/eth-multirpc/internal/provider"
)

func TestIDEquality(t *testing.T) {
	a1 := provider.New("alchemy")
	a2 := provider.New("alchemy")
	b := provider.New("ankr")

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}

func TestIDOrderingIsTotalAndStable(t *testing.T) {
	a := provider.New("A")
	b := provider.New("B")
	c := provider.New("C")

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 0, a.Compare(provider.New("A")))
	assert.Equal(t, 1, c.Compare(b))

	ids := []provider.ID{c, a, b}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	assert.Equal(t, []provider.ID{a, b, c}, ids)
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "alchemy", provider.New("alchemy").String())
}
