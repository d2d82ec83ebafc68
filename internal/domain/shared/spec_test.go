package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpec_And(t *testing.T) {
	var base Spec
	assert.True(t, base.IsEmpty())

	withTitle := base.And(Contains("title", "dune"))
	withBoth := withTitle.And(Gte("price", 10))

	assert.True(t, base.IsEmpty(), "And must not change the receiver")
	assert.Len(t, withTitle.Criteria(), 1)
	assert.Len(t, withBoth.Criteria(), 2)
	assert.Equal(t, OpGte, withBoth.Criteria()[1].Op)
}

func TestTextFilter(t *testing.T) {
	blank := "   "
	padded := "  dune "

	_, ok := TextFilter(nil)
	assert.False(t, ok)
	_, ok = TextFilter(&blank)
	assert.False(t, ok)

	text, ok := TextFilter(&padded)
	assert.True(t, ok)
	assert.Equal(t, "dune", text)
}

func TestNameWords(t *testing.T) {
	t.Run("single word matches either field", func(t *testing.T) {
		c := NameWords("austen", "first", "last")
		assert.Equal(t, Or(Contains("first", "austen"), Contains("last", "austen")), c)
	})

	t.Run("every word must match", func(t *testing.T) {
		c := NameWords("jane  austen", "first", "last")
		assert.Equal(t, OpAll, c.Op)
		assert.Len(t, c.Children, 2)
		assert.Equal(t, Contains("last", "jane"), c.Children[0].Children[1])
		assert.Equal(t, Contains("first", "austen"), c.Children[1].Children[0])
	})
}
