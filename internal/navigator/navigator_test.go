package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAdvancesThenFinishes(t *testing.T) {
	var n Navigator
	n.Start(3)
	assert.Equal(t, 0, n.Index())
	assert.Equal(t, Answering, n.Phase())

	assert.Equal(t, Advanced, n.Next())
	assert.Equal(t, 1, n.Index())
	assert.Equal(t, Advanced, n.Next())
	assert.Equal(t, 2, n.Index())

	assert.Equal(t, Done, n.Next())
	assert.Equal(t, 2, n.Index())
	assert.True(t, n.Finished())

	assert.False(t, n.Back())
	assert.False(t, n.Back())
	assert.Equal(t, 2, n.Index())
	assert.Equal(t, Done, n.Next())
}

func TestBack(t *testing.T) {
	var n Navigator
	n.Start(3)

	assert.False(t, n.Back(), "back on first question")
	assert.Equal(t, Forward, n.Direction())

	n.Next()
	n.Next()
	assert.True(t, n.Back())
	assert.Equal(t, 1, n.Index())
	assert.Equal(t, Backward, n.Direction())

	n.Next()
	assert.Equal(t, Forward, n.Direction())
}

func TestSetNarrating(t *testing.T) {
	var n Navigator
	n.Start(1)

	n.SetNarrating(true)
	assert.Equal(t, Narrating, n.Phase())
	n.SetNarrating(false)
	assert.Equal(t, Answering, n.Phase())

	n.Next()
	n.SetNarrating(true)
	assert.Equal(t, Finished, n.Phase(), "narration cannot resurrect a finished exam")
}

func TestStartResets(t *testing.T) {
	var n Navigator
	n.Start(2)
	n.Next()
	n.Next()
	assert.True(t, n.Finished())

	n.Start(2)
	assert.Equal(t, 0, n.Index())
	assert.Equal(t, Answering, n.Phase())
	assert.Equal(t, Forward, n.Direction())
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "narrating", Narrating.String())
	assert.Equal(t, "backward", Backward.String())
	assert.Equal(t, "finished", Done.String())
	assert.Equal(t, "advanced", Advanced.String())
}
