package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_WrapsAround(t *testing.T) {
	for _, n := range []int{1, 2, 5, 13} {
		nav := NewNavigator(n)
		for i := 0; i < n; i++ {
			nav = nav.Next()
		}
		assert.Equal(t, 0, nav.Index(), "n=%d", n)

		assert.Equal(t, n-1, NewNavigator(n).Previous().Index(), "n=%d", n)
	}
}

func TestNavigator_EmptyIsStable(t *testing.T) {
	var nav Navigator
	assert.True(t, nav.Empty())
	assert.Equal(t, 0, nav.Next().Index())
	assert.Equal(t, 0, nav.Previous().Index())
	assert.Equal(t, "empty", nav.String())

	_, err := nav.JumpTo(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNavigator_JumpTo(t *testing.T) {
	nav := NewNavigator(4)

	nav, err := nav.JumpTo(3)
	require.NoError(t, err)
	assert.Equal(t, 3, nav.Index())

	same, err := nav.JumpTo(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 3, same.Index())

	_, err = nav.JumpTo(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNavigator_DeleteFocusedLastCard(t *testing.T) {
	nav, err := NewNavigator(3).JumpTo(2)
	require.NoError(t, err)

	nav, err = nav.OnDelete(2)
	require.NoError(t, err)
	assert.Equal(t, 1, nav.Index())
	assert.Equal(t, 2, nav.Len())
}

func TestNavigator_DeleteUntilEmpty(t *testing.T) {
	nav := NewNavigator(1)
	nav, err := nav.OnDelete(0)
	require.NoError(t, err)
	assert.True(t, nav.Empty())
	assert.Equal(t, 0, nav.Index())

	_, err = nav.OnDelete(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNavigator_DeleteBeforeCursorKeepsIndex(t *testing.T) {
	nav, _ := NewNavigator(5).JumpTo(3)
	nav, err := nav.OnDelete(0)
	require.NoError(t, err)
	assert.Equal(t, 3, nav.Index())
	assert.Equal(t, 4, nav.Len())
}

func TestNavigator_FilterChangeAndResize(t *testing.T) {
	nav, _ := NewNavigator(5).JumpTo(4)

	assert.Equal(t, 0, nav.OnFilterChange(10).Index())
	assert.Equal(t, 4, nav.Resize(6).Index(), "in range cursor is kept")
	assert.Equal(t, 0, nav.Resize(3).Index(), "out of range cursor goes back to the start")
	assert.True(t, nav.Resize(0).Empty())
	assert.Equal(t, "5/5", nav.String())
}
