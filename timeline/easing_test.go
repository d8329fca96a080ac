package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingBoundaries(t *testing.T) {
	for _, name := range []string{EaseLinear, EaseSmooth, EaseRushInto, EaseRushFrom} {
		e, err := Lookup(name)
		require.NoError(t, err)
		assert.InDelta(t, 0, e(0), 1e-9, name)
		assert.InDelta(t, 1, e(1), 1e-9, name)
	}
}

func TestSmoothIsSymmetricAndMonotonic(t *testing.T) {
	assert.InDelta(t, 0.5, Smooth(0.5), 1e-12)
	prev := Smooth(0)
	for i := 1; i <= 100; i++ {
		x := float64(i) / 100
		cur := Smooth(x)
		assert.GreaterOrEqual(t, cur, prev)
		assert.InDelta(t, 1-Smooth(1-x), cur, 1e-9)
		prev = cur
	}
}

func TestThereAndBack(t *testing.T) {
	assert.InDelta(t, 0, ThereAndBack(0), 1e-12)
	assert.InDelta(t, 1, ThereAndBack(0.5), 1e-12)
	assert.InDelta(t, 0, ThereAndBack(1), 1e-12)
}

func TestLookup(t *testing.T) {
	e, err := Lookup("")
	require.NoError(t, err)
	assert.InDelta(t, Smooth(0.3), e(0.3), 1e-12)

	_, err = Lookup("bounce")
	assert.ErrorIs(t, err, ErrUnknownEasing)

	assert.Equal(t, []string{"linear", "rush-from", "rush-into", "smooth", "there-and-back"}, Easings())
}
