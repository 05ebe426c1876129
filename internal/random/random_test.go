package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleIsPermutation(t *testing.T) {
	src := NewSeeded(42)
	cases := [][]string{
		{},
		{"one"},
		{"you", "are", "enough"},
		{"a", "a", "b", "c", "c", "c"},
	}
	for _, in := range cases {
		got := Shuffled(src, in)
		require.Len(t, got, len(in))

		want := append([]string(nil), in...)
		sort.Strings(want)
		sorted := append([]string(nil), got...)
		sort.Strings(sorted)
		assert.Equal(t, want, sorted)
	}
}

func TestShuffleLeavesInputUntouched(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	_ = Shuffled(NewSeeded(7), in)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, in)
}

func TestShuffleFollowsSource(t *testing.T) {
	// i=2 swaps with 0, i=1 swaps with 0.
	items := []string{"you", "are", "enough"}
	Shuffle(&Fixed{Draws: []int{0, 0}}, items)
	assert.Equal(t, []string{"are", "enough", "you"}, items)
}

func TestShuffleIsUnbiased(t *testing.T) {
	src := NewSeeded(1)
	counts := map[string]int{}
	const rounds = 60000
	for i := 0; i < rounds; i++ {
		p := Shuffled(src, []string{"a", "b", "c"})
		counts[p[0]+p[1]+p[2]]++
	}
	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, rounds/6, n, rounds/60, "permutation %s", perm)
	}
}

func TestPick(t *testing.T) {
	_, ok := Pick[string](NewSeeded(1), nil)
	assert.False(t, ok)

	v, ok := Pick(&Fixed{Draws: []int{5}}, []string{"x", "y", "z"})
	require.True(t, ok)
	assert.Equal(t, "z", v)
}
