package puzzle

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/manasvi/internal/random"
)

var phrases = []string{
	"you are worthy",
	"stay positive",
	"believe in yourself",
	"you are enough",
	"embrace the journey",
}

func sorted(words ...[]string) []string {
	var out []string
	for _, w := range words {
		out = append(out, w...)
	}
	sort.Strings(out)
	return out
}

func assertBag(t *testing.T, g *Game) {
	t.Helper()
	s := g.Snapshot()
	assert.Equal(t, sorted(strings.Fields(phrases[s.Index])), sorted(s.Remaining, s.Selected))
}

func TestNewRequiresPhrases(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoPhrases)
}

func TestNewShufflesFirstPhrase(t *testing.T) {
	g, err := New(phrases, random.NewSeeded(9))
	require.NoError(t, err)

	s := g.Snapshot()
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, len(phrases), s.Total)
	assert.Empty(t, s.Selected)
	assert.False(t, s.Solved)
	assert.Equal(t, MsgPrompt, s.Message)
	assert.Empty(t, s.Phrase)
	assertBag(t, g)
}

func TestSolveYouAreEnough(t *testing.T) {
	g, err := New([]string{"you are enough"}, &random.Fixed{Draws: []int{1, 0}})
	require.NoError(t, err)
	// i=2 swaps with 1, i=1 swaps with 0.
	require.Equal(t, []string{"enough", "you", "are"}, g.Snapshot().Remaining)

	for _, w := range []string{"you", "are", "enough"} {
		require.True(t, g.Pick(w))
		assertBag(t, g)
	}
	s := g.Snapshot()
	assert.Equal(t, []string{"you", "are", "enough"}, s.Selected)
	assert.Empty(t, s.Remaining)

	assert.True(t, g.Check())
	s = g.Snapshot()
	assert.True(t, s.Solved)
	assert.Equal(t, MsgCorrect, s.Message)
	assert.Equal(t, "you are enough", s.Phrase)

	// Solved boards are frozen.
	assert.False(t, g.Unpick("you"))
	assert.False(t, g.UnpickLast())
	assert.True(t, g.Check())
}

func TestWrongOrderKeepsSelection(t *testing.T) {
	g, err := New([]string{"stay positive"}, random.NewSeeded(1))
	require.NoError(t, err)

	require.True(t, g.Pick("positive"))
	require.True(t, g.Pick("stay"))
	assert.False(t, g.Check())

	s := g.Snapshot()
	assert.False(t, s.Solved)
	assert.Equal(t, MsgRetry, s.Message)
	assert.Equal(t, MsgRetry, g.Message())
	assert.Equal(t, []string{"positive", "stay"}, s.Selected)

	require.True(t, g.UnpickLast())
	require.True(t, g.Unpick("positive"))
	require.True(t, g.Pick("stay"))
	require.True(t, g.Pick("positive"))
	assert.True(t, g.Check())
}

func TestCheckIsExact(t *testing.T) {
	g, err := New([]string{"you are worthy"}, random.NewSeeded(2))
	require.NoError(t, err)

	assert.False(t, g.Check(), "empty selection never matches")
	assert.Equal(t, MsgRetry, g.Message(), "empty check still gives feedback")
	require.True(t, g.Pick("you"))
	require.True(t, g.Pick("are"))
	assert.False(t, g.Check(), "prefix is not a match")
	assert.Equal(t, MsgRetry, g.Snapshot().Message)
}

func TestPickUnknownWordIsNoop(t *testing.T) {
	g, err := New(phrases, random.NewSeeded(3))
	require.NoError(t, err)
	before := g.Snapshot()

	assert.False(t, g.Pick("nope"))
	assert.False(t, g.Unpick("you"))
	assert.False(t, g.UnpickLast())
	assert.Equal(t, before, g.Snapshot())
}

func TestDuplicateWordsMoveOneAtATime(t *testing.T) {
	g, err := New([]string{"so so good"}, random.NewSeeded(4))
	require.NoError(t, err)

	require.True(t, g.Pick("so"))
	s := g.Snapshot()
	assert.Equal(t, []string{"so"}, s.Selected)
	assert.Contains(t, s.Remaining, "so")
	assertBagOf(t, "so so good", g)

	require.True(t, g.Pick("so"))
	require.True(t, g.Unpick("so"))
	assertBagOf(t, "so so good", g)
}

func assertBagOf(t *testing.T, phrase string, g *Game) {
	t.Helper()
	s := g.Snapshot()
	assert.Equal(t, sorted(strings.Fields(phrase)), sorted(s.Remaining, s.Selected))
}

func TestBagInvariantUnderRandomMoves(t *testing.T) {
	src := random.NewSeeded(11)
	g, err := New(phrases, src)
	require.NoError(t, err)

	for step := 0; step < 500; step++ {
		s := g.Snapshot()
		switch src.IntN(4) {
		case 0:
			if w, ok := random.Pick(src, s.Remaining); ok {
				g.Pick(w)
			}
		case 1:
			if w, ok := random.Pick(src, s.Selected); ok {
				g.Unpick(w)
			}
		case 2:
			g.UnpickLast()
		case 3:
			if src.IntN(10) == 0 {
				g.Next()
			}
		}
		assertBag(t, g)
	}
}

func TestNextWraps(t *testing.T) {
	g, err := New(phrases, random.NewSeeded(5))
	require.NoError(t, err)

	require.True(t, g.Pick(g.Snapshot().Remaining[0]))
	for i := 1; i <= len(phrases); i++ {
		g.Next()
		s := g.Snapshot()
		assert.Equal(t, i%len(phrases), s.Index)
		assert.Empty(t, s.Selected)
		assert.False(t, s.Solved)
		assert.Equal(t, MsgPrompt, s.Message)
	}
}
