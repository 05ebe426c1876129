package mood

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/manasvi/internal/kv"
)

type failingStore struct {
	kv.Store
	getErr, setErr error
}

func (f failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func TestSelectThenMoodFor(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, kv.NewMemory())
	d := time.Date(2025, 4, 12, 9, 30, 0, 0, time.UTC)

	assert.True(t, l.MoodFor(d).IsNone())

	m, err := l.Select(ctx, d, "Happy")
	require.NoError(t, err)
	assert.Equal(t, "🙂", m.Emoji)
	assert.Equal(t, m, l.MoodFor(d))
	assert.Equal(t, m, l.MoodFor(d.Add(14*time.Hour)), "same calendar day")

	_, err = l.Select(ctx, d.Add(time.Hour), "Very Sad")
	require.NoError(t, err)
	assert.Equal(t, "Very Sad", l.MoodFor(d).Label)
	assert.Equal(t, 1, l.Len())
}

func TestSelectPersistsFullMapping(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	l := Open(ctx, store)

	_, err := l.Select(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "Sad")
	require.NoError(t, err)
	_, err = l.Select(ctx, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), "neutral")
	require.NoError(t, err)

	raw, ok, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, map[string]string{"2025-01-01": "Sad", "2025-01-02": "Neutral"}, got)

	reopened := Open(ctx, store)
	assert.Equal(t, "Neutral", reopened.MoodFor(time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)).Label)
}

func TestSelectUnknownMood(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, kv.NewMemory())
	_, err := l.Select(ctx, time.Now(), "Ecstatic")
	assert.ErrorIs(t, err, ErrUnknownMood)
	assert.Zero(t, l.Len())
}

func TestOpenToleratesBadData(t *testing.T) {
	ctx := context.Background()
	cases := map[string]kv.Store{
		"unparsable": func() kv.Store {
			s := kv.NewMemory()
			_ = s.Set(ctx, StorageKey, "{not json")
			return s
		}(),
		"wrong shape": func() kv.Store {
			s := kv.NewMemory()
			_ = s.Set(ctx, StorageKey, `[1,2,3]`)
			return s
		}(),
		"read error": failingStore{Store: kv.NewMemory(), getErr: errors.New("disk gone")},
	}
	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			l := Open(ctx, store)
			assert.Zero(t, l.Len())
		})
	}
}

func TestOpenReadsObjectForm(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, StorageKey,
		`{"2024-12-31":{"emoji":"😄","label":"Very Happy"},"2025-01-01":{"emoji":"?","label":"Bogus"}}`))

	l := Open(ctx, store)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "Very Happy", l.MoodFor(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)).Label)
}

func TestSelectReportsWriteFailure(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, failingStore{Store: kv.NewMemory(), setErr: errors.New("quota exceeded")})
	d := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	_, err := l.Select(ctx, d, "Happy")
	require.Error(t, err)
	assert.Equal(t, "Happy", l.MoodFor(d).Label)
}

func TestMonth(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, kv.NewMemory())
	for day, label := range map[int]string{3: "Sad", 1: "Happy", 28: "Neutral"} {
		_, err := l.Select(ctx, time.Date(2025, 2, day, 10, 0, 0, 0, time.UTC), label)
		require.NoError(t, err)
	}
	_, err := l.Select(ctx, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), "Very Happy")
	require.NoError(t, err)

	got := l.Month(2025, time.February)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-02-01", got[0].Date)
	assert.Equal(t, "Happy", got[0].Mood.Label)
	assert.Equal(t, "2025-02-28", got[2].Date)
	assert.Empty(t, l.Month(2024, time.February))
}

// gatedStore holds the first Set until release is closed.
type gatedStore struct {
	kv.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Set(ctx context.Context, key, value string) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Store.Set(ctx, key, value)
}

func TestConcurrentSelectsPersistLatestMapping(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := &gatedStore{Store: mem, entered: make(chan struct{}), release: make(chan struct{})}
	l := Open(ctx, store)

	firstDone := make(chan error, 1)
	go func() {
		_, err := l.Select(ctx, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), "Sad")
		firstDone <- err
	}()
	<-store.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := l.Select(ctx, time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), "Happy")
		secondDone <- err
	}()

	// The second write must wait for the first one to finish.
	select {
	case err := <-secondDone:
		t.Fatalf("second Select finished while the first write was pending: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(store.release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	raw, ok, err := mem.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, map[string]string{"2025-01-01": "Sad", "2025-01-02": "Happy"}, persisted)
	assert.Equal(t, l.Len(), len(persisted))
}
