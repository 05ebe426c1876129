package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (r *recorder) Generate(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
	return r.reply, r.err
}

func TestRespondReturnsModelText(t *testing.T) {
	rec := &recorder{reply: "Take a slow breath with me."}
	gw := NewGateway(rec)

	got := gw.Respond(context.Background(), Chat, "I feel anxious")
	assert.Equal(t, "Take a slow breath with me.", got)
	require.Len(t, rec.prompts, 1)
	assert.Equal(t,
		"You are Manasvi, a warm, empathetic mental health counselor. Respond kindly and thoughtfully to: I feel anxious",
		rec.prompts[0])
}

func TestJournalPromptQuotesEntry(t *testing.T) {
	assert.Equal(t,
		"Read this personal diary entry and respond with gentle advice, thoughts, or an emotional reflection:\n\"today was long\"",
		Journal.Prompt("today was long"))
}

func TestRespondFallbacks(t *testing.T) {
	cases := []struct {
		name string
		gen  Generator
		tmpl Template
		want string
	}{
		{"error", &recorder{err: errors.New("quota")}, Chat, Chat.Failed},
		{"empty", &recorder{reply: "   "}, Chat, Chat.Empty},
		{"nil generator", nil, Journal, Journal.Failed},
		{"journal error", &recorder{err: errors.New("503")}, Journal, "Sorry, I couldn't reflect on this right now."},
		{"panic", GeneratorFunc(func(context.Context, string) (string, error) { panic("boom") }), Chat, Chat.Failed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := NewGateway(tc.gen)
			var got string
			assert.NotPanics(t, func() { got = gw.Respond(context.Background(), tc.tmpl, "hello") })
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConversation(t *testing.T) {
	rec := &recorder{reply: "I'm listening."}
	c := NewConversation(NewGateway(rec))

	_, ok := c.Send(context.Background(), "  \n")
	assert.False(t, ok)
	assert.Empty(t, c.Messages())
	assert.Empty(t, rec.prompts)

	reply, ok := c.Send(context.Background(), "rough day")
	require.True(t, ok)
	assert.Equal(t, Message{Role: RoleAssistant, Text: "I'm listening."}, reply)
	assert.Equal(t, []Message{
		{Role: RoleUser, Text: "rough day"},
		{Role: RoleAssistant, Text: "I'm listening."},
	}, c.Messages())
	assert.False(t, c.Pending())
}

func TestConversationPendingDuringCall(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		close(started)
		<-release
		return "ok", nil
	})
	c := NewConversation(NewGateway(gen))

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Send(context.Background(), "hi")
	}()
	<-started
	assert.True(t, c.Pending())
	assert.Len(t, c.Messages(), 1)
	close(release)
	<-done
	assert.False(t, c.Pending())
	assert.True(t, strings.HasPrefix(c.Messages()[1].Text, "ok"))
}
