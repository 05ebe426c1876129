package assistant

import (
	"context"
	"strings"
	"sync"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "You"
	RoleAssistant Role = "Manasvi"
)

// Message is one line of the chat transcript.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Conversation is one tab's chat transcript.
type Conversation struct {
	gw *Gateway

	mu       sync.Mutex
	messages []Message
	pending  int
}

// NewConversation starts an empty transcript.
func NewConversation(gw *Gateway) *Conversation {
	return &Conversation{gw: gw}
}

// Send appends text as a user message, asks the gateway, and appends the
// reply. Blank text is ignored (ok=false). The lock is not held during the
// outbound call, so concurrent sends interleave.
func (c *Conversation) Send(ctx context.Context, text string) (reply Message, ok bool) {
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}

	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text})
	c.pending++
	c.mu.Unlock()

	reply = Message{Role: RoleAssistant, Text: c.gw.Respond(ctx, Chat, text)}

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.pending--
	c.mu.Unlock()
	return reply, true
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message{}, c.messages...)
}

// Pending reports whether a reply is outstanding.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}
