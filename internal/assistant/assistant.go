// internal/assistant/assistant.go
//
// Gateway to the hosted language model used by the Chat and Journal views.
// The gateway is stateless: it formats a prompt, makes one outbound call,
// and never surfaces a failure. Empty output or any error turns into the
// template's fixed reply. There is no retry, timeout or admission control
// here; callers decide how to show the loading state.

package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Generator is the external model: one prompt in, plain text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Template is a role-setting instruction plus its fallback replies.
// Instruction contains one %s verb for the user's text.
type Template struct {
	Name        string
	Instruction string
	Empty       string // model returned nothing
	Failed      string // model call failed
}

// Prompt renders the full prompt for userText.
func (t Template) Prompt(userText string) string {
	return fmt.Sprintf(t.Instruction, userText)
}

var (
	// Chat frames the model as a counselor replying to a chat message.
	Chat = Template{
		Name:        "chat",
		Instruction: "You are Manasvi, a warm, empathetic mental health counselor. Respond kindly and thoughtfully to: %s",
		Empty:       "I'm here for you.",
		Failed:      "⚠️ I’m having trouble responding right now.",
	}

	// Journal asks for a gentle reflection on a diary entry.
	Journal = Template{
		Name:        "journal",
		Instruction: "Read this personal diary entry and respond with gentle advice, thoughts, or an emotional reflection:\n\"%s\"",
		Empty:       "Sorry, I couldn't reflect on this right now.",
		Failed:      "Sorry, I couldn't reflect on this right now.",
	}
)

// Gateway sends prompts to a Generator.
type Gateway struct {
	gen Generator
}

// NewGateway wraps gen. A nil gen makes every call return the Failed reply,
// which is how the app runs without an API key.
func NewGateway(gen Generator) *Gateway {
	return &Gateway{gen: gen}
}

// Respond returns the model's reply to userText framed by tmpl, or one of
// tmpl's fixed replies. It never returns an error.
func (g *Gateway) Respond(ctx context.Context, tmpl Template, userText string) string {
	if g.gen == nil {
		log.Warn().Str("template", tmpl.Name).Msg("no generator configured")
		return tmpl.Failed
	}

	out, err := g.call(ctx, tmpl.Prompt(userText))
	if err != nil {
		log.Warn().Err(err).Str("template", tmpl.Name).Msg("assistant call failed")
		return tmpl.Failed
	}
	if strings.TrimSpace(out) == "" {
		log.Debug().Str("template", tmpl.Name).Msg("assistant returned empty reply")
		return tmpl.Empty
	}
	return out
}

// call shields Respond from panics in the generator.
func (g *Gateway) call(ctx context.Context, prompt string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return g.gen.Generate(ctx, prompt)
}
