// Package resources backs the Resources view: affirmations, self-care
// tips, article links, and spoken affirmation/breathing playback.
package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/robalobadob/manasvi/internal/daily"
	"github.com/robalobadob/manasvi/internal/phrases"
	"github.com/robalobadob/manasvi/internal/random"
	"github.com/robalobadob/manasvi/internal/speech"
)

// Voice parameters for the two spoken exercises.
const (
	AffirmationPitch = 1.1
	AffirmationRate  = 0.95
	BreathingPitch   = 1.05
	BreathingRate    = 0.9
)

// Toolkit is shared by every session; it is safe for concurrent use.
type Toolkit struct {
	catalog *phrases.Catalog
	src     random.Source
	speaker speech.Speaker
	voice   string
	salt    string
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithVoice sets the synthesizer voice.
func WithVoice(v string) Option { return func(t *Toolkit) { t.voice = v } }

// WithSalt sets the salt for the affirmation of the day.
func WithSalt(s string) Option { return func(t *Toolkit) { t.salt = s } }

// New builds a Toolkit. src is wrapped for concurrent use.
func New(catalog *phrases.Catalog, src random.Source, speaker speech.Speaker, opts ...Option) *Toolkit {
	if src == nil {
		src = random.New()
	}
	if speaker == nil {
		speaker = speech.LogSpeaker{}
	}
	t := &Toolkit{catalog: catalog, src: random.Locked(src), speaker: speaker}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Catalog returns the underlying copy.
func (t *Toolkit) Catalog() *phrases.Catalog { return t.catalog }

// Affirmation picks one affirmation at random.
func (t *Toolkit) Affirmation() string {
	a, _ := random.Pick(t.src, t.catalog.Affirmations)
	return a
}

// Tip picks one self-care tip at random.
func (t *Toolkit) Tip() string {
	tip, _ := random.Pick(t.src, t.catalog.Tips)
	return tip
}

// DailyAffirmation is stable for a calendar day.
func (t *Toolkit) DailyAffirmation(day time.Time) string {
	if len(t.catalog.Affirmations) == 0 {
		return ""
	}
	return t.catalog.Affirmations[daily.Index(day, t.salt, len(t.catalog.Affirmations))]
}

// SpeakAffirmation speaks a random affirmation and returns its text.
func (t *Toolkit) SpeakAffirmation(ctx context.Context) (string, error) {
	text := t.Affirmation()
	if text == "" {
		return "", fmt.Errorf("resources: no affirmations configured")
	}
	err := t.speaker.Speak(ctx, speech.Utterance{
		Text:  text,
		Voice: t.voice,
		Pitch: AffirmationPitch,
		Rate:  AffirmationRate,
	})
	return text, err
}

// SpeakBreathing speaks the guided breathing script.
func (t *Toolkit) SpeakBreathing(ctx context.Context) error {
	if t.catalog.Breathing == "" {
		return fmt.Errorf("resources: no breathing script configured")
	}
	return t.speaker.Speak(ctx, speech.Utterance{
		Text:  t.catalog.Breathing,
		Voice: t.voice,
		Pitch: BreathingPitch,
		Rate:  BreathingRate,
	})
}

// Stop silences all playback.
func (t *Toolkit) Stop() { t.speaker.StopAll() }
