// Package speech plays text through a speech synthesizer. Playback is
// fire-and-forget: Speak returns once playback has started, and the only
// control afterwards is StopAll.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Utterance is one piece of text plus voice parameters. Pitch and Rate
// are multipliers around 1.0.
type Utterance struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
	Pitch float64 `json:"pitch"`
	Rate  float64 `json:"rate"`
}

// Speaker is the synthesizer.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
	StopAll()
}

// PickVoice prefers a voice whose name mentions "female" or "zira", then
// falls back to the first voice. It returns "" for no voices.
func PickVoice(voices []string) string {
	for _, v := range voices {
		n := strings.ToLower(v)
		if strings.Contains(n, "female") || strings.Contains(n, "zira") {
			return v
		}
	}
	if len(voices) > 0 {
		return voices[0]
	}
	return ""
}

// EspeakArgs renders u as espeak-ng flags: -v voice, -p pitch (0-99, 50
// is neutral), -s words per minute (175 is neutral).
func EspeakArgs(u Utterance) []string {
	var args []string
	if u.Voice != "" {
		args = append(args, "-v", u.Voice)
	}
	if u.Pitch > 0 {
		args = append(args, "-p", strconv.Itoa(clamp(int(50*u.Pitch), 0, 99)))
	}
	if u.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(clamp(int(175*u.Rate), 80, 450)))
	}
	return append(args, "--", u.Text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CommandSpeaker runs an external TTS program per utterance.
type CommandSpeaker struct {
	Command string
	Args    func(Utterance) []string

	mu    sync.Mutex
	procs map[*exec.Cmd]struct{}
	wg    sync.WaitGroup
}

// NewCommandSpeaker returns a speaker for an espeak-compatible command.
func NewCommandSpeaker(command string) *CommandSpeaker {
	return &CommandSpeaker{Command: command, Args: EspeakArgs, procs: make(map[*exec.Cmd]struct{})}
}

// Speak starts the command and returns without waiting for it to finish.
// Playback is not tied to ctx; use StopAll to cut it short.
func (s *CommandSpeaker) Speak(_ context.Context, u Utterance) error {
	cmd := exec.Command(s.Command, s.Args(u)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("speech: start %s: %w", s.Command, err)
	}

	s.mu.Lock()
	s.procs[cmd] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := cmd.Wait(); err != nil {
			log.Debug().Err(err).Str("command", s.Command).Msg("speech process ended")
		}
		s.mu.Lock()
		delete(s.procs, cmd)
		s.mu.Unlock()
	}()
	return nil
}

// StopAll kills every running utterance.
func (s *CommandSpeaker) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cmd := range s.procs {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}
}

// Active returns the number of utterances still playing.
func (s *CommandSpeaker) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs)
}

// Wait blocks until every started utterance has ended.
func (s *CommandSpeaker) Wait() { s.wg.Wait() }

// LogSpeaker writes utterances to the log instead of playing them. It is
// used when no TTS command is configured.
type LogSpeaker struct{}

// Speak implements Speaker.
func (LogSpeaker) Speak(_ context.Context, u Utterance) error {
	log.Info().Str("voice", u.Voice).Float64("pitch", u.Pitch).Float64("rate", u.Rate).Str("text", u.Text).Msg("speak")
	return nil
}

// StopAll implements Speaker.
func (LogSpeaker) StopAll() { log.Info().Msg("speech stopped") }
