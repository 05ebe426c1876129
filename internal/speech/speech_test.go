package speech

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPickVoice(t *testing.T) {
	assert.Equal(t, "", PickVoice(nil))
	assert.Equal(t, "en-us", PickVoice([]string{"en-us", "en-gb"}))
	assert.Equal(t, "Google UK English Female", PickVoice([]string{"Daniel", "Google UK English Female"}))
	assert.Equal(t, "Microsoft Zira", PickVoice([]string{"Alex", "Microsoft Zira"}))
}

func TestEspeakArgs(t *testing.T) {
	got := EspeakArgs(Utterance{Text: "Breathe in", Voice: "en+f3", Pitch: 1.1, Rate: 0.95})
	assert.Equal(t, []string{"-v", "en+f3", "-p", "55", "-s", "166", "--", "Breathe in"}, got)

	assert.Equal(t, []string{"--", "hi"}, EspeakArgs(Utterance{Text: "hi"}))
	assert.Equal(t, []string{"-p", "99", "--", "x"}, EspeakArgs(Utterance{Text: "x", Pitch: 3}))
}

func TestCommandSpeakerStopAll(t *testing.T) {
	defer goleak.VerifyNone(t)
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	s := NewCommandSpeaker("sleep")
	s.Args = func(Utterance) []string { return []string{"30"} }

	require.NoError(t, s.Speak(context.Background(), Utterance{Text: "one"}))
	require.NoError(t, s.Speak(context.Background(), Utterance{Text: "two"}))
	assert.Equal(t, 2, s.Active())

	s.StopAll()
	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("utterances still running after StopAll")
	}
	assert.Zero(t, s.Active())
}

func TestCommandSpeakerMissingBinary(t *testing.T) {
	s := NewCommandSpeaker("definitely-not-a-tts-binary")
	assert.Error(t, s.Speak(context.Background(), Utterance{Text: "hi"}))
}
