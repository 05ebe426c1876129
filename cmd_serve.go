package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/manasvi/internal/assistant"
	"github.com/robalobadob/manasvi/internal/httpserver"
	"github.com/robalobadob/manasvi/internal/mood"
	"github.com/robalobadob/manasvi/internal/phrases"
	"github.com/robalobadob/manasvi/internal/random"
	"github.com/robalobadob/manasvi/internal/resources"
	"github.com/robalobadob/manasvi/internal/schedule"
	"github.com/robalobadob/manasvi/internal/session"
	"github.com/robalobadob/manasvi/internal/speech"
)

const (
	sessionIdle = 12 * time.Hour
	pruneEvery  = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API on HOST:PORT",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.UsingDevSecret() {
		log.Warn().Msg("SESSION_SECRET not set; using the development secret")
	}

	gw, err := newGateway(ctx)
	if err != nil {
		return err
	}
	speaker := newSpeaker()
	defer speaker.StopAll()

	catalog := phrases.Default()
	sessions := session.NewMemory()
	deps := httpserver.Deps{
		Sessions: sessions,
		Factory: session.Factory{
			Phrases: catalog.Puzzle,
			Gateway: gw,
			Clock:   schedule.Real(),
		},
		Mood:    mood.Open(ctx, store),
		Gateway: gw,
		Resources: resources.New(catalog, random.New(), speaker,
			resources.WithVoice(cfg.TTSVoice), resources.WithSalt(cfg.DailySalt)),
		Catalog: catalog,
		Storage: store,
		Cookie: httpserver.CookieConfig{
			Name:   cfg.CookieName,
			Secret: []byte(cfg.SessionSecret),
			TTL:    time.Duration(cfg.SessionDays) * 24 * time.Hour,
			Secure: cfg.Production,
		},
		ClientOrigin: cfg.ClientOrigin,
	}
	srv := httpserver.New(cfg.Addr(), deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return srv.Shutdown(context.Background())
	})
	g.Go(func() error {
		t := time.NewTicker(pruneEvery)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-t.C:
				if n := sessions.Prune(now.Add(-sessionIdle)); n > 0 {
					log.Info().Int("sessions", n).Msg("pruned idle sessions")
				}
			}
		}
	})
	return g.Wait()
}

// newGateway wires the generative model, or a gateway that always answers
// with the fallback when no API key is configured.
func newGateway(ctx context.Context) (*assistant.Gateway, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set; assistant replies use the fallback text")
		return assistant.NewGateway(nil), nil
	}
	var opts []assistant.GeminiOption
	if cfg.GeminiBaseURL != "" {
		opts = append(opts, assistant.WithBaseURL(cfg.GeminiBaseURL))
	}
	gen, err := assistant.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, opts...)
	if err != nil {
		return nil, err
	}
	log.Info().Str("model", gen.Model()).Msg("assistant ready")
	return assistant.NewGateway(gen), nil
}

func newSpeaker() speech.Speaker {
	if cfg.TTSCommand == "" {
		return speech.LogSpeaker{}
	}
	log.Info().Str("command", cfg.TTSCommand).Msg("speech enabled")
	return speech.NewCommandSpeaker(cfg.TTSCommand)
}
