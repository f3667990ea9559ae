// Command coursechat serves the course-materials chat API.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... coursechat [flags]
//	GEMINI_API_KEY=gk-...    coursechat -config config.yaml
//
// Flags:
//
//	-config string   Path to a YAML config file (optional)
//	-addr string     Listen address (overrides config)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/edudesk/coursechat"
	"github.com/edudesk/coursechat/anthropic"
	"github.com/edudesk/coursechat/builtin"
	"github.com/edudesk/coursechat/config"
	"github.com/edudesk/coursechat/engine"
	"github.com/edudesk/coursechat/gemini"
	"github.com/edudesk/coursechat/retrieval"
	"github.com/edudesk/coursechat/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "coursechat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to a YAML config file")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, err := resolveProvider(ctx, cfg)
	if err != nil {
		return err
	}

	retriever := retrieval.New(cfg.RetrievalURL)

	registry := coursechat.NewRegistry()
	if err := registry.Register(builtin.NewSearchTool(retriever)); err != nil {
		return err
	}
	if err := registry.Register(builtin.NewOutlineTool(retriever)); err != nil {
		return err
	}

	sessions := coursechat.NewSessionStore(cfg.HistoryCapacity)

	eng := engine.New(provider, registry, sessions,
		engine.WithModel(cfg.Model),
		engine.WithMaxRounds(cfg.MaxToolRounds),
		engine.WithMaxTokens(cfg.MaxTokens),
		engine.WithLogger(logger),
	)

	srv := server.New(eng, sessions, retriever, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func resolveProvider(ctx context.Context, cfg config.Config) (coursechat.Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return anthropic.New(cfg.AnthropicAPIKey), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
		return gemini.New(ctx, cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
