package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bot-template/internal/apiclient"
	"bot-template/internal/bot"
	"bot-template/internal/config"
	"bot-template/internal/exts"
	"bot-template/internal/localize"

	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := loadLocalization(cfg.LangDir)
	if err != nil {
		logger.Error("localization load failed", zap.Error(err))
		return 1
	}
	logger.Info("localization loaded", zap.Int("keys", store.Len()))

	httpClient := apiclient.New(logger, httpOptions(cfg.HTTP)...)
	defer httpClient.Close()

	botSvc, err := bot.New(cfg, logger, localize.New(store), httpClient)
	if err != nil {
		logger.Error("bot init failed", zap.Error(err))
		return 1
	}
	botSvc.LoadPlugins(exts.All(botSvc)...)

	var server *http.Server
	if cfg.Health.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		server = &http.Server{Addr: cfg.Health.Addr, Handler: mux}
		go func() {
			logger.Info("health endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", zap.Error(err))
			}
		}()
	}
	defer func() {
		if server == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("bot is starting")
	err = botSvc.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("kill command received, bot is closed")
		return 0
	case errors.Is(err, bot.ErrPrivilegedIntents):
		logger.Error("missing privileged intents; enable them for the application in the Discord developer portal",
			zap.Bool("critical", true),
			zap.Error(err),
		)
		return 1
	case err != nil:
		logger.Error("bot stopped", zap.Error(err))
		return 1
	}
	return 0
}

// loadLocalization reads the bundled language files, then lets files in
// dir override them.
func loadLocalization(dir string) (*localize.Store, error) {
	store, err := localize.LoadBundled()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return store, nil
	}
	override, err := localize.Load(os.DirFS(dir), ".")
	if err != nil {
		return nil, err
	}
	return store.Merge(override), nil
}

func httpOptions(cfg config.HTTPConfig) []apiclient.Option {
	opts := []apiclient.Option{
		apiclient.WithUserAgent(cfg.UserAgent),
		apiclient.WithRateLimit(cfg.RatePerSecond, cfg.Burst),
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, apiclient.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	if cfg.OAuth2.Enabled() {
		opts = append(opts, apiclient.WithClientCredentials(clientcredentials.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
		}))
	}
	return opts
}
