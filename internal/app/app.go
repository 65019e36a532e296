package app

import (
	"context"
	"fmt"
	"time"

	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/prefs"
	"github.com/readyverse/rvshowroom/internal/state"
	"github.com/readyverse/rvshowroom/internal/ui"
)

// Options configure the showroom browser.
type Options struct {
	ConfigPath  string
	EnvFile     string
	PrefsPath   string // empty uses default ~/.config/rvshowroom/prefs.toml
	PollEvery   int    // seconds; zero uses default
	MetricsAddr string
	DeepLink    string // dispatched once after startup
}

// Run boots the showroom browser until the context is cancelled or the
// user quits. Logs go to the configured log file.
func Run(ctx context.Context, opts Options) error {
	env, err := NewEnv(EnvOptions{
		ConfigPath:  opts.ConfigPath,
		EnvFile:     opts.EnvFile,
		MetricsAddr: opts.MetricsAddr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)
	store := &state.Store{}

	unsubscribe := env.Dispatcher.OnShowroomLoaded(store.RecordLoad)
	defer unsubscribe()

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	env.ServeMetrics(ctx)
	StartPoller(ctx, store, env.Client, interval, env.Logger)

	if opts.DeepLink != "" {
		dispatchStartupLink(ctx, env.Dispatcher, store, opts.DeepLink)
	}

	env.Logger.Info("showroom browser starting", "base_url", env.Client.BaseURL(), "poll", interval)
	err = ui.Run(ui.Options{
		Context:    ctx,
		Client:     env.Client,
		Dispatcher: env.Dispatcher,
		Store:      store,
		BaseURL:    env.Client.BaseURL(),
		LogPath:    env.Config.LogFile,
		ThemeName:  userPrefs.Theme,
		ShowLog:    userPrefs.ShowLog,
		PrefsPath:  opts.PrefsPath,
	})
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// dispatchStartupLink hands the launch deep link to the dispatcher. A
// rejected link is recorded as a failed load so the browser shows it.
func dispatchStartupLink(ctx context.Context, d *deeplink.Dispatcher, store *state.Store, raw string) {
	d.HandleDeepLink(ctx, raw, func(err error) {
		if err != nil {
			store.RecordLoad(deeplink.LoadResult{Err: fmt.Errorf("deep link: %w", err)})
		}
	})
}
