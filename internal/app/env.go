package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/readyverse/rvshowroom/internal/config"
	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/logging"
	"github.com/readyverse/rvshowroom/internal/metrics"
	"github.com/readyverse/rvshowroom/internal/showroom"
)

// EnvOptions select where configuration comes from and where logs go.
type EnvOptions struct {
	ConfigPath  string
	EnvFile     string    // empty uses ./.env
	LogOutput   io.Writer // nil writes to the configured log file
	MetricsAddr string    // overrides the configured address when set
}

// Env holds the components shared by the browser and the CLI commands.
type Env struct {
	Config     config.Config
	Logger     *slog.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Recorder
	Client     *showroom.Client
	Dispatcher *deeplink.Dispatcher

	closers []io.Closer
}

// NewEnv loads configuration and builds the client, dispatcher and metrics.
func NewEnv(opts EnvOptions) (*Env, error) {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}

	env := &Env{Config: cfg}

	out := opts.LogOutput
	if out == nil {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, f)
		out = f
	}
	env.Logger = logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: out})

	env.Registry = prometheus.NewRegistry()
	env.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if env.Metrics, err = metrics.New(env.Registry); err != nil {
		_ = env.Close()
		return nil, err
	}

	env.Client, err = showroom.NewClient(showroom.Options{
		BaseURL:   cfg.APIBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
		Metrics:   env.Metrics,
		Logger:    env.Logger,
	})
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("init showroom client: %w", err)
	}
	if env.Client.BaseURL() == "" {
		env.Logger.Warn("no api base url configured; showroom requests will fail")
	}

	env.Dispatcher = deeplink.New(deeplink.Options{
		Client:  env.Client,
		Metrics: env.Metrics,
		Logger:  env.Logger,
	})
	return env, nil
}

// ServeMetrics exposes the registry in the background when a metrics
// address is configured.
func (e *Env) ServeMetrics(ctx context.Context) {
	if e.Config.MetricsAddr == "" {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, e.Config.MetricsAddr, e.Registry, e.Logger); err != nil {
			e.Logger.Error("metrics server stopped", "error", err)
		}
	}()
}

// Close releases the log file.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	e.closers = nil
	return errors.Join(errs...)
}
