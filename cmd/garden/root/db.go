package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"garden/internal/config"
	"garden/internal/engine"
	"garden/internal/logfields"
	"garden/internal/metrics"
	"garden/internal/notify"
	"garden/internal/storage"
)

// session is an opened garden: config, store and a loaded service.
type session struct {
	cfg    config.Config
	path   string
	logger *slog.Logger
	svc    *engine.Service

	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadConfig(opts *globalOptions) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if opts.store != "" {
		cfg.Store.Kind = config.NormalizeStoreKind(opts.store)
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	if opts.dataPath != "" {
		cfg.Store.Path = opts.dataPath
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config, path string) (storage.Store, func(), error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return storage.NewMemoryStore(), func() {}, nil
	case config.StoreFile:
		fs, err := storage.NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	default:
		st, closeDB, err := storage.OpenSQLiteStore(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = closeDB() }, nil
	}
}

// openSession loads config, opens the store, wires event sinks and loads the
// garden. extra sinks are added after the logging and NATS sinks.
func openSession(ctx context.Context, opts *globalOptions, extra ...engine.EventSink) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)

	path, err := cfg.DataPath()
	if err != nil {
		return nil, err
	}
	if cfg.Store.Kind == config.StoreMemory {
		path = ""
	}

	st, closeStore, err := openStore(ctx, cfg, path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Kind, err)
	}
	s := &session{cfg: cfg, path: path, logger: logger}
	s.closers = append(s.closers, closeStore)

	svcOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithRand(engine.NewRand(cfg.Random.Seed)),
		engine.WithSink(engine.LogSink{Logger: logger}),
	}
	if cfg.Events.NATSURL != "" {
		pub, err := notify.Connect(cfg.Events.NATSURL, cfg.Events.Subject, logger)
		if err != nil {
			// Events are optional; the garden still works offline.
			logger.Warn("event publishing disabled", logfields.Error(err))
		} else {
			s.closers = append(s.closers, pub.Close)
			svcOpts = append(svcOpts, engine.WithSink(pub))
		}
	}
	for _, sink := range extra {
		svcOpts = append(svcOpts, engine.WithSink(sink))
	}

	s.svc = engine.NewService(st, svcOpts...)
	if err := s.svc.Load(ctx); err != nil {
		s.Close()
		return nil, err
	}
	logger.Debug("garden opened", logfields.Store(string(cfg.Store.Kind)), logfields.Path(path))
	return s, nil
}

// withSession opens a session, runs fn and closes it.
func withSession(ctx context.Context, opts *globalOptions, fn func(*session) error) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// metricsSink pairs a Prometheus recorder with the sink feeding it.
func metricsSink() (*metrics.PrometheusRecorder, engine.EventSink) {
	rec := metrics.NewPrometheusRecorder(nil)
	return rec, metrics.Sink{Recorder: rec}
}

var errAborted = errors.New("aborted")
