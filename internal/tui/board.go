package tui

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"garden/internal/engine"
	"garden/internal/logfields"
)

type BoardOptions struct {
	// WatchPath is the data file to watch for outside changes. Empty disables watching.
	WatchPath string
	// OnChange runs after the board loads fresh state.
	OnChange func()
	Logger   *slog.Logger
}

func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer, opts BoardOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := newBoardModel(ctx, svc)
	m.afterChange = opts.OnChange
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))

	if opts.WatchPath != "" {
		w, err := newStoreWatcher(opts.WatchPath, logger)
		if err != nil {
			// The board still works without live reloads; r reloads by hand.
			logger.Warn("file watching disabled", logfields.Path(opts.WatchPath), logfields.Error(err))
		} else {
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			defer w.Close()
			go w.Run(watchCtx, func() { p.Send(storeChangedMsg{}) })
		}
	}

	_, err := p.Run()
	return err
}
