package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/glance/internal/config"
	"github.com/taigrr/glance/internal/watch"
	"github.com/taigrr/glance/pkg/render"
	"github.com/taigrr/glance/pkg/term"
	"github.com/taigrr/glance/pkg/viewport"
)

// reloadSettle is how long the model file must stay unchanged before it is
// reloaded.
const reloadSettle = 250 * time.Millisecond

func newLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
}

func run(ctx context.Context, cfg config.Config, modelPath string) error {
	logger, closer, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	mesh, err := loadScene(modelPath, cfg.Texture, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded model", "path", modelPath,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount(), "materials", mesh.MaterialCount())

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	renderer := render.New(mesh)
	renderer.Background = bg

	opts, err := cfg.Options(render.DefaultSliders(), render.DefaultFlags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	opts.Logger = logger

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Terminal setup
	t := uv.DefaultTerminal()
	cols, rows, err := t.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	t.EnterAltScreen()
	t.HideCursor()
	t.Resize(cols, rows)
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		t.ExitAltScreen()
		t.ShowCursor()
		if err := t.Shutdown(context.Background()); err != nil {
			logger.Warn("terminal shutdown", "err", err)
		}
	}()

	opts.Width, opts.Height = term.PixelSize(cols, rows)

	surface := term.NewSurface(t, func(cols, rows int) {
		t.Erase()
		t.Resize(cols, rows)
	}, logger)
	session, err := viewport.New(opts, renderer.Render, surface, surface)
	if err != nil {
		return err
	}

	surface.HUD = term.NewHUD(filepath.Base(modelPath), mesh.TriangleCount(), opts.Mode, session.Params())
	surface.Panel = term.NewPanel(session, map[string]string{
		"t": render.FlagTexture,
		"x": render.FlagWireframe,
		"g": render.FlagSpecular,
	})
	surface.Light = term.NewLightAim(session, render.ParamLightAzimuth, render.ParamLightElevation)

	quit := func(ev viewport.Event) bool {
		kd, ok := ev.(viewport.KeyDown)
		if !ok {
			return true
		}
		if kd.Key == "ctrl+c" || (kd.Key == "esc" && !surface.Light.Active()) {
			cancel()
			return false
		}
		return true
	}
	reload := func(ev viewport.Event) bool {
		if _, ok := ev.(viewport.Reload); !ok {
			return true
		}
		m, err := loadScene(modelPath, cfg.Texture, logger)
		if err != nil {
			logger.Error("reload model", "path", modelPath, "err", err)
			surface.ShowError(err)
			return false
		}
		renderer.SetMesh(m)
		surface.HUD.Polys = m.TriangleCount()
		logger.Info("reloaded model", "path", modelPath, "triangles", m.TriangleCount())
		return true
	}
	session.Use(quit, surface.Handle, surface.Light.Handle, surface.Panel.Handle, reload)

	events := make(chan viewport.Event, 64)
	send := func(ev viewport.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case raw, ok := <-t.Events():
				if !ok {
					cancel()
					return nil
				}
				if ev := term.Translate(raw); ev != nil {
					send(ev)
				}
			}
		}
	})
	if cfg.Watch {
		g.Go(func() error {
			err := watch.File(ctx, modelPath, reloadSettle, logger, func() {
				send(viewport.Reload{Path: modelPath})
			})
			if err != nil {
				// The viewer works without reloads.
				logger.Warn("model watcher stopped", "err", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return session.Run(ctx, events)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	st := session.Scheduler().Stats()
	logger.Info("session ended", "full", st.Full, "fast", st.Fast, "coalesced", st.Coalesced, "failed", st.Failed)
	return nil
}
