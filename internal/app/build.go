package app

import (
	"fmt"
	"image"

	"github.com/rook-computer/typewriter/internal/config"
	"github.com/rook-computer/typewriter/internal/document"
	"github.com/rook-computer/typewriter/internal/editor"
	"github.com/rook-computer/typewriter/internal/keys"
	"github.com/rook-computer/typewriter/internal/refresh"
	"github.com/rook-computer/typewriter/internal/render"
	"github.com/rook-computer/typewriter/internal/system"
)

// Build assembles an App from cfg around the given panel, key source and
// runner. The working document is loaded from cfg.DataDir.
func Build(cfg config.Config, panel refresh.Panel, source keys.Source, runner system.Runner, logger Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NoopLogger{}
	}

	docs := document.NewStore(cfg.DataDir)
	docs.WorkingName = cfg.WorkingFile
	docs.SnapshotPrefix = cfg.SnapshotPrefix
	lines, err := docs.Load()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	logger.Infof("app", "loaded %d lines from %s", len(lines), docs.WorkingPath())

	l := cfg.Layout
	face := render.LoadFace(l.FontPath, l.FontSize, logger)
	composer := render.NewComposer(render.Options{
		Width:         cfg.Panel.Width,
		Height:        cfg.Panel.Height,
		CharsPerLine:  l.CharsPerLine,
		LinesOnScreen: l.LinesOnScreen,
		LineSpacing:   l.LineSpacing,
		TextX:         l.TextX,
		InputY:        l.InputY,
		MessageX:      l.MessageX,
		ShutdownAt:    image.Pt(200, cfg.Panel.Height/2),
	}, face)
	composer.Logger = logger

	sched := refresh.New(panel, composer, refresh.Options{
		Width:    cfg.Panel.Width,
		Height:   cfg.Panel.Height,
		Interval: cfg.Timing.RefreshInterval(),
		Logger:   logger,
	})
	buffer := editor.NewBuffer(l.CharsPerLine, lines, docs)
	proc := editor.NewProcessor(buffer, editor.NewScrollWindow(l.LinesOnScreen), logger)

	a := New(proc, sched, source, runner, Options{
		Tick:           cfg.Timing.Tick(),
		CommandTimeout: cfg.Timing.CommandTimeout(),
	})
	a.Logger = logger
	return a, nil
}
