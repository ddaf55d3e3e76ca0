// Package app runs the editor loop. The App is the single owner of all
// editing state: key events arrive on one channel, display work leaves on
// another, and nothing else touches the buffer, scroll window or scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rook-computer/typewriter/internal/editor"
	"github.com/rook-computer/typewriter/internal/keys"
	"github.com/rook-computer/typewriter/internal/refresh"
	"github.com/rook-computer/typewriter/internal/render"
	"github.com/rook-computer/typewriter/internal/state"
	"github.com/rook-computer/typewriter/internal/system"
)

const (
	DefaultShutdownMessage = "Powered Down."
	networkTitle           = "Network"
)

type Options struct {
	Tick            time.Duration
	CommandTimeout  time.Duration
	ShutdownMessage string
}

type App struct {
	Processor *editor.Processor
	Scheduler *refresh.Scheduler
	Keys      keys.Source
	Runner    system.Runner
	Store     *state.Store
	Logger    Logger

	opts    Options
	message string
	network chan system.NetworkStatus
}

func New(processor *editor.Processor, scheduler *refresh.Scheduler, source keys.Source, runner system.Runner, opts Options) *App {
	if opts.Tick <= 0 {
		opts.Tick = 10 * time.Millisecond
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 5 * time.Second
	}
	if opts.ShutdownMessage == "" {
		opts.ShutdownMessage = DefaultShutdownMessage
	}
	return &App{
		Processor: processor,
		Scheduler: scheduler,
		Keys:      source,
		Runner:    runner,
		Store:     state.NewStore(),
		Logger:    NoopLogger{},
		opts:      opts,
		network:   make(chan system.NetworkStatus, 1),
	}
}

// Run brings the panel up and processes keys until ctx is cancelled, the
// user powers off, or the display fails. Cancellation blanks the panel and
// returns nil; a hardware failure is returned as is.
func (app *App) Run(ctx context.Context) (err error) {
	app.Scheduler.Start()
	defer app.Scheduler.Close()
	defer func() {
		if err != nil {
			app.Store.Update(func(s *state.State) { s.Phase = state.FAILED; s.Err = err.Error() })
		}
	}()

	if err := app.Scheduler.Startup(); err != nil {
		return fmt.Errorf("panel startup: %w", err)
	}
	if err := app.Keys.Start(ctx); err != nil {
		return fmt.Errorf("key source: %w", err)
	}
	defer app.Keys.Stop()
	app.Logger.Infof("app", "editing, %d lines loaded", app.Processor.Buffer.LineCount())
	app.publish(state.EDITING)

	ticker := time.NewTicker(app.opts.Tick)
	defer ticker.Stop()
	events := app.Keys.Events()
	for {
		select {
		case <-ctx.Done():
			return app.shutdown()
		case ev, ok := <-events:
			if !ok {
				app.Logger.Errorf("app", "key source closed")
				events = nil
				continue
			}
			if done, err := app.handle(ctx, ev); done {
				return err
			}
		case st := <-app.network:
			app.Scheduler.Request(app.Processor.ShowOverlay(editor.Overlay{
				Kind:  editor.OverlayNetwork,
				Title: networkTitle,
				Lines: st.Lines(),
			}))
			app.publish(state.EDITING)
		case werr := <-app.Scheduler.Done():
			if err := app.Scheduler.Complete(werr); err != nil {
				app.Logger.Errorf("app", "display: %v", err)
				return err
			}
			if !app.Scheduler.Reiniting() {
				app.publish(state.EDITING)
			}
		case <-ticker.C:
			drawn, err := app.Scheduler.Tick(app.view())
			if err != nil {
				return err
			}
			if drawn == editor.IntentFullFrame {
				app.message = ""
			}
		}
	}
}

// handle applies one key event. It reports done when the loop must stop.
func (app *App) handle(ctx context.Context, ev keys.Event) (bool, error) {
	if app.Scheduler.Reiniting() {
		// Modifier state still follows the keyboard so a chord released
		// during re-init does not leave ctrl held.
		if !app.Processor.TrackModifiers(ev) {
			app.Logger.Infof("app", "dropped %s %s during reinit", ev.Kind, ev.Name)
		}
		return false, nil
	}
	res := app.Processor.Handle(ev)
	app.Scheduler.Request(res.Intent)
	if res.Message != "" {
		app.message = res.Message
	}
	switch res.Command {
	case editor.CommandReinit:
		app.Logger.Infof("app", "reinit requested")
		app.Scheduler.RequestReinit()
		app.publish(state.REINITIALIZING)
		return false, nil
	case editor.CommandPowerOff:
		return true, app.powerOff()
	case editor.CommandNetworkStatus:
		app.queryNetwork(ctx)
	}
	app.publish(state.EDITING)
	return false, nil
}

func (app *App) queryNetwork(ctx context.Context) {
	go func() {
		qctx, cancel := context.WithTimeout(ctx, app.opts.CommandTimeout)
		defer cancel()
		st, err := system.QueryNetwork(qctx, app.Runner)
		if err != nil {
			app.Logger.Errorf("app", "%v", err)
		}
		select {
		case app.network <- st:
		case <-ctx.Done():
		}
	}()
}

// powerOff draws the shutdown screen with the slow waveform, flushes the
// document and halts the machine. None of it is cancellable. A display
// failure does not stop the flush or the halt but is still returned.
func (app *App) powerOff() error {
	app.publish(state.POWERING_OFF)
	app.Logger.Infof("app", "powering off")
	view := render.View{Screen: render.ScreenShutdown, Title: app.opts.ShutdownMessage}
	displayErr := app.Scheduler.PowerOff(view)
	if displayErr != nil {
		app.Logger.Errorf("app", "shutdown screen: %v", displayErr)
	}
	if err := app.Processor.Buffer.Persist(); err != nil {
		app.Logger.Errorf("app", "flush document: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), app.opts.CommandTimeout)
	defer cancel()
	err := errors.Join(displayErr, system.PowerOff(ctx, app.Runner))
	if err == nil {
		app.publish(state.STOPPED)
	}
	return err
}

// shutdown leaves a blank, sleeping panel and a flushed document.
func (app *App) shutdown() error {
	app.Logger.Infof("app", "shutting down")
	var errs []error
	if err := app.Processor.Buffer.Persist(); err != nil {
		errs = append(errs, fmt.Errorf("flush document: %w", err))
	}
	if err := app.Scheduler.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("blank panel: %w", err))
	}
	err := errors.Join(errs...)
	if err == nil {
		app.publish(state.STOPPED)
	}
	return err
}

func (app *App) view() render.View {
	p := app.Processor
	switch o := p.Overlay(); o.Kind {
	case editor.OverlayShare:
		return render.View{Screen: render.ScreenShare, Title: o.Title, Payload: o.Payload, Reviewing: true}
	case editor.OverlayNetwork:
		return render.View{Screen: render.ScreenNetwork, Title: o.Title, Lines: o.Lines, Reviewing: true}
	}
	return render.View{
		History:   p.VisibleLines(),
		Active:    p.Buffer.Active(),
		Cursor:    p.Buffer.Cursor(),
		Reviewing: p.Scroll.Reviewing(),
		Message:   app.message,
	}
}

func (app *App) publish(phase state.Phase) {
	p := app.Processor
	lines := p.Buffer.LineCount()
	page := p.Scroll.PageIndicator(lines)
	overlay := ""
	switch p.Overlay().Kind {
	case editor.OverlayShare:
		overlay = "share"
	case editor.OverlayNetwork:
		overlay = "network"
	}
	app.Store.Update(func(s *state.State) {
		s.Phase = phase
		s.Lines = lines
		s.Active = p.Buffer.Active()
		s.Page = page
		s.Overlay = overlay
	})
}
