package app

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	statepkg "github.com/sdrive-tools/sdrive/internal/state"
)

// Run drives the event loop until the user quits. All state mutation happens
// here, one action at a time; goroutines only ever dispatch.
func (app *Application) Run() {
	defer app.screen.Fini()

	app.kickoff()
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			eventChan <- app.screen.PollEvent()
		}
	}()

	pollInterval := app.cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}
	healthTicker := time.NewTicker(pollInterval)
	defer healthTicker.Stop()

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-healthTicker.C:
			app.pollHealth()
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

// kickoff issues the initial round of store requests.
func (app *Application) kickoff() {
	app.services.LoadCatalog()
	app.services.LoadRules()
	app.services.LoadStats()
	app.pollHealth()
}

func (app *Application) pollHealth() {
	go func() {
		health, err := app.client.Health(context.Background())
		alive := err == nil && health.OK()
		app.state.Dispatch(statepkg.HealthCheckedAction{Alive: alive})
	}()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	default:
		return false
	}
	return true
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	if _, ok := action.(statepkg.QuitAction); ok {
		app.shouldQuit = true
		return false
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.log.Warn("action failed", zap.Error(err))
		app.state.LastError = err
	}
	return true
}

// processActions drains any actions queued by dispatches that arrived while
// the current one was being reduced.
func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}
