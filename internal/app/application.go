// Package app wires the screen, state, reducer, renderer and store client
// together and runs the event loop.
package app

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/sdrive-tools/sdrive/internal/catalog"
	"github.com/sdrive-tools/sdrive/internal/config"
	"github.com/sdrive-tools/sdrive/internal/preview"
	statepkg "github.com/sdrive-tools/sdrive/internal/state"
	"github.com/sdrive-tools/sdrive/internal/store"
	inputui "github.com/sdrive-tools/sdrive/internal/ui/input"
	renderui "github.com/sdrive-tools/sdrive/internal/ui/render"
)

// Application represents the running client.
type Application struct {
	screen     tcell.Screen
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	client     *store.Client
	dispatcher *preview.Dispatcher
	services   statepkg.Services
	actionCh   chan statepkg.Action
	cfg        *config.Config
	log        *zap.Logger
	shouldQuit bool
}

// NewApplication initializes the screen and all collaborators.
func NewApplication(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	client := store.New(store.Config{BaseURL: cfg.ServerURL, Logger: logger})
	dispatcher := preview.NewDispatcher(client.ViewContent, client.ContentURL)

	state := newInitialState(cfg)
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	actionCh := make(chan statepkg.Action, 16)
	state.SetDispatch(func(action statepkg.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	})

	app := &Application{
		screen:     screen,
		state:      state,
		renderer:   renderui.NewRenderer(screen),
		input:      inputui.NewInputHandler(actionCh),
		client:     client,
		dispatcher: dispatcher,
		actionCh:   actionCh,
		cfg:        cfg,
		log:        logger,
	}
	app.services = app.buildServices()
	app.reducer = statepkg.NewStateReducer(app.services)
	app.input.SetState(state)
	return app, nil
}

func newInitialState(cfg *config.Config) *statepkg.AppState {
	sortKey := catalog.SortKey(cfg.DefaultSort)
	if !sortKey.Valid() {
		sortKey = catalog.SortNameAsc
	}
	return &statepkg.AppState{
		SortKey: sortKey,
	}
}

// services adapts the store client to the reducer's collaborators. Every
// operation runs off the event loop and re-enters through a dispatched
// completion action; the catalog itself is only ever replaced on the loop.
func (app *Application) buildServices() statepkg.Services {
	st := app.state
	return statepkg.Services{
		LoadCatalog: func() {
			go func() {
				files, err := app.client.List(context.Background())
				st.Dispatch(statepkg.CatalogLoadedAction{Files: files, Err: err})
			}()
		},
		LoadRules: func() {
			go func() {
				rules, err := app.client.Rules(context.Background())
				st.Dispatch(statepkg.RulesLoadedAction{Rules: rules, Err: err})
			}()
		},
		LoadStats: func() {
			go func() {
				stats, err := app.client.Stats(context.Background())
				st.Dispatch(statepkg.StatsLoadedAction{Stats: stats, Err: err})
			}()
		},
		Upload: func(sessionID string, paths []string) {
			go func() {
				result, err := app.client.Upload(context.Background(), paths, func(pct int) {
					st.Dispatch(statepkg.UploadProgressAction{SessionID: sessionID, Percent: pct})
				})
				finished := statepkg.UploadFinishedAction{SessionID: sessionID}
				if err != nil {
					app.log.Error("upload failed", zap.Error(err))
					finished.Message = err.Error()
				} else {
					finished.Success = result.Success
					finished.Message = result.Message
				}
				st.Dispatch(finished)
			}()
		},
		Delete: func(relpath string) {
			go func() {
				err := app.client.Delete(context.Background(), relpath)
				st.Dispatch(statepkg.DeleteFinishedAction{Path: relpath, Err: err})
			}()
		},
		Download: func(relpath string) {
			go func() {
				dest, err := app.client.Download(context.Background(), relpath, app.cfg.DownloadDir)
				st.Dispatch(statepkg.TransferFinishedAction{Dest: dest, Err: err})
			}()
		},
		DownloadFolder: func(folder string) {
			go func() {
				dest, err := app.client.DownloadFolder(context.Background(), folder, app.cfg.DownloadDir)
				st.Dispatch(statepkg.TransferFinishedAction{Dest: dest, Err: err})
			}()
		},
		Preview: func(f store.FileRecord) {
			go func() {
				inst := app.dispatcher.Preview(context.Background(), f)
				st.Dispatch(statepkg.PreviewLoadedAction{Instruction: inst})
			}()
		},
		SaveRule: func(folder string, extensions []string) {
			go func() {
				rules, err := app.client.SaveRule(context.Background(), folder, extensions)
				st.Dispatch(statepkg.RuleSavedAction{Rules: rules, Err: err})
			}()
		},
	}
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.screen.Fini()
	return nil
}
