package main

import (
	"BattingNarrativeApi/internal/data"
	"BattingNarrativeApi/internal/mailer"
	"BattingNarrativeApi/internal/render"
	"BattingNarrativeApi/internal/scene"
	"BattingNarrativeApi/internal/stats"
	"BattingNarrativeApi/internal/validator"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type svgCache interface {
	GetSVG(ctx context.Context, sceneKey string) ([]byte, bool, error)
	SetSVG(ctx context.Context, sceneKey string, svg []byte) error
}

func nothingToDraw(err error) bool {
	return errors.Is(err, render.ErrNothingToDraw) || errors.Is(err, stats.ErrEmptySubset)
}

// sceneView pairs a state with its frame. A scene without plottable values has a null frame.
func (app *application) sceneView(s scene.State) (envelope, error) {
	frame, err := render.Render(s, app.table)
	if err != nil {
		if nothingToDraw(err) {
			return envelope{"state": s, "frame": nil}, nil
		}
		return nil, err
	}

	return envelope{"state": s, "frame": frame}, nil
}

// sceneSnapshot is the message pushed to watchers.
func (app *application) sceneSnapshot(s scene.State) ([]byte, error) {
	view, err := app.sceneView(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(view)
}

func (app *application) GetScene(w http.ResponseWriter, r *http.Request) {
	state, err := app.navigator.State(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	view, err := app.sceneView(state)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, view, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetSceneSVG(w http.ResponseWriter, r *http.Request) {
	state, err := app.navigator.State(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	svg, hit, err := app.renderSVG(r.Context(), state)
	if err != nil {
		switch {
		case nothingToDraw(err):
			app.nothingToDrawResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Cache-Control", "no-store")
	if app.svgCache != nil {
		headers.Set("X-Cache", "MISS")
		if hit {
			headers.Set("X-Cache", "HIT")
		}
	}

	err = app.writeSVG(w, http.StatusOK, svg, headers)
	if err != nil {
		app.logError(r, err)
	}
}

// renderSVG draws state, going through the cache when one is configured. Cache failures
// are logged and the scene is drawn directly.
func (app *application) renderSVG(ctx context.Context, state scene.State) ([]byte, bool, error) {
	key := state.Key()

	if app.svgCache != nil {
		svg, ok, err := app.svgCache.GetSVG(ctx, key)
		if err != nil {
			app.logger.PrintError(err, map[string]string{"scene": key})
		} else if ok {
			return svg, true, nil
		}
	}

	frame, err := render.Render(state, app.table)
	if err != nil {
		return nil, false, err
	}

	svg, err := app.drawSVG(ctx, state, frame)
	return svg, false, err
}

// drawSVG draws an already rendered frame and stores the result in the cache.
func (app *application) drawSVG(ctx context.Context, state scene.State, frame render.Frame) ([]byte, error) {
	svg, err := render.SVG(frame)
	if err != nil {
		return nil, err
	}

	if app.svgCache != nil {
		key := state.Key()
		if err := app.svgCache.SetSVG(ctx, key, svg); err != nil {
			app.logger.PrintError(err, map[string]string{"scene": key})
		}
	}

	return svg, nil
}

// navigate applies e and responds with the resulting scene.
func (app *application) navigate(w http.ResponseWriter, r *http.Request, e scene.Event) {
	state, err := app.navigator.Dispatch(r.Context(), e)
	if err != nil {
		switch {
		case errors.Is(err, scene.ErrUnknownYear):
			app.failedValidationResponse(w, r, map[string]string{
				"year": "must be a year present in the data"})
		case errors.Is(err, scene.ErrUnknownPlayer):
			app.failedValidationResponse(w, r, map[string]string{
				"player_id": "must identify a loaded player"})
		case errors.Is(err, scene.ErrPlayerYearMismatch):
			app.failedValidationResponse(w, r, map[string]string{
				"player_id": "must belong to the selected year"})
		case errors.Is(err, scene.ErrNoYearSelected):
			app.failedValidationResponse(w, r, map[string]string{
				"player_id": "cannot be selected before a year"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	view, err := app.sceneView(state)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, view, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) SelectYear(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Year *int `json:"year"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateYear(v, app.table, input.Year)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	app.navigate(w, r, scene.SelectYearEvent{Year: *input.Year})
}

func (app *application) SelectPlayer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PlayerID *int `json:"player_id"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidatePlayerID(v, app.table, input.PlayerID)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	app.navigate(w, r, scene.SelectPlayerEvent{PlayerID: *input.PlayerID})
}

func (app *application) Back(w http.ResponseWriter, r *http.Request) {
	app.navigate(w, r, scene.BackEvent{})
}

func (app *application) Reset(w http.ResponseWriter, r *http.Request) {
	app.navigate(w, r, scene.ResetEvent{})
}

func (app *application) ShareScene(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(input.Email != "", "email", "must be provided")
	v.Check(validator.Matches(input.Email, validator.EmailRX), "email", "must be a valid email address")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	state, err := app.navigator.State(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	frame, err := render.Render(state, app.table)
	if err != nil {
		switch {
		case nothingToDraw(err):
			app.nothingToDrawResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	svg, err := app.drawSVG(r.Context(), state, frame)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	filename := strings.ReplaceAll(state.Key(), ":", "-") + ".svg"
	mailData := map[string]string{
		"Title":    frame.Title,
		"Subtitle": frame.Subtitle,
		"Filename": filename,
		"URL":      fmt.Sprintf("http://%s/v1/scene/svg", r.Host),
	}

	app.backgroundTask(func() {
		err := app.mailer.Send(input.Email, "scene_share.tmpl", mailData,
			mailer.Attachment{Name: filename, Content: svg})
		if err != nil {
			app.logger.PrintError(err, map[string]string{"scene": state.Key()})
		}
	})

	err = app.writeJSON(w, http.StatusAccepted, envelope{
		"message": fmt.Sprintf("scene (%s) will be emailed to %s", state, input.Email)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(app.config.cors.trustedOrigins, origin) {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (app *application) WatchScene(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     app.checkOrigin,
	}

	// Upgrade replies with an HTTP error itself on failure.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.logError(r, err)
		return
	}

	watcher := scene.NewWatcher(app.navigator, conn)
	if err := app.navigator.Join(watcher); err != nil {
		_ = conn.Close()
		return
	}

	app.logger.PrintInfo("watcher joined", map[string]string{"watcher": watcher.ID.String()})

	go watcher.WriteEvents()
	go watcher.ReadEvents()
}
