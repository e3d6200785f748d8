package main

import (
	"BattingNarrativeApi/internal/data"
	"BattingNarrativeApi/internal/stats"
	"errors"
	"net/http"
)

func (app *application) ShowPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIntParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	player, err := app.table.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"player": player,
		"hits":   stats.HitDistribution(player),
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
