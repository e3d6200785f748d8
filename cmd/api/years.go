package main

import (
	"BattingNarrativeApi/internal/data"
	"BattingNarrativeApi/internal/stats"
	"BattingNarrativeApi/internal/validator"
	"errors"
	"net/http"
)

func (app *application) ListYears(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{
		"years": stats.YearlyAverages(app.table.Records())}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readYear reads the {year} parameter and writes a 404 for unknown years.
func (app *application) readYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := app.readIntParam(r, "year")
	if err != nil || !app.table.HasYear(year) {
		app.notFoundResponse(w, r)
		return 0, false
	}
	return year, true
}

func (app *application) ShowYear(w http.ResponseWriter, r *http.Request) {
	year, ok := app.readYear(w, r)
	if !ok {
		return
	}

	summary, err := stats.SummarizeYear(app.table.ForYear(year), year)
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrEmptySubset):
			app.nothingToDrawResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"year": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ListYearPlayers(w http.ResponseWriter, r *http.Request) {
	year, ok := app.readYear(w, r)
	if !ok {
		return
	}

	qs := r.URL.Query()
	v := validator.New()

	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1, v),
		PageSize:     app.readInt(qs, "page_size", 20, v),
		Sort:         app.readString(qs, "sort", "id"),
		SortSafelist: data.RecordSortSafelist(),
	}

	data.ValidateFilters(v, filters)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	players, metadata := data.Paginate(app.table.ForYear(year), filters)

	err := app.writeJSON(w, http.StatusOK, envelope{"players": players, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
