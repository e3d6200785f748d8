package data

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// DefaultDataURL is the published season batting CSV.
const DefaultDataURL = "https://raw.githubusercontent.com/feram18/mlb-narrative-visualization/main/mlb-stats.csv"

var ErrFetchStatus = errors.New("unexpected response status")

// FetchCSV downloads and parses the CSV at url. Any non-2xx response is an error.
func FetchCSV(ctx context.Context, client *http.Client, url string) (*Table, []LoadWarning, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("fetching %s: %w: %s", url, ErrFetchStatus, resp.Status)
	}

	return ParseCSV(resp.Body)
}

func LoadCSVFile(path string) (*Table, []LoadWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return ParseCSV(f)
}
