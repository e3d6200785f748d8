package scene

import "strconv"

// Event is a navigation request processed by the Navigator.
type Event interface {
	apply(s State, c Catalog) (State, error)
	Name() string
}

type SelectYearEvent struct {
	Year int
}

func (e SelectYearEvent) apply(s State, c Catalog) (State, error) {
	return SelectYear(s, c, e.Year)
}

func (e SelectYearEvent) Name() string {
	return "select_year:" + strconv.Itoa(e.Year)
}

type SelectPlayerEvent struct {
	PlayerID int
}

func (e SelectPlayerEvent) apply(s State, c Catalog) (State, error) {
	return SelectPlayer(s, c, e.PlayerID)
}

func (e SelectPlayerEvent) Name() string {
	return "select_player:" + strconv.Itoa(e.PlayerID)
}

type BackEvent struct{}

func (BackEvent) apply(s State, _ Catalog) (State, error) {
	return Back(s), nil
}

func (BackEvent) Name() string {
	return "back"
}

type ResetEvent struct{}

func (ResetEvent) apply(s State, _ Catalog) (State, error) {
	return Reset(s), nil
}

func (ResetEvent) Name() string {
	return "reset"
}
