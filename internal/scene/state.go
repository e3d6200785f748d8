package scene

import (
	"BattingNarrativeApi/internal/data"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownYear        = errors.New("year not present in data")
	ErrUnknownPlayer      = errors.New("player not present in data")
	ErrNoYearSelected     = errors.New("a year must be selected before a player")
	ErrPlayerYearMismatch = errors.New("player does not belong to the selected year")
)

type Kind string

const (
	Overview     Kind = "overview"
	DrillDown    Kind = "drill_down"
	PlayerDetail Kind = "player_detail"
)

// Catalog answers the lookups transitions need. *data.Table implements it.
type Catalog interface {
	HasYear(year int) bool
	Player(id int) (data.Record, bool)
}

// State is the navigation state. The zero value is the Overview. A player is only ever set
// together with its own year.
type State struct {
	year    int
	hasYear bool
	player  *data.Record
}

func (s State) Kind() Kind {
	switch {
	case s.player != nil:
		return PlayerDetail
	case s.hasYear:
		return DrillDown
	default:
		return Overview
	}
}

func (s State) Year() (int, bool) {
	return s.year, s.hasYear
}

func (s State) Player() (data.Record, bool) {
	if s.player == nil {
		return data.Record{}, false
	}
	return *s.player, true
}

// Equal compares scenes; players are compared by ID.
func (s State) Equal(o State) bool {
	if s.hasYear != o.hasYear || s.year != o.year {
		return false
	}
	if (s.player == nil) != (o.player == nil) {
		return false
	}
	return s.player == nil || s.player.ID == o.player.ID
}

// Key identifies the scene, e.g. "overview", "year:2019", "player:2019:42".
func (s State) Key() string {
	switch s.Kind() {
	case PlayerDetail:
		return fmt.Sprintf("player:%d:%d", s.year, s.player.ID)
	case DrillDown:
		return fmt.Sprintf("year:%d", s.year)
	default:
		return string(Overview)
	}
}

func (s State) String() string {
	switch s.Kind() {
	case PlayerDetail:
		return fmt.Sprintf("PlayerDetail(%d, %s)", s.year, s.player.FullName())
	case DrillDown:
		return fmt.Sprintf("DrillDown(%d)", s.year)
	default:
		return "Overview"
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	aux := struct {
		Scene          Kind         `json:"scene"`
		SelectedYear   *int         `json:"selected_year"`
		SelectedPlayer *data.Record `json:"selected_player"`
	}{
		Scene:          s.Kind(),
		SelectedPlayer: s.player,
	}
	if s.hasYear {
		year := s.year
		aux.SelectedYear = &year
	}
	return json.Marshal(aux)
}

// SelectYear moves to DrillDown(year) from any scene, dropping any selected player.
func SelectYear(s State, c Catalog, year int) (State, error) {
	if !c.HasYear(year) {
		return s, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	return State{year: year, hasYear: true}, nil
}

// SelectPlayer moves to PlayerDetail. The player must belong to the selected year.
func SelectPlayer(s State, c Catalog, playerID int) (State, error) {
	if !s.hasYear {
		return s, ErrNoYearSelected
	}

	player, ok := c.Player(playerID)
	if !ok {
		return s, fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}
	if player.Year != s.year {
		return s, fmt.Errorf("%w: player %d played in %d, not %d", ErrPlayerYearMismatch,
			playerID, player.Year, s.year)
	}

	return State{year: s.year, hasYear: true, player: &player}, nil
}

// Back goes up exactly one level. Back from the Overview stays there.
func Back(s State) State {
	switch s.Kind() {
	case PlayerDetail:
		return State{year: s.year, hasYear: true}
	default:
		return State{}
	}
}

func Reset(State) State {
	return State{}
}
