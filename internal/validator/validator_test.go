package validator

import (
	"BattingNarrativeApi/internal/assert"
	"testing"
)

func TestValidatorKeepsFirstError(t *testing.T) {
	v := New()
	v.Check(false, "year", "must be provided")
	v.Check(false, "year", "must exist")
	v.Check(true, "player_id", "must be provided")

	assert.Equal(t, v.Valid(), false)
	assert.Equal(t, v.Errors["year"], "must be provided")
	assert.Equal(t, len(v.Errors), 1)
}

func TestMatchesEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "Valid", email: "fan@ballpark.org", want: true},
		{name: "Missing At", email: "fan.ballpark.org", want: false},
		{name: "Empty", email: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Matches(tt.email, EmailRX), tt.want)
		})
	}
}

func TestPermittedValue(t *testing.T) {
	assert.Equal(t, PermittedValue("name", "name", "-name"), true)
	assert.Equal(t, PermittedValue("year", "name", "-name"), false)
}
