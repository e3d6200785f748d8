package data

import (
	"BattingNarrativeApi/internal/assert"
	"testing"
)

func TestPresenterKey(t *testing.T) {
	var key PresenterKey
	assert.NilError(t, key.Set("opening-day"))

	fromHash, err := PresenterKeyFromHash(key.Hash())
	assert.NilError(t, err)

	ok, err := fromHash.Matches("opening-day")
	assert.NilError(t, err)
	assert.Equal(t, ok, true)

	ok, err = fromHash.Matches("rain-delay")
	assert.NilError(t, err)
	assert.Equal(t, ok, false)

	var empty PresenterKey
	ok, err = empty.Matches("opening-day")
	assert.NilError(t, err)
	assert.Equal(t, ok, false)

	_, err = PresenterKeyFromHash("not-a-hash")
	if err == nil {
		t.Errorf("expected error for malformed hash")
	}
}
