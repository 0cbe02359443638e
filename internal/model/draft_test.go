package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraft_MissingFields(t *testing.T) {
	lat, lng := 10.5, 106.25

	complete := Draft{
		Title:       "Pothole",
		Description: "Deep one",
		Category:    CategoryRoads,
		Latitude:    &lat,
		Longitude:   &lng,
	}
	assert.Empty(t, complete.MissingFields())

	blank := Draft{
		Title:       "   ",
		Description: "\t",
		Latitude:    &lat,
	}
	assert.Equal(t,
		[]string{"title", "description", "category", "longitude"},
		blank.MissingFields(),
		"whitespace-only text counts as missing",
	)
}

func TestDraft_EffectivePriorityDefaultsToMedium(t *testing.T) {
	assert.Equal(t, PriorityMedium, Draft{}.EffectivePriority())
	assert.Equal(t, PriorityHigh, Draft{Priority: PriorityHigh}.EffectivePriority())
}

func TestDraft_ResetClearsEverything(t *testing.T) {
	lat := 10.5
	d := Draft{Title: "Pothole", Latitude: &lat, AudioPath: "/tmp/clip.webm"}
	d.Reset()
	assert.Equal(t, Draft{}, d)
}

func TestIssue_DisplayAddress(t *testing.T) {
	addr := "12 Elm St"
	with := Issue{Location: Location{Address: &addr}}
	assert.Equal(t, "12 Elm St", with.DisplayAddress())

	empty := ""
	assert.Equal(t, "Location not specified",
		Issue{Location: Location{Address: &empty}}.DisplayAddress())
	assert.Equal(t, "Location not specified", Issue{}.DisplayAddress())
}
