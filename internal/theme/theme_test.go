package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencivic/civicwatch/internal/model"
)

func TestStatusColor_CoversEveryStatus(t *testing.T) {
	cases := map[model.IssueStatus]string{
		model.StatusPending:    ColorYellow.Dark,
		model.StatusApproved:   ColorGreen.Dark,
		model.StatusRejected:   ColorRed.Dark,
		model.StatusOnHold:     ColorGray.Dark,
		model.StatusInProgress: ColorBlue.Dark,
		model.StatusResolved:   ColorMagenta.Dark,
	}
	for status, want := range cases {
		assert.Equal(t, want, StatusColor(status).Dark, "status %q", status)
	}
}

func TestStatusColor_UnknownStatusFallsBackToGray(t *testing.T) {
	assert.Equal(t, ColorGray, StatusColor(model.IssueStatus("vanished")))
}

func TestPriorityColor_TotalMapping(t *testing.T) {
	assert.Equal(t, ColorGreen, PriorityColor(model.PriorityLow))
	assert.Equal(t, ColorYellow, PriorityColor(model.PriorityMedium))
	assert.Equal(t, ColorRed, PriorityColor(model.PriorityHigh))
	assert.Equal(t, ColorGray, PriorityColor(model.Priority("urgent")))
}

func TestSeverityColor_TotalMapping(t *testing.T) {
	assert.Equal(t, ColorGreen, SeverityColor(model.SeveritySuccess))
	assert.Equal(t, ColorRed, SeverityColor(model.SeverityError))
	assert.Equal(t, ColorYellow, SeverityColor(model.SeverityWarning))
	assert.Equal(t, ColorBlue, SeverityColor(model.SeverityInfo))
	assert.Equal(t, ColorBlue, SeverityColor(model.Severity("fatal")))
}
