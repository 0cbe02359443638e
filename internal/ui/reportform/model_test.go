package reportform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivic/civicwatch/internal/model"
)

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func startedForm(t *testing.T, draft model.Draft) Model {
	t.Helper()
	m := New(80, 24)
	cmd := m.Start(draft)
	require.NotNil(t, cmd)
	return m
}

func TestCompletedFormEmitsSubmitOnce(t *testing.T) {
	m := startedForm(t, model.Draft{
		Title:       "Pothole on Main St",
		Description: "Large pothole near the intersection",
		Category:    model.CategoryRoads,
	})
	m.form.State = huh.StateCompleted

	m, cmd := m.Update(keyMsg('x'))
	require.NotNil(t, cmd)
	submit, ok := cmd().(SubmitRequestedMsg)
	require.True(t, ok, "first message after completion emits the submit")
	assert.Equal(t, "Pothole on Main St", submit.Draft.Title)

	// Stray messages while the request is in flight must not file the
	// report again.
	for i := 0; i < 3; i++ {
		var next tea.Cmd
		m, next = m.Update(keyMsg('y'))
		if next == nil {
			continue
		}
		_, dup := next().(SubmitRequestedMsg)
		assert.False(t, dup, "completed form re-emitted its submit")
	}
}

func TestStartClearsSubmitLatch(t *testing.T) {
	draft := model.Draft{
		Title:       "Streetlight out",
		Description: "Dark corner at 5th and Oak",
		Category:    model.CategoryLighting,
	}

	m := startedForm(t, draft)
	m.form.State = huh.StateCompleted
	m, cmd := m.Update(keyMsg('x'))
	require.NotNil(t, cmd)
	_, ok := cmd().(SubmitRequestedMsg)
	require.True(t, ok)

	// The submission failed; the app restarts the form with the kept
	// draft. The retry must be able to submit again.
	require.NotNil(t, m.Start(draft))
	m.form.State = huh.StateCompleted

	m, cmd = m.Update(keyMsg('x'))
	require.NotNil(t, cmd)
	_, ok = cmd().(SubmitRequestedMsg)
	assert.True(t, ok, "restarted form must submit again")
}

func TestStartRestoresDraftValues(t *testing.T) {
	draft := model.Draft{
		Title:       "Water leak",
		Description: "Burst pipe flooding the sidewalk",
		Category:    model.CategoryWater,
		Priority:    model.PriorityHigh,
		Address:     "Lat 10.50000, Lng 106.25000",
		AudioPath:   "/tmp/clip.webm",
	}

	m := startedForm(t, draft)

	merged := m.Draft(model.Draft{})
	assert.Equal(t, "Water leak", merged.Title)
	assert.Equal(t, model.PriorityHigh, merged.Priority)
	assert.Contains(t, m.View(), "Location set: Lat 10.50000, Lng 106.25000")
	assert.Contains(t, m.View(), "Audio clip attached")
}
