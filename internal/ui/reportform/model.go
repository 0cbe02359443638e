package reportform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/theme"
)

// SubmitRequestedMsg is dispatched when the user completes the form. The
// carried draft still needs required-field validation against the captured
// location before anything is sent.
type SubmitRequestedMsg struct {
	Draft model.Draft
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	category    string
	priority    model.Priority
}

// Model is the Bubble Tea model for the new-report form.
type Model struct {
	form *huh.Form
	fb   *formBindings

	// submitted latches once the completed form has emitted its submit
	// message, so messages arriving while the request is in flight do
	// not file the report again. Start clears it.
	submitted bool

	// location and audio state captured outside the form, shown under it.
	address   string
	hasAudio  bool
	recording bool

	width  int
	height int
}

// New creates a new report form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// Start initializes the form for a fresh draft, carrying over any location
// or audio already captured for it.
func (m *Model) Start(draft model.Draft) tea.Cmd {
	m.fb.title = draft.Title
	m.fb.description = draft.Description
	m.fb.category = draft.Category
	m.fb.priority = draft.EffectivePriority()
	m.address = draft.Address
	m.hasAudio = draft.AudioPath != ""
	m.submitted = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetLocation updates the captured-location line shown under the form.
func (m *Model) SetLocation(address string) {
	m.address = address
}

// SetAudio updates the attached-audio indicator.
func (m *Model) SetAudio(attached bool) {
	m.hasAudio = attached
}

// SetRecording toggles the recording indicator.
func (m *Model) SetRecording(active bool) {
	m.recording = active
}

// Update handles messages for the report form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.submitted {
			return m, nil
		}
		m.submitted = true
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the report form with the capture status lines.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Report an Issue") + "\n" +
		m.form.View() + "\n" +
		m.captureStatus()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// captureStatus renders the location and audio lines under the form.
func (m Model) captureStatus() string {
	var lines []string

	locStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if m.address != "" {
		lines = append(lines, locStyle.Foreground(theme.ColorGreen).
			Render("Location set: "+m.address))
	} else {
		lines = append(lines, locStyle.Render("No location captured (press ctrl+g)"))
	}

	switch {
	case m.recording:
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.ColorRed).Render("● Recording... (press ctrl+r to stop)"))
	case m.hasAudio:
		lines = append(lines, locStyle.Foreground(theme.ColorGreen).
			Render("Audio clip attached"))
	default:
		lines = append(lines, locStyle.Render("No audio attached (press ctrl+r to record)"))
	}

	return strings.Join(lines, "\n")
}

// Draft returns the current form values merged over the given base draft.
func (m Model) Draft(base model.Draft) model.Draft {
	base.Title = m.fb.title
	base.Description = m.fb.description
	base.Category = m.fb.category
	base.Priority = m.fb.priority
	return base
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What is the problem?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Describe the issue in detail...").
				Value(&m.fb.description).
				Validate(validateRequired("Description")),
			huh.NewSelect[string]().
				Title("Category").
				Options(
					huh.NewOption("Roads", model.CategoryRoads),
					huh.NewOption("Water", model.CategoryWater),
					huh.NewOption("Sanitation", model.CategorySanitation),
					huh.NewOption("Electricity", model.CategoryElectricity),
					huh.NewOption("Street lighting", model.CategoryLighting),
					huh.NewOption("Other", model.CategoryOther),
				).
				Value(&m.fb.category),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", model.PriorityLow),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("High", model.PriorityHigh),
				).
				Value(&m.fb.priority),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	draft := model.Draft{
		Title:       m.fb.title,
		Description: m.fb.description,
		Category:    m.fb.category,
		Priority:    m.fb.priority,
	}
	return func() tea.Msg { return SubmitRequestedMsg{Draft: draft} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 8
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
