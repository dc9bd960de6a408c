package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type confirmAction int

const (
	confirmEndShift confirmAction = iota
	confirmLogout
)

// ConfirmDialog asks a yes/no question before an action the operator
// cannot take back from the station view.
type ConfirmDialog struct {
	Completed bool
	Confirmed bool
	action    confirmAction
	form      *huh.Form
}

// NewConfirmDialog creates the dialog for the given action.
func NewConfirmDialog(action confirmAction, title string) *ConfirmDialog {
	cd := &ConfirmDialog{action: action}
	cd.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Sí").
				Negative("No").
				Value(&cd.Confirmed),
		),
	)
	return cd
}

func (cd *ConfirmDialog) Init() tea.Cmd {
	return cd.form.Init()
}

func (cd *ConfirmDialog) Update(msg tea.Msg) (*ConfirmDialog, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		cd.Completed = true
		cd.Confirmed = false
		return cd, nil
	}

	form, cmd := cd.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		cd.form = f
	}
	if cd.form.State == huh.StateCompleted {
		cd.Completed = true
	}
	return cd, cmd
}

func (cd *ConfirmDialog) View() string {
	return cd.form.View()
}
