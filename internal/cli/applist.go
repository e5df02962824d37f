// Package cli holds the interactive terminal pickers.
package cli

import (
	"fmt"

	"github.com/appconf/appconf/internal/model"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

// AppListItem represents an app entry for selection.
type AppListItem struct {
	App model.AppItem
}

func (a AppListItem) Title() string {
	return a.App.Name
}

func (a AppListItem) Description() string {
	return fmt.Sprintf("%s/%s@%s", a.App.RepoID, a.App.Path, a.App.Branch)
}

func (a AppListItem) FilterValue() string {
	return a.App.Name
}

// AppListModel is a Bubbletea model for selecting an app from the registry.
type AppListModel struct {
	list     list.Model
	selected *AppListItem
	quitting bool
}

// Init initializes the model.
func (m AppListModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m AppListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch keyMsg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(keyMsg.Width-h, keyMsg.Height-v)

		return m, nil

	case tea.KeyMsg:
		switch keyMsg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			i, ok := m.list.SelectedItem().(AppListItem)
			if ok {
				m.selected = &i
			}

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// View renders the model.
func (m AppListModel) View() string {
	if m.quitting {
		return ""
	}

	return docStyle.Render(m.list.View())
}

// GetSelectedApp returns the chosen app or nil if the picker was dismissed.
func (m AppListModel) GetSelectedApp() *AppListItem {
	return m.selected
}

// NewAppList creates an app selection model over the registry entries.
func NewAppList(apps []model.AppItem) (AppListModel, error) {
	if len(apps) == 0 {
		return AppListModel{}, fmt.Errorf("no apps registered, add one with: appconf apps add")
	}

	items := make([]list.Item, len(apps))
	for i, app := range apps {
		items[i] = AppListItem{App: app}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select App"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return AppListModel{list: l}, nil
}
