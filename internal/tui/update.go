package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hearth-planner/hearth/internal/selectsync"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
	}

	switch m.state {
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateResult:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Toggle):
		if len(m.visible) > 0 {
			current := m.visible[m.cursor]
			m.tree.Toggle(current.path, !m.tree.IsSelected(current.path))
		}

	case key.Matches(keyMsg, m.keys.Expand):
		if len(m.visible) > 0 {
			current := m.visible[m.cursor]
			if !current.isLeaf {
				current.expanded = !current.expanded
				m.flatten()
			}
		}

	case key.Matches(keyMsg, m.keys.Commit):
		return m.enterConfirm()
	}

	return m, nil
}

func (m Model) enterConfirm() (tea.Model, tea.Cmd) {
	persisted, err := m.store.GetSyncEntries(m.ownerID)
	if err != nil {
		m.commitErr = fmt.Errorf("failed to load sync entries: %w", err)
		m.state = stateResult
		return m, nil
	}
	toSync, toUnsync := selectsync.Diff(m.tree, persisted)
	if len(toSync) == 0 && len(toUnsync) == 0 {
		// Nothing changed; skip the confirm round-trip.
		m.state = stateResult
		return m, nil
	}

	m.confirmed = false
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Apply selection? %d to sync, %d to unsync", len(toSync), len(toUnsync))).
			Affirmative("Apply").
			Negative("Cancel").
			Value(&m.confirmed),
	))
	m.state = stateConfirm
	return m, m.form.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stateBrowse
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if !m.confirmed {
			m.state = stateBrowse
			return m, nil
		}
		m.result, m.commitErr = m.reconciler.Commit(m.ownerID, m.tree)
		m.state = stateResult
		return m, nil
	case huh.StateAborted:
		m.state = stateBrowse
		return m, nil
	}

	return m, cmd
}
