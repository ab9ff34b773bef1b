package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case stateConfirm:
		return docStyle.Render(m.form.View())
	case stateResult:
		return docStyle.Render(m.viewResult())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Calendar sync selection"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("No roadmap data. Import a roadmap first."))
		b.WriteString("\n")
	}

	for i, r := range m.visible {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		marker := "  "
		if !r.isLeaf {
			if r.expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		line := fmt.Sprintf("%s%s%s%s %s",
			cursor,
			strings.Repeat("  ", r.depth),
			marker,
			m.checkbox(r),
			r.title,
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

// checkbox renders the node's tri-state: [x] fully selected, [~] partially,
// [ ] none.
func (m Model) checkbox(r *row) string {
	state := m.tree.NodeState(r.path)
	switch {
	case state.Selected && !state.Indeterminate:
		return selectedStyle.Render("[x]")
	case state.Indeterminate:
		return partialStyle.Render("[~]")
	default:
		return "[ ]"
	}
}

func (m Model) viewResult() string {
	var b strings.Builder

	if m.commitErr != nil {
		b.WriteString(errorStyle.Render("Sync failed"))
		b.WriteString("\n\n")
		b.WriteString(m.commitErr.Error())
		b.WriteString("\n")
	} else {
		b.WriteString(titleStyle.Render("Sync complete"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Synced: %d  Unsynced: %d\n", len(m.result.Synced), len(m.result.Unsynced)))
		if len(m.result.ItemErrors) > 0 {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("%d item(s) failed:", len(m.result.ItemErrors))))
			b.WriteString("\n")
			for id, err := range m.result.ItemErrors {
				b.WriteString(fmt.Sprintf("  %s: %v\n", id, err))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to exit."))
	return b.String()
}
