package sync

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/projection"
	"github.com/hearth-planner/hearth/internal/selectsync"
	"github.com/hearth-planner/hearth/internal/tui"
)

// SyncCmd launches the interactive selection-tree picker over the imported
// roadmap and commits the resulting selection.
type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	reconciler := selectsync.New(ctx.Store, ctx.Store, ctx.Store, projection.New(ctx.Store))
	model, err := tui.NewModel(ctx.Store, reconciler, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to build sync picker: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("sync picker failed: %w", err)
	}
	return nil
}
