package activities

import (
	"fmt"
	"time"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/projection"
)

type ArchiveCmd struct {
	ID string `arg:"" help:"Activity ID to archive."`
}

func (c *ArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	activity, err := ctx.Store.GetActivity(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}
	if activity.Status == models.StatusArchived {
		fmt.Printf("Activity %q is already archived\n", activity.Title)
		return nil
	}

	activity.SetStatus(models.StatusArchived, time.Now().UTC())
	if err := ctx.Store.UpdateActivity(activity); err != nil {
		return fmt.Errorf("failed to archive activity: %w", err)
	}

	// Archived activities leave the calendar but keep their rows so a
	// restore brings back exactly what was hidden.
	if err := projection.New(ctx.Store).HideAll(ctx.Owner, activity.ID); err != nil {
		return fmt.Errorf("failed to hide projections: %w", err)
	}

	fmt.Printf("Archived %q\n", activity.Title)
	return nil
}
