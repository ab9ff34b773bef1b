package activities

import (
	"fmt"
	"time"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/projection"
)

type RestoreCmd struct {
	ID string `arg:"" help:"Activity ID to restore."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	activity, err := ctx.Store.GetActivity(c.ID)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}
	if activity.Status != models.StatusArchived {
		fmt.Printf("Activity %q is not archived\n", activity.Title)
		return nil
	}

	activity.SetStatus(models.StatusActive, time.Now().UTC())
	if err := ctx.Store.UpdateActivity(activity); err != nil {
		return fmt.Errorf("failed to restore activity: %w", err)
	}

	if err := projection.New(ctx.Store).RestoreAll(ctx.Owner, activity.ID); err != nil {
		return fmt.Errorf("failed to restore projections: %w", err)
	}

	fmt.Printf("Restored %q\n", activity.Title)
	return nil
}
