package checkins

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/constants"
	"github.com/hearth-planner/hearth/internal/models"
)

type CheckinCmd struct {
	ActivityID string `arg:"" help:"Habit activity to check in."`
	Status     string `short:"s" help:"Check-in status (done|missed|skipped)." default:"done"`
	Date       string `short:"d" help:"Local date (YYYY-MM-DD), defaults to today."`
}

func (c *CheckinCmd) Validate() error {
	switch models.CheckinStatus(c.Status) {
	case models.CheckinDone, models.CheckinMissed, models.CheckinSkipped:
		return nil
	}
	return fmt.Errorf("invalid check-in status: %s", c.Status)
}

func (c *CheckinCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	activity, err := ctx.Store.GetActivity(c.ActivityID)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}

	date, err := cli.ParseDateFlag(c.Date)
	if err != nil {
		return err
	}

	record := models.CheckinRecord{
		ID:         uuid.NewString(),
		OwnerID:    ctx.Owner,
		ActivityID: activity.ID,
		LocalDate:  date.Format(constants.DateFormat),
		Status:     models.CheckinStatus(c.Status),
		CreatedAt:  time.Now().UTC(),
	}
	if err := ctx.Store.AddCheckin(record); err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}

	fmt.Printf("Checked in %q as %s for %s\n", activity.Title, record.Status, record.LocalDate)
	return nil
}
