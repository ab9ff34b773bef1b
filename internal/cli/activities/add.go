package activities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/models"
)

type AddCmd struct {
	Title       string `arg:"" help:"Activity title."`
	Type        string `short:"t" help:"Activity type (habit|goal|task|meeting|meal|reminder|time_block|appointment|milestone|travel_segment|event)." default:"task"`
	Description string `short:"d" help:"Optional description."`
}

func (c *AddCmd) Validate() error {
	switch models.ActivityType(c.Type) {
	case models.ActivityHabit, models.ActivityGoal, models.ActivityTask,
		models.ActivityMeeting, models.ActivityMeal, models.ActivityReminder,
		models.ActivityTimeBlock, models.ActivityAppointment, models.ActivityMilestone,
		models.ActivityTravelSegment, models.ActivityEvent:
		return nil
	}
	return fmt.Errorf("invalid activity type: %s", c.Type)
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	now := time.Now().UTC()
	activity := models.Activity{
		ID:          uuid.NewString(),
		Type:        models.ActivityType(c.Type),
		Title:       c.Title,
		Description: c.Description,
		OwnerID:     ctx.Owner,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := ctx.Store.AddActivity(activity); err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}

	fmt.Printf("Added %s %q (ID: %s)\n", activity.Type, activity.Title, activity.ID)
	return nil
}
