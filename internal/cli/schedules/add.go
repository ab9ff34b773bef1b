package schedules

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/constants"
	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/projection"
	"github.com/hearth-planner/hearth/internal/validation"
)

type AddCmd struct {
	ActivityID string `arg:"" help:"Activity the schedule belongs to."`
	Type       string `short:"t" help:"Schedule type (single|recurring|deadline|time_block)." default:"single"`
	Start      string `short:"s" help:"Start time (YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)." required:""`
	End        string `short:"e" help:"End time. Not allowed for deadlines."`
	Rule       string `short:"r" help:"Recurrence rule for recurring schedules (e.g. FREQ=WEEKLY;INTERVAL=2;COUNT=10)."`
	Timezone   string `help:"IANA timezone for local dates." default:"${default_timezone}"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	activity, err := ctx.Store.GetActivity(c.ActivityID)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}

	startAt, err := cli.ParseTimeFlag(c.Start)
	if err != nil {
		return err
	}
	endAt, err := cli.ParseTimeFlag(c.End)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	schedule := models.ActivitySchedule{
		ID:             uuid.NewString(),
		ActivityID:     activity.ID,
		ScheduleType:   models.ScheduleType(c.Type),
		StartAt:        startAt,
		EndAt:          endAt,
		RecurrenceRule: c.Rule,
		Timezone:       c.Timezone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if schedule.Timezone == "" {
		schedule.Timezone = constants.DefaultTimezone
	}

	result := validation.New().ValidateSchedule(schedule)
	if result.HasIssues() {
		return fmt.Errorf("invalid schedule:\n%s", result.FormatReport())
	}

	if err := ctx.Store.AddSchedule(schedule); err != nil {
		return fmt.Errorf("failed to add schedule: %w", err)
	}

	// Refresh the activity's calendar rows so the new schedule shows up
	// immediately.
	allSchedules, err := ctx.Store.GetSchedulesForActivity(activity.ID)
	if err != nil {
		return fmt.Errorf("failed to get schedules: %w", err)
	}
	if _, err := projection.New(ctx.Store).ProjectMany(ctx.Owner, activity, allSchedules); err != nil {
		return fmt.Errorf("failed to project schedule: %w", err)
	}

	fmt.Printf("Added %s schedule for %q (ID: %s)\n", schedule.ScheduleType, activity.Title, schedule.ID)
	return nil
}
