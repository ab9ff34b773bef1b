package calendar

import (
	"fmt"
	"time"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/constants"
	"github.com/hearth-planner/hearth/internal/extras"
)

type CalendarCmd struct {
	From string `short:"f" help:"Range start date (YYYY-MM-DD), defaults to today."`
	Days int    `short:"n" help:"Number of days to show." default:"${default_calendar_days}"`
}

func (c *CalendarCmd) Validate() error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	return nil
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	rangeStart, err := cli.ParseDateFlag(c.From)
	if err != nil {
		return err
	}
	rangeEnd := rangeStart.AddDate(0, 0, c.Days).Add(-time.Second)

	projections, err := ctx.Store.GetActiveProjectionsInRange(ctx.Owner, rangeStart, rangeEnd)
	if err != nil {
		return fmt.Errorf("failed to get calendar entries: %w", err)
	}

	progress := extras.NewMetadataProgress(ctx.Store)
	aggregator := extras.New(ctx.Store, ctx.Store, ctx.Store, progress)
	overlay, err := aggregator.GetExtras(ctx.Owner, rangeStart, rangeEnd)
	if err != nil {
		return fmt.Errorf("failed to get calendar extras: %w", err)
	}

	fmt.Printf("Calendar %s - %s\n", rangeStart.Format(constants.DateFormat), rangeEnd.Format(constants.DateFormat))
	fmt.Println()

	if len(projections) == 0 {
		fmt.Println("No scheduled entries")
	} else {
		fmt.Println("Scheduled:")
		for _, p := range projections {
			fmt.Printf("  %s  %s (%s)\n", cli.FormatTimeRange(p.StartAt, p.EndAt, p.AllDay), p.Title, p.EventType)
		}
	}

	if len(overlay.HabitInstances) > 0 {
		fmt.Println()
		fmt.Println("Habits:")
		for _, h := range overlay.HabitInstances {
			fmt.Printf("  %s  %s [%s]\n", h.LocalDate, h.Title, h.Status)
		}
	}

	if len(overlay.GoalDeadlines) > 0 {
		fmt.Println()
		fmt.Println("Goal deadlines:")
		for _, g := range overlay.GoalDeadlines {
			fmt.Printf("  %s  %s (%.0f%% complete)\n", g.LocalDate, g.Title, g.Progress*100)
		}
	}

	return nil
}
