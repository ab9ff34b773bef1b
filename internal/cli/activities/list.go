package activities

import (
	"fmt"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/storage"
)

type ListCmd struct {
	Type    string `short:"t" help:"Show only activities of this type."`
	All     bool   `help:"Include archived activities."`
	ShowIDs bool   `help:"Show activity IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	filter := storage.ActivityFilter{Type: models.ActivityType(c.Type)}
	activities, err := ctx.Store.GetActivitiesByOwner(ctx.Owner, filter)
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}
	if len(activities) == 0 {
		fmt.Println("No activities found")
		return nil
	}

	fmt.Println("Activities:")
	for _, activity := range activities {
		if !c.All && activity.Status == models.StatusArchived {
			continue
		}

		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", activity.ID)
		}

		fmt.Printf("  [%s] %s%s (%s)\n", activity.Status, activity.Title, idStr, activity.Type)
		if activity.Description != "" {
			fmt.Printf("      %s\n", activity.Description)
		}
	}
	return nil
}
