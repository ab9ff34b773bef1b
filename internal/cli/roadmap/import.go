package roadmap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/models"
)

// importFile is the on-disk exchange format for a roadmap export: flat lists
// of every hierarchy level, items carrying RFC3339 timestamps.
type importFile struct {
	Projects  []models.Project     `json:"projects"`
	Tracks    []models.Track       `json:"tracks"`
	Subtracks []models.Subtrack    `json:"subtracks"`
	Items     []models.RoadmapItem `json:"items"`
}

type ImportCmd struct {
	File string `arg:"" help:"Path to a roadmap JSON export."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read roadmap file: %w", err)
	}

	var file importFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse roadmap file: %w", err)
	}
	if len(file.Projects) == 0 {
		return fmt.Errorf("roadmap file contains no projects")
	}

	for _, project := range file.Projects {
		if project.ID == "" {
			return fmt.Errorf("project without id in roadmap file")
		}
		if err := ctx.Store.AddRoadmapProject(ctx.Owner, project); err != nil {
			return fmt.Errorf("failed to import project %s: %w", project.ID, err)
		}
	}
	for _, track := range file.Tracks {
		if err := ctx.Store.AddRoadmapTrack(track); err != nil {
			return fmt.Errorf("failed to import track %s: %w", track.ID, err)
		}
	}
	for _, subtrack := range file.Subtracks {
		if err := ctx.Store.AddRoadmapSubtrack(subtrack); err != nil {
			return fmt.Errorf("failed to import subtrack %s: %w", subtrack.ID, err)
		}
	}
	for _, item := range file.Items {
		if err := ctx.Store.AddRoadmapItem(item); err != nil {
			return fmt.Errorf("failed to import item %s: %w", item.ID, err)
		}
	}

	fmt.Printf("Imported %d project(s), %d track(s), %d subtrack(s), %d item(s)\n",
		len(file.Projects), len(file.Tracks), len(file.Subtracks), len(file.Items))
	return nil
}
