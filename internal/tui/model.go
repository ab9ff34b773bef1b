package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/selection"
	"github.com/hearth-planner/hearth/internal/selectsync"
	"github.com/hearth-planner/hearth/internal/storage"
)

type sessionState int

const (
	stateBrowse sessionState = iota
	stateConfirm
	stateResult
)

// row is one line of the picker: a node in the roadmap hierarchy with its
// display metadata. Selection state lives in the tree, not here.
type row struct {
	path     selection.Path
	title    string
	depth    int
	isLeaf   bool
	expanded bool
	children []*row
}

type Model struct {
	store      storage.Provider
	reconciler *selectsync.Reconciler
	ownerID    string

	tree    *selection.Tree
	roots   []*row
	visible []*row
	cursor  int

	state     sessionState
	form      *huh.Form
	confirmed bool

	keys KeyMap
	help help.Model

	result    selectsync.CommitResult
	commitErr error

	quitting bool
	width    int
	height   int
}

// NewModel loads the owner's roadmap hierarchy and persisted sync entries and
// builds the picker over them.
func NewModel(store storage.Provider, reconciler *selectsync.Reconciler, ownerID string) (Model, error) {
	m := Model{
		store:      store,
		reconciler: reconciler,
		ownerID:    ownerID,
		tree:       selection.NewTree(),
		state:      stateBrowse,
		keys:       DefaultKeyMap(),
		help:       help.New(),
	}

	projects, err := store.GetProjects(ownerID)
	if err != nil {
		return m, fmt.Errorf("failed to load projects: %w", err)
	}

	for _, project := range projects {
		projectRow := &row{
			path:     selection.Path{ProjectID: project.ID},
			title:    project.Title,
			depth:    0,
			expanded: true,
		}

		items, err := store.GetItemsInScope(ownerID, models.SyncKey{ProjectID: project.ID})
		if err != nil {
			return m, fmt.Errorf("failed to load items for project %s: %w", project.ID, err)
		}

		tracks, err := store.GetTracks(project.ID)
		if err != nil {
			return m, fmt.Errorf("failed to load tracks for project %s: %w", project.ID, err)
		}

		// Items hanging directly off the project, no track.
		for _, item := range items {
			if item.TrackID != "" {
				continue
			}
			projectRow.children = append(projectRow.children, m.leafRow(project.ID, item, 1))
		}

		for _, track := range tracks {
			trackRow := &row{
				path:     selection.Path{ProjectID: project.ID, TrackID: track.ID},
				title:    track.Title,
				depth:    1,
				expanded: true,
			}

			for _, item := range items {
				if item.TrackID != track.ID || item.SubtrackID != "" {
					continue
				}
				trackRow.children = append(trackRow.children, m.leafRow(project.ID, item, 2))
			}

			subtracks, err := store.GetSubtracks(track.ID)
			if err != nil {
				return m, fmt.Errorf("failed to load subtracks for track %s: %w", track.ID, err)
			}
			for _, subtrack := range subtracks {
				subtrackRow := &row{
					path:     selection.Path{ProjectID: project.ID, TrackID: track.ID, SubtrackID: subtrack.ID},
					title:    subtrack.Title,
					depth:    2,
					expanded: true,
				}
				for _, item := range items {
					if item.TrackID != track.ID || item.SubtrackID != subtrack.ID {
						continue
					}
					subtrackRow.children = append(subtrackRow.children, m.leafRow(project.ID, item, 3))
				}
				trackRow.children = append(trackRow.children, subtrackRow)
			}

			projectRow.children = append(projectRow.children, trackRow)
		}

		m.roots = append(m.roots, projectRow)
	}

	entries, err := store.GetSyncEntries(ownerID)
	if err != nil {
		return m, fmt.Errorf("failed to load sync entries: %w", err)
	}
	m.tree.ApplySyncEntries(entries)

	m.flatten()
	return m, nil
}

func (m *Model) leafRow(projectID string, item models.RoadmapItem, depth int) *row {
	path := selection.Path{
		ProjectID:  projectID,
		TrackID:    item.TrackID,
		SubtrackID: item.SubtrackID,
		ItemID:     item.ID,
	}
	m.tree.RegisterLeaf(path)
	return &row{path: path, title: item.Title, depth: depth, isLeaf: true}
}

// flatten rebuilds the visible row list honoring collapsed subtrees.
func (m *Model) flatten() {
	m.visible = m.visible[:0]
	var visit func(*row)
	visit = func(r *row) {
		m.visible = append(m.visible, r)
		if !r.expanded {
			return
		}
		for _, child := range r.children {
			visit(child)
		}
	}
	for _, root := range m.roots {
		visit(root)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}
