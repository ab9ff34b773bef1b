package selectsync

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/projection"
	"github.com/hearth-planner/hearth/internal/selection"
	"github.com/hearth-planner/hearth/internal/storage"
)

// Reconciler commits a selection tree: it diffs the tree's fully-selected
// nodes against the persisted sync entries, upserts and deletes entries to
// match, and materializes or removes the projected calendar rows behind them.
type Reconciler struct {
	syncs       storage.SyncEntryStore
	hierarchy   storage.HierarchySource
	projections storage.ProjectionStore
	projector   *projection.Reconciler
	clock       func() time.Time
}

func New(syncs storage.SyncEntryStore, hierarchy storage.HierarchySource, projections storage.ProjectionStore, projector *projection.Reconciler) *Reconciler {
	return &Reconciler{
		syncs:       syncs,
		hierarchy:   hierarchy,
		projections: projections,
		projector:   projector,
		clock:       time.Now,
	}
}

func (r *Reconciler) WithClock(clock func() time.Time) *Reconciler {
	r.clock = clock
	return r
}

// CommitResult reports what a commit touched. ItemErrors carries per-item
// materialization failures; successful siblings are kept, not rolled back.
type CommitResult struct {
	Synced     []models.SyncKey
	Unsynced   []models.SyncKey
	ItemErrors map[string]error
}

// Diff computes the minimal add/remove set between the tree's fully-selected
// nodes and the previously persisted entries. Partially-selected internal
// nodes never sync as a unit, so they appear in neither set.
func Diff(tree *selection.Tree, persisted []models.SyncEntry) (toSync, toUnsync []models.SyncKey) {
	persistedKeys := make(map[models.SyncKey]bool, len(persisted))
	for _, entry := range persisted {
		persistedKeys[entry.Key()] = true
	}

	for _, path := range tree.SelectedNodes() {
		if !persistedKeys[path.SyncKey()] {
			toSync = append(toSync, path.SyncKey())
		}
	}
	for _, entry := range persisted {
		if !tree.IsSelected(selection.PathFromSyncKey(entry.Key())) {
			toUnsync = append(toUnsync, entry.Key())
		}
	}
	return toSync, toUnsync
}

// Commit applies the diff between tree and the owner's persisted entries.
// Sync-entry writes complete before any dependent projection work. A failed
// commit applies what it can; every write involved is idempotent, so callers
// retry by committing again.
func (r *Reconciler) Commit(ownerID string, tree *selection.Tree) (CommitResult, error) {
	result := CommitResult{ItemErrors: make(map[string]error)}

	persisted, err := r.syncs.GetSyncEntries(ownerID)
	if err != nil {
		return result, fmt.Errorf("failed to load sync entries: %w", err)
	}
	toSync, toUnsync := Diff(tree, persisted)

	if len(toSync) > 0 {
		now := r.clock()
		entries := make([]models.SyncEntry, 0, len(toSync))
		for _, key := range toSync {
			entries = append(entries, models.SyncEntry{
				ID:         uuid.NewString(),
				OwnerID:    ownerID,
				ProjectID:  key.ProjectID,
				TrackID:    key.TrackID,
				SubtrackID: key.SubtrackID,
				ItemID:     key.ItemID,
				CreatedAt:  now,
			})
		}
		if err := r.syncs.UpsertSyncEntries(entries); err != nil {
			return result, fmt.Errorf("failed to upsert sync entries: %w", err)
		}
		result.Synced = toSync

		for _, key := range toSync {
			r.materialize(ownerID, key, &result)
		}
	}

	// An unsynced internal-granularity key can overlap leaves that remain
	// selected: deselecting one item turns its track entry indeterminate,
	// but the sibling items' own entries survive. Those siblings keep
	// their projections.
	covered := coveredItems(tree)
	for _, key := range toUnsync {
		if err := r.syncs.DeleteSyncEntries(ownerID, []models.SyncKey{key}); err != nil {
			result.ItemErrors[keyLabel(key)] = fmt.Errorf("failed to delete sync entry: %w", err)
			continue
		}
		result.Unsynced = append(result.Unsynced, key)
		r.removeProjections(ownerID, key, covered, &result)
	}

	return result, nil
}

// materialize resolves a committed key to its dated items and projects each
// one, skipping undated items and capturing failures per item.
func (r *Reconciler) materialize(ownerID string, key models.SyncKey, result *CommitResult) {
	items, err := r.hierarchy.GetItemsInScope(ownerID, key)
	if err != nil {
		result.ItemErrors[keyLabel(key)] = fmt.Errorf("failed to resolve items: %w", err)
		return
	}
	for _, item := range items {
		if !item.Dated() {
			continue
		}
		if _, err := r.projector.ProjectItem(ownerID, item); err != nil {
			result.ItemErrors[item.ID] = err
		}
	}
}

// coveredItems collects the item IDs of every leaf the tree still selects.
// A sync entry and its projection must live and die together per item, so
// projection removal consults this set rather than raw key scopes.
func coveredItems(tree *selection.Tree) map[string]bool {
	covered := make(map[string]bool)
	for _, path := range tree.SelectedNodes() {
		if path.ItemID != "" {
			covered[path.ItemID] = true
		}
	}
	return covered
}

func (r *Reconciler) removeProjections(ownerID string, key models.SyncKey, keep map[string]bool, result *CommitResult) {
	items, err := r.hierarchy.GetItemsInScope(ownerID, key)
	if err != nil {
		result.ItemErrors[keyLabel(key)] = fmt.Errorf("failed to resolve items: %w", err)
		return
	}
	for _, item := range items {
		if keep[item.ID] {
			continue
		}
		row, err := r.projections.GetProjectionBySource(ownerID, item.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			result.ItemErrors[item.ID] = err
			continue
		}
		if err := r.projections.DeleteProjection(row.ID); err != nil {
			result.ItemErrors[item.ID] = err
		}
	}
}

func keyLabel(key models.SyncKey) string {
	return selection.PathFromSyncKey(key).Key()
}
