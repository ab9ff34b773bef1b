package selectsync

import (
	"errors"
	"testing"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
	"github.com/hearth-planner/hearth/internal/projection"
	"github.com/hearth-planner/hearth/internal/selection"
	"github.com/hearth-planner/hearth/internal/storage"
)

type fakeSyncStore struct {
	entries map[models.SyncKey]models.SyncEntry
}

func newFakeSyncStore() *fakeSyncStore {
	return &fakeSyncStore{entries: make(map[models.SyncKey]models.SyncEntry)}
}

func (f *fakeSyncStore) GetSyncEntries(ownerID string) ([]models.SyncEntry, error) {
	var out []models.SyncEntry
	for _, entry := range f.entries {
		if entry.OwnerID == ownerID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeSyncStore) UpsertSyncEntries(entries []models.SyncEntry) error {
	for _, entry := range entries {
		key := entry.Key()
		if existing, ok := f.entries[key]; ok {
			entry.ID = existing.ID
		}
		f.entries[key] = entry
	}
	return nil
}

func (f *fakeSyncStore) DeleteSyncEntries(ownerID string, keys []models.SyncKey) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

type fakeHierarchy struct {
	items []models.RoadmapItem
}

func (f *fakeHierarchy) GetProjects(ownerID string) ([]models.Project, error)   { return nil, nil }
func (f *fakeHierarchy) GetTracks(projectID string) ([]models.Track, error)     { return nil, nil }
func (f *fakeHierarchy) GetSubtracks(trackID string) ([]models.Subtrack, error) { return nil, nil }

func (f *fakeHierarchy) GetItemsInScope(ownerID string, scope models.SyncKey) ([]models.RoadmapItem, error) {
	var out []models.RoadmapItem
	for _, item := range f.items {
		if item.ProjectID != scope.ProjectID {
			continue
		}
		if scope.TrackID != "" && item.TrackID != scope.TrackID {
			continue
		}
		if scope.SubtrackID != "" && item.SubtrackID != scope.SubtrackID {
			continue
		}
		if scope.ItemID != "" && item.ID != scope.ItemID {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type fakeProjectionStore struct {
	rows     map[string]models.Projection
	failFor  string
	failWith error
}

func newFakeProjectionStore() *fakeProjectionStore {
	return &fakeProjectionStore{rows: make(map[string]models.Projection)}
}

func (f *fakeProjectionStore) GetActiveProjection(activityID, ownerID string) (models.Projection, error) {
	return models.Projection{}, storage.ErrNotFound
}

func (f *fakeProjectionStore) GetProjectionBySource(ownerID, sourceEntityID string) (models.Projection, error) {
	for _, row := range f.rows {
		if row.SourceEntityID == sourceEntityID && row.OwnerID == ownerID {
			return row, nil
		}
	}
	return models.Projection{}, storage.ErrNotFound
}

func (f *fakeProjectionStore) GetProjectionsForActivity(ownerID, activityID string) ([]models.Projection, error) {
	return nil, nil
}

func (f *fakeProjectionStore) GetActiveProjectionsInRange(ownerID string, rangeStart, rangeEnd time.Time) ([]models.Projection, error) {
	return nil, nil
}

func (f *fakeProjectionStore) AddProjection(row models.Projection) error {
	if f.failFor != "" && row.SourceEntityID == f.failFor {
		return f.failWith
	}
	f.rows[row.ID] = row
	return nil
}

func (f *fakeProjectionStore) UpdateProjection(row models.Projection) error {
	f.rows[row.ID] = row
	return nil
}

func (f *fakeProjectionStore) DeleteProjection(id string) error {
	delete(f.rows, id)
	return nil
}

func ptr(t time.Time) *time.Time { return &t }

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testItems() []models.RoadmapItem {
	return []models.RoadmapItem{
		{ID: "item-1", ProjectID: "proj-1", TrackID: "track-1", Title: "Pour foundation", StartAt: ptr(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "item-2", ProjectID: "proj-1", TrackID: "track-1", Title: "Frame walls", StartAt: ptr(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))},
		{ID: "item-3", ProjectID: "proj-1", TrackID: "track-2", Title: "Pick paint"}, // undated
	}
}

func testTree() *selection.Tree {
	tree := selection.NewTree()
	for _, item := range testItems() {
		tree.RegisterLeaf(selection.Path{ProjectID: item.ProjectID, TrackID: item.TrackID, ItemID: item.ID})
	}
	return tree
}

func newReconciler(syncs *fakeSyncStore, projections *fakeProjectionStore) *Reconciler {
	projector := projection.New(projections).WithClock(fixedClock)
	return New(syncs, &fakeHierarchy{items: testItems()}, projections, projector).WithClock(fixedClock)
}

func TestDiff_Minimality(t *testing.T) {
	tree := testTree()
	persisted := []models.SyncEntry{
		{OwnerID: "owner-1", ProjectID: "proj-1", TrackID: "track-1", ItemID: "item-1"},
		{OwnerID: "owner-1", ProjectID: "proj-1", TrackID: "track-1", ItemID: "item-2"},
	}
	tree.ApplySyncEntries(persisted)

	// Only item-2 flips to unselected.
	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1", ItemID: "item-2"}, false)

	toSync, toUnsync := Diff(tree, persisted)
	if len(toSync) != 0 {
		t.Errorf("Expected empty toSync, got %v", toSync)
	}
	if len(toUnsync) != 1 || toUnsync[0].ItemID != "item-2" {
		t.Errorf("Expected toUnsync to contain only item-2, got %v", toUnsync)
	}
}

func TestCommit_MaterializesDatedItems(t *testing.T) {
	syncs := newFakeSyncStore()
	projections := newFakeProjectionStore()
	rec := newReconciler(syncs, projections)

	tree := testTree()
	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1"}, true)

	result, err := rec.Commit("owner-1", tree)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if len(result.ItemErrors) != 0 {
		t.Errorf("Expected no item errors, got %v", result.ItemErrors)
	}
	// track-1 plus its two leaves were fully selected.
	if len(result.Synced) != 3 {
		t.Errorf("Expected 3 synced keys, got %d", len(result.Synced))
	}
	// Both dated items projected exactly once despite overlapping scopes.
	if len(projections.rows) != 2 {
		t.Errorf("Expected 2 projections, got %d", len(projections.rows))
	}
}

func TestCommit_Idempotent(t *testing.T) {
	syncs := newFakeSyncStore()
	projections := newFakeProjectionStore()
	rec := newReconciler(syncs, projections)

	tree := testTree()
	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1"}, true)

	if _, err := rec.Commit("owner-1", tree); err != nil {
		t.Fatalf("First commit failed: %v", err)
	}
	result, err := rec.Commit("owner-1", tree)
	if err != nil {
		t.Fatalf("Second commit failed: %v", err)
	}
	if len(result.Synced) != 0 || len(result.Unsynced) != 0 {
		t.Errorf("Expected second commit to be a no-op, got %+v", result)
	}
	if len(projections.rows) != 2 {
		t.Errorf("Expected projection count unchanged, got %d", len(projections.rows))
	}
}

func TestCommit_UnsyncRemovesEntryAndProjections(t *testing.T) {
	syncs := newFakeSyncStore()
	projections := newFakeProjectionStore()
	rec := newReconciler(syncs, projections)

	tree := testTree()
	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1"}, true)
	if _, err := rec.Commit("owner-1", tree); err != nil {
		t.Fatalf("Setup commit failed: %v", err)
	}

	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1"}, false)
	result, err := rec.Commit("owner-1", tree)
	if err != nil {
		t.Fatalf("Unsync commit failed: %v", err)
	}
	if len(result.Unsynced) != 3 {
		t.Errorf("Expected 3 unsynced keys, got %d", len(result.Unsynced))
	}
	if len(syncs.entries) != 0 {
		t.Errorf("Expected all sync entries removed, got %d", len(syncs.entries))
	}
	if len(projections.rows) != 0 {
		t.Errorf("Expected all projections removed, got %d", len(projections.rows))
	}
}

func TestCommit_LeafDeselectKeepsSiblingProjections(t *testing.T) {
	syncs := newFakeSyncStore()
	projections := newFakeProjectionStore()
	rec := newReconciler(syncs, projections)

	tree := testTree()
	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1"}, true)
	if _, err := rec.Commit("owner-1", tree); err != nil {
		t.Fatalf("Setup commit failed: %v", err)
	}

	// Fresh session: rebuild the tree from persisted truth, then drop a
	// single leaf. The track entry goes indeterminate and unsyncs, but
	// item-2's own entry survives.
	persisted, err := syncs.GetSyncEntries("owner-1")
	if err != nil {
		t.Fatalf("Failed to reload sync entries: %v", err)
	}
	tree = testTree()
	tree.ApplySyncEntries(persisted)
	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1", ItemID: "item-1"}, false)

	result, err := rec.Commit("owner-1", tree)
	if err != nil {
		t.Fatalf("Deselect commit failed: %v", err)
	}
	if len(result.ItemErrors) != 0 {
		t.Errorf("Expected no item errors, got %v", result.ItemErrors)
	}
	// item-1's entry and the now-indeterminate track entry unsync.
	if len(result.Unsynced) != 2 {
		t.Errorf("Expected 2 unsynced keys, got %v", result.Unsynced)
	}

	item1Key := models.SyncKey{ProjectID: "proj-1", TrackID: "track-1", ItemID: "item-1"}
	if _, ok := syncs.entries[item1Key]; ok {
		t.Error("Expected item-1 sync entry removed")
	}
	if _, err := projections.GetProjectionBySource("owner-1", "item-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected item-1 projection removed, got %v", err)
	}

	item2Key := models.SyncKey{ProjectID: "proj-1", TrackID: "track-1", ItemID: "item-2"}
	if _, ok := syncs.entries[item2Key]; !ok {
		t.Error("Expected item-2 sync entry to survive")
	}
	if _, err := projections.GetProjectionBySource("owner-1", "item-2"); err != nil {
		t.Errorf("Expected item-2 projection to survive its entry, got %v", err)
	}

	trackKey := models.SyncKey{ProjectID: "proj-1", TrackID: "track-1"}
	if _, ok := syncs.entries[trackKey]; ok {
		t.Error("Expected indeterminate track entry removed")
	}
}

func TestCommit_PartialFailureKeepsSiblings(t *testing.T) {
	syncs := newFakeSyncStore()
	projections := newFakeProjectionStore()
	projections.failFor = "item-2"
	projections.failWith = errors.New("insert rejected")
	rec := newReconciler(syncs, projections)

	tree := testTree()
	tree.Toggle(selection.Path{ProjectID: "proj-1", TrackID: "track-1"}, true)

	result, err := rec.Commit("owner-1", tree)
	if err != nil {
		t.Fatalf("Commit failed outright, expected per-item capture: %v", err)
	}
	if _, ok := result.ItemErrors["item-2"]; !ok {
		t.Errorf("Expected item-2 failure captured, got %v", result.ItemErrors)
	}
	if len(projections.rows) != 1 {
		t.Errorf("Expected surviving sibling projection, got %d rows", len(projections.rows))
	}
}
