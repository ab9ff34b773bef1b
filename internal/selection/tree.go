package selection

import (
	"strings"

	"github.com/hearth-planner/hearth/internal/models"
)

// Path addresses one node in the project/track/subtrack/item hierarchy.
// Empty trailing fields mean the path stops at a higher level; an item may
// hang directly off a track or a project when the middle levels are unused.
type Path struct {
	ProjectID  string
	TrackID    string
	SubtrackID string
	ItemID     string
}

// Key returns the composite map key for the path. Empty segments are kept so
// sibling levels can never collide.
func (p Path) Key() string {
	return strings.Join([]string{p.ProjectID, p.TrackID, p.SubtrackID, p.ItemID}, "/")
}

// Parent returns the path one level up, or false at the project level.
func (p Path) Parent() (Path, bool) {
	switch {
	case p.ItemID != "":
		return Path{ProjectID: p.ProjectID, TrackID: p.TrackID, SubtrackID: p.SubtrackID}, true
	case p.SubtrackID != "":
		return Path{ProjectID: p.ProjectID, TrackID: p.TrackID}, true
	case p.TrackID != "":
		return Path{ProjectID: p.ProjectID}, true
	default:
		return Path{}, false
	}
}

// SyncKey converts the path into the persisted sync-entry key shape.
func (p Path) SyncKey() models.SyncKey {
	return models.SyncKey{
		ProjectID:  p.ProjectID,
		TrackID:    p.TrackID,
		SubtrackID: p.SubtrackID,
		ItemID:     p.ItemID,
	}
}

// PathFromSyncKey is the inverse of Path.SyncKey.
func PathFromSyncKey(key models.SyncKey) Path {
	return Path{
		ProjectID:  key.ProjectID,
		TrackID:    key.TrackID,
		SubtrackID: key.SubtrackID,
		ItemID:     key.ItemID,
	}
}

// State is the tri-state selection of one node. A node absent from the tree's
// state map is implicitly "none selected"; Indeterminate means some but not
// all descendant leaves are selected.
type State struct {
	Selected      bool
	Indeterminate bool
}

// Tree is the in-memory selection model. It is purely interactive state:
// nothing here touches persistence, and every mutation completes
// synchronously before control returns.
type Tree struct {
	states   map[string]State
	children map[string]map[string]Path
	leaves   map[string]struct{}
}

func NewTree() *Tree {
	return &Tree{
		states:   make(map[string]State),
		children: make(map[string]map[string]Path),
		leaves:   make(map[string]struct{}),
	}
}

// RegisterLeaf records a selectable leaf and the chain of internal nodes
// above it. The hierarchy must be registered before any toggles.
func (t *Tree) RegisterLeaf(path Path) {
	t.leaves[path.Key()] = struct{}{}
	child := path
	for {
		parent, more := child.Parent()
		// Project-level nodes hang off the synthetic root path.
		kids, ok := t.children[parent.Key()]
		if !ok {
			kids = make(map[string]Path)
			t.children[parent.Key()] = kids
		}
		kids[child.Key()] = child
		if !more {
			break
		}
		child = parent
	}
}

// NodeState returns the node's tri-state; absent nodes report the zero State.
func (t *Tree) NodeState(path Path) State {
	return t.states[path.Key()]
}

// Toggle sets the node's selection to v, cascades the value down to every
// descendant leaf, then recomputes ancestor states up to the project level.
func (t *Tree) Toggle(path Path, v bool) {
	t.cascade(path, v)
	if parent, ok := path.Parent(); ok {
		t.recomputeUpward(parent)
	}
}

// ApplySyncEntries seeds the tree from previously committed selections, as on
// tree load.
func (t *Tree) ApplySyncEntries(entries []models.SyncEntry) {
	for _, entry := range entries {
		t.Toggle(PathFromSyncKey(entry.Key()), true)
	}
}

// SelectedNodes returns every fully-selected node (leaf or internal), the set
// the sync reconciler commits. Partially-selected internal nodes are never
// included.
func (t *Tree) SelectedNodes() []Path {
	var out []Path
	t.walk(func(path Path) {
		state := t.states[path.Key()]
		if state.Selected && !state.Indeterminate {
			out = append(out, path)
		}
	})
	return out
}

// IsSelected reports whether the node at path is fully selected.
func (t *Tree) IsSelected(path Path) bool {
	state := t.states[path.Key()]
	return state.Selected && !state.Indeterminate
}

func (t *Tree) cascade(path Path, v bool) {
	key := path.Key()
	for _, child := range t.children[key] {
		t.cascade(child, v)
	}

	// A node with no descendant leaves is never stored, not even as
	// unselected: absence is the canonical "none" state.
	if !t.isLeaf(key) && t.leafCount(path) == 0 {
		delete(t.states, key)
		return
	}
	if v {
		t.states[key] = State{Selected: true}
	} else {
		delete(t.states, key)
	}
}

func (t *Tree) recomputeUpward(path Path) {
	for {
		key := path.Key()
		total, full, contributing := 0, 0, 0
		for childKey, child := range t.children[key] {
			// Empty subtrees carry no leaves and don't vote.
			if !t.isLeaf(childKey) && t.leafCount(child) == 0 {
				continue
			}
			total++
			state := t.states[childKey]
			if state.Selected && !state.Indeterminate {
				full++
			}
			if state.Selected || state.Indeterminate {
				contributing++
			}
		}

		switch {
		case total == 0:
			delete(t.states, key)
		case full == total:
			t.states[key] = State{Selected: true}
		case contributing > 0:
			t.states[key] = State{Indeterminate: true}
		default:
			delete(t.states, key)
		}

		parent, ok := path.Parent()
		if !ok {
			return
		}
		path = parent
	}
}

func (t *Tree) isLeaf(key string) bool {
	_, ok := t.leaves[key]
	return ok
}

func (t *Tree) leafCount(path Path) int {
	n := 0
	for childKey, child := range t.children[path.Key()] {
		if t.isLeaf(childKey) {
			n++
			continue
		}
		n += t.leafCount(child)
	}
	return n
}

func (t *Tree) walk(fn func(Path)) {
	var visit func(Path)
	visit = func(path Path) {
		fn(path)
		for _, child := range t.children[path.Key()] {
			visit(child)
		}
	}
	for _, root := range t.children[Path{}.Key()] {
		visit(root)
	}
}
