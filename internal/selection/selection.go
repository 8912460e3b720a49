// Package selection tracks which timeline elements are currently selected.
// It is an explicit collaborator of the edit engine: after every structural
// edit the caller passes the retired element ids here so stale selections are
// cleared instead of dangling.
package selection

import "sync"

// Ref identifies one selected element on a track.
type Ref struct {
	TrackID   string `json:"track_id"`
	ElementID string `json:"element_id"`
}

// Tracker is a thread-safe selection set keyed by project.
type Tracker struct {
	mu       sync.Mutex
	selected map[string]map[Ref]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{selected: make(map[string]map[Ref]struct{})}
}

// Set replaces the selection for a project.
func (t *Tracker) Set(projectID string, refs []Ref) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := make(map[Ref]struct{}, len(refs))
	for _, r := range refs {
		set[r] = struct{}{}
	}
	t.selected[projectID] = set
}

// Get returns the current selection for a project. Order is unspecified.
func (t *Tracker) Get(projectID string) []Ref {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.selected[projectID]
	refs := make([]Ref, 0, len(set))
	for r := range set {
		refs = append(refs, r)
	}
	return refs
}

// Invalidate drops any selected ref whose element id was retired by an edit.
func (t *Tracker) Invalidate(projectID string, retiredIDs []string) {
	if len(retiredIDs) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.selected[projectID]
	if len(set) == 0 {
		return
	}
	retired := make(map[string]struct{}, len(retiredIDs))
	for _, id := range retiredIDs {
		retired[id] = struct{}{}
	}
	for r := range set {
		if _, gone := retired[r.ElementID]; gone {
			delete(set, r)
		}
	}
}

// Clear removes a project's selection entirely, e.g. when the project is
// deleted.
func (t *Tracker) Clear(projectID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.selected, projectID)
}
