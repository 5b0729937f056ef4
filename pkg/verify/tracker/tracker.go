package tracker

import (
	"sync"
	"time"

	"claim-verify-be/internal/entity"

	"github.com/google/uuid"
)

// Tracker holds the work items of one session and accepts concurrent
// status updates from in-flight analysis tasks. Items obey single-writer
// discipline (no two tasks ever hold the same item id); the tracker lock
// only guards registration and snapshot iteration against torn reads.
type Tracker struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*entity.WorkItem
	order []uuid.UUID
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{items: make(map[uuid.UUID]*entity.WorkItem)}
}

// Register adds items in the given order. Registration order is the order
// snapshots and evidence lists preserve.
func (t *Tracker) Register(items []*entity.WorkItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, item := range items {
		if _, exists := t.items[item.Id]; exists {
			continue
		}
		t.items[item.Id] = item
		t.order = append(t.order, item.Id)
	}
}

// Update transitions one item. Updates to an item that already reached
// Completed or Failed are ignored: terminal states are immutable.
// Returns false when the id is unknown or the item was already terminal.
func (t *Tracker) Update(id uuid.UUID, status entity.ItemStatus, result *entity.AnalysisResult, errMsg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[id]
	if !ok || item.Status.Terminal() {
		return false
	}
	now := time.Now()
	switch status {
	case entity.StatusProcessing:
		item.StartedAt = &now
	case entity.StatusCompleted, entity.StatusFailed:
		item.FinishedAt = &now
	}
	item.Status = status
	item.Result = result
	item.Error = errMsg
	return true
}

// Snapshot is a point-in-time copy of all items in registration order.
// Safe to call concurrently with updates; two snapshots with no update in
// between are identical.
type Snapshot struct {
	Items []entity.WorkItem
}

// Snapshot copies every item. Per-post status is derived via PostStatus on
// demand, never cached, so it cannot go stale under concurrent mutation.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := Snapshot{Items: make([]entity.WorkItem, 0, len(t.order))}
	for _, id := range t.order {
		snap.Items = append(snap.Items, *t.items[id])
	}
	return snap
}

// Pending reports how many items have not yet reached a terminal status.
func (t *Tracker) Pending() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, item := range t.items {
		if !item.Status.Terminal() {
			n++
		}
	}
	return n
}

// PostStatus derives a post's overall status from its items:
// Completed if all items completed; Failed if any failed and none are
// processing; Processing if any item is processing; else Pending.
func (s Snapshot) PostStatus(postId string) entity.ItemStatus {
	total, completed, failed, processing := 0, 0, 0, 0
	for i := range s.Items {
		if s.Items[i].PostId != postId {
			continue
		}
		total++
		switch s.Items[i].Status {
		case entity.StatusCompleted:
			completed++
		case entity.StatusFailed:
			failed++
		case entity.StatusProcessing:
			processing++
		}
	}
	switch {
	case total > 0 && completed == total:
		return entity.StatusCompleted
	case failed > 0 && processing == 0:
		return entity.StatusFailed
	case processing > 0:
		return entity.StatusProcessing
	default:
		return entity.StatusPending
	}
}

// ItemsForPost returns the snapshot's items for one post, registration
// order preserved.
func (s Snapshot) ItemsForPost(postId string) []entity.WorkItem {
	var out []entity.WorkItem
	for i := range s.Items {
		if s.Items[i].PostId == postId {
			out = append(out, s.Items[i])
		}
	}
	return out
}
