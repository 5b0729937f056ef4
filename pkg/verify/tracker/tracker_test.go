package tracker

import (
	"sync"
	"testing"

	"claim-verify-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newItems(postId string, n int) []*entity.WorkItem {
	items := make([]*entity.WorkItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &entity.WorkItem{
			Id:        uuid.New(),
			PostId:    postId,
			MediaType: entity.MediaText,
			Status:    entity.StatusPending,
		})
	}
	return items
}

func TestRegisterAndSnapshotOrder(t *testing.T) {
	trk := New()
	items := newItems("p1", 3)
	trk.Register(items)

	snap := trk.Snapshot()
	if assert.Len(t, snap.Items, 3) {
		for i := range items {
			assert.Equal(t, items[i].Id, snap.Items[i].Id)
		}
	}

	// Re-registering is a no-op.
	trk.Register(items)
	assert.Len(t, trk.Snapshot().Items, 3)
}

func TestUpdateLifecycle(t *testing.T) {
	trk := New()
	items := newItems("p1", 1)
	trk.Register(items)
	id := items[0].Id

	assert.True(t, trk.Update(id, entity.StatusProcessing, nil, ""))
	snap := trk.Snapshot()
	assert.Equal(t, entity.StatusProcessing, snap.Items[0].Status)
	assert.NotNil(t, snap.Items[0].StartedAt)

	res := &entity.AnalysisResult{Analysis: "done"}
	assert.True(t, trk.Update(id, entity.StatusCompleted, res, ""))
	snap = trk.Snapshot()
	assert.Equal(t, entity.StatusCompleted, snap.Items[0].Status)
	assert.NotNil(t, snap.Items[0].FinishedAt)
	assert.Equal(t, "done", snap.Items[0].Result.Analysis)
}

func TestTerminalStatusIsImmutable(t *testing.T) {
	trk := New()
	items := newItems("p1", 1)
	trk.Register(items)
	id := items[0].Id

	trk.Update(id, entity.StatusFailed, nil, "timeout")
	assert.False(t, trk.Update(id, entity.StatusCompleted, &entity.AnalysisResult{}, ""))

	snap := trk.Snapshot()
	assert.Equal(t, entity.StatusFailed, snap.Items[0].Status)
	assert.Equal(t, "timeout", snap.Items[0].Error)
}

func TestUpdateUnknownId(t *testing.T) {
	trk := New()
	assert.False(t, trk.Update(uuid.New(), entity.StatusProcessing, nil, ""))
}

func TestSnapshotIsStableWithoutUpdates(t *testing.T) {
	trk := New()
	trk.Register(newItems("p1", 4))
	trk.Update(trk.Snapshot().Items[1].Id, entity.StatusCompleted, nil, "")

	first := trk.Snapshot()
	second := trk.Snapshot()
	assert.Equal(t, first, second)
}

func TestConcurrentUpdates(t *testing.T) {
	trk := New()
	items := newItems("p1", 50)
	trk.Register(items)

	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			trk.Update(id, entity.StatusProcessing, nil, "")
			trk.Update(id, entity.StatusCompleted, &entity.AnalysisResult{}, "")
		}(item.Id)
	}

	done := make(chan struct{})
	go func() {
		// Snapshots race with the updates above and must stay well-formed.
		for i := 0; i < 100; i++ {
			snap := trk.Snapshot()
			assert.Len(t, snap.Items, 50)
		}
		close(done)
	}()

	wg.Wait()
	<-done

	assert.Zero(t, trk.Pending())
	for _, it := range trk.Snapshot().Items {
		assert.Equal(t, entity.StatusCompleted, it.Status)
	}
}

func TestPostStatusDerivation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []entity.ItemStatus
		want     entity.ItemStatus
	}{
		{name: "all completed", statuses: []entity.ItemStatus{entity.StatusCompleted, entity.StatusCompleted}, want: entity.StatusCompleted},
		{name: "failure with none processing", statuses: []entity.ItemStatus{entity.StatusCompleted, entity.StatusFailed}, want: entity.StatusFailed},
		{name: "processing wins over failure", statuses: []entity.ItemStatus{entity.StatusFailed, entity.StatusProcessing}, want: entity.StatusProcessing},
		{name: "any processing", statuses: []entity.ItemStatus{entity.StatusPending, entity.StatusProcessing}, want: entity.StatusProcessing},
		{name: "all pending", statuses: []entity.ItemStatus{entity.StatusPending, entity.StatusPending}, want: entity.StatusPending},
		{name: "no items", statuses: nil, want: entity.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]entity.WorkItem, 0, len(tt.statuses))
			for _, st := range tt.statuses {
				items = append(items, entity.WorkItem{Id: uuid.New(), PostId: "p1", Status: st})
			}
			snap := Snapshot{Items: items}
			assert.Equal(t, tt.want, snap.PostStatus("p1"))
		})
	}
}

func TestItemsForPost(t *testing.T) {
	trk := New()
	p1 := newItems("p1", 2)
	p2 := newItems("p2", 1)
	trk.Register(append(p1, p2...))

	snap := trk.Snapshot()
	assert.Len(t, snap.ItemsForPost("p1"), 2)
	assert.Len(t, snap.ItemsForPost("p2"), 1)
	assert.Empty(t, snap.ItemsForPost("p3"))
}
