package sequencer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"claim-verify-be/internal/entity"
	"claim-verify-be/pkg/verify/aggregate"
	"claim-verify-be/pkg/verify/tracker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubAnalysis struct {
	calls    atomic.Int64
	failWhen func(item *entity.WorkItem) bool
}

func (s *stubAnalysis) Analyze(_ context.Context, item *entity.WorkItem) (*entity.AnalysisResult, error) {
	s.calls.Add(1)
	if s.failWhen != nil && s.failWhen(item) {
		return nil, errors.New("provider unavailable")
	}
	return &entity.AnalysisResult{
		Analysis:  "verified and confirmed",
		Sentiment: "positive",
	}, nil
}

type stubDiscovery struct {
	posts []*entity.Post
	err   error
}

func (s *stubDiscovery) Search(_ context.Context, _ string) ([]*entity.Post, error) {
	return s.posts, s.err
}

type stubVerification struct {
	sources []entity.Source
	err     error
}

func (s *stubVerification) FindSources(_ context.Context, _ string) ([]entity.Source, error) {
	return s.sources, s.err
}

type stubSegregation struct{}

func (stubSegregation) Segregate(_ context.Context, posts []*entity.Post) ([]*entity.WorkItem, error) {
	var items []*entity.WorkItem
	for _, post := range posts {
		items = append(items, &entity.WorkItem{
			Id:        uuid.New(),
			PostId:    post.Id,
			MediaType: entity.MediaText,
			SourceRef: post.Title,
		})
	}
	return items, nil
}

func newTestSequencer(analysis *stubAnalysis, discovery *stubDiscovery, verification *stubVerification) *Sequencer {
	return New(analysis, discovery, verification, stubSegregation{}, aggregate.NewEngine(), nil, DefaultConfig())
}

func newTestSession() *entity.Session {
	return &entity.Session{
		Id:        uuid.NewString(),
		Phase:     entity.PhaseIngest,
		ClaimText: "the power grid failed",
	}
}

func discoveredPosts(n int) []*entity.Post {
	posts := make([]*entity.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, &entity.Post{
			Id:       fmt.Sprintf("t3_%03d", i),
			Title:    fmt.Sprintf("post number %d about the outage", i),
			Platform: entity.PlatformReddit,
		})
	}
	return posts
}

func runToPhase(t *testing.T, seq *Sequencer, sess *entity.Session, trk *tracker.Tracker, target entity.Phase) {
	t.Helper()
	for sess.Phase != target {
		prev := sess.Phase
		_, err := seq.Advance(context.Background(), sess, trk)
		assert.NoError(t, err)
		assert.NotEqual(t, prev, sess.Phase, "phase must advance")
	}
}

func TestAdvanceFullPipeline(t *testing.T) {
	seq := newTestSequencer(
		&stubAnalysis{},
		&stubDiscovery{posts: discoveredPosts(2)},
		&stubVerification{sources: []entity.Source{{Title: "wire", TrustWeight: 1}}},
	)
	sess := newTestSession()
	trk := tracker.New()

	expected := []entity.Phase{
		entity.PhaseInitialAnalysis,
		entity.PhaseDiscovery,
		entity.PhaseSegregation,
		entity.PhaseMultimodalAnalysis,
		entity.PhaseVerificationDiscovery,
		entity.PhaseAggregation,
		entity.PhaseDone,
	}

	for _, want := range expected {
		phase, err := seq.Advance(context.Background(), sess, trk)
		assert.NoError(t, err)
		assert.Equal(t, want, phase)
	}

	assert.NotEmpty(t, sess.InitialAnalysis)
	assert.Len(t, sess.Posts, 3) // submission + 2 discovered
	assert.Len(t, sess.VerificationSources, 1)
	assert.NotNil(t, sess.Verdict)
	assert.Len(t, sess.Claims, 3)
	assert.Zero(t, trk.Pending())
}

func TestAdvanceTerminalIsNoOp(t *testing.T) {
	seq := newTestSequencer(&stubAnalysis{}, &stubDiscovery{}, &stubVerification{})
	sess := newTestSession()
	sess.Phase = entity.PhaseDone

	phase, err := seq.Advance(context.Background(), sess, tracker.New())
	assert.NoError(t, err)
	assert.Equal(t, entity.PhaseDone, phase)
}

func TestIngestRejectsEmptyClaim(t *testing.T) {
	seq := newTestSequencer(&stubAnalysis{}, &stubDiscovery{}, &stubVerification{})
	sess := newTestSession()
	sess.ClaimText = ""

	_, err := seq.Advance(context.Background(), sess, tracker.New())
	assert.Error(t, err)
	assert.Equal(t, entity.PhaseFailed, sess.Phase)
	assert.NotEmpty(t, sess.Error)
}

func TestCollaboratorFailureMovesSessionToFailed(t *testing.T) {
	seq := newTestSequencer(
		&stubAnalysis{},
		&stubDiscovery{err: errors.New("reddit is down")},
		&stubVerification{},
	)
	sess := newTestSession()
	trk := tracker.New()

	runToPhase(t, seq, sess, trk, entity.PhaseDiscovery)

	_, err := seq.Advance(context.Background(), sess, trk)
	assert.Error(t, err)
	assert.Equal(t, entity.PhaseFailed, sess.Phase)
	assert.Contains(t, sess.Error, "reddit is down")
	assert.True(t, sess.Phase.Terminal())
}

func TestPartialItemFailuresStillAdvance(t *testing.T) {
	analysis := &stubAnalysis{
		failWhen: func(item *entity.WorkItem) bool {
			return strings.Contains(item.SourceRef, "number 1")
		},
	}
	seq := newTestSequencer(
		analysis,
		&stubDiscovery{posts: discoveredPosts(3)},
		&stubVerification{},
	)
	sess := newTestSession()
	trk := tracker.New()

	runToPhase(t, seq, sess, trk, entity.PhaseMultimodalAnalysis)

	phase, err := seq.Advance(context.Background(), sess, trk)
	assert.NoError(t, err)
	assert.Equal(t, entity.PhaseVerificationDiscovery, phase)

	snap := trk.Snapshot()
	failed, completed := 0, 0
	for i := range snap.Items {
		switch snap.Items[i].Status {
		case entity.StatusFailed:
			failed++
			assert.NotEmpty(t, snap.Items[i].Error)
		case entity.StatusCompleted:
			completed++
		default:
			t.Fatalf("item left non-terminal: %s", snap.Items[i].Status)
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 3, completed) // submission text + 2 surviving posts
}

func TestEveryItemIsAccountedFor(t *testing.T) {
	const posts = 8
	analysis := &stubAnalysis{}
	seq := newTestSequencer(analysis, &stubDiscovery{posts: discoveredPosts(posts)}, &stubVerification{})
	sess := newTestSession()
	trk := tracker.New()

	runToPhase(t, seq, sess, trk, entity.PhaseVerificationDiscovery)

	// submission + discovered posts, one text item each, one call per item
	// plus the initial analysis pass.
	assert.Len(t, trk.Snapshot().Items, posts+1)
	assert.Equal(t, int64(posts+2), analysis.calls.Load())
	assert.Zero(t, trk.Pending())
}

func TestUserMediaRefsBecomeSubmissionItems(t *testing.T) {
	seq := newTestSequencer(&stubAnalysis{}, &stubDiscovery{}, &stubVerification{})
	sess := newTestSession()
	sess.MediaRefs = []entity.MediaRef{
		{MediaType: entity.MediaImage, SourceRef: "https://example.org/pic.jpg"},
	}
	trk := tracker.New()

	runToPhase(t, seq, sess, trk, entity.PhaseMultimodalAnalysis)

	if assert.NotEmpty(t, sess.Posts) {
		submission := sess.Posts[0]
		var foundImage bool
		for _, item := range submission.Items {
			if item.MediaType == entity.MediaImage {
				foundImage = true
			}
		}
		assert.True(t, foundImage, "user media ref should attach to the submission post")
	}
}

func TestFailedSessionStaysFailed(t *testing.T) {
	seq := newTestSequencer(&stubAnalysis{}, &stubDiscovery{err: errors.New("boom")}, &stubVerification{})
	sess := newTestSession()
	trk := tracker.New()

	runToPhase(t, seq, sess, trk, entity.PhaseDiscovery)
	_, err := seq.Advance(context.Background(), sess, trk)
	assert.Error(t, err)

	phase, err := seq.Advance(context.Background(), sess, trk)
	assert.NoError(t, err)
	assert.Equal(t, entity.PhaseFailed, phase)
}
