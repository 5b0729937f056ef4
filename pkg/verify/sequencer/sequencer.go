package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"claim-verify-be/internal/entity"
	"claim-verify-be/pkg/events"
	"claim-verify-be/pkg/verify/aggregate"
	"claim-verify-be/pkg/verify/provider"
	"claim-verify-be/pkg/verify/tracker"

	"github.com/google/uuid"
)

// Config bounds the fan-out phases.
type Config struct {
	// MaxConcurrency caps in-flight analysis tasks per session so the
	// Analysis Provider is never overwhelmed.
	MaxConcurrency int
	// ItemTimeout bounds each provider call. A timeout resolves the item
	// Failed exactly like any other provider error; siblings keep running.
	ItemTimeout time.Duration
}

// DefaultConfig mirrors the limits the original batch analyzer ran with.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		ItemTimeout:    120 * time.Second,
	}
}

// ProgressSink receives phase and item transitions as they happen. The
// service layer forwards them to the event bus; polling via snapshots
// stays the correctness baseline.
type ProgressSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// Sequencer drives a session through the ordered pipeline phases. It is
// stateless across sessions: callers own the session and its tracker and
// serialize Advance calls per session, so only the tracker needs locking.
type Sequencer struct {
	analysis     provider.AnalysisProvider
	discovery    provider.DiscoveryProvider
	verification provider.VerificationProvider
	segregation  provider.SegregationProvider
	engine       *aggregate.Engine
	progress     ProgressSink
	cfg          Config
}

// New wires a sequencer from its collaborators. progress may be nil.
func New(
	analysis provider.AnalysisProvider,
	discovery provider.DiscoveryProvider,
	verification provider.VerificationProvider,
	segregation provider.SegregationProvider,
	engine *aggregate.Engine,
	progress ProgressSink,
	cfg Config,
) *Sequencer {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultConfig().MaxConcurrency
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = DefaultConfig().ItemTimeout
	}
	return &Sequencer{
		analysis:     analysis,
		discovery:    discovery,
		verification: verification,
		segregation:  segregation,
		engine:       engine,
		progress:     progress,
		cfg:          cfg,
	}
}

// Advance executes the session's current phase and drives exactly one
// transition. Single-collaborator phase failures move the session to the
// terminal Failed phase with the error retained; partial item failures in
// fan-out phases never fail the phase.
func (s *Sequencer) Advance(ctx context.Context, sess *entity.Session, trk *tracker.Tracker) (entity.Phase, error) {
	if sess.Phase.Terminal() {
		return sess.Phase, nil
	}

	var err error
	switch sess.Phase {
	case entity.PhaseIngest:
		err = s.runIngest(sess)
	case entity.PhaseInitialAnalysis:
		err = s.runInitialAnalysis(ctx, sess)
	case entity.PhaseDiscovery:
		err = s.runDiscovery(ctx, sess)
	case entity.PhaseSegregation:
		err = s.runSegregation(ctx, sess, trk)
	case entity.PhaseMultimodalAnalysis:
		s.runMultimodalAnalysis(ctx, sess, trk)
	case entity.PhaseVerificationDiscovery:
		err = s.runVerificationDiscovery(ctx, sess)
	case entity.PhaseAggregation:
		s.runAggregation(sess, trk)
	}

	if err != nil {
		sess.Phase = entity.PhaseFailed
		sess.Error = err.Error()
		s.publishPhase(ctx, sess)
		return sess.Phase, err
	}

	sess.Phase = sess.Phase.Next()
	s.publishPhase(ctx, sess)
	return sess.Phase, nil
}

// runIngest validates the submission and materializes it as the first
// post: the claim text plus any user-supplied media become its items at
// segregation time.
func (s *Sequencer) runIngest(sess *entity.Session) error {
	if sess.ClaimText == "" {
		return fmt.Errorf("ingest: empty claim text")
	}
	submission := &entity.Post{
		Id:       "submission-" + sess.Id,
		Title:    sess.ClaimText,
		Platform: entity.PlatformOther,
	}
	sess.Posts = append(sess.Posts, submission)
	return nil
}

func (s *Sequencer) runInitialAnalysis(ctx context.Context, sess *entity.Session) error {
	item := &entity.WorkItem{
		Id:        uuid.New(),
		MediaType: entity.MediaText,
		SourceRef: sess.ClaimText,
	}
	res, err := s.analysis.Analyze(ctx, item)
	if err != nil {
		return fmt.Errorf("initial analysis: %w", err)
	}
	sess.InitialAnalysis = res.Analysis
	return nil
}

func (s *Sequencer) runDiscovery(ctx context.Context, sess *entity.Session) error {
	posts, err := s.discovery.Search(ctx, sess.ClaimText)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	sess.Posts = append(sess.Posts, posts...)
	return nil
}

// runSegregation resolves media into work items and registers them. The
// user's own media refs join the submission post here so one fan-out pass
// covers everything.
func (s *Sequencer) runSegregation(ctx context.Context, sess *entity.Session, trk *tracker.Tracker) error {
	for _, ref := range sess.MediaRefs {
		if len(sess.Posts) == 0 {
			break
		}
		sess.Posts[0].Items = append(sess.Posts[0].Items, &entity.WorkItem{
			Id:        uuid.New(),
			PostId:    sess.Posts[0].Id,
			MediaType: ref.MediaType,
			SourceRef: ref.SourceRef,
			Status:    entity.StatusPending,
		})
	}

	items, err := s.segregation.Segregate(ctx, sess.Posts)
	if err != nil {
		return fmt.Errorf("segregation: %w", err)
	}
	attach(sess.Posts, items)

	var all []*entity.WorkItem
	for _, post := range sess.Posts {
		all = append(all, post.Items...)
	}
	trk.Register(all)
	return nil
}

// runMultimodalAnalysis fans out one bounded task per pending item. The
// phase completes when no item is Pending or Processing; M failures out of
// N items still advance the session with the failures recorded.
func (s *Sequencer) runMultimodalAnalysis(ctx context.Context, sess *entity.Session, trk *tracker.Tracker) {
	snap := trk.Snapshot()
	sem := make(chan struct{}, s.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for i := range snap.Items {
		if snap.Items[i].Status != entity.StatusPending {
			continue
		}
		item := snap.Items[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			s.analyzeItem(ctx, sess, trk, item)
		}()
	}
	wg.Wait()
	syncItems(sess, trk.Snapshot())
}

// analyzeItem is the single writer for its work item. It suspends only on
// the provider call; tracker updates are bounded-time.
func (s *Sequencer) analyzeItem(ctx context.Context, sess *entity.Session, trk *tracker.Tracker, item entity.WorkItem) {
	trk.Update(item.Id, entity.StatusProcessing, nil, "")
	s.publishItem(ctx, sess, item.Id, entity.StatusProcessing)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ItemTimeout)
	defer cancel()

	res, err := s.analysis.Analyze(callCtx, &item)
	if err != nil {
		trk.Update(item.Id, entity.StatusFailed, nil, err.Error())
		s.publishItem(ctx, sess, item.Id, entity.StatusFailed)
		return
	}
	trk.Update(item.Id, entity.StatusCompleted, res, "")
	s.publishItem(ctx, sess, item.Id, entity.StatusCompleted)
}

func (s *Sequencer) runVerificationDiscovery(ctx context.Context, sess *entity.Session) error {
	sources, err := s.verification.FindSources(ctx, sess.ClaimText)
	if err != nil {
		return fmt.Errorf("verification discovery: %w", err)
	}
	sess.VerificationSources = sources
	return nil
}

// runAggregation cannot fail: the engine absorbs malformed input.
func (s *Sequencer) runAggregation(sess *entity.Session, trk *tracker.Tracker) {
	syncItems(sess, trk.Snapshot())
	sess.Claims = s.engine.BuildClaims(sess.ClaimText, sess.Posts)
	sess.Verdict = s.engine.Aggregate(sess.ClaimText, sess.Posts, sess.VerificationSources)
}

// syncItems copies tracker state back onto the session's posts so the
// session serializes with final item results.
func syncItems(sess *entity.Session, snap tracker.Snapshot) {
	byId := make(map[uuid.UUID]entity.WorkItem, len(snap.Items))
	for i := range snap.Items {
		byId[snap.Items[i].Id] = snap.Items[i]
	}
	for _, post := range sess.Posts {
		for i, item := range post.Items {
			if updated, ok := byId[item.Id]; ok {
				copied := updated
				post.Items[i] = &copied
			}
		}
	}
}

// attach places segregated items onto their owning posts, preserving
// provider order.
func attach(posts []*entity.Post, items []*entity.WorkItem) {
	byPost := make(map[string]*entity.Post, len(posts))
	for _, p := range posts {
		byPost[p.Id] = p
	}
	for _, item := range items {
		if item.Status == "" {
			item.Status = entity.StatusPending
		}
		if post, ok := byPost[item.PostId]; ok {
			post.Items = append(post.Items, item)
		}
	}
}

func (s *Sequencer) publishPhase(ctx context.Context, sess *entity.Session) {
	if s.progress == nil {
		return
	}
	_ = s.progress.Publish(ctx, events.NewPhaseChanged(sess.Id, string(sess.Phase), sess.Error))
}

func (s *Sequencer) publishItem(ctx context.Context, sess *entity.Session, itemId uuid.UUID, status entity.ItemStatus) {
	if s.progress == nil {
		return
	}
	_ = s.progress.Publish(ctx, events.NewItemUpdated(sess.Id, itemId.String(), string(status)))
}
