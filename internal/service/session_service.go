package service

import (
	"context"
	"sync"
	"time"

	"claim-verify-be/internal/dto"
	"claim-verify-be/internal/entity"
	"claim-verify-be/internal/pkg/logger"
	"claim-verify-be/internal/pkg/serverutils"
	"claim-verify-be/internal/repository/contract"
	"claim-verify-be/pkg/events"
	"claim-verify-be/pkg/verify/sequencer"
	"claim-verify-be/pkg/verify/tracker"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Advance(ctx context.Context, sessionId string) (*dto.AdvanceResponse, error)
	Status(ctx context.Context, sessionId string) (*dto.SessionStatusResponse, error)
	Result(ctx context.Context, sessionId string) (*dto.SessionResultResponse, error)
	Delete(ctx context.Context, sessionId string) error
	Info() *dto.ServiceInfoResponse
}

type sessionService struct {
	store    contract.ISessionStore
	archive  contract.IVerdictArchive
	seq      *sequencer.Sequencer
	progress sequencer.ProgressSink
	logger   logger.ILogger

	// Live trackers and per-session advance locks. Trackers are runtime
	// state; sessions that survive a restart get theirs rebuilt from the
	// serialized posts.
	mu       sync.Mutex
	trackers map[string]*tracker.Tracker
	advLocks map[string]*sync.Mutex
}

func NewSessionService(
	store contract.ISessionStore,
	archive contract.IVerdictArchive,
	seq *sequencer.Sequencer,
	progress sequencer.ProgressSink,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		store:    store,
		archive:  archive,
		seq:      seq,
		progress: progress,
		logger:   log,
		trackers: make(map[string]*tracker.Tracker),
		advLocks: make(map[string]*sync.Mutex),
	}
}

func (s *sessionService) Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	if req.ClaimText == "" {
		return nil, serverutils.NewInputError("claim_text is required")
	}

	refs := make([]entity.MediaRef, 0, len(req.MediaRefs))
	for _, r := range req.MediaRefs {
		refs = append(refs, entity.MediaRef{
			MediaType: entity.MediaType(r.MediaType),
			SourceRef: r.SourceRef,
		})
	}

	session := &entity.Session{
		Id:        uuid.NewString(),
		Phase:     entity.PhaseIngest,
		ClaimText: req.ClaimText,
		MediaRefs: refs,
		CreatedAt: time.Now(),
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, serverutils.NewCollaboratorError("failed to persist session", err)
	}

	s.mu.Lock()
	s.trackers[session.Id] = tracker.New()
	s.advLocks[session.Id] = &sync.Mutex{}
	s.mu.Unlock()

	s.publish(ctx, events.NewSessionCreated(session.Id))
	s.logger.Info("SessionService", "Session created", map[string]interface{}{"session_id": session.Id})

	return &dto.CreateSessionResponse{
		SessionId: session.Id,
		Phase:     string(session.Phase),
		CreatedAt: session.CreatedAt,
	}, nil
}

// Advance runs exactly one phase transition. Calls for the same session
// serialize on a per-session lock; a terminal session is a no-op that
// reports its final phase.
func (s *sessionService) Advance(ctx context.Context, sessionId string) (*dto.AdvanceResponse, error) {
	lock := s.advanceLock(sessionId)
	lock.Lock()
	defer lock.Unlock()

	session, found, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewCollaboratorError("failed to load session", err)
	}
	if !found {
		return nil, serverutils.NewNotFoundError("session not found")
	}

	if session.Phase.Terminal() {
		return &dto.AdvanceResponse{
			SessionId: session.Id,
			Phase:     string(session.Phase),
			Error:     session.Error,
		}, nil
	}

	trk := s.trackerFor(session)
	_, advErr := s.seq.Advance(ctx, session, trk)

	if putErr := s.store.Put(ctx, session); putErr != nil {
		s.logger.Error("SessionService", "Failed to persist session after advance", map[string]interface{}{
			"session_id": session.Id, "error": putErr.Error(),
		})
	}

	if advErr != nil {
		s.logger.Warn("SessionService", "Phase failed", map[string]interface{}{
			"session_id": session.Id, "phase": string(session.Phase), "error": advErr.Error(),
		})
		return nil, serverutils.NewCollaboratorError(advErr.Error(), advErr)
	}

	if session.Phase == entity.PhaseDone && s.archive != nil {
		// Archive failures never fail the request; the verdict is already
		// in the session store.
		if err := s.archive.Archive(ctx, session); err != nil {
			s.logger.Warn("SessionService", "Verdict archive failed", map[string]interface{}{
				"session_id": session.Id, "error": err.Error(),
			})
		}
	}

	return &dto.AdvanceResponse{
		SessionId: session.Id,
		Phase:     string(session.Phase),
		Error:     session.Error,
	}, nil
}

func (s *sessionService) Status(ctx context.Context, sessionId string) (*dto.SessionStatusResponse, error) {
	session, found, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewCollaboratorError("failed to load session", err)
	}
	if !found {
		return nil, serverutils.NewNotFoundError("session not found")
	}

	snap := s.trackerFor(session).Snapshot()

	posts := make([]dto.PostStatus, 0, len(session.Posts))
	for _, post := range session.Posts {
		items := snap.ItemsForPost(post.Id)
		itemStatuses := make([]dto.WorkItemStatus, 0, len(items))
		for i := range items {
			itemStatuses = append(itemStatuses, dto.WorkItemStatus{
				Id:            items[i].Id.String(),
				MediaType:     string(items[i].MediaType),
				Status:        string(items[i].Status),
				ResultSummary: summarizeResult(items[i].Result),
				Error:         items[i].Error,
			})
		}
		posts = append(posts, dto.PostStatus{
			PostId:   post.Id,
			Title:    post.Title,
			Platform: post.Platform,
			Status:   string(snap.PostStatus(post.Id)),
			Items:    itemStatuses,
		})
	}

	return &dto.SessionStatusResponse{
		SessionId: session.Id,
		Phase:     string(session.Phase),
		Error:     session.Error,
		Pending:   s.trackerFor(session).Pending(),
		Posts:     posts,
	}, nil
}

func (s *sessionService) Result(ctx context.Context, sessionId string) (*dto.SessionResultResponse, error) {
	session, found, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewCollaboratorError("failed to load session", err)
	}
	if !found {
		return nil, serverutils.NewNotFoundError("session not found")
	}
	if session.Phase != entity.PhaseAggregation && session.Phase != entity.PhaseDone {
		return nil, serverutils.NewInputError("result is not available until aggregation completes")
	}

	claims := make([]dto.ClaimResponse, 0, len(session.Claims))
	for _, claim := range session.Claims {
		claims = append(claims, dto.ClaimResponse{
			PostId:          claim.PostId,
			Text:            claim.Text,
			ConfidenceLevel: string(claim.ConfidenceLevel),
			Evidence:        claim.Evidence,
		})
	}

	return &dto.SessionResultResponse{
		SessionId:       session.Id,
		Phase:           string(session.Phase),
		InitialAnalysis: session.InitialAnalysis,
		Claims:          claims,
		Sources:         session.VerificationSources,
		Verdict:         session.Verdict,
	}, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionId string) error {
	_, found, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return serverutils.NewCollaboratorError("failed to load session", err)
	}
	if !found {
		return serverutils.NewNotFoundError("session not found")
	}

	if err := s.store.Delete(ctx, sessionId); err != nil {
		return serverutils.NewCollaboratorError("failed to delete session", err)
	}

	s.mu.Lock()
	delete(s.trackers, sessionId)
	delete(s.advLocks, sessionId)
	s.mu.Unlock()

	s.publish(ctx, events.NewSessionDeleted(sessionId))
	s.logger.Info("SessionService", "Session deleted", map[string]interface{}{"session_id": sessionId})
	return nil
}

func (s *sessionService) Info() *dto.ServiceInfoResponse {
	return &dto.ServiceInfoResponse{
		Service: "claim-verify-be",
		Version: "1.0.0",
		Phases: []string{
			string(entity.PhaseIngest),
			string(entity.PhaseInitialAnalysis),
			string(entity.PhaseDiscovery),
			string(entity.PhaseSegregation),
			string(entity.PhaseMultimodalAnalysis),
			string(entity.PhaseVerificationDiscovery),
			string(entity.PhaseAggregation),
			string(entity.PhaseDone),
		},
		MediaTypes: []string{
			string(entity.MediaText),
			string(entity.MediaImage),
			string(entity.MediaVideo),
			string(entity.MediaAudio),
		},
		Capabilities: []string{
			"claim_ingestion",
			"social_discovery",
			"multimodal_analysis",
			"verification_sources",
			"credibility_aggregation",
		},
	}
}

const resultSummaryLimit = 140

// summarizeResult picks the most descriptive field of an analysis result
// and truncates it for the status view. Full results stay on the session.
func summarizeResult(res *entity.AnalysisResult) string {
	if res == nil {
		return ""
	}
	text := res.Analysis
	if text == "" {
		text = res.Description
	}
	if text == "" {
		text = res.Transcript
	}
	runes := []rune(text)
	if len(runes) > resultSummaryLimit {
		return string(runes[:resultSummaryLimit]) + "..."
	}
	return text
}

// trackerFor returns the session's live tracker, rebuilding it from the
// serialized posts when this instance has never seen the session.
func (s *sessionService) trackerFor(session *entity.Session) *tracker.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	trk, ok := s.trackers[session.Id]
	if !ok {
		trk = tracker.New()
		for _, post := range session.Posts {
			trk.Register(post.Items)
		}
		s.trackers[session.Id] = trk
	}
	return trk
}

func (s *sessionService) advanceLock(sessionId string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.advLocks[sessionId]
	if !ok {
		lock = &sync.Mutex{}
		s.advLocks[sessionId] = lock
	}
	return lock
}

func (s *sessionService) publish(ctx context.Context, event events.Event) {
	if s.progress == nil {
		return
	}
	if err := s.progress.Publish(ctx, event); err != nil {
		s.logger.Warn("SessionService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}
