package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"claim-verify-be/internal/dto"
	"claim-verify-be/internal/entity"
	"claim-verify-be/internal/pkg/serverutils"
	"claim-verify-be/internal/repository/memory"
	"claim-verify-be/pkg/verify/aggregate"
	"claim-verify-be/pkg/verify/sequencer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAnalysis struct{ err error }

func (f fakeAnalysis) Analyze(_ context.Context, _ *entity.WorkItem) (*entity.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.AnalysisResult{Analysis: "verified and confirmed", Sentiment: "positive"}, nil
}

type fakeDiscovery struct{}

func (fakeDiscovery) Search(_ context.Context, _ string) ([]*entity.Post, error) {
	return []*entity.Post{{
		Id:       "t3_aaa",
		Title:    "thread about the claim, accounts confirm",
		Platform: entity.PlatformReddit,
	}}, nil
}

type fakeVerification struct{}

func (fakeVerification) FindSources(_ context.Context, _ string) ([]entity.Source, error) {
	return []entity.Source{{Title: "wire", URL: "https://example.org", TrustWeight: 1}}, nil
}

type fakeSegregation struct{}

func (fakeSegregation) Segregate(_ context.Context, posts []*entity.Post) ([]*entity.WorkItem, error) {
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

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestService(analysisErr error) ISessionService {
	seq := sequencer.New(
		fakeAnalysis{err: analysisErr},
		fakeDiscovery{},
		fakeVerification{},
		fakeSegregation{},
		aggregate.NewEngine(),
		nil,
		sequencer.DefaultConfig(),
	)
	store := memory.NewSessionStore(time.Hour)
	return NewSessionService(store, nil, seq, nil, nopLogger{})
}

func TestCreateSession(t *testing.T) {
	svc := newTestService(nil)

	res, err := svc.Create(context.Background(), dto.CreateSessionRequest{
		ClaimText: "the grid went down",
		MediaRefs: []dto.MediaRefRequest{{MediaType: "image", SourceRef: "https://example.org/a.jpg"}},
	})
	assert.NoError(t, err)
	if assert.NotNil(t, res) {
		assert.NotEmpty(t, res.SessionId)
		assert.Equal(t, string(entity.PhaseIngest), res.Phase)
	}
}

func TestCreateSessionRejectsEmptyClaim(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Create(context.Background(), dto.CreateSessionRequest{})
	var apiErr *serverutils.ApiError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, serverutils.KindInput, apiErr.Kind)
	}
}

func TestAdvanceUnknownSession(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Advance(context.Background(), "missing")
	var apiErr *serverutils.ApiError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, serverutils.KindNotFound, apiErr.Kind)
	}
}

func TestAdvanceToCompletion(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateSessionRequest{ClaimText: "the grid went down"})
	assert.NoError(t, err)

	var last *dto.AdvanceResponse
	for i := 0; i < 8; i++ {
		last, err = svc.Advance(ctx, created.SessionId)
		assert.NoError(t, err)
		if last.Phase == string(entity.PhaseDone) {
			break
		}
	}
	assert.Equal(t, string(entity.PhaseDone), last.Phase)

	// Advancing a finished session reports the final phase unchanged.
	again, err := svc.Advance(ctx, created.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, string(entity.PhaseDone), again.Phase)

	result, err := svc.Result(ctx, created.SessionId)
	assert.NoError(t, err)
	assert.NotNil(t, result.Verdict)
	assert.NotEmpty(t, result.Claims)
	assert.NotEmpty(t, result.Sources)
}

func TestResultBeforeAggregation(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, dto.CreateSessionRequest{ClaimText: "the grid went down"})

	_, err := svc.Result(ctx, created.SessionId)
	var apiErr *serverutils.ApiError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, serverutils.KindInput, apiErr.Kind)
	}
}

func TestAdvanceCollaboratorFailure(t *testing.T) {
	svc := newTestService(errors.New("model endpoint unreachable"))
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateSessionRequest{ClaimText: "the grid went down"})
	assert.NoError(t, err)

	// Ingest succeeds, InitialAnalysis hits the broken provider.
	_, err = svc.Advance(ctx, created.SessionId)
	assert.NoError(t, err)

	_, err = svc.Advance(ctx, created.SessionId)
	var apiErr *serverutils.ApiError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, serverutils.KindCollaborator, apiErr.Kind)
	}

	status, err := svc.Status(ctx, created.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, string(entity.PhaseFailed), status.Phase)
	assert.NotEmpty(t, status.Error)
}

func TestStatusReflectsItems(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, dto.CreateSessionRequest{ClaimText: "the grid went down"})
	for i := 0; i < 5; i++ { // run through multimodal analysis
		if _, err := svc.Advance(ctx, created.SessionId); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}

	status, err := svc.Status(ctx, created.SessionId)
	assert.NoError(t, err)
	assert.Zero(t, status.Pending)
	if assert.NotEmpty(t, status.Posts) {
		for _, post := range status.Posts {
			assert.Equal(t, string(entity.StatusCompleted), post.Status)
			assert.NotEmpty(t, post.Items)
			for _, item := range post.Items {
				assert.Equal(t, "verified and confirmed", item.ResultSummary)
			}
		}
	}
}

func TestSummarizeResult(t *testing.T) {
	assert.Empty(t, summarizeResult(nil))
	assert.Equal(t, "short", summarizeResult(&entity.AnalysisResult{Analysis: "short"}))
	assert.Equal(t, "a photo of a crowd", summarizeResult(&entity.AnalysisResult{Description: "a photo of a crowd"}))

	long := strings.Repeat("x", 200)
	got := summarizeResult(&entity.AnalysisResult{Analysis: long})
	assert.Len(t, got, resultSummaryLimit+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, dto.CreateSessionRequest{ClaimText: "claim"})
	assert.NoError(t, svc.Delete(ctx, created.SessionId))

	_, err := svc.Status(ctx, created.SessionId)
	var apiErr *serverutils.ApiError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, serverutils.KindNotFound, apiErr.Kind)
	}

	assert.Error(t, svc.Delete(ctx, created.SessionId))
}

func TestInfo(t *testing.T) {
	info := newTestService(nil).Info()
	assert.Equal(t, "claim-verify-be", info.Service)
	assert.Len(t, info.Phases, 8)
	assert.Contains(t, info.MediaTypes, "image")
}
