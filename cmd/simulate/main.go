package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"claim-verify-be/internal/entity"
	"claim-verify-be/pkg/verify/aggregate"
	"claim-verify-be/pkg/verify/sequencer"
	"claim-verify-be/pkg/verify/tracker"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Runs the full pipeline in-process with canned providers. Useful for
// eyeballing phase transitions and the verdict shape without any
// external services.

type fakeAnalysis struct{}

func (fakeAnalysis) Analyze(_ context.Context, item *entity.WorkItem) (*entity.AnalysisResult, error) {
	time.Sleep(50 * time.Millisecond)
	switch item.MediaType {
	case entity.MediaText:
		return &entity.AnalysisResult{
			Analysis:   "The statement is confirmed and verified by multiple credible outlets.",
			ClaimsText: "Claim: the event happened as described, confirmed by witnesses.",
			Sentiment:  "Overall the coverage is accurate and supported.",
			ModelUsed:  "sim-text",
		}, nil
	case entity.MediaImage:
		return &entity.AnalysisResult{
			Description: "Photo of the scene, consistent lighting, no editing artifacts.",
			ModelUsed:   "sim-vision",
			Provenance: &entity.ProvenanceInfo{
				HasCameraMetadata:   true,
				HasCaptureTimestamp: true,
			},
		}, nil
	default:
		return &entity.AnalysisResult{
			Description: "Media reviewed, nothing anomalous detected.",
			ModelUsed:   "sim-media",
		}, nil
	}
}

type fakeDiscovery struct{}

func (fakeDiscovery) Search(_ context.Context, _ string) ([]*entity.Post, error) {
	return []*entity.Post{
		{
			Id:       "t3_sim001",
			Title:    "Discussion thread about the claim, verified accounts weigh in",
			URL:      "https://reddit.com/r/news/comments/sim001",
			Platform: entity.PlatformReddit,
		},
		{
			Id:       "t3_sim002",
			Title:    "Photo from the scene",
			URL:      "https://i.redd.it/sim002.jpg",
			Platform: entity.PlatformReddit,
		},
	}, nil
}

type fakeVerification struct{}

func (fakeVerification) FindSources(_ context.Context, _ string) ([]entity.Source, error) {
	return []entity.Source{
		{Title: "Wire report", URL: "https://example.org/wire", TrustWeight: 1.0},
		{Title: "Fact check column", URL: "https://example.org/factcheck", TrustWeight: 0.85},
	}, nil
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
			Status:    entity.StatusPending,
		})
		if post.URL == "https://i.redd.it/sim002.jpg" {
			items = append(items, &entity.WorkItem{
				Id:        uuid.New(),
				PostId:    post.Id,
				MediaType: entity.MediaImage,
				SourceRef: post.URL,
				Status:    entity.StatusPending,
			})
		}
	}
	return items, nil
}

func main() {
	color.Cyan("🚀 Claim verification pipeline simulation\n")

	seq := sequencer.New(
		fakeAnalysis{},
		fakeDiscovery{},
		fakeVerification{},
		fakeSegregation{},
		aggregate.NewEngine(),
		nil,
		sequencer.DefaultConfig(),
	)

	sess := &entity.Session{
		Id:        uuid.NewString(),
		Phase:     entity.PhaseIngest,
		ClaimText: "A major outage hit the city power grid last night",
		CreatedAt: time.Now(),
	}
	trk := tracker.New()

	ctx := context.Background()
	for !sess.Phase.Terminal() {
		from := sess.Phase
		start := time.Now()
		phase, err := seq.Advance(ctx, sess, trk)
		if err != nil {
			color.Red("Phase %s failed: %v", from, err)
			os.Exit(1)
		}
		color.Yellow("%s -> %s (%v)", from, phase, time.Since(start).Round(time.Millisecond))

		snap := trk.Snapshot()
		for i := range snap.Items {
			color.White("  item %s [%s] %s", snap.Items[i].Id, snap.Items[i].MediaType, snap.Items[i].Status)
		}
	}

	if sess.Verdict == nil {
		color.Red("Pipeline finished without a verdict")
		os.Exit(1)
	}

	color.Green("\nVerdict: %s (confidence %.2f)", sess.Verdict.OverallVerdict, sess.Verdict.ConfidenceScore)
	fmt.Println(sess.Verdict.Reasoning)

	b, _ := json.MarshalIndent(sess.Verdict.Breakdown, "", "  ")
	fmt.Println(string(b))
}
