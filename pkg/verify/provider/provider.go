package provider

import (
	"context"

	"claim-verify-be/internal/entity"
)

// AnalysisProvider is the capability boundary over external
// content-understanding services. Implementations must be idempotent-safe
// to retry; the orchestrator never retries on its own — retry policy, if
// any, lives inside the provider.
type AnalysisProvider interface {
	// Analyze runs content understanding for one work item. A typed
	// failure is returned as error; the caller records it on the item.
	Analyze(ctx context.Context, item *entity.WorkItem) (*entity.AnalysisResult, error)
}

// DiscoveryProvider finds social posts related to a claim.
type DiscoveryProvider interface {
	Search(ctx context.Context, query string) ([]*entity.Post, error)
}

// VerificationProvider finds ranked corroborating sources for a claim.
type VerificationProvider interface {
	FindSources(ctx context.Context, query string) ([]entity.Source, error)
}

// SegregationProvider resolves each post's media into analyzable work
// items.
type SegregationProvider interface {
	Segregate(ctx context.Context, posts []*entity.Post) ([]*entity.WorkItem, error)
}
