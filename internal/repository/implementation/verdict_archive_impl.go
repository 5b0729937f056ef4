package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"claim-verify-be/internal/entity"
	"claim-verify-be/internal/model"
	"claim-verify-be/internal/repository/contract"

	"gorm.io/gorm"
)

type VerdictArchiveImpl struct {
	db *gorm.DB
}

func NewVerdictArchive(db *gorm.DB) contract.IVerdictArchive {
	return &VerdictArchiveImpl{db: db}
}

// Archive writes the finished session's verdict to postgres. Sessions
// without a verdict (deleted or failed before aggregation) are skipped.
func (r *VerdictArchiveImpl) Archive(ctx context.Context, session *entity.Session) error {
	if session.Verdict == nil {
		return nil
	}

	breakdown, err := json.Marshal(session.Verdict.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	claims, err := json.Marshal(session.Claims)
	if err != nil {
		return fmt.Errorf("marshal claims: %w", err)
	}

	record := model.VerdictRecord{
		SessionId:       session.Id,
		ClaimText:       session.ClaimText,
		OverallVerdict:  string(session.Verdict.OverallVerdict),
		ConfidenceScore: session.Verdict.ConfidenceScore,
		Reasoning:       session.Verdict.Reasoning,
		Breakdown:       breakdown,
		Claims:          claims,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}
