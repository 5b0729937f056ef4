package contract

import (
	"context"

	"claim-verify-be/internal/entity"
)

// ISessionStore persists session state between Advance calls. Live
// trackers never pass through here; only the serialized session does.
type ISessionStore interface {
	Put(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, sessionId string) (*entity.Session, bool, error)
	Delete(ctx context.Context, sessionId string) error
}

// IVerdictArchive keeps finished verdicts after the session itself
// expires.
type IVerdictArchive interface {
	Archive(ctx context.Context, session *entity.Session) error
}
