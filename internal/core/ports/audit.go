package ports

import (
	"context"

	"github.com/identihub/identity-service/internal/core/domain"
)

// AuthEventInput is the DTO handed from the auth service to the audit pipeline.
type AuthEventInput struct {
	Subject string
	Action  domain.AuditAction
	Outcome domain.AuditOutcome
	Reason  string
}

// AuditRepository persists and queries the authentication audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
	ListBySubject(ctx context.Context, subject string, limit int64) ([]*domain.AuthEvent, error)
}

// AuditService records auth events and serves audit queries.
type AuditService interface {
	Record(ctx context.Context, in AuthEventInput) error
	ListBySubject(ctx context.Context, subject string, limit int64) ([]*domain.AuthEvent, error)
}

// AuditSink is the non-blocking enqueue side of the audit pipeline, consumed
// by services that must not wait on audit persistence.
type AuditSink interface {
	Enqueue(event AuthEventInput)
}
