package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

const defaultAuditLimit = 50

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting events through repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single auth event, stamping it with the current time.
func (s *auditService) Record(ctx context.Context, in ports.AuthEventInput) error {
	event := &domain.AuthEvent{
		Subject:   in.Subject,
		Action:    in.Action,
		Outcome:   in.Outcome,
		Reason:    in.Reason,
		Timestamp: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	s.log.Debug().
		Str("subject", event.Subject).
		Str("action", string(event.Action)).
		Str("outcome", string(event.Outcome)).
		Msg("auth event recorded")

	return nil
}

func (s *auditService) ListBySubject(ctx context.Context, subject string, limit int64) ([]*domain.AuthEvent, error) {
	if limit <= 0 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}
	return s.repo.ListBySubject(ctx, subject, limit)
}
