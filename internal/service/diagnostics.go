package service

import (
	"context"
	"fmt"

	"job-commerce-api/internal/notify"
	"job-commerce-api/internal/repo"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type DiagnosticsService struct {
	diagnosticsRepo repo.Diagnostics
	notifier        notify.Notifier
}

func NewDiagnosticsService(repos *repo.Repositories, notifier notify.Notifier) *DiagnosticsService {
	return &DiagnosticsService{diagnosticsRepo: repos.Diagnostics, notifier: notifier}
}

// Ping checks the database and, when notifications go through Redis, the broker too.
func (s *DiagnosticsService) Ping(ctx context.Context) error {
	if err := s.diagnosticsRepo.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if p, ok := s.notifier.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}

	return nil
}
