package app

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/api"
	"github.com/paracurve/claimdesk/internal/attachment"
	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/fetch"
	"github.com/paracurve/claimdesk/internal/notify"
)

// PolicyService manages expense policy documents.
type PolicyService struct {
	api       *api.Client
	cache     *fetch.Store
	center    *notify.Center
	preflight *attachment.Validator
	logger    *zap.Logger
}

// NewPolicyService creates a new PolicyService.
func NewPolicyService(
	client *api.Client,
	cache *fetch.Store,
	center *notify.Center,
	preflight *attachment.Validator,
	logger *zap.Logger,
) *PolicyService {
	return &PolicyService{
		api:       client,
		cache:     cache,
		center:    center,
		preflight: preflight,
		logger:    logger,
	}
}

// List returns the tenant's policy documents, cache-served within the
// staleness window.
func (s *PolicyService) List(ctx context.Context) ([]domain.Policy, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Collection(resourcePolicies), s.api.ListPolicies)
}

// Upload validates the file locally, then publishes it as a new policy
// document. Files failing preflight never leave the machine.
func (s *PolicyService) Upload(ctx context.Context, path, title, description string) (*domain.Policy, error) {
	pf, err := s.preflight.Check(path)
	if err != nil {
		s.logger.Warn("Policy upload rejected in preflight",
			zap.String("path", path),
			zap.Error(err))
		s.center.Push(notify.LevelError, resourcePolicies, "Upload rejected", err.Error())
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		s.center.Push(notify.LevelError, resourcePolicies, "Upload failed", err.Error())
		return nil, err
	}
	defer f.Close()

	created, err := s.api.UploadPolicy(ctx, api.PolicyUpload{
		Title:       title,
		Description: description,
		FileName:    pf.FileName,
		Content:     f,
	})
	if err != nil {
		s.logger.Error("Policy upload failed", zap.String("file", pf.FileName), zap.Error(err))
		s.center.Push(notify.LevelError, resourcePolicies, "Upload failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourcePolicies)
	s.center.Push(notify.LevelSuccess, resourcePolicies, "Policy uploaded", created.Title)
	return created, nil
}

// Approve marks a policy document as approved.
func (s *PolicyService) Approve(ctx context.Context, id string) (*domain.Policy, error) {
	approved, err := s.api.ApprovePolicy(ctx, id)
	if err != nil {
		s.logger.Error("Policy approval failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourcePolicies, "Approval failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourcePolicies)
	s.center.Push(notify.LevelSuccess, resourcePolicies, "Policy approved", approved.Title)
	return approved, nil
}
