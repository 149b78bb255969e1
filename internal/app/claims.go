package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/api"
	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/export"
	"github.com/paracurve/claimdesk/internal/fetch"
	"github.com/paracurve/claimdesk/internal/localstore"
	"github.com/paracurve/claimdesk/internal/notify"
	"github.com/paracurve/claimdesk/internal/workflow"
)

// ClaimService is the mutation and query surface for reimbursement claims.
type ClaimService struct {
	api      *api.Client
	cache    *fetch.Store
	center   *notify.Center
	local    *localstore.Store
	exporter *export.ExcelExporter
	logger   *zap.Logger
}

// NewClaimService creates a new ClaimService.
func NewClaimService(
	client *api.Client,
	cache *fetch.Store,
	center *notify.Center,
	local *localstore.Store,
	exporter *export.ExcelExporter,
	logger *zap.Logger,
) *ClaimService {
	return &ClaimService{
		api:      client,
		cache:    cache,
		center:   center,
		local:    local,
		exporter: exporter,
		logger:   logger,
	}
}

// List returns all claims visible to the caller, served from cache within
// the staleness window.
func (s *ClaimService) List(ctx context.Context) ([]domain.Claim, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Collection(resourceClaims), s.api.ListClaims)
}

// Get returns one claim, or nil when it does not exist.
func (s *ClaimService) Get(ctx context.Context, id string) (*domain.Claim, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Item(resourceClaims, id), func(ctx context.Context) (*domain.Claim, error) {
		return s.api.GetClaim(ctx, id)
	})
}

// Submit validates the form input and creates the claim. Validation errors
// go back to the form; they never reach the notification center.
func (s *ClaimService) Submit(ctx context.Context, in domain.ClaimInput) (*domain.Claim, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created, err := s.api.CreateClaim(ctx, in)
	if err != nil {
		s.logger.Error("Claim submission failed", zap.Error(err))
		s.center.Push(notify.LevelError, resourceClaims, "Claim submission failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceClaims)
	s.center.Push(notify.LevelSuccess, resourceClaims, "Claim submitted", created.Number)
	return created, nil
}

// Update replaces a claim's editable fields.
func (s *ClaimService) Update(ctx context.Context, id string, in domain.ClaimInput) (*domain.Claim, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateClaim(ctx, id, in)
	if err != nil {
		s.logger.Error("Claim update failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceClaims, "Claim update failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceClaims)
	s.center.Push(notify.LevelSuccess, resourceClaims, "Claim updated", updated.Number)
	return updated, nil
}

// Delete removes a claim. The backend only permits this for drafts.
func (s *ClaimService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteClaim(ctx, id); err != nil {
		s.logger.Error("Claim delete failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceClaims, "Claim delete failed", err.Error())
		return err
	}
	s.cache.InvalidateResource(resourceClaims)
	s.center.Push(notify.LevelSuccess, resourceClaims, "Claim deleted", id)
	return nil
}

// Transition reports a workflow action to the backend and returns the claim
// as the backend now sees it. On success the claim's cache entries are
// invalidated; on failure the cache is left untouched so the UI keeps
// showing the last known state.
func (s *ClaimService) Transition(ctx context.Context, id string, action workflow.Action, comment string) (*domain.Claim, error) {
	updated, err := s.api.RecordClaimTransition(ctx, id, api.TransitionInput{
		Action:  string(action),
		Comment: comment,
	})
	if err != nil {
		s.logger.Error("Claim transition failed",
			zap.String("id", id),
			zap.String("action", string(action)),
			zap.Error(err))
		s.center.Push(notify.LevelError, resourceClaims, "Action failed", err.Error())
		return nil, err
	}
	s.cache.Invalidate(fetch.Item(resourceClaims, id))
	s.cache.Invalidate(fetch.Collection(resourceClaims))
	s.center.Push(notify.LevelSuccess, resourceClaims, "Claim "+string(updated.Status),
		fmt.Sprintf("%s recorded on %s", action.Label(), updated.Number))
	return updated, nil
}

// SaveDraft stores a not-yet-submitted claim form locally.
func (s *ClaimService) SaveDraft(draft domain.ClaimDraft) (domain.ClaimDraft, error) {
	return s.local.SaveDraft(draft)
}

// Drafts returns locally saved claim forms, newest first.
func (s *ClaimService) Drafts() ([]domain.ClaimDraft, error) {
	return s.local.Drafts()
}

// DeleteDraft removes a locally saved claim form.
func (s *ClaimService) DeleteDraft(id string) error {
	return s.local.DeleteDraft(id)
}

// Export writes the given claims to an .xlsx report. Callers pass the rows
// their current view shows, filters applied.
func (s *ClaimService) Export(path string, rows []domain.Claim) error {
	if err := s.exporter.WriteClaims(path, rows); err != nil {
		s.center.Push(notify.LevelError, resourceClaims, "Export failed", err.Error())
		return err
	}
	s.center.Push(notify.LevelSuccess, resourceClaims, "Report written", path)
	return nil
}
