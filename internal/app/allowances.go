package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/api"
	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/export"
	"github.com/paracurve/claimdesk/internal/fetch"
	"github.com/paracurve/claimdesk/internal/notify"
	"github.com/paracurve/claimdesk/internal/workflow"
)

// AllowanceService is the mutation and query surface for allowances. It
// mirrors ClaimService minus drafts; an allowance form is small enough to
// fill in one sitting.
type AllowanceService struct {
	api      *api.Client
	cache    *fetch.Store
	center   *notify.Center
	exporter *export.ExcelExporter
	logger   *zap.Logger
}

// NewAllowanceService creates a new AllowanceService.
func NewAllowanceService(
	client *api.Client,
	cache *fetch.Store,
	center *notify.Center,
	exporter *export.ExcelExporter,
	logger *zap.Logger,
) *AllowanceService {
	return &AllowanceService{
		api:      client,
		cache:    cache,
		center:   center,
		exporter: exporter,
		logger:   logger,
	}
}

// List returns all allowances visible to the caller, cache-served within
// the staleness window.
func (s *AllowanceService) List(ctx context.Context) ([]domain.Allowance, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Collection(resourceAllowances), s.api.ListAllowances)
}

// Get returns one allowance, or nil when it does not exist.
func (s *AllowanceService) Get(ctx context.Context, id string) (*domain.Allowance, error) {
	return fetch.Fetch(ctx, s.cache, fetch.Item(resourceAllowances, id), func(ctx context.Context) (*domain.Allowance, error) {
		return s.api.GetAllowance(ctx, id)
	})
}

// Submit validates the form input and creates the allowance.
func (s *AllowanceService) Submit(ctx context.Context, in domain.AllowanceInput) (*domain.Allowance, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created, err := s.api.CreateAllowance(ctx, in)
	if err != nil {
		s.logger.Error("Allowance submission failed", zap.Error(err))
		s.center.Push(notify.LevelError, resourceAllowances, "Allowance submission failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceAllowances)
	s.center.Push(notify.LevelSuccess, resourceAllowances, "Allowance submitted", created.Number)
	return created, nil
}

// Update replaces an allowance's editable fields.
func (s *AllowanceService) Update(ctx context.Context, id string, in domain.AllowanceInput) (*domain.Allowance, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateAllowance(ctx, id, in)
	if err != nil {
		s.logger.Error("Allowance update failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceAllowances, "Allowance update failed", err.Error())
		return nil, err
	}
	s.cache.InvalidateResource(resourceAllowances)
	s.center.Push(notify.LevelSuccess, resourceAllowances, "Allowance updated", updated.Number)
	return updated, nil
}

// Delete removes an allowance. The backend only permits this for drafts.
func (s *AllowanceService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteAllowance(ctx, id); err != nil {
		s.logger.Error("Allowance delete failed", zap.String("id", id), zap.Error(err))
		s.center.Push(notify.LevelError, resourceAllowances, "Allowance delete failed", err.Error())
		return err
	}
	s.cache.InvalidateResource(resourceAllowances)
	s.center.Push(notify.LevelSuccess, resourceAllowances, "Allowance deleted", id)
	return nil
}

// Transition reports a workflow action and returns the allowance as the
// backend now sees it. Cache entries are invalidated on success only.
func (s *AllowanceService) Transition(ctx context.Context, id string, action workflow.Action, comment string) (*domain.Allowance, error) {
	updated, err := s.api.RecordAllowanceTransition(ctx, id, api.TransitionInput{
		Action:  string(action),
		Comment: comment,
	})
	if err != nil {
		s.logger.Error("Allowance transition failed",
			zap.String("id", id),
			zap.String("action", string(action)),
			zap.Error(err))
		s.center.Push(notify.LevelError, resourceAllowances, "Action failed", err.Error())
		return nil, err
	}
	s.cache.Invalidate(fetch.Item(resourceAllowances, id))
	s.cache.Invalidate(fetch.Collection(resourceAllowances))
	s.center.Push(notify.LevelSuccess, resourceAllowances, "Allowance "+string(updated.Status),
		fmt.Sprintf("%s recorded on %s", action.Label(), updated.Number))
	return updated, nil
}

// Export writes the given allowances to an .xlsx report.
func (s *AllowanceService) Export(path string, rows []domain.Allowance) error {
	if err := s.exporter.WriteAllowances(path, rows); err != nil {
		s.center.Push(notify.LevelError, resourceAllowances, "Export failed", err.Error())
		return err
	}
	s.center.Push(notify.LevelSuccess, resourceAllowances, "Report written", path)
	return nil
}
